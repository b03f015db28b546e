package pages

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/pages"
	"github.com/m04kA/SMC-BookingEngine/internal/service/pages/models"
	"github.com/m04kA/SMC-BookingEngine/pkg/logger"
)

type serviceFake struct {
	saved *models.SavePageRequest
	err   error
}

func (f *serviceFake) Get(_ context.Context, businessID int64) (*models.PageResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.PageResponse{BusinessID: businessID, Blocks: []models.BlockResponse{}}, nil
}

func (f *serviceFake) Save(_ context.Context, _ domain.Actor, businessID int64, req *models.SavePageRequest) (*models.PageResponse, error) {
	f.saved = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.PageResponse{BusinessID: businessID, Blocks: []models.BlockResponse{}}, nil
}

func (f *serviceFake) DeleteBlock(_ context.Context, _ domain.Actor, _, _ int64) error {
	return f.err
}

func do(svc *serviceFake, method, target, body string, withActor bool) *httptest.ResponseRecorder {
	h := NewHandler(svc, logger.Nop())
	router := mux.NewRouter()
	router.HandleFunc("/businesses/{id}/page", h.Get).Methods(http.MethodGet)
	router.HandleFunc("/businesses/{id}/page/blocks", h.Save).Methods(http.MethodPut)
	router.HandleFunc("/businesses/{id}/page/blocks/{blockId}", h.DeleteBlock).Methods(http.MethodDelete)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if withActor {
		req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{UserID: 10, Role: domain.RoleOwner}))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGet_Public(t *testing.T) {
	rec := do(&serviceFake{}, http.MethodGet, "/businesses/1/page", "", false)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"business_id":1,"blocks":[]}`, rec.Body.String())
}

func TestSave_PassesRawContent(t *testing.T) {
	svc := &serviceFake{}
	body := `{"blocks":[{"type":"hero","order":0,"content":{"title":"Welcome"}}]}`

	rec := do(svc, http.MethodPut, "/businesses/1/page/blocks", body, true)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.saved.Blocks, 1)
	assert.JSONEq(t, `{"title":"Welcome"}`, string(svc.saved.Blocks[0].Content))
}

func TestSave_Errors(t *testing.T) {
	v := domain.NewValidationError()
	v.Add("blocks.0.type", "must be one of hero, services, about, contact")

	assert.Equal(t, http.StatusUnauthorized, do(&serviceFake{}, http.MethodPut, "/businesses/1/page/blocks", `{"blocks":[]}`, false).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(&serviceFake{err: v}, http.MethodPut, "/businesses/1/page/blocks", `{"blocks":[{"type":"x"}]}`, true).Code)
}

func TestDeleteBlock(t *testing.T) {
	assert.Equal(t, http.StatusNoContent, do(&serviceFake{}, http.MethodDelete, "/businesses/1/page/blocks/4", "", true).Code)
	assert.Equal(t, http.StatusNotFound, do(&serviceFake{err: pages.ErrBlockNotFound}, http.MethodDelete, "/businesses/1/page/blocks/4", "", true).Code)
}
