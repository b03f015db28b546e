package pages

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/pages/models"
	"github.com/m04kA/SMC-BookingEngine/pkg/logger"
	"github.com/m04kA/SMC-BookingEngine/pkg/ptr"
)

var errNoTx = errors.New("replace outside transaction")

type txKey struct{}

type txManagerFake struct {
	calls int
}

func (m *txManagerFake) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(context.WithValue(ctx, txKey{}, true))
}

type pageRepoFake struct {
	blocks map[int64]domain.Block
	nextID int64
}

func (r *pageRepoFake) ListBlocks(_ context.Context, businessID int64) ([]domain.Block, error) {
	out := make([]domain.Block, 0)
	for _, b := range r.blocks {
		if b.BusinessID == businessID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *pageRepoFake) ReplaceBlocks(ctx context.Context, businessID int64, blocks []domain.Block) error {
	if ctx.Value(txKey{}) == nil {
		return errNoTx
	}
	keep := map[int64]bool{}
	for i := range blocks {
		if blocks[i].ID == 0 {
			r.nextID++
			blocks[i].ID = r.nextID
		} else if existing, ok := r.blocks[blocks[i].ID]; !ok || existing.BusinessID != businessID {
			return fmt.Errorf("block %w", domain.ErrNotFound)
		}
		r.blocks[blocks[i].ID] = blocks[i]
		keep[blocks[i].ID] = true
	}
	for id, b := range r.blocks {
		if b.BusinessID == businessID && !keep[id] {
			delete(r.blocks, id)
		}
	}
	return nil
}

func (r *pageRepoFake) DeleteBlock(_ context.Context, businessID, blockID int64) error {
	b, ok := r.blocks[blockID]
	if !ok || b.BusinessID != businessID {
		return fmt.Errorf("block %w", domain.ErrNotFound)
	}
	delete(r.blocks, blockID)
	return nil
}

type guardFake struct{}

func (guardFake) Business(_ context.Context, businessID int64) (*domain.Business, error) {
	return &domain.Business{ID: businessID, OwnerID: 10}, nil
}

func (g guardFake) Authorize(ctx context.Context, actor domain.Actor, businessID int64) (*domain.Business, error) {
	b, _ := g.Business(ctx, businessID)
	if !actor.CanManage(b) {
		return nil, fmt.Errorf("access %w", domain.ErrForbidden)
	}
	return b, nil
}

var owner = domain.Actor{UserID: 10, Role: domain.RoleOwner}

func newService() (*Service, *pageRepoFake, *txManagerFake) {
	repo := &pageRepoFake{blocks: map[int64]domain.Block{}}
	tx := &txManagerFake{}
	return NewService(repo, tx, guardFake{}, logger.Nop()), repo, tx
}

func block(id *int64, typ string, order int, content string) models.BlockRequest {
	return models.BlockRequest{ID: id, Type: typ, Order: order, Content: json.RawMessage(content)}
}

func TestSave_ReplacesAndKeepsIDs(t *testing.T) {
	svc, repo, tx := newService()
	ctx := context.Background()

	first, err := svc.Save(ctx, owner, 1, &models.SavePageRequest{Blocks: []models.BlockRequest{
		block(nil, "hero", 0, `{"title":"Welcome"}`),
		block(nil, "about", 1, `{"title":"About us","text":"Since 1999"}`),
	}})
	require.NoError(t, err)
	require.Len(t, first.Blocks, 2)
	heroID := first.Blocks[0].ID

	second, err := svc.Save(ctx, owner, 1, &models.SavePageRequest{Blocks: []models.BlockRequest{
		block(nil, "services", 0, `{}`),
		block(ptr.Ptr(heroID), "hero", 1, `{"title":"Hello"}`),
	}})
	require.NoError(t, err)
	assert.Equal(t, 2, tx.calls)

	require.Len(t, second.Blocks, 2)
	assert.Equal(t, domain.BlockServices, second.Blocks[0].Type)
	assert.Equal(t, heroID, second.Blocks[1].ID)
	assert.Equal(t, domain.HeroContent{Title: "Hello"}, second.Blocks[1].Content)
	assert.Len(t, repo.blocks, 2, "the about block is removed")
}

func TestSave_Validation(t *testing.T) {
	tests := []struct {
		name  string
		block models.BlockRequest
		field string
	}{
		{name: "unknown type", block: block(nil, "gallery", 0, `{}`), field: "blocks.0.content"},
		{name: "unknown key", block: block(nil, "hero", 0, `{"title":"x","color":"red"}`), field: "blocks.0.content"},
		{name: "hero without title", block: block(nil, "hero", 0, `{}`), field: "blocks.0.content.title"},
		{name: "about without text", block: block(nil, "about", 0, `{"title":"About"}`), field: "blocks.0.content.text"},
		{name: "empty contact", block: block(nil, "contact", 0, `{}`), field: "blocks.0.content"},
		{name: "bad hero image", block: block(nil, "hero", 0, `{"title":"x","image_url":"javascript:alert(1)"}`), field: "blocks.0.content.image_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, tx := newService()

			_, err := svc.Save(context.Background(), owner, 1, &models.SavePageRequest{Blocks: []models.BlockRequest{tt.block}})
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			fields, ok := domain.FieldErrors(err)
			require.True(t, ok)
			assert.Contains(t, fields, tt.field)
			assert.Empty(t, repo.blocks)
			assert.Zero(t, tx.calls)
		})
	}
}

func TestSave_TooManyBlocks(t *testing.T) {
	svc, _, _ := newService()

	blocks := make([]models.BlockRequest, domain.MaxBlocksPerPage+1)
	for i := range blocks {
		blocks[i] = block(nil, "services", i, `{}`)
	}
	_, err := svc.Save(context.Background(), owner, 1, &models.SavePageRequest{Blocks: blocks})
	fields, ok := domain.FieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fields, "blocks")
}

func TestSave_ForeignBlockID(t *testing.T) {
	svc, repo, _ := newService()
	repo.blocks[5] = domain.Block{ID: 5, BusinessID: 2, Type: domain.BlockServices, Content: domain.ServicesContent{}}

	_, err := svc.Save(context.Background(), owner, 1, &models.SavePageRequest{Blocks: []models.BlockRequest{
		block(ptr.Ptr(int64(5)), "services", 0, `{}`),
	}})
	assert.ErrorIs(t, err, ErrBlockNotFound)
}

func TestGetAndDeleteBlock(t *testing.T) {
	svc, repo, _ := newService()
	repo.blocks[1] = domain.Block{ID: 1, BusinessID: 1, Type: domain.BlockAbout, Order: 2}
	repo.blocks[2] = domain.Block{ID: 2, BusinessID: 1, Type: domain.BlockHero, Order: 1}

	page, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, page.Blocks, 2)
	assert.Equal(t, int64(2), page.Blocks[0].ID)

	require.NoError(t, svc.DeleteBlock(context.Background(), owner, 1, 1))
	err = svc.DeleteBlock(context.Background(), owner, 1, 1)
	assert.ErrorIs(t, err, ErrBlockNotFound)
}
