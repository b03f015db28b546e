package businesses

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	businessRepo "github.com/m04kA/SMC-BookingEngine/internal/infra/storage/business"
	"github.com/m04kA/SMC-BookingEngine/internal/service/businesses/models"
	"github.com/m04kA/SMC-BookingEngine/pkg/logger"
	"github.com/m04kA/SMC-BookingEngine/pkg/ptr"
)

type repoFake struct {
	byID   map[int64]*domain.Business
	nextID int64
}

func newRepoFake() *repoFake {
	return &repoFake{byID: map[int64]*domain.Business{}}
}

func (r *repoFake) Create(_ context.Context, b *domain.Business) (*domain.Business, error) {
	for _, existing := range r.byID {
		if existing.Slug == b.Slug {
			return nil, businessRepo.ErrSlugTaken
		}
	}
	r.nextID++
	b.ID = r.nextID
	r.byID[b.ID] = b
	return b, nil
}

func (r *repoFake) GetByID(_ context.Context, id int64) (*domain.Business, error) {
	b, ok := r.byID[id]
	if !ok {
		return nil, businessRepo.ErrBusinessNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *repoFake) GetBySlug(_ context.Context, slug string) (*domain.Business, error) {
	for _, b := range r.byID {
		if b.Slug == slug {
			return b, nil
		}
	}
	return nil, businessRepo.ErrBusinessNotFound
}

func (r *repoFake) List(_ context.Context, ownerID *int64) ([]*domain.Business, error) {
	out := make([]*domain.Business, 0)
	for id := int64(1); id <= r.nextID; id++ {
		b, ok := r.byID[id]
		if ok && (ownerID == nil || b.OwnerID == *ownerID) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *repoFake) Update(_ context.Context, b *domain.Business) (*domain.Business, error) {
	if _, ok := r.byID[b.ID]; !ok {
		return nil, businessRepo.ErrBusinessNotFound
	}
	r.byID[b.ID] = b
	return b, nil
}

func (r *repoFake) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return businessRepo.ErrBusinessNotFound
	}
	delete(r.byID, id)
	return nil
}

type guardFake struct {
	repo *repoFake
}

func (g guardFake) Authorize(ctx context.Context, actor domain.Actor, businessID int64) (*domain.Business, error) {
	b, err := g.repo.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(b) {
		return nil, fmt.Errorf("access %w", domain.ErrForbidden)
	}
	return b, nil
}

var (
	alice = domain.Actor{UserID: 1, Role: domain.RoleOwner}
	bob   = domain.Actor{UserID: 2, Role: domain.RoleOwner}
	admin = domain.Actor{UserID: 3, Role: domain.RoleSuperadmin}
)

func newService() (*Service, *repoFake) {
	repo := newRepoFake()
	return NewService(repo, guardFake{repo: repo}, logger.Nop()), repo
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple", in: "Barber Shop", want: "barber-shop"},
		{name: "accents", in: "Peluquería Ñandú", want: "peluqueria-nandu"},
		{name: "punctuation", in: "  Nails & Co. -- 24/7 ", want: "nails-co-24-7"},
		{name: "nothing usable", in: "!!!", want: "business"},
		{name: "long", in: strings.Repeat("ab ", 60), want: strings.TrimRight(strings.Repeat("ab-", 34), "-")[:100]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.in)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), maxSlugLength)
		})
	}
}

func TestCreate_SlugSuffix(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	first, err := svc.Create(ctx, alice, &models.CreateBusinessRequest{Name: "Barber Shop"})
	require.NoError(t, err)
	assert.Equal(t, "barber-shop", first.Slug)
	assert.Equal(t, int64(1), first.OwnerID)

	second, err := svc.Create(ctx, bob, &models.CreateBusinessRequest{Name: "Barber  shop!"})
	require.NoError(t, err)
	assert.Equal(t, "barber-shop-2", second.Slug)

	third, err := svc.Create(ctx, bob, &models.CreateBusinessRequest{Name: "barber shop"})
	require.NoError(t, err)
	assert.Equal(t, "barber-shop-3", third.Slug)
}

func TestCreate_Validation(t *testing.T) {
	svc, repo := newService()

	_, err := svc.Create(context.Background(), alice, &models.CreateBusinessRequest{
		Name:        " ab ",
		Description: ptr.Ptr(strings.Repeat("x", domain.MaxDescriptionLength+1)),
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	fields, ok := domain.FieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "description")
	assert.Empty(t, repo.byID)
}

func TestList_ScopedToOwner(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, alice, &models.CreateBusinessRequest{Name: "Alice Nails"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, bob, &models.CreateBusinessRequest{Name: "Bob Cuts"})
	require.NoError(t, err)

	resp, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Alice Nails", resp.Data[0].Name)

	resp, err = svc.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, resp.Data, 2)
}

func TestUpdate_KeepsSlug(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, alice, &models.CreateBusinessRequest{Name: "Alice Nails"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, alice, created.ID, &models.UpdateBusinessRequest{Name: ptr.Ptr("Alice Beauty")})
	require.NoError(t, err)
	assert.Equal(t, "Alice Beauty", updated.Name)
	assert.Equal(t, "alice-nails", updated.Slug)

	_, err = svc.Update(ctx, bob, created.ID, &models.UpdateBusinessRequest{Name: ptr.Ptr("Hijacked")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestGetBySlugAndDelete(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, alice, &models.CreateBusinessRequest{Name: "Alice Nails"})
	require.NoError(t, err)

	found, err := svc.GetBySlug(ctx, "alice-nails")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	require.NoError(t, svc.Delete(ctx, admin, created.ID))

	_, err = svc.GetBySlug(ctx, "alice-nails")
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}
