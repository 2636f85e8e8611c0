package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prettystyles/booking-api/internal/model"
	apperrors "github.com/prettystyles/booking-api/pkg/errors"
)

type countingRepo struct {
	services map[string]*model.CatalogService
	getCalls int
	listCalls int
}

func (r *countingRepo) Get(_ context.Context, id string) (*model.CatalogService, error) {
	r.getCalls++
	svc, ok := r.services[id]
	if !ok {
		return nil, apperrors.NewNotFound("catalog service", nil)
	}
	return svc, nil
}

func (r *countingRepo) List(_ context.Context) ([]*model.CatalogService, error) {
	r.listCalls++
	out := make([]*model.CatalogService, 0, len(r.services))
	for _, svc := range r.services {
		out = append(out, svc)
	}
	return out, nil
}

func newCountingRepo() *countingRepo {
	return &countingRepo{services: map[string]*model.CatalogService{
		"knotless-medium": {ID: "knotless-medium", Name: "Medium Knotless Braids", Duration: "5-6 hours", Price: 130},
		"box-small":       {ID: "box-small", Name: "Small Box Braids", Duration: "6-8 hours", Price: 160},
	}}
}

func TestGetService_Caches(t *testing.T) {
	repo := newCountingRepo()
	svc := NewService(repo)

	first, err := svc.GetService(context.Background(), "knotless-medium")
	require.NoError(t, err)
	second, err := svc.GetService(context.Background(), "knotless-medium")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 130.0, first.Price)
	assert.Equal(t, 1, repo.getCalls)
}

func TestGetService_Unknown(t *testing.T) {
	svc := NewService(newCountingRepo())

	_, err := svc.GetService(context.Background(), "perm")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestListServices_Caches(t *testing.T) {
	repo := newCountingRepo()
	svc := NewService(repo)

	first, err := svc.ListServices(context.Background())
	require.NoError(t, err)
	_, err = svc.ListServices(context.Background())
	require.NoError(t, err)

	assert.Len(t, first, 2)
	assert.Equal(t, 1, repo.listCalls)
}

func TestSlotLabels(t *testing.T) {
	svc := NewService(newCountingRepo())

	labels := svc.SlotLabels()
	assert.Equal(t, []string{"9:00 AM", "11:00 AM", "1:00 PM", "3:00 PM", "5:00 PM"}, labels)
}
