package treatments

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DentalService/internal/cache"
	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/internal/filter"
	"github.com/m04kA/SMC-DentalService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-DentalService/internal/service/treatments/models"
	"github.com/m04kA/SMC-DentalService/pkg/logger"
	"github.com/m04kA/SMC-DentalService/pkg/ptr"
)

func newService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()

	store := memory.NewStore()
	store.AddTreatment(domain.Treatment{Name: "Cleaning", TreatmentTypeID: 1, Cost: 50, DurationMinutes: 40, Active: true})
	store.AddTreatment(domain.Treatment{Name: "Root canal", TreatmentTypeID: 2, Cost: 300, DurationMinutes: 90, Active: true})
	store.AddTreatment(domain.Treatment{Name: "Braces fitting", TreatmentTypeID: 3, Cost: 900, DurationMinutes: 120})

	c := cache.New(cache.Config{TTL: time.Hour, MaxEntries: 100})
	return NewService(memory.NewTreatmentRepository(store), c, logger.Nop()), store
}

func names(items []*domain.Treatment) []string {
	result := make([]string, 0, len(items))
	for _, t := range items {
		result = append(result, t.Name)
	}
	return result
}

func TestList(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  models.ListRequest
		want []string
	}{
		{name: "all by name", req: models.ListRequest{}, want: []string{"Braces fitting", "Cleaning", "Root canal"}},
		{name: "active only", req: models.ListRequest{Active: ptr.Ptr(true)}, want: []string{"Cleaning", "Root canal"}},
		{name: "name substring", req: models.ListRequest{Name: ptr.Ptr("CANAL")}, want: []string{"Root canal"}},
		{name: "type", req: models.ListRequest{TreatmentTypeID: ptr.Ptr(int64(3))}, want: []string{"Braces fitting"}},
		{name: "no match", req: models.ListRequest{Name: ptr.Ptr("whitening")}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := svc.List(ctx, &tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(items))
		})
	}
}

func TestList_Cached(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	first, err := svc.List(ctx, &models.ListRequest{})
	require.NoError(t, err)
	reads := store.Reads()

	second, err := svc.List(ctx, &models.ListRequest{})
	require.NoError(t, err)
	assert.Equal(t, reads, store.Reads())
	assert.Equal(t, names(first), names(second))

	// Вызывающий не может испортить закэшированное значение
	second[0].Name = "mutated"
	third, err := svc.List(ctx, &models.ListRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Braces fitting", third[0].Name)
}

func TestGetByID(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	all, err := svc.List(ctx, &models.ListRequest{Name: ptr.Ptr("cleaning")})
	require.NoError(t, err)
	require.Len(t, all, 1)

	got, err := svc.GetByID(ctx, all[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 40, got.DurationMinutes)

	_, err = svc.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrTreatmentNotFound)

	_, err = svc.GetByID(ctx, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

type failingRepo struct{ err error }

func (r failingRepo) GetByID(context.Context, int64) (*domain.Treatment, error) { return nil, r.err }

func (r failingRepo) List(context.Context, filter.Predicate[*domain.Treatment]) ([]*domain.Treatment, error) {
	return nil, r.err
}

func TestRepositoryErrors(t *testing.T) {
	ctx := context.Background()

	svc := NewService(failingRepo{err: fmt.Errorf("%w: timeout", domain.ErrTransientStore)}, nil, logger.Nop())
	_, err := svc.List(ctx, &models.ListRequest{})
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	svc = NewService(failingRepo{err: errors.New("syntax error")}, nil, logger.Nop())
	_, err = svc.GetByID(ctx, 1)
	assert.ErrorIs(t, err, ErrInternal)
}
