package treatments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DentalService/internal/cache"
	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/internal/filter"
	"github.com/m04kA/SMC-DentalService/internal/service/treatments/models"
)

// Service сервис каталога процедур (только чтение)
type Service struct {
	treatmentRepo TreatmentRepository
	cache         *cache.Coordinator
	logger        Logger
}

// NewService создает новый экземпляр сервиса процедур
func NewService(treatmentRepo TreatmentRepository, cacheCoordinator *cache.Coordinator, logger Logger) *Service {
	return &Service{
		treatmentRepo: treatmentRepo,
		cache:         cacheCoordinator,
		logger:        logger,
	}
}

// GetByID получает процедуру по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Treatment, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	}

	t, err := cache.Load(ctx, s.cache, cache.ByID(cache.RegionTreatmentByID, id),
		func(ctx context.Context) (*domain.Treatment, error) {
			return s.treatmentRepo.GetByID(ctx, id)
		})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("GetByID: treatment id=%d not found", id)
			return nil, fmt.Errorf("%w: id=%d", ErrTreatmentNotFound, id)
		}
		s.logger.Error("GetByID: repository error for treatment id=%d: %v", id, err)
		return nil, repoError("GetByID", err)
	}

	c := *t
	return &c, nil
}

// List получает процедуры по фильтру, по названию
func (s *Service) List(ctx context.Context, req *models.ListRequest) ([]*domain.Treatment, error) {
	f, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	items, err := cache.Load(ctx, s.cache, cache.Query(cache.RegionTreatmentList, f.CacheKey()),
		func(ctx context.Context) ([]*domain.Treatment, error) {
			return s.treatmentRepo.List(ctx, filter.Treatments(f))
		})
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, repoError("List", err)
	}

	result := make([]*domain.Treatment, len(items))
	for i, t := range items {
		c := *t
		result[i] = &c
	}
	return result, nil
}

func repoError(op string, err error) error {
	if errors.Is(err, domain.ErrTransientStore) {
		return fmt.Errorf("%w: %s - repository error: %v", ErrStoreUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}
