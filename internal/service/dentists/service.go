package dentists

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DentalService/internal/cache"
	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/internal/filter"
	"github.com/m04kA/SMC-DentalService/internal/service/dentists/models"
	"github.com/m04kA/SMC-DentalService/internal/workschedule"
)

const scheduleArgs = "all"

// Service сервис стоматологов и их недельных расписаний
type Service struct {
	dentistRepo DentistRepository
	cache       *cache.Coordinator
	metrics     MetricsRecorder
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса стоматологов
func NewService(
	dentistRepo DentistRepository,
	cacheCoordinator *cache.Coordinator,
	metrics MetricsRecorder,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		dentistRepo: dentistRepo,
		cache:       cacheCoordinator,
		metrics:     metrics,
		txManager:   txManager,
		logger:      logger,
	}
}

// GetByID получает стоматолога по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Dentist, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	}

	d, err := cache.Load(ctx, s.cache, cache.ByID(cache.RegionDentistByID, id),
		func(ctx context.Context) (*domain.Dentist, error) {
			return s.dentistRepo.GetByID(ctx, id)
		})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("GetByID: dentist id=%d not found", id)
			return nil, fmt.Errorf("%w: id=%d", ErrDentistNotFound, id)
		}
		s.logger.Error("GetByID: repository error for dentist id=%d: %v", id, err)
		return nil, repoError("GetByID", err)
	}

	c := *d
	return &c, nil
}

// List получает стоматологов по фильтру, по имени
func (s *Service) List(ctx context.Context, req *models.ListRequest) ([]*domain.Dentist, error) {
	f, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	key := f.CacheKey()
	s.logger.Info("List: fetching dentists %s", key)

	items, err := cache.Load(ctx, s.cache, cache.Query(cache.RegionDentistList, key),
		func(ctx context.Context) ([]*domain.Dentist, error) {
			return s.dentistRepo.List(ctx, filter.Dentists(f))
		})
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, repoError("List", err)
	}

	result := make([]*domain.Dentist, len(items))
	for i, d := range items {
		c := *d
		result[i] = &c
	}
	return result, nil
}

// ListSchedule недельное расписание стоматолога, с понедельника
func (s *Service) ListSchedule(ctx context.Context, dentistID int64) ([]domain.ScheduleEntry, error) {
	if _, err := s.GetByID(ctx, dentistID); err != nil {
		return nil, err
	}

	entries, err := cache.Load(ctx, s.cache, cache.Scoped(cache.RegionDentistSchedule, dentistID, scheduleArgs),
		func(ctx context.Context) ([]domain.ScheduleEntry, error) {
			return s.dentistRepo.ListSchedule(ctx, dentistID)
		})
	if err != nil {
		s.logger.Error("ListSchedule: repository error for dentist id=%d: %v", dentistID, err)
		return nil, repoError("ListSchedule", err)
	}

	return append([]domain.ScheduleEntry(nil), entries...), nil
}

// AddScheduleEntry добавляет рабочее окно стоматологу
// Правила: конец позже начала, окно не короче 8 часов, одно окно на день недели
func (s *Service) AddScheduleEntry(ctx context.Context, dentistID int64, req *models.ScheduleEntryRequest) (*domain.ScheduleEntry, error) {
	s.logger.Info("AddScheduleEntry: dentist=%d, weekday=%s, %s-%s", dentistID, req.Weekday, req.StartTime, req.EndTime)

	entry, err := req.ToDomain(dentistID)
	if err != nil {
		s.logger.Warn("AddScheduleEntry: invalid request: %v", err)
		s.metrics.ObserveMutation(string(cache.MutationScheduleAdd), "validation")
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var created domain.ScheduleEntry
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.lockActive(txCtx, "AddScheduleEntry", dentistID); err != nil {
			return err
		}

		existing, err := s.dentistRepo.ListSchedule(txCtx, dentistID)
		if err != nil {
			s.logger.Error("AddScheduleEntry: failed to get schedule: %v", err)
			return repoError("AddScheduleEntry", err)
		}

		if err := workschedule.Validate(entry, existing); err != nil {
			s.logger.Warn("AddScheduleEntry: %v", err)
			return err
		}

		created, err = s.dentistRepo.AddScheduleEntry(txCtx, entry)
		if err != nil {
			if errors.Is(err, domain.ErrConflict) {
				s.logger.Warn("AddScheduleEntry: weekday %s taken concurrently: %v", entry.Weekday, err)
				return fmt.Errorf("%w: %s", ErrWeekdayTaken, entry.Weekday)
			}
			s.logger.Error("AddScheduleEntry: failed to add entry: %v", err)
			return repoError("AddScheduleEntry", err)
		}
		return nil
	})
	err = s.finish(ctx, cache.MutationScheduleAdd, dentistID, err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("AddScheduleEntry: created entry id=%d for dentist=%d", created.ID, dentistID)
	return &created, nil
}

// RemoveScheduleEntry удаляет рабочее окно стоматолога
func (s *Service) RemoveScheduleEntry(ctx context.Context, dentistID, entryID int64) error {
	s.logger.Info("RemoveScheduleEntry: dentist=%d, entry=%d", dentistID, entryID)

	if dentistID <= 0 || entryID <= 0 {
		s.metrics.ObserveMutation(string(cache.MutationScheduleRemove), "validation")
		return fmt.Errorf("%w: ids must be positive", ErrInvalidInput)
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.dentistRepo.RemoveScheduleEntry(txCtx, dentistID, entryID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				s.logger.Warn("RemoveScheduleEntry: entry id=%d of dentist=%d not found", entryID, dentistID)
				return fmt.Errorf("%w: dentist=%d entry=%d", ErrScheduleEntryNotFound, dentistID, entryID)
			}
			s.logger.Error("RemoveScheduleEntry: failed to remove entry: %v", err)
			return repoError("RemoveScheduleEntry", err)
		}
		return nil
	})

	return s.finish(ctx, cache.MutationScheduleRemove, dentistID, err)
}

// Deactivate деактивирует стоматолога и удаляет всё его расписание
// Повторная деактивация ничего не меняет
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	s.logger.Info("Deactivate: dentist=%d", id)

	if id <= 0 {
		s.metrics.ObserveMutation(string(cache.MutationDentistDeactivate), "validation")
		return fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	}

	var removed int64
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if _, err := s.lock(txCtx, "Deactivate", id); err != nil {
			return err
		}

		if err := s.dentistRepo.Deactivate(txCtx, id); err != nil {
			s.logger.Error("Deactivate: failed to deactivate dentist id=%d: %v", id, err)
			return repoError("Deactivate", err)
		}

		var err error
		removed, err = s.dentistRepo.ClearSchedule(txCtx, id)
		if err != nil {
			s.logger.Error("Deactivate: failed to clear schedule of dentist id=%d: %v", id, err)
			return repoError("Deactivate", err)
		}
		return nil
	})
	if err := s.finish(ctx, cache.MutationDentistDeactivate, id, err); err != nil {
		return err
	}

	s.logger.Info("Deactivate: dentist id=%d deactivated, %d schedule entries removed", id, removed)
	return nil
}

func (s *Service) lock(ctx context.Context, op string, id int64) (*domain.Dentist, error) {
	d, err := s.dentistRepo.GetByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("%s: dentist id=%d not found", op, id)
			return nil, fmt.Errorf("%w: id=%d", ErrDentistNotFound, id)
		}
		s.logger.Error("%s: failed to lock dentist id=%d: %v", op, id, err)
		return nil, repoError(op, err)
	}
	return d, nil
}

func (s *Service) lockActive(ctx context.Context, op string, id int64) error {
	d, err := s.lock(ctx, op, id)
	if err != nil {
		return err
	}
	if !d.Active {
		s.logger.Warn("%s: dentist id=%d is inactive", op, id)
		return fmt.Errorf("%w: id=%d", ErrDentistInactive, id)
	}
	return nil
}

// finish учитывает результат мутации и после успешной фиксации сбрасывает кэш
func (s *Service) finish(ctx context.Context, m cache.Mutation, dentistID int64, err error) error {
	if err != nil && domain.Kind(err) == nil && !errors.Is(err, ErrInternal) {
		err = repoError(string(m), err)
	}

	s.metrics.ObserveMutation(string(m), resultLabel(err))
	if err != nil {
		return err
	}

	s.cache.Apply(ctx, m, dentistID)
	return nil
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	switch domain.Kind(err) {
	case domain.ErrValidation:
		return "validation"
	case domain.ErrConflict:
		return "conflict"
	case domain.ErrNotFound:
		return "not_found"
	case domain.ErrTransientStore:
		return "unavailable"
	default:
		return "error"
	}
}
