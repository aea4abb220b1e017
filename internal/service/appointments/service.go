package appointments

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-DentalService/internal/cache"
	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/internal/filter"
	"github.com/m04kA/SMC-DentalService/internal/service/appointments/models"
)

// Config параметры пагинации
type Config struct {
	DefaultPageLimit int
	MaxPageLimit     int
}

// Service сервис чтения записей и смены их статуса
type Service struct {
	appointmentRepo AppointmentRepository
	cache           *cache.Coordinator
	notifier        Notifier
	metrics         MetricsRecorder
	txManager       TransactionManager
	timeProvider    TimeProvider
	config          Config
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	cacheCoordinator *cache.Coordinator,
	notifier Notifier,
	metrics MetricsRecorder,
	txManager TransactionManager,
	config Config,
	logger Logger,
) *Service {
	if config.DefaultPageLimit <= 0 {
		config.DefaultPageLimit = domain.DefaultPageLimit
	}
	if config.MaxPageLimit <= 0 {
		config.MaxPageLimit = domain.MaxPageLimit
	}

	return &Service{
		appointmentRepo: appointmentRepo,
		cache:           cacheCoordinator,
		notifier:        notifier,
		metrics:         metrics,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		config:          config,
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	}

	a, err := cache.Load(ctx, s.cache, cache.ByID(cache.RegionAppointmentByID, id),
		func(ctx context.Context) (*domain.Appointment, error) {
			return s.appointmentRepo.GetByID(ctx, id)
		})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, fmt.Errorf("%w: id=%d", ErrAppointmentNotFound, id)
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, repoError("GetByID", err)
	}

	return a.Clone(), nil
}

// List получает записи по фильтру, от новых к старым
// Любая комбинация полей фильтра допустима; пустой фильтр возвращает все записи
func (s *Service) List(ctx context.Context, req *models.ListRequest) ([]*domain.Appointment, error) {
	f, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, filterError(err)
	}

	key := f.CacheKey()
	s.logger.Info("List: fetching appointments %s", key)

	items, err := cache.Load(ctx, s.cache, cache.Query(cache.RegionAppointmentList, key),
		func(ctx context.Context) ([]*domain.Appointment, error) {
			return s.appointmentRepo.List(ctx, filter.Appointments(f))
		})
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, repoError("List", err)
	}

	s.logger.Info("List: fetched %d appointments", len(items))
	return cloneAll(items), nil
}

// ListPage получает страницу записей по фильтру и общее число подходящих записей
func (s *Service) ListPage(ctx context.Context, req *models.PageRequest) (*domain.PagedAppointments, error) {
	f, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListPage: invalid filter: %v", err)
		return nil, filterError(err)
	}

	p, err := s.page(req.Limit, req.Offset)
	if err != nil {
		s.logger.Warn("ListPage: %v", err)
		return nil, err
	}

	key := cache.Query(cache.RegionAppointmentPage, f.CacheKey(),
		"limit="+strconv.Itoa(p.Limit), "offset="+strconv.Itoa(p.Offset))

	result, err := cache.Load(ctx, s.cache, key, func(ctx context.Context) (*domain.PagedAppointments, error) {
		paged := &domain.PagedAppointments{Limit: p.Limit, Offset: p.Offset}
		// Количество и страница читаются из одного снимка
		err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
			var err error
			paged.Items, paged.Total, err = s.appointmentRepo.ListPage(txCtx, filter.Appointments(f), p)
			return err
		})
		return paged, err
	})
	if err != nil {
		s.logger.Error("ListPage: repository error: %v", err)
		return nil, repoError("ListPage", err)
	}

	return &domain.PagedAppointments{
		Items:  cloneAll(result.Items),
		Total:  result.Total,
		Limit:  result.Limit,
		Offset: result.Offset,
	}, nil
}

// Attend отмечает ожидающий приём как состоявшийся
func (s *Service) Attend(ctx context.Context, id int64) (*domain.Appointment, error) {
	s.logger.Info("Attend: appointment id=%d", id)

	a, err := s.transition(ctx, "Attend", id, func(a *domain.Appointment) error {
		if err := a.Attend(s.timeProvider.Now()); err != nil {
			return fmt.Errorf("%w: id=%d status=%s: %w", ErrCannotAttend, a.ID, a.Status, err)
		}
		return nil
	})
	s.metrics.ObserveMutation(string(cache.MutationAttend), resultLabel(err))
	if err != nil {
		return nil, err
	}

	s.cache.Apply(ctx, cache.MutationAttend, a.ID)

	if err := s.notifier.NotifyAttended(ctx, a); err != nil {
		s.logger.Warn("Attend: failed to notify about appointment id=%d: %v", a.ID, err)
	}

	s.logger.Info("Attend: appointment id=%d attended", a.ID)
	return a, nil
}

// Cancel отменяет ожидающий приём с указанием причины
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelRequest) (*domain.Appointment, error) {
	s.logger.Info("Cancel: appointment id=%d", id)

	a, err := s.transition(ctx, "Cancel", id, func(a *domain.Appointment) error {
		err := a.Cancel(req.Reason, s.timeProvider.Now())
		if errors.Is(err, domain.ErrInvalidTransition) {
			return fmt.Errorf("%w: id=%d status=%s: %w", ErrCannotCancel, a.ID, a.Status, err)
		}
		return err
	})
	s.metrics.ObserveMutation(string(cache.MutationCancel), resultLabel(err))
	if err != nil {
		return nil, err
	}

	s.cache.Apply(ctx, cache.MutationCancel, a.ID)

	if err := s.notifier.NotifyCancelled(ctx, a); err != nil {
		s.logger.Warn("Cancel: failed to notify about appointment id=%d: %v", a.ID, err)
	}

	s.logger.Info("Cancel: appointment id=%d cancelled", a.ID)
	return a, nil
}

// transition блокирует запись, применяет переход и сохраняет её, если статус не изменился параллельно
func (s *Service) transition(ctx context.Context, op string, id int64, apply func(a *domain.Appointment) error) (*domain.Appointment, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	}

	var result *domain.Appointment
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		a, err := s.appointmentRepo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				s.logger.Warn("%s: appointment id=%d not found", op, id)
				return fmt.Errorf("%w: id=%d", ErrAppointmentNotFound, id)
			}
			s.logger.Error("%s: failed to lock appointment id=%d: %v", op, id, err)
			return repoError(op, err)
		}

		expected := a.Status
		if err := apply(a); err != nil {
			s.logger.Warn("%s: %v", op, err)
			return err
		}

		if err := s.appointmentRepo.Update(txCtx, a, expected); err != nil {
			s.logger.Error("%s: failed to update appointment id=%d: %v", op, id, err)
			return repoError(op, err)
		}

		result = a
		return nil
	})
	if err != nil {
		if domain.Kind(err) == nil && !errors.Is(err, ErrInternal) {
			return nil, repoError(op, err)
		}
		return nil, err
	}

	return result, nil
}

func (s *Service) page(limit, offset int) (domain.Page, error) {
	if limit == 0 {
		limit = s.config.DefaultPageLimit
	}
	if limit < 0 || limit > s.config.MaxPageLimit {
		return domain.Page{}, fmt.Errorf("%w: limit must be in 1..%d, got %d", ErrInvalidPage, s.config.MaxPageLimit, limit)
	}
	if offset < 0 {
		return domain.Page{}, fmt.Errorf("%w: offset must not be negative, got %d", ErrInvalidPage, offset)
	}
	return domain.Page{Limit: limit, Offset: offset}, nil
}

func filterError(err error) error {
	if errors.Is(err, models.ErrInvertedDateRange) {
		return fmt.Errorf("%w: %v", ErrInvalidDateRange, err)
	}
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}

// cloneAll копирует результат, чтобы вызывающий не мог изменить значение в кэше
func cloneAll(items []*domain.Appointment) []*domain.Appointment {
	result := make([]*domain.Appointment, len(items))
	for i, a := range items {
		result[i] = a.Clone()
	}
	return result
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
