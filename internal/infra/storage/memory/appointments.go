package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/internal/filter"
	"github.com/m04kA/SMC-DentalService/internal/infra/storage/appointment"
)

// AppointmentRepository записи на приём в памяти
type AppointmentRepository struct {
	s *Store
}

// NewAppointmentRepository создает репозиторий
func NewAppointmentRepository(s *Store) *AppointmentRepository {
	return &AppointmentRepository{s: s}
}

// Create сохраняет запись; второй ожидающий приём на тот же слот отклоняется, как уникальным индексом
func (r *AppointmentRepository) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if a.Status == domain.StatusPending {
		for _, existing := range r.s.appointments {
			if existing.Status == domain.StatusPending && existing.DentistID == a.DentistID &&
				sameDay(existing.Date, a.Date) && existing.StartTime == a.StartTime {
				return nil, fmt.Errorf("%w: Create - dentist=%d %s %s", appointment.ErrSlotTaken,
					a.DentistID, a.Date.Format(domain.DateFormat), a.StartTime)
			}
		}
	}

	stored := a.Clone()
	stored.ID = r.s.id()
	stored.CreatedAt = r.s.now()
	stored.UpdatedAt = stored.CreatedAt
	r.s.appointments[stored.ID] = stored

	return stored.Clone(), nil
}

// GetByID получает запись по ID
func (r *AppointmentRepository) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	r.s.reads.Add(1)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.appointments[id]
	if !ok {
		return nil, fmt.Errorf("%w: id=%d", appointment.ErrAppointmentNotFound, id)
	}
	return a.Clone(), nil
}

// GetByIDForUpdate то же, что GetByID: транзакции в памяти уже сериализованы
func (r *AppointmentRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Appointment, error) {
	return r.GetByID(ctx, id)
}

// List записи по предикату, от новых к старым
func (r *AppointmentRepository) List(_ context.Context, pred filter.Predicate[*domain.Appointment]) ([]*domain.Appointment, error) {
	r.s.reads.Add(1)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.list(pred), nil
}

// ListPage страница записей и общее количество
func (r *AppointmentRepository) ListPage(_ context.Context, pred filter.Predicate[*domain.Appointment], page domain.Page) ([]*domain.Appointment, int, error) {
	r.s.reads.Add(1)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := r.list(pred)
	total := len(all)
	if page.Offset >= total {
		return []*domain.Appointment{}, total, nil
	}
	end := page.Offset + page.Limit
	if end > total {
		end = total
	}
	return all[page.Offset:end], total, nil
}

// ListPendingByDentistAndDate ожидающие приёмы стоматолога на дату
func (r *AppointmentRepository) ListPendingByDentistAndDate(_ context.Context, dentistID int64, date time.Time) ([]*domain.Appointment, error) {
	r.s.reads.Add(1)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*domain.Appointment, 0)
	for _, id := range sortedIDs(r.s.appointments) {
		a := r.s.appointments[id]
		if a.DentistID == dentistID && a.Status == domain.StatusPending && sameDay(a.Date, date) {
			result = append(result, a.Clone())
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].StartTime < result[j].StartTime })
	return result, nil
}

// ListPendingByDate ожидающие приёмы всех стоматологов на дату
func (r *AppointmentRepository) ListPendingByDate(ctx context.Context, date time.Time) ([]*domain.Appointment, error) {
	status := domain.StatusPending
	return r.List(ctx, filter.Appointments(domain.AppointmentFilter{Status: &status, StartDate: &date, EndDate: &date}))
}

// Update сохраняет запись, если её текущий статус равен expected
func (r *AppointmentRepository) Update(_ context.Context, a *domain.Appointment, expected domain.AppointmentStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.appointments[a.ID]
	if !ok || current.Status != expected {
		return fmt.Errorf("%w: id=%d expected status %s", appointment.ErrStaleState, a.ID, expected)
	}

	stored := a.Clone()
	stored.UpdatedAt = r.s.now()
	r.s.appointments[a.ID] = stored
	a.UpdatedAt = stored.UpdatedAt
	return nil
}

// list вызывается под s.mu
func (r *AppointmentRepository) list(pred filter.Predicate[*domain.Appointment]) []*domain.Appointment {
	all := make([]*domain.Appointment, 0, len(r.s.appointments))
	for _, id := range sortedIDs(r.s.appointments) {
		all = append(all, r.s.appointments[id])
	}

	matched := filter.Filter(all, pred)
	result := make([]*domain.Appointment, len(matched))
	for i, a := range matched {
		result[i] = a.Clone()
	}

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if a.StartTime != b.StartTime {
			return a.StartTime > b.StartTime
		}
		return a.ID > b.ID
	})
	return result
}
