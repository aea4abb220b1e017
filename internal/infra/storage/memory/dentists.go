package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/internal/filter"
	"github.com/m04kA/SMC-DentalService/internal/infra/storage/dentist"
)

// DentistRepository стоматологи и расписания в памяти
type DentistRepository struct {
	s *Store
}

// NewDentistRepository создает репозиторий
func NewDentistRepository(s *Store) *DentistRepository {
	return &DentistRepository{s: s}
}

// GetByID получает стоматолога по ID
func (r *DentistRepository) GetByID(_ context.Context, id int64) (*domain.Dentist, error) {
	r.s.reads.Add(1)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.dentists[id]
	if !ok {
		return nil, fmt.Errorf("%w: id=%d", dentist.ErrDentistNotFound, id)
	}
	c := *d
	return &c, nil
}

// GetByIDForUpdate то же, что GetByID
func (r *DentistRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Dentist, error) {
	return r.GetByID(ctx, id)
}

// List стоматологи по предикату, по имени
func (r *DentistRepository) List(_ context.Context, pred filter.Predicate[*domain.Dentist]) ([]*domain.Dentist, error) {
	r.s.reads.Add(1)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]*domain.Dentist, 0, len(r.s.dentists))
	for _, id := range sortedIDs(r.s.dentists) {
		all = append(all, r.s.dentists[id])
	}

	matched := filter.Filter(all, pred)
	result := make([]*domain.Dentist, len(matched))
	for i, d := range matched {
		c := *d
		result[i] = &c
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].FullName < result[j].FullName })
	return result, nil
}

// Deactivate снимает флаг активности
func (r *DentistRepository) Deactivate(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.dentists[id]
	if !ok {
		return fmt.Errorf("%w: id=%d", dentist.ErrDentistNotFound, id)
	}
	d.Active = false
	d.UpdatedAt = r.s.now()
	return nil
}

// ListSchedule рабочие окна стоматолога в порядке дней недели
func (r *DentistRepository) ListSchedule(_ context.Context, dentistID int64) ([]domain.ScheduleEntry, error) {
	r.s.reads.Add(1)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	entries := append([]domain.ScheduleEntry(nil), r.s.schedules[dentistID]...)
	order := make(map[domain.Weekday]int, len(domain.Weekdays))
	for i, d := range domain.Weekdays {
		order[d] = i
	}
	sort.SliceStable(entries, func(i, j int) bool { return order[entries[i].Weekday] < order[entries[j].Weekday] })
	if entries == nil {
		entries = []domain.ScheduleEntry{}
	}
	return entries, nil
}

// AddScheduleEntry сохраняет рабочее окно; второе окно на тот же день отклоняется, как уникальным индексом
func (r *DentistRepository) AddScheduleEntry(_ context.Context, entry domain.ScheduleEntry) (domain.ScheduleEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, e := range r.s.schedules[entry.DentistID] {
		if e.Weekday == entry.Weekday {
			return domain.ScheduleEntry{}, fmt.Errorf("%w: AddScheduleEntry - dentist=%d %s",
				dentist.ErrWeekdayTaken, entry.DentistID, entry.Weekday)
		}
	}

	entry.ID = r.s.id()
	entry.CreatedAt = r.s.now()
	r.s.schedules[entry.DentistID] = append(r.s.schedules[entry.DentistID], entry)
	return entry, nil
}

// RemoveScheduleEntry удаляет рабочее окно
func (r *DentistRepository) RemoveScheduleEntry(_ context.Context, dentistID, entryID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	entries := r.s.schedules[dentistID]
	for i, e := range entries {
		if e.ID == entryID {
			r.s.schedules[dentistID] = append(entries[:i:i], entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: dentist=%d entry=%d", dentist.ErrScheduleEntryNotFound, dentistID, entryID)
}

// ClearSchedule удаляет все рабочие окна стоматолога
func (r *DentistRepository) ClearSchedule(_ context.Context, dentistID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	removed := int64(len(r.s.schedules[dentistID]))
	delete(r.s.schedules, dentistID)
	return removed, nil
}
