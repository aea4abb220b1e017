package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/internal/filter"
	"github.com/m04kA/SMC-DentalService/internal/infra/storage/patient"
	"github.com/m04kA/SMC-DentalService/internal/infra/storage/treatment"
)

// TreatmentRepository процедуры в памяти
type TreatmentRepository struct {
	s *Store
}

// NewTreatmentRepository создает репозиторий
func NewTreatmentRepository(s *Store) *TreatmentRepository {
	return &TreatmentRepository{s: s}
}

// GetByID получает процедуру по ID
func (r *TreatmentRepository) GetByID(_ context.Context, id int64) (*domain.Treatment, error) {
	r.s.reads.Add(1)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.treatments[id]
	if !ok {
		return nil, fmt.Errorf("%w: id=%d", treatment.ErrTreatmentNotFound, id)
	}
	c := *t
	return &c, nil
}

// List процедуры по предикату, по названию
func (r *TreatmentRepository) List(_ context.Context, pred filter.Predicate[*domain.Treatment]) ([]*domain.Treatment, error) {
	r.s.reads.Add(1)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]*domain.Treatment, 0, len(r.s.treatments))
	for _, id := range sortedIDs(r.s.treatments) {
		all = append(all, r.s.treatments[id])
	}

	matched := filter.Filter(all, pred)
	result := make([]*domain.Treatment, len(matched))
	for i, t := range matched {
		c := *t
		result[i] = &c
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// PatientRepository пациенты в памяти
type PatientRepository struct {
	s *Store
}

// NewPatientRepository создает репозиторий
func NewPatientRepository(s *Store) *PatientRepository {
	return &PatientRepository{s: s}
}

// GetByID получает пациента по ID
func (r *PatientRepository) GetByID(_ context.Context, id int64) (*domain.Patient, error) {
	r.s.reads.Add(1)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.patients[id]
	if !ok {
		return nil, fmt.Errorf("%w: id=%d", patient.ErrPatientNotFound, id)
	}
	c := *p
	return &c, nil
}
