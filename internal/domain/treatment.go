package domain

import "time"

// TreatmentType категория процедур (например, "Ортодонтия")
type TreatmentType struct {
	ID   int64
	Name string
}

// Treatment стоматологическая процедура
type Treatment struct {
	ID              int64
	TreatmentTypeID int64
	Name            string
	Cost            float64
	DurationMinutes int // длительность процедуры - основа расчёта пересечений
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Duration длительность процедуры
func (t *Treatment) Duration() time.Duration {
	return time.Duration(t.DurationMinutes) * time.Minute
}
