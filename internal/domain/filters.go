package domain

import (
	"fmt"
	"strings"
	"time"
)

// AppointmentFilter фильтр записей на приём
// Любое поле nil означает "без ограничения"
type AppointmentFilter struct {
	PatientID      *int64
	DentistID      *int64
	TreatmentID    *int64
	Status         *AppointmentStatus
	Statuses       []AppointmentStatus // альтернатива Status: любой из перечисленных
	StartDate      *time.Time          // включительно
	EndDate        *time.Time          // включительно
	Sex            *Sex
	PatientName    *string // подстрока без учёта регистра
	DocumentNumber *string
}

// CacheKey детерминированное представление фильтра для ключа кэша
func (f AppointmentFilter) CacheKey() string {
	statuses := make([]string, len(f.Statuses))
	for i, s := range f.Statuses {
		statuses[i] = string(s)
	}
	return strings.Join([]string{
		"patient=" + formatInt(f.PatientID),
		"dentist=" + formatInt(f.DentistID),
		"treatment=" + formatInt(f.TreatmentID),
		"status=" + formatString((*string)(f.Status)),
		"statuses=" + strings.Join(statuses, ","),
		"from=" + formatDate(f.StartDate),
		"to=" + formatDate(f.EndDate),
		"sex=" + formatString((*string)(f.Sex)),
		"name=" + formatFolded(f.PatientName),
		"document=" + formatString(f.DocumentNumber),
	}, "|")
}

// DentistFilter фильтр стоматологов
type DentistFilter struct {
	Specialization *string // подстрока без учёта регистра
	Name           *string // подстрока без учёта регистра
	LicenseNumber  *string
	Active         *bool
}

// CacheKey детерминированное представление фильтра для ключа кэша
func (f DentistFilter) CacheKey() string {
	return strings.Join([]string{
		"specialization=" + formatFolded(f.Specialization),
		"name=" + formatFolded(f.Name),
		"license=" + formatString(f.LicenseNumber),
		"active=" + formatBool(f.Active),
	}, "|")
}

// TreatmentFilter фильтр процедур
type TreatmentFilter struct {
	Name            *string // подстрока без учёта регистра
	TreatmentTypeID *int64
	Active          *bool
}

// CacheKey детерминированное представление фильтра для ключа кэша
func (f TreatmentFilter) CacheKey() string {
	return strings.Join([]string{
		"name=" + formatFolded(f.Name),
		"type=" + formatInt(f.TreatmentTypeID),
		"active=" + formatBool(f.Active),
	}, "|")
}

// Page параметры пагинации
type Page struct {
	Limit  int
	Offset int
}

// CacheKey представление пагинации для ключа кэша
func (p Page) CacheKey() string {
	return fmt.Sprintf("limit=%d|offset=%d", p.Limit, p.Offset)
}

// PagedAppointments страница записей на приём
type PagedAppointments struct {
	Items  []*Appointment
	Total  int
	Limit  int
	Offset int
}

// HasMore возвращает true, если после текущей страницы есть ещё записи
func (p *PagedAppointments) HasMore() bool {
	return p.Offset+len(p.Items) < p.Total
}

const absent = "<nil>"

func formatInt(v *int64) string {
	if v == nil {
		return absent
	}
	return fmt.Sprintf("%d", *v)
}

func formatString(v *string) string {
	if v == nil {
		return absent
	}
	return fmt.Sprintf("%q", *v)
}

// formatFolded для фильтров по подстроке: пустая строка эквивалентна отсутствию
func formatFolded(v *string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return absent
	}
	return fmt.Sprintf("%q", strings.ToLower(strings.TrimSpace(*v)))
}

func formatBool(v *bool) string {
	if v == nil {
		return absent
	}
	return fmt.Sprintf("%t", *v)
}

func formatDate(v *time.Time) string {
	if v == nil {
		return absent
	}
	return v.Format(DateFormat)
}
