package domain

import "time"

// Правила расписания
const (
	MinScheduleSpanMinutes = 8 * 60 // минимальная длительность рабочего окна
)

// Пагинация
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Ограничения бизнес-валидации
const (
	MaxCancellationReasonLength = 500
	MaxSearchTermLength         = 100
)

// Форматы даты и времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// DateOnly отбрасывает время, оставляя календарный день в UTC
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
