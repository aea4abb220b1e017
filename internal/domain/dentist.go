package domain

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-DentalService/pkg/types"
)

// Weekday день недели в расписании стоматолога
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays дни недели в порядке с понедельника
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// WeekdayOf возвращает день недели для даты
func WeekdayOf(date time.Time) Weekday {
	switch date.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// ParseWeekday конвертирует строку в день недели с валидацией
func ParseWeekday(s string) (Weekday, bool) {
	day := Weekday(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range Weekdays {
		if day == valid {
			return day, true
		}
	}
	return "", false
}

// Dentist стоматолог клиники
type Dentist struct {
	ID             int64
	AccountID      int64 // связанный аккаунт пользователя
	FullName       string
	LicenseNumber  string
	Specialization string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ScheduleEntry рабочее окно стоматолога в один из дней недели
// Одна запись на пару (стоматолог, день недели)
type ScheduleEntry struct {
	ID        int64
	DentistID int64
	Weekday   Weekday
	StartTime types.TimeString
	EndTime   types.TimeString
	CreatedAt time.Time
}
