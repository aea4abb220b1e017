package availability

import (
	"fmt"

	"github.com/m04kA/SMC-DentalService/pkg/types"
)

const minutesPerDay = 24 * 60

// Interval полуоткрытый интервал [Start, End) в минутах от полуночи
type Interval struct {
	Start int
	End   int
}

// NewInterval строит интервал приёма из времени начала и длительности
// Длительность должна быть положительной, конец не позже 24:00
func NewInterval(start types.TimeString, durationMinutes int) (Interval, error) {
	from, err := start.Minutes()
	if err != nil {
		return Interval{}, fmt.Errorf("%w: %v", ErrInvalidStartTime, err)
	}
	if durationMinutes <= 0 {
		return Interval{}, fmt.Errorf("%w: %d minutes", ErrInvalidDuration, durationMinutes)
	}
	if from+durationMinutes > minutesPerDay {
		return Interval{}, fmt.Errorf("%w: %s + %d minutes", ErrSlotOverflowsDay, start, durationMinutes)
	}
	return Interval{Start: from, End: from + durationMinutes}, nil
}

// IsEmpty возвращает true для интервала нулевой или отрицательной длины
func (i Interval) IsEmpty() bool {
	return i.End <= i.Start
}

// Overlaps проверяет пересечение полуоткрытых интервалов
// Интервалы, которые только касаются концами (09:00-09:40 и 09:40-10:00), не пересекаются
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}

// Overlaps проверка пересечения двух интервалов
func Overlaps(a, b Interval) bool {
	return a.Overlaps(b)
}

// String представление "HH:MM-HH:MM"
func (i Interval) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", i.Start/60, i.Start%60, i.End/60, i.End%60)
}
