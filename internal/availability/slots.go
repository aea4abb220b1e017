package availability

import (
	"github.com/m04kA/SMC-DentalService/pkg/types"
)

// FreeSlots генерирует свободные слоты в рабочем окне [open, close)
//
// Слоты идут от начала окна с шагом step минут, каждый длиной duration.
// Слот отбрасывается, если выходит за конец окна, начинается раньше notBefore
// (минут от полуночи, для сегодняшней даты) или пересекается с занятым интервалом.
func FreeSlots(open, close types.TimeString, duration, step, notBefore int, busy []Interval) ([]types.TimeString, error) {
	from, err := open.Minutes()
	if err != nil {
		return nil, err
	}
	to, err := close.Minutes()
	if err != nil {
		return nil, err
	}
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}
	if step <= 0 {
		step = duration
	}

	slots := make([]types.TimeString, 0)
	for start := from; start+duration <= to; start += step {
		if start < notBefore {
			continue
		}

		candidate := Interval{Start: start, End: start + duration}
		if overlapsAny(candidate, busy) {
			continue
		}

		slot, err := types.FromMinutes(start)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

func overlapsAny(candidate Interval, busy []Interval) bool {
	for _, b := range busy {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}
