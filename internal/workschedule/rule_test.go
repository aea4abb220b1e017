package workschedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/pkg/types"
)

func entry(day domain.Weekday, start, end string) domain.ScheduleEntry {
	return domain.ScheduleEntry{DentistID: 7, Weekday: day, StartTime: types.TimeString(start), EndTime: types.TimeString(end)}
}

func TestValidate(t *testing.T) {
	existing := []domain.ScheduleEntry{{ID: 1, DentistID: 7, Weekday: domain.Monday, StartTime: "08:00", EndTime: "17:00"}}

	tests := []struct {
		name    string
		entry   domain.ScheduleEntry
		wantErr error
	}{
		{name: "exactly eight hours", entry: entry(domain.Tuesday, "08:00", "16:00")},
		{name: "one minute short", entry: entry(domain.Tuesday, "08:00", "15:59"), wantErr: ErrSpanTooShort},
		{name: "end before start", entry: entry(domain.Tuesday, "17:00", "08:00"), wantErr: ErrEndBeforeStart},
		{name: "equal bounds", entry: entry(domain.Tuesday, "09:00", "09:00"), wantErr: ErrEndBeforeStart},
		{name: "duplicate weekday", entry: entry(domain.Monday, "08:00", "18:00"), wantErr: ErrDuplicateWeekday},
		{name: "ends at midnight", entry: entry(domain.Tuesday, "16:00", "24:00")},
		{name: "starts at end of day", entry: entry(domain.Tuesday, "24:00", "24:00"), wantErr: ErrInvalidTime},
		{name: "invalid time", entry: entry(domain.Tuesday, "8am", "16:00"), wantErr: ErrInvalidTime},
		{name: "invalid weekday", entry: entry(domain.Weekday("funday"), "08:00", "16:00"), wantErr: ErrInvalidWeekday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.entry, existing)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestValidate_FirstViolationWins(t *testing.T) {
	existing := []domain.ScheduleEntry{{ID: 1, DentistID: 7, Weekday: domain.Monday, StartTime: "08:00", EndTime: "17:00"}}

	// Нарушены все три правила: возвращается первое
	err := Validate(entry(domain.Monday, "10:00", "09:00"), existing)
	assert.ErrorIs(t, err, ErrEndBeforeStart)

	err = Validate(entry(domain.Monday, "10:00", "11:00"), existing)
	assert.ErrorIs(t, err, ErrSpanTooShort)
}

func TestValidate_OtherDentistSameWeekday(t *testing.T) {
	existing := []domain.ScheduleEntry{{ID: 1, DentistID: 8, Weekday: domain.Monday, StartTime: "08:00", EndTime: "17:00"}}

	assert.NoError(t, Validate(entry(domain.Monday, "08:00", "16:00"), existing))
}

func TestCovers(t *testing.T) {
	window := entry(domain.Monday, "08:00", "16:00")

	ok, err := Covers(window, "08:00", 30)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Covers(window, "15:30", 30)
	require.NoError(t, err)
	assert.True(t, ok, "slot ending exactly at window end")

	ok, err = Covers(window, "15:31", 30)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Covers(window, "07:59", 30)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = Covers(window, "bad", 30)
	assert.ErrorIs(t, err, ErrInvalidTime)

	late := entry(domain.Friday, "16:00", "24:00")
	ok, err = Covers(late, "23:00", 60)
	require.NoError(t, err)
	assert.True(t, ok, "slot ending at midnight")

	ok, err = Covers(late, "23:30", 60)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestForWeekday(t *testing.T) {
	entries := []domain.ScheduleEntry{entry(domain.Monday, "08:00", "16:00"), entry(domain.Friday, "09:00", "17:00")}

	got, ok := ForWeekday(entries, domain.Friday)
	require.True(t, ok)
	assert.Equal(t, "09:00", got.StartTime.String())

	_, ok = ForWeekday(entries, domain.Sunday)
	assert.False(t, ok)
}
