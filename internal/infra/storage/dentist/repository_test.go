package dentist

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/internal/filter"
	"github.com/m04kA/SMC-DentalService/pkg/ptr"
)

func TestBuildList(t *testing.T) {
	pred := filter.Dentists(domain.DentistFilter{Specialization: ptr.Ptr("Ortho"), Active: ptr.Ptr(true)})

	query, args, err := buildList(pred).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "FROM dentists d")
	assert.Contains(t, query, "d.specialization ILIKE $1")
	assert.Contains(t, query, "d.active = $2")
	assert.Contains(t, query, "ORDER BY d.full_name ASC, d.id ASC")
	assert.Equal(t, []interface{}{"%Ortho%", true}, args)
}

func TestBuildListSchedule(t *testing.T) {
	query, args, err := buildListSchedule(4).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "FROM dentist_schedules WHERE dentist_id = $1")
	assert.Contains(t, query, "array_position")
	assert.Equal(t, []interface{}{int64(4)}, args)
}

func TestExecError_UniqueWeekday(t *testing.T) {
	err := execError("AddScheduleEntry", &pq.Error{Code: "23505"})

	assert.ErrorIs(t, err, ErrWeekdayTaken)
	assert.ErrorIs(t, err, domain.ErrConflict)
}
