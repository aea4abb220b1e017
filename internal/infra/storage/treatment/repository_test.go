package treatment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/internal/filter"
	"github.com/m04kA/SMC-DentalService/pkg/ptr"
)

func TestBuildList(t *testing.T) {
	pred := filter.Treatments(domain.TreatmentFilter{Name: ptr.Ptr("clean"), TreatmentTypeID: ptr.Ptr(int64(2))})

	query, args, err := buildList(pred).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "t.name ILIKE $1")
	assert.Contains(t, query, "t.treatment_type_id = $2")
	assert.Contains(t, query, "ORDER BY t.name ASC")
	assert.Equal(t, []interface{}{"%clean%", int64(2)}, args)
}
