package patient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGetByID(t *testing.T) {
	query, args, err := buildGetByID(12).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "FROM patients p JOIN document_types dt ON dt.id = p.document_type_id")
	assert.Contains(t, query, "WHERE p.id = $1")
	assert.Equal(t, []interface{}{int64(12)}, args)
}
