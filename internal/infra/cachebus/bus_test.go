package cachebus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DentalService/internal/cache"
	"github.com/m04kA/SMC-DentalService/pkg/logger"
)

type recordingApplier struct {
	applied [][]cache.Invalidation
}

func (r *recordingApplier) ApplyRemote(invalidations []cache.Invalidation) {
	r.applied = append(r.applied, invalidations)
}

func TestHandle_AppliesForeignMessages(t *testing.T) {
	sender := New(nil, "", logger.Nop())
	receiver := New(nil, "", logger.Nop())
	applier := &recordingApplier{}

	invs := cache.Plan(cache.MutationBook, 3)
	payload, err := sender.encode(invs)
	require.NoError(t, err)

	require.NoError(t, receiver.handle(payload, applier))
	require.Len(t, applier.applied, 1)
	assert.Equal(t, invs, applier.applied[0])
}

func TestHandle_IgnoresOwnEcho(t *testing.T) {
	bus := New(nil, "", logger.Nop())
	applier := &recordingApplier{}

	payload, err := bus.encode(cache.Plan(cache.MutationCancel, 1))
	require.NoError(t, err)

	require.NoError(t, bus.handle(payload, applier))
	assert.Empty(t, applier.applied)
}

func TestHandle_RejectsGarbage(t *testing.T) {
	bus := New(nil, "", logger.Nop())
	applier := &recordingApplier{}

	assert.ErrorIs(t, bus.handle("{not json", applier), ErrDecode)
	assert.ErrorIs(t, bus.handle(`{"origin":"other","invalidations":[{"region":"bogus"}]}`, applier), ErrDecode)
	assert.Empty(t, applier.applied)
}

func TestNew_Defaults(t *testing.T) {
	a := New(nil, "", logger.Nop())
	b := New(nil, "custom", logger.Nop())

	assert.Equal(t, DefaultChannel, a.channel)
	assert.Equal(t, "custom", b.channel)
	assert.NotEqual(t, a.InstanceID(), b.InstanceID())
}
