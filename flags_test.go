package corostack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlags_Has(t *testing.T) {
	t.Parallel()

	f := MethodShift | Threaded
	assert.True(t, f.Has(MethodShift))
	assert.True(t, f.Has(Threaded))
	assert.False(t, f.Has(MethodCopy))
	assert.False(t, f.Has(RestoreSigmask))
}

func TestFlags_Strategy(t *testing.T) {
	t.Parallel()

	t.Run("copy only", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, MethodCopy, MethodCopy.strategy())
	})

	t.Run("shift only", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, MethodShift, MethodShift.strategy())
	})

	t.Run("both requested, shift wins", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, MethodShift, (MethodCopy | MethodShift).strategy())
	})

	t.Run("neither requested", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, Flags(0), Threaded.strategy())
	})
}

func TestFlags_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "none", Flags(0).String())
	assert.Equal(t, "MethodShift", MethodShift.String())
	assert.Equal(t, "MethodCopy|MethodShift|RestoreSigmask|Threaded",
		(MethodCopy | MethodShift | RestoreSigmask | Threaded).String())
}
