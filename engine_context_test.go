package corostack

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextEngine_BasicStepYieldReturn(t *testing.T) {
	t.Parallel()

	s, err := Create("context", MethodShift, scenario2Body, 0)
	require.NoError(t, err)

	status, val, err := s.Step(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, StatusYielded, status)
	assert.Equal(t, 2, val)

	status, val, err = s.Step(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, StatusReturned, status)
	assert.Equal(t, 4, val)
}

// TestContextEngine_ResumableFromAnyDepth exercises the property that makes
// the context engine usable where MethodCopy's depth precondition would
// reject the same sequence: unlike TestJumpEngine_CopyShallowResumeRejected,
// stepping from a shallower frame than the first step used succeeds here.
func TestContextEngine_ResumableFromAnyDepth(t *testing.T) {
	t.Parallel()

	s, err := Create("context", MethodShift, scenario2Body, 0)
	require.NoError(t, err)

	var status Status
	var val any
	callAtDepth(16, func() {
		status, val, err = s.Step(context.Background(), 1)
	})
	require.NoError(t, err)
	assert.Equal(t, StatusYielded, status)
	assert.Equal(t, 2, val)

	// Shallower frame than the first Step: fine under SHIFT.
	status, val, err = s.Step(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, StatusReturned, status)
	assert.Equal(t, 4, val)
}

func TestContextEngine_RestoreSigmaskRoundTrips(t *testing.T) {
	t.Parallel()

	s, err := Create("context", MethodShift|RestoreSigmask, scenario1Body, 0)
	require.NoError(t, err)
	assert.True(t, s.Flags().Has(RestoreSigmask))

	priv := s.priv.(*contextPriv)
	assert.True(t, priv.restoreSigmask)

	// Advisory only: the value round-trips but nothing else observes it.
	status, val, err := s.Step(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, StatusReturned, status)
	assert.Equal(t, 2, val)
}

func TestContextEngine_CancelResumeUsesContextDone(t *testing.T) {
	t.Parallel()

	unwound := make(chan struct{})
	body := func(y *Yielder, in any) any {
		if _, err := y.Yield(in); err != nil {
			close(unwound)
			return err
		}
		return "should not reach here"
	}

	s, err := Create("context", MethodShift, body, 0)
	require.NoError(t, err)

	status, _, err := s.Step(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, StatusYielded, status)

	priv := s.priv.(*contextPriv)
	require.NoError(t, s.Cancel(true))
	<-unwound
	assert.ErrorIs(t, context.Cause(priv.ctx), ErrCancelled)
	assert.True(t, s.life.IsDestroyed())
}

// TestContextEngine_CancelResumeSubsequentYieldAlsoCancelled mirrors
// TestJumpEngine_CancelResumeSubsequentYieldAlsoCancelled for the context
// engine: the first Yield is woken through ctx.Done() by Cancel(true); a
// second Yield call sees s.cancelRequested before it touches the channels
// and returns at once rather than blocking on a resume that will never come.
func TestContextEngine_CancelResumeSubsequentYieldAlsoCancelled(t *testing.T) {
	t.Parallel()

	var firstErr, secondErr error
	done := make(chan struct{})
	body := func(y *Yielder, in any) any {
		_, firstErr = y.Yield(in)
		_, secondErr = y.Yield(in)
		close(done)
		return nil
	}

	s, err := Create("context", MethodShift, body, 0)
	require.NoError(t, err)

	status, _, err := s.Step(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, StatusYielded, status)

	require.NoError(t, s.Cancel(true))
	<-done
	assert.ErrorIs(t, firstErr, ErrCancelled)
	assert.ErrorIs(t, secondErr, ErrCancelled)
	assert.True(t, s.life.IsDestroyed())
}

func TestContextEngine_Flags(t *testing.T) {
	t.Parallel()

	assert.Equal(t, MethodShift|RestoreSigmask, EngineFlags("context"))
}
