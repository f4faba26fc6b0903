package corostack

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreadEngine_BasicStepYieldReturn(t *testing.T) {
	t.Parallel()

	s, err := Create("thread", MethodShift, scenario2Body, 0)
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

func TestThreadEngine_Flags(t *testing.T) {
	t.Parallel()

	assert.True(t, EngineFlags("thread").Has(Threaded))
	assert.True(t, EngineFlags("thread").Has(MethodShift))
}

// TestThreadEngine_PinnedThreadStableAcrossYield observes the property
// engine_thread.go's run doc comment describes: the coroutine's OS thread
// (as reported by the platform's thread-ID probe, the same one
// queryPageSize's platform split is grounded on) does not change between a
// yield and its resume, since LockOSThread/UnlockOSThread are paired around
// the whole body rather than per-yield.
func TestThreadEngine_PinnedThreadStableAcrossYield(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var tids []int

	body := func(y *Yielder, in any) any {
		mu.Lock()
		tids = append(tids, currentThreadID())
		mu.Unlock()
		if _, err := y.Yield(in); err != nil {
			return err
		}
		mu.Lock()
		tids = append(tids, currentThreadID())
		mu.Unlock()
		return in
	}

	s, err := Create("thread", MethodShift, body, 0)
	require.NoError(t, err)

	status, _, err := s.Step(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, StatusYielded, status)

	status, _, err = s.Step(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, StatusReturned, status)

	require.Len(t, tids, 2)
	assert.Equal(t, tids[0], tids[1])
}

func TestThreadEngine_CancelAbandon(t *testing.T) {
	t.Parallel()

	body := func(y *Yielder, in any) any {
		_, _ = y.Yield(in)
		return nil
	}

	s, err := Create("thread", MethodShift, body, 0)
	require.NoError(t, err)

	status, _, err := s.Step(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, StatusYielded, status)

	require.NoError(t, s.Cancel(false))
	assert.True(t, s.life.IsDestroyed())

	_, _, err = s.Step(context.Background(), 0)
	assert.ErrorIs(t, err, ErrDestroyed)
}

// TestThreadEngine_CancelResumeSubsequentYieldAlsoCancelled mirrors
// TestJumpEngine_CancelResumeSubsequentYieldAlsoCancelled for the
// OS-thread-pinned engine.
func TestThreadEngine_CancelResumeSubsequentYieldAlsoCancelled(t *testing.T) {
	t.Parallel()

	var firstErr, secondErr error
	done := make(chan struct{})
	body := func(y *Yielder, in any) any {
		_, firstErr = y.Yield(in)
		_, secondErr = y.Yield(in)
		close(done)
		return nil
	}

	s, err := Create("thread", MethodShift, body, 0)
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

func TestThreadEngine_CancelResume(t *testing.T) {
	t.Parallel()

	unwound := make(chan struct{})
	body := func(y *Yielder, in any) any {
		if _, err := y.Yield(in); err != nil {
			close(unwound)
			return err
		}
		return "should not reach here"
	}

	s, err := Create("thread", MethodShift, body, 0)
	require.NoError(t, err)

	status, _, err := s.Step(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, StatusYielded, status)

	require.NoError(t, s.Cancel(true))
	<-unwound
	assert.True(t, s.life.IsDestroyed())
}
