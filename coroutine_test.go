package cimba

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScheduler_StartRunsBodyOnItsOwnCoroutine(t *testing.T) {
	s := NewScheduler()
	require.Equal(t, s.main, s.Current())

	co := s.Create(0)
	var sawArg any
	ret := s.Start(co, func(cp *Coroutine, arg any) any {
		sawArg = arg
		return "done"
	}, "hello")

	require.Equal(t, "hello", sawArg)
	require.Equal(t, "done", ret)
	require.Equal(t, CoroFinished, co.State())
	require.Equal(t, "done", co.ExitValue())
	require.Equal(t, s.main, s.Current())
}

func TestScheduler_YieldAndResumeRoundTrip(t *testing.T) {
	s := NewScheduler()
	co := s.Create(0)

	received := make(chan any, 4)
	s.Start(co, func(cp *Coroutine, arg any) any {
		received <- arg
		back := s.Yield("first-yield")
		received <- back
		return "final"
	}, "start-arg")

	require.Equal(t, "start-arg", <-received)
	require.Equal(t, CoroRunning, co.State())

	ret := s.Resume(co, "resume-arg")
	require.Equal(t, "resume-arg", <-received)
	require.Equal(t, "final", ret)
	require.Equal(t, CoroFinished, co.State())
}

func TestScheduler_ExitFromWithinCoroutine(t *testing.T) {
	s := NewScheduler()
	co := s.Create(0)

	ret := s.Start(co, func(cp *Coroutine, arg any) any {
		s.Exit(cp, "exited-early")
		panic("unreachable: Exit must not return")
	}, nil)

	require.Equal(t, "exited-early", ret)
	require.Equal(t, CoroFinished, co.State())
}

func TestScheduler_StopWhileSuspendedReleasesParkedGoroutine(t *testing.T) {
	s := NewScheduler()
	co := s.Create(0)

	unblocked := make(chan struct{})
	s.Start(co, func(cp *Coroutine, arg any) any {
		s.Yield(nil)
		close(unblocked) // only reached if Stop's release lets this goroutine unwind cleanly; it must not.
		return nil
	}, nil)
	require.Equal(t, CoroRunning, co.State())

	s.Stop(co, "stopped")
	require.Equal(t, CoroFinished, co.State())
	require.Equal(t, "stopped", co.ExitValue())

	select {
	case <-unblocked:
		t.Fatal("stopped coroutine resumed user code after Stop")
	default:
	}
}

func TestScheduler_DestroyUnparksASuspendedCoroutine(t *testing.T) {
	s := NewScheduler()
	co := s.Create(0)
	s.Start(co, func(cp *Coroutine, arg any) any {
		s.Yield(nil)
		return nil
	}, nil)

	// Destroy itself performs the release; this must not hang the test.
	s.Destroy(co)
	require.Equal(t, CoroFinished, co.State())
}
