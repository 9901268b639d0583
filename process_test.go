package cimba

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProcess_HoldResumesAfterDuration(t *testing.T) {
	sim := newTestSimulation()
	var woke float64
	var sig Signal

	p := sim.CreateProcess("holder", 0, func(p *Process, arg any) any {
		sig = p.Hold(5)
		woke = p.sim.Now()
		return "done"
	})
	p.Start(0, 0, nil)
	sim.Execute()

	require.Equal(t, float64(5), woke)
	require.Equal(t, SUCCESS, sig)
	require.Equal(t, ProcTerminated, p.State())
	val, exitSig := p.GetExitValue()
	require.Equal(t, "done", val)
	require.Equal(t, NORMAL, exitSig)
}

func TestProcess_InterruptWakesEarlyAndCancelsTheHold(t *testing.T) {
	sim := newTestSimulation()
	var sig Signal

	target := sim.CreateProcess("target", 0, func(p *Process, arg any) any {
		sig = p.Hold(100)
		return nil
	})
	target.Start(0, 0, nil)

	interrupter := sim.CreateProcess("interrupter", 0, func(p *Process, arg any) any {
		target.Interrupt()
		return nil
	})
	interrupter.Start(1, 0, nil)

	sim.Execute()

	require.Equal(t, INTERRUPTED, sig)
	require.Equal(t, float64(1), sim.Now())
	require.Equal(t, ProcTerminated, target.State())
}

func TestProcess_StopForciblyTerminates(t *testing.T) {
	sim := newTestSimulation()
	target := sim.CreateProcess("target", 0, func(p *Process, arg any) any {
		p.Hold(100)
		return nil
	})
	target.Start(0, 0, nil)

	stopper := sim.CreateProcess("stopper", 0, func(p *Process, arg any) any {
		target.Stop("killed")
		return nil
	})
	stopper.Start(1, 0, nil)

	sim.Execute()

	require.Equal(t, ProcTerminated, target.State())
	val, sig := target.GetExitValue()
	require.Equal(t, "killed", val)
	require.Equal(t, STOPPED, sig)
	// The Hold's own pending wake-up event must have been withdrawn.
	require.Equal(t, 0, sim.Count(func(subject, object any) bool { return subject == target }))
}

func TestProcess_WaitEventWakesWhenMatchingEventFires(t *testing.T) {
	sim := newTestSimulation()
	var woke float64

	waiter := sim.CreateProcess("waiter", 0, func(p *Process, arg any) any {
		sig := p.WaitEvent(func(subject, object any) bool { return object == "alarm" })
		require.Equal(t, SUCCESS, sig)
		woke = p.sim.Now()
		return nil
	})
	waiter.Start(0, 0, nil)

	rang := false
	sim.Schedule(func() { rang = true }, "clock", "alarm", 7, 0)

	sim.Execute()

	require.True(t, rang)
	require.Equal(t, float64(7), woke)
}

func TestProcess_WaitProcessWakesOnTermination(t *testing.T) {
	sim := newTestSimulation()
	var waitedExit any
	var waitedSig Signal

	worker := sim.CreateProcess("worker", 0, func(p *Process, arg any) any {
		p.Hold(3)
		return "worker-result"
	})
	worker.Start(0, 0, nil)

	waiter := sim.CreateProcess("waiter", 0, func(p *Process, arg any) any {
		sig := p.WaitProcess(worker)
		waitedSig = sig
		waitedExit, _ = worker.GetExitValue()
		return nil
	})
	waiter.Start(0, 0, nil)

	sim.Execute()

	require.Equal(t, SUCCESS, waitedSig)
	require.Equal(t, "worker-result", waitedExit)
}

func TestProcess_DestroyRemovesFromSimulation(t *testing.T) {
	sim := newTestSimulation()
	p := sim.CreateProcess("ephemeral", 0, func(p *Process, arg any) any { return nil })
	p.Start(0, 0, nil)
	sim.Execute()

	require.Equal(t, ProcTerminated, p.State())
	_, ok := sim.processes[p]
	require.True(t, ok)
	p.Destroy()
	_, ok = sim.processes[p]
	require.False(t, ok)
}
