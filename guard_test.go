package cimba

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResourceGuard_SignalGrantsInPriorityOrder(t *testing.T) {
	sim := newTestSimulation()
	guard := NewResourceGuard[int](sim)
	var woke []string

	spawn := func(name string, priority int64) *Process {
		p := sim.CreateProcess(name, 0, func(p *Process, arg any) any {
			sig := guard.Wait(p, 1, priority)
			require.Equal(t, SUCCESS, sig)
			woke = append(woke, p.Name())
			return nil
		})
		p.Start(0, 0, nil)
		return p
	}

	spawn("low", 0)
	spawn("high", 10)
	spawn("mid", 5)

	sim.Execute()
	require.Empty(t, woke) // nobody granted yet: no Signal call issued

	require.Equal(t, 3, guard.Len())
	guard.Signal(func(demand int) bool { return true })

	require.Equal(t, []string{"high", "mid", "low"}, woke)
	require.Equal(t, 0, guard.Len())
}

func TestResourceGuard_SignalStopsAtFirstUnsatisfiedDemand(t *testing.T) {
	sim := newTestSimulation()
	guard := NewResourceGuard[int](sim)
	var woke []int

	for _, demand := range []int{5, 3, 1} {
		demand := demand
		p := sim.CreateProcess("p", 0, func(p *Process, arg any) any {
			sig := guard.Wait(p, demand, 0)
			require.Equal(t, SUCCESS, sig)
			woke = append(woke, demand)
			return nil
		})
		p.Start(0, 0, nil)
	}
	sim.Execute()

	available := 4
	guard.Signal(func(demand int) bool {
		if demand <= available {
			available -= demand
			return true
		}
		return false
	})

	// The first waiter (demand 5) exceeds 4 and blocks the scan; the
	// later, smaller demands must not jump ahead of it.
	require.Empty(t, woke)
	require.Equal(t, 3, guard.Len())
}

func TestResourceGuard_CancelWakesWithCancelled(t *testing.T) {
	sim := newTestSimulation()
	guard := NewResourceGuard[int](sim)
	var sig Signal
	var target *Process

	target = sim.CreateProcess("target", 0, func(p *Process, arg any) any {
		sig = guard.Wait(p, 1, 0)
		return nil
	})
	target.Start(0, 0, nil)
	sim.Execute()
	require.Equal(t, 1, guard.Len())

	ok := guard.Cancel(target)
	require.True(t, ok)
	require.Equal(t, CANCELLED, sig)
	require.Equal(t, 0, guard.Len())

	require.False(t, guard.Cancel(target))
}

func TestResourceGuard_RegisterObserverRejectsCycle(t *testing.T) {
	sim := newTestSimulation()
	a := NewResourceGuard[int](sim)
	b := NewResourceGuard[int](sim)
	c := NewResourceGuard[int](sim)

	require.NoError(t, a.RegisterObserver(b))
	require.NoError(t, b.RegisterObserver(c))

	err := c.RegisterObserver(a)
	require.ErrorIs(t, err, ErrObserverCycle)

	err = a.RegisterObserver(a)
	require.ErrorIs(t, err, ErrObserverCycle)
}

func TestResourceGuard_SignalPropagatesToObservers(t *testing.T) {
	sim := newTestSimulation()
	upstream := NewResourceGuard[int](sim)
	downstream := NewResourceGuard[int](sim)
	require.NoError(t, upstream.RegisterObserver(downstream))

	var woke string
	p := sim.CreateProcess("p", 0, func(p *Process, arg any) any {
		sig := downstream.Wait(p, 1, 0)
		require.Equal(t, SUCCESS, sig)
		woke = "granted"
		return nil
	})
	p.Start(0, 0, nil)
	sim.Execute()

	upstream.Signal(func(demand int) bool { return true })
	require.Equal(t, "granted", woke)
}

func TestResourceGuard_InterruptWithdrawsFromGuard(t *testing.T) {
	sim := newTestSimulation()
	guard := NewResourceGuard[int](sim)
	var sig Signal

	target := sim.CreateProcess("target", 0, func(p *Process, arg any) any {
		sig = guard.Wait(p, 1, 0)
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
	require.Equal(t, 0, guard.Len())
}
