package task

import (
	"context"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestSleepOrdering(t *testing.T) {
	is := is.New(t)
	s := NewScheduler()
	var order []string

	s.After(30*time.Millisecond, "late", Func(func(now time.Duration) Yield {
		order = append(order, "late")
		return Done()
	}))
	s.Go("early", Func(func(now time.Duration) Yield {
		order = append(order, "early")
		return Done()
	}))
	s.After(30*time.Millisecond, "late2", Func(func(now time.Duration) Yield {
		order = append(order, "late2")
		return Done()
	}))

	is.NoErr(s.RunUntilIdle(context.Background(), 10))
	is.Equal(order, []string{"early", "late", "late2"})
	is.Equal(s.Now(), 30*time.Millisecond)
	is.True(s.Idle())
}

func TestMultiStepTask(t *testing.T) {
	is := is.New(t)
	s := NewScheduler()
	var stamps []time.Duration
	n := 0
	s.Go("counter", Func(func(now time.Duration) Yield {
		stamps = append(stamps, now)
		n++
		if n == 3 {
			return Done()
		}
		return Sleep(100 * time.Millisecond)
	}))
	is.NoErr(s.RunUntilIdle(context.Background(), 10))
	is.Equal(stamps, []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond})
}

func TestSameInstantRunsNextStep(t *testing.T) {
	is := is.New(t)
	s := NewScheduler()
	ran := false
	s.Go("spawner", Func(func(now time.Duration) Yield {
		s.Go("child", Func(func(now time.Duration) Yield {
			ran = true
			return Done()
		}))
		return Done()
	}))
	is.True(s.Step())
	is.True(!ran)
	is.True(s.Step())
	is.True(ran)
	is.True(!s.Step())
}

func TestAdvance(t *testing.T) {
	is := is.New(t)
	s := NewScheduler()
	ticks := 0
	s.Go("ticker", Func(func(now time.Duration) Yield {
		ticks++
		return Sleep(10 * time.Millisecond)
	}))
	s.Advance(35 * time.Millisecond)
	// t=0, 10, 20, 30
	is.Equal(ticks, 4)
	is.Equal(s.Now(), 35*time.Millisecond)
}

func TestGateParksUntilLastRelease(t *testing.T) {
	is := is.New(t)
	s := NewScheduler()
	g := s.NewGate("destroying")
	g.Hold()
	g.Hold()

	woke := false
	waited := false
	s.Go("waiter", Func(func(now time.Duration) Yield {
		if !waited {
			waited = true
			return Await(g)
		}
		woke = true
		return Done()
	}))

	is.True(s.Step())
	is.Equal(s.Pending(), 1)
	is.True(!s.Step())

	g.Release()
	is.True(!g.Open())
	is.True(!s.Step())

	g.Release()
	is.True(g.Open())
	is.True(s.Step())
	is.True(woke)
	is.True(s.Idle())
}

func TestAwaitOpenGateContinues(t *testing.T) {
	is := is.New(t)
	s := NewScheduler()
	g := s.NewGate("g")
	steps := 0
	s.Go("w", Func(func(now time.Duration) Yield {
		steps++
		if steps == 1 {
			return Await(g)
		}
		return Done()
	}))
	is.NoErr(s.RunUntilIdle(context.Background(), 5))
	is.Equal(steps, 2)
}

func TestRunUntilIdleReportsStall(t *testing.T) {
	is := is.New(t)
	s := NewScheduler()
	g := s.NewGate("stuck")
	g.Hold()
	s.Go("w", Func(func(now time.Duration) Yield { return Await(g) }))
	is.Equal(s.RunUntilIdle(context.Background(), 5), ErrNotIdle)

	s2 := NewScheduler()
	s2.Go("forever", Func(func(now time.Duration) Yield { return Sleep(time.Second) }))
	is.Equal(s2.RunUntilIdle(context.Background(), 50), ErrNotIdle)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	is.Equal(s2.RunUntilIdle(ctx, 50), context.Canceled)
}

func TestToken(t *testing.T) {
	is := is.New(t)
	tok := NewToken("swap")
	is.True(tok.TryAcquire("a"))
	is.True(!tok.TryAcquire("b"))
	is.Equal(tok.Holder(), "a")
	tok.Release("a")
	is.True(!tok.Held())
	is.True(tok.TryAcquire("b"))

	defer func() {
		is.True(recover() != nil)
	}()
	tok.Release("a")
}

func TestGateOverRelease(t *testing.T) {
	is := is.New(t)
	g := NewScheduler().NewGate("g")
	defer func() {
		is.True(recover() != nil)
	}()
	g.Release()
}
