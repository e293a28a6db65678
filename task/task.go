// Package task is a small cooperative scheduler. Staged operations are
// Tasks that run one discrete step at a time and tell the scheduler when
// they want to run again. Time is virtual: the host decides how fast the
// clock moves, so the same sequence of steps can be driven by a game loop,
// a test or a batch simulation.
package task

import (
	"container/heap"
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

var ErrNotIdle = errors.New("scheduler did not become idle within the step limit")

// Yield is returned from every Step and says when the task wants to be
// stepped next.
type Yield struct {
	after time.Duration
	gate  *Gate
	done  bool
}

// Sleep resumes the task after d of virtual time.
func Sleep(d time.Duration) Yield {
	return Yield{after: d}
}

// Await parks the task until g is open. If g is already open the task is
// resumed on the next scheduler step.
func Await(g *Gate) Yield {
	return Yield{gate: g}
}

// Done finishes the task.
func Done() Yield {
	return Yield{done: true}
}

// A Task is a staged operation. Step must not block.
type Task interface {
	Step(now time.Duration) Yield
}

// Func adapts a function to the Task interface.
type Func func(now time.Duration) Yield

func (f Func) Step(now time.Duration) Yield {
	return f(now)
}

type entry struct {
	name string
	task Task
	wake time.Duration
	seq  uint64
}

type entryHeap []*entry

func (h entryHeap) Len() int { return len(h) }
func (h entryHeap) Less(i, j int) bool {
	if h[i].wake == h[j].wake {
		return h[i].seq < h[j].seq
	}
	return h[i].wake < h[j].wake
}
func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x any)   { *h = append(*h, x.(*entry)) }
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Scheduler runs tasks on a single logical thread. Only the task being
// stepped may touch shared state, and each step runs to completion, so the
// scheduler itself serializes every write.
type Scheduler struct {
	now    time.Duration
	seq    uint64
	queue  entryHeap
	parked map[*Gate][]*entry
	steps  uint64
}

func NewScheduler() *Scheduler {
	return &Scheduler{parked: make(map[*Gate][]*entry)}
}

// Now is the current virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Steps is the number of scheduler steps taken so far.
func (s *Scheduler) Steps() uint64 {
	return s.steps
}

// Go schedules t to be stepped on the next scheduler step.
func (s *Scheduler) Go(name string, t Task) {
	s.After(0, name, t)
}

// After schedules t to be stepped once d of virtual time has passed.
func (s *Scheduler) After(d time.Duration, name string, t Task) {
	s.push(&entry{name: name, task: t, wake: s.now + d})
}

func (s *Scheduler) push(e *entry) {
	s.seq++
	e.seq = s.seq
	heap.Push(&s.queue, e)
}

// Pending counts scheduled and parked tasks.
func (s *Scheduler) Pending() int {
	n := len(s.queue)
	for _, es := range s.parked {
		n += len(es)
	}
	return n
}

// Idle is true when no task is scheduled or parked.
func (s *Scheduler) Idle() bool {
	return s.Pending() == 0
}

// Step advances the clock to the earliest wake time and steps every task
// due at that time. Tasks scheduled during the step run on a later step,
// even if they are due at the same instant. It returns false when nothing
// is scheduled; parked tasks alone do not count.
func (s *Scheduler) Step() bool {
	if len(s.queue) == 0 {
		return false
	}
	if w := s.queue[0].wake; w > s.now {
		s.now = w
	}
	var batch []*entry
	for len(s.queue) > 0 && s.queue[0].wake <= s.now {
		batch = append(batch, heap.Pop(&s.queue).(*entry))
	}
	s.steps++
	for _, e := range batch {
		s.run(e)
	}
	return true
}

func (s *Scheduler) run(e *entry) {
	y := e.task.Step(s.now)
	switch {
	case y.done:
	case y.gate != nil:
		if y.gate.Open() {
			e.wake = s.now
			s.push(e)
			return
		}
		s.parked[y.gate] = append(s.parked[y.gate], e)
	default:
		e.wake = s.now + y.after
		s.push(e)
	}
}

// Advance runs every task due within d and then moves the clock forward
// by d. Hosts with a real frame clock call this once per frame.
func (s *Scheduler) Advance(d time.Duration) {
	end := s.now + d
	for len(s.queue) > 0 && s.queue[0].wake <= end {
		s.Step()
	}
	s.now = end
}

// RunUntilIdle steps until nothing is scheduled, the context is done or
// maxSteps have been taken. Tasks parked on a gate that never opens are
// reported as not idle.
func (s *Scheduler) RunUntilIdle(ctx context.Context, maxSteps int) error {
	for i := 0; i < maxSteps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !s.Step() {
			if len(s.parked) > 0 {
				log.Debug().Int("parked", s.Pending()).Msg("scheduler-stalled")
				return ErrNotIdle
			}
			return nil
		}
	}
	return ErrNotIdle
}

func (s *Scheduler) wake(g *Gate) {
	es := s.parked[g]
	delete(s.parked, g)
	for _, e := range es {
		e.wake = s.now
		s.push(e)
	}
}
