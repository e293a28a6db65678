package task

import "fmt"

// A Token is an exclusive, non-queueing lock. A caller that fails to
// acquire it is expected to drop its request rather than wait.
type Token struct {
	name   string
	holder string
}

func NewToken(name string) *Token {
	return &Token{name: name}
}

// TryAcquire takes the token for owner. It returns false if the token is
// already held by anyone.
func (t *Token) TryAcquire(owner string) bool {
	if t.holder != "" {
		return false
	}
	t.holder = owner
	return true
}

// Release gives the token back. Releasing a token you don't hold is a
// programming error.
func (t *Token) Release(owner string) {
	if t.holder != owner {
		panic(fmt.Sprintf("token %s released by %q but held by %q", t.name, owner, t.holder))
	}
	t.holder = ""
}

func (t *Token) Held() bool {
	return t.holder != ""
}

func (t *Token) Holder() string {
	return t.holder
}

// A Gate is a counting hold. Any number of holders may keep it closed;
// tasks that Await it are parked until the last holder releases.
type Gate struct {
	name  string
	holds int
	s     *Scheduler
}

// NewGate creates an open gate whose parked tasks are woken on s.
func (s *Scheduler) NewGate(name string) *Gate {
	return &Gate{name: name, s: s}
}

func (g *Gate) Hold() {
	g.holds++
}

// Release drops one hold. When the count reaches zero every parked task
// is rescheduled.
func (g *Gate) Release() {
	if g.holds <= 0 {
		panic(fmt.Sprintf("gate %s released more times than held", g.name))
	}
	g.holds--
	if g.holds == 0 {
		g.s.wake(g)
	}
}

func (g *Gate) Open() bool {
	return g.holds == 0
}

func (g *Gate) Holds() int {
	return g.holds
}

func (g *Gate) Name() string {
	return g.name
}
