package game

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/tilecrush/piece"
	"github.com/domino14/tilecrush/task"
)

const fillOwner = "fill"

// requestFill starts a fill cycle after delay. A request made while a
// cycle is running is folded into that cycle as one more settle pass.
func (g *Game) requestFill(delay time.Duration) {
	if !g.filling.TryAcquire(fillOwner) {
		g.refill = true
		return
	}
	g.stats.FillCycles++
	g.sched.After(delay, "fill", &fillCycle{g: g})
}

// fillCycle drops pieces and tops up the board one step at a time, then
// clears whatever matches formed, until nothing moves and nothing
// matches.
type fillCycle struct {
	g       *Game
	started bool
	depth   int
}

func (f *fillCycle) Step(now time.Duration) task.Yield {
	g := f.g
	if !g.destroying.Open() {
		return task.Await(g.destroying)
	}
	if !f.started {
		f.started = true
		return task.Sleep(g.fillDelay)
	}
	if g.fillStep() {
		g.inverse = !g.inverse
		return task.Sleep(g.fillDelay)
	}
	cleared := g.clearAllValidMatches(nil)
	if cleared {
		f.depth++
		g.stats.MaxCascade = max(g.stats.MaxCascade, f.depth)
	}
	if cleared || g.refill {
		g.refill = false
		return task.Sleep(g.fillDelay)
	}
	g.filling.Release(fillOwner)
	log.Debug().Int("depth", f.depth).Dur("at", now).Msg("fill-cycle-done")
	return task.Done()
}

// fillStep makes one round of falling and topping-up and reports whether
// anything moved.
func (g *Game) fillStep() bool {
	g.stats.FillSteps++
	moved := g.movePiecesDown()
	if g.fillTopRow() {
		moved = true
	}
	return moved
}

func (g *Game) movePiecesDown() bool {
	moved := false
	w := g.board.Width()
	for y := g.board.Height() - 2; y >= 0; y-- {
		for i := range w {
			x := i
			if g.inverse {
				x = w - 1 - i
			}
			p := g.board.Get(x, y)
			if !p.Movable() || p.BeingCleared() {
				continue
			}
			if g.moveStraightDown(p, x, y) || g.moveDiagonally(p, x, y) {
				moved = true
			}
		}
	}
	return moved
}

func (g *Game) moveStraightDown(p *piece.Piece, x, y int) bool {
	if g.board.Get(x, y+1).Type != piece.Empty {
		return false
	}
	g.move(p, x, y+1)
	return true
}

func (g *Game) moveDiagonally(p *piece.Piece, x, y int) bool {
	for diag := -1; diag <= 1; diag += 2 {
		dx := x + diag
		if g.inverse {
			dx = x - diag
		}
		if !g.board.InBounds(dx, y+1) {
			continue
		}
		if g.board.Get(dx, y+1).Type != piece.Empty || !g.shadowed(dx, y) {
			continue
		}
		g.move(p, dx, y+1)
		return true
	}
	return false
}

// shadowed reports whether column x cannot be fed from above at row y:
// scanning upward from y, the first non-Empty cell is immovable. A column
// that is Empty all the way up is fed by topping-up instead. Diagonal
// falls only go into shadowed cells, so a column with a movable piece
// above waits for it to come straight down.
func (g *Game) shadowed(x, y int) bool {
	for ay := y; ay >= 0; ay-- {
		q := g.board.Get(x, ay)
		if q.Type == piece.Empty {
			continue
		}
		return !q.Movable()
	}
	return false
}

func (g *Game) fillTopRow() bool {
	moved := false
	for x := range g.board.Width() {
		old := g.board.Get(x, 0)
		if old.Type != piece.Empty {
			continue
		}
		g.destroyHandle(old)
		c := g.randomColor()
		p := g.board.Spawn(x, 0, piece.Normal, c)
		h := g.renderer.SpawnPiece(x, -1, piece.Normal, c)
		p.SetHandle(h)
		g.renderer.MovePiece(h, x, 0, g.fillDelay)
		moved = true
	}
	return moved
}
