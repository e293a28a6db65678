package game

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/tilecrush/board"
	"github.com/domino14/tilecrush/match"
	"github.com/domino14/tilecrush/piece"
	"github.com/domino14/tilecrush/task"
)

const (
	swapOwner     = "swap"
	rollbackOwner = "rollback"
)

// Adjacent is true for pieces at Manhattan distance exactly 1.
func Adjacent(a, b *piece.Piece) bool {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx+dy == 1
}

// validSwapped checks a board on which a and b have already been
// exchanged.
func validSwapped(b *board.Board, p1, p2 *piece.Piece) bool {
	if p1.Type.IsSwapSpecial() || p2.Type.IsSwapSpecial() {
		return true
	}
	return match.FindMatch(b, p1, p1.X, p1.Y) != nil ||
		match.FindMatch(b, p2, p2.X, p2.Y) != nil
}

// IsValidSwap reports whether swapping p1 and p2 on b would be accepted.
// b is left unchanged.
func IsValidSwap(b *board.Board, p1, p2 *piece.Piece) bool {
	if !p1.Movable() || !p2.Movable() || !Adjacent(p1, p2) {
		return false
	}
	b.Swap(p1, p2)
	defer b.Swap(p1, p2)
	return validSwapped(b, p1, p2)
}

func (g *Game) checkSwap(p1, p2 *piece.Piece) error {
	switch {
	case g.over:
		return ErrGameOver
	case g.Busy():
		return ErrBusy
	case !g.board.Holds(p1) || !g.board.Holds(p2):
		return ErrNotOnBoard
	case !p1.Movable() || !p2.Movable() || p1.BeingCleared() || p2.BeingCleared():
		return ErrImmovable
	case !Adjacent(p1, p2):
		return ErrNotAdjacent
	}
	return nil
}

// Swap exchanges two adjacent pieces. It returns true if the swap was
// committed. A swap that makes no match and involves no special is rolled
// back; a swap that can't be attempted at all is dropped.
func (g *Game) Swap(p1, p2 *piece.Piece) bool {
	committed, err := g.TrySwap(p1, p2)
	if err != nil {
		log.Debug().Err(err).Msg("swap-dropped")
	}
	return committed
}

// TrySwap is Swap with the reason a swap was dropped. An invalid swap
// that gets rolled back returns false and a nil error.
func (g *Game) TrySwap(p1, p2 *piece.Piece) (bool, error) {
	if p1 == nil || p2 == nil {
		return false, ErrNotOnBoard
	}
	if err := g.checkSwap(p1, p2); err != nil {
		return false, err
	}
	priorX, priorY := p1.X, p1.Y
	g.board.Swap(p1, p2)
	if !validSwapped(g.board, p1, p2) {
		g.board.Swap(p1, p2)
		g.stats.InvalidSwaps++
		g.rollback(p1, p2)
		return false, nil
	}

	g.swapping.TryAcquire(swapOwner)
	g.renderer.MovePiece(p1.Handle(), p1.X, p1.Y, SwapTime)
	g.renderer.MovePiece(p2.Handle(), p2.X, p2.Y, SwapTime)

	g.combine(p1, p2, priorX, priorY)
	g.clearAllValidMatches(&match.SwapContext{A: p1, B: p2})

	g.swapping.Release(swapOwner)
	g.pressed, g.entered = nil, nil
	g.stats.Moves++
	g.tracker.OnMove()
	g.requestFill(0)
	return true, nil
}

// rollback animates an invalid swap out and back. The grid itself has
// already been restored; the token stays held until the animation ends.
func (g *Game) rollback(p1, p2 *piece.Piece) {
	g.swapping.TryAcquire(rollbackOwner)
	g.renderer.MovePiece(p1.Handle(), p2.X, p2.Y, SwapTime)
	g.renderer.MovePiece(p2.Handle(), p1.X, p1.Y, SwapTime)
	g.sched.After(InvalidSwapWait, "rollback", task.Func(func(now time.Duration) task.Yield {
		g.renderer.MovePiece(p1.Handle(), p1.X, p1.Y, SwapTime)
		g.renderer.MovePiece(p2.Handle(), p2.X, p2.Y, SwapTime)
		g.swapping.Release(rollbackOwner)
		return task.Done()
	}))
}
