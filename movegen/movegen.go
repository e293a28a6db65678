// Package movegen lists the swaps a player can make on a board and ranks
// them. The autoplay bot and the shell's hint command both use it.
package movegen

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/domino14/tilecrush/board"
	"github.com/domino14/tilecrush/game"
	"github.com/domino14/tilecrush/match"
	"github.com/domino14/tilecrush/piece"
)

const (
	specialBonus = 10
	comboBonus   = 20
	fourBonus    = 5
	fiveBonus    = 10
)

// Swap is an exchange of the pieces at (X1, Y1) and (X2, Y2).
type Swap struct {
	X1, Y1 int
	X2, Y2 int
	Score  int
}

func (s Swap) String() string {
	return fmt.Sprintf("(%d,%d)<->(%d,%d) score=%d", s.X1, s.Y1, s.X2, s.Y2, s.Score)
}

// Pieces returns the two pieces of s on b.
func (s Swap) Pieces(b *board.Board) (*piece.Piece, *piece.Piece) {
	return b.Get(s.X1, s.Y1), b.Get(s.X2, s.Y2)
}

func matchScore(n int) int {
	switch {
	case n >= 5:
		return n + fiveBonus
	case n == 4:
		return n + fourBonus
	}
	return n
}

// score rates a swap that has already been applied to b.
func score(b *board.Board, p1, p2 *piece.Piece) int {
	s := 0
	if p1.Type.IsSwapSpecial() {
		s += specialBonus
	}
	if p2.Type.IsSwapSpecial() {
		s += specialBonus
	}
	if p1.Type.IsSwapSpecial() && p2.Type.IsSwapSpecial() {
		s += comboBonus
	}
	m1 := match.FindMatch(b, p1, p1.X, p1.Y)
	m2 := match.FindMatch(b, p2, p2.X, p2.Y)
	return s + matchScore(len(m1)) + matchScore(len(m2))
}

func usable(p *piece.Piece) bool {
	return p.Movable() && !p.BeingCleared()
}

// GenerateSwaps returns every valid swap on b in row-major order, each
// pair listed once with its right or lower neighbor. b is left as it was.
func GenerateSwaps(b *board.Board) []Swap {
	var swaps []Swap
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			p1 := b.Get(x, y)
			if !usable(p1) {
				continue
			}
			for _, d := range [][2]int{{1, 0}, {0, 1}} {
				nx, ny := x+d[0], y+d[1]
				if !b.InBounds(nx, ny) {
					continue
				}
				p2 := b.Get(nx, ny)
				if !usable(p2) || !game.IsValidSwap(b, p1, p2) {
					continue
				}
				b.Swap(p1, p2)
				sc := score(b, p1, p2)
				b.Swap(p1, p2)
				swaps = append(swaps, Swap{X1: x, Y1: y, X2: nx, Y2: ny, Score: sc})
			}
		}
	}
	return swaps
}

// Best returns the highest scoring swap. Ties go to the earliest in the
// list. ok is false when swaps is empty.
func Best(swaps []Swap) (Swap, bool) {
	if len(swaps) == 0 {
		return Swap{}, false
	}
	return lo.MaxBy(swaps, func(a, b Swap) bool {
		return a.Score > b.Score
	}), true
}

// Random picks a uniformly random swap using rng.
func Random(swaps []Swap, rng game.Rand) (Swap, bool) {
	if len(swaps) == 0 {
		return Swap{}, false
	}
	return swaps[rng.Intn(len(swaps))], true
}

// TopN returns up to n swaps sorted best first.
func TopN(swaps []Swap, n int) []Swap {
	sorted := make([]Swap, len(swaps))
	copy(sorted, swaps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
