package match

import (
	"github.com/domino14/tilecrush/piece"
)

// Rand is the source of randomness for every rule that needs one.
type Rand interface {
	Intn(n int) int
}

// SwapContext names the two pieces of the swap that produced a match. It
// is nil for matches found during a cascade.
type SwapContext struct {
	A, B *piece.Piece
}

func (s *SwapContext) has(p *piece.Piece) bool {
	return s != nil && (s.A == p || s.B == p)
}

// vertical reports whether the swap moved pieces along a column.
func (s *SwapContext) vertical() bool {
	return s.A.X == s.B.X
}

// A Promotion is the special piece a match leaves behind.
type Promotion struct {
	Type piece.PieceType
	X, Y int
}

// Resolve decides which special, if any, a match earns and where it is
// placed. Four in a row gives a rocket oriented along the swap; five or
// more gives a Rainbow for straight-ish matches and a Bomb for bent ones.
func Resolve(m Match, swap *SwapContext, rng Rand) (Promotion, bool) {
	var t piece.PieceType
	switch {
	case len(m) == 4:
		t = rocketFor(swap, rng)
	case len(m) >= 5:
		t = rainbowOrBomb(m)
	default:
		return Promotion{}, false
	}

	var at *piece.Piece
	for _, p := range m {
		if swap.has(p) {
			at = p
		}
	}
	if at == nil {
		at = m[rng.Intn(len(m))]
	}
	return Promotion{Type: t, X: at.X, Y: at.Y}, true
}

func rocketFor(swap *SwapContext, rng Rand) piece.PieceType {
	if swap != nil {
		if swap.vertical() {
			return piece.ColumnClear
		}
		return piece.RowClear
	}
	if rng.Intn(2) == 0 {
		return piece.RowClear
	}
	return piece.ColumnClear
}

// rainbowOrBomb counts consecutive members sharing a column and
// consecutive members sharing a row, separately. Four or more of either
// means a straight line of five, which earns a Rainbow.
func rainbowOrBomb(m Match) piece.PieceType {
	xCount, yCount := 0, 0
	for i := 0; i+1 < len(m); i++ {
		if m[i].X == m[i+1].X {
			xCount++
		}
		if m[i].Y == m[i+1].Y {
			yCount++
		}
	}
	if xCount >= 4 || yCount >= 4 {
		return piece.Rainbow
	}
	return piece.Bomb
}
