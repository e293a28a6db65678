// Package match finds runs of same-colored pieces and decides what kind
// of special piece a match earns.
package match

import (
	"github.com/samber/lo"

	"github.com/domino14/tilecrush/board"
	"github.com/domino14/tilecrush/piece"
)

// MinLength is the shortest run that counts as a match.
const MinLength = 3

// A Match is an ordered, duplicate-free set of pieces cleared together.
type Match []*piece.Piece

// Contains reports whether p is part of the match.
func (m Match) Contains(p *piece.Piece) bool {
	return lo.Contains(m, p)
}

func joins(q *piece.Piece, c piece.Color) bool {
	return q.Colored() && q.Color == c && !q.BeingCleared()
}

// horizontal returns p followed by the matching pieces to its left and
// then to its right, with p treated as sitting at (x, y).
func horizontal(b *board.Board, p *piece.Piece, x, y int) Match {
	run := Match{p}
	for dx := -1; dx <= 1; dx += 2 {
		for nx := x + dx; nx >= 0 && nx < b.Width(); nx += dx {
			q := b.Get(nx, y)
			if q == p || !joins(q, p.Color) {
				break
			}
			run = append(run, q)
		}
	}
	return run
}

func vertical(b *board.Board, p *piece.Piece, x, y int) Match {
	run := Match{p}
	for dy := -1; dy <= 1; dy += 2 {
		for ny := y + dy; ny >= 0 && ny < b.Height(); ny += dy {
			q := b.Get(x, ny)
			if q == p || !joins(q, p.Color) {
				break
			}
			run = append(run, q)
		}
	}
	return run
}

// FindMatch returns every piece that would be cleared together with p if
// p sat at (x, y), or nil if p is not part of a match. A straight run of
// MinLength or more is extended by any perpendicular run of at least
// MinLength-1 pieces hanging off one of its members, which gives L and T
// shapes. Only the first such perpendicular run is taken.
func FindMatch(b *board.Board, p *piece.Piece, x, y int) Match {
	if !p.Colored() || !b.InBounds(x, y) {
		return nil
	}
	var found Match

	if h := horizontal(b, p, x, y); len(h) >= MinLength {
		found = append(found, h...)
		for i, m := range h {
			mx := m.X
			if i == 0 {
				mx = x
			}
			if v := vertical(b, m, mx, y)[1:]; len(v) >= MinLength-1 {
				found = append(found, v...)
				break
			}
		}
	}

	if v := vertical(b, p, x, y); len(v) >= MinLength {
		found = append(found, v...)
		for i, m := range v {
			my := m.Y
			if i == 0 {
				my = y
			}
			if h := horizontal(b, m, x, my)[1:]; len(h) >= MinLength-1 {
				found = append(found, h...)
				break
			}
		}
	}

	found = lo.Uniq(found)
	if len(found) < MinLength {
		return nil
	}
	return found
}

// HasMatch is true if any colored piece on b currently sits in a match.
func HasMatch(b *board.Board) bool {
	for y := range b.Height() {
		for x := range b.Width() {
			if FindMatch(b, b.Get(x, y), x, y) != nil {
				return true
			}
		}
	}
	return false
}
