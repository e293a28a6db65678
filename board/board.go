// Package board owns the grid of pieces for a tile-matching game. It only
// enforces the grid invariants; game rules live in the game package.
package board

import (
	"fmt"

	"github.com/domino14/tilecrush/piece"
)

// A Board is a fixed-size grid of pieces. Every in-bounds coordinate always
// holds exactly one piece; Empty pieces are placeholders. x grows to the
// right and y grows downwards, so row 0 is the top row.
type Board struct {
	width  int
	height int
	// squares is indexed [y][x].
	squares [][]*piece.Piece
}

// MakeBoard creates a board filled with Empty pieces.
func MakeBoard(width, height int) *Board {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("invalid board dimensions %dx%d", width, height))
	}
	b := &Board{width: width, height: height}
	b.squares = make([][]*piece.Piece, height)
	for y := range height {
		b.squares[y] = make([]*piece.Piece, width)
		for x := range width {
			b.squares[y][x] = piece.New(x, y, piece.Empty, piece.Any)
		}
	}
	return b
}

func (b *Board) Width() int {
	return b.width
}

func (b *Board) Height() int {
	return b.height
}

func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

func (b *Board) mustBeInBounds(x, y int) {
	if !b.InBounds(x, y) {
		panic(fmt.Sprintf("coordinate (%d,%d) out of bounds for %dx%d board",
			x, y, b.width, b.height))
	}
}

// Get returns the piece at (x, y). Out-of-bounds access is a programming
// error and panics.
func (b *Board) Get(x, y int) *piece.Piece {
	b.mustBeInBounds(x, y)
	return b.squares[y][x]
}

// Set places p at (x, y) and updates its coordinates.
func (b *Board) Set(x, y int, p *piece.Piece) {
	b.mustBeInBounds(x, y)
	p.X, p.Y = x, y
	b.squares[y][x] = p
}

// Spawn replaces whatever is at (x, y) with a fresh piece of the given
// type and color, and returns it.
func (b *Board) Spawn(x, y int, t piece.PieceType, c piece.Color) *piece.Piece {
	p := piece.New(x, y, t, c)
	b.Set(x, y, p)
	return p
}

// Swap exchanges the slots of two pieces, keeping their coordinates
// consistent with the grid.
func (b *Board) Swap(p1, p2 *piece.Piece) {
	x1, y1 := p1.X, p1.Y
	x2, y2 := p2.X, p2.Y
	b.Set(x2, y2, p1)
	b.Set(x1, y1, p2)
}

// Holds returns true if p is the piece currently occupying its own
// recorded coordinate.
func (b *Board) Holds(p *piece.Piece) bool {
	return p != nil && b.InBounds(p.X, p.Y) && b.squares[p.Y][p.X] == p
}

// Copy returns a deep copy of the board. Renderer handles are not carried
// over.
func (b *Board) Copy() *Board {
	c := &Board{width: b.width, height: b.height}
	c.squares = make([][]*piece.Piece, b.height)
	for y := range b.height {
		c.squares[y] = make([]*piece.Piece, b.width)
		for x := range b.width {
			p := *b.squares[y][x]
			p.SetHandle(nil)
			c.squares[y][x] = &p
		}
	}
	return c
}

// Identities returns a snapshot of the piece pointers per coordinate. Two
// snapshots are equal iff the same piece objects sit at the same slots.
func (b *Board) Identities() [][]*piece.Piece {
	ids := make([][]*piece.Piece, b.height)
	for y := range b.height {
		ids[y] = make([]*piece.Piece, b.width)
		copy(ids[y], b.squares[y])
	}
	return ids
}

// Each calls fn for every piece in row-major order.
func (b *Board) Each(fn func(p *piece.Piece)) {
	for y := range b.height {
		for x := range b.width {
			fn(b.squares[y][x])
		}
	}
}

// PiecesOfType returns all pieces of the given type, column by column.
func (b *Board) PiecesOfType(t piece.PieceType) []*piece.Piece {
	var ps []*piece.Piece
	for x := range b.width {
		for y := range b.height {
			if b.squares[y][x].Type == t {
				ps = append(ps, b.squares[y][x])
			}
		}
	}
	return ps
}

// CountColor counts the colored Normal pieces of color c.
func (b *Board) CountColor(c piece.Color) int {
	n := 0
	b.Each(func(p *piece.Piece) {
		if p.Colored() && p.Color == c {
			n++
		}
	})
	return n
}

// Equals compares type, color and hits of every cell.
func (b *Board) Equals(o *Board) bool {
	if b.width != o.width || b.height != o.height {
		return false
	}
	for y := range b.height {
		for x := range b.width {
			p, q := b.squares[y][x], o.squares[y][x]
			if p.Type != q.Type || p.Color != q.Color || p.Hits != q.Hits {
				return false
			}
		}
	}
	return true
}
