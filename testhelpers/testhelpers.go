// Package testhelpers has board builders and recording collaborators shared
// by the package tests.
package testhelpers

import (
	"time"

	"github.com/domino14/tilecrush/board"
	"github.com/domino14/tilecrush/config"
	"github.com/domino14/tilecrush/piece"
)

var DefaultConfig = config.DefaultConfig()

// SeqRand replays a fixed list of values, reduced modulo n, cycling when it
// runs out.
type SeqRand struct {
	Vals []int
	i    int
}

func (s *SeqRand) Intn(n int) int {
	if len(s.Vals) == 0 {
		return 0
	}
	v := s.Vals[s.i%len(s.Vals)] % n
	s.i++
	return v
}

// Draws is how many values have been taken.
func (s *SeqRand) Draws() int {
	return s.i
}

// MustBoard builds a board from compact rows and panics on bad input.
func MustBoard(rows ...string) *board.Board {
	b, err := board.FromRows(rows)
	if err != nil {
		panic(err)
	}
	return b
}

// Checkerboard fills a board with four colors so that no two neighbors in
// a row share a color and no column has three in a row.
func Checkerboard(w, h int) *board.Board {
	b := board.MakeBoard(w, h)
	for y := range h {
		for x := range w {
			b.Spawn(x, y, piece.Normal, piece.Color((x+2*y)%4))
		}
	}
	return b
}

type Spawn struct {
	X, Y  int
	Type  piece.PieceType
	Color piece.Color
}

type Move struct {
	Handle int
	X, Y   int
}

// Renderer records every call. Handles are increasing integers.
type Renderer struct {
	Spawns    []Spawn
	Destroyed []int
	Moves     []Move
	next      int
}

func (r *Renderer) SpawnPiece(x, y int, t piece.PieceType, c piece.Color) piece.Handle {
	r.next++
	r.Spawns = append(r.Spawns, Spawn{x, y, t, c})
	return r.next
}

func (r *Renderer) DestroyPiece(h piece.Handle) {
	r.Destroyed = append(r.Destroyed, h.(int))
}

func (r *Renderer) MovePiece(h piece.Handle, x, y int, d time.Duration) {
	id, _ := h.(int)
	r.Moves = append(r.Moves, Move{id, x, y})
}

// SpawnsOf filters the recorded spawns by type.
func (r *Renderer) SpawnsOf(t piece.PieceType) []Spawn {
	var out []Spawn
	for _, s := range r.Spawns {
		if s.Type == t {
			out = append(out, s)
		}
	}
	return out
}

type Cleared struct {
	X, Y  int
	Type  piece.PieceType
	Color piece.Color
}

// Tracker records moves and cleared pieces.
type Tracker struct {
	Moves   int
	Cleared []Cleared
}

func (t *Tracker) OnMove() {
	t.Moves++
}

func (t *Tracker) OnPieceCleared(p *piece.Piece) {
	t.Cleared = append(t.Cleared, Cleared{p.X, p.Y, p.Type, p.Color})
}

// ClearedOf filters the recorded clears by type.
func (t *Tracker) ClearedOf(pt piece.PieceType) []Cleared {
	var out []Cleared
	for _, c := range t.Cleared {
		if c.Type == pt {
			out = append(out, c)
		}
	}
	return out
}
