package game

import (
	"time"

	"github.com/domino14/tilecrush/piece"
)

// A Renderer draws pieces. The game only stores the handles it returns.
type Renderer interface {
	SpawnPiece(x, y int, t piece.PieceType, c piece.Color) piece.Handle
	DestroyPiece(h piece.Handle)
	MovePiece(h piece.Handle, x, y int, d time.Duration)
}

// A Tracker keeps score and objectives.
type Tracker interface {
	OnMove()
	OnPieceCleared(p *piece.Piece)
}

// ActorKind names a pooled visual effect actor.
type ActorKind uint8

const (
	RocketHalf ActorKind = iota
	Blast
	Beam
)

type Actor any

// An EffectPool hands out reusable effect actors. The game returns every
// actor it acquires once the actor's lifetime has passed.
type EffectPool interface {
	Acquire(kind ActorKind) Actor
	Release(a Actor)
}

type nopRenderer struct{}

func (nopRenderer) SpawnPiece(int, int, piece.PieceType, piece.Color) piece.Handle { return nil }
func (nopRenderer) DestroyPiece(piece.Handle)                                     {}
func (nopRenderer) MovePiece(piece.Handle, int, int, time.Duration)               {}

type nopTracker struct{}

func (nopTracker) OnMove()                    {}
func (nopTracker) OnPieceCleared(*piece.Piece) {}

type nopPool struct{}

func (nopPool) Acquire(ActorKind) Actor { return nil }
func (nopPool) Release(Actor)           {}
