// Package piece defines the cells that live on a tile-matching board: their
// type, color and the capability flags the board's rules consult.
package piece

import "fmt"

// PieceType is the kind of a piece on the board.
type PieceType uint8

const (
	Normal PieceType = iota
	Empty
	RowClear
	ColumnClear
	Bomb
	Rainbow
	SuperRocket
	SuperBomb
	Obstacle

	NumPieceTypes
)

var pieceTypeNames = [...]string{
	Normal:      "normal",
	Empty:       "empty",
	RowClear:    "rowclear",
	ColumnClear: "columnclear",
	Bomb:        "bomb",
	Rainbow:     "rainbow",
	SuperRocket: "superrocket",
	SuperBomb:   "superbomb",
	Obstacle:    "obstacle",
}

func (t PieceType) String() string {
	if t < NumPieceTypes {
		return pieceTypeNames[t]
	}
	return fmt.Sprintf("PieceType(%d)", t)
}

// PieceTypeFromString parses the lowercase name of a piece type.
func PieceTypeFromString(s string) (PieceType, error) {
	for i, n := range pieceTypeNames {
		if n == s {
			return PieceType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown piece type %q", s)
}

// IsLineClear returns true for the two rocket types.
func (t PieceType) IsLineClear() bool {
	return t == RowClear || t == ColumnClear
}

// IsSwapSpecial returns true for the special pieces that make any swap
// they take part in valid.
func (t PieceType) IsSwapSpecial() bool {
	return t == Rainbow || t == RowClear || t == ColumnClear || t == Bomb
}

// IsSpecial returns true for every piece type with a non-color clear
// behavior.
func (t PieceType) IsSpecial() bool {
	switch t {
	case RowClear, ColumnClear, Bomb, Rainbow, SuperRocket, SuperBomb:
		return true
	}
	return false
}

// Color is the color of a piece. Any is used by colorless specials.
type Color int8

const (
	Any Color = -1
)

const (
	Red Color = iota
	Yellow
	Green
	Blue
	Purple
	Orange
	Pink

	MaxColors
)

var colorNames = [...]string{"red", "yellow", "green", "blue", "purple", "orange", "pink"}

// colorRunes are used for textual displays of a board.
var colorRunes = [...]rune{'R', 'Y', 'G', 'B', 'P', 'O', 'K'}

func (c Color) String() string {
	if c == Any {
		return "any"
	}
	if c >= 0 && c < MaxColors {
		return colorNames[c]
	}
	return fmt.Sprintf("Color(%d)", c)
}

// Rune is the single-character representation of a color.
func (c Color) Rune() rune {
	if c >= 0 && c < MaxColors {
		return colorRunes[c]
	}
	return '?'
}

// ColorFromString parses a color name.
func ColorFromString(s string) (Color, error) {
	if s == "any" || s == "" {
		return Any, nil
	}
	for i, n := range colorNames {
		if n == s {
			return Color(i), nil
		}
	}
	return Any, fmt.Errorf("unknown color %q", s)
}

// ColorFromRune is the inverse of Rune.
func ColorFromRune(r rune) (Color, bool) {
	for i, cr := range colorRunes {
		if cr == r {
			return Color(i), true
		}
	}
	return Any, false
}

// Handle is an opaque reference to whatever a renderer instantiated for
// this piece. The core never looks inside.
type Handle any

// A Piece is a single cell of the board. Its X and Y must always equal
// its slot in the board; only the board package moves pieces between
// slots.
type Piece struct {
	X, Y  int
	Type  PieceType
	Color Color

	// Hits is the number of hits an obstacle can still take.
	Hits int

	beingCleared bool
	handle       Handle
}

// New creates a piece of the given type with the default capabilities
// for that type.
func New(x, y int, t PieceType, c Color) *Piece {
	p := &Piece{X: x, Y: y, Type: t, Color: c}
	if t != Normal {
		p.Color = Any
	}
	if t == Obstacle {
		p.Hits = 1
	}
	return p
}

func (p *Piece) String() string {
	if p.Type == Normal {
		return fmt.Sprintf("<%v %v (%d,%d)>", p.Type, p.Color, p.X, p.Y)
	}
	return fmt.Sprintf("<%v (%d,%d)>", p.Type, p.X, p.Y)
}

// Movable pieces can be swapped and fall during a cascade.
func (p *Piece) Movable() bool {
	return p.Type != Empty && p.Type != Obstacle
}

// Clearable pieces can be removed by matches and effects.
func (p *Piece) Clearable() bool {
	return p.Type != Empty
}

// Colored pieces carry a real color and can take part in matches.
func (p *Piece) Colored() bool {
	return p.Type == Normal && p.Color != Any
}

// BeingCleared is true once the piece has been cleared. Such a piece is
// exempt from further matching and clearing.
func (p *Piece) BeingCleared() bool {
	return p.beingCleared
}

// MarkCleared flags the piece as being cleared. It returns false if it
// already was.
func (p *Piece) MarkCleared() bool {
	if p.beingCleared {
		return false
	}
	p.beingCleared = true
	return true
}

// Hit applies one hit to an obstacle and reports whether it broke.
func (p *Piece) Hit() bool {
	if p.Type != Obstacle {
		return true
	}
	p.Hits--
	return p.Hits <= 0
}

// SetColor repaints a Normal piece. Other types ignore it.
func (p *Piece) SetColor(c Color) {
	if p.Type == Normal {
		p.Color = c
	}
}

func (p *Piece) Handle() Handle {
	return p.handle
}

func (p *Piece) SetHandle(h Handle) {
	p.handle = h
}
