package board

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/domino14/tilecrush/piece"
)

// A Placement overrides the initial piece at one coordinate.
type Placement struct {
	X     int    `yaml:"x"`
	Y     int    `yaml:"y"`
	Type  string `yaml:"type"`
	Color string `yaml:"color,omitempty"`
	Hits  int    `yaml:"hits,omitempty"`

	pieceType piece.PieceType
	color     piece.Color
}

func (p Placement) PieceType() piece.PieceType {
	return p.pieceType
}

// A Layout describes a starting board. Cells without a placement start
// Empty and are filled by the first cascade.
type Layout struct {
	Name   string      `yaml:"name"`
	Width  int         `yaml:"width"`
	Height int         `yaml:"height"`
	Colors int         `yaml:"colors,omitempty"`
	Pieces []Placement `yaml:"pieces"`
}

// ParseLayout decodes a YAML layout and validates every placement.
func ParseLayout(data []byte) (*Layout, error) {
	l := &Layout{}
	if err := yaml.Unmarshal(data, l); err != nil {
		return nil, fmt.Errorf("decoding layout: %w", err)
	}
	if l.Width <= 0 || l.Height <= 0 {
		return nil, fmt.Errorf("layout %q: invalid dimensions %dx%d", l.Name, l.Width, l.Height)
	}
	for i := range l.Pieces {
		pl := &l.Pieces[i]
		t, err := piece.PieceTypeFromString(pl.Type)
		if err != nil {
			return nil, fmt.Errorf("layout %q placement %d: %w", l.Name, i, err)
		}
		c, err := piece.ColorFromString(pl.Color)
		if err != nil {
			return nil, fmt.Errorf("layout %q placement %d: %w", l.Name, i, err)
		}
		if t == piece.Normal && c == piece.Any {
			return nil, fmt.Errorf("layout %q placement %d: normal piece needs a color", l.Name, i)
		}
		pl.pieceType = t
		pl.color = c
	}
	return l, nil
}

// LoadLayout reads and parses a layout file.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseLayout(data)
}

// OfType lists the placements of a given piece type.
func (l *Layout) OfType(t piece.PieceType) []Placement {
	var out []Placement
	for _, p := range l.Pieces {
		if p.pieceType == t {
			out = append(out, p)
		}
	}
	return out
}

// Apply spawns each in-bounds placement on b. Out-of-bounds placements are
// skipped. spawn is called for every placed piece so the caller can
// attach renderer handles.
func (l *Layout) Apply(b *Board, spawn func(p *piece.Piece)) {
	for _, pl := range l.Pieces {
		if !b.InBounds(pl.X, pl.Y) {
			continue
		}
		p := b.Spawn(pl.X, pl.Y, pl.pieceType, pl.color)
		if pl.pieceType == piece.Obstacle && pl.Hits > 0 {
			p.Hits = pl.Hits
		}
		if spawn != nil {
			spawn(p)
		}
	}
}
