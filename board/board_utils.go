package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/domino14/tilecrush/piece"
)

var ErrRaggedRows = errors.New("board rows must all have the same width")

var typeRunes = map[piece.PieceType]rune{
	piece.Empty:       '.',
	piece.RowClear:    '-',
	piece.ColumnClear: '|',
	piece.Bomb:        '*',
	piece.Rainbow:     '@',
	piece.SuperRocket: '+',
	piece.SuperBomb:   '#',
	piece.Obstacle:    'X',
}

// DisplayRune is the character used for p in textual boards.
func DisplayRune(p *piece.Piece) rune {
	if p.Type == piece.Normal {
		return p.Color.Rune()
	}
	return typeRunes[p.Type]
}

func parseRune(r rune) (piece.PieceType, piece.Color, error) {
	if c, ok := piece.ColorFromRune(r); ok {
		return piece.Normal, c, nil
	}
	for t, tr := range typeRunes {
		if tr == r {
			return t, piece.Any, nil
		}
	}
	return 0, piece.Any, fmt.Errorf("unrecognized board character %q", r)
}

func (b *Board) ToDisplayText() string {
	var sb strings.Builder
	sb.WriteString("   ")
	for x := range b.width {
		fmt.Fprintf(&sb, "%d ", x%10)
	}
	sb.WriteString("\n   " + strings.Repeat("-", b.width*2) + "\n")
	for y := range b.height {
		fmt.Fprintf(&sb, "%2d|", y)
		for x := range b.width {
			sb.WriteRune(DisplayRune(b.squares[y][x]))
			sb.WriteRune(' ')
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("   " + strings.Repeat("-", b.width*2) + "\n")
	return "\n" + sb.String()
}

// Rows is the compact form of the board, one string per row, as accepted
// by FromRows.
func (b *Board) Rows() []string {
	rows := make([]string, b.height)
	for y := range b.height {
		rs := make([]rune, b.width)
		for x := range b.width {
			rs[x] = DisplayRune(b.squares[y][x])
		}
		rows[y] = string(rs)
	}
	return rows
}

// FromRows builds a board from compact rows such as "RRB.X". Spaces are
// ignored so rows can be written with separators.
func FromRows(rows []string) (*Board, error) {
	if len(rows) == 0 {
		return nil, errors.New("no rows given")
	}
	cleaned := make([][]rune, len(rows))
	for i, r := range rows {
		cleaned[i] = []rune(strings.ReplaceAll(r, " ", ""))
		if len(cleaned[i]) != len(cleaned[0]) {
			return nil, ErrRaggedRows
		}
	}
	if len(cleaned[0]) == 0 {
		return nil, errors.New("empty row")
	}
	b := MakeBoard(len(cleaned[0]), len(cleaned))
	for y, row := range cleaned {
		for x, r := range row {
			t, c, err := parseRune(r)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", y, x, err)
			}
			b.Spawn(x, y, t, c)
		}
	}
	return b, nil
}
