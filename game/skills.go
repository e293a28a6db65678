package game

import (
	"github.com/rs/zerolog/log"

	"github.com/domino14/tilecrush/piece"
)

// PaintPiece recolors a Normal piece and runs a cascade pass.
func (g *Game) PaintPiece(p *piece.Piece, c piece.Color) bool {
	if !g.board.Holds(p) || !p.Colored() || c < 0 || int(c) >= g.colors {
		return false
	}
	log.Debug().Stringer("from", p.Color).Stringer("to", c).Int("x", p.X).Int("y", p.Y).Msg("paint")
	p.SetColor(c)
	g.destroyHandle(p)
	p.SetHandle(g.renderer.SpawnPiece(p.X, p.Y, p.Type, c))
	g.fillers()
	return true
}

// BreakPiece clears the piece at (x, y) and runs a cascade pass. Unlike
// other clears it also damages an obstacle directly.
func (g *Game) BreakPiece(x, y int) bool {
	if !g.board.InBounds(x, y) {
		return false
	}
	p := g.board.Get(x, y)
	var broke bool
	if p.Type == piece.Obstacle {
		if broke = p.Hit(); broke {
			g.remove(p)
		}
	} else {
		broke = g.ClearPiece(x, y)
	}
	if broke {
		g.fillers()
	}
	return broke
}

func (g *Game) fillers() {
	g.clearAllValidMatches(nil)
	g.requestFill(0)
}
