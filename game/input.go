package game

import "github.com/domino14/tilecrush/piece"

// PressPiece records the piece the player started dragging.
func (g *Game) PressPiece(p *piece.Piece) {
	if g.over {
		return
	}
	g.pressed = p
}

// EnterPiece records the piece the drag is currently over.
func (g *Game) EnterPiece(p *piece.Piece) {
	g.entered = p
}

// ReleasePiece ends a drag, swapping the pressed and entered pieces if
// they are adjacent. The drag state is cleared either way.
func (g *Game) ReleasePiece() bool {
	p, e := g.pressed, g.entered
	g.pressed, g.entered = nil, nil
	if p == nil || e == nil || !Adjacent(p, e) {
		return false
	}
	return g.Swap(p, e)
}
