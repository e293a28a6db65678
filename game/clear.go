package game

import (
	"github.com/rs/zerolog/log"

	"github.com/domino14/tilecrush/effect"
	"github.com/domino14/tilecrush/match"
	"github.com/domino14/tilecrush/piece"
)

// remove takes p off the board, leaving an Empty piece in its slot.
func (g *Game) remove(p *piece.Piece) bool {
	if !p.MarkCleared() {
		return false
	}
	g.stats.Cleared++
	g.tracker.OnPieceCleared(p)
	g.replace(p.X, p.Y, piece.Empty, piece.Any)
	return true
}

// ClearPiece clears the piece at (x, y): it is replaced by Empty, damages
// neighboring obstacles and, if it is a special, starts its effect. Empty
// cells, obstacles and pieces already being cleared are left alone.
func (g *Game) ClearPiece(x, y int) bool {
	if !g.board.InBounds(x, y) {
		return false
	}
	p := g.board.Get(x, y)
	if !p.Clearable() || p.BeingCleared() || p.Type == piece.Obstacle {
		return false
	}
	g.remove(p)
	g.clearObstacles(x, y)
	if v, ok := effect.ForPiece(p.Type); ok {
		g.startSequence(v, x, y, nil)
	}
	return true
}

// clearObstacles hits every obstacle next to (x, y).
func (g *Game) clearObstacles(x, y int) {
	for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		nx, ny := x+d[0], y+d[1]
		if !g.board.InBounds(nx, ny) {
			continue
		}
		q := g.board.Get(nx, ny)
		if q.Type != piece.Obstacle || q.BeingCleared() {
			continue
		}
		if q.Hit() {
			g.remove(q)
		}
	}
}

// consume removes a swapped special without running its own effect.
func (g *Game) consume(p *piece.Piece) {
	if g.remove(p) {
		g.clearObstacles(p.X, p.Y)
	}
}

// clearAllValidMatches clears every match on the board, scanning row by
// row on the grid as it is being mutated.
func (g *Game) clearAllValidMatches(swap *match.SwapContext) bool {
	cleared := false
	for y := range g.board.Height() {
		for x := range g.board.Width() {
			p := g.board.Get(x, y)
			if !p.Clearable() || p.BeingCleared() {
				continue
			}
			m := match.FindMatch(g.board, p, x, y)
			if m == nil {
				continue
			}
			if g.clearMatch(m, swap) {
				cleared = true
			}
		}
	}
	return cleared
}

func (g *Game) clearMatch(m match.Match, swap *match.SwapContext) bool {
	promo, ok := match.Resolve(m, swap, g.rng)
	cleared := false
	for _, p := range m {
		if g.ClearPiece(p.X, p.Y) {
			cleared = true
		}
	}
	if ok {
		g.replace(promo.X, promo.Y, promo.Type, piece.Any)
		g.stats.SpecialsCreated++
		log.Debug().Stringer("type", promo.Type).Int("x", promo.X).Int("y", promo.Y).
			Int("size", len(m)).Msg("special-created")
	}
	return cleared
}

// combine runs the special combination for a committed swap of p1 onto
// p2. priorX and priorY are p1's coordinates before the swap.
func (g *Game) combine(p1, p2 *piece.Piece, priorX, priorY int) bool {
	key := match.DetermineKey(p1, p2)
	trigger, partner, ok := match.Participants(key, p1, p2)
	if !ok || trigger.BeingCleared() || partner.BeingCleared() {
		return false
	}
	v, ok := effect.ForCombination(trigger.Type, partner.Type)
	if !ok {
		return false
	}
	log.Debug().Stringer("key", key).Stringer("trigger", trigger.Type).
		Stringer("partner", partner.Type).Stringer("kind", v.Kind).Msg("combination")

	if v.Kind == effect.Detonate {
		return g.ClearPiece(trigger.X, trigger.Y)
	}
	ox, oy := trigger.X, trigger.Y
	switch v.Origin {
	case effect.AtFirst:
		ox, oy = p1.X, p1.Y
	case effect.AtFirstPrior:
		ox, oy = priorX, priorY
	}
	if v.ConsumePartner {
		g.consume(partner)
	}
	if v.ConsumeTrigger {
		g.consume(trigger)
	}
	if v.Promotes() {
		p := g.replace(ox, oy, v.Promote, piece.Any)
		g.stats.SpecialsCreated++
		g.consume(p)
	}
	g.startSequence(v, ox, oy, partner)
	return true
}
