package game

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/tilecrush/effect"
	"github.com/domino14/tilecrush/piece"
	"github.com/domino14/tilecrush/task"
)

type cell struct {
	x, y int
}

// A sequence runs one effect variant wave by wave while holding the
// destroying gate.
type sequence struct {
	g       *Game
	v       effect.Variant
	x, y    int
	color   piece.Color
	partner *piece.Piece
	waves   [][]cell
	next    int
	settled bool
}

func (g *Game) startSequence(v effect.Variant, x, y int, partner *piece.Piece) {
	s := &sequence{g: g, v: v, x: x, y: y, partner: partner}
	s.color = g.targetColor(v, partner)
	s.waves = g.waves(v, x, y)
	g.destroying.Hold()
	g.stats.Effects++
	g.acquireActors(v)
	log.Debug().Stringer("kind", v.Kind).Int("x", x).Int("y", y).
		Stringer("color", s.color).Int("holds", g.destroying.Holds()).Msg("effect-start")
	g.sched.Go("effect-"+v.Kind.String(), s)
}

func (s *sequence) Step(now time.Duration) task.Yield {
	g := s.g
	if s.next < len(s.waves) {
		for _, c := range s.waves[s.next] {
			s.clearCell(c)
		}
		s.next++
		if s.next < len(s.waves) {
			return task.Sleep(CellStagger)
		}
	}
	if !s.settled {
		s.settled = true
		if !s.v.Staggered() {
			return task.Sleep(BombSettleDelay)
		}
		return task.Sleep(SettleDelay)
	}
	g.destroying.Release()
	g.clearAllValidMatches(nil)
	g.requestFill(0)
	return task.Done()
}

func (s *sequence) clearCell(c cell) {
	g := s.g
	p := g.board.Get(c.x, c.y)
	switch s.v.Kind {
	case effect.ColorSweep:
		if p.Colored() && p.Color == s.color {
			g.ClearPiece(c.x, c.y)
		}
	case effect.ChainedSweep:
		switch {
		case p == s.partner:
			g.ClearPiece(c.x, c.y)
		case p.Colored() && p.Color == s.color:
			g.upgrade(p, s.v.Spawn)
		case p.Colored() && g.rng.Intn(100) < UpgradeChance:
			g.upgrade(p, s.v.Spawn)
		}
	default:
		g.ClearPiece(c.x, c.y)
	}
}

// upgrade turns p into a special and clears it at once, which sets off
// the special's own effect.
func (g *Game) upgrade(p *piece.Piece, t piece.PieceType) {
	if t.IsLineClear() {
		t = piece.RowClear
		if g.rng.Intn(2) == 1 {
			t = piece.ColumnClear
		}
	}
	q := g.replace(p.X, p.Y, t, piece.Any)
	g.stats.SpecialsCreated++
	g.ClearPiece(q.X, q.Y)
}

func (g *Game) targetColor(v effect.Variant, partner *piece.Piece) piece.Color {
	switch v.Color {
	case effect.PartnerColor:
		if partner != nil {
			return partner.Color
		}
	case effect.MostFrequentColor:
		return g.mostFrequentColor()
	case effect.RandomColor:
		return g.randomColor()
	}
	return piece.Any
}

func (g *Game) mostFrequentColor() piece.Color {
	counts := make(map[piece.Color]int)
	g.board.Each(func(p *piece.Piece) {
		if p.Colored() {
			counts[p.Color]++
		}
	})
	if len(counts) == 0 {
		return piece.Any
	}
	palette := lo.Map(lo.Range(int(piece.MaxColors)), func(i int, _ int) piece.Color {
		return piece.Color(i)
	})
	return lo.MaxBy(palette, func(a, b piece.Color) bool {
		return counts[a] > counts[b]
	})
}

// waves lays out the cells each step of an effect visits.
func (g *Game) waves(v effect.Variant, x, y int) [][]cell {
	w, h := g.board.Width(), g.board.Height()
	inBounds := func(c cell) bool { return g.board.InBounds(c.x, c.y) }
	var waves [][]cell

	switch v.Kind {
	case effect.Line, effect.Cross:
		var rows, cols []int
		if v.Kind == effect.Cross {
			for d := -v.Radius; d <= v.Radius; d++ {
				rows = append(rows, y+d)
				cols = append(cols, x+d)
			}
		} else {
			if v.Horizontal {
				rows = []int{y}
			}
			if v.Vertical {
				cols = []int{x}
			}
		}
		for i := 0; i < max(w, h); i++ {
			var wave []cell
			for _, ry := range rows {
				wave = append(wave, cell{x - i, ry}, cell{x + i, ry})
			}
			for _, cx := range cols {
				wave = append(wave, cell{cx, y - i}, cell{cx, y + i})
			}
			wave = lo.Uniq(lo.Filter(wave, func(c cell, _ int) bool { return inBounds(c) }))
			if len(wave) == 0 {
				break
			}
			waves = append(waves, wave)
		}

	case effect.Area:
		var wave []cell
		for dy := -v.Radius; dy <= v.Radius; dy++ {
			for dx := -v.Radius; dx <= v.Radius; dx++ {
				if c := (cell{x + dx, y + dy}); inBounds(c) {
					wave = append(wave, c)
				}
			}
		}
		waves = append(waves, wave)

	case effect.ColorSweep, effect.ChainedSweep, effect.BoardSweep:
		for cx := range w {
			wave := make([]cell, h)
			for cy := range h {
				wave[cy] = cell{cx, cy}
			}
			waves = append(waves, wave)
		}
	}
	return waves
}

func (g *Game) acquireActors(v effect.Variant) {
	var kind ActorKind
	n := 1
	switch v.Kind {
	case effect.Line:
		kind, n = RocketHalf, 2
	case effect.Cross:
		kind, n = RocketHalf, 4*(2*v.Radius+1)
	case effect.Area:
		kind = Blast
	default:
		kind = Beam
	}
	actors := make([]Actor, n)
	for i := range actors {
		actors[i] = g.pool.Acquire(kind)
	}
	g.sched.After(ActorLifetime, "release-actors", task.Func(func(now time.Duration) task.Yield {
		for _, a := range actors {
			g.pool.Release(a)
		}
		return task.Done()
	}))
}
