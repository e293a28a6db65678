package game

import (
	"context"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/domino14/tilecrush/board"
	"github.com/domino14/tilecrush/effect"
	"github.com/domino14/tilecrush/match"
	"github.com/domino14/tilecrush/piece"
	"github.com/domino14/tilecrush/testhelpers"
)

type recordingPool struct {
	acquired map[ActorKind]int
	released int
}

func (p *recordingPool) Acquire(k ActorKind) Actor {
	if p.acquired == nil {
		p.acquired = make(map[ActorKind]int)
	}
	p.acquired[k]++
	return k
}

func (p *recordingPool) Release(Actor) {
	p.released++
}

type fixture struct {
	g  *Game
	b  *board.Board
	r  *testhelpers.Renderer
	tr *testhelpers.Tracker
	p  *recordingPool
}

func newFixture(b *board.Board, rng Rand) *fixture {
	f := &fixture{
		b:  b,
		r:  &testhelpers.Renderer{},
		tr: &testhelpers.Tracker{},
		p:  &recordingPool{},
	}
	if rng == nil {
		rng = NewRand(SeedFromInt(42))
	}
	f.g = FromBoard(b, Options{
		Colors:   4,
		Rand:     rng,
		Renderer: f.r,
		Tracker:  f.tr,
		Pool:     f.p,
	})
	return f
}

func countType(b *board.Board, t piece.PieceType) int {
	n := 0
	b.Each(func(p *piece.Piece) {
		if p.Type == t {
			n++
		}
	})
	return n
}

func TestSimpleMatch(t *testing.T) {
	is := is.New(t)
	b := testhelpers.MustBoard(
		"RRB",
		"GYR",
	)
	f := newFixture(b, &testhelpers.SeqRand{Vals: []int{1, 2, 3}})

	is.True(f.g.Swap(b.Get(2, 0), b.Get(2, 1)))
	for x := range 3 {
		is.Equal(b.Get(x, 0).Type, piece.Empty)
	}
	is.Equal(b.CountColor(piece.Red), 0)
	is.Equal(len(f.tr.ClearedOf(piece.Normal)), 3)
	for _, c := range f.tr.Cleared {
		is.Equal(c.Color, piece.Red)
		is.Equal(c.Y, 0)
	}
	is.Equal(f.tr.Moves, 1)
	is.True(f.g.Filling())

	is.NoErr(f.g.Settle(context.Background()))
	is.Equal(b.Rows(), []string{"YGB", "GYB"})
	is.True(!f.g.Busy())
	is.Equal(f.g.Stats().Moves, 1)
}

func TestLShapeClearsAsOneMatch(t *testing.T) {
	is := is.New(t)
	b := testhelpers.MustBoard(
		"GYBGY",
		"YBGYB",
		"BRRRG",
		"GYRBY",
		"YBRGB",
	)
	f := newFixture(b, &testhelpers.SeqRand{Vals: []int{0}})

	is.True(f.g.clearAllValidMatches(nil))
	is.Equal(len(f.tr.Cleared), 5)
	is.Equal(f.g.Stats().SpecialsCreated, 1)
	is.Equal(b.Get(1, 2).Type, piece.Bomb)
	is.Equal(countType(b, piece.Empty), 4)
}

func TestFourMatchPromotesAlongSwap(t *testing.T) {
	is := is.New(t)
	b := testhelpers.MustBoard(
		"RRYR",
		"GBRB",
	)
	f := newFixture(b, nil)
	red := b.Get(2, 1)

	is.True(f.g.Swap(b.Get(2, 0), red))
	is.Equal(len(f.tr.ClearedOf(piece.Normal)), 4)
	is.Equal(b.Get(2, 0).Type, piece.ColumnClear)
	is.Equal(f.g.Stats().SpecialsCreated, 1)
}

func TestInvalidSwapRollsBack(t *testing.T) {
	is := is.New(t)
	b := testhelpers.Checkerboard(4, 4)
	f := newFixture(b, nil)
	before := b.Identities()

	committed, err := f.g.TrySwap(b.Get(0, 0), b.Get(1, 0))
	is.NoErr(err)
	is.True(!committed)
	is.Equal(b.Identities(), before)
	is.True(f.g.Swapping())

	_, err = f.g.TrySwap(b.Get(2, 0), b.Get(3, 0))
	is.Equal(err, ErrBusy)

	is.NoErr(f.g.Settle(context.Background()))
	is.True(!f.g.Swapping())
	is.Equal(b.Identities(), before)
	is.Equal(f.g.Stats().InvalidSwaps, 1)
	is.Equal(f.g.Stats().Moves, 0)
	is.Equal(f.tr.Moves, 0)
	is.Equal(len(f.r.Moves), 4)
}

func TestSwapRequiresAdjacentMovablePieces(t *testing.T) {
	is := is.New(t)
	b := testhelpers.Checkerboard(4, 4)
	b.Spawn(3, 3, piece.Obstacle, piece.Any)
	f := newFixture(b, nil)

	_, err := f.g.TrySwap(b.Get(0, 0), b.Get(2, 0))
	is.Equal(err, ErrNotAdjacent)
	_, err = f.g.TrySwap(b.Get(0, 0), b.Get(1, 1))
	is.Equal(err, ErrNotAdjacent)
	_, err = f.g.TrySwap(b.Get(3, 2), b.Get(3, 3))
	is.Equal(err, ErrImmovable)

	stale := piece.New(0, 0, piece.Normal, piece.Red)
	_, err = f.g.TrySwap(stale, b.Get(1, 0))
	is.Equal(err, ErrNotOnBoard)
	is.True(f.g.Scheduler().Idle())
}

func TestSwapDroppedWhileFilling(t *testing.T) {
	is := is.New(t)
	g := NewGame(Options{Width: 5, Height: 5, Rand: NewRand(SeedFromInt(7))})
	is.True(g.Filling())
	_, err := g.TrySwap(g.Board().Get(0, 0), g.Board().Get(1, 0))
	is.Equal(err, ErrBusy)
}

func TestGameOverBlocksSwaps(t *testing.T) {
	is := is.New(t)
	b := testhelpers.MustBoard("RRB", "GYR")
	f := newFixture(b, nil)
	f.g.GameOver()
	is.True(f.g.IsOver())
	_, err := f.g.TrySwap(b.Get(2, 0), b.Get(2, 1))
	is.Equal(err, ErrGameOver)
}

func TestInputDispatchesOnRelease(t *testing.T) {
	is := is.New(t)
	b := testhelpers.MustBoard("RRB", "GYR")
	f := newFixture(b, nil)

	f.g.PressPiece(b.Get(0, 0))
	f.g.EnterPiece(b.Get(2, 1))
	is.True(!f.g.ReleasePiece())
	is.Equal(f.g.Stats().Moves, 0)

	f.g.PressPiece(b.Get(2, 1))
	f.g.EnterPiece(b.Get(2, 0))
	is.True(f.g.ReleasePiece())
	is.Equal(f.tr.Moves, 1)
	// the drag state is gone
	is.True(!f.g.ReleasePiece())
}

func TestBombPairMakesOneSuperBomb(t *testing.T) {
	is := is.New(t)
	b := testhelpers.Checkerboard(5, 5)
	b.Spawn(1, 1, piece.Bomb, piece.Any)
	b.Spawn(2, 1, piece.Bomb, piece.Any)
	f := newFixture(b, nil)

	is.True(f.g.Swap(b.Get(1, 1), b.Get(2, 1)))
	supers := f.r.SpawnsOf(piece.SuperBomb)
	is.Equal(len(supers), 1)
	is.Equal([2]int{supers[0].X, supers[0].Y}, [2]int{1, 1})
	is.Equal(len(f.tr.ClearedOf(piece.Bomb)), 2)
	is.Equal(len(f.tr.ClearedOf(piece.SuperBomb)), 1)
	is.Equal(f.g.Stats().Effects, 1)
	is.True(f.g.Destroying())
	is.Equal(f.p.acquired[Blast], 1)

	is.True(f.g.Scheduler().Step())
	normals := f.tr.ClearedOf(piece.Normal)
	// a radius-2 square around (1,1) clipped to the board, less the two
	// bomb cells
	is.Equal(len(normals), 14)
	for _, c := range normals {
		is.True(c.X <= 3 && c.Y <= 3)
	}

	is.NoErr(f.g.Settle(context.Background()))
	is.Equal(len(f.r.SpawnsOf(piece.SuperBomb)), 1)
	is.Equal(countType(b, piece.Empty), 0)
	is.Equal(f.p.released, 1)
}

func TestRocketClearsRowInStages(t *testing.T) {
	is := is.New(t)
	b := testhelpers.Checkerboard(5, 5)
	b.Spawn(2, 2, piece.RowClear, piece.Any)
	f := newFixture(b, nil)

	is.True(f.g.Swap(b.Get(2, 2), b.Get(3, 2)))
	is.Equal(len(f.tr.ClearedOf(piece.RowClear)), 1)
	is.Equal(f.p.acquired[RocketHalf], 2)

	s := f.g.Scheduler()
	is.True(s.Step())
	is.Equal(len(f.tr.ClearedOf(piece.Normal)), 0)
	is.True(s.Step())
	is.Equal(s.Now(), CellStagger)
	is.Equal(len(f.tr.ClearedOf(piece.Normal)), 2)

	is.NoErr(f.g.Settle(context.Background()))
	normals := f.tr.ClearedOf(piece.Normal)
	is.True(len(normals) >= 4)
	xs := []int{}
	for _, c := range normals[:4] {
		is.Equal(c.Y, 2)
		xs = append(xs, c.X)
	}
	is.Equal(xs, []int{2, 4, 1, 0})
	is.Equal(f.p.released, 2)
	is.True(!f.g.Busy())
}

func TestRocketPairClearsCross(t *testing.T) {
	is := is.New(t)
	b := testhelpers.Checkerboard(5, 5)
	b.Spawn(2, 2, piece.RowClear, piece.Any)
	b.Spawn(3, 2, piece.ColumnClear, piece.Any)
	f := newFixture(b, nil)

	is.True(f.g.Swap(b.Get(2, 2), b.Get(3, 2)))
	f.g.Advance(500 * time.Millisecond)

	got := map[[2]int]bool{}
	for _, c := range f.tr.ClearedOf(piece.Normal) {
		got[[2]int{c.X, c.Y}] = true
	}
	want := map[[2]int]bool{
		{0, 2}: true, {1, 2}: true, {4, 2}: true,
		{3, 0}: true, {3, 1}: true, {3, 3}: true, {3, 4}: true,
	}
	is.Equal(got, want)
	is.Equal(f.g.Stats().Effects, 1)

	is.NoErr(f.g.Settle(context.Background()))
	is.Equal(countType(b, piece.Empty), 0)
}

func TestRainbowSweepsPartnerColor(t *testing.T) {
	is := is.New(t)
	b := testhelpers.Checkerboard(5, 5)
	b.Spawn(0, 0, piece.Rainbow, piece.Any)
	f := newFixture(b, nil)
	partner := b.Get(1, 0)
	is.Equal(partner.Color, piece.Yellow)
	yellows := b.CountColor(piece.Yellow)

	is.True(f.g.Swap(b.Get(0, 0), partner))
	f.g.Advance(600 * time.Millisecond)
	is.Equal(b.CountColor(piece.Yellow), 0)
	normals := f.tr.ClearedOf(piece.Normal)
	is.Equal(len(normals), yellows)
	for _, c := range normals {
		is.Equal(c.Color, piece.Yellow)
	}
	is.NoErr(f.g.Settle(context.Background()))
}

func TestRainbowPairClearsBoard(t *testing.T) {
	is := is.New(t)
	b := testhelpers.Checkerboard(5, 5)
	b.Spawn(0, 0, piece.Rainbow, piece.Any)
	b.Spawn(0, 1, piece.Rainbow, piece.Any)
	f := newFixture(b, nil)

	is.True(f.g.Swap(b.Get(0, 0), b.Get(0, 1)))
	f.g.Advance(600 * time.Millisecond)
	is.Equal(countType(b, piece.Empty), 25)
	is.Equal(f.g.Stats().Effects, 1)
	is.NoErr(f.g.Settle(context.Background()))
	is.Equal(countType(b, piece.Empty), 0)
}

func TestRainbowBombChains(t *testing.T) {
	is := is.New(t)
	b := testhelpers.Checkerboard(6, 6)
	b.Spawn(2, 2, piece.Rainbow, piece.Any)
	b.Spawn(3, 2, piece.Bomb, piece.Any)
	f := newFixture(b, nil)

	is.True(f.g.Swap(b.Get(2, 2), b.Get(3, 2)))
	is.NoErr(f.g.Settle(context.Background()))
	is.True(f.g.Stats().Effects >= 2)
	is.Equal(len(f.tr.ClearedOf(piece.Rainbow)), 1)
	is.True(len(f.tr.ClearedOf(piece.Bomb)) >= 2)
	is.Equal(countType(b, piece.Empty), 0)
	is.True(!match.HasMatch(b))
}

func TestChainedSweepUpgrades(t *testing.T) {
	is := is.New(t)
	b := testhelpers.MustBoard("RGBY")
	f := newFixture(b, nil)
	// orientation for the red target, then an upgrade roll per off-color
	// cell followed by an orientation draw when the roll succeeds
	f.g.rng = &testhelpers.SeqRand{Vals: []int{1, 5, 0, 50, 19, 1}}

	s := &sequence{
		g:     f.g,
		v:     effect.Variant{Kind: effect.ChainedSweep, Spawn: piece.RowClear},
		color: piece.Red,
	}
	for x := range 4 {
		s.clearCell(cell{x, 0})
	}

	is.Equal(f.tr.Cleared, []testhelpers.Cleared{
		{X: 0, Y: 0, Type: piece.ColumnClear, Color: piece.Any},
		{X: 1, Y: 0, Type: piece.RowClear, Color: piece.Any},
		{X: 3, Y: 0, Type: piece.ColumnClear, Color: piece.Any},
	})
	is.Equal(b.Get(2, 0).Type, piece.Normal)
	is.Equal(b.Get(2, 0).Color, piece.Blue)
	is.Equal(f.g.Stats().SpecialsCreated, 3)
}

func TestOverlappingEffectsHoldGate(t *testing.T) {
	is := is.New(t)
	b := testhelpers.Checkerboard(9, 3)
	b.Spawn(1, 1, piece.Bomb, piece.Any)
	b.Spawn(7, 1, piece.Bomb, piece.Any)
	f := newFixture(b, nil)

	is.True(f.g.BreakPiece(1, 1))
	f.g.Advance(100 * time.Millisecond)
	is.True(f.g.BreakPiece(7, 1))
	is.Equal(f.g.destroying.Holds(), 2)

	f.g.Advance(750 * time.Millisecond)
	is.Equal(f.g.destroying.Holds(), 1)
	is.True(f.g.Filling())
	// nothing has fallen yet
	is.Equal(countType(b, piece.Empty), 18)

	is.NoErr(f.g.Settle(context.Background()))
	is.True(f.g.destroying.Open())
	is.Equal(countType(b, piece.Empty), 0)
}

func TestObstacles(t *testing.T) {
	is := is.New(t)
	b := testhelpers.MustBoard(
		"RRRX",
		"GBYG",
	)
	f := newFixture(b, nil)
	is.True(!f.g.ClearPiece(3, 0))
	is.Equal(b.Get(3, 0).Hits, 1)

	is.True(f.g.clearAllValidMatches(nil))
	is.Equal(b.Get(3, 0).Type, piece.Empty)
	is.Equal(len(f.tr.ClearedOf(piece.Obstacle)), 1)

	b2 := testhelpers.MustBoard("RX", "GB")
	b2.Get(1, 0).Hits = 2
	f2 := newFixture(b2, nil)
	is.True(!f2.g.BreakPiece(1, 0))
	is.Equal(b2.Get(1, 0).Hits, 1)
	is.True(f2.g.BreakPiece(1, 0))
	is.Equal(b2.Get(1, 0).Type, piece.Empty)
}

func TestPaintPieceMakesMatch(t *testing.T) {
	is := is.New(t)
	b := testhelpers.MustBoard("RRY", "GBG")
	f := newFixture(b, nil)

	is.True(!f.g.PaintPiece(b.Get(0, 0), piece.Pink))
	is.True(f.g.PaintPiece(b.Get(2, 0), piece.Red))
	is.Equal(len(f.tr.ClearedOf(piece.Normal)), 3)
	is.NoErr(f.g.Settle(context.Background()))
	is.Equal(countType(b, piece.Empty), 0)
}

func TestFallingDiagonalUnderObstacle(t *testing.T) {
	is := is.New(t)
	b := testhelpers.MustBoard(
		"RX",
		"G.",
	)
	f := newFixture(b, nil)
	red := b.Get(0, 0)

	is.True(f.g.fillStep())
	is.Equal(b.Get(1, 1), red)
	is.Equal(b.Get(0, 0).Type, piece.Normal)
	is.True(b.Get(0, 0) != red)
	is.Equal(b.Get(1, 0).Type, piece.Obstacle)
}

func TestNoDiagonalIntoOpenColumn(t *testing.T) {
	is := is.New(t)
	b := testhelpers.MustBoard(
		"R.",
		"G.",
	)
	f := newFixture(b, nil)
	red := b.Get(0, 0)

	is.True(f.g.fillStep())
	is.Equal(b.Get(0, 0), red)
	is.Equal(b.Get(1, 1).Type, piece.Empty)
	is.Equal(b.Get(1, 0).Type, piece.Normal)
}

func TestNoDiagonalWhenColumnCanFall(t *testing.T) {
	is := is.New(t)
	b := testhelpers.MustBoard(
		"RY",
		"G.",
		"B.",
	)
	f := newFixture(b, nil)
	red, green, yellow := b.Get(0, 0), b.Get(0, 1), b.Get(1, 0)

	is.True(f.g.fillStep())
	is.Equal(b.Get(0, 0), red)
	is.Equal(b.Get(0, 1), green)
	is.Equal(b.Get(1, 1), yellow)
}

func TestDiagonalDirectionAlternates(t *testing.T) {
	is := is.New(t)
	rows := []string{
		"RXB",
		"G.G",
	}
	b := testhelpers.MustBoard(rows...)
	f := newFixture(b, nil)
	red := b.Get(0, 0)
	is.True(f.g.fillStep())
	is.Equal(b.Get(1, 1), red)

	b = testhelpers.MustBoard(rows...)
	f = newFixture(b, nil)
	blue := b.Get(2, 0)
	f.g.inverse = true
	is.True(f.g.fillStep())
	is.Equal(b.Get(1, 1), blue)
}

func TestShadowed(t *testing.T) {
	is := is.New(t)
	b := testhelpers.MustBoard(
		"X.R",
		"...",
		"...",
	)
	f := newFixture(b, nil)
	is.True(f.g.shadowed(0, 2))
	is.True(!f.g.shadowed(1, 2))
	is.True(!f.g.shadowed(2, 2))
}

func TestCascadeReachesFixedPoint(t *testing.T) {
	for seed := uint64(1); seed <= 6; seed++ {
		is := is.New(t)
		g := NewGame(Options{Width: 7, Height: 7, Colors: 5, Rand: NewRand(SeedFromInt(seed))})
		is.NoErr(g.Settle(context.Background()))
		is.True(!g.Busy())
		is.True(g.Scheduler().Idle())
		is.True(!match.HasMatch(g.Board()))
		is.Equal(countType(g.Board(), piece.Empty), 0)
	}
}

func TestCascadeWithLayout(t *testing.T) {
	is := is.New(t)
	l, err := board.ParseLayout([]byte(`
name: ledge
width: 6
height: 6
colors: 4
pieces:
  - {x: 2, y: 2, type: obstacle, hits: 3}
`))
	is.NoErr(err)
	r := &testhelpers.Renderer{}
	g := NewGame(Options{Layout: l, Rand: NewRand(SeedFromInt(3)), Renderer: r})
	is.Equal(g.Colors(), 4)
	is.NoErr(g.Settle(context.Background()))
	is.True(!match.HasMatch(g.Board()))
	is.Equal(countType(g.Board(), piece.Empty), 0)
	is.True(len(r.Spawns) > 36)
}

func TestWideLedgeLeavesHole(t *testing.T) {
	is := is.New(t)
	l, err := board.ParseLayout([]byte(`
name: ledge
width: 5
height: 5
pieces:
  - {x: 1, y: 2, type: obstacle, hits: 50}
  - {x: 2, y: 2, type: obstacle, hits: 50}
  - {x: 3, y: 2, type: obstacle, hits: 50}
`))
	is.NoErr(err)
	g := NewGame(Options{Layout: l, Rand: NewRand(SeedFromInt(11))})
	is.NoErr(g.Settle(context.Background()))
	// nothing can reach the cell under the middle of the ledge
	is.Equal(g.Board().Get(2, 3).Type, piece.Empty)
	is.Equal(countType(g.Board(), piece.Empty), 1)
	is.Equal(countType(g.Board(), piece.Obstacle), 3)
}
