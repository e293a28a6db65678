package match

import (
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/tilecrush/board"
	"github.com/domino14/tilecrush/piece"
)

type fixedRand struct {
	vals []int
	i    int
}

func (f *fixedRand) Intn(n int) int {
	v := f.vals[f.i%len(f.vals)] % n
	f.i++
	return v
}

func mustBoard(t *testing.T, rows ...string) *board.Board {
	t.Helper()
	b, err := board.FromRows(rows)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func coords(m Match) [][2]int {
	out := make([][2]int, len(m))
	for i, p := range m {
		out[i] = [2]int{p.X, p.Y}
	}
	return out
}

func TestNoMatchBelowMinimum(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t,
		"RRG",
		"GBR",
		"BYY",
	)
	for y := range 3 {
		for x := range 3 {
			is.Equal(FindMatch(b, b.Get(x, y), x, y), nil)
		}
	}
	is.True(!HasMatch(b))
}

func TestHorizontalAndVertical(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t,
		"RRRG",
		"GBYB",
		"BBYG",
		"GYYR",
	)
	m := FindMatch(b, b.Get(1, 0), 1, 0)
	is.Equal(coords(m), [][2]int{{1, 0}, {0, 0}, {2, 0}})

	m = FindMatch(b, b.Get(2, 3), 2, 3)
	// (1,3) is only a pair on the pivot's own row, so it is left out
	is.Equal(coords(m), [][2]int{{2, 3}, {2, 2}, {2, 1}})
	is.True(HasMatch(b))
}

func TestLShapeIsOneFiveMatch(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t,
		"GYBGY",
		"YBGYB",
		"BRRRG",
		"GYRBY",
		"YBRGB",
	)
	m := FindMatch(b, b.Get(1, 2), 1, 2)
	is.Equal(len(m), 5)
	is.Equal(coords(m), [][2]int{{1, 2}, {2, 2}, {3, 2}, {2, 3}, {2, 4}})

	p, ok := Resolve(m, nil, &fixedRand{vals: []int{0}})
	is.True(ok)
	is.Equal(p.Type, piece.Bomb)
}

func TestCornerShapeIsBomb(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t,
		"RRRG",
		"GYRB",
		"BGRY",
	)
	m := FindMatch(b, b.Get(0, 0), 0, 0)
	is.Equal(coords(m), [][2]int{{0, 0}, {1, 0}, {2, 0}, {2, 1}, {2, 2}})

	p, ok := Resolve(m, nil, &fixedRand{vals: []int{0}})
	is.True(ok)
	is.Equal(p.Type, piece.Bomb)
}

func TestBeingClearedPiecesDontMatch(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, "RRR")
	b.Get(2, 0).MarkCleared()
	is.Equal(FindMatch(b, b.Get(0, 0), 0, 0), nil)
}

func TestSpecialsNeverMatch(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, "*RR", "@@@")
	is.Equal(FindMatch(b, b.Get(1, 0), 1, 0), nil)
	is.Equal(FindMatch(b, b.Get(0, 1), 0, 1), nil)
}

func TestMatchAtSpeculativePosition(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t,
		"RRB",
		"GYR",
	)
	red := b.Get(2, 1)
	m := FindMatch(b, red, 2, 0)
	// the moved piece stands in for the Blue at (2,0)
	is.Equal(len(m), 3)
	is.True(m.Contains(red))
}

func TestResolveFourOrientation(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t,
		"GYBGY",
		"YBGYB",
		"BGYBG",
		"RRRRY",
		"YBGYB",
	)
	m := Match{b.Get(0, 3), b.Get(1, 3), b.Get(2, 3), b.Get(3, 3)}
	rng := &fixedRand{vals: []int{0}}

	p, ok := Resolve(m, &SwapContext{A: b.Get(2, 3), B: b.Get(2, 4)}, rng)
	is.True(ok)
	is.Equal(p.Type, piece.ColumnClear)
	is.Equal([2]int{p.X, p.Y}, [2]int{2, 3})

	p, ok = Resolve(m, &SwapContext{A: b.Get(2, 3), B: b.Get(3, 3)}, rng)
	is.True(ok)
	is.Equal(p.Type, piece.RowClear)
	// the last swap endpoint within the match wins
	is.Equal([2]int{p.X, p.Y}, [2]int{3, 3})
}

func TestResolveWithoutSwapUsesRand(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, "RRRR")
	m := Match{b.Get(0, 0), b.Get(1, 0), b.Get(2, 0), b.Get(3, 0)}

	p, ok := Resolve(m, nil, &fixedRand{vals: []int{1, 2}})
	is.True(ok)
	is.Equal(p.Type, piece.ColumnClear)
	is.Equal(p.X, 2)

	_, ok = Resolve(m[:3], nil, &fixedRand{vals: []int{0}})
	is.True(!ok)
}

func TestResolveStraightFiveIsRainbow(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, "RRRRR")
	m := FindMatch(b, b.Get(2, 0), 2, 0)
	p, ok := Resolve(m, nil, &fixedRand{vals: []int{0}})
	is.True(ok)
	is.Equal(p.Type, piece.Rainbow)
}

func TestResolveVerticalFiveIsRainbow(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, "R", "R", "R", "R", "R")
	m := FindMatch(b, b.Get(0, 2), 0, 2)
	is.Equal(len(m), 5)
	p, ok := Resolve(m, nil, &fixedRand{vals: []int{0}})
	is.True(ok)
	is.Equal(p.Type, piece.Rainbow)
}

func TestDetermineKey(t *testing.T) {
	b := mustBoard(t, "@R-|*X", "RR..RG")
	rainbow, normal, row, col, bomb, obstacle := b.Get(0, 0), b.Get(1, 0), b.Get(2, 0), b.Get(3, 0), b.Get(4, 0), b.Get(5, 0)

	cases := []struct {
		a, b *piece.Piece
		want Key
	}{
		{rainbow, normal, KeyRainbow},
		{normal, rainbow, KeyRainbow},
		{row, rainbow, KeyRainbow},
		{rainbow, obstacle, KeyEmpty},
		{row, normal, KeyColumn},
		{normal, col, KeyRow},
		{row, bomb, KeyColumn},
		{bomb, normal, KeyBomb},
		{normal, bomb, KeyBomb},
		{bomb, bomb, KeyBomb},
		{normal, normal, KeyEmpty},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DetermineKey(c.a, c.b), "%v / %v", c.a, c.b)
	}

	trig, part, ok := Participants(KeyBomb, normal, bomb)
	assert.True(t, ok)
	assert.Equal(t, bomb, trig)
	assert.Equal(t, normal, part)

	trig, _, _ = Participants(KeyRow, normal, col)
	assert.Equal(t, col, trig)

	// rockets lead bomb swaps from either side
	trig, part, _ = Participants(DetermineKey(bomb, row), bomb, row)
	assert.Equal(t, row, trig)
	assert.Equal(t, bomb, part)
	trig, _, _ = Participants(DetermineKey(row, bomb), row, bomb)
	assert.Equal(t, row, trig)

	_, _, ok = Participants(KeyEmpty, normal, normal)
	assert.False(t, ok)
}

func BenchmarkHasMatch(b *testing.B) {
	bd := board.MakeBoard(9, 9)
	for y := range 9 {
		for x := range 9 {
			bd.Spawn(x, y, piece.Normal, piece.Color((x+2*y)%4))
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if HasMatch(bd) {
			b.Fatal("checkerboard should have no match")
		}
	}
}
