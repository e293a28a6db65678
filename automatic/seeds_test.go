package automatic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/tilecrush/game"
)

func TestRunSeedsDeterministic(t *testing.T) {
	is := is.New(t)
	a := RunSeeds("run-1", 5)
	b := RunSeeds("run-1", 5)
	c := RunSeeds("run-2", 5)
	is.Equal(a, b)
	is.True(a[0] != c[0])
	is.True(a[0] != a[1])
}

func TestPolicySeedIsIndependent(t *testing.T) {
	is := is.New(t)
	seeds := RunSeeds("policy", 2)
	p := PolicySeed(seeds[0])
	is.Equal(p, PolicySeed(seeds[0]))
	is.True(p != seeds[0])
	is.True(p != PolicySeed(seeds[1]))

	board, policy := game.NewRand(seeds[0]), game.NewRand(p)
	same := 0
	for range 8 {
		if board.Uint64() == policy.Uint64() {
			same++
		}
	}
	is.True(same < 8)
}

func TestSaveLoadSeeds(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "seeds.txt")
	seeds := RunSeeds("save", 3)
	is.NoErr(SaveSeeds(seeds, path))

	loaded, err := LoadSeeds(path)
	is.NoErr(err)
	is.Equal(loaded, seeds)
}

func TestLoadBadSeed(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "bad.txt")
	is.NoErr(os.WriteFile(path, []byte("# header\n\nAAAA\n"), 0o644))
	_, err := LoadSeeds(path)
	is.True(err != nil)

	_, err = LoadSeeds(filepath.Join(t.TempDir(), "missing.txt"))
	is.True(err != nil)
}
