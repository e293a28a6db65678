package automatic

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/tilecrush/game"
	"github.com/domino14/tilecrush/movegen"
	"github.com/domino14/tilecrush/zobrist"
)

// Policy chooses a swap from the valid ones.
type Policy int

const (
	BestSwap Policy = iota
	RandomSwap
)

func (p Policy) String() string {
	if p == RandomSwap {
		return "random"
	}
	return "best"
}

// GameResult is what one autoplay game leaves behind.
type GameResult struct {
	GameID     int    `yaml:"game"`
	Seed       string `yaml:"seed"`
	game.Stats `yaml:",inline"`
	// Stuck games ran out of valid swaps before the move limit.
	Stuck bool `yaml:"stuck"`
	// Repeats counts positions seen earlier in the same game.
	Repeats int `yaml:"repeats"`

	played bool
}

// GameRunner plays games one after another. It is not safe for
// concurrent use; each worker owns one.
type GameRunner struct {
	runID    string
	base     game.Options
	maxMoves int
	policy   Policy
	logchan  chan string

	z      *zobrist.Zobrist
	zw, zh int
}

func NewGameRunner(runID string, base game.Options, maxMoves int, policy Policy,
	logchan chan string) *GameRunner {
	return &GameRunner{runID: runID, base: base, maxMoves: maxMoves,
		policy: policy, logchan: logchan}
}

func (r *GameRunner) hasher(w, h int) *zobrist.Zobrist {
	if r.z == nil || r.zw != w || r.zh != h {
		r.z = &zobrist.Zobrist{}
		r.z.Initialize(w, h)
		r.zw, r.zh = w, h
	}
	return r.z
}

// PlayGame plays a full game from seed: the initial fill, then up to the
// move limit of swaps, settling the board after each.
func (r *GameRunner) PlayGame(ctx context.Context, gameID int, seed [32]byte) (GameResult, error) {
	res := GameResult{GameID: gameID, Seed: encodeSeed(seed)}

	opts := r.base
	opts.Rand = game.NewRand(seed)
	g := game.NewGame(opts)
	if err := g.Settle(ctx); err != nil {
		return res, fmt.Errorf("game %d initial fill: %w", gameID, err)
	}
	// the policy has its own stream so its draws never change the board
	polRand := game.NewRand(PolicySeed(seed))

	b := g.Board()
	z := r.hasher(b.Width(), b.Height())
	seen := map[uint64]int{z.Hash(b): 1}

	for mv := 0; mv < r.maxMoves; mv++ {
		swaps := movegen.GenerateSwaps(b)
		var s movegen.Swap
		var ok bool
		if r.policy == RandomSwap {
			s, ok = movegen.Random(swaps, polRand)
		} else {
			s, ok = movegen.Best(swaps)
		}
		if !ok {
			res.Stuck = true
			break
		}
		p1, p2 := s.Pieces(b)
		committed, err := g.TrySwap(p1, p2)
		if err != nil {
			return res, fmt.Errorf("game %d move %d %v: %w", gameID, mv, s, err)
		}
		if !committed {
			log.Warn().Int("game", gameID).Stringer("swap", s).Msg("generated swap was rejected")
			break
		}
		if err := g.Settle(ctx); err != nil {
			return res, fmt.Errorf("game %d move %d: %w", gameID, mv, err)
		}
		key := z.Hash(b)
		seen[key]++
		if seen[key] > 1 {
			res.Repeats++
		}
		if r.logchan != nil {
			st := g.Stats()
			r.logchan <- fmt.Sprintf("%s,%d,%d,%d,%d,%d,%d,%d,%d,%d,%d,%x\n",
				r.runID, gameID, mv+1, s.X1, s.Y1, s.X2, s.Y2, s.Score,
				st.Cleared, st.SpecialsCreated, st.MaxCascade, key)
		}
	}
	g.GameOver()
	res.Stats = g.Stats()
	res.played = true
	return res, nil
}

const logHeader = "run,game,move,x1,y1,x2,y2,score,cleared,specials,maxcascade,hash\n"
