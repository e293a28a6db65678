// Package automatic plays many games without a human, for balancing
// layouts and checking that the rules always settle.
package automatic

import (
	"context"
	"errors"
	"expvar"
	"io"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/tilecrush/config"
	"github.com/domino14/tilecrush/game"
)

var (
	GamesPlayed *expvar.Int
	IsPlaying   *expvar.Int
)

func init() {
	GamesPlayed = expvar.NewInt("autoplayGames")
	IsPlaying = expvar.NewInt("autoplayIsPlaying")
}

var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

var running atomic.Bool

// RunOptions configures one autoplay run.
type RunOptions struct {
	// RunID names the run. A fresh one is generated when empty.
	RunID    string
	Games    int
	Threads  int
	MaxMoves int
	Policy   Policy
	// Seeds, if set, replaces the seeds derived from RunID, and the run
	// plays one game per seed.
	Seeds [][32]byte
	// Log receives one CSV line per move.
	Log io.Writer
}

// RunOptionsFromConfig reads the autoplay settings, including the seed
// file if one is configured. Log is left for the caller.
func RunOptionsFromConfig(cfg *config.Config) (RunOptions, error) {
	opts := RunOptions{
		Games:    cfg.GetInt(config.ConfigAutoplayGames),
		Threads:  cfg.GetInt(config.ConfigAutoplayThreads),
		MaxMoves: cfg.GetInt(config.ConfigAutoplayMoves),
	}
	if path := cfg.GetString(config.ConfigSeedFile); path != "" {
		seeds, err := LoadSeeds(path)
		if err != nil {
			return opts, err
		}
		opts.Seeds = seeds
	}
	return opts, nil
}

// Run plays every game of a run across Threads workers and summarizes
// them. Cancelling ctx stops the run early; the report then covers the
// games that finished.
func Run(ctx context.Context, cfg *config.Config, opts RunOptions) (*Report, error) {
	if !running.CompareAndSwap(false, true) {
		return nil, ErrAlreadyPlaying
	}
	defer running.Store(false)
	logger := zerolog.Ctx(ctx)

	base, err := game.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.Threads <= 0 {
		opts.Threads = 1
	}
	seeds := opts.Seeds
	if len(seeds) == 0 {
		seeds = RunSeeds(opts.RunID, opts.Games)
	}
	numGames := len(seeds)
	logger.Info().Str("run", opts.RunID).Int("games", numGames).
		Int("threads", opts.Threads).Stringer("policy", opts.Policy).Msg("autoplay-starting")

	var logchan chan string
	writer := errgroup.Group{}
	if opts.Log != nil {
		logchan = make(chan string, 100)
		writer.Go(func() error {
			defer logger.Debug().Msg("autoplay-writer-exiting")
			_, werr := io.WriteString(opts.Log, logHeader)
			for msg := range logchan {
				// keep draining after a failed write so workers never block
				if werr == nil {
					_, werr = io.WriteString(opts.Log, msg)
				}
			}
			return werr
		})
	}

	results := make([]GameResult, numGames)
	jobs := make(chan int, 100)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for i := range numGames {
			select {
			case jobs <- i:
			case <-gctx.Done():
				logger.Info().Msg("got stop signal, exiting soon...")
				return nil
			}
		}
		return nil
	})

	tstart := time.Now()
	for t := 0; t < opts.Threads; t++ {
		g.Go(func() error {
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			r := NewGameRunner(opts.RunID, base, opts.MaxMoves, opts.Policy, logchan)
			for i := range jobs {
				res, err := r.PlayGame(gctx, i, seeds[i])
				if err != nil {
					return err
				}
				results[i] = res
				GamesPlayed.Add(1)
			}
			return nil
		})
	}

	err = g.Wait()
	if logchan != nil {
		close(logchan)
	}
	werr := writer.Wait()

	played := lo.Filter(results, func(r GameResult, _ int) bool { return r.played })
	elapsed := time.Since(tstart)
	logger.Info().Int("played", len(played)).Dur("elapsed", elapsed).Msg("autoplay-finished")

	if err != nil && !(ctx.Err() != nil && errors.Is(err, ctx.Err())) {
		return nil, err
	}
	if werr != nil {
		return nil, werr
	}
	rep := NewReport(opts.RunID, opts.Threads, played)
	rep.Elapsed = elapsed
	return rep, nil
}
