// Package game runs the rules of a tile-matching board: swaps, matches,
// special-piece effects and the gravity cascade that follows every clear.
// All staged work runs as tasks on a single task.Scheduler; the host
// drives it with Advance or Settle.
package game

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/tilecrush/board"
	"github.com/domino14/tilecrush/piece"
	"github.com/domino14/tilecrush/task"
)

const (
	DefaultWidth  = 9
	DefaultHeight = 9
	DefaultColors = 5
)

var (
	ErrGameOver    = errors.New("game is over")
	ErrBusy        = errors.New("board is busy")
	ErrNotOnBoard  = errors.New("piece is not on the board")
	ErrNotAdjacent = errors.New("pieces are not adjacent")
	ErrImmovable   = errors.New("piece cannot move")
)

// Options configures a new game. Zero values get defaults.
type Options struct {
	Width, Height int
	Colors        int
	FillDelay     time.Duration
	// Layout, if set, provides the dimensions, the palette size and the
	// initial placements.
	Layout *board.Layout

	Rand     Rand
	Renderer Renderer
	Tracker  Tracker
	Pool     EffectPool
}

func (o *Options) setDefaults() {
	if o.Layout != nil {
		o.Width, o.Height = o.Layout.Width, o.Layout.Height
		if o.Layout.Colors > 0 {
			o.Colors = o.Layout.Colors
		}
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Colors <= 0 || o.Colors > int(piece.MaxColors) {
		o.Colors = DefaultColors
	}
	if o.FillDelay <= 0 {
		o.FillDelay = DefaultFillDelay
	}
	if o.Rand == nil {
		o.Rand = frand.New()
	}
	if o.Renderer == nil {
		o.Renderer = nopRenderer{}
	}
	if o.Tracker == nil {
		o.Tracker = nopTracker{}
	}
	if o.Pool == nil {
		o.Pool = nopPool{}
	}
}

// Stats are running counters for one game.
type Stats struct {
	Moves           int `yaml:"moves"`
	InvalidSwaps    int `yaml:"invalid_swaps"`
	Cleared         int `yaml:"cleared"`
	SpecialsCreated int `yaml:"specials_created"`
	Effects         int `yaml:"effects"`
	FillCycles      int `yaml:"fill_cycles"`
	FillSteps       int `yaml:"fill_steps"`
	// MaxCascade is the most settle passes that found matches within a
	// single fill cycle.
	MaxCascade int `yaml:"max_cascade"`
}

// Game holds one board and everything needed to play on it.
type Game struct {
	board     *board.Board
	sched     *task.Scheduler
	rng       Rand
	colors    int
	fillDelay time.Duration

	renderer Renderer
	tracker  Tracker
	pool     EffectPool

	// swapping is held by a committing swap or an invalid-swap rollback.
	swapping *task.Token
	// filling is held for the whole of a fill cycle.
	filling *task.Token
	// destroying is held by every running effect sequence.
	destroying *task.Gate

	// refill asks the running fill cycle for one more pass.
	refill  bool
	inverse bool
	over    bool

	pressed, entered *piece.Piece

	stats Stats
}

func newGame(b *board.Board, opts Options) *Game {
	s := task.NewScheduler()
	return &Game{
		board:      b,
		sched:      s,
		rng:        opts.Rand,
		colors:     opts.Colors,
		fillDelay:  opts.FillDelay,
		renderer:   opts.Renderer,
		tracker:    opts.Tracker,
		pool:       opts.Pool,
		swapping:   task.NewToken("swapping"),
		filling:    task.NewToken("filling"),
		destroying: s.NewGate("destroying"),
	}
}

// NewGame creates a board from opts and schedules the initial fill.
// Cells without a layout placement start Empty.
func NewGame(opts Options) *Game {
	opts.setDefaults()
	b := board.MakeBoard(opts.Width, opts.Height)
	if opts.Layout != nil {
		opts.Layout.Apply(b, nil)
	}
	g := newGame(b, opts)
	g.spawnHandles()
	g.requestFill(0)
	log.Debug().Int("width", opts.Width).Int("height", opts.Height).
		Int("colors", opts.Colors).Msg("new-game")
	return g
}

// FromBoard wraps an existing board. No fill is scheduled, so a full board
// stays exactly as given until the first move.
func FromBoard(b *board.Board, opts Options) *Game {
	opts.Width, opts.Height, opts.Layout = b.Width(), b.Height(), nil
	opts.setDefaults()
	g := newGame(b, opts)
	g.spawnHandles()
	return g
}

func (g *Game) spawnHandles() {
	g.board.Each(func(p *piece.Piece) {
		p.SetHandle(g.renderer.SpawnPiece(p.X, p.Y, p.Type, p.Color))
	})
}

func (g *Game) Board() *board.Board {
	return g.board
}

func (g *Game) Scheduler() *task.Scheduler {
	return g.sched
}

func (g *Game) Colors() int {
	return g.colors
}

func (g *Game) Stats() Stats {
	return g.stats
}

// Swapping, Filling and Destroying expose the state of the board locks.
func (g *Game) Swapping() bool   { return g.swapping.Held() }
func (g *Game) Filling() bool    { return g.filling.Held() }
func (g *Game) Destroying() bool { return !g.destroying.Open() }

// Busy is true while any staged operation owns the board.
func (g *Game) Busy() bool {
	return g.Swapping() || g.Filling() || g.Destroying()
}

// Advance moves the game clock forward by d.
func (g *Game) Advance(d time.Duration) {
	g.sched.Advance(d)
}

// Settle runs every pending task until the board is stable.
func (g *Game) Settle(ctx context.Context) error {
	return g.sched.RunUntilIdle(ctx, maxSettleSteps)
}

// GameOver stops the game from accepting new swaps. Running sequences
// finish normally.
func (g *Game) GameOver() {
	if !g.over {
		log.Debug().Int("moves", g.stats.Moves).Msg("game-over")
	}
	g.over = true
}

func (g *Game) IsOver() bool {
	return g.over
}

func (g *Game) destroyHandle(p *piece.Piece) {
	if h := p.Handle(); h != nil {
		g.renderer.DestroyPiece(h)
		p.SetHandle(nil)
	}
}

// fresh spawns a piece at (x, y) without destroying what was there.
func (g *Game) fresh(x, y int, t piece.PieceType, c piece.Color) *piece.Piece {
	p := g.board.Spawn(x, y, t, c)
	p.SetHandle(g.renderer.SpawnPiece(x, y, t, c))
	return p
}

// replace destroys the piece at (x, y) and spawns a new one.
func (g *Game) replace(x, y int, t piece.PieceType, c piece.Color) *piece.Piece {
	g.destroyHandle(g.board.Get(x, y))
	return g.fresh(x, y, t, c)
}

// move slides p into (x, y), which must hold an Empty piece, and leaves an
// Empty piece behind.
func (g *Game) move(p *piece.Piece, x, y int) {
	fromX, fromY := p.X, p.Y
	g.destroyHandle(g.board.Get(x, y))
	g.board.Set(x, y, p)
	g.renderer.MovePiece(p.Handle(), x, y, g.fillDelay)
	g.fresh(fromX, fromY, piece.Empty, piece.Any)
}

func (g *Game) randomColor() piece.Color {
	return piece.Color(g.rng.Intn(g.colors))
}
