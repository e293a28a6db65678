package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/domino14/tilecrush/automatic"
	"github.com/domino14/tilecrush/board"
	"github.com/domino14/tilecrush/cache"
	"github.com/domino14/tilecrush/config"
	"github.com/domino14/tilecrush/game"
	"github.com/domino14/tilecrush/movegen"
	"github.com/domino14/tilecrush/piece"
	"github.com/domino14/tilecrush/zobrist"
)

type Response struct {
	message string
}

func (r *Response) Message() string {
	if r == nil {
		return ""
	}
	return r.message
}

func msg(message string) *Response {
	return &Response{message: message}
}

type cmdOptions map[string]string

func (c cmdOptions) String(key, def string) string {
	if v, ok := c[key]; ok {
		return v
	}
	return def
}

func (c cmdOptions) Int(key string, def int) (int, error) {
	v, ok := c[key]
	if !ok {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("option %s: %w", key, err)
	}
	return i, nil
}

func (c cmdOptions) Bool(key string) bool {
	return strings.ToLower(c[key]) == "true"
}

func (sc *ShellController) current() (*game.Game, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	return sc.game, nil
}

func intArgs(cmd *shellcmd, n int) ([]int, error) {
	if len(cmd.args) != n {
		return nil, fmt.Errorf("%s needs %d arguments, got %d", cmd.cmd, n, len(cmd.args))
	}
	vals := make([]int, n)
	for i, a := range cmd.args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%s argument %d: %w", cmd.cmd, i+1, err)
		}
		vals[i] = v
	}
	return vals, nil
}

// at returns the piece at the given coordinates, rejecting ones off the
// board instead of letting the board panic.
func at(g *game.Game, x, y int) (*piece.Piece, error) {
	if !g.Board().InBounds(x, y) {
		return nil, fmt.Errorf("(%d,%d) is not on the board", x, y)
	}
	return g.Board().Get(x, y), nil
}

func (sc *ShellController) setGame(g *game.Game) {
	sc.game = g
	b := g.Board()
	sc.z = &zobrist.Zobrist{}
	sc.z.Initialize(b.Width(), b.Height())
}

// afterChange settles the board if autosettle is on and shows it.
func (sc *ShellController) afterChange(ctx context.Context, prefix string) (*Response, error) {
	if sc.autosettle {
		if err := sc.game.Settle(ctx); err != nil {
			return nil, err
		}
	}
	text := sc.display()
	if prefix != "" {
		text = prefix + "\n" + text
	}
	return msg(text), nil
}

func (sc *ShellController) display() string {
	g := sc.game
	return fmt.Sprintf("%sclock=%v swapping=%v filling=%v destroying=%v over=%v",
		g.Board().ToDisplayText(), g.Scheduler().Now(),
		g.Swapping(), g.Filling(), g.Destroying(), g.IsOver())
}

func (sc *ShellController) newGame(ctx context.Context, cmd *shellcmd) (*Response, error) {
	opts, err := game.OptionsFromConfig(sc.config)
	if err != nil {
		return nil, err
	}
	if name := cmd.options.String("layout", ""); name != "" {
		l, err := cache.Layout(sc.config, name)
		if err != nil {
			return nil, err
		}
		opts.Layout = l
	}
	for key, dst := range map[string]*int{"width": &opts.Width, "height": &opts.Height, "colors": &opts.Colors} {
		if *dst, err = cmd.options.Int(key, *dst); err != nil {
			return nil, err
		}
	}
	if s := cmd.options.String("seed", ""); s != "" {
		seed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
		opts.Rand = game.NewRand(game.SeedFromInt(seed))
	}
	sc.setGame(game.NewGame(opts))
	return sc.afterChange(ctx, "")
}

// loadBoard replaces the game with one on a board given row by row.
func (sc *ShellController) loadBoard(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("board needs at least one row")
	}
	b, err := board.FromRows(cmd.args)
	if err != nil {
		return nil, err
	}
	opts, err := game.OptionsFromConfig(sc.config)
	if err != nil {
		return nil, err
	}
	if opts.Colors, err = cmd.options.Int("colors", opts.Colors); err != nil {
		return nil, err
	}
	sc.setGame(game.FromBoard(b, opts))
	return msg(sc.display()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if _, err := sc.current(); err != nil {
		return nil, err
	}
	return msg(sc.display()), nil
}

func (sc *ShellController) swap(ctx context.Context, cmd *shellcmd) (*Response, error) {
	g, err := sc.current()
	if err != nil {
		return nil, err
	}
	c, err := intArgs(cmd, 4)
	if err != nil {
		return nil, err
	}
	p1, err := at(g, c[0], c[1])
	if err != nil {
		return nil, err
	}
	p2, err := at(g, c[2], c[3])
	if err != nil {
		return nil, err
	}
	ok, err := g.TrySwap(p1, p2)
	if err != nil {
		return nil, err
	}
	if !ok {
		return sc.afterChange(ctx, "no match; swap rolled back")
	}
	return sc.afterChange(ctx, "")
}

func (sc *ShellController) input(ctx context.Context, cmd *shellcmd) (*Response, error) {
	g, err := sc.current()
	if err != nil {
		return nil, err
	}
	if cmd.cmd == "release" {
		if g.ReleasePiece() {
			return sc.afterChange(ctx, "swapped")
		}
		return msg("released"), nil
	}
	c, err := intArgs(cmd, 2)
	if err != nil {
		return nil, err
	}
	p, err := at(g, c[0], c[1])
	if err != nil {
		return nil, err
	}
	if cmd.cmd == "press" {
		g.PressPiece(p)
	} else {
		g.EnterPiece(p)
	}
	return msg(fmt.Sprintf("%s %v", cmd.cmd, p)), nil
}

func (sc *ShellController) paint(ctx context.Context, cmd *shellcmd) (*Response, error) {
	g, err := sc.current()
	if err != nil {
		return nil, err
	}
	if len(cmd.args) != 3 {
		return nil, errors.New("usage: paint <x> <y> <color>")
	}
	c, err := intArgs(&shellcmd{cmd: "paint", args: cmd.args[:2]}, 2)
	if err != nil {
		return nil, err
	}
	color, err := piece.ColorFromString(cmd.args[2])
	if err != nil {
		return nil, err
	}
	p, err := at(g, c[0], c[1])
	if err != nil {
		return nil, err
	}
	if !g.PaintPiece(p, color) {
		return nil, fmt.Errorf("cannot paint %v %v", p, color)
	}
	return sc.afterChange(ctx, "")
}

func (sc *ShellController) breakPiece(ctx context.Context, cmd *shellcmd) (*Response, error) {
	g, err := sc.current()
	if err != nil {
		return nil, err
	}
	c, err := intArgs(cmd, 2)
	if err != nil {
		return nil, err
	}
	if _, err := at(g, c[0], c[1]); err != nil {
		return nil, err
	}
	if !g.BreakPiece(c[0], c[1]) {
		return nil, fmt.Errorf("nothing to break at (%d,%d)", c[0], c[1])
	}
	return sc.afterChange(ctx, "")
}

func (sc *ShellController) step(cmd *shellcmd) (*Response, error) {
	g, err := sc.current()
	if err != nil {
		return nil, err
	}
	d := sc.config.GetDuration(config.ConfigFillDelay)
	if len(cmd.args) > 0 {
		if d, err = time.ParseDuration(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	g.Advance(d)
	return msg(sc.display()), nil
}

func (sc *ShellController) settle(ctx context.Context, cmd *shellcmd) (*Response, error) {
	g, err := sc.current()
	if err != nil {
		return nil, err
	}
	if err := g.Settle(ctx); err != nil {
		return nil, err
	}
	return msg(sc.display()), nil
}

func (sc *ShellController) hint(cmd *shellcmd) (*Response, error) {
	g, err := sc.current()
	if err != nil {
		return nil, err
	}
	n, err := cmd.options.Int("n", 5)
	if err != nil {
		return nil, err
	}
	swaps := movegen.TopN(movegen.GenerateSwaps(g.Board()), n)
	if len(swaps) == 0 {
		return msg("no valid swaps"), nil
	}
	var sb strings.Builder
	for i, s := range swaps {
		fmt.Fprintf(&sb, "%d: swap %d %d %d %d (score %d)\n", i+1, s.X1, s.Y1, s.X2, s.Y2, s.Score)
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) hash(cmd *shellcmd) (*Response, error) {
	g, err := sc.current()
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("%016x", sc.z.Hash(g.Board()))), nil
}

func (sc *ShellController) stats(cmd *shellcmd) (*Response, error) {
	g, err := sc.current()
	if err != nil {
		return nil, err
	}
	out, err := yaml.Marshal(g.Stats())
	if err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(string(out), "\n")), nil
}

// pieces lists the positions of every piece of a type.
func (sc *ShellController) pieces(cmd *shellcmd) (*Response, error) {
	g, err := sc.current()
	if err != nil {
		return nil, err
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: pieces <type>")
	}
	t, err := piece.PieceTypeFromString(cmd.args[0])
	if err != nil {
		return nil, err
	}
	ps := g.Board().PiecesOfType(t)
	coords := make([]string, len(ps))
	for i, p := range ps {
		coords[i] = fmt.Sprintf("(%d,%d)", p.X, p.Y)
	}
	return msg(fmt.Sprintf("%d %v: %s", len(ps), t, strings.Join(coords, " "))), nil
}

func (sc *ShellController) gameOver(cmd *shellcmd) (*Response, error) {
	g, err := sc.current()
	if err != nil {
		return nil, err
	}
	g.GameOver()
	return msg("game over"), nil
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		settings := sc.config.AllSettings()
		keys := make([]string, 0, len(settings))
		for k := range settings {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var sb strings.Builder
		fmt.Fprintf(&sb, "autosettle: %v", sc.autosettle)
		for _, k := range keys {
			fmt.Fprintf(&sb, "\n%s: %v", k, settings[k])
		}
		return msg(sb.String()), nil
	}
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: set <key> <value>")
	}
	key, value := cmd.args[0], cmd.args[1]
	if key == "autosettle" {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, err
		}
		sc.autosettle = b
		return msg("set autosettle to " + value), nil
	}
	if err := sc.config.SetByName(key, value); err != nil {
		return nil, err
	}
	if key == config.ConfigDebug {
		setLogLevel(sc.config.GetBool(config.ConfigDebug))
	}
	return msg("set " + key + " to " + value), nil
}

func (sc *ShellController) autoplay(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 1 && cmd.args[0] == "stop" {
		if sc.autoplayCancel == nil {
			return nil, errors.New("autoplay is not running")
		}
		sc.autoplayCancel()
		sc.autoplayCancel = nil
		return msg("stopping autoplay"), nil
	}
	opts, err := automatic.RunOptionsFromConfig(sc.config)
	if err != nil {
		return nil, err
	}
	for key, dst := range map[string]*int{"games": &opts.Games, "threads": &opts.Threads, "moves": &opts.MaxMoves} {
		if *dst, err = cmd.options.Int(key, *dst); err != nil {
			return nil, err
		}
	}
	switch cmd.options.String("policy", "best") {
	case "best":
		opts.Policy = automatic.BestSwap
	case "random":
		opts.Policy = automatic.RandomSwap
	default:
		return nil, fmt.Errorf("unknown policy %q", cmd.options["policy"])
	}
	opts.RunID = cmd.options.String("run", "")

	var logfile *os.File
	if path := cmd.options.String("logfile", sc.config.GetString(config.ConfigAutoplayLogfile)); path != "" {
		if logfile, err = os.Create(path); err != nil {
			return nil, err
		}
		opts.Log = logfile
	}

	run := func(ctx context.Context) (string, error) {
		if logfile != nil {
			defer logfile.Close()
		}
		rep, err := automatic.Run(ctx, sc.config, opts)
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		if err := rep.WriteYAML(&sb, false); err != nil {
			return "", err
		}
		if err := rep.Histogram(&sb, "cleared"); err != nil {
			return "", err
		}
		return sb.String(), nil
	}

	if cmd.options.Bool("wait") {
		out, err := run(ctx)
		if err != nil {
			return nil, err
		}
		return msg(out), nil
	}
	actx, cancel := context.WithCancel(ctx)
	sc.autoplayCancel = cancel
	go func() {
		out, err := run(actx)
		if err != nil {
			log.Err(err).Msg("autoplay-error")
			return
		}
		sc.showMessage(out)
	}()
	return msg("autoplay started; `autoplay stop` ends it early"), nil
}
