package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tilecrush/config"
	"github.com/domino14/tilecrush/game"
	"github.com/domino14/tilecrush/zobrist"
)

var (
	errNoData            = errors.New("no data in line")
	errWrongOptionSyntax = errors.New("wrong format for option")
	errNoGame            = errors.New("no game loaded; use `new` or `board` first")
	errExit              = errors.New("exit")
)

type ShellController struct {
	l      *readline.Instance
	config *config.Config
	out    io.Writer

	game *game.Game
	z    *zobrist.Zobrist
	// autosettle runs the scheduler to idle after every command that
	// changes the board. With it off, `step` drives the clock by hand.
	autosettle bool

	autoplayCancel context.CancelFunc
}

type shellcmd struct {
	cmd     string
	args    []string
	options cmdOptions
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

// NewShellController creates an interactive shell reading from the
// terminal.
func NewShellController(cfg *config.Config) *ShellController {
	prompt := "\033[31mtilecrush>\033[0m "
	sc := newController(cfg, os.Stdout)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     "/tmp/tilecrush_readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stdout()
	return sc
}

func newController(cfg *config.Config, out io.Writer) *ShellController {
	return &ShellController{config: cfg, out: out, autosettle: true}
}

func (sc *ShellController) showMessage(msg string) {
	io.WriteString(sc.out, msg)
	io.WriteString(sc.out, "\n")
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func setLogLevel(debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

// extractFields splits a line into a command, its positional arguments
// and its -key value options.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	var args []string
	options := cmdOptions{}
	for i := 1; i < len(fields); i++ {
		f := fields[i]
		if strings.HasPrefix(f, "-") && len(f) > 1 && !isNumber(f) {
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			options[f[1:]] = fields[i+1]
			i++
			continue
		}
		args = append(args, f)
	}
	return &shellcmd{cmd: fields[0], args: args, options: options}, nil
}

// Execute runs a single command line and returns its output.
func (sc *ShellController) Execute(ctx context.Context, line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "exit":
		return nil, errExit
	case "help":
		return sc.help(cmd)
	case "new":
		return sc.newGame(ctx, cmd)
	case "board":
		return sc.loadBoard(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "swap":
		return sc.swap(ctx, cmd)
	case "press", "enter", "release":
		return sc.input(ctx, cmd)
	case "paint":
		return sc.paint(ctx, cmd)
	case "break":
		return sc.breakPiece(ctx, cmd)
	case "step":
		return sc.step(cmd)
	case "settle":
		return sc.settle(ctx, cmd)
	case "hint":
		return sc.hint(cmd)
	case "hash":
		return sc.hash(cmd)
	case "stats":
		return sc.stats(cmd)
	case "pieces":
		return sc.pieces(cmd)
	case "over":
		return sc.gameOver(cmd)
	case "set":
		return sc.set(cmd)
	case "autoplay":
		return sc.autoplay(ctx, cmd)
	case "script":
		return sc.script(ctx, cmd)
	}
	return nil, fmt.Errorf("command %q not found; try `help`", cmd.cmd)
}

func (sc *ShellController) Loop(ctx context.Context, sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		resp, err := sc.Execute(ctx, line)
		if err == errExit {
			sig <- syscall.SIGINT
			break
		}
		if err != nil {
			sc.showError(err)
			continue
		}
		if resp != nil && resp.message != "" {
			sc.showMessage(resp.message)
		}
	}
	if sc.autoplayCancel != nil {
		sc.autoplayCancel()
	}
	log.Debug().Msgf("Exiting readline loop...")
}
