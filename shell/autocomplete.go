package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/tilecrush/piece"
)

// ShellCompleter completes command names, their options and a few known
// argument values.
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

type CommandMetadata struct {
	Options []string
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"new": {
		Options: []string{"-seed", "-layout", "-width", "-height", "-colors"},
	},
	"board": {
		Options: []string{"-colors"},
	},
	"hint": {
		Options: []string{"-n"},
	},
	"autoplay": {
		Options: []string{"-games", "-threads", "-moves", "-policy", "-logfile", "-run", "-wait"},
		Args:    []string{"stop"},
	},
	"set": {
		Args: []string{"autosettle", "debug", "board-width", "board-height", "colors",
			"fill-delay", "seed", "layout-path", "default-layout"},
	},
	"help": {
		Args: []string{"script", "autoplay", "set"},
	},
}

var commandNames = []string{
	"help", "new", "board", "show", "s", "swap", "press", "enter", "release",
	"paint", "break", "step", "settle", "hint", "hash", "stats", "pieces",
	"over", "set", "autoplay", "script", "exit",
}

var boolValues = []string{"true", "false"}

func colorNames() []string {
	names := make([]string, piece.MaxColors)
	for c := piece.Red; c < piece.MaxColors; c++ {
		names[c] = c.String()
	}
	return names
}

func typeNames() []string {
	names := make([]string, piece.NumPieceTypes)
	for t := piece.Normal; t < piece.NumPieceTypes; t++ {
		names[t] = t.String()
	}
	return names
}

// Do implements the readline.AutoCompleter interface.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		// an unterminated quote; fall back to plain words
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		switch {
		case lastCompleteField == "-policy":
			completions = []string{"best", "random"}
		case lastCompleteField == "-wait", lastCompleteField == "autosettle", lastCompleteField == "debug":
			completions = boolValues
		case cmdName == "paint" && len(fields)-boolToInt(!endsWithSpace) == 3:
			completions = colorNames()
		case cmdName == "pieces":
			completions = typeNames()
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
