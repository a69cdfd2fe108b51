package shell

import (
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string // Available options for this command (e.g., "-depth")
	Args    []string // Possible argument values (for non-option arguments)
}

// commandMetadata maps command names to their options and arguments, as
// handled in api.go.
var commandMetadata = map[string]CommandMetadata{
	"new":      {Options: []string{"-x", "-o"}},
	"load":     {Options: []string{"-x", "-o"}},
	"minimax":  {Options: []string{"-depth", "-noprune", "-trace"}},
	"mcts":     {Options: []string{"-iterations", "-c", "-rollouts"}},
	"export":   {Options: []string{"-file"}},
	"autoplay": {Options: []string{"-games", "-threads", "-file"}, Args: []string{"analyze"}},
	"help":     {Args: helpTopics},
}

// Common command names for command completion
var commandNames = []string{
	"help", "new", "load", "show", "play", "aiplay", "playout", "undo",
	"minimax", "mcts", "analyze", "history", "export", "autoplay", "set",
	"setconfig", "exit",
}

var boolValues = []string{"true", "false"}
var playerValues = []string{"human", "random", "minimax", "mcts"}

// Do implements the readline.AutoComplete interface
// It provides context-aware autocomplete based on what's been typed
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	// Parse the line using shellquote to handle quoted strings properly
	fields, err := shellquote.Split(text)
	if err != nil {
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

		if strings.HasPrefix(lastCompleteField, "-") {
			switch strings.TrimPrefix(lastCompleteField, "-") {
			case "x", "o":
				completions = playerValues
			case "noprune":
				completions = boolValues
			}
		}

		if completions == nil {
			switch cmdName {
			case "set", "setconfig":
				if c.sc != nil && c.sc.config != nil {
					completions = c.sc.config.Keys()
				}
			case "play", "p":
				completions = c.legalMoves()
			}
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
			// Return only the part that needs to be added
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}

func (c *ShellCompleter) legalMoves() []string {
	if c.sc == nil || c.sc.game == nil || !c.sc.game.Playing() {
		return nil
	}
	g := c.sc.game
	moves := g.Board().LegalMoves(g.PlayerOnTurn())
	if len(moves) == 0 {
		return []string{"pass"}
	}
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	sort.Strings(out)
	return out
}
