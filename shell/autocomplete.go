package shell

import (
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
	Options []string
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"new": {
		Args: []string{"human", "engine"},
	},
	"set": {
		Args: settable,
	},
	"setconfig": {
		Args:    settable,
		Options: []string{"-file"},
	},
	"autoplay": {
		Args:    []string{"stop"},
		Options: []string{"-games", "-threads", "-file"},
	},
	"help": {
		Args: []string{"play", "set", "autoplay"},
	},
}

var commandNames = []string{
	"new", "play", "undo", "show", "hint", "cands", "set", "setconfig",
	"save", "load", "autoplay", "help", "exit",
}

var boolValues = []string{"true", "false"}

// Do implements the readline.AutoCompleter interface.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		// unterminated quote
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
		case (cmdName == "set" || cmdName == "setconfig") && lastCompleteField == "show-candidates":
			completions = boolValues
		case (cmdName == "set" || cmdName == "setconfig") && lastCompleteField != cmdName:
			// a value is being typed
		case cmdName == "play" && c.sc != nil:
			for _, cand := range c.sc.lastCands {
				completions = append(completions, CandidateCoords(cand))
			}
		default:
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
