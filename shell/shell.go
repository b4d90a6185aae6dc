// Package shell is an interactive terminal front end for the engine. It
// reads commands with readline, runs them against one game session and
// prints the session's notifications as they arrive.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/fivestone/gomoku/config"
	"github.com/fivestone/gomoku/game"
	"github.com/fivestone/gomoku/move"
	"github.com/fivestone/gomoku/movegen"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errQuit              = errors.New("quitting")
)

type ShellController struct {
	l   *readline.Instance
	out io.Writer

	config  *config.Config
	session *game.Session

	lastCands []movegen.Candidate

	autoplayCancel context.CancelFunc
	autoplayDone   chan struct{}
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

// NewShellController sets up readline and a fresh session built from cfg.
func NewShellController(cfg *config.Config) (*ShellController, error) {
	prompt := "gomoku> "
	if readline.IsTerminal(int(os.Stdout.Fd())) {
		prompt = "\033[32mgomoku>\033[0m "
	}
	historyFile := ""
	if dir, err := os.UserCacheDir(); err == nil {
		historyFile = dir + string(os.PathSeparator) + "gomoku_history"
	}
	sc, err := newShellController(cfg, nil)
	if err != nil {
		return nil, err
	}
	l, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		AutoComplete:    NewShellCompleter(sc),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, err
	}
	sc.l = l
	sc.out = l.Stderr()
	return sc, nil
}

// newShellController makes a controller that writes to out and has no
// terminal attached.
func newShellController(cfg *config.Config, out io.Writer) (*ShellController, error) {
	session, err := game.NewSessionFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	sc := &ShellController{out: out, config: cfg, session: session}
	session.AddListener(sc)
	return sc, nil
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// PlyPlaced reports engine moves. The human's own moves are not echoed.
func (sc *ShellController) PlyPlaced(evt game.PlyEvent) {
	if !evt.Engine {
		return
	}
	sc.showMessage(fmt.Sprintf("Engine plays %s (%s)", evt.Move.ShortDescription(), evt.Stage))
	if len(evt.Candidates) > 0 {
		sc.showMessage(candidateTable(evt.Candidates, len(evt.Candidates)))
	}
}

func (sc *ShellController) GameOver(winner move.Player) {
	if winner == move.Empty {
		sc.showMessage("Game over: the board is full. Draw.")
		return
	}
	who := "engine"
	if winner == sc.session.Human() {
		who = "you"
	}
	sc.showMessage(fmt.Sprintf("Game over: %s wins (%s).", winner, who))
}

func (sc *ShellController) Thinking(on bool) {
	if on {
		sc.showMessage("Thinking...")
	}
}

func candidateTableHeader() string {
	return "     Move  Score      Attack     Defense\n"
}

func CandidateCoords(c movegen.Candidate) string {
	return move.ToBoardGameCoords(c.X, c.Y)
}

func CandidateTableRow(idx int, c movegen.Candidate) string {
	return fmt.Sprintf("%3d: %-5s %-10d %-10d %-10d", idx+1,
		CandidateCoords(c), c.Score, c.Attack, c.Defense)
}

func candidateTable(cands []movegen.Candidate, n int) string {
	var sb strings.Builder
	sb.WriteString(candidateTableHeader())
	for i, c := range cands {
		if i >= n {
			break
		}
		sb.WriteString(CandidateTableRow(i, c))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// extractFields splits a command line into the command, its positional
// arguments and its "-name value" options.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for i := 1; i < len(fields); i++ {
		if strings.HasPrefix(fields[i], "-") && !isNumber(fields[i]) {
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			key := fields[i][1:]
			options[key] = append(options[key], fields[i+1])
			i++
			continue
		}
		args = append(args, fields[i])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func isNumber(s string) bool {
	if len(s) < 2 {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Execute runs one command line and returns what should be printed.
func (sc *ShellController) Execute(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("cmd", cmd.cmd).Strs("args", cmd.args).Msg("executing")
	switch cmd.cmd {
	case "new":
		return sc.newGame(cmd)
	case "play", "p":
		return sc.play(cmd)
	case "undo", "u":
		return sc.undo(cmd)
	case "show", "s":
		return msg(sc.session.ToDisplayText()), nil
	case "hint":
		return sc.hint(cmd)
	case "cands", "gen":
		return sc.cands(cmd)
	case "set":
		return sc.set(cmd)
	case "setconfig":
		return sc.setConfig(cmd)
	case "save":
		return sc.save(cmd)
	case "load":
		return sc.load(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "help":
		return sc.help(cmd)
	case "exit", "bye":
		return nil, errQuit
	}
	return nil, fmt.Errorf("command %q not found; try `help`", cmd.cmd)
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()
	sc.showMessage("Type `new` to start a game, `help` for the command list.")

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		resp, err := sc.Execute(line)
		if errors.Is(err, errQuit) {
			sc.stopAutoplay()
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
	log.Debug().Msg("exiting-readline-loop")
}
