package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fivestone/gomoku/automatic"
	"github.com/fivestone/gomoku/bot"
	"github.com/fivestone/gomoku/config"
	"github.com/fivestone/gomoku/game"
	"github.com/fivestone/gomoku/gamerecord"
	"github.com/fivestone/gomoku/move"
)

const defaultCandidatesShown = 10

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) Bool(key string) bool {
	v := c[key]
	if len(v) == 0 {
		return false
	}
	return strings.ToLower(v[0]) == "true"
}

func msg(message string) *Response {
	return &Response{message: message}
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	first := game.HumanFirst
	if len(cmd.args) > 0 {
		var err error
		first, err = game.StarterFromString(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	sc.lastCands = nil
	if err := sc.session.StartGame(first); err != nil {
		return nil, err
	}
	return msg(sc.session.ToDisplayText()), nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: play <coords>, e.g. `play H8` or `play 7 7`")
	}
	var x, y int
	var err error
	if strings.HasPrefix(cmd.args[0], "#") {
		x, y, err = sc.candidateCoords(cmd.args[0][1:])
	} else {
		x, y, err = move.ParseCoords(cmd.args)
	}
	if err != nil {
		return nil, err
	}
	if sc.session.Playing() != game.PlayStatePlaying {
		return nil, game.ErrNotPlaying
	}
	if !sc.session.HumanMove(x, y) {
		return nil, fmt.Errorf("%s is not a legal move", move.ToBoardGameCoords(x, y))
	}
	sc.lastCands = nil
	return msg(sc.session.ToDisplayText()), nil
}

// candidateCoords resolves "#n" to the n-th candidate of the last listing.
func (sc *ShellController) candidateCoords(id string) (int, int, error) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return 0, 0, err
	}
	if n < 1 || n > len(sc.lastCands) {
		return 0, 0, errors.New("candidate outside range; run `cands` first")
	}
	c := sc.lastCands[n-1]
	return c.X, c.Y, nil
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if err := sc.session.Undo(); err != nil {
		return nil, err
	}
	sc.lastCands = nil
	return msg(sc.session.ToDisplayText()), nil
}

func (sc *ShellController) hint(cmd *shellcmd) (*Response, error) {
	d, err := sc.session.Hint(context.Background())
	if err != nil {
		return nil, err
	}
	s := fmt.Sprintf("Suggested move: %s (%s)", d.Move.ShortDescription(), d.Stage)
	if len(d.Sequence) > 1 {
		line := make([]string, len(d.Sequence))
		for i, m := range d.Sequence {
			line[i] = m.ShortDescription()
		}
		s += "\nLine: " + strings.Join(line, " ")
	}
	return msg(s), nil
}

func (sc *ShellController) cands(cmd *shellcmd) (*Response, error) {
	n := defaultCandidatesShown
	if len(cmd.args) > 0 {
		var err error
		n, err = strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	sc.lastCands = sc.session.Candidates()
	if len(sc.lastCands) == 0 {
		return msg("No candidates."), nil
	}
	return msg(candidateTable(sc.lastCands, n)), nil
}

// settable are the keys `set` may change during a game.
var settable = []string{
	config.ConfigThinkingTimeMs,
	config.ConfigSearchDepth,
	config.ConfigCandidateBudget,
	config.ConfigShowCandidates,
	config.ConfigThinkDelayMs,
}

func (sc *ShellController) settingsText() string {
	var sb strings.Builder
	keys := append([]string(nil), settable...)
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "%-20s %v\n", k, sc.config.Get(k))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(sc.settingsText()), nil
	}
	key := cmd.args[0]
	known := false
	for _, k := range settable {
		if k == key {
			known = true
		}
	}
	if !known {
		return nil, fmt.Errorf("%s cannot be set; settable keys are %s", key, strings.Join(settable, ", "))
	}
	if len(cmd.args) == 1 {
		return msg(fmt.Sprintf("%s %v", key, sc.config.Get(key))), nil
	}
	if err := sc.applySetting(key, cmd.args[1]); err != nil {
		return nil, err
	}
	return msg("set " + key + " to " + cmd.args[1]), nil
}

func (sc *ShellController) applySetting(key, value string) error {
	old := sc.config.Get(key)
	if key == config.ConfigShowCandidates {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		sc.config.Set(key, b)
	} else {
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		sc.config.Set(key, n)
	}
	err := sc.config.Validate()
	if err == nil {
		err = sc.session.Configure(game.SettingsFromConfig(sc.config))
	}
	if err != nil {
		sc.config.Set(key, old)
		return err
	}
	return nil
}

func (sc *ShellController) setConfig(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) < 2 {
		return nil, errors.New("usage: setconfig <key> <value>")
	}
	key, value := cmd.args[0], cmd.args[1]
	if err := sc.applySetting(key, value); err != nil {
		return nil, err
	}
	if err := sc.config.Write(cmd.options.String("file")); err != nil {
		return nil, err
	}
	return msg("saved " + key + " = " + value), nil
}

func (sc *ShellController) save(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: save <file>")
	}
	rec := sc.session.Record()
	if err := gamerecord.Save(cmd.args[0], rec); err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("saved %d moves to %s", len(rec.Moves), cmd.args[0])), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: load <file>")
	}
	rec, err := gamerecord.ParseRecord(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if err := sc.session.LoadRecord(rec); err != nil {
		return nil, err
	}
	sc.lastCands = nil
	return msg(sc.session.ToDisplayText()), nil
}

func (sc *ShellController) stopAutoplay() bool {
	if sc.autoplayCancel == nil {
		return false
	}
	sc.autoplayCancel()
	<-sc.autoplayDone
	sc.autoplayCancel = nil
	return true
}

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) > 0 && cmd.args[0] == "stop" {
		if !sc.stopAutoplay() {
			return nil, errors.New("no autoplay running")
		}
		return msg("autoplay stopped"), nil
	}
	if automatic.IsPlaying.Value() > 0 {
		return nil, automatic.ErrAlreadyPlaying
	}
	games, err := cmd.options.IntDefault("games", sc.config.GetInt(config.ConfigSelfplayGames))
	if err != nil {
		return nil, err
	}
	threads, err := cmd.options.IntDefault("threads", sc.config.GetInt(config.ConfigSelfplayThreads))
	if err != nil {
		return nil, err
	}
	outFile := cmd.options.String("file")
	if outFile == "" {
		outFile = sc.config.GetString(config.ConfigSelfplayOutput)
	}

	opts := automatic.RunOptions{
		NumGames:     games,
		Threads:      threads,
		OpeningPlies: automatic.DefaultOpeningPlies,
		Black:        bot.OptionsFromConfig(sc.config),
		White:        bot.OptionsFromConfig(sc.config),
	}
	var f *os.File
	if outFile != "" {
		f, err = os.Create(outFile)
		if err != nil {
			return nil, err
		}
		opts.Output = f
	}

	ctx, cancel := context.WithCancel(context.Background())
	sc.autoplayCancel = cancel
	sc.autoplayDone = make(chan struct{})
	go func() {
		defer close(sc.autoplayDone)
		summary, err := automatic.StartCompVCompGames(ctx, opts)
		if f != nil {
			f.Close()
		}
		if err != nil {
			sc.showError(err)
		}
		if summary != nil {
			sc.showMessage(summary.String())
		}
	}()
	return msg(fmt.Sprintf("playing %d games on %d threads; `autoplay stop` to stop", games, threads)), nil
}
