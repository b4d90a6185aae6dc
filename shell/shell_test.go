package shell

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/fivestone/gomoku/config"
	"github.com/fivestone/gomoku/game"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"autoplay -file /path/to/log.yaml",
			&shellcmd{"autoplay", nil, CmdOptions{"file": {"/path/to/log.yaml"}}},
			nil},
		{"autoplay stop",
			&shellcmd{"autoplay", []string{"stop"}, CmdOptions{}},
			nil},
		{"autoplay -games 10 -threads 2 -file 'my games.yaml' ",
			&shellcmd{"autoplay", nil,
				CmdOptions{"games": {"10"}, "threads": {"2"}, "file": {"my games.yaml"}}},
			nil,
		},
		{"play 7 -1",
			&shellcmd{"play", []string{"7", "-1"}, CmdOptions{}},
			nil},
		{"autoplay -games 10 -file",
			nil, errWrongOptionSyntax},
	}
	for _, tc := range cases {
		cmd, err := extractFields(tc.line)
		is.Equal(cmd, tc.expCmd)
		is.Equal(err, tc.expErr)
	}
}

func newTestController(t *testing.T) (*ShellController, *bytes.Buffer) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigSearchDepth, 2)
	cfg.Set(config.ConfigThinkingTimeMs, 1000)
	cfg.Set(config.ConfigTTableMaxLog2, 14)
	cfg.Set(config.ConfigForcedCacheSize, 1<<12)
	var out bytes.Buffer
	sc, err := newShellController(cfg, &out)
	if err != nil {
		t.Fatal(err)
	}
	return sc, &out
}

func TestPlayAndUndo(t *testing.T) {
	is := is.New(t)
	sc, out := newTestController(t)

	_, err := sc.Execute("play H8")
	is.True(errors.Is(err, game.ErrNotPlaying))

	resp, err := sc.Execute("new")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "-> black"))

	resp, err = sc.Execute("play H8")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "Move 2"))
	is.True(strings.Contains(out.String(), "Engine plays"))
	is.True(strings.Contains(out.String(), "(opening)"))

	_, err = sc.Execute("play 7 7")
	is.True(err != nil)

	_, err = sc.Execute("undo")
	is.NoErr(err)
	is.Equal(sc.session.Board().Count(), 0)

	_, err = sc.Execute("play Z3")
	is.True(err != nil)
}

func TestCandsAndPlayByIndex(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController(t)
	_, err := sc.Execute("new engine")
	is.NoErr(err)

	_, err = sc.Execute("play #1")
	is.True(err != nil)

	resp, err := sc.Execute("cands 3")
	is.NoErr(err)
	lines := strings.Split(resp.message, "\n")
	is.Equal(len(lines), 4)
	first := sc.lastCands[0]

	_, err = sc.Execute("play #1")
	is.NoErr(err)
	b := sc.session.Board()
	is.Equal(b.At(first.X, first.Y), sc.session.Human())
}

func TestSet(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController(t)

	resp, err := sc.Execute("set")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "search-depth"))

	_, err = sc.Execute("set search-depth 3")
	is.NoErr(err)
	is.Equal(sc.session.Settings().SearchDepth, 3)

	_, err = sc.Execute("set show-candidates true")
	is.NoErr(err)
	is.True(sc.session.Settings().ShowCandidates)

	_, err = sc.Execute("set candidate-budget 0")
	is.True(errors.Is(err, config.ErrInvalidSetting))
	is.Equal(sc.config.GetInt(config.ConfigCandidateBudget), 15)

	_, err = sc.Execute("set vcf-depth 3")
	is.True(err != nil)
}

func TestSaveAndLoad(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController(t)
	path := filepath.Join(t.TempDir(), "game.yaml")

	_, err := sc.Execute("new")
	is.NoErr(err)
	_, err = sc.Execute("play H8")
	is.NoErr(err)
	_, err = sc.Execute("save " + path)
	is.NoErr(err)
	before := sc.session.Board()

	sc2, _ := newTestController(t)
	_, err = sc2.Execute("load " + path)
	is.NoErr(err)
	is.True(sc2.session.Board().Equals(before))
}

func TestHelpAndUnknown(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController(t)
	resp, err := sc.Execute("help")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "autoplay"))

	resp, err = sc.Execute("help play")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "play #n"))

	resp, err = sc.Execute("help nonsense")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "no help text"))

	_, err = sc.Execute("frobnicate")
	is.True(err != nil)
	_, err = sc.Execute("exit")
	is.True(errors.Is(err, errQuit))
}

func TestCompleter(t *testing.T) {
	is := is.New(t)
	c := NewShellCompleter(nil)
	matches, n := c.Do([]rune("au"), 2)
	is.Equal(n, 2)
	is.Equal(matches, [][]rune{[]rune("toplay")})

	line := []rune("autoplay -th")
	matches, _ = c.Do(line, len(line))
	is.Equal(matches, [][]rune{[]rune("reads")})

	line = []rune("set show-candidates ")
	matches, _ = c.Do(line, len(line))
	is.Equal(len(matches), 2)
}
