package gamerecord

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/fivestone/gomoku/move"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func sampleHistory() []move.Move {
	return []move.Move{
		move.NewMove(7, 7, move.Black),
		move.NewMove(6, 6, move.White),
		move.NewMove(7, 8, move.Black),
		move.NewMove(14, 0, move.White),
	}
}

func TestFromHistory(t *testing.T) {
	is := is.New(t)
	r := FromHistory(sampleHistory(), Human, Engine, move.Empty)
	is.Equal(r.Moves, []string{"H8", "G7", "I8", "A15"})
	is.Equal(r.Winner, "")
	is.Equal(r.WinningPlayer(), move.Empty)
	is.NoErr(r.Verify())

	moves, err := r.PlayedMoves()
	is.NoErr(err)
	is.Equal(moves, sampleHistory())
}

func TestSaveAndLoad(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "game.yaml")
	r := FromHistory(sampleHistory(), Engine, Human, move.White)
	is.NoErr(Save(path, r))

	loaded, err := ParseRecord(path)
	is.NoErr(err)
	is.Equal(loaded.Moves, r.Moves)
	is.Equal(loaded.Black, Engine)
	is.Equal(loaded.WinningPlayer(), move.White)
	is.True(loaded.Created.Equal(r.Created))
}

func TestTamperedRecordRejected(t *testing.T) {
	is := is.New(t)
	r := FromHistory(sampleHistory(), Human, Engine, move.Empty)
	out, err := r.ToYAML()
	is.NoErr(err)

	edited := strings.Replace(string(out), "I8", "J8", 1)
	_, err = ParseRecordFromReader(strings.NewReader(edited))
	is.True(errors.Is(err, ErrChecksumMismatch))
}

func TestMultipleRecords(t *testing.T) {
	is := is.New(t)
	recs := []*Record{
		FromHistory(sampleHistory(), Engine, Engine, move.Empty),
		FromHistory(sampleHistory()[:3], Engine, Engine, move.Black),
	}
	var buf bytes.Buffer
	is.NoErr(WriteRecords(&buf, recs))

	parsed, err := ParseRecordsFromReader(&buf)
	is.NoErr(err)
	is.Equal(len(parsed), 2)
	is.Equal(len(parsed[1].Moves), 3)

	buf.Reset()
	is.NoErr(WriteRecords(&buf, recs))
	_, err = ParseRecordFromReader(&buf)
	is.True(errors.Is(err, ErrBadRecord))
}

func TestBadMoves(t *testing.T) {
	is := is.New(t)
	r := &Record{Version: FormatVersion, Moves: []string{"H8", "Z99"}}
	_, err := r.PlayedMoves()
	is.True(errors.Is(err, ErrBadRecord))
	is.True(errors.Is(err, move.ErrBadCoords))

	_, err = ParseRecordFromReader(strings.NewReader("version: 7\nmoves: []\n"))
	is.True(errors.Is(err, ErrBadRecord))
}
