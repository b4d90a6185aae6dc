// Package gamerecord reads and writes finished or in-progress games as YAML
// documents. Each record carries a checksum over its moves so a hand-edited
// or truncated file is caught on load.
package gamerecord

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/fivestone/gomoku/move"
)

const FormatVersion = 1

// Who sits behind each colour.
const (
	Human  = "human"
	Engine = "engine"
)

var (
	ErrChecksumMismatch = errors.New("record checksum mismatch")
	ErrBadRecord        = errors.New("malformed game record")
)

// Record is one game. Moves alternate colours starting with black and use
// board coordinates ("H8").
type Record struct {
	Version  int       `yaml:"version"`
	Created  time.Time `yaml:"created"`
	Black    string    `yaml:"black"`
	White    string    `yaml:"white"`
	Moves    []string  `yaml:"moves"`
	Winner   string    `yaml:"winner,omitempty"`
	Checksum string    `yaml:"checksum"`
}

// FromHistory builds a record from a board's move history.
func FromHistory(history []move.Move, black, white string, winner move.Player) *Record {
	r := &Record{
		Version: FormatVersion,
		Created: time.Now().UTC().Truncate(time.Second),
		Black:   black,
		White:   white,
		Moves:   make([]string, len(history)),
	}
	for i, m := range history {
		r.Moves[i] = m.ShortDescription()
	}
	if winner.Stone() {
		r.Winner = winner.String()
	}
	r.Checksum = r.computeChecksum()
	return r
}

func (r *Record) computeChecksum() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d|%s|%s|%s|", r.Version, r.Black, r.White, r.Winner)
	sb.WriteString(strings.Join(r.Moves, ","))
	return fmt.Sprintf("%016x", xxhash.Sum64String(sb.String()))
}

// Verify checks the stored checksum against the record's contents.
func (r *Record) Verify() error {
	if want := r.computeChecksum(); want != r.Checksum {
		return fmt.Errorf("%w: have %s, computed %s", ErrChecksumMismatch, r.Checksum, want)
	}
	return nil
}

// PlayedMoves decodes the move list. Colours alternate from black.
func (r *Record) PlayedMoves() ([]move.Move, error) {
	moves := make([]move.Move, len(r.Moves))
	p := move.Black
	for i, s := range r.Moves {
		x, y, err := move.FromBoardGameCoords(s)
		if err != nil {
			return nil, fmt.Errorf("%w: move %d: %w", ErrBadRecord, i+1, err)
		}
		moves[i] = move.NewMove(x, y, p)
		p = p.Opponent()
	}
	return moves, nil
}

// WinningPlayer returns Empty for a draw or an unfinished game.
func (r *Record) WinningPlayer() move.Player {
	if r.Winner == "" {
		return move.Empty
	}
	p, err := move.PlayerFromString(r.Winner)
	if err != nil {
		return move.Empty
	}
	return p
}

// ToYAML serializes one record.
func (r *Record) ToYAML() ([]byte, error) {
	return yaml.Marshal(r)
}

// ParseRecordFromReader reads a single record and verifies it.
func ParseRecordFromReader(reader io.Reader) (*Record, error) {
	recs, err := ParseRecordsFromReader(reader)
	if err != nil {
		return nil, err
	}
	if len(recs) != 1 {
		return nil, fmt.Errorf("%w: expected one record, found %d", ErrBadRecord, len(recs))
	}
	return recs[0], nil
}

// ParseRecordsFromReader reads a stream of YAML documents, one record each,
// as written by WriteRecords.
func ParseRecordsFromReader(reader io.Reader) ([]*Record, error) {
	dec := yaml.NewDecoder(reader)
	var recs []*Record
	for {
		r := &Record{}
		err := dec.Decode(r)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadRecord, err)
		}
		if r.Version != FormatVersion {
			return nil, fmt.Errorf("%w: unsupported version %d", ErrBadRecord, r.Version)
		}
		if err := r.Verify(); err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	log.Debug().Int("records", len(recs)).Msg("parsed-records")
	return recs, nil
}

// Writer streams records to w as consecutive YAML documents.
type Writer struct {
	enc *yaml.Encoder
}

func NewWriter(w io.Writer) *Writer {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	return &Writer{enc: enc}
}

func (w *Writer) Write(r *Record) error {
	return w.enc.Encode(r)
}

// Close flushes the stream. It does not close the underlying writer.
func (w *Writer) Close() error {
	return w.enc.Close()
}

// WriteRecords writes the records as consecutive YAML documents.
func WriteRecords(w io.Writer, recs []*Record) error {
	rw := NewWriter(w)
	for _, r := range recs {
		if err := rw.Write(r); err != nil {
			return err
		}
	}
	return rw.Close()
}

// ParseRecord loads a single record from a file.
func ParseRecord(filename string) (*Record, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseRecordFromReader(f)
}

// Save writes r to filename, replacing it.
func Save(filename string, r *Record) error {
	var buf bytes.Buffer
	if err := WriteRecords(&buf, []*Record{r}); err != nil {
		return err
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0o644); err != nil {
		return err
	}
	log.Info().Str("file", filename).Int("moves", len(r.Moves)).Msg("saved-record")
	return nil
}
