// Package move holds the small value types shared by every part of the
// engine: stone colours, moves and the coordinate notation used by the shell
// and by game records.
package move

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// BoardSize is the side length of the (square) Gomoku board.
const BoardSize = 15

// Player is the content of a single cell; Empty doubles as "no player".
type Player uint8

const (
	Empty Player = iota
	Black
	White
)

func (p Player) String() string {
	switch p {
	case Black:
		return "black"
	case White:
		return "white"
	}
	return "empty"
}

// Opponent returns the other stone colour. Empty has no opponent.
func (p Player) Opponent() Player {
	switch p {
	case Black:
		return White
	case White:
		return Black
	}
	return Empty
}

// Stone returns true for Black and White.
func (p Player) Stone() bool {
	return p == Black || p == White
}

// Symbol is the single character used to draw the player on a text board.
func (p Player) Symbol() string {
	switch p {
	case Black:
		return "X"
	case White:
		return "O"
	}
	return "."
}

// PlayerFromString parses "black"/"white" (or "b"/"w", "x"/"o").
func PlayerFromString(s string) (Player, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "black", "b", "x":
		return Black, nil
	case "white", "w", "o":
		return White, nil
	}
	return Empty, fmt.Errorf("%q is not a player", s)
}

// Move is a single stone placement. X is the row and Y the column, both
// zero-indexed.
type Move struct {
	X      int
	Y      int
	Player Player
}

func NewMove(x, y int, p Player) Move {
	return Move{X: x, Y: y, Player: p}
}

// InBounds returns true if the coordinates lie on the board.
func InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < BoardSize && y < BoardSize
}

// Index is the flattened cell index of the move.
func (m Move) Index() int {
	return m.X*BoardSize + m.Y
}

// FromIndex is the inverse of Index.
func FromIndex(idx int, p Player) Move {
	return Move{X: idx / BoardSize, Y: idx % BoardSize, Player: p}
}

// SameSquare ignores the player.
func (m Move) SameSquare(o Move) bool {
	return m.X == o.X && m.Y == o.Y
}

// ShortDescription prints the move in board coordinates, e.g. "H8".
func (m Move) ShortDescription() string {
	return ToBoardGameCoords(m.X, m.Y)
}

func (m Move) String() string {
	if m.Player == Empty {
		return fmt.Sprintf("(%d,%d)", m.X, m.Y)
	}
	return fmt.Sprintf("%s (%d,%d)", m.Player, m.X, m.Y)
}

var reCoords = regexp.MustCompile(`^(?P<col>[A-Oa-o])(?P<row>[0-9]{1,2})$`)

var ErrBadCoords = errors.New("could not parse coordinates")

// ToBoardGameCoords converts a row/column pair into the usual
// column-letter/row-number notation. Row numbers start at 1.
func ToBoardGameCoords(x, y int) string {
	return string(rune('A'+y)) + strconv.Itoa(x+1)
}

// FromBoardGameCoords is the inverse of ToBoardGameCoords.
func FromBoardGameCoords(c string) (int, int, error) {
	m := reCoords.FindStringSubmatch(strings.TrimSpace(c))
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadCoords, c)
	}
	col := int(strings.ToUpper(m[1])[0] - 'A')
	row, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadCoords, c)
	}
	x := row - 1
	if !InBounds(x, col) {
		return 0, 0, fmt.Errorf("%w: %q is off the board", ErrBadCoords, c)
	}
	return x, col, nil
}

// ParseCoords accepts either a single "H8"-style token or two integers
// ("7 7", zero-indexed row then column).
func ParseCoords(fields []string) (int, int, error) {
	switch len(fields) {
	case 1:
		if strings.Contains(fields[0], ",") {
			return ParseCoords(strings.Split(fields[0], ","))
		}
		return FromBoardGameCoords(fields[0])
	case 2:
		x, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %v", ErrBadCoords, err)
		}
		y, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %v", ErrBadCoords, err)
		}
		if !InBounds(x, y) {
			return 0, 0, fmt.Errorf("%w: (%d,%d) is off the board", ErrBadCoords, x, y)
		}
		return x, y, nil
	}
	return 0, 0, ErrBadCoords
}
