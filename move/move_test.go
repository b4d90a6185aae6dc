package move

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

type coordTestStruct struct {
	row    int
	col    int
	output string
}

var coordTests = []coordTestStruct{
	{0, 0, "A1"},
	{14, 14, "O15"},
	{7, 7, "H8"},
	{9, 8, "I10"},
	{1, 7, "H2"},
}

func TestToBoardGameCoords(t *testing.T) {
	for _, tc := range coordTests {
		calc := ToBoardGameCoords(tc.row, tc.col)
		if calc != tc.output {
			t.Errorf("For row=%v col=%v got %v, expected %v",
				tc.row, tc.col, calc, tc.output)
		}
	}
}

func TestFromBoardGameCoords(t *testing.T) {
	is := is.New(t)
	for _, tc := range coordTests {
		row, col, err := FromBoardGameCoords(tc.output)
		is.NoErr(err)
		is.Equal(row, tc.row)
		is.Equal(col, tc.col)
	}
	_, _, err := FromBoardGameCoords("P1")
	is.True(errors.Is(err, ErrBadCoords))
	_, _, err = FromBoardGameCoords("A16")
	is.True(errors.Is(err, ErrBadCoords))
}

func TestParseCoords(t *testing.T) {
	is := is.New(t)
	x, y, err := ParseCoords([]string{"7", "3"})
	is.NoErr(err)
	is.Equal(x, 7)
	is.Equal(y, 3)

	x, y, err = ParseCoords([]string{"2,9"})
	is.NoErr(err)
	is.Equal(x, 2)
	is.Equal(y, 9)

	x, y, err = ParseCoords([]string{"h8"})
	is.NoErr(err)
	is.Equal(x, 7)
	is.Equal(y, 7)

	_, _, err = ParseCoords([]string{"15", "0"})
	is.True(errors.Is(err, ErrBadCoords))
	_, _, err = ParseCoords(nil)
	is.True(errors.Is(err, ErrBadCoords))
}

func TestOpponent(t *testing.T) {
	is := is.New(t)
	is.Equal(Black.Opponent(), White)
	is.Equal(White.Opponent(), Black)
	is.Equal(Empty.Opponent(), Empty)
	is.True(!Empty.Stone())
}

func TestIndexRoundTrip(t *testing.T) {
	is := is.New(t)
	m := NewMove(4, 11, White)
	is.Equal(FromIndex(m.Index(), White), m)
}
