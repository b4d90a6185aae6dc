package zobrist

import (
	"testing"

	"github.com/matryer/is"

	"github.com/fivestone/gomoku/move"
)

func TestPlayAndUnplay(t *testing.T) {
	is := is.New(t)
	z := &Zobrist{}
	z.Initialize()

	cells := make([]move.Player, numCells)
	cells[7*move.BoardSize+7] = move.Black
	cells[7*move.BoardSize+8] = move.White
	h, c := z.Hash(cells)

	// play and unplay a stone. The final hash should be the same as the beginning hash.
	k, ck := z.Stone(6*move.BoardSize+6, move.Black)
	h1, c1 := h^k, c^ck
	h2, c2 := h1^k, c1^ck
	is.Equal(h, h2)
	is.Equal(c, c2)
	is.True(h1 != h2) // extremely unlikely to collide, but this is not technically always true.
}

func TestIncrementalMatchesFull(t *testing.T) {
	is := is.New(t)
	z := Global()
	cells := make([]move.Player, numCells)
	var h, c uint64
	placements := []move.Move{
		move.NewMove(7, 7, move.Black),
		move.NewMove(6, 8, move.White),
		move.NewMove(0, 14, move.Black),
		move.NewMove(14, 0, move.White),
	}
	for _, m := range placements {
		cells[m.Index()] = m.Player
		k, ck := z.Stone(m.Index(), m.Player)
		h ^= k
		c ^= ck
	}
	fh, fc := z.Hash(cells)
	is.Equal(h, fh)
	is.Equal(c, fc)
}

func TestColoursDiffer(t *testing.T) {
	is := is.New(t)
	z := Global()
	b, _ := z.Stone(112, move.Black)
	w, _ := z.Stone(112, move.White)
	is.True(b != w)
	is.True(b != 0)
	is.True(Global() == z)
}
