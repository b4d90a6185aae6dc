package zobrist

import (
	"sync"

	"lukechampine.com/frand"

	"github.com/fivestone/gomoku/move"
)

const bignum = 1<<63 - 2

const numCells = move.BoardSize * move.BoardSize

// generate a zobrist hash for a gomoku position.
// https://en.wikipedia.org/wiki/Zobrist_hashing
//
// Every (cell, player) pair gets two independent 64-bit keys. The first
// one is the position hash used to index caches; the second one is stored
// alongside cached entries and compared on lookup, which makes a false hit
// require both keys to collide at once.
type Zobrist struct {
	posTable   [numCells][2]uint64
	checkTable [numCells][2]uint64
}

var (
	global     *Zobrist
	globalOnce sync.Once
)

// Global returns the process-wide key tables. They are immutable after
// creation, so every board and every concurrent game can share them.
func Global() *Zobrist {
	globalOnce.Do(func() {
		global = &Zobrist{}
		global.Initialize()
	})
	return global
}

func (z *Zobrist) Initialize() {
	for i := 0; i < numCells; i++ {
		for j := 0; j < 2; j++ {
			z.posTable[i][j] = frand.Uint64n(bignum) + 1
			z.checkTable[i][j] = frand.Uint64n(bignum) + 1
		}
	}
}

func playerIdx(p move.Player) int {
	if p == move.White {
		return 1
	}
	return 0
}

// Stone returns both keys for a stone of player p on cell idx. XORing the
// same pair into a hash twice cancels out, which is what makes place and
// unplace symmetric.
func (z *Zobrist) Stone(idx int, p move.Player) (uint64, uint64) {
	pi := playerIdx(p)
	return z.posTable[idx][pi], z.checkTable[idx][pi]
}

// Hash computes both fingerprints from scratch.
func (z *Zobrist) Hash(cells []move.Player) (uint64, uint64) {
	var key, check uint64
	for i, c := range cells {
		if !c.Stone() {
			continue
		}
		k, ch := z.Stone(i, c)
		key ^= k
		check ^= ch
	}
	return key, check
}
