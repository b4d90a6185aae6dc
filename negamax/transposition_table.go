package negamax

import (
	"math"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

const (
	TTExact = 0x01
	TTLower = 0x02
	TTUpper = 0x03
)

const entrySize = 24

const (
	minSizePowerOf2      = 12
	DefaultMaxSizeLog2   = 20
	DefaultFractionOfMem = 0.01
)

// 24 bytes (entrySize)
type TableEntry struct {
	// The full primary hash and the low half of the secondary one. Two
	// positions that agree on both still collide; that is rare enough to
	// accept, and costs at worst a suboptimal move.
	key   uint64
	check uint32
	score int32
	depth uint8
	flag  uint8
	// cell index + 1; zero means no move was stored
	play int16
}

func (t TableEntry) valid() bool {
	// a table flag is 1, 2, or 3.
	return t.flag != 0
}

func (t TableEntry) Flag() uint8 {
	return t.flag
}

func (t TableEntry) Depth() int {
	return int(t.depth)
}

func (t TableEntry) Score() int {
	return int(t.score)
}

// Move returns the cell index of the best move stored with the entry.
func (t TableEntry) Move() (int, bool) {
	if t.play == 0 {
		return 0, false
	}
	return int(t.play) - 1, true
}

// TranspositionTable is a fixed-size, always-replace hash table of search
// results. Its size is a power of two chosen from the machine's memory.
type TranspositionTable struct {
	table        []TableEntry
	created      atomic.Uint64
	lookups      atomic.Uint64
	hits         atomic.Uint64
	sizePowerOf2 int
	sizeMask     uint64
	// "type 2" collisions: another position sits in the slot. "Type 1"
	// collisions: the primary hash matches but the secondary does not.
	t1collisions atomic.Uint64
	t2collisions atomic.Uint64
}

// TTStats is a snapshot of the table's counters.
type TTStats struct {
	Size         int
	Created      uint64
	Lookups      uint64
	Hits         uint64
	T1Collisions uint64
	T2Collisions uint64
}

func (t *TranspositionTable) lookup(key uint64, check uint64) (TableEntry, bool) {
	if t.table == nil {
		return TableEntry{}, false
	}
	t.lookups.Add(1)
	idx := key & t.sizeMask
	e := t.table[idx]
	if !e.valid() {
		return TableEntry{}, false
	}
	if e.key != key {
		// There is another unrelated node at this position.
		t.t2collisions.Add(1)
		return TableEntry{}, false
	}
	if e.check != uint32(check) {
		t.t1collisions.Add(1)
		return TableEntry{}, false
	}
	t.hits.Add(1)
	return e, true
}

func (t *TranspositionTable) store(key uint64, check uint64, tentry TableEntry) {
	if t.table == nil {
		return
	}
	idx := key & t.sizeMask
	tentry.key = key
	tentry.check = uint32(check)
	// just overwrite whatever is there for now.
	t.table[idx] = tentry
	t.created.Add(1)
}

// Reset sizes the table to fractionOfMemory of the system memory, capped
// at 2^maxSizeLog2 entries, and empties it.
func (t *TranspositionTable) Reset(fractionOfMemory float64, maxSizeLog2 int) {
	if maxSizeLog2 < minSizePowerOf2 {
		maxSizeLog2 = DefaultMaxSizeLog2
	}
	totalMem := memory.TotalMemory()
	desiredNElems := fractionOfMemory * (float64(totalMem) / float64(entrySize))
	// find biggest power of 2 lower than desired.
	t.sizePowerOf2 = minSizePowerOf2
	if desiredNElems >= 1 {
		t.sizePowerOf2 = max(int(math.Log2(desiredNElems)), minSizePowerOf2)
	}
	t.sizePowerOf2 = min(t.sizePowerOf2, maxSizeLog2)

	numElems := 1 << t.sizePowerOf2
	t.sizeMask = uint64(numElems - 1)
	reset := false
	if t.table != nil && len(t.table) == numElems {
		reset = true
		clear(t.table)
	} else {
		t.table = make([]TableEntry, numElems)
	}

	log.Debug().Int("num-elems", numElems).
		Float64("desired-num-elems", desiredNElems).
		Int("estimated-total-memory-bytes", numElems*entrySize).
		Uint64("total-system-memory-bytes", totalMem).
		Bool("reset", reset).
		Msg("transposition-table-size")

	t.resetCounters()
}

// Clear empties the table without resizing it.
func (t *TranspositionTable) Clear() {
	clear(t.table)
	t.resetCounters()
}

func (t *TranspositionTable) resetCounters() {
	t.created.Store(0)
	t.lookups.Store(0)
	t.hits.Store(0)
	t.t1collisions.Store(0)
	t.t2collisions.Store(0)
}

func (t *TranspositionTable) Size() int {
	return len(t.table)
}

func (t *TranspositionTable) Stats() TTStats {
	return TTStats{
		Size:         len(t.table),
		Created:      t.created.Load(),
		Lookups:      t.lookups.Load(),
		Hits:         t.hits.Load(),
		T1Collisions: t.t1collisions.Load(),
		T2Collisions: t.t2collisions.Load(),
	}
}
