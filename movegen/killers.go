package movegen

import "github.com/fivestone/gomoku/move"

const (
	// MaxKillerDepth bounds the search depths that keep killer moves.
	MaxKillerDepth = 64
	// MaxKillers is the number of killer slots per depth.
	MaxKillers = 2
)

// KillerTable remembers, per search depth, the moves that most recently
// caused a beta cutoff. Slot 0 is the most recent.
type KillerTable struct {
	// cell index + 1, so the zero value means an empty slot.
	slots [MaxKillerDepth][MaxKillers]int
}

// Record stores m as the newest killer for depth. Recording the current
// newest killer again is a no-op.
func (k *KillerTable) Record(depth int, m move.Move) {
	if depth < 0 || depth >= MaxKillerDepth {
		return
	}
	v := m.Index() + 1
	if k.slots[depth][0] == v {
		return
	}
	k.slots[depth][1] = k.slots[depth][0]
	k.slots[depth][0] = v
}

// Killers returns the cell indexes of the killers for depth, newest first.
func (k *KillerTable) Killers(depth int) []int {
	if depth < 0 || depth >= MaxKillerDepth {
		return nil
	}
	var out []int
	for _, v := range k.slots[depth] {
		if v != 0 {
			out = append(out, v-1)
		}
	}
	return out
}

// IsKiller reports whether the cell is a killer at depth.
func (k *KillerTable) IsKiller(depth, idx int) bool {
	if depth < 0 || depth >= MaxKillerDepth {
		return false
	}
	for _, v := range k.slots[depth] {
		if v == idx+1 {
			return true
		}
	}
	return false
}

// Clear the killer moves table.
func (k *KillerTable) Clear() {
	k.slots = [MaxKillerDepth][MaxKillers]int{}
}
