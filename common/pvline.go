package common

import (
	"fmt"
	"strings"

	"github.com/fivestone/gomoku/move"
)

// Credit: MIT-licensed https://github.com/algerbrex/blunder/blob/main/engine/search.go
type PVLine struct {
	Moves []move.Move
	score int
}

// Clear the principal variation line.
func (pvLine *PVLine) Clear() {
	pvLine.Moves = pvLine.Moves[:0]
}

// Update the principal variation line with a new best move,
// and a new line of best play after the best move.
func (pvLine *PVLine) Update(m move.Move, newPVLine PVLine, score int) {
	pvLine.Moves = append(pvLine.Moves[:0], m)
	pvLine.Moves = append(pvLine.Moves, newPVLine.Moves...)
	pvLine.score = score
}

// Copy returns a PV line that does not share storage with this one.
func (pvLine PVLine) Copy() PVLine {
	return PVLine{
		Moves: append([]move.Move(nil), pvLine.Moves...),
		score: pvLine.score,
	}
}

// Get the best move from the principal variation line.
func (pvLine *PVLine) GetPVMove() (move.Move, bool) {
	if len(pvLine.Moves) == 0 {
		return move.Move{}, false
	}
	return pvLine.Moves[0], true
}

func (pvLine PVLine) Score() int {
	return pvLine.score
}

// Convert the principal variation line to a string.
func (pvLine PVLine) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PV; val %d\n", pvLine.score)
	for i, m := range pvLine.Moves {
		fmt.Fprintf(&sb, "%d: %s\n", i+1, m.String())
	}
	return sb.String()
}

func (pvLine PVLine) NLBString() string {
	// no line breaks
	var sb strings.Builder
	fmt.Fprintf(&sb, "PV; val %d; ", pvLine.score)
	for i, m := range pvLine.Moves {
		fmt.Fprintf(&sb, "%d: %s; ", i+1, m.ShortDescription())
	}
	return sb.String()
}
