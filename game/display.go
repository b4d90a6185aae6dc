package game

import (
	"fmt"
	"strings"

	"github.com/fivestone/gomoku/move"
)

func addText(lines []string, row int, hpad int, text string) {
	if row < 0 || row >= len(lines) {
		return
	}
	lines[row] = lines[row] + strings.Repeat(" ", hpad) + text
}

func (s *Session) playerLine(p move.Player) string {
	who := "engine"
	if p == s.human {
		who = "human"
	}
	onturn := "   "
	if s.playing == PlayStatePlaying && s.turn() == p {
		onturn = "-> "
	}
	return fmt.Sprintf("%s%-6s (%s) %s", onturn, p.String(), p.Symbol(), who)
}

// ToDisplayText renders the board with the players, the move count and
// the last move alongside it.
func (s *Session) ToDisplayText() string {
	s.Lock()
	defer s.Unlock()
	bts := strings.Split(s.board.ToDisplayText(), "\n")
	hpadding := 3
	vpadding := 1

	addText(bts, vpadding, hpadding, s.playerLine(move.Black))
	addText(bts, vpadding+1, hpadding, s.playerLine(move.White))
	addText(bts, vpadding+3, hpadding, fmt.Sprintf("Move %d", s.board.Count()))
	if last, ok := s.board.LastMove(); ok {
		addText(bts, vpadding+4, hpadding, fmt.Sprintf("Last: %s %s", last.Player, last.ShortDescription()))
	}
	if s.lastDecision.Move.Player.Stone() {
		addText(bts, vpadding+5, hpadding, fmt.Sprintf("Engine stage: %s", s.lastDecision.Stage))
	}

	switch s.playing {
	case PlayStateIdle:
		addText(bts, vpadding+7, hpadding, "No game in progress.")
	case PlayStateGameOver:
		if w := s.board.Winner(); w.Stone() {
			addText(bts, vpadding+7, hpadding, fmt.Sprintf("Game is over. %s wins.", w))
		} else {
			addText(bts, vpadding+7, hpadding, "Game is over. Draw.")
		}
	}
	return strings.Join(bts, "\n")
}
