// Package game runs one human-versus-engine game. A Session owns the board
// and the engine that plays on it, validates the human's moves, replies to
// them, and tells its listeners what happened.
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fivestone/gomoku/board"
	"github.com/fivestone/gomoku/bot"
	"github.com/fivestone/gomoku/config"
	"github.com/fivestone/gomoku/gamerecord"
	"github.com/fivestone/gomoku/move"
	"github.com/fivestone/gomoku/movegen"
)

// Starter picks who opens the game. The opener plays black.
type Starter int

const (
	HumanFirst Starter = iota
	EngineFirst
)

func (s Starter) String() string {
	if s == EngineFirst {
		return "engine"
	}
	return "human"
}

// StarterFromString accepts "human"/"engine" and the colour the human
// wants, "black"/"white".
func StarterFromString(s string) (Starter, error) {
	switch s {
	case "human", "black", "b", "":
		return HumanFirst, nil
	case "engine", "white", "w":
		return EngineFirst, nil
	}
	return HumanFirst, fmt.Errorf("unknown starter %q", s)
}

type PlayState int

const (
	PlayStateIdle PlayState = iota
	PlayStatePlaying
	PlayStateGameOver
)

var (
	ErrNotPlaying     = errors.New("no game in progress")
	ErrThinking       = errors.New("engine is thinking")
	ErrNothingToUndo  = errors.New("nothing to undo")
	ErrInvalidSetting = errors.New("invalid setting")
)

// PlyEvent describes one stone placed on the board.
type PlyEvent struct {
	Move   move.Move
	Ply    int
	Engine bool
	// Stage is the policy step behind an engine move.
	Stage string
	// Candidates is only filled in for engine moves, when ShowCandidates
	// is on.
	Candidates []movegen.Candidate
}

// Listener receives a session's outbound notifications. They are delivered
// synchronously, on the goroutine that caused them.
type Listener interface {
	PlyPlaced(PlyEvent)
	// GameOver gets move.Empty for a draw.
	GameOver(winner move.Player)
	Thinking(bool)
}

// Settings are the difficulty knobs a front end may change between moves.
type Settings struct {
	ThinkingTime    time.Duration
	SearchDepth     int
	CandidateBudget int
	ShowCandidates  bool
	ThinkDelay      time.Duration
}

func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		ThinkingTime:    time.Duration(cfg.GetInt(config.ConfigThinkingTimeMs)) * time.Millisecond,
		SearchDepth:     cfg.GetInt(config.ConfigSearchDepth),
		CandidateBudget: cfg.GetInt(config.ConfigCandidateBudget),
		ShowCandidates:  cfg.GetBool(config.ConfigShowCandidates),
		ThinkDelay:      time.Duration(cfg.GetInt(config.ConfigThinkDelayMs)) * time.Millisecond,
	}
}

func (s Settings) validate() error {
	switch {
	case s.ThinkingTime <= 0:
		return fmt.Errorf("%w: thinking time must be positive", ErrInvalidSetting)
	case s.SearchDepth < 1:
		return fmt.Errorf("%w: search depth must be at least 1", ErrInvalidSetting)
	case s.CandidateBudget < 1:
		return fmt.Errorf("%w: candidate budget must be at least 1", ErrInvalidSetting)
	case s.ThinkDelay < 0:
		return fmt.Errorf("%w: think delay must not be negative", ErrInvalidSetting)
	}
	return nil
}

// Session is a single game between a human and the engine. Its methods
// may be called from different goroutines, but only one move is processed
// at a time; calls made while the engine is thinking are rejected.
type Session struct {
	sync.Mutex

	board     *board.GameBoard
	bot       *bot.Bot
	settings  Settings
	listeners []Listener

	human   move.Player
	engine  move.Player
	starter Starter
	playing PlayState

	thinking     atomic.Bool
	lastDecision bot.Decision
}

// NewSession makes an idle session. opts are the engine's resource
// settings; settings overrides the knobs they share.
func NewSession(opts bot.Options, settings Settings) (*Session, error) {
	if err := settings.validate(); err != nil {
		return nil, err
	}
	b := board.NewBoard()
	s := &Session{
		board:    b,
		bot:      bot.NewBot(b, opts),
		settings: settings,
		human:    move.Black,
		engine:   move.White,
	}
	s.applySettings()
	return s, nil
}

// NewSessionFromConfig builds a session with every setting taken from cfg.
func NewSessionFromConfig(cfg *config.Config) (*Session, error) {
	return NewSession(bot.OptionsFromConfig(cfg), SettingsFromConfig(cfg))
}

func (s *Session) applySettings() {
	opts := s.bot.Options()
	opts.TimeLimit = s.settings.ThinkingTime
	opts.SearchDepth = s.settings.SearchDepth
	opts.CandidateBudget = s.settings.CandidateBudget
	s.bot.Configure(opts)
}

func (s *Session) AddListener(l Listener) {
	s.Lock()
	defer s.Unlock()
	s.listeners = append(s.listeners, l)
}

// StartGame clears the board and every engine cache and starts a new game.
// If the engine opens, its first stone is placed before StartGame returns.
func (s *Session) StartGame(first Starter) error {
	if s.thinking.Load() {
		return ErrThinking
	}
	s.Lock()
	defer s.Unlock()
	if first != HumanFirst && first != EngineFirst {
		return fmt.Errorf("unknown starter %d", first)
	}
	s.board.Clear()
	s.bot.Reset()
	s.lastDecision = bot.Decision{}
	s.starter = first
	if first == HumanFirst {
		s.human, s.engine = move.Black, move.White
	} else {
		s.human, s.engine = move.White, move.Black
	}
	s.playing = PlayStatePlaying
	log.Debug().Str("first", first.String()).Str("human", s.human.String()).Msg("game-started")
	if first == EngineFirst {
		s.engineMove(context.Background())
	}
	return nil
}

// HumanMove plays the human's stone on (x, y) and, unless that ends the
// game, the engine's reply. It returns false without changing anything if
// the move is illegal: no game is running, the engine is thinking, the
// cell is off the board or taken.
func (s *Session) HumanMove(x, y int) bool {
	return s.HumanMoveContext(context.Background(), x, y)
}

// HumanMoveContext is HumanMove with a context bounding the engine's reply.
// A cancelled context cuts the engine's thinking short; it still plays its
// best move so far.
func (s *Session) HumanMoveContext(ctx context.Context, x, y int) bool {
	if s.thinking.Load() {
		log.Debug().Msg("move-while-thinking")
		return false
	}
	s.Lock()
	defer s.Unlock()
	if s.playing != PlayStatePlaying || s.turn() != s.human {
		return false
	}
	if !s.board.Place(x, y, s.human) {
		log.Debug().Int("x", x).Int("y", y).Msg("illegal-move")
		return false
	}
	s.emitPly(PlyEvent{Move: move.NewMove(x, y, s.human), Ply: s.board.Count()})
	if s.checkGameOver() {
		return true
	}
	s.engineMove(ctx)
	return true
}

// engineMove must be called with the lock held.
func (s *Session) engineMove(ctx context.Context) {
	s.thinking.Store(true)
	s.emitThinking(true)
	defer func() {
		s.thinking.Store(false)
		s.emitThinking(false)
	}()

	if s.settings.ThinkDelay > 0 {
		t := time.NewTimer(s.settings.ThinkDelay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
		}
	}

	d, err := s.bot.BestMove(ctx, s.engine)
	if err != nil {
		// full board; checkGameOver has already caught it
		log.Error().Err(err).Msg("engine-has-no-move")
		return
	}
	if !s.board.Place(d.Move.X, d.Move.Y, s.engine) {
		log.Error().Str("move", d.Move.String()).Msg("engine-chose-illegal-move")
		return
	}
	s.lastDecision = d
	evt := PlyEvent{Move: d.Move, Ply: s.board.Count(), Engine: true, Stage: d.Stage.String()}
	if s.settings.ShowCandidates {
		evt.Candidates = d.Candidates
	}
	s.emitPly(evt)
	s.checkGameOver()
}

// checkGameOver ends the game if the last stone won or filled the board.
func (s *Session) checkGameOver() bool {
	if s.board.LastMoveWins() {
		last, _ := s.board.LastMove()
		s.board.MarkWinner(last.Player)
		s.playing = PlayStateGameOver
		log.Info().Str("winner", last.Player.String()).Int("ply", s.board.Count()).Msg("game-over")
		s.emitGameOver(last.Player)
		return true
	}
	if s.board.Full() {
		s.playing = PlayStateGameOver
		log.Info().Msg("game-drawn")
		s.emitGameOver(move.Empty)
		return true
	}
	return false
}

// Undo takes back the human's last move together with the engine's reply
// to it, so that it is the human's turn again. It also reopens a finished
// game.
func (s *Session) Undo() error {
	if s.thinking.Load() {
		return ErrThinking
	}
	s.Lock()
	defer s.Unlock()
	if s.playing == PlayStateIdle {
		return ErrNotPlaying
	}
	hasHumanStone := false
	for _, m := range s.board.History() {
		if m.Player == s.human {
			hasHumanStone = true
			break
		}
	}
	if !hasHumanStone {
		return ErrNothingToUndo
	}
	for {
		m, ok := s.board.Unplace()
		if !ok || m.Player == s.human {
			break
		}
	}
	s.playing = PlayStatePlaying
	s.lastDecision = bot.Decision{}
	log.Debug().Int("stones", s.board.Count()).Msg("undone")
	return nil
}

// Configure changes the difficulty settings. They apply from the engine's
// next move on.
func (s *Session) Configure(settings Settings) error {
	if s.thinking.Load() {
		return ErrThinking
	}
	if err := settings.validate(); err != nil {
		return err
	}
	s.Lock()
	defer s.Unlock()
	s.settings = settings
	s.applySettings()
	return nil
}

// Hint asks the engine which move it would play for the human.
func (s *Session) Hint(ctx context.Context) (bot.Decision, error) {
	if s.thinking.Load() {
		return bot.Decision{}, ErrThinking
	}
	s.Lock()
	defer s.Unlock()
	if s.playing != PlayStatePlaying {
		return bot.Decision{}, ErrNotPlaying
	}
	return s.bot.BestMove(ctx, s.turn())
}

// Candidates ranks the moves of the side to move.
func (s *Session) Candidates() []movegen.Candidate {
	s.Lock()
	defer s.Unlock()
	return s.bot.Candidates(s.turn())
}

// Record captures the game so far.
func (s *Session) Record() *gamerecord.Record {
	s.Lock()
	defer s.Unlock()
	black, white := gamerecord.Human, gamerecord.Engine
	if s.human == move.White {
		black, white = white, black
	}
	return gamerecord.FromHistory(s.board.History(), black, white, s.board.Winner())
}

// LoadRecord replaces the current game with the one in r. The human takes
// the colour r assigns to them; a record with no human side leaves the
// human black.
func (s *Session) LoadRecord(r *gamerecord.Record) error {
	if s.thinking.Load() {
		return ErrThinking
	}
	moves, err := r.PlayedMoves()
	if err != nil {
		return err
	}
	s.Lock()
	defer s.Unlock()

	scratch := board.NewBoard()
	for i, m := range moves {
		if scratch.Winner() != move.Empty || !scratch.Place(m.X, m.Y, m.Player) {
			return fmt.Errorf("%w: move %d (%s) is illegal", gamerecord.ErrBadRecord, i+1, m.ShortDescription())
		}
		if scratch.LastMoveWins() {
			scratch.MarkWinner(m.Player)
		}
	}

	s.board.Clear()
	s.bot.Reset()
	for _, m := range moves {
		s.board.Place(m.X, m.Y, m.Player)
	}
	s.human, s.engine, s.starter = move.Black, move.White, HumanFirst
	if r.White == gamerecord.Human && r.Black != gamerecord.Human {
		s.human, s.engine, s.starter = move.White, move.Black, EngineFirst
	}
	s.playing = PlayStatePlaying
	s.lastDecision = bot.Decision{}
	if scratch.Winner() != move.Empty {
		s.board.MarkWinner(scratch.Winner())
		s.playing = PlayStateGameOver
	} else if s.board.Full() {
		s.playing = PlayStateGameOver
	}
	log.Info().Int("moves", len(moves)).Str("human", s.human.String()).Msg("record-loaded")
	if s.playing == PlayStatePlaying && s.turn() == s.engine {
		s.engineMove(context.Background())
	}
	return nil
}

// turn is the colour to move. Black always opens.
func (s *Session) turn() move.Player {
	if s.board.Count()%2 == 0 {
		return move.Black
	}
	return move.White
}

func (s *Session) Turn() move.Player {
	s.Lock()
	defer s.Unlock()
	return s.turn()
}

func (s *Session) Playing() PlayState {
	s.Lock()
	defer s.Unlock()
	return s.playing
}

func (s *Session) Human() move.Player {
	s.Lock()
	defer s.Unlock()
	return s.human
}

func (s *Session) Winner() move.Player {
	s.Lock()
	defer s.Unlock()
	return s.board.Winner()
}

func (s *Session) Settings() Settings {
	s.Lock()
	defer s.Unlock()
	return s.settings
}

// LastDecision is the engine's most recent move decision.
func (s *Session) LastDecision() bot.Decision {
	s.Lock()
	defer s.Unlock()
	return s.lastDecision
}

// Thinking reports whether the engine is computing a move.
func (s *Session) Thinking() bool {
	return s.thinking.Load()
}

// Board returns a copy of the board.
func (s *Session) Board() *board.GameBoard {
	s.Lock()
	defer s.Unlock()
	return s.board.Copy()
}

func (s *Session) emitPly(evt PlyEvent) {
	for _, l := range s.listeners {
		l.PlyPlaced(evt)
	}
}

func (s *Session) emitGameOver(winner move.Player) {
	for _, l := range s.listeners {
		l.GameOver(winner)
	}
}

func (s *Session) emitThinking(on bool) {
	for _, l := range s.listeners {
		l.Thinking(on)
	}
}
