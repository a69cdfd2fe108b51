// Package game runs a Reversi game between two turn players, keeping the
// move history and a positional hash of the live board.
package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/move"
	"github.com/domino14/reversi/turnplayer"
	"github.com/domino14/reversi/zobrist"
)

var (
	ErrGameOver    = errors.New("game is over")
	ErrIllegalMove = errors.New("illegal move")
	ErrNoHistory   = errors.New("nothing to undo")
)

// Turn is one entry of the game history.
type Turn struct {
	Number int    `yaml:"turn"`
	Player string `yaml:"player"`
	Engine string `yaml:"engine"`
	Move   string `yaml:"move"`
	Discs  [2]int `yaml:"discs"`

	before board.Board
}

// Game is the internal game structure. It does not care who its players
// are; anything implementing turnplayer.TurnPlayer can play. A Game is not
// safe for concurrent use.
type Game struct {
	id      string
	board   board.Board
	onturn  board.Player
	players [2]turnplayer.TurnPlayer
	history []Turn

	z    *zobrist.Zobrist
	hash uint64
}

// NewGame starts a game from the standard opening with x to move.
func NewGame(players [2]turnplayer.TurnPlayer) *Game {
	return NewGameFromPosition(players, board.NewBoard(), board.Player0)
}

// NewGameFromPosition starts a game from an arbitrary position.
func NewGameFromPosition(players [2]turnplayer.TurnPlayer, b board.Board, onturn board.Player) *Game {
	z := &zobrist.Zobrist{}
	z.Initialize()
	g := &Game{
		id:      uuid.New().String(),
		board:   b,
		onturn:  onturn,
		players: players,
		history: []Turn{},
		z:       z,
	}
	g.hash = z.Hash(b, onturn)
	log.Debug().Str("gameID", g.id).Msg("new-game")
	return g
}

func (g *Game) ID() string {
	return g.id
}

func (g *Game) Board() board.Board {
	return g.board
}

func (g *Game) PlayerOnTurn() board.Player {
	return g.onturn
}

func (g *Game) Players() [2]turnplayer.TurnPlayer {
	return g.players
}

// SetPlayer replaces one side's player. The game continues from the
// current position.
func (g *Game) SetPlayer(p board.Player, tp turnplayer.TurnPlayer) {
	g.players[p] = tp
}

// Hash returns the Zobrist hash of the current board and side to move.
func (g *Game) Hash() uint64 {
	return g.hash
}

func (g *Game) Winner() board.Winner {
	return g.board.Winner()
}

func (g *Game) Playing() bool {
	return g.board.Winner() == board.Continuing
}

// History returns a copy of the turns played so far.
func (g *Game) History() []Turn {
	return append([]Turn(nil), g.history...)
}

func (g *Game) playerName(p board.Player) string {
	if g.players[p] == nil {
		return "manual"
	}
	return g.players[p].Name()
}

func (g *Game) record(m move.Move, engine string, after board.Board) Turn {
	t := Turn{
		Number: len(g.history) + 1,
		Player: g.onturn.String(),
		Engine: engine,
		Move:   m.String(),
		Discs:  [2]int{after.Count(board.Player0), after.Count(board.Player1)},
		before: g.board,
	}
	g.history = append(g.history, t)
	g.hash = g.z.AddMove(g.hash, g.board, after)
	g.board = after
	g.onturn = g.onturn.Opponent()
	return t
}

// PlayTurn asks the player on turn for a move and applies it.
func (g *Game) PlayTurn() (Turn, error) {
	if !g.Playing() {
		return Turn{}, ErrGameOver
	}
	tp := g.players[g.onturn]
	if tp == nil {
		return Turn{}, fmt.Errorf("no player for %v", g.onturn)
	}
	after, m, err := tp.Move(g.onturn, g.board)
	if err != nil {
		return Turn{}, err
	}
	t := g.record(m, tp.Name(), after)
	log.Debug().Str("gameID", g.id).Int("turn", t.Number).Str("player", t.Player).
		Str("move", t.Move).Uint64("hash", g.hash).Msg("played")
	return t, nil
}

// PlayMove applies a move given directly rather than asked of a player.
// A pass is accepted only when the player on turn has no placement.
func (g *Game) PlayMove(m move.Move) (Turn, error) {
	if !g.Playing() {
		return Turn{}, ErrGameOver
	}
	if m.IsPass() && g.board.HasLegalMove(g.onturn) {
		return Turn{}, fmt.Errorf("%w: %v has a legal placement", ErrIllegalMove, g.onturn)
	}
	after, ok := g.board.Play(g.onturn, m)
	if !ok {
		return Turn{}, fmt.Errorf("%w: %v", ErrIllegalMove, m)
	}
	return g.record(m, "manual", after), nil
}

// PlayToEnd plays turns until the game is decided, calling afterTurn, if
// not nil, after each one.
func (g *Game) PlayToEnd(ctx context.Context, afterTurn func(Turn)) error {
	for g.Playing() {
		if err := ctx.Err(); err != nil {
			return err
		}
		t, err := g.PlayTurn()
		if err != nil {
			return err
		}
		if afterTurn != nil {
			afterTurn(t)
		}
	}
	log.Debug().Str("gameID", g.id).Str("result", g.ResultText()).Msg("game-over")
	return nil
}

// Undo takes back the last turn.
func (g *Game) Undo() error {
	if len(g.history) == 0 {
		return ErrNoHistory
	}
	last := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]
	g.hash = g.z.AddMove(g.hash, g.board, last.before)
	g.board = last.before
	g.onturn = g.onturn.Opponent()
	return nil
}

// ResultText describes the outcome of a finished game.
func (g *Game) ResultText() string {
	switch g.board.Winner() {
	case board.Tie:
		return "tie"
	case board.Player0Wins:
		return "Winner is " + board.Player0.String()
	case board.Player1Wins:
		return "Winner is " + board.Player1.String()
	}
	return "game in progress"
}
