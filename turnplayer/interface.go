package turnplayer

import (
	"errors"
	"fmt"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/move"
)

// TurnPlayer encapsulates everything needed to take a single turn: given
// the side to move and the live board, return the board after the move.
type TurnPlayer interface {
	Name() string
	Move(who board.Player, b board.Board) (board.Board, move.Move, error)
}

// ErrEngineIntegrity is wrapped by every IntegrityError.
var ErrEngineIntegrity = errors.New("engine recommended an illegal move")

// IntegrityError reports an engine recommendation that does not re-validate
// on the live board. The program cannot continue the game after one.
type IntegrityError struct {
	Engine string
	Player board.Player
	Move   move.Move
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s recommended %v for %v: %v", e.Engine, e.Move, e.Player, ErrEngineIntegrity)
}

func (e *IntegrityError) Unwrap() error {
	return ErrEngineIntegrity
}

// applyRecommendation re-validates an engine move against the live board.
// A pass is only legal when the side to move has no placements.
func applyRecommendation(engine string, who board.Player, b board.Board, m move.Move) (board.Board, error) {
	if m.IsPass() {
		if b.HasLegalMove(who) {
			return b, &IntegrityError{Engine: engine, Player: who, Move: m}
		}
		return b, nil
	}
	after, ok := b.Play(who, m)
	if !ok {
		return b, &IntegrityError{Engine: engine, Player: who, Move: m}
	}
	return after, nil
}
