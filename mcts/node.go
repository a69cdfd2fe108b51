package mcts

import (
	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/move"
)

const noParent = -1

// node is a position in the search tree. Nodes live in the solver's arena
// and refer to each other by index; parent is only used to walk statistics
// back up to the root.
type node struct {
	board  board.Board
	who    board.Player
	parent int32
	// children is keyed by the move that leads to the child, including
	// move.Pass. It is allocated on first expansion.
	children map[move.Move]int32

	n      uint32
	sigmaQ float64
}

func (n *node) mean() float64 {
	if n.n == 0 {
		return 0
	}
	return n.sigmaQ / float64(n.n)
}

// terminal returns true if neither player can place a stone.
func (n *node) terminal() bool {
	return !n.board.HasLegalMove(n.who) && !n.board.HasLegalMove(n.who.Opponent())
}
