package turnplayer

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/mcts"
	"github.com/domino14/reversi/minimax"
	"github.com/domino14/reversi/move"
)

// MinimaxPlayer builds a fresh alpha-beta tree for every turn.
type MinimaxPlayer struct {
	Depth     int
	LogStream io.Writer
}

func NewMinimaxPlayer(depth int) *MinimaxPlayer {
	return &MinimaxPlayer{Depth: depth}
}

func (p *MinimaxPlayer) Name() string {
	return fmt.Sprintf("minimax:%d", p.Depth)
}

func (p *MinimaxPlayer) Move(who board.Player, b board.Board) (board.Board, move.Move, error) {
	s := minimax.NewSolver(b, who)
	if p.LogStream != nil {
		s.SetLogStream(p.LogStream)
	}
	m := s.Search(p.Depth)
	log.Debug().Str("player", who.String()).Str("move", m.String()).
		Int("value", s.Value()).Msg("minimax-move")
	after, err := applyRecommendation(p.Name(), who, b, m)
	return after, m, err
}

// MCTSPlayer builds a fresh search tree for every turn. Its RNG persists
// across turns, so a player must not be shared between goroutines.
type MCTSPlayer struct {
	Iterations      int
	Exploration     float64
	RolloutsPerLeaf int
	rng             *frand.RNG
}

func NewMCTSPlayer(iterations int, exploration float64, rolloutsPerLeaf int, seed uint64) *MCTSPlayer {
	return &MCTSPlayer{
		Iterations:      iterations,
		Exploration:     exploration,
		RolloutsPerLeaf: rolloutsPerLeaf,
		rng:             mcts.SeededRNG(seed),
	}
}

func (p *MCTSPlayer) Name() string {
	return fmt.Sprintf("mcts:%d", p.Iterations)
}

func (p *MCTSPlayer) Move(who board.Player, b board.Board) (board.Board, move.Move, error) {
	s := mcts.NewSolver(b, who, p.rng)
	if p.RolloutsPerLeaf > 0 {
		s.SetRolloutsPerLeaf(p.RolloutsPerLeaf)
	}
	m := s.Search(p.Iterations, p.Exploration)
	log.Debug().Str("player", who.String()).Str("move", m.String()).
		Int("nodes", s.Nodes()).Msg("mcts-move")
	after, err := applyRecommendation(p.Name(), who, b, m)
	return after, m, err
}

// RandomPlayer picks uniformly among the legal placements.
type RandomPlayer struct {
	rng *frand.RNG
}

func NewRandomPlayer(seed uint64) *RandomPlayer {
	return &RandomPlayer{rng: mcts.SeededRNG(seed)}
}

func (p *RandomPlayer) Name() string {
	return "random"
}

func (p *RandomPlayer) Move(who board.Player, b board.Board) (board.Board, move.Move, error) {
	moves := b.LegalMoves(who)
	if len(moves) == 0 {
		return b, move.Pass, nil
	}
	m := moves[p.rng.Intn(len(moves))]
	after, err := applyRecommendation(p.Name(), who, b, m)
	return after, m, err
}
