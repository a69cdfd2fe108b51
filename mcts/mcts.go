// Package mcts implements a Monte-Carlo Tree Search move finder for
// Reversi. Each iteration walks down the tree with the UCB1 rule, expands
// one new node, estimates its value with random rollouts, and backs the
// result up to the root. The final move is picked by the same rule with no
// exploration term.
//
// A Solver is single-threaded and owns both its tree and its random
// source, so independent solvers can run concurrently without sharing
// anything.
package mcts

import (
	"encoding/binary"
	"math"
	"sort"
	"time"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/move"
)

const (
	DefaultIterations      = 10000
	DefaultRolloutsPerLeaf = 10
)

// DefaultExploration is the UCB1 exploration constant, 1/sqrt(2).
var DefaultExploration = 1 / math.Sqrt2

// rough per-node cost, board and statistics plus a small child map
const approxNodeBytes = 128

// Solver implements the MCTS algorithm.
type Solver struct {
	nodes []node
	rng   *frand.RNG

	rolloutsPerLeaf int
	rollouts        int
	candidates      []move.Move
}

// MoveStat summarizes one root candidate after a search.
type MoveStat struct {
	Move   move.Move
	Visits int
	// Value is the mean backed-up outcome from the point of view of the
	// player on turn at the root, in [-1, 1].
	Value float64
}

// SeededRNG returns a deterministic random source for seed. A seed of 0
// returns a source seeded from system entropy.
func SeededRNG(seed uint64) *frand.RNG {
	if seed == 0 {
		return frand.New()
	}
	s := make([]byte, 32)
	binary.LittleEndian.PutUint64(s, seed)
	return frand.NewCustom(s, 1024, 12)
}

// NewSolver creates a solver rooted at a copy of b with who to move. The
// solver owns rng; it must not be shared with another concurrent solver.
func NewSolver(b board.Board, who board.Player, rng *frand.RNG) *Solver {
	s := &Solver{
		rng:             rng,
		rolloutsPerLeaf: DefaultRolloutsPerLeaf,
		candidates:      make([]move.Move, 0, board.NumSquares),
	}
	s.nodes = append(s.nodes, node{board: b, who: who, parent: noParent})
	return s
}

// SetRolloutsPerLeaf sets how many random games are averaged to value a
// newly expanded node.
func (s *Solver) SetRolloutsPerLeaf(n int) {
	if n < 1 {
		n = 1
	}
	s.rolloutsPerLeaf = n
}

// Nodes returns the number of nodes in the tree.
func (s *Solver) Nodes() int {
	return len(s.nodes)
}

// Visits returns the visit count of the root.
func (s *Solver) Visits() int {
	return int(s.nodes[0].n)
}

// Rollouts returns the number of random games played so far.
func (s *Solver) Rollouts() int {
	return s.rollouts
}

// Search runs the given number of iterations with exploration constant c
// and returns the recommended move, or move.Pass if the player on turn at
// the root has no placement.
func (s *Solver) Search(iterations int, c float64) move.Move {
	tstart := time.Now()
	est := uint64(len(s.nodes)+iterations) * approxNodeBytes
	if total := memory.TotalMemory(); total > 0 && est > total/2 {
		log.Warn().Uint64("estimated-tree-bytes", est).
			Uint64("total-system-memory-bytes", total).
			Msg("mcts-tree-may-exhaust-memory")
	}
	for i := 0; i < iterations; i++ {
		s.RunOnce(c)
	}
	best := s.Recommend()
	log.Debug().
		Int("iterations", iterations).
		Int("nodes", len(s.nodes)).
		Int("rollouts", s.rollouts).
		Str("move", best.String()).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Msg("mcts-search-done")
	return best
}

// Recommend picks the root move by mean value alone.
func (s *Solver) Recommend() move.Move {
	m, ok := s.Select(0, 0)
	if !ok {
		return move.Pass
	}
	return m
}

// RunOnce performs a single selection, expansion, rollout and backup.
func (s *Solver) RunOnce(c float64) {
	idx := int32(0)
	for {
		m, ok := s.Select(idx, c)
		if !ok {
			// Neither side can move; the outcome is known exactly.
			s.Backup(idx, s.outcome(s.nodes[idx].board, s.nodes[idx].who))
			return
		}
		child, created := s.Expand(idx, m)
		if created {
			s.Backup(child, s.Rollout(child))
			return
		}
		idx = child
	}
}

func (s *Solver) uct(parentN uint32, childIdx int32, exists bool, c float64) float64 {
	logN := 0.0
	if parentN > 0 {
		logN = math.Log(float64(parentN))
	}
	if !exists || s.nodes[childIdx].n == 0 {
		return c * math.Sqrt(2*logN)
	}
	child := &s.nodes[childIdx]
	return -child.mean() + c*math.Sqrt(2*logN/float64(child.n))
}

// Select returns the candidate at node idx with the best UCB1 score.
// Candidates are the legal placements, scanned in row-major order with the
// first one winning ties. If there are none, Pass is the only candidate,
// unless the opponent cannot move either, in which case the position is
// over and ok is false.
func (s *Solver) Select(idx int32, c float64) (m move.Move, ok bool) {
	nd := &s.nodes[idx]
	maxUCT := math.Inf(-1)
	found := false
	for x := 0; x < board.Dim; x++ {
		for y := 0; y < board.Dim; y++ {
			if !nd.board.Place(nd.who, x, y, nil) {
				continue
			}
			cand := move.New(x, y)
			childIdx, exists := nd.children[cand]
			uct := s.uct(nd.n, childIdx, exists, c)
			if uct > maxUCT {
				maxUCT = uct
				m = cand
				found = true
			}
		}
	}
	if found {
		return m, true
	}
	if nd.board.HasLegalMove(nd.who.Opponent()) {
		return move.Pass, true
	}
	return move.Pass, false
}

// Expand creates the child of node idx reached by m. It returns the index
// of the child and whether it was newly created; expanding a slot that is
// already populated returns the existing child. An illegal placement
// returns -1.
func (s *Solver) Expand(idx int32, m move.Move) (int32, bool) {
	if childIdx, exists := s.nodes[idx].children[m]; exists {
		return childIdx, false
	}
	parent := s.nodes[idx]
	after, legal := parent.board.Play(parent.who, m)
	if !legal {
		return -1, false
	}
	childIdx := int32(len(s.nodes))
	// append may move the arena; only touch parent through the slice below.
	s.nodes = append(s.nodes, node{board: after, who: parent.who.Opponent(), parent: idx})
	if s.nodes[idx].children == nil {
		s.nodes[idx].children = make(map[move.Move]int32)
	}
	s.nodes[idx].children[m] = childIdx
	return childIdx, true
}

// Backup adds delta to node idx and every ancestor, flipping its sign at
// each ply since consecutive nodes are seen from opposite sides.
func (s *Solver) Backup(idx int32, delta float64) {
	for idx != noParent {
		nd := &s.nodes[idx]
		nd.n++
		nd.sigmaQ += delta
		idx = nd.parent
		delta = -delta
	}
}

// Rollout plays random games from node idx and returns their mean outcome
// from the point of view of the node's player on turn.
func (s *Solver) Rollout(idx int32) float64 {
	nd := s.nodes[idx]
	total := 0.0
	for i := 0; i < s.rolloutsPerLeaf; i++ {
		total += s.simulateOnce(nd.board, nd.who)
	}
	return total / float64(s.rolloutsPerLeaf)
}

// simulateOnce plays uniformly random legal moves until neither side can
// move, passing whenever the mover has no placement.
func (s *Solver) simulateOnce(b board.Board, who board.Player) float64 {
	s.rollouts++
	player := who
	passes := 0
	for passes < 2 {
		s.candidates = s.candidates[:0]
		for x := 0; x < board.Dim; x++ {
			for y := 0; y < board.Dim; y++ {
				if b.Place(player, x, y, nil) {
					s.candidates = append(s.candidates, move.New(x, y))
				}
			}
		}
		if len(s.candidates) > 0 {
			m := s.candidates[s.rng.Intn(len(s.candidates))]
			b.Place(player, int(m.X), int(m.Y), &b)
			passes = 0
		} else {
			passes++
		}
		player = player.Opponent()
	}
	return s.outcome(b, who)
}

// outcome scores a finished board: 1 if who has more stones, -1 if fewer,
// 0 for a tie.
func (s *Solver) outcome(b board.Board, who board.Player) float64 {
	d := b.Differential(who)
	switch {
	case d > 0:
		return 1
	case d < 0:
		return -1
	}
	return 0
}

// RootStats returns the root's expanded children, most visited first.
func (s *Solver) RootStats() []MoveStat {
	root := s.nodes[0]
	st := lo.MapToSlice(root.children, func(m move.Move, idx int32) MoveStat {
		child := s.nodes[idx]
		return MoveStat{Move: m, Visits: int(child.n), Value: -child.mean()}
	})
	sort.Slice(st, func(i, j int) bool {
		if st[i].Visits != st[j].Visits {
			return st[i].Visits > st[j].Visits
		}
		return st[i].Move.Index() < st[j].Move.Index()
	})
	return st
}
