// Package minimax implements a depth-limited negamax search for Reversi
// with alpha pruning. The static evaluation is the stone differential from
// the point of view of the player on turn.
//
// Each node remembers the value computed for it during the current Search
// call. The root move is the first child, in row-major order, whose negated
// value reproduces the root value.
package minimax

import (
	"io"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/move"
)

const DefaultDepth = 8

// negInf stays far enough from the int limits that it can be negated.
const negInf = math.MinInt32

type node struct {
	board    board.Board
	who      board.Player
	children map[move.Move]int32

	value int
	// epoch is the Search call that last wrote value.
	epoch int
}

// Solver is a minimax tree rooted at a fixed position.
type Solver struct {
	nodes []node
	epoch int

	pruningDisabled bool
	logStream       io.Writer

	nodesSearched int
	cutoffs       int
	lastDepth     int
}

// NewSolver creates a solver rooted at a copy of b with who to move.
func NewSolver(b board.Board, who board.Player) *Solver {
	return &Solver{nodes: []node{{board: b, who: who}}}
}

// SetPruningDisabled turns off the alpha cutoff. The chosen move and root
// value do not change; only the number of nodes searched does.
func (s *Solver) SetPruningDisabled(d bool) {
	s.pruningDisabled = d
}

// SetLogStream makes every Search write a YAML summary to w.
func (s *Solver) SetLogStream(w io.Writer) {
	s.logStream = w
}

// NodesSearched returns how many nodes the last Search visited.
func (s *Solver) NodesSearched() int {
	return s.nodesSearched
}

// Cutoffs returns how many nodes were cut off during the last Search.
func (s *Solver) Cutoffs() int {
	return s.cutoffs
}

// Value returns the root value computed by the last Search.
func (s *Solver) Value() int {
	return s.nodes[0].value
}

// Search evaluates the root to the given depth and returns the best move,
// or move.Pass if the player on turn has no placement.
func (s *Solver) Search(depth int) move.Move {
	tstart := time.Now()
	s.epoch++
	s.nodesSearched = 0
	s.cutoffs = 0
	s.lastDepth = depth
	rootValue := s.search(0, depth, negInf, false)

	best := move.Pass
	for x := 0; x < board.Dim && best.IsPass(); x++ {
		for y := 0; y < board.Dim; y++ {
			m := move.New(x, y)
			cidx, ok := s.nodes[0].children[m]
			if !ok || s.nodes[cidx].epoch != s.epoch {
				continue
			}
			if rootValue == -s.nodes[cidx].value {
				best = m
				break
			}
		}
	}

	log.Debug().
		Int("depth", depth).
		Int("value", rootValue).
		Str("move", best.String()).
		Int("nodes-searched", s.nodesSearched).
		Int("cutoffs", s.cutoffs).
		Bool("pruning-disabled", s.pruningDisabled).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Msg("minimax-search-done")

	if s.logStream != nil {
		if err := s.writeTrace(best); err != nil {
			log.Err(err).Msg("minimax-trace-write-failed")
		}
	}
	return best
}

// child returns the child of idx reached by m, creating it once.
func (s *Solver) child(idx int32, m move.Move, b board.Board) int32 {
	if cidx, ok := s.nodes[idx].children[m]; ok {
		return cidx
	}
	cidx := int32(len(s.nodes))
	s.nodes = append(s.nodes, node{board: b, who: s.nodes[idx].who.Opponent()})
	if s.nodes[idx].children == nil {
		s.nodes[idx].children = make(map[move.Move]int32)
	}
	s.nodes[idx].children[m] = cidx
	return cidx
}

func (s *Solver) store(idx int32, v int) int {
	s.nodes[idx].value = v
	s.nodes[idx].epoch = s.epoch
	return v
}

// search returns the value of node idx from the point of view of its
// player on turn. alpha is the best value the parent has found so far; as
// soon as this node is certain to be no better for the parent, it returns
// its current value (a bound, not an exact value). skip is true if the
// parent was a pass, so that a second consecutive pass ends the game.
func (s *Solver) search(idx int32, depth int, alpha int, skip bool) int {
	s.nodesSearched++
	nb, who := s.nodes[idx].board, s.nodes[idx].who
	if depth <= 0 {
		return s.store(idx, nb.Differential(who))
	}
	value := negInf
	hasChild := false
	var out board.Board
	for x := 0; x < board.Dim; x++ {
		for y := 0; y < board.Dim; y++ {
			if !nb.Place(who, x, y, &out) {
				continue
			}
			hasChild = true
			cidx := s.child(idx, move.New(x, y), out)
			cv := s.search(cidx, depth-1, value, false)
			value = max(value, -cv)
			if !s.pruningDisabled && -value < alpha {
				s.cutoffs++
				return s.store(idx, value)
			}
		}
	}
	if hasChild {
		return s.store(idx, value)
	}
	if skip {
		return s.store(idx, nb.Differential(who))
	}
	// A forced pass does not use up depth.
	cidx := s.child(idx, move.Pass, nb)
	cv := s.search(cidx, depth, value, true)
	value = max(value, -cv)
	return s.store(idx, value)
}

// PrincipalVariation follows, from the root, the first child whose value
// reproduces its parent's, including passes. It stops at a leaf or at a
// node whose value came from the static evaluation.
func (s *Solver) PrincipalVariation() []move.Move {
	var pv []move.Move
	idx := int32(0)
	for {
		next, m, ok := s.bestChild(idx)
		if !ok {
			return pv
		}
		pv = append(pv, m)
		idx = next
	}
}

func (s *Solver) bestChild(idx int32) (int32, move.Move, bool) {
	nd := &s.nodes[idx]
	if nd.epoch != s.epoch {
		return 0, move.Pass, false
	}
	for x := 0; x < board.Dim; x++ {
		for y := 0; y < board.Dim; y++ {
			m := move.New(x, y)
			if cidx, ok := nd.children[m]; ok && s.nodes[cidx].epoch == s.epoch &&
				nd.value == -s.nodes[cidx].value {
				return cidx, m, true
			}
		}
	}
	if cidx, ok := nd.children[move.Pass]; ok && s.nodes[cidx].epoch == s.epoch &&
		nd.value == -s.nodes[cidx].value {
		return cidx, move.Pass, true
	}
	return 0, move.Pass, false
}

type playTrace struct {
	Play  string `yaml:"play"`
	Value int    `yaml:"value"`
}

type searchTrace struct {
	Depth   int         `yaml:"depth"`
	Player  string      `yaml:"player"`
	Value   int         `yaml:"value"`
	Best    string      `yaml:"best"`
	Nodes   int         `yaml:"nodes"`
	Cutoffs int         `yaml:"cutoffs"`
	Plays   []playTrace `yaml:"plays"`
	PV      []string    `yaml:"pv"`
}

func (s *Solver) writeTrace(best move.Move) error {
	root := s.nodes[0]
	tr := searchTrace{
		Depth:   s.lastDepth,
		Player:  root.who.String(),
		Value:   root.value,
		Best:    best.String(),
		Nodes:   s.nodesSearched,
		Cutoffs: s.cutoffs,
	}
	for i := 0; i < board.NumSquares; i++ {
		m := move.FromIndex(i)
		if cidx, ok := root.children[m]; ok && s.nodes[cidx].epoch == s.epoch {
			tr.Plays = append(tr.Plays, playTrace{Play: m.String(), Value: -s.nodes[cidx].value})
		}
	}
	if cidx, ok := root.children[move.Pass]; ok && s.nodes[cidx].epoch == s.epoch {
		tr.Plays = append(tr.Plays, playTrace{Play: move.Pass.String(), Value: -s.nodes[cidx].value})
	}
	for _, m := range s.PrincipalVariation() {
		tr.PV = append(tr.PV, m.String())
	}
	enc := yaml.NewEncoder(s.logStream)
	defer enc.Close()
	return enc.Encode([]searchTrace{tr})
}
