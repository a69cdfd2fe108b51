package mcts

import (
	"math"
	"os"
	"sync"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/move"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func checkTree(is *is.I, s *Solver) {
	for idx := range s.nodes {
		nd := &s.nodes[idx]
		if nd.n == 0 {
			is.Equal(nd.sigmaQ, 0.0)
		}
		is.True(math.Abs(nd.sigmaQ) <= float64(nd.n)+1e-9)
		if nd.terminal() {
			continue
		}
		childSum := uint32(0)
		for m, cidx := range nd.children {
			child := &s.nodes[cidx]
			is.Equal(child.parent, int32(idx))
			is.Equal(child.who, nd.who.Opponent())
			expected, ok := nd.board.Play(nd.who, m)
			is.True(ok)
			is.Equal(child.board, expected)
			childSum += child.n
		}
		if idx == 0 {
			is.Equal(nd.n, childSum)
		} else {
			// one visit for the node's own rollout
			is.Equal(nd.n, childSum+1)
		}
	}
}

func TestSelectFreshNodeTakesFirstCandidate(t *testing.T) {
	is := is.New(t)
	s := NewSolver(board.NewBoard(), board.Player0, SeededRNG(1))
	m, ok := s.Select(0, DefaultExploration)
	is.True(ok)
	is.Equal(m, move.New(2, 3))
	m, ok = s.Select(0, 0)
	is.True(ok)
	is.Equal(m, move.New(2, 3))
}

func TestExpandIdempotent(t *testing.T) {
	is := is.New(t)
	s := NewSolver(board.NewBoard(), board.Player0, SeededRNG(1))
	c1, created := s.Expand(0, move.New(2, 3))
	is.True(created)
	c2, created := s.Expand(0, move.New(2, 3))
	is.True(!created)
	is.Equal(c1, c2)
	is.Equal(s.Nodes(), 2)
	is.Equal(s.nodes[c1].who, board.Player1)

	bad, created := s.Expand(0, move.New(0, 0))
	is.True(!created)
	is.Equal(bad, int32(-1))
}

func TestBackupAlternatesSign(t *testing.T) {
	is := is.New(t)
	s := NewSolver(board.NewBoard(), board.Player0, SeededRNG(1))
	c1, _ := s.Expand(0, move.New(2, 3))
	m, ok := s.Select(c1, DefaultExploration)
	is.True(ok)
	c2, _ := s.Expand(c1, m)
	s.Backup(c2, 1)
	is.Equal(s.nodes[c2].sigmaQ, 1.0)
	is.Equal(s.nodes[c1].sigmaQ, -1.0)
	is.Equal(s.nodes[0].sigmaQ, 1.0)
	for _, idx := range []int32{0, c1, c2} {
		is.Equal(s.nodes[idx].n, uint32(1))
	}
}

func TestSearchInvariants(t *testing.T) {
	is := is.New(t)
	s := NewSolver(board.MustParseBPS(board.Midgame), board.Player0, SeededRNG(99))
	s.SetRolloutsPerLeaf(2)
	best := s.Search(500, DefaultExploration)
	is.Equal(s.Visits(), 500)
	checkTree(is, s)

	var after board.Board
	is.True(board.MustParseBPS(board.Midgame).Place(board.Player0, int(best.X), int(best.Y), &after))

	stats := s.RootStats()
	is.True(len(stats) <= len(board.MustParseBPS(board.Midgame).LegalMoves(board.Player0)))
	total := 0
	for i, st := range stats {
		total += st.Visits
		is.True(st.Value >= -1 && st.Value <= 1)
		if i > 0 {
			is.True(stats[i-1].Visits >= st.Visits)
		}
	}
	is.Equal(total, 500)
}

func TestSearchDeterministicWithSeed(t *testing.T) {
	is := is.New(t)
	run := func() (move.Move, []MoveStat) {
		s := NewSolver(board.NewBoard(), board.Player0, SeededRNG(12345))
		m := s.Search(300, DefaultExploration)
		return m, s.RootStats()
	}
	m1, st1 := run()
	m2, st2 := run()
	is.Equal(m1, m2)
	is.Equal(st1, st2)
}

func TestForcedPass(t *testing.T) {
	is := is.New(t)
	b := board.MustParseBPS(board.PassForX)
	s := NewSolver(b, board.Player0, SeededRNG(3))
	m, ok := s.Select(0, DefaultExploration)
	is.True(ok)
	is.Equal(m, move.Pass)

	best := s.Search(50, DefaultExploration)
	is.Equal(best, move.Pass)
	passIdx, exists := s.nodes[0].children[move.Pass]
	is.True(exists)
	is.Equal(len(s.nodes[0].children), 1)
	pass := s.nodes[passIdx]
	is.Equal(pass.board, b)
	is.Equal(pass.who, board.Player1)
	// o's only move wins on the spot, so x loses every game.
	is.Equal(s.nodes[0].mean(), -1.0)
	checkTree(is, s)
}

func TestTerminalRoot(t *testing.T) {
	is := is.New(t)
	s := NewSolver(board.MustParseBPS(board.FullTie), board.Player1, SeededRNG(3))
	_, ok := s.Select(0, DefaultExploration)
	is.True(!ok)
	is.Equal(s.Search(10, DefaultExploration), move.Pass)
	is.Equal(s.Nodes(), 1)
	is.Equal(s.Visits(), 10)
	is.Equal(s.nodes[0].sigmaQ, 0.0)
	is.Equal(s.Rollouts(), 0)
}

func TestFindsWinningMove(t *testing.T) {
	is := is.New(t)
	// o to move. (3,5) captures both x stones and ends the game; (4,4)
	// captures one and lets x fight back.
	b := board.MustParseBPS("......../......../..o...../..oxx.../......../......../......../........")
	is.Equal(b.LegalMoves(board.Player1), []move.Move{move.New(3, 5), move.New(4, 4)})
	s := NewSolver(b, board.Player1, SeededRNG(8))
	best := s.Search(500, DefaultExploration)
	is.Equal(best, move.New(3, 5))
	after, ok := b.Play(board.Player1, best)
	is.True(ok)
	is.Equal(after.Count(board.Player0), 0)
	for _, st := range s.RootStats() {
		if st.Move == best {
			is.Equal(st.Value, 1.0)
		}
	}
}

func TestConcurrentSolvers(t *testing.T) {
	is := is.New(t)
	var wg sync.WaitGroup
	results := make([]move.Move, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := NewSolver(board.NewBoard(), board.Player0, SeededRNG(uint64(i+1)))
			s.SetRolloutsPerLeaf(1)
			results[i] = s.Search(200, DefaultExploration)
		}(i)
	}
	wg.Wait()
	legal := board.NewBoard().LegalMoves(board.Player0)
	for _, m := range results {
		is.True(m.OnBoard())
		found := false
		for _, l := range legal {
			found = found || l == m
		}
		is.True(found)
	}
}

func BenchmarkSearch(b *testing.B) {
	for i := 0; i < b.N; i++ {
		s := NewSolver(board.NewBoard(), board.Player0, SeededRNG(uint64(i+1)))
		s.Search(1000, DefaultExploration)
	}
}
