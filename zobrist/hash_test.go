package zobrist

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/move"
)

func TestAddMoveMatchesHash(t *testing.T) {
	is := is.New(t)
	z := &Zobrist{}
	z.Initialize()

	b := board.NewBoard()
	h := z.Hash(b, board.Player0)
	after, ok := b.Play(board.Player0, move.New(2, 3))
	is.True(ok)
	h1 := z.AddMove(h, b, after)
	is.Equal(h1, z.Hash(after, board.Player1))

	// and back again
	h2 := z.AddMove(h1, after, b)
	is.Equal(h2, h)
}

func TestPassOnlyFlipsTurn(t *testing.T) {
	is := is.New(t)
	z := &Zobrist{}
	z.Initialize()

	b := board.MustParseBPS(board.PassForX)
	h := z.Hash(b, board.Player0)
	h1 := z.AddMove(h, b, b)
	is.True(h != h1) // extremely unlikely to collide
	is.Equal(h1, z.Hash(b, board.Player1))
}

func TestDistinctPositions(t *testing.T) {
	is := is.New(t)
	z := &Zobrist{}
	z.Initialize()
	b := board.NewBoard()
	seen := map[uint64]bool{}
	for _, m := range b.LegalMoves(board.Player0) {
		after, _ := b.Play(board.Player0, m)
		seen[z.Hash(after, board.Player1)] = true
	}
	is.Equal(len(seen), 4)
}
