package turnplayer

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/config"
	"github.com/domino14/reversi/move"
)

func TestHumanPlayerRepromptsUntilLegal(t *testing.T) {
	is := is.New(t)
	var out strings.Builder
	p := NewHumanPlayer(bufio.NewScanner(strings.NewReader("9 9\nfoo\npass\n0 0\n2 3\n")), &out)
	b := board.NewBoard()
	after, m, err := p.Move(board.Player0, b)
	is.NoErr(err)
	is.Equal(m, move.New(2, 3))
	expected, _ := b.Play(board.Player0, m)
	is.Equal(after, expected)
	is.True(strings.Contains(out.String(), "not a legal move"))
	is.True(strings.Contains(out.String(), "passing is not allowed"))
}

func TestHumanPlayerForcedPass(t *testing.T) {
	is := is.New(t)
	var out strings.Builder
	p := NewHumanPlayer(bufio.NewScanner(strings.NewReader("")), &out)
	b := board.MustParseBPS(board.PassForX)
	after, m, err := p.Move(board.Player0, b)
	is.NoErr(err)
	is.True(m.IsPass())
	is.Equal(after, b)
	is.True(strings.Contains(out.String(), "Skipping"))
}

func TestHumanPlayerEOF(t *testing.T) {
	is := is.New(t)
	p := NewHumanPlayer(bufio.NewScanner(strings.NewReader("3 3\n")), io.Discard)
	_, _, err := p.Move(board.Player0, board.NewBoard())
	is.True(errors.Is(err, io.ErrUnexpectedEOF))
}

func TestIntegrityError(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()

	_, err := applyRecommendation("test", board.Player0, b, move.New(0, 0))
	is.True(errors.Is(err, ErrEngineIntegrity))
	var ie *IntegrityError
	is.True(errors.As(err, &ie))
	is.Equal(ie.Move, move.New(0, 0))
	is.Equal(ie.Engine, "test")

	// passing while a placement exists is just as illegal
	_, err = applyRecommendation("test", board.Player0, b, move.Pass)
	is.True(errors.Is(err, ErrEngineIntegrity))

	after, err := applyRecommendation("test", board.Player0, board.MustParseBPS(board.PassForX), move.Pass)
	is.NoErr(err)
	is.Equal(after, board.MustParseBPS(board.PassForX))
}

func TestEnginePlayersMakeLegalMoves(t *testing.T) {
	b := board.MustParseBPS(board.Midgame)
	players := []TurnPlayer{
		NewMinimaxPlayer(2),
		NewMCTSPlayer(200, 0.7, 2, 42),
		NewRandomPlayer(42),
	}
	legal := b.LegalMoves(board.Player0)
	for _, p := range players {
		t.Run(p.Name(), func(t *testing.T) {
			after, m, err := p.Move(board.Player0, b)
			assert.NoError(t, err)
			assert.Contains(t, legal, m)
			expected, ok := b.Play(board.Player0, m)
			assert.True(t, ok)
			assert.Equal(t, expected, after)
		})
	}
}

func TestMinimaxPlayerOpening(t *testing.T) {
	is := is.New(t)
	_, m, err := NewMinimaxPlayer(1).Move(board.Player0, board.NewBoard())
	is.NoErr(err)
	is.Equal(m, move.New(2, 3))
}

func TestEnginePlayersPass(t *testing.T) {
	b := board.MustParseBPS(board.PassForX)
	for _, p := range []TurnPlayer{NewMinimaxPlayer(3), NewMCTSPlayer(50, 0.7, 1, 1), NewRandomPlayer(1)} {
		after, m, err := p.Move(board.Player0, b)
		assert.NoError(t, err, p.Name())
		assert.True(t, m.IsPass(), p.Name())
		assert.Equal(t, b, after, p.Name())
	}
}

func TestFromSpec(t *testing.T) {
	cfg := config.DefaultConfig()
	cases := []struct {
		spec string
		name string
	}{
		{"minimax:3", "minimax:3"},
		{"minimax", "minimax:8"},
		{"MCTS:500", "mcts:500"},
		{"mcts", "mcts:10000"},
		{"random", "random"},
		{" human ", "human"},
	}
	for _, c := range cases {
		p, err := FromSpec(c.spec, cfg, 0, bufio.NewScanner(strings.NewReader("")), io.Discard)
		assert.NoError(t, err, c.spec)
		assert.Equal(t, c.name, p.Name())
	}

	_, err := FromSpec("alphazero", cfg, 0, nil, nil)
	assert.ErrorIs(t, err, ErrUnknownPlayer)
	_, err = FromSpec("minimax:deep", cfg, 0, nil, nil)
	assert.Error(t, err)
	_, err = FromSpec("minimax:0", cfg, 0, nil, nil)
	assert.ErrorIs(t, err, ErrBadDepth)
	cfg.Set(config.ConfigMinimaxDepth, 0)
	_, err = FromSpec("minimax", cfg, 0, nil, nil)
	assert.ErrorIs(t, err, ErrBadDepth)
}

func TestPlayersFromConfig(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigPlayer0, "random")
	cfg.Set(config.ConfigPlayer1, "minimax:2")
	players, err := PlayersFromConfig(cfg, nil, nil)
	is.NoErr(err)
	is.Equal(players[0].Name(), "random")
	is.Equal(players[1].Name(), "minimax:2")
}

func TestHumanPlayersShareInput(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigPlayer0, "human")
	cfg.Set(config.ConfigPlayer1, "human")
	players, err := PlayersFromConfig(cfg, strings.NewReader("2 3\n2 2\n2 1\n"), io.Discard)
	is.NoErr(err)

	b := board.NewBoard()
	who := board.Player0
	expected := []move.Move{move.New(2, 3), move.New(2, 2), move.New(2, 1)}
	for _, want := range expected {
		var m move.Move
		b, m, err = players[who].Move(who, b)
		is.NoErr(err)
		is.Equal(m, want)
		who = who.Opponent()
	}
	_, _, err = players[who].Move(who, b)
	is.True(errors.Is(err, io.ErrUnexpectedEOF))
}
