// Package automatic plays computer vs computer games in bulk, logs every
// turn to a CSV file and summarizes the results.
package automatic

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/config"
	"github.com/domino14/reversi/game"
	"github.com/domino14/reversi/turnplayer"
)

var ErrHumanPlayer = errors.New("automatic games cannot have a human player")

// GameRunner is the master struct here for the automatic game logic. Each
// runner owns its players, so one runner must stay on one goroutine.
type GameRunner struct {
	config  *config.Config
	logchan chan<- []string
	players [2]turnplayer.TurnPlayer
}

// NewGameRunner builds both players from the config. salt keeps the random
// streams of different runners apart when a fixed seed is configured.
func NewGameRunner(logchan chan<- []string, cfg *config.Config, salt uint64) (*GameRunner, error) {
	r := &GameRunner{logchan: logchan, config: cfg}
	for i, key := range []string{config.ConfigPlayer0, config.ConfigPlayer1} {
		p, err := turnplayer.FromSpec(cfg.GetString(key), cfg, salt*2+uint64(i), nil, io.Discard)
		if err != nil {
			return nil, err
		}
		if _, ok := p.(*turnplayer.HumanPlayer); ok {
			return nil, ErrHumanPlayer
		}
		r.players[i] = p
	}
	return r, nil
}

// PlayGame plays one game from the opening to the end.
func (r *GameRunner) PlayGame(ctx context.Context) (*game.Game, error) {
	g := game.NewGame(r.players)
	err := g.PlayToEnd(ctx, func(t game.Turn) {
		if r.logchan == nil {
			return
		}
		r.logchan <- []string{
			g.ID(),
			strconv.Itoa(t.Number),
			t.Player,
			t.Engine,
			t.Move,
			strconv.Itoa(t.Discs[0]),
			strconv.Itoa(t.Discs[1]),
		}
	})
	if err != nil {
		return g, err
	}
	if r.logchan != nil {
		final := g.Board()
		r.logchan <- []string{
			g.ID(),
			strconv.Itoa(len(g.History())),
			"-",
			endOfGame,
			g.Winner().String(),
			strconv.Itoa(final.Count(board.Player0)),
			strconv.Itoa(final.Count(board.Player1)),
		}
	}
	log.Debug().Str("gameID", g.ID()).Str("result", g.ResultText()).Msg("automatic-game-over")
	return g, nil
}
