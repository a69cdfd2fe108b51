package turnplayer

import (
	"bufio"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/config"
)

// PlayersFromConfig builds both sides from the player0 and player1
// settings. Two human sides take turns reading lines from in.
func PlayersFromConfig(cfg *config.Config, in io.Reader, out io.Writer) ([2]TurnPlayer, error) {
	var players [2]TurnPlayer
	var scanner *bufio.Scanner
	if in != nil {
		scanner = bufio.NewScanner(in)
	}
	for i, key := range []string{config.ConfigPlayer0, config.ConfigPlayer1} {
		p, err := FromSpec(cfg.GetString(key), cfg, uint64(i), scanner, out)
		if err != nil {
			return players, err
		}
		log.Info().Str("side", board.Player(i).String()).Str("player", p.Name()).Msg("using player")
		players[i] = p
	}
	return players, nil
}
