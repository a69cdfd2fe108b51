package turnplayer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/domino14/reversi/config"
)

var (
	ErrUnknownPlayer = errors.New("unknown player type")
	ErrBadDepth      = errors.New("minimax player depth must be at least 1")
)

// FromSpec builds a player from a short description:
//
//	human
//	random
//	minimax[:depth]
//	mcts[:iterations]
//
// Missing parameters come from cfg. Seeds are offset by salt so two
// players built from the same config do not share a random stream.
// Human players read from in.
func FromSpec(spec string, cfg *config.Config, salt uint64, in *bufio.Scanner, out io.Writer) (TurnPlayer, error) {
	kind, param, hasParam := strings.Cut(strings.ToLower(strings.TrimSpace(spec)), ":")
	var n int
	if hasParam {
		var err error
		n, err = strconv.Atoi(param)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("bad parameter %q for %s", param, kind)
		}
	}
	seed := cfg.GetUint64(config.ConfigSeed)
	if seed != 0 {
		seed += salt
	}
	switch kind {
	case "human":
		return NewHumanPlayer(in, out), nil
	case "random":
		return NewRandomPlayer(seed), nil
	case "minimax":
		if !hasParam {
			n = cfg.GetInt(config.ConfigMinimaxDepth)
		}
		// a depth 0 search never places a stone
		if n < 1 {
			return nil, fmt.Errorf("%w: %d", ErrBadDepth, n)
		}
		return NewMinimaxPlayer(n), nil
	case "mcts":
		if !hasParam {
			n = cfg.GetInt(config.ConfigMCTSIterations)
		}
		return NewMCTSPlayer(n, cfg.GetFloat64(config.ConfigMCTSExploration),
			cfg.GetInt(config.ConfigMCTSRolloutsPerLeaf), seed), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPlayer, spec)
}
