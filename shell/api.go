package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/reversi/automatic"
	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/cache"
	"github.com/domino14/reversi/config"
	"github.com/domino14/reversi/game"
	"github.com/domino14/reversi/mcts"
	"github.com/domino14/reversi/minimax"
	"github.com/domino14/reversi/move"
	"github.com/domino14/reversi/turnplayer"
)

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) FloatDefault(key string, defaultF float64) (float64, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultF, nil
	}
	return strconv.ParseFloat(v[0], 64)
}

func (c CmdOptions) Bool(key string) bool {
	v := c[key]
	if len(v) == 0 {
		return false
	}
	return strings.ToLower(v[0]) == "true"
}

// newPlayer builds a player from a description. A human side gets no
// player; its moves are entered with `play`.
func (sc *ShellController) newPlayer(spec string, salt uint64) (turnplayer.TurnPlayer, error) {
	if strings.TrimSpace(strings.ToLower(spec)) == "human" {
		return nil, nil
	}
	return turnplayer.FromSpec(spec, sc.config, salt, nil, io.Discard)
}

func (sc *ShellController) players(cmd *shellcmd) ([2]turnplayer.TurnPlayer, error) {
	var players [2]turnplayer.TurnPlayer
	specs := [2]string{"human", sc.config.GetString(config.ConfigPlayer1)}
	if v := cmd.options.String("x"); v != "" {
		specs[0] = v
	}
	if v := cmd.options.String("o"); v != "" {
		specs[1] = v
	}
	for i, spec := range specs {
		p, err := sc.newPlayer(spec, uint64(i))
		if err != nil {
			return players, err
		}
		players[i] = p
	}
	return players, nil
}

// advance lets engines move while a human side is waiting for them.
func (sc *ShellController) advance() error {
	players := sc.game.Players()
	if players[0] != nil && players[1] != nil {
		return nil
	}
	for sc.game.Playing() && players[sc.game.PlayerOnTurn()] != nil {
		t, err := sc.game.PlayTurn()
		if err != nil {
			return err
		}
		sc.showMessage(fmt.Sprintf("%s (%s) played %s", t.Player, t.Engine, t.Move))
	}
	return nil
}

func (sc *ShellController) startGame(g *game.Game) (*Response, error) {
	sc.game = g
	if err := sc.advance(); err != nil {
		return nil, err
	}
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	players, err := sc.players(cmd)
	if err != nil {
		return nil, err
	}
	return sc.startGame(game.NewGame(players))
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) < 1 || len(cmd.args) > 2 {
		return nil, errors.New("usage: load <position> [x|o]")
	}
	b, err := board.ParseBPS(cmd.args[0])
	if err != nil {
		return nil, err
	}
	onturn := board.Player0
	if len(cmd.args) == 2 {
		onturn, err = board.ParsePlayer(cmd.args[1])
		if err != nil {
			return nil, err
		}
	}
	players, err := sc.players(cmd)
	if err != nil {
		return nil, err
	}
	return sc.startGame(game.NewGameFromPosition(players, b, onturn))
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	m, err := move.Parse(cmd.args)
	if err != nil {
		return nil, err
	}
	if _, err := sc.game.PlayMove(m); err != nil {
		return nil, err
	}
	if err := sc.advance(); err != nil {
		return nil, err
	}
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) aiplay(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	n := 1
	if len(cmd.args) > 0 {
		var err error
		n, err = strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	for i := 0; i < n && sc.game.Playing(); i++ {
		if sc.game.Players()[sc.game.PlayerOnTurn()] == nil {
			return nil, fmt.Errorf("%v is played by hand; use `play`", sc.game.PlayerOnTurn())
		}
		t, err := sc.game.PlayTurn()
		if err != nil {
			return nil, err
		}
		sc.showMessage(fmt.Sprintf("%s (%s) played %s", t.Player, t.Engine, t.Move))
	}
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) playout(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	players := sc.game.Players()
	for i, p := range players {
		if p == nil {
			return nil, fmt.Errorf("%v is played by hand; start a game with engines on both sides", board.Player(i))
		}
	}
	err := sc.game.PlayToEnd(context.Background(), func(t game.Turn) {
		sc.showMessage(fmt.Sprintf("%d. %s (%s) played %s", t.Number, t.Player, t.Engine, t.Move))
	})
	if err != nil {
		return nil, err
	}
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if err := sc.game.Undo(); err != nil {
		return nil, err
	}
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) minimaxAnalysis(depth int, noprune bool, trace string) (string, error) {
	b, onturn := sc.game.Board(), sc.game.PlayerOnTurn()
	key := fmt.Sprintf("minimax:%s:%v:%d:%v", b.ToBPS(), onturn, depth, noprune)
	compute := func(cfg *config.Config, key string) (interface{}, error) {
		s := minimax.NewSolver(b, onturn)
		s.SetPruningDisabled(noprune)
		var f *os.File
		if trace != "" {
			var err error
			f, err = os.Create(trace)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			s.SetLogStream(f)
		}
		best := s.Search(depth)
		pvs := lo.Map(s.PrincipalVariation(), func(m move.Move, _ int) string {
			return m.String()
		})
		return fmt.Sprintf("minimax depth %d: best %v, value %d\nPV: %s\nnodes %d, cutoffs %d",
			depth, best, s.Value(), strings.Join(pvs, " "), s.NodesSearched(), s.Cutoffs()), nil
	}
	if trace != "" {
		// a trace must be written, so never answer from the cache
		v, err := compute(sc.config, key)
		if err != nil {
			return "", err
		}
		return v.(string), nil
	}
	v, err := cache.Load(sc.config, key, compute)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (sc *ShellController) minimax(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	depth, err := cmd.options.IntDefault("depth", sc.config.GetInt(config.ConfigMinimaxDepth))
	if err != nil {
		return nil, err
	}
	if depth < 0 {
		return nil, errors.New("depth must not be negative")
	}
	out, err := sc.minimaxAnalysis(depth, cmd.options.Bool("noprune"), cmd.options.String("trace"))
	if err != nil {
		return nil, err
	}
	return msg(out), nil
}

func (sc *ShellController) mctsAnalysis(iterations int, c float64, rollouts int) string {
	rng := mcts.SeededRNG(sc.config.GetUint64(config.ConfigSeed))
	s := mcts.NewSolver(sc.game.Board(), sc.game.PlayerOnTurn(), rng)
	s.SetRolloutsPerLeaf(rollouts)
	best := s.Search(iterations, c)

	var sb strings.Builder
	fmt.Fprintf(&sb, "mcts %d iterations: best %v (%d nodes, %d rollouts)\n",
		iterations, best, s.Nodes(), s.Rollouts())
	sb.WriteString("     Move  Visits  Value\n")
	for i, st := range s.RootStats() {
		fmt.Fprintf(&sb, "%3d: %-5s %6d  %6.3f\n", i+1, st.Move, st.Visits, st.Value)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (sc *ShellController) mcts(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	iters, err := cmd.options.IntDefault("iterations", sc.config.GetInt(config.ConfigMCTSIterations))
	if err != nil {
		return nil, err
	}
	c, err := cmd.options.FloatDefault("c", sc.config.GetFloat64(config.ConfigMCTSExploration))
	if err != nil {
		return nil, err
	}
	rollouts, err := cmd.options.IntDefault("rollouts", sc.config.GetInt(config.ConfigMCTSRolloutsPerLeaf))
	if err != nil {
		return nil, err
	}
	if iters < 0 || rollouts < 1 {
		return nil, errors.New("iterations must not be negative and rollouts must be positive")
	}
	return msg(sc.mctsAnalysis(iters, c, rollouts)), nil
}

func (sc *ShellController) analyze(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	mm, err := sc.minimaxAnalysis(sc.config.GetInt(config.ConfigMinimaxDepth), false, "")
	if err != nil {
		return nil, err
	}
	mc := sc.mctsAnalysis(sc.config.GetInt(config.ConfigMCTSIterations),
		sc.config.GetFloat64(config.ConfigMCTSExploration),
		sc.config.GetInt(config.ConfigMCTSRolloutsPerLeaf))
	return msg(mm + "\n\n" + mc), nil
}

func (sc *ShellController) history(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	var sb strings.Builder
	for _, t := range sc.game.History() {
		fmt.Fprintf(&sb, "%3d. %s %-12s %-5s %2d-%d\n", t.Number, t.Player, t.Engine, t.Move, t.Discs[0], t.Discs[1])
	}
	if sb.Len() == 0 {
		return msg("No moves yet."), nil
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) export(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	out, err := sc.game.HistoryYAML()
	if err != nil {
		return nil, err
	}
	filename := cmd.options.String("file")
	if filename == "" {
		return msg(string(out)), nil
	}
	if err := os.WriteFile(filename, out, 0o644); err != nil {
		return nil, err
	}
	return msg("exported to " + filename), nil
}

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 2 && cmd.args[0] == "analyze" {
		s, err := automatic.AnalyzeLogFile(cmd.args[1])
		if err != nil {
			return nil, err
		}
		return msg(s.ToDisplayText()), nil
	}
	games, err := cmd.options.IntDefault("games", sc.config.GetInt(config.ConfigAutoplayGames))
	if err != nil {
		return nil, err
	}
	threads, err := cmd.options.IntDefault("threads", sc.config.GetInt(config.ConfigAutoplayThreads))
	if err != nil {
		return nil, err
	}
	filename := cmd.options.String("file")
	if filename == "" {
		filename = sc.config.GetString(config.ConfigAutoplayOutput)
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	log.Info().Int("games", games).Int("threads", threads).Str("file", filename).Msg("autoplay")
	summary, err := automatic.StartCompVCompGames(context.Background(), sc.config, games, threads, f)
	if err != nil {
		return nil, err
	}
	return msg(summary.ToDisplayText() + "\nTurns logged to " + filename), nil
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(strings.TrimRight(sc.config.ToDisplayText(), "\n")), nil
	}
	key := cmd.args[0]
	if !sc.config.IsKnown(key) {
		return nil, fmt.Errorf("no such setting: %s", key)
	}
	if len(cmd.args) == 1 {
		return msg(key + ": " + sc.config.GetString(key)), nil
	}
	sc.config.Set(key, cmd.args[1])
	// analyses depend on settings
	cache.Clear()
	return msg("set " + key + " to " + cmd.args[1]), nil
}

func (sc *ShellController) setConfig(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) < 2 {
		return nil, errors.New("usage: setconfig <key> <value>")
	}
	if _, err := sc.set(cmd); err != nil {
		return nil, err
	}
	if err := sc.config.Write(); err != nil {
		return nil, err
	}
	return msg("saved " + cmd.args[0] + " = " + cmd.args[1] + " to " + sc.config.GetString(config.ConfigFile)), nil
}
