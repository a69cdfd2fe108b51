package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/reversi/config"
	"github.com/domino14/reversi/game"
	"github.com/domino14/reversi/shell"
	"github.com/domino14/reversi/turnplayer"
)

var (
	GitVersion string
)

//go:embed reversi.txt
var banner string

func setupLogger(cfg *config.Config) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	level := zerolog.InfoLevel
	if cfg.GetBool(config.ConfigDebug) {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	logger.Debug().Msg("Debug logging is on")
}

// playMatch plays one game between the player0 and player1 settings,
// showing the board before every turn.
func playMatch(ctx context.Context, cfg *config.Config) error {
	players, err := turnplayer.PlayersFromConfig(cfg, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	g := game.NewGame(players)
	fmt.Print(g.Board().ToDisplayText())
	err = g.PlayToEnd(ctx, func(t game.Turn) {
		fmt.Printf("%s (%s) played %s\n", t.Player, t.Engine, t.Move)
		fmt.Print(g.Board().ToDisplayText())
	})
	if err != nil {
		return err
	}
	fmt.Println(g.ResultText())
	return nil
}

func main() {
	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	setupLogger(cfg)

	if cfg.GetString(config.ConfigCPUProfile) != "" {
		f, err := os.Create(cfg.GetString(config.ConfigCPUProfile))
		if err != nil {
			panic("could not create CPU profile: " + err.Error())
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			panic("could not start CPU profile: " + err.Error())
		}
		defer pprof.StopCPUProfile()
	}

	args := cfg.Args()
	if len(args) > 0 && args[0] == "match" {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		err := playMatch(ctx, cfg)
		if errors.Is(err, turnplayer.ErrEngineIntegrity) {
			// the engines and the board disagree; nothing sensible can follow
			log.Fatal().Err(err).Msg("engine-integrity")
		} else if err != nil {
			log.Error().Err(err).Msg("match-failed")
		}
		return
	} else if len(args) > 0 {
		log.Error().Msgf("unknown command %q; run with no arguments for the shell or with `match`", args[0])
		return
	}

	fmt.Println(banner)
	fmt.Println(GitVersion)

	idleConnsClosed := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		// We received an interrupt signal, shut down.
		log.Info().Msg("got quit signal...")
		close(idleConnsClosed)
	}()

	sc := shell.NewShellController(cfg)
	go sc.Loop(sig)

	<-idleConnsClosed
	log.Info().Msg("shutting down")
}
