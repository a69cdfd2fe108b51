package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/reversi/automatic"
	"github.com/domino14/reversi/config"
	"github.com/domino14/reversi/turnplayer"
)

func main() {
	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	level := zerolog.InfoLevel
	if cfg.GetBool(config.ConfigDebug) {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(output).Level(level).With().Timestamp().Logger()

	// A positional argument names an existing log to summarize instead.
	if args := cfg.Args(); len(args) == 1 {
		s, err := automatic.AnalyzeLogFile(args[0])
		if err != nil {
			log.Fatal().Err(err).Msg("analyze-failed")
		}
		fmt.Print(s.ToDisplayText())
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	filename := cfg.GetString(config.ConfigAutoplayOutput)
	f, err := os.Create(filename)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create log file")
	}
	defer f.Close()

	start := time.Now()
	summary, err := automatic.StartCompVCompGames(ctx, cfg,
		cfg.GetInt(config.ConfigAutoplayGames), cfg.GetInt(config.ConfigAutoplayThreads), f)
	if errors.Is(err, turnplayer.ErrEngineIntegrity) {
		log.Fatal().Err(err).Msg("engine-integrity")
	} else if err != nil {
		log.Error().Err(err).Msg("autoplay stopped")
	}
	log.Info().Dur("elapsed", time.Since(start)).Str("file", filename).Msg("autoplay-done")
	if summary != nil {
		fmt.Print(summary.ToDisplayText())
	}
}
