package automatic

// Data collection for automatic games.

import (
	"context"
	"encoding/csv"
	"errors"
	"expvar"
	"io"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/reversi/config"
)

var (
	CVCCounter *expvar.Int
	IsPlaying  *expvar.Int
)

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

var logHeader = []string{"gameID", "turn", "player", "engine", "move", "discs0", "discs1"}

// endOfGame in the engine column marks the row written once a game is
// over. Its move column holds the result.
const endOfGame = "end"

// StartCompVCompGames plays numGames games on threads workers and blocks
// until they finish. Every turn is written to w as a CSV row. The first
// error, such as an engine integrity failure, stops all workers.
func StartCompVCompGames(ctx context.Context, cfg *config.Config, numGames int,
	threads int, w io.Writer) (*Summary, error) {

	if IsPlaying.Value() > 0 {
		return nil, ErrAlreadyPlaying
	}
	if threads < 1 {
		threads = 1
	}
	log.Debug().Msgf("Starting %v games, %v threads", numGames, threads)

	// Build every runner up front so bad player settings fail fast.
	logChan := make(chan []string, 100)
	runners := make([]*GameRunner, threads)
	for i := range runners {
		r, err := NewGameRunner(logChan, cfg, uint64(i))
		if err != nil {
			return nil, err
		}
		runners[i] = r
	}

	CVCCounter.Set(0)
	summary := NewSummary()
	var summaryMu sync.Mutex

	loggerDone := make(chan error, 1)
	go func() {
		cw := csv.NewWriter(w)
		err := cw.Write(logHeader)
		for rec := range logChan {
			if err == nil {
				err = cw.Write(rec)
			}
		}
		cw.Flush()
		if err == nil {
			err = cw.Error()
		}
		log.Info().Msg("Exiting turn logger goroutine!")
		loggerDone <- err
	}()

	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan int)
	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < numGames; i++ {
			select {
			case jobs <- i:
			case <-ctx.Done():
				log.Info().Msg("Got stop signal, exiting soon...")
				return nil
			}
		}
		log.Info().Msg("Finished queueing all jobs.")
		return nil
	})
	for _, r := range runners {
		r := r
		g.Go(func() error {
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			for range jobs {
				gm, err := r.PlayGame(ctx)
				if err != nil {
					log.Err(err).Str("gameID", gm.ID()).Msg("automatic-game-failed")
					return err
				}
				summaryMu.Lock()
				summary.AddGame(gm.Board(), len(gm.History()))
				summaryMu.Unlock()
				CVCCounter.Add(1)
			}
			return nil
		})
	}

	err := g.Wait()
	close(logChan)
	logErr := <-loggerDone
	log.Info().Int("games", summary.Games).Msg("All games finished.")
	if err != nil {
		return summary, err
	}
	return summary, logErr
}
