package automatic

// Self-play data collection. Games run concurrently, one runner per thread.

import (
	"context"
	"errors"
	"expvar"
	"io"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/fivestone/gomoku/bot"
	"github.com/fivestone/gomoku/gamerecord"
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

// RunOptions control a batch of self-play games.
type RunOptions struct {
	NumGames     int
	Threads      int
	OpeningPlies int
	Black        bot.Options
	White        bot.Options
	// Output receives every finished game as a YAML record. It may be nil.
	Output io.Writer
}

// StartCompVCompGames plays opts.NumGames games and summarizes them. If
// ctx is cancelled, games in progress are abandoned and the summary covers
// the finished ones.
func StartCompVCompGames(ctx context.Context, opts RunOptions) (*Summary, error) {
	if IsPlaying.Value() > 0 {
		return nil, ErrAlreadyPlaying
	}
	threads := max(opts.Threads, 1)
	log.Debug().Int("games", opts.NumGames).Int("threads", threads).Msg("starting-selfplay")

	CVCCounter.Set(0)
	jobs := make(chan int)
	results := make(chan GameResult, threads)

	g, gctx := errgroup.WithContext(ctx)
	for t := 0; t < threads; t++ {
		g.Go(func() error {
			r := NewGameRunner(opts.Black, opts.White)
			r.SetOpeningPlies(opts.OpeningPlies)
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			for range jobs {
				res, err := r.PlayGame(gctx)
				if err != nil {
					if ctx.Err() != nil {
						log.Debug().Int("thread", t).Msg("selfplay-game-abandoned")
						return nil
					}
					return err
				}
				CVCCounter.Add(1)
				results <- res
			}
			return nil
		})
	}

	go func() {
		defer close(jobs)
		for i := 0; i < opts.NumGames; i++ {
			select {
			case jobs <- i:
			case <-gctx.Done():
				log.Info().Msg("got-stop-signal")
				return
			}
		}
	}()

	// only the writer touches the summary until it is done
	summary := NewSummary()
	writer := errgroup.Group{}
	writer.Go(func() error {
		var rw *gamerecord.Writer
		if opts.Output != nil {
			rw = gamerecord.NewWriter(opts.Output)
		}
		var werr error
		for res := range results {
			summary.Add(res)
			if rw != nil && werr == nil {
				werr = rw.Write(res.Record())
			}
		}
		if rw != nil && werr == nil {
			werr = rw.Close()
		}
		return werr
	})

	err := g.Wait()
	close(results)
	werr := writer.Wait()
	if err != nil {
		return summary, err
	}
	if werr != nil {
		return summary, werr
	}
	log.Info().Int("games", summary.Games()).Msg("selfplay-finished")
	return summary, nil
}
