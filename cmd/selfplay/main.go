// Command selfplay plays the engine against itself and prints a summary.
//
//	selfplay [flags]            play a run of games
//	selfplay analyze <file>     summarize a file of saved records
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fivestone/gomoku/automatic"
	"github.com/fivestone/gomoku/bot"
	"github.com/fivestone/gomoku/cmd/internal/logsetup"
	"github.com/fivestone/gomoku/config"
)

func main() {
	if len(os.Args) > 2 && os.Args[1] == "analyze" {
		out, err := automatic.AnalyzeRecordFile(os.Args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(out)
		return
	}

	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logsetup.Configure(cfg.GetBool(config.ConfigDebug))

	if cfg.GetString(config.ConfigCPUProfile) != "" {
		f, err := os.Create(cfg.GetString(config.ConfigCPUProfile))
		if err != nil {
			log.Fatal().Err(err).Msg("could-not-create-cpu-profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could-not-start-cpu-profile")
		}
		defer pprof.StopCPUProfile()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := automatic.RunOptions{
		NumGames:     cfg.GetInt(config.ConfigSelfplayGames),
		Threads:      cfg.GetInt(config.ConfigSelfplayThreads),
		OpeningPlies: automatic.DefaultOpeningPlies,
		Black:        bot.OptionsFromConfig(cfg),
		White:        bot.OptionsFromConfig(cfg),
	}
	if out := cfg.GetString(config.ConfigSelfplayOutput); out != "" {
		f, err := os.Create(out)
		if err != nil {
			log.Fatal().Err(err).Msg("could-not-create-output")
		}
		defer f.Close()
		opts.Output = f
	}

	tstart := time.Now()
	summary, err := automatic.StartCompVCompGames(ctx, opts)
	if err != nil {
		log.Error().Err(err).Msg("selfplay-failed")
	}
	if summary != nil {
		fmt.Println(summary.String())
	}
	log.Info().Dur("elapsed", time.Since(tstart)).Msg("selfplay-done")
	if err != nil {
		os.Exit(1)
	}
}
