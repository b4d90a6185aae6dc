package main

import (
	_ "embed"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/fivestone/gomoku/cmd/internal/logsetup"
	"github.com/fivestone/gomoku/config"
	"github.com/fivestone/gomoku/shell"
)

var (
	GitVersion string
)

//go:embed gomoku.txt
var gomokubanner string

func main() {
	fmt.Println(gomokubanner)
	fmt.Println(GitVersion)

	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logsetup.Configure(cfg.GetBool(config.ConfigDebug))

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

	sc, err := shell.NewShellController(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("could-not-start-shell")
	}

	done := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Debug().Msg("got-quit-signal")
		close(done)
	}()

	go sc.Loop(sig)
	<-done
}
