// Package config holds the engine's settings. They come, in increasing
// order of precedence, from built-in defaults, an optional gomoku.yaml
// file, GOMOKU_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigThinkingTimeMs      = "thinking-time-ms"
	ConfigSearchDepth         = "search-depth"
	ConfigCandidateBudget     = "candidate-budget"
	ConfigShowCandidates      = "show-candidates"
	ConfigThinkDelayMs        = "think-delay-ms"
	ConfigVCFDepth            = "vcf-depth"
	ConfigVCTDepth            = "vct-depth"
	ConfigVCFNodeBudget       = "vcf-node-budget"
	ConfigVCTNodeBudget       = "vct-node-budget"
	ConfigTTableFractionOfMem = "ttable-fraction-of-mem"
	ConfigTTableMaxLog2       = "ttable-max-log2"
	ConfigForcedCacheSize     = "forced-cache-size"
	ConfigDebug               = "debug"
	ConfigCPUProfile          = "cpu-profile"
	ConfigSelfplayGames       = "selfplay-games"
	ConfigSelfplayThreads     = "selfplay-threads"
	ConfigSelfplayOutput      = "selfplay-output"
	ConfigConfigFile          = "config"
)

const envPrefix = "GOMOKU"

var defaults = map[string]any{
	ConfigThinkingTimeMs:      3000,
	ConfigSearchDepth:         6,
	ConfigCandidateBudget:     15,
	ConfigShowCandidates:      false,
	ConfigThinkDelayMs:        0,
	ConfigVCFDepth:            14,
	ConfigVCTDepth:            10,
	ConfigVCFNodeBudget:       200_000,
	ConfigVCTNodeBudget:       100_000,
	ConfigTTableFractionOfMem: 0.01,
	ConfigTTableMaxLog2:       20,
	ConfigForcedCacheSize:     1 << 18,
	ConfigDebug:               false,
	ConfigCPUProfile:          "",
	ConfigSelfplayGames:       100,
	ConfigSelfplayThreads:     4,
	ConfigSelfplayOutput:      "",
	ConfigConfigFile:          "",
}

var ErrInvalidSetting = errors.New("invalid setting")

type Config struct {
	*viper.Viper
}

// DefaultConfig returns a config holding only the built-in defaults. Tests
// use it directly.
func DefaultConfig() *Config {
	c := &Config{viper.New()}
	for k, v := range defaults {
		c.SetDefault(k, v)
	}
	return c
}

// Load builds the configuration from the command line, the environment and
// the config file, in that order of precedence.
func (c *Config) Load(args []string) error {
	for k, v := range defaults {
		c.SetDefault(k, v)
	}
	fs := pflag.NewFlagSet("gomoku", pflag.ContinueOnError)
	fs.Int(ConfigThinkingTimeMs, defaults[ConfigThinkingTimeMs].(int), "time budget for the minimax search, in milliseconds")
	fs.Int(ConfigSearchDepth, defaults[ConfigSearchDepth].(int), "maximum minimax search depth in plies")
	fs.Int(ConfigCandidateBudget, defaults[ConfigCandidateBudget].(int), "candidate moves considered per node")
	fs.Bool(ConfigShowCandidates, false, "report the candidate list with every engine move")
	fs.Int(ConfigThinkDelayMs, 0, "artificial delay before the engine replies, in milliseconds")
	fs.Int(ConfigVCFDepth, defaults[ConfigVCFDepth].(int), "maximum plies for the consecutive-four search")
	fs.Int(ConfigVCTDepth, defaults[ConfigVCTDepth].(int), "maximum plies for the consecutive-three search")
	fs.Int(ConfigVCFNodeBudget, defaults[ConfigVCFNodeBudget].(int), "node budget for one consecutive-four search")
	fs.Int(ConfigVCTNodeBudget, defaults[ConfigVCTNodeBudget].(int), "node budget for one consecutive-three search")
	fs.Float64(ConfigTTableFractionOfMem, defaults[ConfigTTableFractionOfMem].(float64), "fraction of system memory for the transposition table")
	fs.Int(ConfigTTableMaxLog2, defaults[ConfigTTableMaxLog2].(int), "upper bound on the transposition table size, as a power of two")
	fs.Int(ConfigForcedCacheSize, defaults[ConfigForcedCacheSize].(int), "entries kept by each forced-win search memo")
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigCPUProfile, "", "write a cpu profile to this file")
	fs.Int(ConfigSelfplayGames, defaults[ConfigSelfplayGames].(int), "games to play in a self-play run")
	fs.Int(ConfigSelfplayThreads, defaults[ConfigSelfplayThreads].(int), "games played concurrently in a self-play run")
	fs.String(ConfigSelfplayOutput, "", "file for self-play game records")
	fs.String(ConfigConfigFile, "", "path to a yaml config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	c.SetEnvPrefix(envPrefix)
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if f := c.GetString(ConfigConfigFile); f != "" {
		c.SetConfigFile(f)
	} else {
		c.SetConfigName("gomoku")
		c.SetConfigType("yaml")
		c.AddConfigPath(".")
		if home, err := os.UserConfigDir(); err == nil {
			c.AddConfigPath(filepath.Join(home, "gomoku"))
		}
	}
	if err := c.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
		log.Debug().Msg("no-config-file-found")
	} else {
		log.Debug().Str("file", c.ConfigFileUsed()).Msg("loaded-config-file")
	}
	return c.Validate()
}

// Validate rejects settings no engine component can work with.
func (c *Config) Validate() error {
	positive := []string{
		ConfigThinkingTimeMs, ConfigSearchDepth, ConfigCandidateBudget,
		ConfigVCFDepth, ConfigVCTDepth, ConfigVCFNodeBudget, ConfigVCTNodeBudget,
		ConfigForcedCacheSize, ConfigSelfplayThreads,
	}
	for _, k := range positive {
		if c.GetInt(k) < 1 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidSetting, k, c.GetInt(k))
		}
	}
	if c.GetInt(ConfigThinkDelayMs) < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidSetting, ConfigThinkDelayMs)
	}
	f := c.GetFloat64(ConfigTTableFractionOfMem)
	if f <= 0 || f > 0.5 {
		return fmt.Errorf("%w: %s must be in (0, 0.5], got %v", ErrInvalidSetting, ConfigTTableFractionOfMem, f)
	}
	return nil
}

// Write saves the current settings to path, or to the config file that
// was loaded if path is empty.
func (c *Config) Write(path string) error {
	if path == "" {
		path = c.ConfigFileUsed()
	}
	if path == "" {
		path = "gomoku.yaml"
	}
	if err := c.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	log.Info().Str("file", path).Msg("wrote-config")
	return nil
}
