package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug           = "debug"
	ConfigConfigFile      = "config-file"
	ConfigBoardWidth      = "board-width"
	ConfigBoardHeight     = "board-height"
	ConfigColors          = "colors"
	ConfigFillDelay       = "fill-delay"
	ConfigSeed            = "seed"
	ConfigLayoutPath      = "layout-path"
	ConfigDefaultLayout   = "default-layout"
	ConfigAutoplayGames   = "autoplay-games"
	ConfigAutoplayThreads = "autoplay-threads"
	ConfigAutoplayMoves   = "autoplay-moves"
	ConfigAutoplayLogfile = "autoplay-logfile"
	ConfigSeedFile        = "seed-file"
	ConfigCPUProfile      = "cpu-profile"
)

var ErrUnknownKey = errors.New("unknown config key")

type Config struct {
	*viper.Viper

	args []string
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigBoardWidth, 9)
	v.SetDefault(ConfigBoardHeight, 9)
	v.SetDefault(ConfigColors, 5)
	v.SetDefault(ConfigFillDelay, 150*time.Millisecond)
	v.SetDefault(ConfigSeed, 0)
	v.SetDefault(ConfigLayoutPath, "./data/layouts")
	v.SetDefault(ConfigDefaultLayout, "")
	v.SetDefault(ConfigAutoplayGames, 100)
	v.SetDefault(ConfigAutoplayThreads, 4)
	v.SetDefault(ConfigAutoplayMoves, 30)
	v.SetDefault(ConfigAutoplayLogfile, "/tmp/autoplay.txt")
	v.SetDefault(ConfigSeedFile, "")
	v.SetDefault(ConfigCPUProfile, "")
	v.SetEnvPrefix("tilecrush")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// DefaultConfig has every default and honors TILECRUSH_* environment
// variables, but reads no flags or files.
func DefaultConfig() *Config {
	return &Config{Viper: newViper()}
}

// Load parses command-line flags and an optional YAML config file. Flags
// win over environment variables, which win over the file.
func (c *Config) Load(args []string) error {
	c.Viper = newViper()

	fs := pflag.NewFlagSet("tilecrush", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigConfigFile, "", "a YAML file with config settings")
	fs.Int(ConfigBoardWidth, 9, "board width")
	fs.Int(ConfigBoardHeight, 9, "board height")
	fs.Int(ConfigColors, 5, "number of piece colors in play")
	fs.Duration(ConfigFillDelay, 150*time.Millisecond, "duration of one falling step")
	fs.Uint64(ConfigSeed, 0, "random seed; 0 picks a random one")
	fs.String(ConfigLayoutPath, "./data/layouts", "directory holding board layout files")
	fs.String(ConfigDefaultLayout, "", "the layout to start new games from")
	fs.Int(ConfigAutoplayGames, 100, "number of games per autoplay run")
	fs.Int(ConfigAutoplayThreads, 4, "number of autoplay workers")
	fs.Int(ConfigAutoplayMoves, 30, "moves per autoplay game")
	fs.String(ConfigAutoplayLogfile, "/tmp/autoplay.txt", "where autoplay writes per-game results")
	fs.String(ConfigSeedFile, "", "a file of seeds to replay in autoplay")
	fs.String(ConfigCPUProfile, "", "write a cpu profile to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.args = fs.Args()

	if cf := c.GetString(ConfigConfigFile); cf != "" {
		c.SetConfigFile(cf)
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", cf, err)
		}
	}
	return nil
}

// Args returns the positional arguments left over by Load.
func (c *Config) Args() []string {
	return c.args
}

// AdjustRelativePaths makes relative data paths relative to basepath, so
// the binaries can be run from anywhere.
func (c *Config) AdjustRelativePaths(basepath string) {
	for _, key := range []string{ConfigLayoutPath} {
		p := c.GetString(key)
		if p == "" || filepath.IsAbs(p) {
			continue
		}
		c.Set(key, filepath.Join(basepath, p))
	}
}

// SetByName sets a known key from a string, as typed in the shell.
func (c *Config) SetByName(key, value string) error {
	if !isKnown(key) {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	switch key {
	case ConfigFillDelay:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.Set(key, d)
	default:
		c.Set(key, value)
	}
	return nil
}

func isKnown(key string) bool {
	_, ok := newViper().AllSettings()[key]
	return ok
}

// Write saves the current settings to path.
func (c *Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return c.WriteConfigAs(path)
}
