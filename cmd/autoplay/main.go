package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tilecrush/automatic"
	"github.com/domino14/tilecrush/config"
)

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)

	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error loading config:", err)
		os.Exit(1)
	}
	cfg.AdjustRelativePaths(exPath)

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	logger := zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = logger.Level(zerolog.DebugLevel)
	}
	log.Logger = logger

	if p := cfg.GetString(config.ConfigCPUProfile); p != "" {
		f, err := os.Create(p)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
	}

	ctx, cancel := signal.NotifyContext(logger.WithContext(context.Background()),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts, err := automatic.RunOptionsFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("reading autoplay options")
	}
	// an optional positional run id replays an earlier run
	if args := cfg.Args(); len(args) > 0 {
		opts.RunID = args[0]
	}
	if path := cfg.GetString(config.ConfigAutoplayLogfile); path != "" {
		f, err := os.Create(path)
		if err != nil {
			log.Fatal().Err(err).Msg("creating autoplay log")
		}
		defer f.Close()
		opts.Log = f
	}

	rep, err := automatic.Run(ctx, cfg, opts)
	if err != nil {
		log.Error().Err(err).Msg("autoplay failed")
		return
	}
	if err := rep.WriteYAML(os.Stdout, false); err != nil {
		log.Error().Err(err).Msg("writing report")
	}
	for _, name := range []string{"cleared", "moves", "max_cascade"} {
		if err := rep.Histogram(os.Stdout, name); err != nil {
			log.Error().Err(err).Str("stat", name).Msg("histogram")
		}
	}
}
