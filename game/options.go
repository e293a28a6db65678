package game

import (
	"github.com/domino14/tilecrush/cache"
	"github.com/domino14/tilecrush/config"
)

// OptionsFromConfig builds game options from cfg. A non-zero seed gives a
// reproducible game, and a configured default layout is loaded through
// the object cache.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	opts := Options{
		Width:     cfg.GetInt(config.ConfigBoardWidth),
		Height:    cfg.GetInt(config.ConfigBoardHeight),
		Colors:    cfg.GetInt(config.ConfigColors),
		FillDelay: cfg.GetDuration(config.ConfigFillDelay),
	}
	if seed := cfg.GetUint64(config.ConfigSeed); seed != 0 {
		opts.Rand = NewRand(SeedFromInt(seed))
	}
	if name := cfg.GetString(config.ConfigDefaultLayout); name != "" {
		l, err := cache.Layout(cfg, name)
		if err != nil {
			return opts, err
		}
		opts.Layout = l
	}
	return opts, nil
}
