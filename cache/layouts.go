package cache

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/domino14/tilecrush/board"
	"github.com/domino14/tilecrush/config"
)

const layoutPrefix = "layout:"

func loadLayout(cfg *config.Config, key string) (any, error) {
	name := strings.TrimPrefix(key, layoutPrefix)
	path := name
	if !strings.HasSuffix(path, ".yaml") {
		path += ".yaml"
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.GetString(config.ConfigLayoutPath), path)
	}
	l, err := board.LoadLayout(path)
	if err != nil {
		return nil, fmt.Errorf("loading layout %s: %w", name, err)
	}
	return l, nil
}

// Layout returns the named layout from the configured layout directory.
// Callers must not modify the returned layout.
func Layout(cfg *config.Config, name string) (*board.Layout, error) {
	obj, err := Load(cfg, layoutPrefix+name, loadLayout)
	if err != nil {
		return nil, err
	}
	return obj.(*board.Layout), nil
}
