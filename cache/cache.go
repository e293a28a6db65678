// Package cache keeps parsed objects that are expensive to reload, such as
// board layouts shared by many autoplay games.
package cache

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/domino14/tilecrush/config"
)

type cache struct {
	sync.Mutex
	objects map[string]any
}

type loadFunc func(cfg *config.Config, key string) (any, error)

// GlobalObjectCache holds every cached object for the process.
var GlobalObjectCache *cache

var createOnce sync.Once

func (c *cache) get(cfg *config.Config, key string, load loadFunc) (any, error) {
	c.Lock()
	defer c.Unlock()
	if obj, ok := c.objects[key]; ok {
		log.Debug().Str("key", key).Msg("getting obj from cache")
		return obj, nil
	}
	log.Debug().Str("key", key).Msg("loading into cache")
	obj, err := load(cfg, key)
	if err != nil {
		return nil, err
	}
	c.objects[key] = obj
	return obj, nil
}

func (c *cache) forget(key string) {
	c.Lock()
	defer c.Unlock()
	delete(c.objects, key)
}

func CreateGlobalObjectCache() {
	GlobalObjectCache = &cache{objects: make(map[string]any)}
}

// Load returns the cached object for name, calling load the first time.
func Load(cfg *config.Config, name string, load loadFunc) (any, error) {
	createOnce.Do(func() {
		if GlobalObjectCache == nil {
			CreateGlobalObjectCache()
		}
	})
	return GlobalObjectCache.get(cfg, name, load)
}

// Forget drops name so the next Load reloads it.
func Forget(name string) {
	if GlobalObjectCache != nil {
		GlobalObjectCache.forget(name)
	}
}
