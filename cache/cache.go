package cache

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/domino14/reversi/config"
)

// The cache holds results that are expensive to compute and keyed by
// position, such as deep analyses the shell shows more than once.

type cache struct {
	sync.Mutex
	objects map[string]interface{}
}

type loadFunc func(cfg *config.Config, key string) (interface{}, error)

// GlobalObjectCache is our global object cache, of course.
var GlobalObjectCache *cache

func (c *cache) load(cfg *config.Config, key string, loadFunc loadFunc) error {
	log.Debug().Str("key", key).Msg("loading into cache")

	obj, err := loadFunc(cfg, key)
	if err != nil {
		return err
	}
	c.objects[key] = obj

	return nil
}

func (c *cache) get(cfg *config.Config, key string, loadFunc loadFunc) (interface{}, error) {
	c.Lock()
	defer c.Unlock()
	obj, ok := c.objects[key]
	if !ok {
		err := c.load(cfg, key, loadFunc)
		if err != nil {
			return nil, err
		}
		return c.objects[key], nil
	}
	log.Debug().Str("key", key).Msg("getting obj from cache")

	return obj, nil
}

func CreateGlobalObjectCache() {
	GlobalObjectCache = &cache{objects: make(map[string]interface{})}
}

// Load returns the object stored under name, computing it with loadFunc
// on a miss. Failed loads are not stored.
func Load(cfg *config.Config, name string, loadFunc loadFunc) (interface{}, error) {
	if GlobalObjectCache == nil {
		CreateGlobalObjectCache()
	}
	return GlobalObjectCache.get(cfg, name, loadFunc)
}

// Len returns the number of cached objects.
func Len() int {
	if GlobalObjectCache == nil {
		return 0
	}
	GlobalObjectCache.Lock()
	defer GlobalObjectCache.Unlock()
	return len(GlobalObjectCache.objects)
}

// Clear drops every cached object. Needed after settings change the
// meaning of a key.
func Clear() {
	CreateGlobalObjectCache()
}
