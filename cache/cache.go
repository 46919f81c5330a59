package cache

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/domino14/yahtzee-ev/config"
)

// The cache holds large objects that are expensive to rebuild, such as
// state tables loaded from disk, so a long-lived process (the shell) only
// pays for each one once. It is an ordinary value owned by its user; there
// is no package-level instance.

type LoadFunc[V any] func(cfg *config.Config, key string) (V, error)

type Cache[V any] struct {
	sync.Mutex
	cfg      *config.Config
	loadFunc LoadFunc[V]
	objects  map[string]V
}

func New[V any](cfg *config.Config, loadFunc LoadFunc[V]) *Cache[V] {
	return &Cache[V]{
		cfg:      cfg,
		loadFunc: loadFunc,
		objects:  make(map[string]V),
	}
}

func (c *Cache[V]) load(key string) (V, error) {
	log.Debug().Str("key", key).Msg("loading into cache")

	obj, err := c.loadFunc(c.cfg, key)
	if err != nil {
		return obj, err
	}
	c.objects[key] = obj
	return obj, nil
}

// Get returns the object for key, loading it on first use. Failed loads
// are not remembered.
func (c *Cache[V]) Get(key string) (V, error) {
	c.Lock()
	defer c.Unlock()
	if obj, ok := c.objects[key]; ok {
		log.Debug().Str("key", key).Msg("getting obj from cache")
		return obj, nil
	}
	return c.load(key)
}

// Evict drops key so the next Get reloads it.
func (c *Cache[V]) Evict(key string) {
	c.Lock()
	defer c.Unlock()
	delete(c.objects, key)
}

func (c *Cache[V]) Len() int {
	c.Lock()
	defer c.Unlock()
	return len(c.objects)
}
