package cache

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/jkowal/dbtranslate/internal/model"
	"github.com/jkowal/dbtranslate/internal/store"
)

// Languages is an in-process cache of the language table. The table is
// small and read on every request, so it is held fully in memory and
// invalidated on writes.
type Languages struct {
	q      *store.Queries
	logger *slog.Logger

	mu       sync.RWMutex
	loaded   bool
	all      []model.Language
	byLocale map[string]model.Language
	byISO2   map[string]model.Language

	hits   atomic.Int64
	misses atomic.Int64
}

// NewLanguages creates a language cache.
func NewLanguages(q *store.Queries, logger *slog.Logger) *Languages {
	return &Languages{q: q, logger: logger}
}

// load fills the cache from the database. Callers must not hold the lock.
func (c *Languages) load(ctx context.Context) error {
	languages, err := c.q.ListLanguages(ctx)
	if err != nil {
		return err
	}

	byLocale := make(map[string]model.Language, len(languages))
	byISO2 := make(map[string]model.Language, len(languages))
	for _, lang := range languages {
		byLocale[lang.Locale] = lang
		byISO2[lang.ISO2] = lang
	}

	c.mu.Lock()
	c.all = languages
	c.byLocale = byLocale
	c.byISO2 = byISO2
	c.loaded = true
	c.mu.Unlock()

	c.logger.Debug("language cache loaded", "count", len(languages))
	return nil
}

func (c *Languages) ensure(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}
	return c.load(ctx)
}

// All returns every language ordered by name.
func (c *Languages) All(ctx context.Context) ([]model.Language, error) {
	if err := c.ensure(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.all, nil
}

// ByLocale looks up a language by locale.
func (c *Languages) ByLocale(ctx context.Context, locale string) (model.Language, bool, error) {
	if err := c.ensure(ctx); err != nil {
		return model.Language{}, false, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	lang, ok := c.byLocale[locale]
	c.count(ok)
	return lang, ok, nil
}

// ByISO2 looks up a language by its two-letter code.
func (c *Languages) ByISO2(ctx context.Context, iso2 string) (model.Language, bool, error) {
	if err := c.ensure(ctx); err != nil {
		return model.Language{}, false, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	lang, ok := c.byISO2[iso2]
	c.count(ok)
	return lang, ok, nil
}

func (c *Languages) count(hit bool) {
	if hit {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
}

// Stats reports lookup hit and miss counters since startup.
func (c *Languages) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Locales returns the locale of every language, for seeding the i18n
// registry.
func (c *Languages) Locales(ctx context.Context) ([]string, error) {
	languages, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	locales := make([]string, len(languages))
	for i, lang := range languages {
		locales[i] = lang.Locale
	}
	return locales, nil
}

// Invalidate empties the cache; the next read reloads from the database.
// Called after any language write.
func (c *Languages) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.all = nil
	c.byLocale = nil
	c.byISO2 = nil
	c.mu.Unlock()
}
