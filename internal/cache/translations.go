package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// Translations caches translated text keyed by item and language. It
// satisfies translate.TextCache.
type Translations struct {
	backend Backend
	ttl     time.Duration
	logger  *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// NewTranslations creates a translation cache over a backend.
func NewTranslations(backend Backend, ttl time.Duration, logger *slog.Logger) *Translations {
	return &Translations{backend: backend, ttl: ttl, logger: logger}
}

func translationKey(itemID, languageID int64) string {
	return fmt.Sprintf("ddt:t:%d:%d", itemID, languageID)
}

// Get returns the cached text for one item and language.
func (t *Translations) Get(itemID, languageID int64) (string, bool) {
	text, ok, err := t.backend.Get(context.Background(), translationKey(itemID, languageID))
	if err != nil {
		t.logger.Warn("translation cache get failed", "item_id", itemID, "error", err)
		return "", false
	}
	if ok {
		t.hits.Add(1)
	} else {
		t.misses.Add(1)
	}
	return text, ok
}

// Set stores the text for one item and language.
func (t *Translations) Set(itemID, languageID int64, text string) {
	if err := t.backend.Set(context.Background(), translationKey(itemID, languageID), text, t.ttl); err != nil {
		t.logger.Warn("translation cache set failed", "item_id", itemID, "error", err)
	}
}

// InvalidateItem drops the cached text of one item in every language.
// Called when a translation is edited.
func (t *Translations) InvalidateItem(itemID int64) {
	prefix := fmt.Sprintf("ddt:t:%d:", itemID)
	if err := t.backend.DeletePrefix(context.Background(), prefix); err != nil {
		t.logger.Warn("translation cache invalidation failed", "item_id", itemID, "error", err)
	}
}

// InvalidateAll drops every cached translation, used when a language is
// deleted.
func (t *Translations) InvalidateAll() {
	if err := t.backend.DeletePrefix(context.Background(), "ddt:t:"); err != nil {
		t.logger.Warn("translation cache flush failed", "error", err)
	}
}

// Stats reports hit and miss counters since startup.
func (t *Translations) Stats() (hits, misses int64) {
	return t.hits.Load(), t.misses.Load()
}
