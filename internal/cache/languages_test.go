package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkowal/dbtranslate/internal/store"
	"github.com/jkowal/dbtranslate/internal/testutil"
)

func newLanguagesCache(t *testing.T) (*Languages, *store.Queries) {
	t.Helper()
	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	for _, params := range []store.CreateLanguageParams{
		{Name: "English", ISO2: "EN", ISO3: "ENG", Locale: "en-US"},
		{Name: "French", ISO2: "FR", ISO3: "FRA", Locale: "fr-FR"},
	} {
		_, err := q.CreateLanguage(ctx, params)
		require.NoError(t, err)
	}
	return NewLanguages(q, testutil.TestLogger()), q
}

func TestLanguagesAll(t *testing.T) {
	c, _ := newLanguagesCache(t)

	languages, err := c.All(context.Background())
	require.NoError(t, err)
	require.Len(t, languages, 2)
	// ListLanguages orders by name.
	assert.Equal(t, "English", languages[0].Name)
	assert.Equal(t, "French", languages[1].Name)
}

func TestLanguagesLookups(t *testing.T) {
	c, _ := newLanguagesCache(t)
	ctx := context.Background()

	lang, ok, err := c.ByLocale(ctx, "fr-FR")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "French", lang.Name)

	lang, ok, err = c.ByISO2(ctx, "EN")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "English", lang.Name)

	_, ok, err = c.ByLocale(ctx, "xx-XX")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLanguagesStats(t *testing.T) {
	c, _ := newLanguagesCache(t)
	ctx := context.Background()

	_, _, err := c.ByLocale(ctx, "fr-FR")
	require.NoError(t, err)
	_, _, err = c.ByLocale(ctx, "xx-XX")
	require.NoError(t, err)
	_, _, err = c.ByISO2(ctx, "EN")
	require.NoError(t, err)

	hits, misses := c.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)
}

func TestLanguagesInvalidate(t *testing.T) {
	c, q := newLanguagesCache(t)
	ctx := context.Background()

	_, err := c.All(ctx)
	require.NoError(t, err)

	_, err = q.CreateLanguage(ctx, store.CreateLanguageParams{
		Name: "German", ISO2: "DE", ISO3: "DEU", Locale: "de-DE",
	})
	require.NoError(t, err)

	// Stale until invalidated.
	languages, err := c.All(ctx)
	require.NoError(t, err)
	assert.Len(t, languages, 2)

	c.Invalidate()
	languages, err = c.All(ctx)
	require.NoError(t, err)
	assert.Len(t, languages, 3)

	locales, err := c.Locales(ctx)
	require.NoError(t, err)
	assert.Contains(t, locales, "de-DE")
}
