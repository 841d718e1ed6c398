package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jkowal/dbtranslate/internal/model"
)

// Seed creates the initial language rows when the table is empty. It is a
// no-op unless doSeed is true (gated by DDT_DO_SEED) or languages already
// exist.
func Seed(ctx context.Context, db *sql.DB, doSeed bool) error {
	if !doSeed {
		return nil
	}

	queries := New(db)

	count, err := queries.CountLanguages(ctx)
	if err != nil {
		return fmt.Errorf("counting languages: %w", err)
	}
	if count > 0 {
		slog.Info("languages already exist, skipping seed", "count", count)
		return nil
	}

	// English and French head the common language list.
	for _, seed := range model.CommonLanguages[:2] {
		lang, err := queries.CreateLanguage(ctx, CreateLanguageParams{
			Name:   seed.Name,
			ISO2:   seed.ISO2,
			ISO3:   seed.ISO3,
			Locale: seed.Locale,
		})
		if err != nil {
			return fmt.Errorf("seeding language %q: %w", seed.Name, err)
		}
		slog.Info("seeded language", "id", lang.ID, "name", lang.Name, "locale", lang.Locale)
	}

	return nil
}
