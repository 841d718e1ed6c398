// Package service implements the cascade reactions that keep the
// translation side tables in step with application data: creating a Field
// fans out Items for every existing object, creating a Language backfills
// Translations for every Item, and object lifecycle events create or remove
// the rows for one instance. Each reaction runs in a single transaction.
package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jkowal/dbtranslate/internal/model"
	"github.com/jkowal/dbtranslate/internal/store"
)

// ObjectLister enumerates the primary keys of every existing object of one
// content type. Applications register one per translatable model.
type ObjectLister func(ctx context.Context) ([]int64, error)

// ErrUnknownContentType is returned when a field is created for a content
// type no lister has been registered for.
var ErrUnknownContentType = fmt.Errorf("no object lister registered for content type")

// Cascade creates and deletes Item and Translation rows in reaction to
// Field, Language and object lifecycle events. Rows in those tables are
// never written directly by API consumers.
type Cascade struct {
	db     *sql.DB
	logger *slog.Logger

	mu      sync.RWMutex
	listers map[string]ObjectLister
}

// NewCascade creates a cascade service.
func NewCascade(db *sql.DB, logger *slog.Logger) *Cascade {
	return &Cascade{
		db:      db,
		logger:  logger,
		listers: make(map[string]ObjectLister),
	}
}

// RegisterModel registers the object lister for a content type,
// replacing any previous registration.
func (c *Cascade) RegisterModel(contentType string, lister ObjectLister) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listers[contentType] = lister
}

// ContentTypes returns the registered content type labels.
func (c *Cascade) ContentTypes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	types := make([]string, 0, len(c.listers))
	for ct := range c.listers {
		types = append(types, ct)
	}
	return types
}

func (c *Cascade) lister(contentType string) (ObjectLister, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	lister, ok := c.listers[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContentType, contentType)
	}
	return lister, nil
}

// CreateField inserts a Field and fans out one Item per existing object of
// its content type plus one empty Translation per Item and Language.
func (c *Cascade) CreateField(ctx context.Context, contentType, name string) (model.Field, error) {
	lister, err := c.lister(contentType)
	if err != nil {
		return model.Field{}, err
	}

	objectIDs, err := lister(ctx)
	if err != nil {
		return model.Field{}, fmt.Errorf("listing %s objects: %w", contentType, err)
	}

	var field model.Field
	err = c.inTx(ctx, func(q *store.Queries) error {
		field, err = q.CreateField(ctx, store.CreateFieldParams{ContentType: contentType, Name: name})
		if err != nil {
			return fmt.Errorf("creating field: %w", err)
		}

		languages, err := q.ListLanguages(ctx)
		if err != nil {
			return fmt.Errorf("listing languages: %w", err)
		}

		for _, objectID := range objectIDs {
			item, err := q.CreateItem(ctx, store.CreateItemParams{
				FieldID:     field.ID,
				ObjectID:    objectID,
				ContentType: contentType,
			})
			if err != nil {
				return fmt.Errorf("creating item for object %d: %w", objectID, err)
			}
			if err := createEmptyTranslations(ctx, q, item.ID, languages); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return model.Field{}, err
	}

	c.logger.Info("field registered",
		"field", field.String(), "objects", len(objectIDs))
	return field, nil
}

// CreateLanguage inserts a Language and backfills one empty Translation for
// every existing Item.
func (c *Cascade) CreateLanguage(ctx context.Context, arg store.CreateLanguageParams) (model.Language, error) {
	var lang model.Language
	err := c.inTx(ctx, func(q *store.Queries) error {
		var err error
		lang, err = q.CreateLanguage(ctx, arg)
		if err != nil {
			return fmt.Errorf("creating language: %w", err)
		}

		items, err := q.ListItems(ctx)
		if err != nil {
			return fmt.Errorf("listing items: %w", err)
		}

		for _, item := range items {
			if _, err := q.CreateTranslation(ctx, store.CreateTranslationParams{
				LanguageID: lang.ID,
				ItemID:     item.ID,
			}); err != nil {
				return fmt.Errorf("creating translation for item %d: %w", item.ID, err)
			}
		}

		c.logger.Info("language added", "locale", lang.Locale, "backfilled_items", len(items))
		return nil
	})
	if err != nil {
		return model.Language{}, err
	}
	return lang, nil
}

// ObjectCreated creates one Item per Field of the object's content type and
// one empty Translation per new Item and Language. Call it after the
// application persists a new translatable object.
func (c *Cascade) ObjectCreated(ctx context.Context, contentType string, objectID int64) error {
	return c.inTx(ctx, func(q *store.Queries) error {
		fields, err := q.ListFieldsByContentType(ctx, contentType)
		if err != nil {
			return fmt.Errorf("listing fields: %w", err)
		}

		languages, err := q.ListLanguages(ctx)
		if err != nil {
			return fmt.Errorf("listing languages: %w", err)
		}

		for _, field := range fields {
			item, err := q.CreateItem(ctx, store.CreateItemParams{
				FieldID:     field.ID,
				ObjectID:    objectID,
				ContentType: contentType,
			})
			if err != nil {
				return fmt.Errorf("creating item for field %q: %w", field.Name, err)
			}
			if err := createEmptyTranslations(ctx, q, item.ID, languages); err != nil {
				return err
			}
		}

		c.logger.Debug("object rows created",
			"content_type", contentType, "object_id", objectID, "fields", len(fields))
		return nil
	})
}

// ObjectDeleted removes the object's Items; their Translations follow via
// foreign key cascade. Call it after the application deletes a translatable
// object.
func (c *Cascade) ObjectDeleted(ctx context.Context, contentType string, objectID int64) error {
	err := store.New(c.db).DeleteItemsByObject(ctx, store.DeleteItemsByObjectParams{
		ContentType: contentType,
		ObjectID:    objectID,
	})
	if err != nil {
		return fmt.Errorf("deleting items for %s.%d: %w", contentType, objectID, err)
	}

	c.logger.Debug("object rows deleted", "content_type", contentType, "object_id", objectID)
	return nil
}

// inTx runs fn against a transaction-bound Queries, committing on success.
func (c *Cascade) inTx(ctx context.Context, fn func(q *store.Queries) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(store.New(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func createEmptyTranslations(ctx context.Context, q *store.Queries, itemID int64, languages []model.Language) error {
	for _, lang := range languages {
		if _, err := q.CreateTranslation(ctx, store.CreateTranslationParams{
			LanguageID: lang.ID,
			ItemID:     itemID,
		}); err != nil {
			return fmt.Errorf("creating translation for item %d in %s: %w", itemID, lang.Locale, err)
		}
	}
	return nil
}
