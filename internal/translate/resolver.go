// Package translate resolves the text for translatable fields of
// application models and serializes model instances with translations
// substituted in. It is the read-side companion of the cascade service.
package translate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jkowal/dbtranslate/internal/model"
	"github.com/jkowal/dbtranslate/internal/store"
)

var (
	// ErrMissingField is returned when a content type has no field with
	// the requested name.
	ErrMissingField = errors.New("translation field not found")

	// ErrMissingLanguage is returned when a lookup names no language at
	// all, or names one that does not exist.
	ErrMissingLanguage = errors.New("language not found")
)

// Lookup selects the language of a translation request. Exactly one of
// LanguageID or Locale should be set; LanguageID wins when both are.
type Lookup struct {
	LanguageID int64
	Locale     string
}

// TextCache caches translated text keyed by item and language. Implemented
// by cache.Translations; a nil cache disables caching.
type TextCache interface {
	Get(itemID, languageID int64) (string, bool)
	Set(itemID, languageID int64, text string)
	InvalidateItem(itemID int64)
}

// Resolver answers translation lookups for application objects.
type Resolver struct {
	q     *store.Queries
	cache TextCache
}

// NewResolver creates a resolver. cache may be nil.
func NewResolver(q *store.Queries, cache TextCache) *Resolver {
	return &Resolver{q: q, cache: cache}
}

// Language resolves the language a lookup names.
func (r *Resolver) Language(ctx context.Context, lookup Lookup) (model.Language, error) {
	switch {
	case lookup.LanguageID != 0:
		lang, err := r.q.GetLanguageByID(ctx, lookup.LanguageID)
		if errors.Is(err, sql.ErrNoRows) {
			return model.Language{}, fmt.Errorf("%w: id %d", ErrMissingLanguage, lookup.LanguageID)
		}
		return lang, err
	case lookup.Locale != "":
		lang, err := r.q.GetLanguageByLocale(ctx, lookup.Locale)
		if errors.Is(err, sql.ErrNoRows) {
			return model.Language{}, fmt.Errorf("%w: locale %q", ErrMissingLanguage, lookup.Locale)
		}
		return lang, err
	default:
		return model.Language{}, ErrMissingLanguage
	}
}

// Field resolves one translatable field of a content type by name.
func (r *Resolver) Field(ctx context.Context, contentType, name string) (model.Field, error) {
	field, err := r.q.GetField(ctx, store.GetFieldParams{ContentType: contentType, Name: name})
	if errors.Is(err, sql.ErrNoRows) {
		return model.Field{}, fmt.Errorf("%w: %s.%s", ErrMissingField, contentType, name)
	}
	return field, err
}

// Fields resolves every translatable field of an object's content type.
func (r *Resolver) Fields(ctx context.Context, v any) ([]model.Field, error) {
	ref, err := model.RefOf(v)
	if err != nil {
		return nil, err
	}
	return r.q.ListFieldsByContentType(ctx, ref.ContentType)
}

// Item resolves the item binding an object to one of its translatable
// fields.
func (r *Resolver) Item(ctx context.Context, v any, fieldName string) (model.Item, error) {
	ref, err := model.RefOf(v)
	if err != nil {
		return model.Item{}, err
	}

	field, err := r.Field(ctx, ref.ContentType, fieldName)
	if err != nil {
		return model.Item{}, err
	}

	item, err := r.q.GetItem(ctx, store.GetItemParams{FieldID: field.ID, ObjectID: ref.ObjectID})
	if errors.Is(err, sql.ErrNoRows) {
		return model.Item{}, fmt.Errorf("no item for %s.%s of object %d", ref.ContentType, fieldName, ref.ObjectID)
	}
	return item, err
}

// Items resolves every item of an object.
func (r *Resolver) Items(ctx context.Context, v any) ([]model.Item, error) {
	ref, err := model.RefOf(v)
	if err != nil {
		return nil, err
	}
	return r.q.ListItemsByObject(ctx, store.ListItemsByObjectParams{
		ContentType: ref.ContentType,
		ObjectID:    ref.ObjectID,
	})
}

// Translation resolves the translation of one field of an object in one
// language.
func (r *Resolver) Translation(ctx context.Context, v any, fieldName string, lookup Lookup) (model.Translation, error) {
	item, err := r.Item(ctx, v, fieldName)
	if err != nil {
		return model.Translation{}, err
	}
	lang, err := r.Language(ctx, lookup)
	if err != nil {
		return model.Translation{}, err
	}
	return r.q.GetTranslation(ctx, store.GetTranslationParams{ItemID: item.ID, LanguageID: lang.ID})
}

// Translations resolves the translations of every field of an object in one
// language.
func (r *Resolver) Translations(ctx context.Context, v any, lookup Lookup) ([]model.Translation, error) {
	ref, err := model.RefOf(v)
	if err != nil {
		return nil, err
	}
	lang, err := r.Language(ctx, lookup)
	if err != nil {
		return nil, err
	}
	return r.q.ListTranslationsForObject(ctx, store.ListTranslationsForObjectParams{
		ContentType: ref.ContentType,
		ObjectID:    ref.ObjectID,
		LanguageID:  lang.ID,
	})
}

// AllTranslations resolves the translations of every field of an object
// across every language.
func (r *Resolver) AllTranslations(ctx context.Context, v any) ([]model.Translation, error) {
	ref, err := model.RefOf(v)
	if err != nil {
		return nil, err
	}
	return r.q.ListTranslationsForObject(ctx, store.ListTranslationsForObjectParams{
		ContentType: ref.ContentType,
		ObjectID:    ref.ObjectID,
	})
}

// Text resolves the translated text for an item in one language, consulting
// the cache first. An empty translation row yields an empty string, which
// is a valid answer, not an error.
func (r *Resolver) Text(ctx context.Context, itemID, languageID int64) (string, error) {
	if r.cache != nil {
		if text, ok := r.cache.Get(itemID, languageID); ok {
			return text, nil
		}
	}

	trans, err := r.q.GetTranslation(ctx, store.GetTranslationParams{ItemID: itemID, LanguageID: languageID})
	if err != nil {
		return "", err
	}

	if r.cache != nil {
		r.cache.Set(itemID, languageID, trans.Text)
	}
	return trans.Text, nil
}
