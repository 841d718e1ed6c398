package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jkowal/dbtranslate/internal/middleware"
	"github.com/jkowal/dbtranslate/internal/store"
	"github.com/jkowal/dbtranslate/internal/translate"
)

// requestLanguage resolves the target language for a read endpoint: the
// ?locale query parameter when given, otherwise the locale the language
// middleware detected.
func (h *Handler) requestLanguage(r *http.Request) translate.Lookup {
	if locale := r.URL.Query().Get("locale"); locale != "" {
		return translate.Lookup{Locale: locale}
	}
	return translate.Lookup{Locale: middleware.Locale(r.Context())}
}

func queryID(r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil && id > 0
}

func objectParams(r *http.Request) (string, int64, bool) {
	contentType := chi.URLParam(r, "contentType")
	objectID, err := strconv.ParseInt(chi.URLParam(r, "objectID"), 10, 64)
	return contentType, objectID, contentType != "" && err == nil && objectID > 0
}

// objectCreated is the lifecycle notification for a newly persisted
// object: items and empty translations are fanned out for every field of
// its content type.
func (h *Handler) objectCreated(w http.ResponseWriter, r *http.Request) {
	contentType, objectID, ok := objectParams(r)
	if !ok {
		WriteBadRequest(w, "invalid object reference")
		return
	}

	if err := h.cascade.ObjectCreated(r.Context(), contentType, objectID); err != nil {
		if isUniqueViolation(err) {
			WriteConflict(w, "object rows already exist")
			return
		}
		WriteInternalError(w, err)
		return
	}
	WriteCreated(w, nil)
}

// objectDeleted is the lifecycle notification for a deleted object: its
// items and translations are removed.
func (h *Handler) objectDeleted(w http.ResponseWriter, r *http.Request) {
	contentType, objectID, ok := objectParams(r)
	if !ok {
		WriteBadRequest(w, "invalid object reference")
		return
	}

	// Item ids are gone after the cascade; collect them first so the
	// cached text can be dropped too.
	items, err := h.q.ListItemsByObject(r.Context(), store.ListItemsByObjectParams{
		ContentType: contentType,
		ObjectID:    objectID,
	})
	if err != nil {
		WriteInternalError(w, err)
		return
	}

	if err := h.cascade.ObjectDeleted(r.Context(), contentType, objectID); err != nil {
		WriteInternalError(w, err)
		return
	}

	for _, item := range items {
		h.translations.InvalidateItem(item.ID)
	}
	WriteNoContent(w)
}

// listObjectTranslations returns the raw translation rows of one object,
// in one language or in all of them with ?all=true.
func (h *Handler) listObjectTranslations(w http.ResponseWriter, r *http.Request) {
	contentType, objectID, ok := objectParams(r)
	if !ok {
		WriteBadRequest(w, "invalid object reference")
		return
	}

	params := store.ListTranslationsForObjectParams{
		ContentType: contentType,
		ObjectID:    objectID,
	}

	if r.URL.Query().Get("all") != "true" {
		lang, err := h.resolver.Language(r.Context(), h.requestLanguage(r))
		if errors.Is(err, translate.ErrMissingLanguage) {
			WriteNotFound(w, "language not found")
			return
		}
		if err != nil {
			WriteInternalError(w, err)
			return
		}
		params.LanguageID = lang.ID
	}

	translations, err := h.q.ListTranslationsForObject(r.Context(), params)
	if err != nil {
		WriteInternalError(w, err)
		return
	}
	WriteSuccess(w, translations)
}

// objectDict returns one object's translatable fields as a flat map of
// field name to translated text, with "<field>_id" carrying the item id.
func (h *Handler) objectDict(w http.ResponseWriter, r *http.Request) {
	contentType, objectID, ok := objectParams(r)
	if !ok {
		WriteBadRequest(w, "invalid object reference")
		return
	}

	lang, err := h.resolver.Language(r.Context(), h.requestLanguage(r))
	if errors.Is(err, translate.ErrMissingLanguage) {
		WriteNotFound(w, "language not found")
		return
	}
	if err != nil {
		WriteInternalError(w, err)
		return
	}

	items, err := h.q.ListItemsByObject(r.Context(), store.ListItemsByObjectParams{
		ContentType: contentType,
		ObjectID:    objectID,
	})
	if err != nil {
		WriteInternalError(w, err)
		return
	}
	if len(items) == 0 {
		WriteNotFound(w, "object has no translatable fields")
		return
	}

	dict := make(map[string]any, 2*len(items))
	for _, item := range items {
		field, err := h.q.GetFieldByID(r.Context(), item.FieldID)
		if err != nil {
			WriteInternalError(w, err)
			return
		}
		text, err := h.resolver.Text(r.Context(), item.ID, lang.ID)
		if err != nil {
			WriteInternalError(w, err)
			return
		}
		dict[field.Name] = text
		dict[field.Name+"_id"] = item.ID
	}
	WriteSuccess(w, dict)
}

func (h *Handler) getTranslation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		WriteBadRequest(w, "invalid translation id")
		return
	}

	trans, err := h.q.GetTranslationByID(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		WriteNotFound(w, "translation not found")
		return
	}
	if err != nil {
		WriteInternalError(w, err)
		return
	}
	WriteSuccess(w, trans)
}

type translationUpdateRequest struct {
	Text string `json:"text"`
}

// updateTranslation sets the text of one translation row. Text is the only
// mutable column; the language and item bindings are fixed at creation.
func (h *Handler) updateTranslation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		WriteBadRequest(w, "invalid translation id")
		return
	}

	var req translationUpdateRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}

	trans, err := h.q.UpdateTranslationText(r.Context(), store.UpdateTranslationTextParams{
		ID:   id,
		Text: req.Text,
	})
	if errors.Is(err, sql.ErrNoRows) {
		WriteNotFound(w, "translation not found")
		return
	}
	if err != nil {
		WriteInternalError(w, err)
		return
	}

	h.translations.InvalidateItem(trans.ItemID)
	WriteSuccess(w, trans)
}

type missingStat struct {
	LanguageID int64  `json:"language_id"`
	Language   string `json:"language"`
	Locale     string `json:"locale"`
	Missing    int64  `json:"missing"`
}

// missingStats reports the number of empty translations, scoped by an
// optional field_id, item_id or language_id query parameter. With no
// filter it reports the counts per language.
func (h *Handler) missingStats(w http.ResponseWriter, r *http.Request) {
	if id, ok := queryID(r, "field_id"); ok {
		missing, err := h.q.CountMissingTranslationsByField(r.Context(), id)
		if err != nil {
			WriteInternalError(w, err)
			return
		}
		WriteSuccess(w, map[string]int64{"field_id": id, "missing": missing})
		return
	}
	if id, ok := queryID(r, "item_id"); ok {
		missing, err := h.q.CountMissingTranslationsByItem(r.Context(), id)
		if err != nil {
			WriteInternalError(w, err)
			return
		}
		WriteSuccess(w, map[string]int64{"item_id": id, "missing": missing})
		return
	}
	if id, ok := queryID(r, "language_id"); ok {
		missing, err := h.q.CountMissingTranslationsByLanguage(r.Context(), id)
		if err != nil {
			WriteInternalError(w, err)
			return
		}
		WriteSuccess(w, map[string]int64{"language_id": id, "missing": missing})
		return
	}

	languages, err := h.languages.All(r.Context())
	if err != nil {
		WriteInternalError(w, err)
		return
	}

	stats := make([]missingStat, 0, len(languages))
	for _, lang := range languages {
		missing, err := h.q.CountMissingTranslationsByLanguage(r.Context(), lang.ID)
		if err != nil {
			WriteInternalError(w, err)
			return
		}
		stats = append(stats, missingStat{
			LanguageID: lang.ID,
			Language:   lang.Name,
			Locale:     lang.Locale,
			Missing:    missing,
		})
	}
	WriteSuccess(w, stats)
}
