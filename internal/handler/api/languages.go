package api

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jkowal/dbtranslate/internal/i18n"
	"github.com/jkowal/dbtranslate/internal/session"
	"github.com/jkowal/dbtranslate/internal/store"
)

type languageRequest struct {
	Name   string `json:"name"`
	ISO2   string `json:"iso2"`
	ISO3   string `json:"iso3"`
	Locale string `json:"locale"`
}

func (req languageRequest) validate() string {
	switch {
	case req.Name == "":
		return "name is required"
	case len(req.ISO2) != 2:
		return "iso2 must be exactly 2 characters"
	case len(req.ISO3) != 3:
		return "iso3 must be exactly 3 characters"
	case req.Locale == "":
		return "locale is required"
	default:
		return ""
	}
}

func (h *Handler) listLanguages(w http.ResponseWriter, r *http.Request) {
	languages, err := h.languages.All(r.Context())
	if err != nil {
		WriteInternalError(w, err)
		return
	}
	WriteSuccess(w, languages)
}

func (h *Handler) getLanguage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		WriteBadRequest(w, "invalid language id")
		return
	}

	lang, err := h.q.GetLanguageByID(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		WriteNotFound(w, "language not found")
		return
	}
	if err != nil {
		WriteInternalError(w, err)
		return
	}
	WriteSuccess(w, lang)
}

// createLanguage inserts a language and backfills an empty translation for
// every existing item.
func (h *Handler) createLanguage(w http.ResponseWriter, r *http.Request) {
	var req languageRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		WriteBadRequest(w, msg)
		return
	}

	lang, err := h.cascade.CreateLanguage(r.Context(), store.CreateLanguageParams{
		Name:   req.Name,
		ISO2:   req.ISO2,
		ISO3:   req.ISO3,
		Locale: req.Locale,
	})
	if isUniqueViolation(err) {
		WriteConflict(w, "a language with that name, code or locale already exists")
		return
	}
	if err != nil {
		WriteInternalError(w, err)
		return
	}

	h.languages.Invalidate()
	if err := i18n.Register(lang.Locale); err != nil {
		h.logger.Warn("registering locale", "locale", lang.Locale, "error", err)
	}
	WriteCreated(w, lang)
}

func (h *Handler) updateLanguage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		WriteBadRequest(w, "invalid language id")
		return
	}

	var req languageRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		WriteBadRequest(w, msg)
		return
	}

	lang, err := h.q.UpdateLanguage(r.Context(), store.UpdateLanguageParams{
		ID:     id,
		Name:   req.Name,
		ISO2:   req.ISO2,
		ISO3:   req.ISO3,
		Locale: req.Locale,
	})
	if errors.Is(err, sql.ErrNoRows) {
		WriteNotFound(w, "language not found")
		return
	}
	if isUniqueViolation(err) {
		WriteConflict(w, "a language with that name, code or locale already exists")
		return
	}
	if err != nil {
		WriteInternalError(w, err)
		return
	}

	h.languages.Invalidate()
	WriteSuccess(w, lang)
}

// deleteLanguage removes a language; its translations go with it via
// foreign key cascade.
func (h *Handler) deleteLanguage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		WriteBadRequest(w, "invalid language id")
		return
	}

	if _, err := h.q.GetLanguageByID(r.Context(), id); errors.Is(err, sql.ErrNoRows) {
		WriteNotFound(w, "language not found")
		return
	} else if err != nil {
		WriteInternalError(w, err)
		return
	}

	if err := h.q.DeleteLanguage(r.Context(), id); err != nil {
		WriteInternalError(w, err)
		return
	}

	h.languages.Invalidate()
	h.translations.InvalidateAll()
	WriteNoContent(w)
}

// activateLanguage switches the visitor's session to a language.
func (h *Handler) activateLanguage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		WriteBadRequest(w, "invalid language id")
		return
	}

	lang, err := h.sessions.UpdateLanguage(r.Context(), "", id)
	switch {
	case errors.Is(err, session.ErrMissingLanguage):
		WriteBadRequest(w, err.Error())
	case errors.Is(err, sql.ErrNoRows):
		WriteNotFound(w, "language not found")
	case err != nil:
		WriteInternalError(w, err)
	default:
		WriteSuccess(w, lang)
	}
}
