package api

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jkowal/dbtranslate/internal/model"
	"github.com/jkowal/dbtranslate/internal/service"
)

type fieldRequest struct {
	ContentType string `json:"content_type"`
	Name        string `json:"name"`
}

func (h *Handler) listFields(w http.ResponseWriter, r *http.Request) {
	var (
		fields []model.Field
		err    error
	)
	if contentType := r.URL.Query().Get("content_type"); contentType != "" {
		fields, err = h.q.ListFieldsByContentType(r.Context(), contentType)
	} else {
		fields, err = h.q.ListFields(r.Context())
	}
	if err != nil {
		WriteInternalError(w, err)
		return
	}
	WriteSuccess(w, fields)
}

func (h *Handler) getField(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		WriteBadRequest(w, "invalid field id")
		return
	}

	field, err := h.q.GetFieldByID(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		WriteNotFound(w, "field not found")
		return
	}
	if err != nil {
		WriteInternalError(w, err)
		return
	}
	WriteSuccess(w, field)
}

// createField registers a translatable field and fans out item and
// translation rows for every existing object of its content type.
func (h *Handler) createField(w http.ResponseWriter, r *http.Request) {
	var req fieldRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "invalid request body")
		return
	}
	if req.ContentType == "" || req.Name == "" {
		WriteBadRequest(w, "content_type and name are required")
		return
	}

	field, err := h.cascade.CreateField(r.Context(), req.ContentType, req.Name)
	if errors.Is(err, service.ErrUnknownContentType) {
		WriteBadRequest(w, "unknown content type: "+req.ContentType)
		return
	}
	if isUniqueViolation(err) {
		WriteConflict(w, "that field is already registered")
		return
	}
	if err != nil {
		WriteInternalError(w, err)
		return
	}
	WriteCreated(w, field)
}

// deleteField removes a field; dependent items and translations go with it
// via foreign key cascade.
func (h *Handler) deleteField(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		WriteBadRequest(w, "invalid field id")
		return
	}

	if _, err := h.q.GetFieldByID(r.Context(), id); errors.Is(err, sql.ErrNoRows) {
		WriteNotFound(w, "field not found")
		return
	} else if err != nil {
		WriteInternalError(w, err)
		return
	}

	// Item ids are gone after the cascade; collect them first so the
	// cached text can be dropped too.
	items, err := h.q.ListItemsByField(r.Context(), id)
	if err != nil {
		WriteInternalError(w, err)
		return
	}

	if err := h.q.DeleteField(r.Context(), id); err != nil {
		WriteInternalError(w, err)
		return
	}

	for _, item := range items {
		h.translations.InvalidateItem(item.ID)
	}
	WriteNoContent(w)
}

func (h *Handler) listContentTypes(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, h.cascade.ContentTypes())
}
