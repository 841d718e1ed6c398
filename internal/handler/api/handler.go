package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jkowal/dbtranslate/internal/cache"
	"github.com/jkowal/dbtranslate/internal/service"
	"github.com/jkowal/dbtranslate/internal/session"
	"github.com/jkowal/dbtranslate/internal/store"
	"github.com/jkowal/dbtranslate/internal/translate"
)

// Handler bundles the API endpoints and their dependencies.
type Handler struct {
	q            *store.Queries
	cascade      *service.Cascade
	resolver     *translate.Resolver
	sessions     *session.Manager
	languages    *cache.Languages
	translations *cache.Translations
	logger       *slog.Logger
}

// NewHandler creates the API handler.
func NewHandler(
	q *store.Queries,
	cascade *service.Cascade,
	resolver *translate.Resolver,
	sessions *session.Manager,
	languages *cache.Languages,
	translations *cache.Translations,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		q:            q,
		cascade:      cascade,
		resolver:     resolver,
		sessions:     sessions,
		languages:    languages,
		translations: translations,
		logger:       logger,
	}
}

// Routes mounts every endpoint on a fresh router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/languages", func(r chi.Router) {
		r.Get("/", h.listLanguages)
		r.Post("/", h.createLanguage)
		r.Get("/{id}", h.getLanguage)
		r.Put("/{id}", h.updateLanguage)
		r.Delete("/{id}", h.deleteLanguage)
		r.Post("/{id}/activate", h.activateLanguage)
	})

	r.Route("/fields", func(r chi.Router) {
		r.Get("/", h.listFields)
		r.Post("/", h.createField)
		r.Get("/{id}", h.getField)
		r.Delete("/{id}", h.deleteField)
	})

	r.Get("/content-types", h.listContentTypes)
	r.Get("/status", h.status)

	r.Route("/objects/{contentType}/{objectID}", func(r chi.Router) {
		r.Post("/", h.objectCreated)
		r.Delete("/", h.objectDeleted)
		r.Get("/translations", h.listObjectTranslations)
		r.Get("/dict", h.objectDict)
	})

	r.Route("/translations", func(r chi.Router) {
		r.Get("/{id}", h.getTranslation)
		r.Put("/{id}", h.updateTranslation)
	})

	r.Get("/stats/missing", h.missingStats)

	return r
}

// idParam parses the {id} URL parameter.
func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// isUniqueViolation reports whether an error is a SQLite unique constraint
// failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
