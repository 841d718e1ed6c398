package api

import "net/http"

type statusResponse struct {
	Languages    int64 `json:"languages"`
	Fields       int   `json:"fields"`
	Translations int64 `json:"translations"`
	CacheHits    int64 `json:"cache_hits"`
	CacheMisses  int64 `json:"cache_misses"`
}

// status reports table sizes and cache counters.
func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	languages, err := h.q.CountLanguages(r.Context())
	if err != nil {
		WriteInternalError(w, err)
		return
	}
	fields, err := h.q.ListFields(r.Context())
	if err != nil {
		WriteInternalError(w, err)
		return
	}
	translations, err := h.q.CountTranslations(r.Context())
	if err != nil {
		WriteInternalError(w, err)
		return
	}

	hits, misses := h.translations.Stats()
	WriteSuccess(w, statusResponse{
		Languages:    languages,
		Fields:       len(fields),
		Translations: translations,
		CacheHits:    hits,
		CacheMisses:  misses,
	})
}
