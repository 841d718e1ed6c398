// Package middleware holds the HTTP middleware for language detection and
// request throttling.
package middleware

import (
	"context"
	"net/http"

	"github.com/jkowal/dbtranslate/internal/i18n"
	"github.com/jkowal/dbtranslate/internal/session"
)

type contextKey string

const localeKey contextKey = "locale"

// Locale returns the request locale placed in the context by Language,
// falling back to the default locale.
func Locale(ctx context.Context) string {
	if locale, ok := ctx.Value(localeKey).(string); ok {
		return locale
	}
	return i18n.Default()
}

// Language resolves the request locale and stores it in the context.
// Precedence: ?lang query parameter, then the session, then the
// Accept-Language header, then the default. A valid ?lang value is
// persisted to the session so the choice sticks.
func Language(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			locale := ""

			if lang := r.URL.Query().Get("lang"); lang != "" && i18n.IsSupported(lang) {
				locale = lang
				// The language row may lag behind the registry; keep
				// serving with the requested locale either way.
				_, _ = sessions.UpdateLanguage(ctx, lang, 0)
			}

			if locale == "" {
				if sessionLocale, ok := sessions.ActiveLocale(ctx); ok && i18n.IsSupported(sessionLocale) {
					locale = sessionLocale
				}
			}

			if locale == "" {
				locale = i18n.Match(r.Header.Get("Accept-Language"))
			}

			if locale == "" {
				locale = i18n.Default()
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, localeKey, locale)))
		})
	}
}
