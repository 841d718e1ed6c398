// Package session wires alexedwards/scs with SQLite-backed storage and
// keeps the visitor's chosen language in the session.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/jkowal/dbtranslate/internal/i18n"
	"github.com/jkowal/dbtranslate/internal/model"
	"github.com/jkowal/dbtranslate/internal/store"
)

// LanguageKey is the session key holding the visitor's chosen locale.
const LanguageKey = "ddt_language"

// ErrMissingLanguage is returned by UpdateLanguage when neither a locale
// nor a language id is supplied.
var ErrMissingLanguage = errors.New("a locale or language id is required")

// New creates a session manager backed by the sessions table.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)
	sm.Lifetime = 24 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev
	return sm
}

// Manager couples the session manager with the language store so the
// chosen language can be validated and activated in one step.
type Manager struct {
	sm *scs.SessionManager
	q  *store.Queries
}

// NewManager creates a language-aware session manager.
func NewManager(sm *scs.SessionManager, q *store.Queries) *Manager {
	return &Manager{sm: sm, q: q}
}

// Sessions exposes the underlying scs manager for middleware wiring.
func (m *Manager) Sessions() *scs.SessionManager {
	return m.sm
}

// UpdateLanguage switches the visitor to a language identified by locale or
// id, activates its locale, and remembers the choice in the session. At
// least one identifier must be given.
func (m *Manager) UpdateLanguage(ctx context.Context, locale string, languageID int64) (model.Language, error) {
	var (
		lang model.Language
		err  error
	)
	switch {
	case languageID != 0:
		lang, err = m.q.GetLanguageByID(ctx, languageID)
	case locale != "":
		lang, err = m.q.GetLanguageByLocale(ctx, locale)
	default:
		return model.Language{}, ErrMissingLanguage
	}
	if errors.Is(err, sql.ErrNoRows) {
		return model.Language{}, fmt.Errorf("language not found: %w", err)
	}
	if err != nil {
		return model.Language{}, fmt.Errorf("looking up language: %w", err)
	}

	if err := i18n.Activate(lang.Locale); err != nil {
		return model.Language{}, err
	}

	m.sm.Put(ctx, LanguageKey, lang.Locale)
	return lang, nil
}

// Language resolves the full language row for the session's stored locale.
// Returns sql.ErrNoRows when no language is chosen or the stored locale no
// longer matches a row.
func (m *Manager) Language(ctx context.Context) (model.Language, error) {
	locale, ok := m.ActiveLocale(ctx)
	if !ok {
		return model.Language{}, sql.ErrNoRows
	}
	return m.q.GetLanguageByLocale(ctx, locale)
}

// ActiveLocale returns the locale stored in the session, or false when the
// visitor has not chosen a language yet.
func (m *Manager) ActiveLocale(ctx context.Context) (string, bool) {
	locale := m.sm.GetString(ctx, LanguageKey)
	if locale == "" {
		return "", false
	}
	return locale, true
}
