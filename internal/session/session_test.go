package session_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jkowal/dbtranslate/internal/i18n"
	"github.com/jkowal/dbtranslate/internal/session"
	"github.com/jkowal/dbtranslate/internal/store"
	"github.com/jkowal/dbtranslate/internal/testutil"
)

func newManager(t *testing.T) (*session.Manager, context.Context) {
	t.Helper()

	if err := i18n.Init(nil, []string{"en-US", "fr-FR"}, "en-US"); err != nil {
		t.Fatalf("i18n.Init: %v", err)
	}

	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	for _, params := range []store.CreateLanguageParams{
		{Name: "English", ISO2: "EN", ISO3: "ENG", Locale: "en-US"},
		{Name: "French", ISO2: "FR", ISO3: "FRA", Locale: "fr-FR"},
	} {
		if _, err := q.CreateLanguage(ctx, params); err != nil {
			t.Fatalf("creating language: %v", err)
		}
	}

	sm := session.New(db, true)
	sessionCtx, err := sm.Load(ctx, "")
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}
	return session.NewManager(sm, q), sessionCtx
}

func TestActiveLocaleEmptySession(t *testing.T) {
	m, ctx := newManager(t)

	if locale, ok := m.ActiveLocale(ctx); ok {
		t.Errorf("fresh session has locale %q", locale)
	}
}

func TestUpdateLanguageByLocale(t *testing.T) {
	m, ctx := newManager(t)

	lang, err := m.UpdateLanguage(ctx, "fr-FR", 0)
	if err != nil {
		t.Fatalf("UpdateLanguage: %v", err)
	}
	if lang.Name != "French" {
		t.Errorf("language = %q, want French", lang.Name)
	}

	locale, ok := m.ActiveLocale(ctx)
	if !ok || locale != "fr-FR" {
		t.Errorf("session locale = %q/%v, want fr-FR", locale, ok)
	}
	if got := i18n.Active(); got != "fr-FR" {
		t.Errorf("active locale = %q, want fr-FR", got)
	}
}

func TestUpdateLanguageByID(t *testing.T) {
	m, ctx := newManager(t)

	byLocale, err := m.UpdateLanguage(ctx, "en-US", 0)
	if err != nil {
		t.Fatalf("UpdateLanguage by locale: %v", err)
	}

	lang, err := m.UpdateLanguage(ctx, "", byLocale.ID)
	if err != nil {
		t.Fatalf("UpdateLanguage by id: %v", err)
	}
	if lang.Locale != "en-US" {
		t.Errorf("locale = %q, want en-US", lang.Locale)
	}
}

func TestLanguage(t *testing.T) {
	m, ctx := newManager(t)

	if _, err := m.Language(ctx); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("fresh session: err = %v, want sql.ErrNoRows", err)
	}

	if _, err := m.UpdateLanguage(ctx, "fr-FR", 0); err != nil {
		t.Fatalf("UpdateLanguage: %v", err)
	}

	lang, err := m.Language(ctx)
	if err != nil {
		t.Fatalf("Language: %v", err)
	}
	if lang.Name != "French" {
		t.Errorf("language = %q, want French", lang.Name)
	}
}

func TestUpdateLanguageErrors(t *testing.T) {
	m, ctx := newManager(t)

	if _, err := m.UpdateLanguage(ctx, "", 0); !errors.Is(err, session.ErrMissingLanguage) {
		t.Errorf("no identifier: err = %v, want ErrMissingLanguage", err)
	}
	if _, err := m.UpdateLanguage(ctx, "xx-XX", 0); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("unknown locale: err = %v, want sql.ErrNoRows", err)
	}
	if _, err := m.UpdateLanguage(ctx, "", 9999); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("unknown id: err = %v, want sql.ErrNoRows", err)
	}

	// Failed updates must not touch the session.
	if locale, ok := m.ActiveLocale(ctx); ok {
		t.Errorf("session locale set to %q by failed update", locale)
	}
}
