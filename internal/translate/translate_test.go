package translate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jkowal/dbtranslate/internal/model"
	"github.com/jkowal/dbtranslate/internal/service"
	"github.com/jkowal/dbtranslate/internal/store"
	"github.com/jkowal/dbtranslate/internal/testutil"
	"github.com/jkowal/dbtranslate/internal/translate"
)

// page is a translatable application model used as a fixture.
type page struct {
	model.TranslatedModel
	ID    int64         `json:"id"`
	Title model.ItemRef `json:"title"`
	Body  model.ItemRef `json:"body"`
	Cover model.File    `json:"cover"`
}

type fixture struct {
	q        *store.Queries
	resolver *translate.Resolver
	english  model.Language
	french   model.Language
	page     page
}

// newFixture builds one page with title and body fields, an English text
// for both and a French text for the title only.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	english, err := q.CreateLanguage(ctx, store.CreateLanguageParams{
		Name: "English", ISO2: "EN", ISO3: "ENG", Locale: "en-US",
	})
	if err != nil {
		t.Fatalf("creating english: %v", err)
	}
	french, err := q.CreateLanguage(ctx, store.CreateLanguageParams{
		Name: "French", ISO2: "FR", ISO3: "FRA", Locale: "fr-FR",
	})
	if err != nil {
		t.Fatalf("creating french: %v", err)
	}

	contentType := model.ContentTypeOf(page{})
	cascade := service.NewCascade(db, testutil.TestLogger())
	cascade.RegisterModel(contentType, func(context.Context) ([]int64, error) {
		return []int64{1}, nil
	})

	if _, err := cascade.CreateField(ctx, contentType, "title"); err != nil {
		t.Fatalf("creating title field: %v", err)
	}
	if _, err := cascade.CreateField(ctx, contentType, "body"); err != nil {
		t.Fatalf("creating body field: %v", err)
	}

	f := &fixture{
		q:        q,
		resolver: translate.NewResolver(q, nil),
		english:  english,
		french:   french,
	}

	titleItem, err := f.resolver.Item(ctx, page{ID: 1}, "title")
	if err != nil {
		t.Fatalf("resolving title item: %v", err)
	}
	bodyItem, err := f.resolver.Item(ctx, page{ID: 1}, "body")
	if err != nil {
		t.Fatalf("resolving body item: %v", err)
	}

	f.page = page{
		TranslatedModel: model.TranslatedModel{MetaInfo: "homepage"},
		ID:              1,
		Title:           model.ItemRef(titleItem.ID),
		Body:            model.ItemRef(bodyItem.ID),
		Cover:           model.File{Name: "cover.png", URL: "/media/cover.png", Path: "media/cover.png"},
	}

	f.setText(t, titleItem.ID, english.ID, "Home")
	f.setText(t, bodyItem.ID, english.ID, "Welcome")
	f.setText(t, titleItem.ID, french.ID, "Accueil")
	return f
}

func (f *fixture) setText(t *testing.T, itemID, languageID int64, text string) {
	t.Helper()
	ctx := context.Background()
	trans, err := f.q.GetTranslation(ctx, store.GetTranslationParams{ItemID: itemID, LanguageID: languageID})
	if err != nil {
		t.Fatalf("fetching translation: %v", err)
	}
	if _, err := f.q.UpdateTranslationText(ctx, store.UpdateTranslationTextParams{ID: trans.ID, Text: text}); err != nil {
		t.Fatalf("updating translation: %v", err)
	}
}

func TestResolverTranslation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	trans, err := f.resolver.Translation(ctx, f.page, "title", translate.Lookup{Locale: "fr-FR"})
	if err != nil {
		t.Fatalf("Translation: %v", err)
	}
	if trans.Text != "Accueil" {
		t.Errorf("french title = %q, want Accueil", trans.Text)
	}

	trans, err = f.resolver.Translation(ctx, f.page, "body", translate.Lookup{LanguageID: f.french.ID})
	if err != nil {
		t.Fatalf("Translation(body): %v", err)
	}
	if trans.Text != "" {
		t.Errorf("untranslated body = %q, want empty", trans.Text)
	}
}

func TestResolverErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.resolver.Translation(ctx, f.page, "subtitle", translate.Lookup{Locale: "en-US"})
	if !errors.Is(err, translate.ErrMissingField) {
		t.Errorf("unknown field: err = %v, want ErrMissingField", err)
	}

	_, err = f.resolver.Translation(ctx, f.page, "title", translate.Lookup{Locale: "xx-XX"})
	if !errors.Is(err, translate.ErrMissingLanguage) {
		t.Errorf("unknown locale: err = %v, want ErrMissingLanguage", err)
	}

	_, err = f.resolver.Translation(ctx, f.page, "title", translate.Lookup{})
	if !errors.Is(err, translate.ErrMissingLanguage) {
		t.Errorf("empty lookup: err = %v, want ErrMissingLanguage", err)
	}
}

func TestResolverTranslations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	all, err := f.resolver.AllTranslations(ctx, f.page)
	if err != nil {
		t.Fatalf("AllTranslations: %v", err)
	}
	// 2 fields x 2 languages.
	if len(all) != 4 {
		t.Errorf("got %d translations, want 4", len(all))
	}

	english, err := f.resolver.Translations(ctx, f.page, translate.Lookup{LanguageID: f.english.ID})
	if err != nil {
		t.Fatalf("Translations: %v", err)
	}
	if len(english) != 2 {
		t.Errorf("got %d english translations, want 2", len(english))
	}
}

func TestInstanceAsDict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dict, err := translate.InstanceAsDict(ctx, f.resolver, f.page, translate.DictOptions{Locale: "en-US"})
	if err != nil {
		t.Fatalf("InstanceAsDict: %v", err)
	}

	if dict["title"] != "Home" {
		t.Errorf("title = %v, want Home", dict["title"])
	}
	if dict["body"] != "Welcome" {
		t.Errorf("body = %v, want Welcome", dict["body"])
	}
	if dict["title_id"] != int64(f.page.Title) {
		t.Errorf("title_id = %v, want %d", dict["title_id"], f.page.Title)
	}
	if dict["meta_info"] != "homepage" {
		t.Errorf("meta_info = %v", dict["meta_info"])
	}
	if dict["id"] != int64(1) {
		t.Errorf("id = %v", dict["id"])
	}

	cover, ok := dict["cover"].(map[string]any)
	if !ok {
		t.Fatalf("cover = %T, want map", dict["cover"])
	}
	if cover["url"] != "/media/cover.png" {
		t.Errorf("cover url = %v", cover["url"])
	}
}

func TestInstanceAsDictFrench(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dict, err := translate.InstanceAsDict(ctx, f.resolver, f.page, translate.DictOptions{LanguageID: f.french.ID})
	if err != nil {
		t.Fatalf("InstanceAsDict: %v", err)
	}
	if dict["title"] != "Accueil" {
		t.Errorf("title = %v, want Accueil", dict["title"])
	}
	if dict["body"] != "" {
		t.Errorf("untranslated body = %v, want empty string", dict["body"])
	}
}

func TestInstanceAsDictZeroFile(t *testing.T) {
	f := newFixture(t)
	f.page.Cover = model.File{}

	dict, err := translate.InstanceAsDict(context.Background(), f.resolver, f.page, translate.DictOptions{Locale: "en-US"})
	if err != nil {
		t.Fatalf("InstanceAsDict: %v", err)
	}
	if dict["cover"] != "" {
		t.Errorf("zero file = %v, want empty string", dict["cover"])
	}
}

// section nests a translatable page to exercise recursive serialization.
type section struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
	Page  page   `json:"page"`
	Pages []page `json:"pages"`
}

func TestInstanceAsDictNested(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sec := section{ID: 5, Label: "main", Page: f.page, Pages: []page{f.page}}

	dict, err := translate.InstanceAsDict(ctx, f.resolver, sec, translate.DictOptions{Locale: "en-US"})
	if err != nil {
		t.Fatalf("InstanceAsDict: %v", err)
	}

	nested, ok := dict["page"].(map[string]any)
	if !ok {
		t.Fatalf("page = %T, want map", dict["page"])
	}
	if nested["title"] != "Home" {
		t.Errorf("nested title = %v, want Home", nested["title"])
	}

	nestedSlice, ok := dict["pages"].([]map[string]any)
	if !ok {
		t.Fatalf("pages = %T, want []map", dict["pages"])
	}
	if len(nestedSlice) != 1 || nestedSlice[0]["title"] != "Home" {
		t.Errorf("nested slice = %v", nestedSlice)
	}
}

func TestInstanceAsDictShallow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sec := section{ID: 5, Label: "main", Page: f.page, Pages: []page{f.page}}

	dict, err := translate.InstanceAsDict(ctx, f.resolver, sec, translate.DictOptions{Locale: "en-US", Shallow: true})
	if err != nil {
		t.Fatalf("InstanceAsDict: %v", err)
	}

	// Nested references pass through unconverted, never disappear.
	got, ok := dict["page"].(page)
	if !ok {
		t.Fatalf("shallow page = %T, want page", dict["page"])
	}
	if got.Title != f.page.Title {
		t.Errorf("shallow page = %+v", got)
	}

	gotSlice, ok := dict["pages"].([]page)
	if !ok {
		t.Fatalf("shallow pages = %T, want []page", dict["pages"])
	}
	if len(gotSlice) != 1 {
		t.Errorf("shallow pages = %v", gotSlice)
	}

	if dict["label"] != "main" {
		t.Errorf("label = %v", dict["label"])
	}
}

func TestResolverFields(t *testing.T) {
	f := newFixture(t)

	fields, err := f.resolver.Fields(context.Background(), f.page)
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}
	if len(fields) != 2 {
		t.Fatalf("got %d fields, want 2", len(fields))
	}
	// ListFieldsByContentType orders by name.
	if fields[0].Name != "body" || fields[1].Name != "title" {
		t.Errorf("fields = %v, %v", fields[0].Name, fields[1].Name)
	}
}

type staticLocale string

func (s staticLocale) ActiveLocale(context.Context) (string, bool) {
	return string(s), s != ""
}

func TestInstanceAsDictLanguageSelection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := translate.InstanceAsDict(ctx, f.resolver, f.page, translate.DictOptions{})
	if !errors.Is(err, translate.ErrLanguageRequired) {
		t.Errorf("no language: err = %v, want ErrLanguageRequired", err)
	}

	_, err = translate.InstanceAsDict(ctx, f.resolver, f.page, translate.DictOptions{Session: staticLocale("")})
	if !errors.Is(err, translate.ErrLanguageRequired) {
		t.Errorf("empty session: err = %v, want ErrLanguageRequired", err)
	}

	dict, err := translate.InstanceAsDict(ctx, f.resolver, f.page, translate.DictOptions{Session: staticLocale("fr-FR")})
	if err != nil {
		t.Fatalf("InstanceAsDict with session: %v", err)
	}
	if dict["title"] != "Accueil" {
		t.Errorf("session-selected title = %v, want Accueil", dict["title"])
	}
}

func TestInstancesAsDict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dicts, err := translate.InstancesAsDict(ctx, f.resolver, []page{f.page}, translate.DictOptions{Locale: "en-US"})
	if err != nil {
		t.Fatalf("InstancesAsDict: %v", err)
	}
	if len(dicts) != 1 {
		t.Fatalf("got %d dicts, want 1", len(dicts))
	}
	if dicts[0]["title"] != "Home" {
		t.Errorf("title = %v", dicts[0]["title"])
	}
}
