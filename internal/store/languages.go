package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jkowal/dbtranslate/internal/model"
)

// CreateLanguageParams holds the values for a new language row.
type CreateLanguageParams struct {
	Name   string
	ISO2   string
	ISO3   string
	Locale string
}

// CreateLanguage inserts a language. ISO codes are normalized to uppercase
// regardless of input case.
func (q *Queries) CreateLanguage(ctx context.Context, arg CreateLanguageParams) (model.Language, error) {
	lang := model.Language{
		Name:   arg.Name,
		ISO2:   strings.ToUpper(arg.ISO2),
		ISO3:   strings.ToUpper(arg.ISO3),
		Locale: arg.Locale,
	}

	res, err := q.db.ExecContext(ctx,
		`INSERT INTO ddt_languages (name, iso2, iso3, locale) VALUES (?, ?, ?, ?)`,
		lang.Name, lang.ISO2, lang.ISO3, lang.Locale,
	)
	if err != nil {
		return model.Language{}, err
	}

	lang.ID, err = res.LastInsertId()
	if err != nil {
		return model.Language{}, err
	}
	return lang, nil
}

// GetLanguageByID fetches a language by primary key.
func (q *Queries) GetLanguageByID(ctx context.Context, id int64) (model.Language, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, name, iso2, iso3, locale FROM ddt_languages WHERE id = ?`, id)
	return scanLanguage(row)
}

// GetLanguageByLocale fetches a language by its locale identifier.
func (q *Queries) GetLanguageByLocale(ctx context.Context, locale string) (model.Language, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, name, iso2, iso3, locale FROM ddt_languages WHERE locale = ?`, locale)
	return scanLanguage(row)
}

// GetLanguageByISO2 fetches a language by its two-letter code
// (case-insensitive, codes are stored uppercase).
func (q *Queries) GetLanguageByISO2(ctx context.Context, iso2 string) (model.Language, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, name, iso2, iso3, locale FROM ddt_languages WHERE iso2 = ?`,
		strings.ToUpper(iso2))
	return scanLanguage(row)
}

// ListLanguages returns all languages ordered by name.
func (q *Queries) ListLanguages(ctx context.Context) ([]model.Language, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, iso2, iso3, locale FROM ddt_languages ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var languages []model.Language
	for rows.Next() {
		var lang model.Language
		if err := rows.Scan(&lang.ID, &lang.Name, &lang.ISO2, &lang.ISO3, &lang.Locale); err != nil {
			return nil, err
		}
		languages = append(languages, lang)
	}
	return languages, rows.Err()
}

// UpdateLanguageParams holds the values for a language update.
type UpdateLanguageParams struct {
	ID     int64
	Name   string
	ISO2   string
	ISO3   string
	Locale string
}

// UpdateLanguage rewrites a language row. ISO codes are normalized to
// uppercase, matching CreateLanguage.
func (q *Queries) UpdateLanguage(ctx context.Context, arg UpdateLanguageParams) (model.Language, error) {
	lang := model.Language{
		ID:     arg.ID,
		Name:   arg.Name,
		ISO2:   strings.ToUpper(arg.ISO2),
		ISO3:   strings.ToUpper(arg.ISO3),
		Locale: arg.Locale,
	}

	res, err := q.db.ExecContext(ctx,
		`UPDATE ddt_languages SET name = ?, iso2 = ?, iso3 = ?, locale = ? WHERE id = ?`,
		lang.Name, lang.ISO2, lang.ISO3, lang.Locale, lang.ID,
	)
	if err != nil {
		return model.Language{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.Language{}, err
	}
	if affected == 0 {
		return model.Language{}, sql.ErrNoRows
	}
	return lang, nil
}

// DeleteLanguage removes a language; its translations go with it via
// foreign key cascade.
func (q *Queries) DeleteLanguage(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM ddt_languages WHERE id = ?`, id)
	return err
}

// CountLanguages returns the total number of languages.
func (q *Queries) CountLanguages(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ddt_languages`).Scan(&count)
	return count, err
}

// CountMissingTranslationsByLanguage returns the number of empty
// translations in the given language.
func (q *Queries) CountMissingTranslationsByLanguage(ctx context.Context, languageID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ddt_translations WHERE language_id = ? AND text = ''`,
		languageID).Scan(&count)
	return count, err
}

func scanLanguage(row *sql.Row) (model.Language, error) {
	var lang model.Language
	err := row.Scan(&lang.ID, &lang.Name, &lang.ISO2, &lang.ISO3, &lang.Locale)
	return lang, err
}
