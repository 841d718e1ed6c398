package store

import (
	"context"
	"database/sql"

	"github.com/jkowal/dbtranslate/internal/model"
)

// CreateTranslationParams holds the values for a new translation row.
type CreateTranslationParams struct {
	LanguageID int64
	ItemID     int64
	Text       string
}

// CreateTranslation inserts a translation. Called by the cascade service
// only; text starts empty and is filled in by translators.
func (q *Queries) CreateTranslation(ctx context.Context, arg CreateTranslationParams) (model.Translation, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO ddt_translations (language_id, item_id, text) VALUES (?, ?, ?)`,
		arg.LanguageID, arg.ItemID, arg.Text,
	)
	if err != nil {
		return model.Translation{}, err
	}

	trans := model.Translation{LanguageID: arg.LanguageID, ItemID: arg.ItemID, Text: arg.Text}
	trans.ID, err = res.LastInsertId()
	if err != nil {
		return model.Translation{}, err
	}
	return trans, nil
}

// GetTranslationByID fetches a translation by primary key.
func (q *Queries) GetTranslationByID(ctx context.Context, id int64) (model.Translation, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, language_id, item_id, text FROM ddt_translations WHERE id = ?`, id)
	return scanTranslation(row)
}

// GetTranslationParams identifies a translation by its unique
// (item_id, language_id) pair.
type GetTranslationParams struct {
	ItemID     int64
	LanguageID int64
}

// GetTranslation fetches the text row for one item in one language.
func (q *Queries) GetTranslation(ctx context.Context, arg GetTranslationParams) (model.Translation, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, language_id, item_id, text FROM ddt_translations WHERE item_id = ? AND language_id = ?`,
		arg.ItemID, arg.LanguageID)
	return scanTranslation(row)
}

// ListTranslationsByItem returns all translations of one item across
// languages.
func (q *Queries) ListTranslationsByItem(ctx context.Context, itemID int64) ([]model.Translation, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, language_id, item_id, text FROM ddt_translations WHERE item_id = ?`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTranslations(rows)
}

// ListTranslationsForObjectParams filters translations by owning object,
// optionally narrowed to one language (LanguageID = 0 means all languages).
type ListTranslationsForObjectParams struct {
	ContentType string
	ObjectID    int64
	LanguageID  int64
}

// ListTranslationsForObject returns the translations of every item of one
// object instance.
func (q *Queries) ListTranslationsForObject(ctx context.Context, arg ListTranslationsForObjectParams) ([]model.Translation, error) {
	query := `SELECT t.id, t.language_id, t.item_id, t.text
		 FROM ddt_translations t
		 JOIN ddt_items i ON i.id = t.item_id
		 WHERE i.content_type = ? AND i.object_id = ?`
	args := []any{arg.ContentType, arg.ObjectID}
	if arg.LanguageID != 0 {
		query += ` AND t.language_id = ?`
		args = append(args, arg.LanguageID)
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTranslations(rows)
}

// UpdateTranslationTextParams holds a translation text update.
type UpdateTranslationTextParams struct {
	ID   int64
	Text string
}

// UpdateTranslationText sets the text of a translation. Returns
// sql.ErrNoRows when the row does not exist.
func (q *Queries) UpdateTranslationText(ctx context.Context, arg UpdateTranslationTextParams) (model.Translation, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE ddt_translations SET text = ? WHERE id = ?`, arg.Text, arg.ID)
	if err != nil {
		return model.Translation{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.Translation{}, err
	}
	if affected == 0 {
		return model.Translation{}, sql.ErrNoRows
	}
	return q.GetTranslationByID(ctx, arg.ID)
}

// DeleteTranslation removes a translation row.
func (q *Queries) DeleteTranslation(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM ddt_translations WHERE id = ?`, id)
	return err
}

// CountTranslations returns the total number of translation rows.
func (q *Queries) CountTranslations(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ddt_translations`).Scan(&count)
	return count, err
}

func scanTranslation(row *sql.Row) (model.Translation, error) {
	var trans model.Translation
	err := row.Scan(&trans.ID, &trans.LanguageID, &trans.ItemID, &trans.Text)
	return trans, err
}

func collectTranslations(rows *sql.Rows) ([]model.Translation, error) {
	var translations []model.Translation
	for rows.Next() {
		var trans model.Translation
		if err := rows.Scan(&trans.ID, &trans.LanguageID, &trans.ItemID, &trans.Text); err != nil {
			return nil, err
		}
		translations = append(translations, trans)
	}
	return translations, rows.Err()
}
