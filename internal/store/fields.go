package store

import (
	"context"
	"database/sql"

	"github.com/jkowal/dbtranslate/internal/model"
)

// CreateFieldParams holds the values for a new field row.
type CreateFieldParams struct {
	ContentType string
	Name        string
}

// CreateField inserts a field. Item rows for existing objects are created
// by the cascade service, not here.
func (q *Queries) CreateField(ctx context.Context, arg CreateFieldParams) (model.Field, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO ddt_fields (content_type, name) VALUES (?, ?)`,
		arg.ContentType, arg.Name,
	)
	if err != nil {
		return model.Field{}, err
	}

	field := model.Field{ContentType: arg.ContentType, Name: arg.Name}
	field.ID, err = res.LastInsertId()
	if err != nil {
		return model.Field{}, err
	}
	return field, nil
}

// GetFieldByID fetches a field by primary key.
func (q *Queries) GetFieldByID(ctx context.Context, id int64) (model.Field, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, content_type, name FROM ddt_fields WHERE id = ?`, id)
	return scanField(row)
}

// GetFieldParams identifies a field by its unique (content_type, name) pair.
type GetFieldParams struct {
	ContentType string
	Name        string
}

// GetField fetches the field for one translatable attribute of one model.
func (q *Queries) GetField(ctx context.Context, arg GetFieldParams) (model.Field, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, content_type, name FROM ddt_fields WHERE content_type = ? AND name = ?`,
		arg.ContentType, arg.Name)
	return scanField(row)
}

// ListFieldsByContentType returns all translatable fields of one model,
// ordered by name.
func (q *Queries) ListFieldsByContentType(ctx context.Context, contentType string) ([]model.Field, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, content_type, name FROM ddt_fields WHERE content_type = ? ORDER BY name`,
		contentType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFields(rows)
}

// ListFields returns all fields ordered by content type then name.
func (q *Queries) ListFields(ctx context.Context) ([]model.Field, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, content_type, name FROM ddt_fields ORDER BY content_type, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFields(rows)
}

// DeleteField removes a field; dependent items and their translations go
// with it via foreign key cascade.
func (q *Queries) DeleteField(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM ddt_fields WHERE id = ?`, id)
	return err
}

// CountItemsByField returns the number of items attached to a field.
func (q *Queries) CountItemsByField(ctx context.Context, fieldID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ddt_items WHERE field_id = ?`, fieldID).Scan(&count)
	return count, err
}

// CountMissingTranslationsByField returns the number of empty translations
// across all items of a field.
func (q *Queries) CountMissingTranslationsByField(ctx context.Context, fieldID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*)
		 FROM ddt_translations t
		 JOIN ddt_items i ON i.id = t.item_id
		 WHERE i.field_id = ? AND t.text = ''`,
		fieldID).Scan(&count)
	return count, err
}

func scanField(row *sql.Row) (model.Field, error) {
	var field model.Field
	err := row.Scan(&field.ID, &field.ContentType, &field.Name)
	return field, err
}

func collectFields(rows *sql.Rows) ([]model.Field, error) {
	var fields []model.Field
	for rows.Next() {
		var field model.Field
		if err := rows.Scan(&field.ID, &field.ContentType, &field.Name); err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, rows.Err()
}
