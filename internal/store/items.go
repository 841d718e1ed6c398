package store

import (
	"context"
	"database/sql"

	"github.com/jkowal/dbtranslate/internal/model"
)

// CreateItemParams holds the values for a new item row.
type CreateItemParams struct {
	FieldID     int64
	ObjectID    int64
	ContentType string
}

// CreateItem inserts an item. Called by the cascade service only.
func (q *Queries) CreateItem(ctx context.Context, arg CreateItemParams) (model.Item, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO ddt_items (field_id, object_id, content_type) VALUES (?, ?, ?)`,
		arg.FieldID, arg.ObjectID, arg.ContentType,
	)
	if err != nil {
		return model.Item{}, err
	}

	item := model.Item{FieldID: arg.FieldID, ObjectID: arg.ObjectID, ContentType: arg.ContentType}
	item.ID, err = res.LastInsertId()
	if err != nil {
		return model.Item{}, err
	}
	return item, nil
}

// GetItemByID fetches an item by primary key.
func (q *Queries) GetItemByID(ctx context.Context, id int64) (model.Item, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, field_id, object_id, content_type FROM ddt_items WHERE id = ?`, id)
	return scanItem(row)
}

// GetItemParams identifies an item by its unique (field_id, object_id) pair.
type GetItemParams struct {
	FieldID  int64
	ObjectID int64
}

// GetItem fetches the item binding one object instance to one field.
func (q *Queries) GetItem(ctx context.Context, arg GetItemParams) (model.Item, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, field_id, object_id, content_type FROM ddt_items WHERE field_id = ? AND object_id = ?`,
		arg.FieldID, arg.ObjectID)
	return scanItem(row)
}

// ListItemsByObjectParams identifies all items of one object instance.
type ListItemsByObjectParams struct {
	ContentType string
	ObjectID    int64
}

// ListItemsByObject returns all items of one object instance.
func (q *Queries) ListItemsByObject(ctx context.Context, arg ListItemsByObjectParams) ([]model.Item, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, field_id, object_id, content_type FROM ddt_items WHERE content_type = ? AND object_id = ?`,
		arg.ContentType, arg.ObjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectItems(rows)
}

// ListItemsByField returns all items attached to a field.
func (q *Queries) ListItemsByField(ctx context.Context, fieldID int64) ([]model.Item, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, field_id, object_id, content_type FROM ddt_items WHERE field_id = ?`, fieldID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectItems(rows)
}

// ListItems returns all items. Used by the cascade service when a language
// is added and every item needs a translation row.
func (q *Queries) ListItems(ctx context.Context) ([]model.Item, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, field_id, object_id, content_type FROM ddt_items`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectItems(rows)
}

// DeleteItem removes an item; its translations go with it via foreign key
// cascade.
func (q *Queries) DeleteItem(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM ddt_items WHERE id = ?`, id)
	return err
}

// DeleteItemsByObjectParams identifies the items of one object instance.
type DeleteItemsByObjectParams struct {
	ContentType string
	ObjectID    int64
}

// DeleteItemsByObject removes all items of one object instance.
func (q *Queries) DeleteItemsByObject(ctx context.Context, arg DeleteItemsByObjectParams) error {
	_, err := q.db.ExecContext(ctx,
		`DELETE FROM ddt_items WHERE content_type = ? AND object_id = ?`,
		arg.ContentType, arg.ObjectID)
	return err
}

// CountMissingTranslationsByItem returns the number of empty translations
// attached to an item.
func (q *Queries) CountMissingTranslationsByItem(ctx context.Context, itemID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ddt_translations WHERE item_id = ? AND text = ''`,
		itemID).Scan(&count)
	return count, err
}

func scanItem(row *sql.Row) (model.Item, error) {
	var item model.Item
	err := row.Scan(&item.ID, &item.FieldID, &item.ObjectID, &item.ContentType)
	return item, err
}

func collectItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(&item.ID, &item.FieldID, &item.ObjectID, &item.ContentType); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
