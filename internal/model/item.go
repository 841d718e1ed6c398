package model

import "strconv"

// Item is a content row binding one concrete object instance to one Field.
// (ContentType, ObjectID) is the polymorphic reference to the owning
// object. Items are created and deleted only by cascade reactions, never
// directly by API consumers.
type Item struct {
	ID          int64  `json:"id"`
	FieldID     int64  `json:"field_id"`
	ObjectID    int64  `json:"object_id"`
	ContentType string `json:"content_type"`
}

// String returns "content_type.object_id".
func (i Item) String() string {
	return i.ContentType + "." + strconv.FormatInt(i.ObjectID, 10)
}

// ItemRef is the type application models use for translatable fields: the
// field holds the Item's primary key instead of text, and serialization
// substitutes the per-language translation.
type ItemRef int64
