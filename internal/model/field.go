package model

// Field is a lookup row naming one translatable attribute of one
// application model. ContentType is a lowercase "package.type" label, e.g.
// "pages.page". Creating a Field triggers Item creation for every existing
// object of that type; deleting one cascades to its Items.
type Field struct {
	ID          int64  `json:"id"`
	ContentType string `json:"content_type"`
	Name        string `json:"name"`
}

// String returns "content_type.name".
func (f Field) String() string {
	return f.ContentType + "." + f.Name
}
