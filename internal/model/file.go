package model

// File points at an uploaded file belonging to an application model.
// Serialization flattens it to a {name, url, path} map.
type File struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Path string `json:"path"`
}

// IsZero reports whether the file reference is empty.
func (f File) IsZero() bool {
	return f == File{}
}

// Image is a File that holds image content.
type Image = File
