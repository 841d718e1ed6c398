package model

import (
	"fmt"
	"reflect"
	"strings"
)

// Translatable lets an application model declare its own content type label
// and object id. Models that do not implement it are resolved by reflection
// in RefOf.
type Translatable interface {
	TranslationContentType() string
	TranslationObjectID() int64
}

// TranslatedModel is embedded by application models that carry translatable
// fields. MetaInfo is a short internal description of the instance, not
// shown in the frontend.
type TranslatedModel struct {
	MetaInfo string `json:"meta_info"`
}

// String returns the meta information.
func (m TranslatedModel) String() string {
	return m.MetaInfo
}

// EntityRef identifies one application object for translation lookups.
type EntityRef struct {
	ContentType string
	ObjectID    int64
}

// ContentTypeOf derives the content type label for a value: the last
// element of its package path plus the lowercased type name, e.g.
// "pages.page". Pointers are unwrapped first.
func ContentTypeOf(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	pkg := t.PkgPath()
	if idx := strings.LastIndex(pkg, "/"); idx >= 0 {
		pkg = pkg[idx+1:]
	}
	name := strings.ToLower(t.Name())
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

// RefOf resolves the EntityRef for a value. Values implementing
// Translatable are asked directly; otherwise the content type is derived
// from the type and the object id read from an int64 ID field.
func RefOf(v any) (EntityRef, error) {
	if t, ok := v.(Translatable); ok {
		return EntityRef{ContentType: t.TranslationContentType(), ObjectID: t.TranslationObjectID()}, nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return EntityRef{}, fmt.Errorf("resolving entity ref: nil pointer")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return EntityRef{}, fmt.Errorf("resolving entity ref: %T is not a struct", v)
	}

	idField := rv.FieldByName("ID")
	if !idField.IsValid() || !idField.CanInt() {
		return EntityRef{}, fmt.Errorf("resolving entity ref: %T has no int64 ID field", v)
	}

	return EntityRef{ContentType: ContentTypeOf(v), ObjectID: idField.Int()}, nil
}
