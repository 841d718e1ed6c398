package translate

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/jkowal/dbtranslate/internal/model"
)

// ErrLanguageRequired is returned when serialization cannot determine a
// target language from the options or the session.
var ErrLanguageRequired = errors.New("a language is required for serialization")

// LanguageSource supplies the visitor's chosen locale, typically backed by
// the session. The second result is false when no language was chosen.
type LanguageSource interface {
	ActiveLocale(ctx context.Context) (string, bool)
}

// DictOptions controls InstanceAsDict. The target language is taken from
// LanguageID, then Locale, then Session; with none set the call fails with
// ErrLanguageRequired.
type DictOptions struct {
	LanguageID int64
	Locale     string
	Session    LanguageSource

	// Shallow skips nested translatable structs instead of recursing.
	Shallow bool
}

func (o DictOptions) lookup(ctx context.Context) (Lookup, error) {
	if o.LanguageID != 0 {
		return Lookup{LanguageID: o.LanguageID}, nil
	}
	if o.Locale != "" {
		return Lookup{Locale: o.Locale}, nil
	}
	if o.Session != nil {
		if locale, ok := o.Session.ActiveLocale(ctx); ok {
			return Lookup{Locale: locale}, nil
		}
	}
	return Lookup{}, ErrLanguageRequired
}

// InstanceAsDict serializes one model instance to a map, replacing every
// ItemRef field with its translated text in the target language. The raw
// item id stays available under "<field>_id", and file references flatten
// to {name, url, path} maps.
func InstanceAsDict(ctx context.Context, r *Resolver, v any, opts DictOptions) (map[string]any, error) {
	lookup, err := opts.lookup(ctx)
	if err != nil {
		return nil, err
	}
	lang, err := r.Language(ctx, lookup)
	if err != nil {
		return nil, err
	}
	return instanceAsDict(ctx, r, v, lang.ID, opts.Shallow)
}

// InstancesAsDict serializes a slice of model instances the way
// InstanceAsDict serializes one.
func InstancesAsDict[T any](ctx context.Context, r *Resolver, instances []T, opts DictOptions) ([]map[string]any, error) {
	lookup, err := opts.lookup(ctx)
	if err != nil {
		return nil, err
	}
	lang, err := r.Language(ctx, lookup)
	if err != nil {
		return nil, err
	}

	dicts := make([]map[string]any, 0, len(instances))
	for _, instance := range instances {
		dict, err := instanceAsDict(ctx, r, instance, lang.ID, opts.Shallow)
		if err != nil {
			return nil, err
		}
		dicts = append(dicts, dict)
	}
	return dicts, nil
}

func instanceAsDict(ctx context.Context, r *Resolver, v any, languageID int64, shallow bool) (map[string]any, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("serializing: nil pointer")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("serializing: %T is not a struct", v)
	}

	dict := make(map[string]any)
	if err := collectFields(ctx, r, rv, languageID, shallow, dict); err != nil {
		return nil, err
	}
	return dict, nil
}

var (
	itemRefType = reflect.TypeOf(model.ItemRef(0))
	fileType    = reflect.TypeOf(model.File{})
)

func collectFields(ctx context.Context, r *Resolver, rv reflect.Value, languageID int64, shallow bool, dict map[string]any) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		fv := rv.Field(i)

		// Embedded structs contribute their fields at the top level,
		// matching encoding/json promotion.
		if sf.Anonymous && fv.Kind() == reflect.Struct && sf.Type != fileType {
			if err := collectFields(ctx, r, fv, languageID, shallow, dict); err != nil {
				return err
			}
			continue
		}

		name := jsonName(sf)
		if name == "-" {
			continue
		}

		switch {
		case sf.Type == itemRefType:
			itemID := fv.Int()
			text, err := r.Text(ctx, itemID, languageID)
			if err != nil {
				return fmt.Errorf("translating field %q (item %d): %w", name, itemID, err)
			}
			dict[name] = text
			dict[name+"_id"] = itemID

		case sf.Type == fileType:
			file := fv.Interface().(model.File)
			if file.IsZero() {
				dict[name] = ""
				break
			}
			dict[name] = map[string]any{"name": file.Name, "url": file.URL, "path": file.Path}

		case isTranslatableStruct(fv):
			// Shallow serialization passes nested references through
			// unconverted instead of recursing.
			if shallow {
				dict[name] = fv.Interface()
				break
			}
			nested, err := instanceAsDict(ctx, r, fv.Interface(), languageID, shallow)
			if err != nil {
				return fmt.Errorf("serializing nested field %q: %w", name, err)
			}
			dict[name] = nested

		case fv.Kind() == reflect.Slice && fv.Type().Elem().Kind() == reflect.Struct && fv.Len() > 0 && isTranslatableStruct(fv.Index(0)):
			if shallow {
				dict[name] = fv.Interface()
				break
			}
			nested := make([]map[string]any, 0, fv.Len())
			for j := 0; j < fv.Len(); j++ {
				d, err := instanceAsDict(ctx, r, fv.Index(j).Interface(), languageID, shallow)
				if err != nil {
					return fmt.Errorf("serializing nested field %q[%d]: %w", name, j, err)
				}
				nested = append(nested, d)
			}
			dict[name] = nested

		default:
			dict[name] = fv.Interface()
		}
	}
	return nil
}

// isTranslatableStruct reports whether a value is a struct carrying at
// least one ItemRef field, directly or via embedding.
func isTranslatableStruct(fv reflect.Value) bool {
	for fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			return false
		}
		fv = fv.Elem()
	}
	if fv.Kind() != reflect.Struct {
		return false
	}
	rt := fv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.Type == itemRefType {
			return true
		}
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && isTranslatableStruct(fv.Field(i)) {
			return true
		}
	}
	return false
}

func jsonName(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "" {
		return strings.ToLower(sf.Name)
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return strings.ToLower(sf.Name)
	}
	return name
}
