package interpolation

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
)

// TagName marks fields to expand. Only the value "yes" enables expansion.
const TagName = "env_interpolation"

// ErrNotStruct is returned when InterpolateStruct is given anything but a struct
// or a pointer to one.
var ErrNotStruct = errors.New("expected struct or pointer to struct")

// InterpolateStruct expands tagged fields of v in place against the process
// environment. Strings, string maps, string slices and nested structs (or
// pointers to them, or slices of either) are handled.
func InterpolateStruct(v any) error {
	return InterpolateStructWith(v, os.LookupEnv)
}

// InterpolateStructWith is InterpolateStruct with a custom lookup.
func InterpolateStructWith(v any, lookup LookupFunc) error {
	if v == nil {
		return nil
	}

	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Pointer {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("%w, got %T", ErrNotStruct, v)
	}
	if !val.CanAddr() {
		return fmt.Errorf("%w, got a non-pointer %T", ErrNotStruct, v)
	}

	w := walker{lookup: lookup}
	w.walkStruct(val, "")
	return errors.Join(w.errs...)
}

type walker struct {
	lookup LookupFunc
	errs   []error
}

func (w *walker) walkStruct(val reflect.Value, prefix string) {
	typ := val.Type()
	for i := range val.NumField() {
		field := val.Field(i)
		info := typ.Field(i)
		if !field.CanSet() || !strings.EqualFold(info.Tag.Get(TagName), "yes") {
			continue
		}
		w.walkValue(field, prefix+info.Name)
	}
}

func (w *walker) walkValue(field reflect.Value, path string) {
	switch field.Kind() {
	case reflect.String:
		w.expandInto(field, path)

	case reflect.Map:
		if field.IsNil() || field.Type().Key().Kind() != reflect.String ||
			field.Type().Elem().Kind() != reflect.String {
			return
		}
		for _, key := range field.MapKeys() {
			expanded, err := Expand(field.MapIndex(key).String(), w.lookup)
			if err != nil {
				w.errs = append(w.errs, fmt.Errorf("field %s[%s]: %w", path, key.String(), err))
				continue
			}
			field.SetMapIndex(key, reflect.ValueOf(expanded).Convert(field.Type().Elem()))
		}

	case reflect.Slice:
		for j := range field.Len() {
			w.walkElem(field.Index(j), fmt.Sprintf("%s[%d]", path, j))
		}

	case reflect.Struct:
		w.walkStruct(field, path+".")

	case reflect.Pointer:
		if !field.IsNil() && field.Elem().Kind() == reflect.Struct {
			w.walkStruct(field.Elem(), path+".")
		}
	}
}

// walkElem handles one slice element; nested structs are walked whole.
func (w *walker) walkElem(elem reflect.Value, path string) {
	switch elem.Kind() {
	case reflect.String:
		w.expandInto(elem, path)
	case reflect.Struct:
		w.walkStruct(elem, path+".")
	case reflect.Pointer:
		if !elem.IsNil() && elem.Elem().Kind() == reflect.Struct {
			w.walkStruct(elem.Elem(), path+".")
		}
	}
}

func (w *walker) expandInto(v reflect.Value, path string) {
	original := v.String()
	if original == "" {
		return
	}
	expanded, err := Expand(original, w.lookup)
	if err != nil {
		w.errs = append(w.errs, fmt.Errorf("field %s: %w", path, err))
		return
	}
	v.SetString(expanded)
}
