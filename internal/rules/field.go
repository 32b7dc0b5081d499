package rules

import (
	"errors"
	"fmt"
	"path/filepath"
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrInvalidValue = errors.New("invalid value")
)

// Field declares one form field and the kind of value it holds.
type Field struct {
	Name  string
	Label string
	Kind  Kind
	// Options lists the selectable values of a category field.
	Options []string
}

// Catalog is the ordered list of fields a form knows about.
type Catalog []Field

// Lookup finds a field by name.
func (c Catalog) Lookup(name string) (Field, bool) {
	for _, f := range c {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Names returns the field names in declaration order.
func (c Catalog) Names() []string {
	out := make([]string, len(c))
	for i, f := range c {
		out[i] = f.Name
	}
	return out
}

// Accepts checks that v may be stored in the field.
func (f Field) Accepts(v Value) error {
	if v.IsAbsent() || v.Kind() == f.Kind {
		return nil
	}
	return fmt.Errorf("field %q holds %s, got %s: %w", f.Name, f.Kind, v.Kind(), ErrInvalidValue)
}

// DecodeValues converts plain decoded values (as produced by JSON or YAML
// decoders) into FieldValues. Fields known to the catalog are converted to
// their declared kind; unknown fields are kept, guessing the kind from the
// decoded type, so that strict validators can report them.
func DecodeValues(raw map[string]interface{}, catalog Catalog) (FieldValues, error) {
	out := make(FieldValues, len(raw))
	for name, rv := range raw {
		var (
			v   Value
			err error
		)
		if f, ok := catalog.Lookup(name); ok {
			v, err = decodeAs(f.Kind, rv)
		} else {
			v, err = decodeGuess(rv)
		}
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		if !v.IsAbsent() {
			out[name] = v
		}
	}
	return out, nil
}

func decodeAs(kind Kind, rv interface{}) (Value, error) {
	if rv == nil {
		return Absent(), nil
	}
	switch kind {
	case KindText:
		s, ok := rv.(string)
		if !ok {
			return Value{}, fmt.Errorf("expected text, got %T: %w", rv, ErrInvalidValue)
		}
		return Text(s), nil
	case KindBool:
		b, ok := rv.(bool)
		if !ok {
			return Value{}, fmt.Errorf("expected bool, got %T: %w", rv, ErrInvalidValue)
		}
		return Bool(b), nil
	case KindCategory:
		s, ok := rv.(string)
		if !ok {
			return Value{}, fmt.Errorf("expected category, got %T: %w", rv, ErrInvalidValue)
		}
		if s == "" {
			return Absent(), nil
		}
		c, err := ParseCategory(s)
		if err != nil {
			return Value{}, err
		}
		return CategoryValue(c), nil
	case KindFile:
		return decodeFile(rv)
	default:
		return Value{}, fmt.Errorf("unsupported kind %s: %w", kind, ErrInvalidValue)
	}
}

func decodeGuess(rv interface{}) (Value, error) {
	switch x := rv.(type) {
	case nil:
		return Absent(), nil
	case string:
		return Text(x), nil
	case bool:
		return Bool(x), nil
	case map[string]interface{}:
		return decodeFile(x)
	default:
		return Text(fmt.Sprint(x)), nil
	}
}

// decodeFile accepts either a path string or an object with name, size,
// contentType and path keys.
func decodeFile(rv interface{}) (Value, error) {
	switch x := rv.(type) {
	case string:
		if x == "" {
			return Absent(), nil
		}
		return File(&FileHandle{Name: filepath.Base(x), Path: x}), nil
	case map[string]interface{}:
		h := &FileHandle{}
		if s, ok := x["name"].(string); ok {
			h.Name = s
		}
		if s, ok := x["contentType"].(string); ok {
			h.ContentType = s
		}
		if s, ok := x["path"].(string); ok {
			h.Path = s
		}
		switch n := x["size"].(type) {
		case float64:
			h.Size = int64(n)
		case int:
			h.Size = int64(n)
		case int64:
			h.Size = n
		case uint64:
			h.Size = int64(n)
		}
		return File(h), nil
	default:
		return Value{}, fmt.Errorf("expected file, got %T: %w", rv, ErrInvalidValue)
	}
}
