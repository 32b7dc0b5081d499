package rules

import (
	"fmt"
	"sort"

	json "github.com/goccy/go-json"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindAbsent Kind = iota
	KindText
	KindBool
	KindCategory
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	case KindCategory:
		return "category"
	case KindFile:
		return "file"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind converts a kind name into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "text":
		return KindText, nil
	case "bool":
		return KindBool, nil
	case "category":
		return KindCategory, nil
	case "file":
		return KindFile, nil
	default:
		return KindAbsent, fmt.Errorf("unknown field kind %q", s)
	}
}

// FileHandle references a file chosen by the user. The bytes belong to
// whoever acquired the file; the handle only describes it.
type FileHandle struct {
	Name        string `json:"name" yaml:"name"`
	Size        int64  `json:"size" yaml:"size"`
	ContentType string `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	Path        string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Empty reports whether the handle points at no content.
func (f *FileHandle) Empty() bool {
	return f == nil || f.Size <= 0
}

// Value is a single form field value. The zero Value is absent.
type Value struct {
	kind     Kind
	text     string
	flag     bool
	category Category
	file     *FileHandle
}

func Absent() Value { return Value{} }
func Text(s string) Value { return Value{kind: KindText, text: s} }
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }
func CategoryValue(c Category) Value { return Value{kind: KindCategory, category: c} }
func File(h *FileHandle) Value {
	if h == nil {
		return Absent()
	}
	return Value{kind: KindFile, file: h}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

func (v Value) Text() (string, bool) { return v.text, v.kind == KindText }
func (v Value) Bool() (bool, bool) { return v.flag, v.kind == KindBool }
func (v Value) Category() (Category, bool) { return v.category, v.kind == KindCategory }
func (v Value) File() (*FileHandle, bool) { return v.file, v.kind == KindFile }

// IsTrue reports whether v is the boolean true.
func (v Value) IsTrue() bool {
	return v.kind == KindBool && v.flag
}

// Blank reports whether v is absent, an empty text, or an empty file. This is
// the notion of "missing" used by required checks.
func (v Value) Blank() bool {
	switch v.kind {
	case KindAbsent:
		return true
	case KindText:
		return v.text == ""
	case KindFile:
		return v.file.Empty()
	default:
		return false
	}
}

// Interface returns v as a plain Go value: string, bool, *FileHandle or nil.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindText:
		return v.text
	case KindBool:
		return v.flag
	case KindCategory:
		return string(v.category)
	case KindFile:
		return v.file
	default:
		return nil
	}
}

// Key returns the string used to select union variants: the text, the
// category name, or "true"/"false". Absent and file values have no key.
func (v Value) Key() (string, bool) {
	switch v.kind {
	case KindText:
		return v.text, true
	case KindCategory:
		return string(v.category), true
	case KindBool:
		if v.flag {
			return "true", true
		}
		return "false", true
	default:
		return "", false
	}
}

// Equal reports whether two values hold the same variant and content. File
// handles compare by identity of the referenced file.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == o.text
	case KindBool:
		return v.flag == o.flag
	case KindCategory:
		return v.category == o.category
	case KindFile:
		return v.file == o.file
	default:
		return true
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindAbsent:
		return "<absent>"
	case KindText:
		return fmt.Sprintf("%q", v.text)
	case KindBool:
		return fmt.Sprintf("%t", v.flag)
	case KindCategory:
		return string(v.category)
	case KindFile:
		return fmt.Sprintf("file(%s, %d bytes)", v.file.Name, v.file.Size)
	default:
		return v.kind.String()
	}
}

// FieldValues is the state of one form instance. A missing key and an absent
// Value mean the same thing.
type FieldValues map[string]Value

// Get returns the value of name, absent when unset.
func (fv FieldValues) Get(name string) Value {
	return fv[name]
}

// Has reports whether name holds a non-absent value.
func (fv FieldValues) Has(name string) bool {
	return !fv[name].IsAbsent()
}

// Clone returns an independent copy. File handles are shared, not copied.
func (fv FieldValues) Clone() FieldValues {
	out := make(FieldValues, len(fv))
	for k, v := range fv {
		out[k] = v
	}
	return out
}

// With returns a copy of fv with name set to v.
func (fv FieldValues) With(name string, v Value) FieldValues {
	out := fv.Clone()
	if v.IsAbsent() {
		delete(out, name)
	} else {
		out[name] = v
	}
	return out
}

// Names returns the names of the non-absent fields, sorted.
func (fv FieldValues) Names() []string {
	names := make([]string, 0, len(fv))
	for k, v := range fv {
		if !v.IsAbsent() {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}

// Map converts fv into plain Go values, leaving out absent fields.
func (fv FieldValues) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(fv))
	for k, v := range fv {
		if !v.IsAbsent() {
			out[k] = v.Interface()
		}
	}
	return out
}

func (fv FieldValues) MarshalJSON() ([]byte, error) {
	return json.Marshal(fv.Map())
}
