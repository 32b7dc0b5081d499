package form

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"rgehrsitz/condform/internal/rules"
)

// OpenFile builds a handle for the file at path. Only metadata is read; the
// file contents stay where they are.
func OpenFile(path string) (*rules.FileHandle, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("open file: %s is a directory", path)
	}
	return &rules.FileHandle{
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Path:        path,
	}, nil
}

// ResolveFiles fills in size and content type for file values that only carry
// a path. Handles that already have a size are left alone.
func ResolveFiles(values rules.FieldValues) (rules.FieldValues, error) {
	out := values
	for name, v := range values {
		h, ok := v.File()
		if !ok || h.Path == "" || h.Size > 0 {
			continue
		}
		resolved, err := OpenFile(h.Path)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		out = out.With(name, rules.File(resolved))
	}
	return out, nil
}
