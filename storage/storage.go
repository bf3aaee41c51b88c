// Package storage persists tasks and users to flat JSON documents, one
// array-of-records file per resource. Every mutation rewrites the document
// in full; a per-store mutex serializes read-modify-write sequences so
// concurrent writers cannot lose updates.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

func readDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, path, err)
	}
	return data, nil
}

// writeDocument rewrites path with the pretty-printed JSON encoding of v.
// The write goes through a temp file in the same directory followed by a
// rename, so readers never observe a partial document.
func writeDocument(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrUnavailable, path, err)
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrUnavailable, path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: write %s: %v", ErrUnavailable, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: write %s: %v", ErrUnavailable, path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: write %s: %v", ErrUnavailable, path, err)
	}
	return nil
}
