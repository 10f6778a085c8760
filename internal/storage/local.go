// Package storage abstracts where uploaded media lands. The app only ever holds
// references (URLs); the actual backing store is swappable.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store saves an uploaded file and returns a URL-ish reference to it
type Store interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
}

// LocalStore writes uploads to a directory served as static files
type LocalStore struct {
	dir      string
	basePath string // URL path prefix, e.g. "/uploads"
}

func NewLocalStore(dir, basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, basePath: strings.TrimSuffix(basePath, "/")}, nil
}

// Save stores the file under a uuid-prefixed name so uploads never collide
func (s *LocalStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	name := uuid.NewString() + "_" + sanitize(filename)

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}

	return s.basePath + "/" + name, nil
}

// sanitize keeps only the base name and replaces path-hostile characters
func sanitize(filename string) string {
	base := filepath.Base(filename)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, base)
}
