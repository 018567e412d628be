package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory, %w", err)
	}

	return &Local{dir: dir}, nil
}

func (l *Local) Put(_ context.Context, key, _ string, r io.Reader, _ int64) (string, error) {
	// Keys are generated server-side but a stray path separator must
	// never escape the uploads directory
	name := filepath.Base(key)

	f, err := os.Create(filepath.Join(l.dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", err
	}

	return "/uploads/" + name, nil
}
