package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"sistpec-api/internal/ports/storage"
)

const defaultContentType = "application/octet-stream"

var errInvalidKey = errors.New("filestore: llave inválida")

// LocalStore guarda los adjuntos bajo un directorio base.
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) *LocalStore {
	return &LocalStore{baseDir: baseDir}
}

// path resuelve la llave dentro de baseDir; rechaza llaves que escapan de él.
func (l *LocalStore) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errInvalidKey
	}
	return filepath.Join(l.baseDir, clean), nil
}

func (l *LocalStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	full, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("filestore: crear directorio: %w", err)
	}

	dst, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("filestore: crear archivo: %w", err)
	}
	if _, err := io.Copy(dst, body); err != nil {
		dst.Close()
		_ = os.Remove(full)
		return fmt.Errorf("filestore: escribir archivo: %w", err)
	}
	return dst.Close()
}

func (l *LocalStore) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	full, err := l.path(key)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", storage.ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("filestore: abrir archivo: %w", err)
	}

	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(key)))
	if ct == "" {
		ct = defaultContentType
	}
	return f, ct, nil
}

func (l *LocalStore) Delete(ctx context.Context, key string) error {
	full, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("filestore: borrar archivo: %w", err)
	}
	return nil
}
