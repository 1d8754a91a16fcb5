package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes images under dir; they are served from urlPrefix.
type LocalStore struct {
	dir       string
	urlPrefix string
	maxBytes  int64
}

func NewLocalStore(dir, urlPrefix string, maxBytes int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &LocalStore{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/"), maxBytes: maxBytes}, nil
}

func (s *LocalStore) Save(ctx context.Context, ownerID string, r io.Reader) (string, error) {
	_, ext, body, err := sniff(r)
	if err != nil {
		return "", err
	}
	name := objectName(ownerID, ext)
	full := filepath.Join(s.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(full)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, limitReader(body, s.maxBytes)); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(full)
		return "", err
	}
	return s.urlPrefix + "/" + name, nil
}

func (s *LocalStore) Delete(ctx context.Context, ref string) error {
	if !strings.HasPrefix(ref, s.urlPrefix+"/") {
		return nil
	}
	name := strings.TrimPrefix(ref, s.urlPrefix+"/")
	if strings.Contains(name, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(name)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

var _ ImageStore = (*LocalStore)(nil)
