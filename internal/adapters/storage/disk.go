package storage

import (
	"os"
	"path/filepath"
	"strings"

	"snapfeed/internal/apperr"
)

// DiskStore keeps media bytes as flat files under a root directory.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "create media root", err)
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) Write(name string, data []byte) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperr.Wrap(apperr.KindInternal, "write media file", err)
	}
	return nil
}

func (s *DiskStore) Read(name string) ([]byte, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, apperr.Newf(apperr.KindNotFound, "file %q not found", name)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "read media file", err)
	}
	return data, nil
}

func (s *DiskStore) Remove(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return apperr.Wrap(apperr.KindInternal, "remove media file", err)
	}
	return nil
}

// path rejects anything that is not a bare filename. Names are
// service-generated, so a separator here means a forged request.
func (s *DiskStore) path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return "", apperr.Newf(apperr.KindValidation, "invalid file name %q", name)
	}
	return filepath.Join(s.root, name), nil
}
