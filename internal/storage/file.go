package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/user/lifesim/internal/types"
)

// FileStore keeps one JSON document per life in a directory
type FileStore struct {
	dir  string
	lock sync.RWMutex
}

// NewFileStore creates a file store rooted at dir
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "./data/lives"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid life id %q", id)
	}
	return filepath.Join(s.dir, id+".json"), nil
}

// Get reads a snapshot from disk
func (s *FileStore) Get(_ context.Context, id string) (*types.Life, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	path, err := s.path(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read life file: %w", err)
	}

	var life types.Life
	if err := json.Unmarshal(data, &life); err != nil {
		return nil, fmt.Errorf("failed to parse life: %w", err)
	}
	return &life, nil
}

// Put writes a snapshot to disk, replacing any previous version
func (s *FileStore) Put(_ context.Context, life *types.Life) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	path, err := s.path(life.ID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(life, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal life: %w", err)
	}

	// write then rename so readers never see a torn file
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write life: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace life: %w", err)
	}
	return nil
}

// Delete removes a snapshot file
func (s *FileStore) Delete(_ context.Context, id string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	path, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete life: %w", err)
	}
	return nil
}

// Close implements Store
func (s *FileStore) Close() error { return nil }
