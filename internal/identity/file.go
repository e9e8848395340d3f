package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps slots in a small JSON object on disk.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (f *FileStore) readAll() (map[string]Record, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading identity file: %w", err)
	}
	slots := map[string]Record{}
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, fmt.Errorf("decoding identity file: %w", err)
	}
	return slots, nil
}

func (f *FileStore) Load(ctx context.Context) (Record, error) {
	slots, err := f.readAll()
	if err != nil {
		return Record{}, err
	}
	rec, ok := slots[Slot]
	if !ok || rec.DisplayName == "" {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// Save writes through a temp file and rename so readers never see a
// partial file.
func (f *FileStore) Save(ctx context.Context, rec Record) error {
	slots, err := f.readAll()
	if err != nil {
		return err
	}
	slots[Slot] = rec

	data, err := json.MarshalIndent(slots, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding identity: %w", err)
	}
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating identity dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".identity-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing identity: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("replacing identity file: %w", err)
	}
	return nil
}
