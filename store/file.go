package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/arloliu/rolepref/types"
)

// recordExt is the file extension of persisted records.
const recordExt = ".txt"

// FileStorage stores one "<identity>.txt" file per record in a directory.
//
// Writes go to a temporary file in the same directory and are renamed into place,
// so a crash never leaves a half-written record behind.
type FileStorage struct {
	dir string
}

// Compile-time assertion that FileStorage implements RecordStorage.
var _ types.RecordStorage = (*FileStorage)(nil)

// NewFileStorage creates a file storage rooted at dir, creating the directory if needed.
//
// Parameters:
//   - dir: Directory holding the record files
//
// Returns:
//   - *FileStorage: Storage instance
//   - error: ErrStorageUnavailable wrapping the I/O error when dir cannot be created
func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", types.ErrStorageUnavailable, dir, err)
	}

	return &FileStorage{dir: dir}, nil
}

// Dir returns the storage directory.
func (f *FileStorage) Dir() string {
	return f.dir
}

// Load implements types.RecordStorage.
func (f *FileStorage) Load(_ context.Context, identity string) ([]byte, error) {
	if err := types.ValidateIdentity(identity); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path(identity))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %q: %w", identity, types.ErrRecordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load %q: %w", types.ErrStorageUnavailable, identity, err)
	}

	return data, nil
}

// Save implements types.RecordStorage.
func (f *FileStorage) Save(_ context.Context, identity string, data []byte) error {
	if err := types.ValidateIdentity(identity); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, "."+identity+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: save %q: %w", types.ErrStorageUnavailable, identity, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: save %q: %w", types.ErrStorageUnavailable, identity, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: save %q: %w", types.ErrStorageUnavailable, identity, err)
	}
	if err := os.Rename(tmp.Name(), f.path(identity)); err != nil {
		return fmt.Errorf("%w: save %q: %w", types.ErrStorageUnavailable, identity, err)
	}

	return nil
}

// Delete implements types.RecordStorage.
func (f *FileStorage) Delete(_ context.Context, identity string) error {
	if err := types.ValidateIdentity(identity); err != nil {
		return err
	}

	err := os.Remove(f.path(identity))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: delete %q: %w", types.ErrStorageUnavailable, identity, err)
	}

	return nil
}

// List implements types.RecordStorage.
//
// Files whose names are not valid identities are ignored.
func (f *FileStorage) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %w", types.ErrStorageUnavailable, f.dir, err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), recordExt) {
			continue
		}
		id := strings.TrimSuffix(e.Name(), recordExt)
		if types.ValidateIdentity(id) != nil {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids, nil
}

func (f *FileStorage) path(identity string) string {
	return filepath.Join(f.dir, identity+recordExt)
}
