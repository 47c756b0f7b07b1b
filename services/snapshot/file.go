package snapshot

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"sjsage522/offerwatch/logger"
	apperrors "sjsage522/offerwatch/pkg/errors"
)

// FileStore keeps the snapshot in a single JSON file.
type FileStore struct {
	path string
}

// Ensure FileStore implements Store
var _ Store = (*FileStore)(nil)

// NewFileStore creates a file-backed store
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Name returns the backend name
func (f *FileStore) Name() string {
	return "file"
}

// Load reads the snapshot. A missing file is the first run.
func (f *FileStore) Load(ctx context.Context) (Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.ForStore().Debug().Str("path", f.path).Msg("No snapshot yet, starting empty")
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, apperrors.NewSnapshot("cannot read "+f.path, err)
	}

	s, err := decode(data)
	if err != nil {
		return Snapshot{}, apperrors.NewSnapshot("corrupt snapshot "+f.path, err)
	}
	return s, nil
}

// Save writes the snapshot to a temp file and renames it over the old one.
func (f *FileStore) Save(ctx context.Context, s Snapshot) error {
	data, err := encode(s)
	if err != nil {
		return apperrors.NewSnapshot("cannot encode snapshot", err)
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.NewSnapshot("cannot create "+dir, err)
		}
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return apperrors.NewSnapshot("cannot write "+tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return apperrors.NewSnapshot("cannot replace "+f.path, err)
	}
	return nil
}
