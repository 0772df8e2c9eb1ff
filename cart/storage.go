package cart

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Storage persists cart snapshots between visits. Writes are
// best-effort: the Store logs and swallows failures rather than
// surfacing them to callers.
type Storage interface {
	Load() ([]LineItem, error)
	Save(items []LineItem) error
}

// FileStorage keeps the serialized line-item list in a single JSON
// file, one file per cart session.
type FileStorage struct {
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Load reads the snapshot file. A missing file is an empty cart, not
// an error.
func (f *FileStorage) Load() ([]LineItem, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Save writes the full snapshot, creating the parent directory on
// first use.
func (f *FileStorage) Save(items []LineItem) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return err
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0644)
}
