package drafts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"easel/internal/fileutil"
)

// FileKV persists draft collections in a single JSON file mapping scope keys
// to serialized collections. Writers take an advisory file lock so two
// processes never tear the file; the read-modify-write window still resolves
// last-write-wins at whole-collection granularity.
type FileKV struct {
	path string
	lock *flock.Flock
}

// OpenFile prepares a file-backed KV at path. The file is created on first
// write.
func OpenFile(path string) (*FileKV, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create draft file directory: %w", err)
	}
	return &FileKV{
		path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

// Path returns the backing file location.
func (f *FileKV) Path() string {
	return f.path
}

func (f *FileKV) Get(key string) (string, bool) {
	scopes, err := f.read()
	if err != nil {
		return "", false
	}
	value, ok := scopes[key]
	return value, ok
}

func (f *FileKV) Set(key, value string) error {
	return f.update(func(scopes map[string]string) {
		scopes[key] = value
	})
}

func (f *FileKV) Delete(key string) error {
	return f.update(func(scopes map[string]string) {
		delete(scopes, key)
	})
}

func (f *FileKV) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	scopes := map[string]string{}
	if err := json.Unmarshal(data, &scopes); err != nil {
		return nil, err
	}
	return scopes, nil
}

func (f *FileKV) update(mutate func(map[string]string)) error {
	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("lock draft file: %w", err)
	}
	defer func() { _ = f.lock.Unlock() }()

	scopes, err := f.read()
	if err != nil {
		// A corrupt file is replaced rather than blocking every save.
		scopes = map[string]string{}
	}
	mutate(scopes)

	payload, err := json.MarshalIndent(scopes, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal draft file: %w", err)
	}
	if err := fileutil.WriteFileAtomic(f.path, payload, 0o644); err != nil {
		return fmt.Errorf("write draft file: %w", err)
	}
	return nil
}
