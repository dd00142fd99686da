package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// fileContents is the on-disk layout; one file can hold bundles for several
// named profiles (e.g. "prod-admin", "staging").
type fileContents struct {
	Sessions map[string]Bundle `json:"sessions"`
}

// FileStore persists the bundle for one profile in a JSON file shared with
// other profiles. Writes are atomic (temp file + rename) and serialized
// across processes by a lock file.
type FileStore struct {
	path    string
	profile string
}

// NewFileStore returns a store for profile inside the file at path.
func NewFileStore(path, profile string) *FileStore {
	if profile == "" {
		profile = "default"
	}
	return &FileStore{path: path, profile: profile}
}

// Path returns the backing file.
func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Load(_ context.Context) (Bundle, error) {
	contents, err := f.read()
	if err != nil {
		return Bundle{}, err
	}
	return contents.Sessions[f.profile], nil
}

func (f *FileStore) Save(_ context.Context, b Bundle) error {
	return f.update(func(c *fileContents) {
		c.Sessions[f.profile] = b
	})
}

func (f *FileStore) Clear(_ context.Context) error {
	if _, err := os.Stat(f.path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return f.update(func(c *fileContents) {
		delete(c.Sessions, f.profile)
	})
}

func (f *FileStore) read() (*fileContents, error) {
	contents := &fileContents{Sessions: map[string]Bundle{}}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return contents, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	if err := json.Unmarshal(data, contents); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, f.path, err)
	}
	if contents.Sessions == nil {
		contents.Sessions = map[string]Bundle{}
	}
	return contents, nil
}

// update runs mutate under the file lock and writes the result back.
func (f *FileStore) update(mutate func(*fileContents)) error {
	lock, err := acquireFileLock(f.path)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer func() {
		if releaseErr := lock.release(); releaseErr != nil {
			fmt.Fprintf(os.Stderr, "failed to release lock: %v\n", releaseErr)
		}
	}()

	contents, err := f.read()
	if err != nil {
		if !errors.Is(err, ErrCorrupt) {
			return err
		}
		// Start over rather than refusing to sign in forever.
		contents = &fileContents{Sessions: map[string]Bundle{}}
	}

	mutate(contents)

	data, err := json.MarshalIndent(contents, "", "  ")
	if err != nil {
		return err
	}

	tempFile := f.path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempFile, f.path); err != nil {
		if removeErr := os.Remove(tempFile); removeErr != nil {
			return fmt.Errorf(
				"failed to rename temp file: %v; additionally failed to remove temp file: %w",
				err,
				removeErr,
			)
		}
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
