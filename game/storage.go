package game

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"
)

// Store is an opaque string key-value store
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (store *MemoryStore) Get(key string) (string, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()

	value, ok := store.values[key]
	return value, ok
}

func (store *MemoryStore) Set(key, value string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.values[key] = value
	return nil
}

// FileStore keeps all values in a single YAML mapping on disk. The file is read
// once when opened and rewritten on every Set.
type FileStore struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

func OpenFileStore(path string) (*FileStore, error) {
	store := &FileStore{
		path:   path,
		values: make(map[string]string),
	}

	in, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, errors.Wrapf(err, "reading store %s", path)
	}

	if err := yaml.Unmarshal(in, &store.values); err != nil {
		log.WithField("path", path).WithError(err).Warn("Ignoring unreadable store contents")
		store.values = make(map[string]string)
	}
	if store.values == nil {
		store.values = make(map[string]string)
	}
	return store, nil
}

func (store *FileStore) Path() string {
	return store.path
}

func (store *FileStore) Get(key string) (string, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()

	value, ok := store.values[key]
	return value, ok
}

func (store *FileStore) Set(key, value string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	previous, existed := store.values[key]
	store.values[key] = value

	if err := store.flush(); err != nil {
		if existed {
			store.values[key] = previous
		} else {
			delete(store.values, key)
		}
		return err
	}
	return nil
}

func (store *FileStore) flush() error {
	out, err := yaml.Marshal(store.values)
	if err != nil {
		return errors.Wrap(err, "encoding store")
	}

	dir := filepath.Dir(store.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}

	tmp, err := ioutil.TempFile(dir, filepath.Base(store.path)+".*")
	if err != nil {
		return errors.Wrap(err, "creating temporary store file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "writing %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", tmp.Name())
	}
	return errors.Wrapf(os.Rename(tmp.Name(), store.path), "replacing %s", store.path)
}
