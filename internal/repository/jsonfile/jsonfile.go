// Package jsonfile implements the repository interfaces on top of plain
// JSON files, one file per store.
//
// STORAGE MODEL:
// Each store is a single JSON document. A mutating call takes the store's
// mutex, reads the whole document, applies the change in memory and writes
// the whole document back through atomicwriter (temp file + rename). Readers
// therefore see either the old or the new file, never a half-written one,
// and two writers in the same process cannot lose each other's update.
//
// On-disk layout:
//
//	data/users.json    {"<email>": {"name": ..., "passwordHash": ..., ...}}
//	data/meals.json    [{"user": ..., "meal": ..., "items": [...], "loggedAt": "YYYY-MM-DD HH:MM:SS"}]
//	data/food_db.json  {"<item>": {"calories": ..., "protein": ..., "carbs": ..., "fiber": ...}}
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/moby/sys/atomicwriter"
)

const (
	UsersFile = "users.json"
	MealsFile = "meals.json"
	FoodsFile = "food_db.json"
)

// Store bundles the three file-backed stores rooted at one directory.
type Store struct {
	Users *UserStore
	Meals *MealStore
	Foods *FoodCatalog
}

// New creates the data directory if needed and returns stores for the files
// inside it. Missing files are treated as empty stores.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("jsonfile: creating data dir %s: %w", dir, err)
	}
	return &Store{
		Users: NewUserStore(filepath.Join(dir, UsersFile)),
		Meals: NewMealStore(filepath.Join(dir, MealsFile)),
		Foods: NewFoodCatalog(filepath.Join(dir, FoodsFile)),
	}, nil
}

// document is one JSON file holding a value of type T.
type document[T any] struct {
	path  string
	mu    sync.Mutex
	empty func() T
}

// read loads the current document under the lock.
func (d *document[T]) read() (T, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.load()
}

// update runs one load-mutate-persist cycle while holding the lock. mutate
// reports whether it changed anything; unchanged documents are not rewritten.
func (d *document[T]) update(mutate func(v T) (T, bool, error)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	v, err := d.load()
	if err != nil {
		return err
	}
	v, changed, err := mutate(v)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return d.save(v)
}

func (d *document[T]) load() (T, error) {
	data, err := os.ReadFile(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		return d.empty(), nil
	}
	if err != nil {
		return d.empty(), fmt.Errorf("jsonfile: reading %s: %w", d.path, err)
	}

	v := d.empty()
	if err := json.Unmarshal(data, &v); err != nil {
		return d.empty(), fmt.Errorf("jsonfile: decoding %s: %w", d.path, err)
	}
	return v, nil
}

func (d *document[T]) save(v T) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("jsonfile: encoding %s: %w", d.path, err)
	}
	if err := atomicwriter.WriteFile(d.path, data, 0o644); err != nil {
		return fmt.Errorf("jsonfile: writing %s: %w", d.path, err)
	}
	return nil
}
