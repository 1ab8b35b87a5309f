// Package storagetest holds the behavior every storage.Provider must share,
// run against each backend from its own package tests.
package storagetest

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/julianstephens/ritual/internal/storage"
)

// Factory returns a fresh, initialized provider. The suite closes it.
type Factory func(t *testing.T) storage.Provider

// Run exercises the slot contract against providers produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("absent key", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		value, ok, err := s.Get("ritual_habits")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if ok || value != nil {
			t.Errorf("Get() = (%q, %v), want absent", value, ok)
		}
	})

	t.Run("put replaces whole value", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		if err := s.Put("ritual_logs", []byte(`[{"habitId":"a","date":"2024-03-15","completed":true}]`)); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if err := s.Put("ritual_logs", []byte(`[]`)); err != nil {
			t.Fatalf("second Put() error = %v", err)
		}

		value, ok, err := s.Get("ritual_logs")
		if err != nil || !ok {
			t.Fatalf("Get() = (%v, %v)", ok, err)
		}
		var items []any
		if err := json.Unmarshal(value, &items); err != nil {
			t.Fatalf("stored value is not JSON: %v", err)
		}
		if len(items) != 0 {
			t.Errorf("Get() returned %d items, want 0", len(items))
		}
	})

	t.Run("keys and clear", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		for _, k := range []string{"ritual_logs", "ritual_habits"} {
			if err := s.Put(k, []byte(`[]`)); err != nil {
				t.Fatalf("Put(%s) error = %v", k, err)
			}
		}

		keys, err := s.Keys()
		if err != nil {
			t.Fatalf("Keys() error = %v", err)
		}
		if !reflect.DeepEqual(keys, []string{"ritual_habits", "ritual_logs"}) {
			t.Errorf("Keys() = %v", keys)
		}

		if err := s.Clear(); err != nil {
			t.Fatalf("Clear() error = %v", err)
		}
		keys, err = s.Keys()
		if err != nil {
			t.Fatalf("Keys() error = %v", err)
		}
		if len(keys) != 0 {
			t.Errorf("Keys() after Clear = %v, want none", keys)
		}
	})

	t.Run("collections round trip", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		type row struct {
			ID   string `json:"id"`
			Done bool   `json:"done"`
		}
		want := []row{{ID: "a", Done: true}, {ID: "b"}}
		if err := storage.SaveCollection(s, "ritual_habits", want); err != nil {
			t.Fatalf("SaveCollection() error = %v", err)
		}

		got, ok, err := storage.LoadCollection[row](s, "ritual_habits")
		if err != nil || !ok {
			t.Fatalf("LoadCollection() = (%v, %v)", ok, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("LoadCollection() = %+v, want %+v", got, want)
		}
	})

	t.Run("closed store", func(t *testing.T) {
		s := newStore(t)
		if err := s.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		// JSON files stay readable after Close; SQL stores must refuse
		if _, _, err := s.Get("ritual_habits"); err != nil && !errors.Is(err, storage.ErrNotLoaded) {
			t.Errorf("Get() after Close = %v, want nil or ErrNotLoaded", err)
		}
	})
}
