package storage

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotLoaded is returned by slot operations before Init or Load.
	ErrNotLoaded = errors.New("storage not loaded")
	// ErrNotInitialized is returned by Load when the backing store does not exist yet.
	ErrNotInitialized = errors.New("storage not initialized, run 'ritual init' first")
)

// Provider is a key/value slot store. Each slot holds one opaque blob that
// is replaced whole on every Put.
//
// Implementations are not safe for concurrent use, and two ritual processes
// sharing one store is not supported.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Slots. Get reports ok=false for an absent key.
	Get(key string) (value []byte, ok bool, err error)
	Put(key string, value []byte) error
	Clear() error
	Keys() ([]string, error)

	// Utils
	GetConfigPath() string
}

// LoadCollection decodes the JSON array stored under key. A missing slot
// returns ok=false; a slot that does not decode returns an error.
func LoadCollection[T any](p Provider, key string) ([]T, bool, error) {
	raw, ok, err := p.Get(key)
	if err != nil || !ok {
		return nil, ok, err
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, true, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	if items == nil {
		// a stored JSON null is not a collection
		return nil, true, fmt.Errorf("failed to parse %s: not a JSON array", key)
	}
	return items, true, nil
}

// SaveCollection encodes items as a JSON array and replaces the slot.
func SaveCollection[T any](p Provider, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", key, err)
	}
	return p.Put(key, data)
}
