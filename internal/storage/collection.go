package storage

import (
	"fmt"
	json "github.com/goccy/go-json"
	"trustive/internal/providers"
)

// Collection is a JSON value stored whole under one key. Every mutation is a
// full read-modify-write of the slot; there is no merge or version check.
type Collection[T any] struct {
	storage KeyValueStorage
	key     string
	seed    func() T
	logger  providers.Logger
}

// NewCollection binds a slot. seed must return a fresh value on every call,
// callers mutate what Load returns.
func NewCollection[T any](storage KeyValueStorage, key string, seed func() T, logger providers.Logger) *Collection[T] {
	return &Collection[T]{
		storage: storage,
		key:     key,
		seed:    seed,
		logger:  logger,
	}
}

func (c *Collection[T]) Key() string {
	return c.key
}

type slotState int

const (
	slotPresent slotState = iota
	slotAbsent
	slotUnreadable
)

func (c *Collection[T]) read() (T, slotState) {
	var value T
	raw, ok, err := c.storage.GetItem(c.key)
	if err != nil {
		c.logger.Errorf(providers.TypeStore, "Failed to read %s from storage: %s", c.key, err)
		return value, slotUnreadable
	}
	if !ok {
		return value, slotAbsent
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		c.logger.Errorf(providers.TypeStore, "Failed to parse %s from storage: %s", c.key, err)
		var zero T
		return zero, slotUnreadable
	}
	return value, slotPresent
}

// Load decodes the slot. An absent slot is initialized with the seed. An
// unreadable or corrupt slot is logged and the seed is returned without
// repairing storage; the next Save overwrites it.
func (c *Collection[T]) Load() T {
	value, state := c.read()
	switch state {
	case slotAbsent:
		value = c.seed()
		if err := c.Save(value); err != nil {
			c.logger.Errorf(providers.TypeStore, "Failed to initialize %s: %s", c.key, err)
		}
	case slotUnreadable:
		value = c.seed()
	}
	return value
}

// Peek decodes the slot like Load but never writes the seed back. ok is
// false when the slot was absent or could not be decoded.
func (c *Collection[T]) Peek() (value T, ok bool) {
	value, state := c.read()
	if state != slotPresent {
		return c.seed(), false
	}
	return value, true
}

// Save overwrites the slot unconditionally.
func (c *Collection[T]) Save(value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.storage.SetItem(c.key, data); err != nil {
		return fmt.Errorf("write %s: %w", c.key, err)
	}
	return nil
}

func (c *Collection[T]) Clear() error {
	if err := c.storage.RemoveItem(c.key); err != nil {
		return fmt.Errorf("remove %s: %w", c.key, err)
	}
	return nil
}
