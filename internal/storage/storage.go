// Package storage provides the opaque get/set-by-key service the directory
// store is built on, plus the JSON collection slots layered over it.
package storage

// KeyValueStorage mirrors a browser origin's key/value storage: every value
// is an opaque blob addressed by a fixed key.
type KeyValueStorage interface {
	GetItem(key string) ([]byte, bool, error)
	SetItem(key string, value []byte) error
	RemoveItem(key string) error
}

// Persister is implemented by backends that keep slots in memory and write
// them out in bulk.
type Persister interface {
	Restore() error
	Flush() error
}
