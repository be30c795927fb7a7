package store

import (
	"calcnerd/internal/history"
	"calcnerd/internal/memory"
)

// Backend is everything the calculator persists.
type Backend interface {
	history.Store
	memory.Store
	Close() error
}

var (
	_ Backend = (*LocalStore)(nil)
	_ Backend = (*MemStore)(nil)
)

// Open returns a MemStore when ephemeral is set, otherwise a LocalStore at
// path.
func Open(path, driver string, ephemeral bool) (Backend, error) {
	if ephemeral {
		return NewMemStore(), nil
	}
	return NewLocalStore(path, driver)
}
