// Package memory implements the calculator's single persisted memory
// register (MC, MR, M+, M-).
package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"calcnerd/internal/engine"
	"calcnerd/internal/logging"
)

// SettingKey is the settings key the register is stored under.
const SettingKey = "memory_register"

// Store persists small string settings.
type Store interface {
	GetSetting(ctx context.Context, key string) (string, bool, error)
	PutSetting(ctx context.Context, key, value string) error
}

// Register holds one number. Missing or unparseable persisted values load
// as zero.
type Register struct {
	mu    sync.Mutex
	store Store
	value float64
}

// Open loads the register from store.
func Open(ctx context.Context, store Store) (*Register, error) {
	r := &Register{store: store}
	raw, ok, err := store.GetSetting(ctx, SettingKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load memory register: %w", err)
	}
	if ok {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			logging.Get(logging.CategoryMemory).Warn("Ignoring corrupt memory value %q: %v", raw, err)
		} else {
			r.value = v
		}
	}
	return r, nil
}

// Recall returns the stored value (MR).
func (r *Register) Recall() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.value
}

// Clear resets the register to zero (MC).
func (r *Register) Clear(ctx context.Context) error {
	return r.update(ctx, func(float64) float64 { return 0 })
}

// Add adds the numeric value of v (M+). Values without a number, such as
// the Error sentinel, are ignored and reported as false.
func (r *Register) Add(ctx context.Context, v engine.Value) (bool, error) {
	n, ok := v.Float()
	if !ok {
		return false, nil
	}
	return true, r.update(ctx, func(cur float64) float64 { return cur + n })
}

// Subtract subtracts the numeric value of v (M-).
func (r *Register) Subtract(ctx context.Context, v engine.Value) (bool, error) {
	n, ok := v.Float()
	if !ok {
		return false, nil
	}
	return true, r.update(ctx, func(cur float64) float64 { return cur - n })
}

func (r *Register) update(ctx context.Context, fn func(float64) float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := fn(r.value)
	if err := r.store.PutSetting(ctx, SettingKey, strconv.FormatFloat(v, 'g', -1, 64)); err != nil {
		return fmt.Errorf("failed to save memory register: %w", err)
	}
	r.value = v
	logging.Memory("Memory register = %v", v)
	return nil
}
