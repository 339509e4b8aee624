package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/gogpu/hwc/plane"
)

// ErrUnknownVariant is returned by NewTable for a name nobody registered.
var ErrUnknownVariant = errors.New("config: unknown hardware variant")

// TableFactory builds a fresh capability table. Each call returns a new
// table so that callers may adjust groups without affecting others.
type TableFactory func() (*plane.Table, error)

var (
	registryMu sync.RWMutex
	variants   = make(map[string]TableFactory)
)

// Register registers a capability table factory with the given hardware
// variant name. The built-in variants register themselves from init();
// vendor packages follow the database/sql driver pattern:
//
//	func init() {
//	    config.Register("rk3576", func() (*plane.Table, error) {
//	        return config.ParseTable(rk3576YAML)
//	    })
//	}
//
// Register panics if:
//   - factory is nil
//   - a variant with the same name is already registered
func Register(name string, factory TableFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("config: Register factory is nil")
	}
	if _, dup := variants[name]; dup {
		panic("config: Register called twice for " + name)
	}
	variants[name] = factory
}

func unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(variants, name)
}

// NewTable builds the capability table of a registered variant.
//
// Example:
//
//	table, err := config.NewTable("rk3588")
//	if err != nil {
//	    return err
//	}
//	planner, err := hwc.New(table)
func NewTable(name string) (*plane.Table, error) {
	registryMu.RLock()
	factory, ok := variants[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownVariant, name)
	}
	return factory()
}

// MustTable builds a registered table, panicking on error.
// This is useful for the built-in variants, which always parse.
func MustTable(name string) *plane.Table {
	t, err := NewTable(name)
	if err != nil {
		panic(err)
	}
	return t
}

// Variants returns a sorted list of registered variant names.
func Variants() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return slices.Sorted(maps.Keys(variants))
}

// ForSoC builds the table of the first variant, in name order, whose table
// lists soc among its chips.
func ForSoC(soc string) (*plane.Table, error) {
	for _, name := range Variants() {
		t, err := NewTable(name)
		if err != nil {
			return nil, err
		}
		if slices.Contains(t.SoCs, soc) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: no table for SoC %q", ErrUnknownVariant, soc)
}
