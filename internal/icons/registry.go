// Package icons holds the icon registry consumed by the icon component.
//
// The registry is populated once at startup and sealed when the application
// mounts; after that it is read-only.
package icons

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/picturedesk/picturedesk/internal/errors"
)

// Definition is a single icon symbol.
type Definition struct {
	Prefix    string `yaml:"prefix" json:"prefix"`
	Name      string `yaml:"name" json:"name"`
	Codepoint string `yaml:"codepoint" json:"codepoint"` // hex, e.g. "f030"
}

// Key returns the registry key "prefix:name".
func (d Definition) Key() string {
	return d.Prefix + ":" + d.Name
}

// Registry is a write-once-per-icon set of definitions. Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	icons  map[string]Definition
	sealed bool
}

// NewRegistry returns an empty, unsealed registry.
func NewRegistry() *Registry {
	return &Registry{icons: make(map[string]Definition)}
}

// Add registers def. Re-adding an identical definition is a no-op; a different
// definition under an existing key is a conflict; any add after Seal fails.
func (r *Registry) Add(def Definition) error {
	if err := validate(def); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return errors.Newf("icon registry is sealed, cannot add %s", def.Key()).
			Component("icons").
			Category(errors.CategoryState).
			Context("icon", def.Key()).
			Build()
	}

	key := def.Key()
	if existing, ok := r.icons[key]; ok {
		if existing == def {
			return nil
		}
		return errors.Newf("icon %s already registered with codepoint %s", key, existing.Codepoint).
			Component("icons").
			Category(errors.CategoryConflict).
			Context("icon", key).
			Context("codepoint", def.Codepoint).
			Build()
	}

	r.icons[key] = def
	return nil
}

// AddAll registers defs in order and stops at the first error.
func (r *Registry) AddAll(defs ...Definition) error {
	for _, def := range defs {
		if err := r.Add(def); err != nil {
			return err
		}
	}
	return nil
}

// Seal makes the registry read-only. Sealing twice is harmless.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Lookup returns the definition registered under key ("prefix:name").
func (r *Registry) Lookup(key string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.icons[key]
	return def, ok
}

// Keys returns all registered keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.icons))
	for k := range r.icons {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of registered icons.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.icons)
}

func validate(def Definition) error {
	var problem string
	switch {
	case def.Prefix == "" || strings.Contains(def.Prefix, ":"):
		problem = "prefix must be non-empty and must not contain ':'"
	case def.Name == "":
		problem = "name must be non-empty"
	case !isHex(def.Codepoint):
		problem = fmt.Sprintf("codepoint %q is not hexadecimal", def.Codepoint)
	default:
		return nil
	}
	return errors.Newf("invalid icon %s: %s", def.Key(), problem).
		Component("icons").
		Category(errors.CategoryValidation).
		Build()
}

func isHex(s string) bool {
	if s == "" || len(s) > 6 {
		return false
	}
	for _, c := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return false
		}
	}
	return true
}
