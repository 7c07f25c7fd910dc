package domain

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-life-keeper/internal/events"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/internal/store"
	"github.com/MKhiriev/go-life-keeper/models"
)

// Registry owns one ModuleStore per known module.
type Registry struct {
	stores []*ModuleStore
	byName map[models.ModuleName]*ModuleStore
}

// NewRegistry creates a store for every module in models.AllModules.
func NewRegistry(storage store.KeyValueStorage, tracker *ChangeTracker, bus *events.Bus, logger *logger.Logger) *Registry {
	r := &Registry{byName: make(map[models.ModuleName]*ModuleStore)}
	for _, m := range models.AllModules() {
		s := NewModuleStore(m, storage, tracker, bus, logger)
		r.stores = append(r.stores, s)
		r.byName[m] = s
	}

	return r
}

// Store returns the store of module.
func (r *Registry) Store(module models.ModuleName) (*ModuleStore, bool) {
	s, ok := r.byName[module]
	return s, ok
}

// Stores returns every store in models.AllModules order.
func (r *Registry) Stores() []Store {
	out := make([]Store, 0, len(r.stores))
	for _, s := range r.stores {
		out = append(out, s)
	}
	return out
}

// LoadAll loads every store and joins the errors of the ones that failed.
func (r *Registry) LoadAll(ctx context.Context) error {
	var errs []error
	for _, s := range r.stores {
		if err := s.Load(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) AllLoaded() bool {
	for _, s := range r.stores {
		if !s.IsLoaded() {
			return false
		}
	}
	return true
}

// HasContent reports whether any module holds something the user created.
func (r *Registry) HasContent() bool {
	for _, s := range r.stores {
		if hasContent(s.CurrentData()) {
			return true
		}
	}
	return false
}

func (r *Registry) Close() {
	for _, s := range r.stores {
		s.Close()
	}
}

func hasContent(v any) bool {
	switch data := v.(type) {
	case nil:
		return false
	case []any:
		return len(data) > 0
	case map[string]any:
		return len(data) > 0
	case string:
		return data != ""
	default:
		return true
	}
}
