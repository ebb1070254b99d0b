package dao

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// accessors maps "service/resource" to an accessor constructor.
var accessors = make(map[string]func() Accessor)

// RegisterAccessor binds rid to a constructor.
func RegisterAccessor(rid ResourceID, newFn func() Accessor) {
	accessors[rid.String()] = newFn
}

// AccessorFor returns a fresh accessor for rid bound to f.
func AccessorFor(f Factory, rid *ResourceID) (Accessor, error) {
	newFn, ok := accessors[rid.String()]
	if !ok {
		return nil, fmt.Errorf("no accessor for: %s", rid)
	}
	acc := newFn()
	acc.Init(f, rid)

	return acc, nil
}

// Registered returns every resource ID with an accessor, sorted.
func Registered() []ResourceID {
	keys := slices.Sorted(maps.Keys(accessors))
	rids := make([]ResourceID, 0, len(keys))
	for _, k := range keys {
		var rid ResourceID
		if err := rid.Parse(k); err == nil {
			rids = append(rids, rid)
		}
	}

	return rids
}

// binding holds the factory and resource ID every DAO is created with.
type binding struct {
	factory Factory
	rid     *ResourceID
	mx      sync.RWMutex
}

// Init binds the DAO to a factory.
func (b *binding) Init(f Factory, rid *ResourceID) {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.factory, b.rid = f, rid
}

// ResourceID returns the bound resource ID.
func (b *binding) ResourceID() *ResourceID {
	b.mx.RLock()
	defer b.mx.RUnlock()
	return b.rid
}

func (b *binding) backend() Factory {
	b.mx.RLock()
	defer b.mx.RUnlock()
	return b.factory
}
