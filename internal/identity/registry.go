// Package identity maps indexed objects to the ids their documents carry.
//
// A Registry is not safe for concurrent use; the engine serializes every
// mutation and publishes immutable Snapshots to searchers.
package identity

import (
	"encoding/hex"
	"reflect"

	"github.com/google/uuid"

	"github.com/Aman-CERP/objsearch/internal/errors"
)

// NewID returns a fresh random id: a v4 UUID as 32 lowercase hex characters.
func NewID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// Comparable reports whether obj can serve as an identity key.
// Pointers compare by address; other comparable values by value.
func Comparable(obj any) bool {
	if obj == nil {
		return false
	}
	return reflect.ValueOf(obj).Comparable()
}

// Registry is a bidirectional id <-> object map.
type Registry struct {
	byID  map[string]any
	byObj map[any]string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		byID:  make(map[string]any),
		byObj: make(map[any]string),
	}
}

// Mint assigns a new id to obj and records it.
func (r *Registry) Mint(obj any) (string, error) {
	id := NewID()
	if err := r.Record(id, obj); err != nil {
		return "", err
	}
	return id, nil
}

// Record registers obj under id. Callers stage ids with NewID and record
// them once the matching documents are committed.
func (r *Registry) Record(id string, obj any) error {
	if id == "" {
		return errors.InvalidArgument("object id is empty")
	}
	if !Comparable(obj) {
		return errors.InvalidArgument("object of type %T cannot be used as an identity key", obj)
	}
	if _, ok := r.byID[id]; ok {
		return errors.InvalidArgument("object id %s is already in use", id)
	}
	if existing, ok := r.byObj[obj]; ok {
		return errors.InvalidArgument("object of type %T is already indexed as %s", obj, existing)
	}

	r.byID[id] = obj
	r.byObj[obj] = id
	return nil
}

// Resolve returns the object registered under id.
func (r *Registry) Resolve(id string) (any, error) {
	obj, ok := r.byID[id]
	if !ok {
		return nil, errors.NotFound("no object with id %s", id)
	}
	return obj, nil
}

// OwnerID returns the id obj is registered under.
func (r *Registry) OwnerID(obj any) (string, error) {
	if !Comparable(obj) {
		return "", errors.InvalidArgument("object of type %T cannot be used as an identity key", obj)
	}
	id, ok := r.byObj[obj]
	if !ok {
		return "", errors.NotFound("object of type %T is not indexed", obj)
	}
	return id, nil
}

// Contains reports whether obj is registered.
func (r *Registry) Contains(obj any) bool {
	if !Comparable(obj) {
		return false
	}
	_, ok := r.byObj[obj]
	return ok
}

// Release removes the mapping for id.
func (r *Registry) Release(id string) error {
	obj, ok := r.byID[id]
	if !ok {
		return errors.NotFound("no object with id %s", id)
	}
	delete(r.byID, id)
	delete(r.byObj, obj)
	return nil
}

// Len returns the number of registered objects.
func (r *Registry) Len() int {
	return len(r.byID)
}

// IDs returns every registered id in no particular order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	return ids
}

// Snapshot copies the id -> object direction for lock-free reads.
func (r *Registry) Snapshot() Snapshot {
	byID := make(map[string]any, len(r.byID))
	for id, obj := range r.byID {
		byID[id] = obj
	}
	return Snapshot{byID: byID}
}

// Snapshot is an immutable id -> object view taken at publication time.
type Snapshot struct {
	byID map[string]any
}

// Resolve returns the object registered under id when the snapshot was taken.
func (s Snapshot) Resolve(id string) (any, bool) {
	obj, ok := s.byID[id]
	return obj, ok
}

// Len returns the number of objects in the snapshot.
func (s Snapshot) Len() int {
	return len(s.byID)
}

// IDs returns every id in the snapshot in no particular order.
func (s Snapshot) IDs() []string {
	ids := make([]string, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	return ids
}
