package objsearch

import (
	"reflect"
	"sync"
)

// Kind describes an object's declared type and its ancestors. A document is
// tagged with every name in its kind's lineage, so a search scoped to an
// ancestor also matches descendants.
//
// The universal root (any) is never a Kind; a nil *Kind stands for it.
type Kind struct {
	name   string
	parent *Kind
}

// NewKind declares a kind by name. parent may be nil.
func NewKind(name string, parent *Kind) *Kind {
	return &Kind{name: name, parent: parent}
}

// Name returns the tag written to documents.
func (k *Kind) Name() string {
	if k == nil {
		return ""
	}
	return k.name
}

// Parent returns the next ancestor, or nil at the top of the chain.
func (k *Kind) Parent() *Kind {
	if k == nil {
		return nil
	}
	return k.parent
}

// Lineage returns names from the most derived kind to the last ancestor.
func (k *Kind) Lineage() []string {
	var names []string
	seen := make(map[*Kind]struct{})
	for cur := k; cur != nil; cur = cur.parent {
		if _, loop := seen[cur]; loop {
			break
		}
		seen[cur] = struct{}{}
		names = append(names, cur.name)
	}
	return names
}

// Is reports whether other appears in k's lineage. Every kind is the
// universal root, so Is(nil) is true.
func (k *Kind) Is(other *Kind) bool {
	if other == nil {
		return true
	}
	for _, name := range k.Lineage() {
		if name == other.name {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (k *Kind) String() string {
	if k == nil {
		return "any"
	}
	return k.name
}

// Kinded is implemented by objects that carry their own kind.
type Kinded interface {
	SearchKind() *Kind
}

var kinds = struct {
	sync.RWMutex
	byType map[reflect.Type]*Kind
}{byType: make(map[reflect.Type]*Kind)}

// KindOf returns the kind registered for T, deriving a parentless one from
// T's type name on first use. KindOf[any]() is nil.
func KindOf[T any]() *Kind {
	return kindOfType(reflect.TypeFor[T]())
}

// Extend registers T's kind with parent as its ancestor chain and returns
// it. Objects of dynamic type T indexed afterwards carry the full lineage.
//
//	shape := objsearch.KindOf[Shape]()
//	objsearch.Extend[*Circle](shape)
func Extend[T any](parent *Kind) *Kind {
	t := reflect.TypeFor[T]()
	k := &Kind{name: t.String(), parent: parent}

	kinds.Lock()
	kinds.byType[t] = k
	kinds.Unlock()
	return k
}

func kindOfType(t reflect.Type) *Kind {
	if t == nil || t == anyType {
		return nil
	}

	kinds.RLock()
	k, ok := kinds.byType[t]
	kinds.RUnlock()
	if ok {
		return k
	}

	kinds.Lock()
	defer kinds.Unlock()
	if k, ok := kinds.byType[t]; ok {
		return k
	}
	k = &Kind{name: t.String()}
	kinds.byType[t] = k
	return k
}

var anyType = reflect.TypeFor[any]()

// kindOfObject resolves the kind an object is indexed under.
func kindOfObject(obj any) *Kind {
	if k, ok := obj.(Kinded); ok {
		if kind := k.SearchKind(); kind != nil {
			return kind
		}
	}
	return kindOfType(reflect.TypeOf(obj))
}
