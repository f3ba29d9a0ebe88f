package objsearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vehicle interface{ Wheels() int }

type truck struct{ Load int }

func (truck) Wheels() int { return 6 }

type plainKind struct{}

func TestKindOf_Any(t *testing.T) {
	assert.Nil(t, KindOf[any]())
	assert.Nil(t, KindOf[interface{}]())
}

func TestKindOf_UsesTypeName(t *testing.T) {
	assert.Equal(t, "objsearch.plainKind", KindOf[plainKind]().Name())
	assert.Equal(t, "*objsearch.plainKind", KindOf[*plainKind]().Name())
	assert.Equal(t, "string", KindOf[string]().Name())
}

func TestKindOf_IsCached(t *testing.T) {
	assert.Same(t, KindOf[plainKind](), KindOf[plainKind]())
}

func TestExtend_DeclaresLineage(t *testing.T) {
	// Given: a two-level chain above truck
	machine := NewKind("machine", nil)
	vehicleKind := NewKind(KindOf[vehicle]().Name(), machine)

	// When: extending
	k := Extend[truck](vehicleKind)

	// Then: the lineage runs most derived first and KindOf sees it
	assert.Equal(t, []string{"objsearch.truck", "objsearch.vehicle", "machine"}, k.Lineage())
	assert.Same(t, k, KindOf[truck]())
	assert.Same(t, k, kindOfObject(truck{Load: 1}))
	assert.True(t, k.Is(machine))
	assert.True(t, k.Is(nil))
	assert.False(t, machine.Is(k))
}

func TestKind_NilIsUniversalRoot(t *testing.T) {
	var k *Kind
	assert.Equal(t, "", k.Name())
	assert.Equal(t, "any", k.String())
	assert.Nil(t, k.Parent())
	assert.Empty(t, k.Lineage())
}

func TestKind_LineageStopsOnCycle(t *testing.T) {
	a := NewKind("a", nil)
	b := NewKind("b", a)
	a.parent = b

	assert.Equal(t, []string{"a", "b"}, a.Lineage())
}

func TestKindOfObject_Kinded(t *testing.T) {
	custom := NewKind("custom", nil)

	assert.Same(t, custom, kindOfObject(&note{kind: custom}))
	require.NotNil(t, kindOfObject(&note{}))
	assert.Equal(t, "*objsearch.note", kindOfObject(&note{}).Name())
}
