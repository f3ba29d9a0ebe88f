package identity

import (
	stderrors "errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/objsearch/internal/errors"
)

type book struct {
	Title string
}

type tagged struct {
	Tags []string
}

func TestNewID_Format(t *testing.T) {
	hexID := regexp.MustCompile(`^[0-9a-f]{32}$`)

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := NewID()
		require.Regexp(t, hexID, id)
		_, dup := seen[id]
		require.False(t, dup, "id reused: %s", id)
		seen[id] = struct{}{}
	}
}

func TestRegistry_MintAndResolve(t *testing.T) {
	// Given: a registry and a pointer object
	r := New()
	b := &book{Title: "Dune"}

	// When: minting an id
	id, err := r.Mint(b)
	require.NoError(t, err)

	// Then: both directions resolve to the same object
	got, err := r.Resolve(id)
	require.NoError(t, err)
	assert.Same(t, b, got)

	owner, err := r.OwnerID(b)
	require.NoError(t, err)
	assert.Equal(t, id, owner)
	assert.Equal(t, 1, r.Len())
	assert.True(t, r.Contains(b))
}

func TestRegistry_PointerIdentity(t *testing.T) {
	// Given: two distinct pointers with equal contents
	r := New()
	a := &book{Title: "Same"}
	b := &book{Title: "Same"}

	// When: both are minted
	idA, err := r.Mint(a)
	require.NoError(t, err)
	idB, err := r.Mint(b)
	require.NoError(t, err)

	// Then: each keeps its own id
	assert.NotEqual(t, idA, idB)
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_ValueIdentity(t *testing.T) {
	// Given: a comparable value registered once
	r := New()
	_, err := r.Mint(book{Title: "Value"})
	require.NoError(t, err)

	// When: an equal value is registered again
	_, err = r.Mint(book{Title: "Value"})

	// Then: it is the same object and is rejected
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)
}

func TestRegistry_RejectsUnusableKeys(t *testing.T) {
	r := New()

	tests := []struct {
		name string
		obj  any
	}{
		{name: "nil", obj: nil},
		{name: "slice", obj: []string{"a"}},
		{name: "map", obj: map[string]int{}},
		{name: "struct with slice", obj: tagged{Tags: []string{"a"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Mint(tt.obj)
			assert.ErrorIs(t, err, errors.ErrInvalidArgument)

			_, err = r.OwnerID(tt.obj)
			assert.ErrorIs(t, err, errors.ErrInvalidArgument)
			assert.False(t, r.Contains(tt.obj))
		})
	}
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_RecordRejectsReusedID(t *testing.T) {
	r := New()
	id := NewID()
	require.NoError(t, r.Record(id, &book{}))

	err := r.Record(id, &book{})
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)

	err = r.Record("", &book{})
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)
}

func TestRegistry_Release(t *testing.T) {
	// Given: a registered object
	r := New()
	b := &book{}
	id, err := r.Mint(b)
	require.NoError(t, err)

	// When: it is released
	require.NoError(t, r.Release(id))

	// Then: both directions miss and a second release fails
	_, err = r.Resolve(id)
	assert.ErrorIs(t, err, errors.ErrNotFound)
	_, err = r.OwnerID(b)
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.True(t, stderrors.Is(r.Release(id), errors.ErrNotFound))
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_SnapshotIsImmutable(t *testing.T) {
	// Given: a snapshot taken after one registration
	r := New()
	first := &book{Title: "first"}
	id, err := r.Mint(first)
	require.NoError(t, err)
	snap := r.Snapshot()

	// When: the registry changes
	_, err = r.Mint(&book{Title: "second"})
	require.NoError(t, err)
	require.NoError(t, r.Release(id))

	// Then: the snapshot still reflects the earlier state
	assert.Equal(t, 1, snap.Len())
	got, ok := snap.Resolve(id)
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.ElementsMatch(t, r.IDs(), r.Snapshot().IDs())
}
