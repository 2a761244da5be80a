package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocatorSeed(t *testing.T) {
	a := &IdAllocator{}
	assert.Equal(t, NodeId(1), a.Next())
	a.Seed(7)
	assert.Equal(t, NodeId(7), a.Last())
	assert.Equal(t, NodeId(8), a.Next())
	assert.Equal(t, NodeId(9), a.Next())
}

func TestRegistryOrder(t *testing.T) {
	r := NewRegistry()
	for _, id := range []NodeId{5, 2, 9} {
		require.NoError(t, r.Add(NewNode(id, DefaultNode, "n", 0, 0)))
	}
	ids := make([]NodeId, 0)
	for _, n := range r.Nodes() {
		ids = append(ids, n.Id)
	}
	assert.Equal(t, []NodeId{5, 2, 9}, ids)
	assert.Equal(t, 3, r.Len())
}

func TestRegistryDuplicate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(NewNode(1, DefaultNode, "node1", 0, 0)))
	assert.Error(t, r.Add(NewNode(1, SwitchNode, "switch1", 0, 0)))
}

func TestRegistryGetMissing(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get(3)
	assert.ErrorIs(t, err, ErrNotFound)
	var nf NotFoundError
	assert.ErrorAs(t, err, &nf)
	assert.Equal(t, NodeId(3), nf.Id)
}

func TestRegistryAddInitializesInterfaces(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(&Node{Id: 1}))
	n, err := r.Get(1)
	require.NoError(t, err)
	assert.NotNil(t, n.Interfaces)
	assert.Equal(t, 0, n.NextInterfaceId())
}
