package canvas

import (
	"testing"

	"github.com/encodeous/coretopo/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataSetAddAllOrNothing(t *testing.T) {
	ds := NewDataSet(func(n Node) state.NodeId { return n.Id })
	var added [][]state.NodeId
	ds.OnAdd(func(keys []state.NodeId) {
		added = append(added, keys)
	})

	require.NoError(t, ds.Add(Node{Id: 1}, Node{Id: 2}))
	assert.Error(t, ds.Add(Node{Id: 3}, Node{Id: 1}))
	assert.Equal(t, 2, ds.Len())
	_, ok := ds.Get(3)
	assert.False(t, ok)
	assert.Equal(t, [][]state.NodeId{{1, 2}}, added)

	assert.True(t, ds.Remove(1))
	assert.False(t, ds.Remove(1))
	assert.Equal(t, []Node{{Id: 2}}, ds.All())
}

func TestDataSetObserverCanReadSet(t *testing.T) {
	ds := NewDataSet(func(e Edge) string { return e.Id })
	seen := 0
	ds.OnAdd(func(keys []string) {
		// the set is unlocked while observers run
		for _, k := range keys {
			if _, ok := ds.Get(k); ok {
				seen++
			}
		}
	})
	require.NoError(t, ds.Add(Edge{Id: "a"}, Edge{Id: "b"}))
	assert.Equal(t, 2, seen)
}

func TestNetworkDoubleClickHits(t *testing.T) {
	n := NewNetwork()
	require.NoError(t, n.AddNode(Node{Id: 1, X: 100, Y: 100}))
	require.NoError(t, n.AddNode(Node{Id: 2, X: 300, Y: 100}))

	var events []DoubleClick
	n.OnDoubleClick(func(ev DoubleClick) {
		events = append(events, ev)
	})

	n.DoubleClickAt(Point{X: 110, Y: 95})
	n.DoubleClickAt(Point{X: 200, Y: 200})
	require.Len(t, events, 2)
	assert.Equal(t, []state.NodeId{1}, events[0].Nodes)
	assert.Empty(t, events[1].Nodes)
	assert.Equal(t, Point{X: 200, Y: 200}, events[1].Pointer)
}

func TestNetworkEdgeModeIsOneShot(t *testing.T) {
	n := NewNetwork()
	require.NoError(t, n.AddNode(Node{Id: 1}))
	require.NoError(t, n.AddNode(Node{Id: 2}))

	_, err := n.DrawEdge(1, 2)
	assert.Error(t, err)

	var drawn []string
	n.OnEdgeAdded(func(id string) {
		drawn = append(drawn, id)
	})

	n.AddEdgeMode()
	id, err := n.DrawEdge(1, 2)
	require.NoError(t, err)
	assert.Equal(t, ModeNone, n.Mode())
	assert.Equal(t, []string{id}, drawn)

	e, ok := n.Edge(id)
	require.True(t, ok)
	assert.Equal(t, Edge{Id: id, From: 1, To: 2}, e)

	n.RemoveEdge(id)
	_, ok = n.Edge(id)
	assert.False(t, ok)
	assert.Equal(t, 1, n.ModeChanges())
}

func TestNetworkEdgeNeedsNodes(t *testing.T) {
	n := NewNetwork()
	require.NoError(t, n.AddNode(Node{Id: 1}))
	_, err := n.AddEdge(1, 9)
	assert.ErrorContains(t, err, "target 9")
	_, err = n.AddEdge(9, 1)
	assert.ErrorContains(t, err, "source 9")

	a, err := n.AddEdge(1, 1)
	require.NoError(t, err)
	b, err := n.AddEdge(1, 1)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
