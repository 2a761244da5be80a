package canvas

import (
	"fmt"
	"math"
	"sync"

	"github.com/encodeous/coretopo/state"
	"github.com/google/uuid"
)

// Node is the visual representation of a topology node
type Node struct {
	Id    state.NodeId
	X, Y  float64
	Label string
	Image string
}

type Edge struct {
	Id   string
	From state.NodeId
	To   state.NodeId
}

type Point struct {
	X, Y float64
}

// DoubleClick carries the nodes under the pointer and the pointer position in canvas coordinates
type DoubleClick struct {
	Nodes   []state.NodeId
	Pointer Point
}

// Canvas is what the editor needs from the rendering layer
type Canvas interface {
	AddNode(n Node) error
	AddEdge(from, to state.NodeId) (string, error)
	Edge(id string) (Edge, bool)
	RemoveEdge(id string)
	AddEdgeMode()
	DisableEditMode()
	OnDoubleClick(fn func(DoubleClick))
	OnEdgeAdded(fn func(id string))
}

type Mode int

const (
	ModeNone Mode = iota
	ModeAddEdge
)

// HitRadius is how close a pointer must be to a node to hit it
var HitRadius = 25.0

// Network is a headless canvas. Edge drawing mode is one-shot: drawing an edge leaves the mode.
type Network struct {
	Nodes *DataSet[state.NodeId, Node]
	Edges *DataSet[string, Edge]

	mu            sync.Mutex
	mode          Mode
	modeChanges   int
	onDoubleClick []func(DoubleClick)
}

var _ Canvas = (*Network)(nil)

func NewNetwork() *Network {
	return &Network{
		Nodes: NewDataSet(func(n Node) state.NodeId { return n.Id }),
		Edges: NewDataSet(func(e Edge) string { return e.Id }),
	}
}

func (n *Network) AddNode(node Node) error {
	return n.Nodes.Add(node)
}

func (n *Network) AddEdge(from, to state.NodeId) (string, error) {
	if _, ok := n.Nodes.Get(from); !ok {
		return "", fmt.Errorf("edge source %d is not on the canvas", from)
	}
	if _, ok := n.Nodes.Get(to); !ok {
		return "", fmt.Errorf("edge target %d is not on the canvas", to)
	}
	id := uuid.NewString()
	if err := n.Edges.Add(Edge{Id: id, From: from, To: to}); err != nil {
		return "", err
	}
	return id, nil
}

func (n *Network) Edge(id string) (Edge, bool) {
	return n.Edges.Get(id)
}

func (n *Network) RemoveEdge(id string) {
	n.Edges.Remove(id)
}

func (n *Network) setMode(m Mode) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.mode = m
	n.modeChanges++
}

func (n *Network) AddEdgeMode() {
	n.setMode(ModeAddEdge)
}

func (n *Network) DisableEditMode() {
	n.setMode(ModeNone)
}

func (n *Network) Mode() Mode {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.mode
}

// ModeChanges counts AddEdgeMode and DisableEditMode calls
func (n *Network) ModeChanges() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.modeChanges
}

func (n *Network) OnDoubleClick(fn func(DoubleClick)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.onDoubleClick = append(n.onDoubleClick, fn)
}

func (n *Network) OnEdgeAdded(fn func(id string)) {
	n.Edges.OnAdd(func(keys []string) {
		for _, k := range keys {
			fn(k)
		}
	})
}

// DoubleClickAt simulates a double click and reports the nodes it hit
func (n *Network) DoubleClickAt(p Point) DoubleClick {
	ev := DoubleClick{Pointer: p}
	for _, node := range n.Nodes.All() {
		if math.Hypot(node.X-p.X, node.Y-p.Y) <= HitRadius {
			ev.Nodes = append(ev.Nodes, node.Id)
		}
	}
	n.mu.Lock()
	observers := append([]func(DoubleClick){}, n.onDoubleClick...)
	n.mu.Unlock()
	for _, fn := range observers {
		fn(ev)
	}
	return ev
}

// DrawEdge simulates the user dragging an edge between two nodes
func (n *Network) DrawEdge(from, to state.NodeId) (string, error) {
	n.mu.Lock()
	if n.mode != ModeAddEdge {
		n.mu.Unlock()
		return "", fmt.Errorf("canvas is not in edge drawing mode")
	}
	n.mode = ModeNone
	n.mu.Unlock()
	return n.AddEdge(from, to)
}
