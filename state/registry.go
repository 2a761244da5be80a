package state

import "fmt"

// IdAllocator mints node ids. It must be seeded from a hydration pass before ids are minted
// for a session that already has nodes.
type IdAllocator struct {
	last NodeId
}

func (a *IdAllocator) Next() NodeId {
	a.last++
	return a.last
}

func (a *IdAllocator) Seed(max NodeId) {
	a.last = max
}

func (a *IdAllocator) Last() NodeId {
	return a.last
}

// Registry owns every node of the editor. Enumeration follows insertion order.
type Registry struct {
	Alloc *IdAllocator
	nodes map[NodeId]*Node
	order []NodeId
}

func NewRegistry() *Registry {
	return &Registry{
		Alloc: &IdAllocator{},
		nodes: make(map[NodeId]*Node),
	}
}

func (r *Registry) AllocateId() NodeId {
	return r.Alloc.Next()
}

// Add inserts a node, the caller guarantees that its id is unique.
func (r *Registry) Add(node *Node) error {
	if _, ok := r.nodes[node.Id]; ok {
		return fmt.Errorf("node %d is already registered", node.Id)
	}
	if node.Interfaces == nil {
		node.Interfaces = make(map[int]Interface)
	}
	r.nodes[node.Id] = node
	r.order = append(r.order, node.Id)
	return nil
}

func (r *Registry) Get(id NodeId) (*Node, error) {
	node, ok := r.nodes[id]
	if !ok {
		return nil, NotFoundError{Id: id}
	}
	return node, nil
}

func (r *Registry) Contains(id NodeId) bool {
	_, ok := r.nodes[id]
	return ok
}

func (r *Registry) Len() int {
	return len(r.order)
}

func (r *Registry) Nodes() []*Node {
	nodes := make([]*Node, 0, len(r.order))
	for _, id := range r.order {
		nodes = append(nodes, r.nodes[id])
	}
	return nodes
}
