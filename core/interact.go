package core

import (
	"fmt"

	"github.com/encodeous/coretopo/canvas"
	"github.com/encodeous/coretopo/state"
)

func visualNode(n *state.Node) canvas.Node {
	return canvas.Node{
		Id:    n.Id,
		X:     n.X,
		Y:     n.Y,
		Label: n.Name,
		Image: n.Icon(),
	}
}

// canvas observers run on whatever goroutine changed the canvas, which may be the main loop itself

func (e *Editor) onDoubleClick(ev canvas.DoubleClick) {
	e.outstanding.Add(1)
	e.DispatchAsync(func(s *state.State) error {
		defer e.settled()
		if len(ev.Nodes) > 0 {
			s.Log.Debug("double click hit a node, ignoring", "nodes", ev.Nodes)
			return nil
		}
		if _, err := e.addNode(s, ev.Pointer, ""); err != nil {
			s.Log.Warn("failed to add node", "error", err)
			e.report(err)
		}
		return nil
	})
}

// PlaceNode adds a node at p with the current node mode, as a double click on empty space
// would. An empty name is synthesized from the node type and id.
func (e *Editor) PlaceNode(p canvas.Point, name string) (state.NodeId, error) {
	return query(e, func(s *state.State) (state.NodeId, error) {
		return e.addNode(s, p, name)
	})
}

func (e *Editor) addNode(s *state.State, p canvas.Point, name string) (state.NodeId, error) {
	desc, _ := s.Mode.Type.Descriptor()
	id := s.Registry.AllocateId()
	if name == "" {
		name = fmt.Sprintf("%s%d", desc.Name, id)
	}
	node := state.NewNode(id, s.Mode.Type, name, p.X, p.Y)
	node.Model = s.Mode.Model
	if err := s.Registry.Add(node); err != nil {
		// the allocator handed out an id that is already taken
		return 0, fmt.Errorf("add node: %w", err)
	}
	if err := e.canvas.AddNode(visualNode(node)); err != nil {
		e.report(fmt.Errorf("draw node %d: %w", id, err))
	}
	s.Log.Debug("added node", "id", id, "name", name, "type", node.Type, "x", p.X, "y", p.Y)
	return id, nil
}

func (e *Editor) onEdgeAdded(id string) {
	e.outstanding.Add(1)
	e.DispatchAsync(func(s *state.State) error {
		if !e.edgeAdded(s, id) {
			e.settled()
		}
		return nil
	})
}

// rearmEdgeMode puts the canvas back into edge drawing mode after the configured delay
func (e *Editor) rearmEdgeMode() {
	e.ScheduleTask(func(s *state.State) error {
		e.canvas.AddEdgeMode()
		return nil
	}, e.EdgeModeDelay)
}

// edgeAdded reports whether a derivation took over the event
func (e *Editor) edgeAdded(s *state.State, id string) bool {
	defer e.rearmEdgeMode()
	if link, ok := s.Store.ByEdge(id); ok && link.Origin == state.Hydrated {
		s.Log.Debug("ignoring recreated edge", "edge", id, "link", link.Key())
		return false
	}
	edge, ok := e.canvas.Edge(id)
	if !ok {
		s.Log.Debug("edge vanished before it was handled", "edge", id)
		return false
	}
	if edge.From == edge.To {
		s.Log.Debug("discarding self loop", "edge", id, "node", edge.From)
		e.canvas.RemoveEdge(id)
		return false
	}
	pair := state.MakeSortedPair(edge.From, edge.To)
	existing, ok := s.Claimed[pair]
	if link, stored := s.Store.Between(edge.From, edge.To); stored {
		ok, existing = true, link.Key()
	}
	if ok {
		e.canvas.RemoveEdge(id)
		e.report(fmt.Errorf("%w: %s (already %s)", state.ErrDuplicateLink, state.LinkKey(edge.From, edge.To), existing))
		return false
	}
	for _, n := range []state.NodeId{edge.From, edge.To} {
		if !s.Registry.Contains(n) {
			e.report(fmt.Errorf("edge %s: %w", id, state.NotFoundError{Id: n}))
			return false
		}
	}

	pl := state.PendingLink{Edge: id, From: edge.From, To: edge.To}
	s.Claimed[pair] = id
	if s.Busy(pl.From, pl.To) || s.Queued(pl.From, pl.To) {
		s.Log.Debug("queueing link derivation", "link", state.LinkKey(pl.From, pl.To))
		s.Pending = append(s.Pending, pl)
		return true
	}
	e.startDerivation(s, pl)
	return true
}
