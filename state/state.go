package state

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// NodeMode is the type and model given to nodes added from the canvas
type NodeMode struct {
	Type  NodeType
	Model string // empty means no model
}

// PendingLink is a user drawn edge waiting for its endpoints to become free
type PendingLink struct {
	Edge string
	From NodeId
	To   NodeId
}

// State access must be done only on a single Goroutine
type State struct {
	*Env
	Registry *Registry
	Store    *Store
	Mode     NodeMode

	// nodes that have an address allocation in flight
	Deriving map[NodeId]struct{}
	Pending  []PendingLink
	// unordered pairs with a derivation queued or in flight, mapped to the edge
	Claimed map[Pair[NodeId, NodeId]]string
}

func NewState(env *Env) *State {
	return &State{
		Env:      env,
		Registry: NewRegistry(),
		Store:    NewStore(),
		Mode:     NodeMode{Type: DefaultNode, Model: DefaultNodeModel},
		Deriving: make(map[NodeId]struct{}),
		Claimed:  make(map[Pair[NodeId, NodeId]]string),
	}
}

// Busy reports whether any of the nodes has a derivation in flight
func (s *State) Busy(nodes ...NodeId) bool {
	for _, n := range nodes {
		if _, ok := s.Deriving[n]; ok {
			return true
		}
	}
	return false
}

// Queued reports whether any of the nodes has a derivation waiting in Pending
func (s *State) Queued(nodes ...NodeId) bool {
	for _, pl := range s.Pending {
		for _, n := range nodes {
			if pl.From == n || pl.To == n {
				return true
			}
		}
	}
	return false
}

// Env can be read from any Goroutine
type Env struct {
	DispatchChannel chan<- func(s *State) error
	Config
	Context  context.Context
	Cancel   context.CancelCauseFunc
	Log      *slog.Logger
	Started  atomic.Bool
	Stopping atomic.Bool
}
