package core

import (
	"fmt"
	"net/netip"

	"github.com/encodeous/coretopo/perf"
	"github.com/encodeous/coretopo/remote"
	"github.com/encodeous/coretopo/state"
)

type endpoint struct {
	id     state.NodeId
	bearer bool
}

// startDerivation requests addresses for the address bearing endpoints of pl off the main loop.
// Both endpoints stay busy until the result is applied.
func (e *Editor) startDerivation(s *state.State, pl state.PendingLink) {
	n1, err1 := s.Registry.Get(pl.From)
	n2, err2 := s.Registry.Get(pl.To)
	if err1 != nil || err2 != nil {
		// nodes are never removed, so this only happens if the registry was corrupted
		panic(fmt.Sprintf("derivation of %s lost its nodes", state.LinkKey(pl.From, pl.To)))
	}
	s.Deriving[pl.From] = struct{}{}
	s.Deriving[pl.To] = struct{}{}

	ends := [2]endpoint{
		{n1.Id, n1.Type.AddressBearing()},
		{n2.Id, n2.Type.AddressBearing()},
	}
	ip4, ip6 := s.Ip4Prefix, s.Ip6Prefix
	s.Log.Debug("deriving link", "link", state.LinkKey(pl.From, pl.To))

	go func() {
		var addrs [2]*remote.Addresses
		var err error
		for i, ep := range ends {
			if !ep.bearer {
				continue
			}
			var a remote.Addresses
			a, err = e.session.GetNodeAddresses(e.Context, ep.id, ip4, ip6)
			if err != nil {
				break
			}
			addrs[i] = &a
		}
		e.Dispatch(func(s *state.State) error {
			return e.finishDerivation(s, pl, addrs, err)
		})
	}()
}

func (e *Editor) finishDerivation(s *state.State, pl state.PendingLink, addrs [2]*remote.Addresses, err error) error {
	defer e.settled()
	delete(s.Deriving, pl.From)
	delete(s.Deriving, pl.To)
	delete(s.Claimed, state.MakeSortedPair(pl.From, pl.To))
	defer e.drainPending(s)

	key := state.LinkKey(pl.From, pl.To)
	if err != nil {
		s.Log.Warn("address allocation failed, edge is not committed", "link", key, "edge", pl.Edge, "error", err)
		e.report(fmt.Errorf("derive link %s: %w", key, err))
		return nil
	}

	n1, err := s.Registry.Get(pl.From)
	if err != nil {
		return err
	}
	n2, err := s.Registry.Get(pl.To)
	if err != nil {
		return err
	}

	link := &state.Link{Node1: pl.From, Node2: pl.To, Origin: state.UserCreated, Edge: pl.Edge}
	if addrs[0] != nil {
		itf := addrs[0].Interface(n1.NextInterfaceId())
		link.Interface1 = &itf
	}
	if addrs[1] != nil {
		itf := addrs[1].Interface(n2.NextInterfaceId())
		link.Interface2 = &itf
	}
	e.checkAddresses(s, n1.Id, link.Interface1)
	e.checkAddresses(s, n2.Id, link.Interface2)

	if err := s.Store.Put(link); err != nil {
		e.canvas.RemoveEdge(pl.Edge)
		e.report(err)
		return nil
	}
	if link.Interface1 != nil {
		n1.Interfaces[link.Interface1.Id] = *link.Interface1
	}
	if link.Interface2 != nil {
		n2.Interfaces[link.Interface2.Id] = *link.Interface2
	}
	perf.LinksDerived.Add(1)
	s.Log.Debug("derived link", "link", key, "interface1", link.Interface1, "interface2", link.Interface2)
	return nil
}

// checkAddresses warns when an allocated address is already owned by another node
func (e *Editor) checkAddresses(s *state.State, node state.NodeId, itf *state.Interface) {
	if itf == nil {
		return
	}
	for _, pfx := range []netip.Prefix{itf.Ip4, itf.Ip6} {
		if !pfx.IsValid() {
			continue
		}
		if owner, ok := s.Store.AddressOwner(pfx.Addr()); ok && owner.Node != node {
			s.Log.Warn("allocated address is already in use", "addr", pfx.Addr(), "node", node, "owner", owner.Node, "interface", owner.Interface)
		}
	}
}

// drainPending starts queued derivations in order. A derivation waits while one of its
// nodes is busy or is part of an earlier queued derivation.
func (e *Editor) drainPending(s *state.State) {
	pending := s.Pending
	s.Pending = nil
	blocked := make(map[state.NodeId]struct{})
	for _, pl := range pending {
		_, b1 := blocked[pl.From]
		_, b2 := blocked[pl.To]
		if b1 || b2 || s.Busy(pl.From, pl.To) {
			s.Pending = append(s.Pending, pl)
			blocked[pl.From] = struct{}{}
			blocked[pl.To] = struct{}{}
			continue
		}
		e.startDerivation(s, pl)
	}
}
