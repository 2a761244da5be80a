package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/encodeous/coretopo/perf"
	"github.com/encodeous/coretopo/remote"
	"github.com/encodeous/coretopo/state"
)

// HydrateReport summarizes a hydration. Failed link fetches do not stop the rest of the topology from loading.
type HydrateReport struct {
	Nodes    int
	Links    int
	Skipped  int
	Failures []error
}

// SessionSource lists the nodes of a remote session
type SessionSource interface {
	GetSession(ctx context.Context) (remote.SessionInfo, error)
}

// Join fetches the session and hydrates from its node listing
func (e *Editor) Join(ctx context.Context, src SessionSource) (HydrateReport, error) {
	info, err := src.GetSession(ctx)
	if err != nil {
		return HydrateReport{}, err
	}
	e.Log.Info("joining session", "session", info.Id, "state", info.State, "nodes", len(info.Nodes))
	return e.Hydrate(ctx, info.Nodes)
}

// Hydrate rebuilds the local topology from the node listing of a remote session, then
// fetches the links of every fan-out node concurrently. Link batches are applied as they
// arrive, even if the user has started editing in the meantime.
func (e *Editor) Hydrate(ctx context.Context, nodes []remote.SessionNode) (HydrateReport, error) {
	var report HydrateReport
	fanout, err := query(e, func(s *state.State) ([]state.NodeId, error) {
		return e.registerNodes(s, nodes, &report)
	})
	if err != nil {
		return report, err
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		fatal []error
	)
	for _, id := range fanout {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := e.session.GetLinks(ctx, id)
			if err != nil {
				e.Log.Warn("failed to fetch links", "node", id, "error", err)
				mu.Lock()
				report.Failures = append(report.Failures, err)
				mu.Unlock()
				return
			}
			counts, err := query(e, func(s *state.State) (state.Pair[int, int], error) {
				return e.applyLinks(s, id, res.Links)
			})
			mu.Lock()
			defer mu.Unlock()
			report.Links += counts.V1
			report.Skipped += counts.V2
			if err != nil {
				fatal = append(fatal, err)
			}
		}()
	}
	wg.Wait()

	if err := errors.Join(fatal...); err != nil {
		e.Log.Error("hydration failed", "error", err)
		return report, err
	}
	e.Log.Info("hydrated session", "nodes", report.Nodes, "links", report.Links, "skipped", report.Skipped, "failures", len(report.Failures))
	return report, nil
}

// registerNodes seeds the allocator and adds every node except point-to-point ones.
// The listing is checked before anything is registered, so a bad listing leaves the editor untouched.
// It returns the nodes whose links must be fetched.
func (e *Editor) registerNodes(s *state.State, nodes []remote.SessionNode, report *HydrateReport) ([]state.NodeId, error) {
	var fanout []state.NodeId
	maxId := s.Registry.Alloc.Last()
	seen := make(map[state.NodeId]struct{}, len(nodes))
	for _, rec := range nodes {
		if _, ok := seen[rec.Id]; ok {
			return nil, fmt.Errorf("node %d is listed twice", rec.Id)
		}
		seen[rec.Id] = struct{}{}
		if s.Registry.Contains(rec.Id) {
			return nil, fmt.Errorf("node %d is already registered", rec.Id)
		}
		maxId = max(maxId, rec.Id)
		if rec.Type.FanOut() {
			fanout = append(fanout, rec.Id)
		}
	}
	s.Registry.Alloc.Seed(maxId)

	for _, rec := range nodes {
		if rec.Type == state.PtpNode {
			continue
		}
		if _, ok := rec.Type.Descriptor(); !ok {
			s.Log.Warn("unknown node type, treating it as pass-through", "node", rec.Id, "type", rec.Type)
		}
		node := rec.Node()
		if err := s.Registry.Add(node); err != nil {
			return nil, err
		}
		if err := e.canvas.AddNode(visualNode(node)); err != nil {
			return nil, fmt.Errorf("draw node %d: %w", node.Id, err)
		}
		report.Nodes++
	}
	s.Log.Debug("registered nodes", "count", report.Nodes, "last_id", maxId, "fanout", fanout)
	return fanout, nil
}

// applyLinks stores one fan-out node's link listing, returning the number of links added and skipped
func (e *Editor) applyLinks(s *state.State, from state.NodeId, recs []remote.LinkRecord) (state.Pair[int, int], error) {
	var counts state.Pair[int, int]
	for _, rec := range recs {
		key := state.LinkKey(rec.Node1Id, rec.Node2Id)
		if rec.Node1Id == rec.Node2Id {
			return counts, fmt.Errorf("links of node %d: %w: %s", from, state.ErrSelfLink, key)
		}
		n1, err := s.Registry.Get(rec.Node1Id)
		if err != nil {
			return counts, fmt.Errorf("links of node %d: link %s: %w", from, key, err)
		}
		n2, err := s.Registry.Get(rec.Node2Id)
		if err != nil {
			return counts, fmt.Errorf("links of node %d: link %s: %w", from, key, err)
		}
		if existing, ok := s.Store.Between(n1.Id, n2.Id); ok {
			s.Log.Debug("skipping link listed twice", "link", key, "stored", existing.Key(), "origin", existing.Origin)
			counts.V2++
			continue
		}

		link := &state.Link{
			Node1:      n1.Id,
			Node2:      n2.Id,
			Interface1: rec.Interface1(),
			Interface2: rec.Interface2(),
			Origin:     state.Hydrated,
		}
		if err := s.Store.Put(link); err != nil {
			return counts, err
		}
		attachInterface(s, n1, link.Interface1)
		attachInterface(s, n2, link.Interface2)

		edge, err := e.canvas.AddEdge(n1.Id, n2.Id)
		if err != nil {
			return counts, fmt.Errorf("draw link %s: %w", key, err)
		}
		if err := s.Store.BindEdge(key, edge); err != nil {
			return counts, err
		}
		perf.LinksHydrated.Add(1)
		counts.V1++
	}
	return counts, nil
}

func attachInterface(s *state.State, n *state.Node, itf *state.Interface) {
	if itf == nil {
		return
	}
	if old, ok := n.Interfaces[itf.Id]; ok && old != *itf {
		// a derivation for this node finished before the listing arrived
		s.Log.Warn("hydrated interface replaces a local one", "node", n.Id, "interface", itf.Id, "old", old, "new", *itf)
	}
	n.Interfaces[itf.Id] = *itf
}
