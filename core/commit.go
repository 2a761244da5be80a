package core

import (
	"context"
	"fmt"

	"github.com/encodeous/coretopo/perf"
	"github.com/encodeous/coretopo/remote"
	"github.com/encodeous/coretopo/state"
)

func exportNodes(s *state.State) []remote.NodeRecord {
	recs := make([]remote.NodeRecord, 0, s.Registry.Len())
	for _, n := range s.Registry.Nodes() {
		recs = append(recs, remote.NodeRecordOf(n))
	}
	return recs
}

// ExportNodes serializes every registered node in registration order
func (e *Editor) ExportNodes() ([]remote.NodeRecord, error) {
	return query(e, func(s *state.State) ([]remote.NodeRecord, error) {
		return exportNodes(s), nil
	})
}

func exportLinks(s *state.State) []remote.LinkRecord {
	recs := make([]remote.LinkRecord, 0, s.Store.Len())
	for _, l := range s.Store.Links() {
		recs = append(recs, remote.LinkRecordOf(l))
	}
	return recs
}

// ExportLinks serializes every stored link in insertion order
func (e *Editor) ExportLinks() ([]remote.LinkRecord, error) {
	return query(e, func(s *state.State) ([]remote.LinkRecord, error) {
		return exportLinks(s), nil
	})
}

// CommitSession replays the topology into the remote session, nodes first, then links, and
// moves the session to instantiation. The first failed call aborts the rest, calls that
// already succeeded are not rolled back.
func (e *Editor) CommitSession(ctx context.Context) error {
	snap, err := query(e, func(s *state.State) (state.Pair[[]remote.NodeRecord, []remote.LinkRecord], error) {
		return state.Pair[[]remote.NodeRecord, []remote.LinkRecord]{V1: exportNodes(s), V2: exportLinks(s)}, nil
	})
	if err != nil {
		return err
	}
	nodes, links := snap.V1, snap.V2
	e.Log.Info("committing session", "nodes", len(nodes), "links", len(links))

	for _, n := range nodes {
		if _, err := e.session.CreateNode(ctx, n); err != nil {
			return fmt.Errorf("commit aborted at node %d: %w", n.Id, err)
		}
		perf.NodesCommitted.Add(1)
	}
	for _, l := range links {
		if _, err := e.session.CreateLink(ctx, l); err != nil {
			return fmt.Errorf("commit aborted at link %s: %w", state.LinkKey(l.Node1Id, l.Node2Id), err)
		}
	}
	if err := e.session.SetSessionState(ctx, remote.Instantiation); err != nil {
		return fmt.Errorf("commit aborted at instantiation: %w", err)
	}
	e.Log.Info("session committed")
	return nil
}
