package core

import (
	"context"
	"fmt"
	"log/slog"
	"net/netip"
	"testing"
	"time"

	"github.com/encodeous/coretopo/canvas"
	"github.com/encodeous/coretopo/mock"
	"github.com/encodeous/coretopo/remote"
	"github.com/encodeous/coretopo/state"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

const (
	testWait = 2 * time.Second
	testTick = 5 * time.Millisecond
)

var linkCmp = []cmp.Option{
	cmpopts.EquateComparable(netip.Prefix{}),
	cmpopts.IgnoreFields(state.Link{}, "Edge"),
}

type EditorHarness struct {
	ed      *Editor
	cv      *canvas.Network
	session *mock.Session
}

func NewHarness(t *testing.T, session *mock.Session) *EditorHarness {
	t.Helper()
	if session == nil {
		session = mock.NewSession()
	}
	cfg := state.DefaultConfig()
	cfg.EdgeModeDelay = time.Millisecond
	cv := canvas.NewNetwork()
	ed, err := NewEditor(context.Background(), cfg, cv, session, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	ed.Start()
	return &EditorHarness{ed: ed, cv: cv, session: session}
}

func (h *EditorHarness) Stop() {
	h.ed.Stop()
}

func (h *EditorHarness) Settle(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, h.ed.Settle(ctx))
}

// Place adds a node the way a double click on empty canvas does
func (h *EditorHarness) Place(t *testing.T, x, y float64) state.NodeId {
	t.Helper()
	ev := h.cv.DoubleClickAt(canvas.Point{X: x, Y: y})
	require.Empty(t, ev.Nodes, "double click landed on a node")
	h.Settle(t)
	last, err := h.ed.LastId()
	require.NoError(t, err)
	return last
}

// Draw drags an edge on the canvas
func (h *EditorHarness) Draw(t *testing.T, from, to state.NodeId) string {
	t.Helper()
	h.cv.AddEdgeMode()
	id, err := h.cv.DrawEdge(from, to)
	require.NoError(t, err)
	return id
}

func (h *EditorHarness) NextError(t *testing.T) error {
	t.Helper()
	select {
	case err := <-h.ed.Errors():
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("expected an editor error")
		return nil
	}
}

func (h *EditorHarness) Pending(t *testing.T) int {
	t.Helper()
	n, err := query(h.ed, func(s *state.State) (int, error) {
		return len(s.Pending), nil
	})
	require.NoError(t, err)
	return n
}

// RemoteCalls lists the session calls, leaving out address allocations
func (h *EditorHarness) RemoteCalls() []string {
	var out []string
	for _, msg := range h.session.Events().Messages() {
		if msg != "get_node_addresses" {
			out = append(out, msg)
		}
	}
	return out
}

func sessionNode(id state.NodeId, t state.NodeType) remote.SessionNode {
	desc, _ := t.Descriptor()
	return remote.SessionNode{Id: id, Type: t, Name: fmt.Sprintf("%s%d", desc.Name, id)}
}

func hostLink(a, b state.NodeId, itfA *int, ip4 string) remote.LinkRecord {
	rec := remote.LinkRecord{Node1Id: a, Node2Id: b, Interface1Id: itfA}
	if ip4 != "" {
		rec.Interface1Ip4 = netip.MustParseAddr(ip4)
		rec.Interface1Ip4Mask = 24
	}
	return rec
}

func intp(i int) *int {
	return &i
}
