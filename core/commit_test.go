package core

import (
	"context"
	"errors"
	"testing"

	"github.com/encodeous/coretopo/canvas"
	"github.com/encodeous/coretopo/mock"
	"github.com/encodeous/coretopo/remote"
	"github.com/encodeous/coretopo/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestCommitOrder(t *testing.T) {
	defer goleak.VerifyNone(t)
	h := NewHarness(t, nil)
	defer h.Stop()

	a := h.Place(t, 0, 0)
	b := h.Place(t, 100, 0)
	h.Draw(t, a, b)
	h.Settle(t)

	require.NoError(t, h.ed.CommitSession(context.Background()))
	assert.Equal(t, []string{"create_node", "create_node", "create_link", "set_session_state"}, h.RemoteCalls())
	events := h.session.Events()
	assert.True(t, events.Contains("create_node", state.NodeId(1), "node1"))
	assert.True(t, events.Contains("create_link", state.NodeId(1), state.NodeId(2)))
	assert.True(t, events.Contains("set_session_state", remote.Instantiation))

	require.Len(t, h.session.Linked, 1)
	rec := h.session.Linked[0]
	require.NotNil(t, rec.Interface1Id)
	require.NotNil(t, rec.Interface2Id)
	assert.Equal(t, "10.0.0.2", rec.Interface2Ip4.String())
	assert.Equal(t, remote.Instantiation, h.session.State)
}

func TestCommitAbortsOnFailure(t *testing.T) {
	defer goleak.VerifyNone(t)
	h := NewHarness(t, nil)
	defer h.Stop()

	a := h.Place(t, 0, 0)
	b := h.Place(t, 100, 0)
	h.Draw(t, a, b)
	h.Settle(t)

	h.session.FailNode[b] = errors.New("node exists")
	err := h.ed.CommitSession(context.Background())
	assert.ErrorIs(t, err, state.ErrRemoteCall)
	assert.ErrorContains(t, err, "node 2")
	assert.Equal(t, []string{"create_node", "create_node"}, h.RemoteCalls())
	assert.Equal(t, remote.SessionState(0), h.session.State)
}

func TestCommitHydratedSession(t *testing.T) {
	defer goleak.VerifyNone(t)
	h := NewHarness(t, mock.SampleSession())
	defer h.Stop()

	_, err := h.ed.Join(context.Background(), h.session)
	require.NoError(t, err)
	h.Settle(t)

	// nodes keep their remote ids, so a new node continues after the elided ptp node
	require.NoError(t, h.ed.SetNodeMode(state.DefaultNode, "mdr"))
	h.cv.DoubleClickAt(canvas.Point{X: 900, Y: 900})
	h.Settle(t)

	require.NoError(t, h.ed.CommitSession(context.Background()))
	assert.Len(t, h.session.Nodes, 6)
	assert.Len(t, h.session.Linked, 4)
	last := h.session.Nodes[5]
	assert.Equal(t, state.NodeId(7), last.Id)
	assert.Equal(t, "node7", last.Name)
	require.NotNil(t, last.Model)
	assert.Equal(t, "mdr", *last.Model)
}

func TestExportNodes(t *testing.T) {
	defer goleak.VerifyNone(t)
	h := NewHarness(t, nil)
	defer h.Stop()

	require.NoError(t, h.ed.SetNodeMode(state.WlanNode, ""))
	h.Place(t, 10, 20)
	recs, err := h.ed.ExportNodes()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, remote.NodeRecord{Id: 1, Type: state.WlanNode, Name: "wlan1", X: 10, Y: 20}, recs[0])
}
