package mock

import (
	"context"
	"errors"
	"net/netip"
	"testing"

	"github.com/encodeous/coretopo/remote"
	"github.com/encodeous/coretopo/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffset(t *testing.T) {
	assert.Equal(t, netip.MustParseAddr("10.0.0.7"), Offset(netip.MustParseAddr("10.0.0.0"), 7))
	assert.Equal(t, netip.MustParseAddr("10.0.1.4"), Offset(netip.MustParseAddr("10.0.0.0"), 260))
	assert.Equal(t, netip.MustParseAddr("2001::ff"), Offset(netip.MustParseAddr("2001::"), 255))
}

func TestSessionAddresses(t *testing.T) {
	m := NewSession()
	addrs, err := m.GetNodeAddresses(context.Background(), 3, state.DefaultIp4Prefix, state.DefaultIp6Prefix)
	require.NoError(t, err)
	itf := addrs.Interface(0)
	assert.Equal(t, netip.MustParsePrefix("10.0.0.3/24"), itf.Ip4)
	assert.Equal(t, netip.MustParsePrefix("2001::3/64"), itf.Ip6)
	assert.True(t, m.Events().Contains("get_node_addresses", state.NodeId(3), state.DefaultIp4Prefix))
}

func TestSessionFailures(t *testing.T) {
	m := NewSession()
	m.Fail["create_link"] = errors.New("boom")
	m.FailNode[2] = errors.New("node is gone")
	ctx := context.Background()

	_, err := m.CreateNode(ctx, remote.NodeRecord{Id: 1})
	require.NoError(t, err)
	_, err = m.CreateNode(ctx, remote.NodeRecord{Id: 2})
	assert.ErrorIs(t, err, state.ErrRemoteCall)
	_, err = m.CreateLink(ctx, remote.LinkRecord{Node1Id: 1, Node2Id: 3})
	assert.ErrorContains(t, err, "boom")
	require.NoError(t, m.SetSessionState(ctx, remote.Instantiation))

	assert.Equal(t, []string{"create_node", "create_node", "create_link", "set_session_state"}, m.Events().Messages())
	assert.Len(t, m.Nodes, 1)
	assert.Equal(t, remote.Instantiation, m.State)
}

func TestSampleSession(t *testing.T) {
	m := SampleSession()
	info, err := m.GetSession(context.Background())
	require.NoError(t, err)
	assert.Len(t, info.Nodes, 6)

	res, err := m.GetLinks(context.Background(), 6)
	require.NoError(t, err)
	require.Len(t, res.Links, 1)
	assert.Equal(t, netip.MustParsePrefix("10.0.0.5/24"), res.Links[0].Interface2().Ip4)
	assert.Equal(t, 1, res.Links[0].Interface1().Id)
}
