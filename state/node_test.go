package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescriptors(t *testing.T) {
	cases := map[NodeType]string{
		DefaultNode: "node",
		SwitchNode:  "switch",
		HubNode:     "hub",
		WlanNode:    "wlan",
		PtpNode:     "ptp",
	}
	for typ, name := range cases {
		desc, ok := typ.Descriptor()
		assert.True(t, ok)
		assert.Equal(t, name, desc.Name)
		parsed, err := ParseNodeType(name)
		assert.NoError(t, err)
		assert.Equal(t, typ, parsed)
	}

	desc, ok := NodeType(7).Descriptor()
	assert.False(t, ok)
	assert.Equal(t, "unknown", desc.Name)

	_, err := ParseNodeType("emane")
	assert.ErrorIs(t, err, ErrUnknownNodeType)
}

func TestTypeClasses(t *testing.T) {
	assert.True(t, DefaultNode.AddressBearing())
	assert.False(t, SwitchNode.AddressBearing())
	assert.False(t, DefaultNode.FanOut())
	for _, typ := range []NodeType{SwitchNode, HubNode, WlanNode, PtpNode} {
		assert.True(t, typ.FanOut(), typ.String())
		assert.False(t, typ.AddressBearing(), typ.String())
	}
}

func TestIcon(t *testing.T) {
	n := NewNode(1, DefaultNode, "node1", 0, 0)
	n.Model = "router"
	assert.Equal(t, "static/router.svg", n.Icon())
	n.Model = "PC"
	assert.Equal(t, "static/pc.gif", n.Icon())

	sw := NewNode(2, SwitchNode, "switch2", 0, 0)
	sw.Model = "router"
	assert.Equal(t, "static/lanswitch.svg", sw.Icon())
	assert.Equal(t, "static/wlan.gif", NewNode(3, WlanNode, "wlan3", 0, 0).Icon())
}

func TestNextInterfaceId(t *testing.T) {
	n := NewNode(1, DefaultNode, "node1", 0, 0)
	assert.Equal(t, 0, n.NextInterfaceId())
	n.Interfaces[0] = Interface{Id: 0}
	n.Interfaces[1] = Interface{Id: 1}
	assert.Equal(t, 2, n.NextInterfaceId())
	assert.Equal(t, []int{0, 1}, n.InterfaceIds())
}

func TestNextInterfaceIdSkipsGaps(t *testing.T) {
	n := NewNode(1, DefaultNode, "node1", 0, 0)
	assert.Equal(t, 0, n.NextInterfaceId())
	n.Interfaces[0] = Interface{Id: 0}
	assert.Equal(t, 1, n.NextInterfaceId())

	n = NewNode(2, DefaultNode, "node2", 0, 0)
	n.Interfaces[1] = Interface{Id: 1}
	assert.Equal(t, 2, n.NextInterfaceId())
	n.Interfaces[3] = Interface{Id: 3}
	assert.Equal(t, 2, n.NextInterfaceId())
	n.Interfaces[2] = Interface{Id: 2}
	assert.Equal(t, 4, n.NextInterfaceId())
}
