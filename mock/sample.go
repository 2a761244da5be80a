package mock

import (
	"net/netip"

	"github.com/encodeous/coretopo/remote"
	"github.com/encodeous/coretopo/state"
)

func linkRecord(a, b state.NodeId, itfA, itfB *int) remote.LinkRecord {
	rec := remote.LinkRecord{Node1Id: a, Node2Id: b}
	base4 := netip.MustParseAddr("10.0.0.0")
	base6 := netip.MustParseAddr("2001::")
	if itfA != nil {
		rec.Interface1Id = itfA
		rec.Interface1Ip4, rec.Interface1Ip4Mask = Offset(base4, int(a)), 24
		rec.Interface1Ip6, rec.Interface1Ip6Mask = Offset(base6, int(a)), 64
	}
	if itfB != nil {
		rec.Interface2Id = itfB
		rec.Interface2Ip4, rec.Interface2Ip4Mask = Offset(base4, int(b)), 24
		rec.Interface2Ip6, rec.Interface2Ip6Mask = Offset(base6, int(b)), 64
	}
	return rec
}

func ptr(i int) *int {
	return &i
}

// SampleSession is a running session with three routers on a switch, and a
// point-to-point link between bob and eve
func SampleSession() *Session {
	m := NewSession()
	m.Info = remote.SessionInfo{
		Id:    1,
		State: remote.Runtime,
		Nodes: []remote.SessionNode{
			{Id: 1, Type: state.DefaultNode, Name: "bob", Model: "router", Position: remote.Position{X: 100, Y: 100}},
			{Id: 2, Type: state.DefaultNode, Name: "jeb", Model: "router", Position: remote.Position{X: 300, Y: 100}},
			{Id: 3, Type: state.DefaultNode, Name: "kat", Model: "PC", Position: remote.Position{X: 200, Y: 300}},
			{Id: 4, Type: state.SwitchNode, Name: "switch4", Position: remote.Position{X: 200, Y: 200}},
			{Id: 5, Type: state.DefaultNode, Name: "eve", Model: "host", Position: remote.Position{X: 400, Y: 300}},
			{Id: 6, Type: state.PtpNode, Name: "ptp6"},
		},
	}
	m.Links[4] = []remote.LinkRecord{
		linkRecord(1, 4, ptr(0), nil),
		linkRecord(2, 4, ptr(0), nil),
		linkRecord(3, 4, ptr(0), nil),
	}
	m.Links[6] = []remote.LinkRecord{
		linkRecord(1, 5, ptr(1), ptr(0)),
	}
	return m
}
