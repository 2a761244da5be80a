package remote

import (
	"net/netip"

	"github.com/encodeous/coretopo/state"
)

// SessionState is the CORE session state machine value
type SessionState int

const (
	Definition    SessionState = 1
	Configuration SessionState = 2
	Instantiation SessionState = 3
	Runtime       SessionState = 4
	DataCollect   SessionState = 5
	Shutdown      SessionState = 6
)

func (s SessionState) String() string {
	switch s {
	case Definition:
		return "definition"
	case Configuration:
		return "configuration"
	case Instantiation:
		return "instantiation"
	case Runtime:
		return "runtime"
	case DataCollect:
		return "datacollect"
	case Shutdown:
		return "shutdown"
	default:
		return "none"
	}
}

// NodeRecord is the flat node shape accepted by create_node
type NodeRecord struct {
	Id    state.NodeId   `json:"id" yaml:"id"`
	Type  state.NodeType `json:"type" yaml:"type"`
	Name  string         `json:"name" yaml:"name"`
	Model *string        `json:"model" yaml:"model,omitempty"`
	X     float64        `json:"x" yaml:"x"`
	Y     float64        `json:"y" yaml:"y"`
	Lat   *float64       `json:"lat" yaml:"lat,omitempty"`
	Lon   *float64       `json:"lon" yaml:"lon,omitempty"`
	Alt   *float64       `json:"alt" yaml:"alt,omitempty"`
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SessionNode is a node as listed by the remote session
type SessionNode struct {
	Id       state.NodeId   `json:"id"`
	Type     state.NodeType `json:"type"`
	Name     string         `json:"name"`
	Model    string         `json:"model"`
	Position Position       `json:"position"`
	Lat      *float64       `json:"lat,omitempty"`
	Lon      *float64       `json:"lon,omitempty"`
	Alt      *float64       `json:"alt,omitempty"`
}

// LinkRecord is a link as listed by get_links and accepted by create_link.
// A nil interface id means there is no interface on that side.
type LinkRecord struct {
	Node1Id state.NodeId `json:"node1_id"`
	Node2Id state.NodeId `json:"node2_id"`

	Interface1Id      *int       `json:"interface1_id"`
	Interface1Ip4     netip.Addr `json:"interface1_ip4"`
	Interface1Ip4Mask int        `json:"interface1_ip4_mask"`
	Interface1Ip6     netip.Addr `json:"interface1_ip6"`
	Interface1Ip6Mask int        `json:"interface1_ip6_mask"`

	Interface2Id      *int       `json:"interface2_id"`
	Interface2Ip4     netip.Addr `json:"interface2_ip4"`
	Interface2Ip4Mask int        `json:"interface2_ip4_mask"`
	Interface2Ip6     netip.Addr `json:"interface2_ip6"`
	Interface2Ip6Mask int        `json:"interface2_ip6_mask"`
}

type LinksResponse struct {
	Links []LinkRecord `json:"links"`
}

// Addresses is a freshly allocated address pair for one node
type Addresses struct {
	Ip4     netip.Addr `json:"ip4"`
	Ip4Mask int        `json:"ip4mask"`
	Ip6     netip.Addr `json:"ip6"`
	Ip6Mask int        `json:"ip6mask"`
}

type Ack struct {
	Id state.NodeId `json:"id,omitempty"`
}

type SessionInfo struct {
	Id    int           `json:"id"`
	State SessionState  `json:"state"`
	Nodes []SessionNode `json:"nodes,omitempty"`
}

type SessionsResponse struct {
	Sessions []SessionInfo `json:"sessions"`
}

func prefixFrom(addr netip.Addr, mask int) netip.Prefix {
	if !addr.IsValid() {
		return netip.Prefix{}
	}
	return netip.PrefixFrom(addr, mask)
}

// Interface returns the interface an allocation describes
func (a Addresses) Interface(id int) state.Interface {
	return state.Interface{
		Id:  id,
		Ip4: prefixFrom(a.Ip4, a.Ip4Mask),
		Ip6: prefixFrom(a.Ip6, a.Ip6Mask),
	}
}

func (r LinkRecord) Interface1() *state.Interface {
	if r.Interface1Id == nil {
		return nil
	}
	return &state.Interface{
		Id:  *r.Interface1Id,
		Ip4: prefixFrom(r.Interface1Ip4, r.Interface1Ip4Mask),
		Ip6: prefixFrom(r.Interface1Ip6, r.Interface1Ip6Mask),
	}
}

func (r LinkRecord) Interface2() *state.Interface {
	if r.Interface2Id == nil {
		return nil
	}
	return &state.Interface{
		Id:  *r.Interface2Id,
		Ip4: prefixFrom(r.Interface2Ip4, r.Interface2Ip4Mask),
		Ip6: prefixFrom(r.Interface2Ip6, r.Interface2Ip6Mask),
	}
}

// LinkRecordOf serializes a stored link
func LinkRecordOf(link *state.Link) LinkRecord {
	rec := LinkRecord{Node1Id: link.Node1, Node2Id: link.Node2}
	if itf := link.Interface1; itf != nil {
		id := itf.Id
		rec.Interface1Id = &id
		rec.Interface1Ip4, rec.Interface1Ip4Mask = split(itf.Ip4)
		rec.Interface1Ip6, rec.Interface1Ip6Mask = split(itf.Ip6)
	}
	if itf := link.Interface2; itf != nil {
		id := itf.Id
		rec.Interface2Id = &id
		rec.Interface2Ip4, rec.Interface2Ip4Mask = split(itf.Ip4)
		rec.Interface2Ip6, rec.Interface2Ip6Mask = split(itf.Ip6)
	}
	return rec
}

func split(p netip.Prefix) (netip.Addr, int) {
	if !p.IsValid() {
		return netip.Addr{}, 0
	}
	return p.Addr(), p.Bits()
}

// NodeRecordOf serializes a registered node
func NodeRecordOf(n *state.Node) NodeRecord {
	rec := NodeRecord{
		Id:   n.Id,
		Type: n.Type,
		Name: n.Name,
		X:    n.X,
		Y:    n.Y,
	}
	if n.Model != "" {
		model := n.Model
		rec.Model = &model
	}
	if n.Geo != nil {
		lat, lon, alt := n.Geo.Lat, n.Geo.Lon, n.Geo.Alt
		rec.Lat, rec.Lon, rec.Alt = &lat, &lon, &alt
	}
	return rec
}

// Node builds the local node for a listed remote node
func (n SessionNode) Node() *state.Node {
	node := state.NewNode(n.Id, n.Type, n.Name, n.Position.X, n.Position.Y)
	node.Model = n.Model
	if n.Lat != nil && n.Lon != nil {
		node.Geo = &state.Geo{Lat: *n.Lat, Lon: *n.Lon}
		if n.Alt != nil {
			node.Geo.Alt = *n.Alt
		}
	}
	return node
}
