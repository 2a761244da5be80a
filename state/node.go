package state

import (
	"fmt"
	"maps"
	"net/netip"
	"slices"
)

type NodeId int

// NodeType is the CORE wire value of a node type.
type NodeType int

const (
	DefaultNode NodeType = 0
	SwitchNode  NodeType = 4
	HubNode     NodeType = 5
	WlanNode    NodeType = 6
	PtpNode     NodeType = 12
)

type NodeTypeDescriptor struct {
	Name    string // prefix used when naming new nodes, e.g. "node" -> node1
	Display string
	Icon    string // icon key, empty when the icon depends on the model
}

// Descriptor returns the descriptor for t. ok is false for types this editor does not know.
func (t NodeType) Descriptor() (desc NodeTypeDescriptor, ok bool) {
	switch t {
	case DefaultNode:
		return NodeTypeDescriptor{Name: "node", Display: "Default"}, true
	case SwitchNode:
		return NodeTypeDescriptor{Name: "switch", Display: "Switch", Icon: "switch"}, true
	case HubNode:
		return NodeTypeDescriptor{Name: "hub", Display: "Hub", Icon: "hub"}, true
	case WlanNode:
		return NodeTypeDescriptor{Name: "wlan", Display: "WLAN", Icon: "wlan"}, true
	case PtpNode:
		return NodeTypeDescriptor{Name: "ptp", Display: "PTP"}, true
	default:
		return NodeTypeDescriptor{Name: "unknown", Display: "Unknown"}, false
	}
}

func (t NodeType) String() string {
	desc, _ := t.Descriptor()
	return desc.Name
}

// AddressBearing reports whether nodes of this type get interfaces and addresses.
func (t NodeType) AddressBearing() bool {
	return t == DefaultNode
}

// FanOut reports whether the remote session lists links through nodes of this type.
func (t NodeType) FanOut() bool {
	switch t {
	case SwitchNode, HubNode, WlanNode, PtpNode:
		return true
	default:
		return false
	}
}

func ParseNodeType(s string) (NodeType, error) {
	for _, t := range []NodeType{DefaultNode, SwitchNode, HubNode, WlanNode, PtpNode} {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownNodeType, s)
}

var modelIcons = map[string]string{
	"router": "static/router.svg",
	"host":   "static/host.gif",
	"PC":     "static/pc.gif",
	"mdr":    "static/mdr.svg",
	"switch": "static/lanswitch.svg",
	"hub":    "static/hub.svg",
	"wlan":   "static/wlan.gif",
}

type Geo struct {
	Lat float64 `yaml:"lat" json:"lat"`
	Lon float64 `yaml:"lon" json:"lon"`
	Alt float64 `yaml:"alt" json:"alt"`
}

type Interface struct {
	Id  int
	Ip4 netip.Prefix `yaml:",omitempty"` // address with mask, host bits kept
	Ip6 netip.Prefix `yaml:",omitempty"`
}

type Node struct {
	Id    NodeId
	Type  NodeType
	Name  string
	Model string `yaml:",omitempty"`
	X, Y  float64
	Geo   *Geo `yaml:",omitempty"`

	Interfaces map[int]Interface `yaml:",omitempty"`
}

func NewNode(id NodeId, t NodeType, name string, x, y float64) *Node {
	return &Node{
		Id:         id,
		Type:       t,
		Name:       name,
		X:          x,
		Y:          y,
		Interfaces: make(map[int]Interface),
	}
}

// NextInterfaceId is the id the next interface on this node receives: the interface count,
// moved past ids that are already taken when the existing ids have gaps.
func (n *Node) NextInterfaceId() int {
	id := len(n.Interfaces)
	for {
		if _, ok := n.Interfaces[id]; !ok {
			return id
		}
		id++
	}
}

func (n *Node) InterfaceIds() []int {
	return slices.Sorted(maps.Keys(n.Interfaces))
}

// Icon is the image key the canvas shows for this node.
func (n *Node) Icon() string {
	desc, _ := n.Type.Descriptor()
	key := desc.Icon
	if key == "" {
		key = n.Model
	}
	return modelIcons[key]
}
