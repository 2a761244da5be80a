package mock

import (
	"context"
	"fmt"
	"net/netip"
	"slices"
	"strings"
	"sync"

	"github.com/encodeous/coretopo/remote"
	"github.com/encodeous/coretopo/state"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

type Event struct {
	Message string
	Args    []any
}

func MakeEvent(msg string, args ...any) Event {
	return Event{
		Message: msg,
		Args:    args,
	}
}

type Events []Event

func (e Events) String() string {
	out := make([]string, 0, len(e))
	for _, ev := range e {
		cur := ev.Message
		for _, arg := range ev.Args {
			cur += " " + fmt.Sprint(arg)
		}
		out = append(out, cur)
	}
	return strings.Join(out, "\n")
}

// Messages lists the event names in call order
func (e Events) Messages() []string {
	out := make([]string, 0, len(e))
	for _, ev := range e {
		out = append(out, ev.Message)
	}
	return out
}

func (e Events) Contains(msg string, args ...any) bool {
	return slices.ContainsFunc(e, func(ev Event) bool {
		if ev.Message != msg || len(ev.Args) < len(args) {
			return false
		}
		for i, arg := range args {
			if !cmp.Equal(ev.Args[i], arg, cmpopts.EquateComparable(netip.Prefix{})) {
				return false
			}
		}
		return true
	})
}

// Session is an in-memory remote session that records every call made to it.
// Addresses are allocated the way CORE does: the prefix base plus the node id.
type Session struct {
	mu     sync.Mutex
	Info   remote.SessionInfo
	Links  map[state.NodeId][]remote.LinkRecord
	Nodes  []remote.NodeRecord
	Linked []remote.LinkRecord
	State  remote.SessionState

	// Fail makes every call with the given name fail
	Fail map[string]error
	// FailNode makes any call about the node fail
	FailNode map[state.NodeId]error
	// Gate blocks address allocations until a value is received
	Gate chan struct{}

	events Events
}

var _ remote.Session = (*Session)(nil)

func NewSession() *Session {
	return &Session{
		Info:     remote.SessionInfo{Id: 1, State: remote.Definition},
		Links:    make(map[state.NodeId][]remote.LinkRecord),
		Fail:     make(map[string]error),
		FailNode: make(map[state.NodeId]error),
	}
}

func (m *Session) record(msg string, node state.NodeId, args ...any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, MakeEvent(msg, args...))
	if err, ok := m.Fail[msg]; ok {
		return &state.RemoteError{Op: msg, Node: node, Err: err}
	}
	if err, ok := m.FailNode[node]; ok && node != 0 {
		return &state.RemoteError{Op: msg, Node: node, Err: err}
	}
	return nil
}

// Events returns the calls made so far
func (m *Session) Events() Events {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.events)
}

func (m *Session) GetSession(ctx context.Context) (remote.SessionInfo, error) {
	if err := m.record("get_session", 0); err != nil {
		return remote.SessionInfo{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	info := m.Info
	info.Nodes = slices.Clone(m.Info.Nodes)
	return info, nil
}

func (m *Session) GetLinks(ctx context.Context, node state.NodeId) (remote.LinksResponse, error) {
	if err := m.record("get_links", node, node); err != nil {
		return remote.LinksResponse{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return remote.LinksResponse{Links: slices.Clone(m.Links[node])}, nil
}

func (m *Session) GetNodeAddresses(ctx context.Context, node state.NodeId, ip4, ip6 netip.Prefix) (remote.Addresses, error) {
	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return remote.Addresses{}, ctx.Err()
		}
	}
	if err := m.record("get_node_addresses", node, node, ip4, ip6); err != nil {
		return remote.Addresses{}, err
	}
	return remote.Addresses{
		Ip4:     Offset(ip4.Masked().Addr(), int(node)),
		Ip4Mask: ip4.Bits(),
		Ip6:     Offset(ip6.Masked().Addr(), int(node)),
		Ip6Mask: ip6.Bits(),
	}, nil
}

func (m *Session) CreateNode(ctx context.Context, node remote.NodeRecord) (remote.Ack, error) {
	if err := m.record("create_node", node.Id, node.Id, node.Name); err != nil {
		return remote.Ack{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Nodes = append(m.Nodes, node)
	return remote.Ack{Id: node.Id}, nil
}

func (m *Session) CreateLink(ctx context.Context, link remote.LinkRecord) (remote.Ack, error) {
	if err := m.record("create_link", link.Node1Id, link.Node1Id, link.Node2Id); err != nil {
		return remote.Ack{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Linked = append(m.Linked, link)
	return remote.Ack{}, nil
}

func (m *Session) SetSessionState(ctx context.Context, s remote.SessionState) error {
	if err := m.record("set_session_state", 0, s); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.State = s
	return nil
}

// Offset adds n to addr as a big-endian integer
func Offset(addr netip.Addr, n int) netip.Addr {
	if !addr.IsValid() {
		return addr
	}
	b := addr.As16()
	carry := n
	for i := len(b) - 1; i >= 0 && carry > 0; i-- {
		sum := int(b[i]) + carry
		b[i] = byte(sum)
		carry = sum >> 8
	}
	out := netip.AddrFrom16(b)
	if addr.Is4() {
		return out.Unmap()
	}
	return out
}
