package state

import (
	"cmp"
	"fmt"
	"net/netip"

	"github.com/gaissmai/bart"
)

// LinkOrigin tells where a link came from.
type LinkOrigin int

const (
	UserCreated LinkOrigin = iota
	Hydrated
)

func (o LinkOrigin) String() string {
	if o == Hydrated {
		return "hydrated"
	}
	return "user"
}

type Link struct {
	Node1      NodeId
	Node2      NodeId
	Interface1 *Interface `yaml:",omitempty"`
	Interface2 *Interface `yaml:",omitempty"`
	Origin     LinkOrigin
	Edge       string `yaml:"-"` // canvas edge drawn for this link
}

// LinkKey keys a link by its endpoints in discovery order. "1-2" and "2-1" are different keys.
func LinkKey(a, b NodeId) string {
	return fmt.Sprintf("%d-%d", a, b)
}

func (l *Link) Key() string {
	return LinkKey(l.Node1, l.Node2)
}

// InterfaceRef points at one interface of one node.
type InterfaceRef struct {
	Node      NodeId
	Interface int
}

// Store holds the links of the topology. Enumeration follows insertion order.
type Store struct {
	links map[string]*Link
	order []string
	pairs map[Pair[NodeId, NodeId]]string
	edges map[string]string
	addrs bart.Table[InterfaceRef]
}

func NewStore() *Store {
	return &Store{
		links: make(map[string]*Link),
		pairs: make(map[Pair[NodeId, NodeId]]string),
		edges: make(map[string]string),
	}
}

func MakeSortedPair[T cmp.Ordered](a, b T) Pair[T, T] {
	if a < b {
		return Pair[T, T]{a, b}
	} else {
		return Pair[T, T]{b, a}
	}
}

// Put stores a new link. At most one link exists per unordered pair of nodes.
func (s *Store) Put(link *Link) error {
	if link.Node1 == link.Node2 {
		return fmt.Errorf("%w: %s", ErrSelfLink, link.Key())
	}
	pair := MakeSortedPair(link.Node1, link.Node2)
	if existing, ok := s.pairs[pair]; ok {
		return fmt.Errorf("%w: %s (stored as %s)", ErrDuplicateLink, link.Key(), existing)
	}
	key := link.Key()
	s.links[key] = link
	s.order = append(s.order, key)
	s.pairs[pair] = key
	if link.Edge != "" {
		s.edges[link.Edge] = key
	}
	if link.Interface1 != nil {
		s.indexAddrs(link.Node1, *link.Interface1)
	}
	if link.Interface2 != nil {
		s.indexAddrs(link.Node2, *link.Interface2)
	}
	return nil
}

func (s *Store) indexAddrs(node NodeId, itf Interface) {
	ref := InterfaceRef{Node: node, Interface: itf.Id}
	for _, pfx := range []netip.Prefix{itf.Ip4, itf.Ip6} {
		if pfx.IsValid() {
			addr := pfx.Addr()
			s.addrs.Insert(netip.PrefixFrom(addr, addr.BitLen()), ref)
		}
	}
}

// BindEdge records that the canvas edge shows the link stored under key.
func (s *Store) BindEdge(key, edge string) error {
	link, ok := s.links[key]
	if !ok {
		return fmt.Errorf("link %s: %w", key, ErrNotFound)
	}
	if link.Edge != "" {
		delete(s.edges, link.Edge)
	}
	link.Edge = edge
	s.edges[edge] = key
	return nil
}

func (s *Store) Get(key string) (*Link, bool) {
	link, ok := s.links[key]
	return link, ok
}

// Between finds the link joining a and b regardless of discovery order.
func (s *Store) Between(a, b NodeId) (*Link, bool) {
	key, ok := s.pairs[MakeSortedPair(a, b)]
	if !ok {
		return nil, false
	}
	return s.links[key], true
}

func (s *Store) ByEdge(edge string) (*Link, bool) {
	key, ok := s.edges[edge]
	if !ok {
		return nil, false
	}
	return s.links[key], true
}

// AddressOwner returns the interface an address was assigned to.
func (s *Store) AddressOwner(addr netip.Addr) (InterfaceRef, bool) {
	return s.addrs.Get(netip.PrefixFrom(addr, addr.BitLen()))
}

func (s *Store) Len() int {
	return len(s.order)
}

func (s *Store) Links() []*Link {
	links := make([]*Link, 0, len(s.order))
	for _, key := range s.order {
		links = append(links, s.links[key])
	}
	return links
}
