package state

import (
	"fmt"
	"net/netip"
	"slices"
	"strings"
	"time"
)

// RemoteCfg describes how to reach the CORE REST service
type RemoteCfg struct {
	Url          string        `yaml:"url" validate:"required,url"`
	Session      int           `yaml:"session,omitempty" validate:"gte=0"`       // 0 creates a new session where needed
	Timeout      time.Duration `yaml:"timeout,omitempty" validate:"gte=0"`       // per request, 0 disables the timeout
	LinkCacheTTL time.Duration `yaml:"link_cache_ttl,omitempty" validate:"gte=0"` // 0 disables the link listing cache
}

// Config is the editor configuration
type Config struct {
	Remote        RemoteCfg     `yaml:"remote"`
	Ip4Prefix     netip.Prefix  `yaml:"ip4_prefix"`
	Ip6Prefix     netip.Prefix  `yaml:"ip6_prefix"`
	EdgeModeDelay time.Duration `yaml:"edge_mode_delay,omitempty" validate:"gte=0"` // delay before edge drawing is re-armed
	NodeType      string        `yaml:"node_type,omitempty"`                        // initial node mode
	NodeModel     string        `yaml:"node_model,omitempty"`
	LogPath       string        `yaml:"log_path,omitempty"` // if not empty, logs are also written to this file
}

func DefaultConfig() Config {
	return Config{
		Remote: RemoteCfg{
			Url:     DefaultRemoteUrl,
			Timeout: DefaultRemoteTimeout,
		},
		Ip4Prefix:     DefaultIp4Prefix,
		Ip6Prefix:     DefaultIp6Prefix,
		EdgeModeDelay: EdgeModeDelay,
		NodeType:      DefaultNode.String(),
		NodeModel:     DefaultNodeModel,
	}
}

// ExpandConfig fills unset fields with their defaults
func ExpandConfig(cfg *Config) {
	def := DefaultConfig()
	if cfg.Remote.Url == "" {
		cfg.Remote.Url = def.Remote.Url
	}
	if !cfg.Ip4Prefix.IsValid() {
		cfg.Ip4Prefix = def.Ip4Prefix
	}
	if !cfg.Ip6Prefix.IsValid() {
		cfg.Ip6Prefix = def.Ip6Prefix
	}
	if cfg.EdgeModeDelay == 0 {
		cfg.EdgeModeDelay = def.EdgeModeDelay
	}
	if cfg.NodeType == "" {
		cfg.NodeType = def.NodeType
		if cfg.NodeModel == "" {
			cfg.NodeModel = def.NodeModel
		}
	}
}

// TopologyNode is a node entry of a topology file
type TopologyNode struct {
	Name  string  `yaml:"name"`
	Type  string  `yaml:"type,omitempty"`
	Model string  `yaml:"model,omitempty"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
}

// TopologyFile describes a topology to be drawn into a new session
type TopologyFile struct {
	Nodes []TopologyNode `yaml:"nodes"`
	Links []string       `yaml:"links"`
}

func parseSymbolList(s string, validSymbols []string) ([]string, error) {
	spl := strings.Split(strings.TrimSpace(s), ",")
	line := make([]string, 0)
	for _, s := range spl {
		x := strings.TrimSpace(s)
		if x == "" {
			continue
		}
		if !slices.Contains(validSymbols, x) {
			return nil, fmt.Errorf(`%s is not a valid node/group`, x)
		}
		line = append(line, x)
	}
	if len(line) == 0 {
		return nil, fmt.Errorf(`node/group list must not be empty`)
	}
	return line, nil
}

/*
ParseLinks Link syntax is something like this:

lan = h1, h2, h3

r1, s1 // r1 and s1 will be connected

s1, lan // s1 will be connected to h1, h2 and h3

Groups must be defined before they are used. Pairs are returned in the order they are
written, an endpoint keeps the side it was written on, and a pair that was already
produced (in either order) is dropped.
*/
func ParseLinks(lines []string, nodes []string) ([]Pair[string, string], error) {
	groups := make(map[string][]string)
	symbols := slices.Clone(nodes)
	pairs := make([]Pair[string, string], 0)
	seen := make(map[Pair[string, string]]struct{})

	expand := func(names []string) []string {
		out := make([]string, 0, len(names))
		for _, name := range names {
			if members, ok := groups[name]; ok {
				out = append(out, members...)
			} else {
				out = append(out, name)
			}
		}
		return out
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.Contains(line, "=") {
			spl := strings.Split(line, "=")
			if len(spl) != 2 {
				return nil, fmt.Errorf("invalid link line: %s. group definition must contain one '='", line)
			}
			grp := strings.TrimSpace(spl[0])
			if slices.Contains(nodes, grp) {
				return nil, fmt.Errorf("group name must not be a node name: %s", grp)
			}
			if _, ok := groups[grp]; ok {
				return nil, fmt.Errorf("duplicate group name: %s", grp)
			}
			lst, err := parseSymbolList(spl[1], symbols)
			if err != nil {
				return nil, err
			}
			groups[grp] = expand(lst)
			symbols = append(symbols, grp)
			continue
		}
		names, err := parseSymbolList(line, symbols)
		if err != nil {
			return nil, err
		}
		if len(names) != 2 {
			return nil, fmt.Errorf("invalid pairing, %v", names)
		}
		for _, a := range expand(names[:1]) {
			for _, b := range expand(names[1:]) {
				if a == b {
					return nil, fmt.Errorf("%w: %s", ErrSelfLink, a)
				}
				key := MakeSortedPair(a, b)
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}
				pairs = append(pairs, Pair[string, string]{a, b})
			}
		}
	}
	return pairs, nil
}
