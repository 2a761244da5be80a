package state

import (
	"net/netip"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameValidator_Valid(t *testing.T) {
	assert.NoError(t, NameValidator("1"))
	assert.NoError(t, NameValidator("node_1"))
	assert.NoError(t, NameValidator("PC-3.lab"))
}

func TestNameValidator_Invalid(t *testing.T) {
	assert.Error(t, NameValidator("node name"))
	assert.Error(t, NameValidator(""))
	assert.Error(t, NameValidator("\t"))
	assert.Error(t, NameValidator("a\\b"))
	assert.Error(t, NameValidator(strings.Repeat("a", 200)))
}

func TestConfigValidator_Default(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, ConfigValidator(&cfg))
}

func TestConfigValidator_Invalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Remote.Url = "not a url"
	assert.ErrorContains(t, ConfigValidator(&cfg), "Url")

	cfg = DefaultConfig()
	cfg.Remote.Session = -1
	assert.ErrorContains(t, ConfigValidator(&cfg), "Session")

	cfg = DefaultConfig()
	cfg.Ip4Prefix = netip.MustParsePrefix("2001::/64")
	assert.ErrorContains(t, ConfigValidator(&cfg), "not an IPv4 prefix")

	cfg = DefaultConfig()
	cfg.Ip6Prefix = netip.MustParsePrefix("10.0.0.0/8")
	assert.ErrorContains(t, ConfigValidator(&cfg), "not an IPv6 prefix")

	cfg = DefaultConfig()
	cfg.NodeType = "emane"
	assert.ErrorIs(t, ConfigValidator(&cfg), ErrUnknownNodeType)
}

func TestTopologyValidator(t *testing.T) {
	topo := &TopologyFile{Nodes: []TopologyNode{{Name: "r1"}, {Name: "s1", Type: "switch"}}}
	assert.NoError(t, TopologyValidator(topo))

	topo.Nodes = append(topo.Nodes, TopologyNode{Name: "r1"})
	assert.ErrorContains(t, TopologyValidator(topo), "duplicate node name")

	topo = &TopologyFile{Nodes: []TopologyNode{{Name: "p1", Type: "ptp"}}}
	assert.ErrorContains(t, TopologyValidator(topo), "cannot be drawn")

	topo = &TopologyFile{Nodes: []TopologyNode{{Name: "x", Type: "tunnel"}}}
	assert.ErrorIs(t, TopologyValidator(topo), ErrUnknownNodeType)
}

func TestPromptValidators(t *testing.T) {
	assert.NoError(t, UrlValidator("http://127.0.0.1:5000"))
	assert.Error(t, UrlValidator("core"))
	assert.NoError(t, PrefixValidator("10.0.0.1/24"))
	assert.Error(t, PrefixValidator("10.0.0.1"))
	assert.NoError(t, PathValidator("coretopo.yaml"))
	assert.Error(t, PathValidator(""))
}
