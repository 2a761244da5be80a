package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/encodeous/coretopo/state"
	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"-c", filepath.Join(t.TempDir(), "missing.yaml")}, args...))
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestApplyDryRun(t *testing.T) {
	topo := filepath.Join(t.TempDir(), "topology.yaml")
	require.NoError(t, os.WriteFile(topo, []byte(`nodes:
  - name: r1
    x: 100
    y: 100
  - name: r2
    model: PC
    x: 300
    y: 100
  - name: lan
    type: switch
    x: 200
    y: 200
links:
  - routers = r1, r2
  - r1, r2
  - lan, routers
`), 0600))

	out := run(t, "apply", "-f", topo, "--dry-run")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	var calls []string
	for _, ln := range lines {
		if !strings.HasPrefix(ln, "get_node_addresses") {
			calls = append(calls, ln)
		}
	}
	assert.Equal(t, []string{
		"create_node 1 r1",
		"create_node 2 r2",
		"create_node 3 lan",
		"create_link 1 2",
		"create_link 3 1",
		"create_link 3 2",
		"set_session_state instantiation",
	}, calls)
}

func TestShowMock(t *testing.T) {
	useMock = true
	defer func() { useMock = false }()

	out := run(t, "show", "--mock")
	var dump topologyDump
	require.NoError(t, yaml.Unmarshal([]byte(out), &dump))
	assert.Len(t, dump.Nodes, 5)
	assert.Len(t, dump.Links, 4)
	assert.EqualValues(t, 6, dump.LastId)
}

func TestApplyRejectsUnknownNodeType(t *testing.T) {
	topo := filepath.Join(t.TempDir(), "topology.yaml")
	require.NoError(t, os.WriteFile(topo, []byte(`nodes:
  - name: r1
    type: satellite
links: []
`), 0600))

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"-c", filepath.Join(t.TempDir(), "missing.yaml"), "apply", "-f", topo, "--dry-run"})
	err := rootCmd.Execute()
	assert.ErrorIs(t, err, state.ErrUnknownNodeType)
}
