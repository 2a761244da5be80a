package cmd

import (
	"github.com/encodeous/coretopo/core"
	"github.com/encodeous/coretopo/mock"
	"github.com/encodeous/coretopo/remote"
	"github.com/encodeous/coretopo/state"
	"github.com/spf13/cobra"
)

var (
	sessionId int
	useMock   bool
)

type topologyDump struct {
	Session int          `yaml:"session"`
	LastId  state.NodeId `yaml:"last_id"`
	Nodes   []state.Node `yaml:"nodes"`
	Links   []state.Link `yaml:"links"`
}

// joinSession loads the selected session into a new editor
func joinSession(cmd *cobra.Command) (*editorSession, int, error) {
	ctx := cmd.Context()
	var session remote.Session
	var src core.SessionSource
	if useMock {
		m := mock.SampleSession()
		session, src = m, m
	}
	es, err := openEditor(ctx, session)
	if err != nil {
		return nil, 0, err
	}
	id := 0
	if es.client != nil {
		if sessionId != 0 {
			es.client.UseSession(sessionId)
		}
		id = es.client.SessionId()
		src = es.client
	}
	report, err := es.ed.Join(ctx, src)
	if err != nil {
		es.Close()
		return nil, 0, err
	}
	if len(report.Failures) > 0 {
		es.log.Warn("some link listings could not be fetched, the topology is incomplete", "failures", len(report.Failures))
	}
	if err := es.ed.Settle(ctx); err != nil {
		es.Close()
		return nil, 0, err
	}
	return es, id, nil
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Loads a session and prints its topology",
	RunE: func(cmd *cobra.Command, args []string) error {
		es, id, err := joinSession(cmd)
		if err != nil {
			return err
		}
		defer es.Close()

		dump := topologyDump{Session: id}
		if dump.Nodes, err = es.ed.Nodes(); err != nil {
			return err
		}
		if dump.Links, err = es.ed.Links(); err != nil {
			return err
		}
		if dump.LastId, err = es.ed.LastId(); err != nil {
			return err
		}
		return writeYaml(cmd.OutOrStdout(), dump)
	},
	GroupID: "session",
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Loads a session and prints the node records a commit would send",
	RunE: func(cmd *cobra.Command, args []string) error {
		es, _, err := joinSession(cmd)
		if err != nil {
			return err
		}
		defer es.Close()

		out := struct {
			Nodes []remote.NodeRecord `yaml:"nodes"`
			Links []remote.LinkRecord `yaml:"links,omitempty"`
		}{}
		if out.Nodes, err = es.ed.ExportNodes(); err != nil {
			return err
		}
		if withLinks, _ := cmd.Flags().GetBool("links"); withLinks {
			if out.Links, err = es.ed.ExportLinks(); err != nil {
				return err
			}
		}
		return writeYaml(cmd.OutOrStdout(), out)
	},
	GroupID: "session",
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(exportCmd)

	for _, c := range []*cobra.Command{showCmd, exportCmd} {
		c.Flags().IntVarP(&sessionId, "session", "s", 0, "session to load, overrides the config")
		c.Flags().BoolVar(&useMock, "mock", false, "load a built in sample session instead of a remote one")
	}
	exportCmd.Flags().Bool("links", false, "also print link records")
}
