package cmd

import (
	"errors"
	"fmt"

	"github.com/encodeous/coretopo/canvas"
	"github.com/encodeous/coretopo/mock"
	"github.com/encodeous/coretopo/remote"
	"github.com/encodeous/coretopo/state"
	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply -f topology.yaml",
	Short: "Draws a topology file into a new session and commits it",
	Long: `Creates a new session, draws every node and link of the topology file the way a user would,
allocating interface addresses for links between default nodes, then commits and instantiates the session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		topoPath, _ := cmd.Flags().GetString("file")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		topo, err := loadTopology(topoPath)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(topo.Nodes))
		for _, n := range topo.Nodes {
			names = append(names, n.Name)
		}
		pairs, err := state.ParseLinks(topo.Links, names)
		if err != nil {
			return fmt.Errorf("%s: %w", topoPath, err)
		}

		var session remote.Session
		var recorder *mock.Session
		if dryRun {
			recorder = mock.NewSession()
			session = recorder
		}
		es, err := openEditor(ctx, session)
		if err != nil {
			return err
		}
		defer es.Close()
		if es.client != nil {
			info, err := es.client.CreateSession(ctx)
			if err != nil {
				return err
			}
			es.log.Info("created session", "session", info.Id)
		}

		ids := make(map[string]state.NodeId, len(topo.Nodes))
		for _, n := range topo.Nodes {
			t := state.DefaultNode
			if n.Type != "" {
				if t, err = state.ParseNodeType(n.Type); err != nil {
					return fmt.Errorf("node %s: %w", n.Name, err)
				}
			}
			model := n.Model
			if model == "" && t == state.DefaultNode {
				model = state.DefaultNodeModel
			}
			if err := es.ed.SetNodeMode(t, model); err != nil {
				return err
			}
			id, err := es.ed.PlaceNode(canvas.Point{X: n.X, Y: n.Y}, n.Name)
			if err != nil {
				return err
			}
			ids[n.Name] = id
		}
		for _, p := range pairs {
			if _, err := es.cv.AddEdge(ids[p.V1], ids[p.V2]); err != nil {
				return err
			}
		}
		if err := es.ed.Settle(ctx); err != nil {
			return err
		}

		var failures []error
	drain:
		for {
			select {
			case err := <-es.ed.Errors():
				failures = append(failures, err)
			default:
				break drain
			}
		}
		if err := errors.Join(failures...); err != nil {
			return fmt.Errorf("topology could not be drawn: %w", err)
		}

		if err := es.ed.CommitSession(ctx); err != nil {
			return err
		}
		if recorder != nil {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), recorder.Events().String())
			return err
		}
		return nil
	},
	GroupID: "session",
}

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().StringP("file", "f", "topology.yaml", "topology file")
	applyCmd.Flags().Bool("dry-run", false, "commit into an in-memory session and print the calls that would be made")
}
