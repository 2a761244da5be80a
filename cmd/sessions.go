package cmd

import (
	"fmt"

	"github.com/encodeous/coretopo/remote"
	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:     "sessions",
	Aliases: []string{"ls"},
	Short:   "Lists the sessions of the remote CORE service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		client, err := remote.NewClientFromConfig(cfg.Remote, log)
		if err != nil {
			return err
		}
		defer client.Close()

		sessions, err := client.Sessions(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			_, err = fmt.Fprintln(out, "(no sessions)")
			return err
		}
		for _, s := range sessions {
			if _, err := fmt.Fprintf(out, " - %d: %s\n", s.Id, s.State); err != nil {
				return err
			}
		}
		return nil
	},
	GroupID: "session",
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}
