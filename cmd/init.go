package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/encodeous/coretopo/state"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactively writes an editor config",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := state.DefaultConfig()
		if _, err := os.Stat(configPath); err == nil {
			if loaded, err := loadConfig(configPath); err == nil {
				cfg = loaded
			}
		}

		cfg.Remote.Url = promptDefaultStr("CORE REST url", cfg.Remote.Url, state.UrlValidator)
		session := promptDefaultStr("Session (0 to create one when needed)", strconv.Itoa(cfg.Remote.Session), func(s string) error {
			v, err := strconv.Atoi(s)
			if err != nil || v < 0 {
				return fmt.Errorf("%q is not a session id", s)
			}
			return nil
		})
		cfg.Remote.Session, _ = strconv.Atoi(session)
		cfg.Ip4Prefix = promptDefaultPrefix("IPv4 prefix", cfg.Ip4Prefix)
		cfg.Ip6Prefix = promptDefaultPrefix("IPv6 prefix", cfg.Ip6Prefix)

		types := []string{
			state.DefaultNode.String(),
			state.SwitchNode.String(),
			state.HubNode.String(),
			state.WlanNode.String(),
		}
		cfg.NodeType = promptSelect("Initial node type", types, cfg.NodeType)
		if cfg.NodeType == state.DefaultNode.String() {
			cfg.NodeModel = promptSelect("Initial node model", []string{"router", "host", "PC", "mdr"}, cfg.NodeModel)
		} else {
			cfg.NodeModel = ""
		}

		if err := state.ConfigValidator(&cfg); err != nil {
			return err
		}
		out, err := yaml.Marshal(&cfg)
		if err != nil {
			return err
		}
		path := safeSaveFile(configPath, "editor config")
		return os.WriteFile(path, out, 0600)
	},
	GroupID: "init",
}

func init() {
	rootCmd.AddCommand(initCmd)
}
