package cmd

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/encodeous/coretopo/perf"
	"github.com/spf13/cobra"
)

var (
	configPath = "coretopo.yaml"
	logPath    string
	verbose    bool
	debugAddr  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "coretopo",
	Short: "CORE session topology editor",
	Long: `coretopo keeps a local copy of a CORE emulation session's topology.
It can load an existing session, draw a topology into a new one, allocate interface addresses for new links and commit the result.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugAddr != "" {
			// serves /debug/vars and /debug/metrics
			go func() {
				log.Println(http.ListenAndServe(debugAddr, nil))
			}()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(&cobra.Group{
		ID:    "init",
		Title: "Configuration",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "session",
		Title: "Session Commands",
	})
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", configPath, "editor config, defaults are used if it does not exist")
	rootCmd.PersistentFlags().StringVarP(&logPath, "log", "l", "", "also write logs to this file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&debugAddr, "debug-addr", "", "serve metrics on this address, e.g. 127.0.0.1:6060")
}
