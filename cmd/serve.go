package cmd

import (
	"net"

	"github.com/relloyd/stagehand/actions"
	c "github.com/relloyd/stagehand/constants"
	"github.com/relloyd/stagehand/helper"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a web service that runs transfers (and optionally intake) on request",
	Long: `Start a web service with routes:
  GET  /, /health          liveness
  GET  /metrics            Prometheus metrics
  POST /transfer           transfer the environment named in the JSON body, else the default
  POST /transfer/<env>     transfer the named environment
  POST /intake             validate the file named by an upload event (with --intake)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var serveConfig = actions.WebServerConfig{
	Scheme: "http",
	Addr:   net.IP{0, 0, 0, 0},
}

func runServe() error {
	serveConfig.StackDumpOnPanic = stackDumpOnPanic
	return actions.RunWebServer(&serveConfig)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().SortFlags = false
	serveCmd.Flags().IPVarP(&serveConfig.Addr, "address", "a", net.IP{0, 0, 0, 0}, "Address to listen on")
	switches.addFlag(serveCmd, &serveConfig.Port, "port", helper.ReadValueFromEnvWithDefault("PORT", "8080"), false, "")
	switches.addFlag(serveCmd, &serveConfig.LogLevel, "log-level", "info", false, "")
	switches.addFlag(serveCmd, &serveConfig.DefaultEnvironment, "environment", helper.ReadValueFromEnvWithDefault(c.EnvVarEnvironment, c.EnvironmentDev), false, "")
	switches.addFlag(serveCmd, &serveConfig.Intake, "intake", "", false, "")
	switches.addFlag(serveCmd, &serveConfig.DryRun, "dry-run", "", false, "")
}
