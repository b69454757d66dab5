package cmd

import (
	"strings"

	"github.com/relloyd/stagehand/actions"
	"github.com/relloyd/stagehand/config"
	"github.com/spf13/cobra"
)

var transferCfg actions.TransferConfig

var transferCmd = &cobra.Command{
	Use:   "transfer <environment>",
	Short: "Copy the source dataset into an environment and redact sensitive columns",
	Long: `Copy every native table of the source dataset into the environment's destination
dataset, replacing existing tables, then apply the environment's redaction rules.
Supported environments: ` + strings.Join(config.ValidEnvironments(), ", ") + `

Rules are read from the environment's sensitiveColumns, of the form
  <dataset>:<table>.<column>.<tactic>
where tactic is one of redact, FF, mask or hash.`,
	Args: getSingleArgFunc(&transferCfg.Environment, "requires an environment: "+strings.Join(config.ValidEnvironments(), " or ")),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransfer()
	},
}

func runTransfer() error {
	transferCfg.StackDumpOnPanic = stackDumpOnPanic
	return actions.RunTransfer(&transferCfg)
}

func init() {
	rootCmd.AddCommand(transferCmd)
	transferCmd.Flags().SortFlags = false
	switches.addFlag(transferCmd, &transferCfg.LogLevel, "log-level", "info", false, "")
	switches.addFlag(transferCmd, &transferCfg.DryRun, "dry-run", "", false, "")
	switches.addFlag(transferCmd, &transferCfg.Output, "output", "", false, "")
}
