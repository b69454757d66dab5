package cmd

import (
	"github.com/relloyd/stagehand/actions"
	c "github.com/relloyd/stagehand/constants"
	"github.com/spf13/cobra"
)

var deadLettersCfg actions.DeadLettersConfig

var deadLettersCmd = &cobra.Command{
	Use:   "dead-letters",
	Short: "List files that intake rejected into the dead-letter bucket",
	Long:  `List the keys under ` + c.DeadLetterFolder + ` in the bucket named by ` + c.EnvVarDeadLetterBucket + `.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return actions.RunListDeadLetters(&deadLettersCfg)
	},
}

func init() {
	rootCmd.AddCommand(deadLettersCmd)
	deadLettersCmd.Flags().SortFlags = false
	switches.addFlag(deadLettersCmd, &deadLettersCfg.LogLevel, "log-level", "info", false, "")
	switches.addFlag(deadLettersCmd, &deadLettersCfg.Output, "output", "yaml", false, "")
}
