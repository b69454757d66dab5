package cmd

import (
	"github.com/relloyd/stagehand/actions"
	c "github.com/relloyd/stagehand/constants"
	"github.com/spf13/cobra"
)

var intakeCfg actions.IntakeConfig

var intakeCmd = &cobra.Command{
	Use:   "intake s3://<bucket>/<key>",
	Short: "Validate an uploaded file and route it to the external tables or dead-letter bucket",
	Long: `Validate an uploaded file as if the landing bucket had notified us of it.
The file type config is read from ` + c.EnvVarConfigBucket + `. Rejected files are copied to ` + c.EnvVarDeadLetterBucket + `.`,
	Args: getSingleArgFunc(&intakeCfg.Object, "requires an object URL: s3://<bucket>/<key>"),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntake()
	},
}

func runIntake() error {
	intakeCfg.StackDumpOnPanic = stackDumpOnPanic
	return actions.RunIntake(&intakeCfg)
}

func init() {
	rootCmd.AddCommand(intakeCmd)
	intakeCmd.Flags().SortFlags = false
	switches.addFlag(intakeCmd, &intakeCfg.LogLevel, "log-level", "info", false, "")
	switches.addFlag(intakeCmd, &intakeCfg.Output, "output", "json", false, "")
}
