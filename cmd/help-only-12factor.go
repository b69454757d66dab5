package cmd

import (
	"fmt"

	"github.com/relloyd/stagehand/constants"
	"github.com/spf13/cobra"
)

var twelveFactorCmd = &cobra.Command{
	Use:   "12f",
	Short: `View help notes for running in Twelve-Factor mode`,
	Long: fmt.Sprintf(`
Stagehand can be controlled by environment variables, which suits containers,
scheduled jobs and Lambda functions.

To enable Twelve-Factor mode, set %[1]s_12FACTOR_MODE=1 (or "lambda" to run as a
Lambda function). Choose the action with %[1]s_COMMAND=transfer|intake|serve.
To supply flags documented by the regular command-line usage, set an 
equivalent environment variable using the following convention: 

%[1]s_<flag long-name in upper case>

For example, this will refresh the uat dataset without executing any writes:

export %[1]s_12FACTOR_MODE=1
export %[1]s_COMMAND=transfer
export %[1]s_ENVIRONMENT=uat
export %[1]s_DRY_RUN=1
export %[1]s_LOG_LEVEL=debug

When %[1]s_12FACTOR_MODE=lambda and %[1]s_COMMAND=intake, the function handles S3
upload notifications from the landing bucket. Set CONFIG_BUCKET, DEAD_LETTER_BUCKET
and AWS_REGION for it.

Then execute the CLI tool without any arguments or flags.

`, constants.EnvVarPrefix),
}

func init() {
	rootCmd.AddCommand(twelveFactorCmd)
}
