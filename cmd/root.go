package cmd

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
)

var (
	// Default values may be set at compile time.
	version          = "0.1.0"
	buildDate        = "2024-01-02T03:04+0000"
	stackDumpOnPanic bool
)

var rootCmd = &cobra.Command{
	Use: "stagehand",
	Long: `
Stagehand keeps a redacted copy of warehouse datasets in lower environments and
gatekeeps files uploaded to the landing bucket.

Use "transfer" to replicate the source dataset for an environment and redact its
sensitive columns. Use "intake" to validate an uploaded file against its file
type config. Use "serve" to expose both over HTTP.`,
}

func init() {
	cobra.EnableCommandSorting = false
	rootCmd.PersistentFlags().BoolVar(&stackDumpOnPanic, "print-stack", false, "Print a stack dump if there is a panic")
	_ = rootCmd.PersistentFlags().MarkHidden("print-stack")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if twelveFactorMode { // if we are running based on environment variables...
		if lambdaMode { // if we should handle lambda execution...
			lambda.Start(getLambdaHandler(twelveFactorActions))
		} else {
			if err := execute12FactorMode(twelveFactorActions); err != nil {
				// execute12FactorMode prints the error.
				os.Exit(1)
			}
		}
	} else { // else we're using CLI args and flags via Cobra...
		if err := rootCmd.Execute(); err != nil {
			// Execute() prints the error.
			os.Exit(1)
		}
	}
}
