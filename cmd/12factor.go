package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/relloyd/stagehand/actions"
	c "github.com/relloyd/stagehand/constants"
	"github.com/relloyd/stagehand/helper"
	"github.com/relloyd/stagehand/logger"
)

// init will be called first due to the lexical order in which these functions are executed.
// This ensures twelveFactorMode is set before the other init() functions call addFlag, which reads
// flag values from environment variables in this mode.
func init() {
	setupTwelveFactorMode()
}

// setupTwelveFactorMode will enable or disable 12 factor mode based on environment variable.
func setupTwelveFactorMode() {
	mode := os.Getenv(envVarTwelveFactorMode)
	if mode != "" { // if variable for 12factor mode is set and we should read env vars to determine actions...
		twelveFactorMode = true
		lambdaMode = strings.ToLower(mode) == "lambda"
	} else { // else 12factor mode should be off...
		twelveFactorMode = false // explicitly turn off this mode since tests may have turned it on while others require it off.
		lambdaMode = false
	}
}

const (
	envVarTwelveFactorMode = c.EnvVarPrefix + "_" + "12FACTOR_MODE"
	envVarCommand          = c.EnvVarPrefix + "_" + "COMMAND" // transfer|intake|serve
	envVarEnvironment      = c.EnvVarPrefix + "_" + "ENVIRONMENT"
	envVarObject           = c.EnvVarPrefix + "_" + "OBJECT" // s3://<bucket>/<key>
	envVarLogLevel         = c.EnvVarPrefix + "_" + "LOG_LEVEL"
	envVarStackDump        = c.EnvVarPrefix + "_" + "STACK_DUMP"
	commandTransfer        = "transfer"
	commandIntake          = "intake"
	commandServe           = "serve"
)

var (
	twelveFactorMode bool // true if os env var envVarTwelveFactorMode is set
	lambdaMode       bool // true if envVarTwelveFactorMode is "lambda"
	twelveFactorVars = map[string]string{
		envVarCommand:                  "",
		envVarEnvironment:              "",
		c.EnvVarEnvironment:            "",
		envVarObject:                   "",
		envVarLogLevel:                 "",
		envVarStackDump:                "",
		c.EnvVarConfigBucket:           "",
		c.EnvVarDeadLetterBucket:       "",
		helper.GetDsnEnvVarName("dev"): "",
		helper.GetDsnEnvVarName("uat"): "",
	}
	twelveFactorVarsSensitive = map[string]string{ // used to flag some of the above variables as being sensitive.
		helper.GetDsnEnvVarName("dev"): "",
		helper.GetDsnEnvVarName("uat"): "",
	}
)

type twelveFactorAction struct {
	setupFunc  func(vars map[string]string)
	runnerFunc func() error
}

var twelveFactorActions = map[string]twelveFactorAction{
	commandTransfer: {
		setupFunc: func(vars map[string]string) {
			transferCfg.Environment = environmentFromVars(vars)
		},
		runnerFunc: runTransfer,
	},
	commandIntake: {
		setupFunc: func(vars map[string]string) {
			intakeCfg.Object = vars[envVarObject]
		},
		runnerFunc: runIntake,
	},
	commandServe: {
		setupFunc:  func(vars map[string]string) {},
		runnerFunc: runServe,
	},
}

// environmentFromVars prefers SH_ENVIRONMENT over the plain ENVIRONMENT used by hosted runtimes.
func environmentFromVars(vars map[string]string) string {
	if v := vars[envVarEnvironment]; v != "" {
		return v
	}
	return vars[c.EnvVarEnvironment]
}

func new12FactorLogger() logger.Logger {
	// Fetch logLevel from env as this is not a persistent flag, given that we wanted different logging defaults per cobra action.
	logLevel := helper.ReadValueFromEnvWithDefault(envVarLogLevel, "warn")
	return logger.NewLogger(c.AppName, logLevel, stackDumpOnPanic || os.Getenv(envVarStackDump) != "")
}

// readTwelveFactorVars saves the value of each variable we need and logs it.
func readTwelveFactorVars(log logger.Logger) {
	for k := range twelveFactorVars { // for each env variable that we need...
		twelveFactorVars[k] = os.Getenv(k)
		if _, sensitive := twelveFactorVarsSensitive[k]; !sensitive { // if the env variable does not contain sensitive values...
			log.Debug(k, "=", twelveFactorVars[k])
		} else { // else output obfuscated value...
			log.Debug(k, "=", "<obfuscated>")
		}
	}
}

func execute12FactorMode(acts map[string]twelveFactorAction) (err error) {
	log := new12FactorLogger()
	log.Info("Stagehand is running in 12 Factor mode...")
	readTwelveFactorVars(log)
	command := strings.ToLower(twelveFactorVars[envVarCommand])
	a, ok := acts[command]
	if !ok {
		err = fmt.Errorf("invalid command %q (set %v to one of %v, %v or %v)", twelveFactorVars[envVarCommand], envVarCommand, commandTransfer, commandIntake, commandServe)
		log.Error(err.Error())
		return
	}
	a.setupFunc(twelveFactorVars)
	err = a.runnerFunc()
	if err != nil {
		log.Error("Error: ", err)
	}
	return err
}

// getLambdaHandler returns the handler for lambda.Start().
// The intake command is driven by S3 notifications, so its handler receives the event.
// Other commands ignore the payload and run as they would in 12 factor mode.
func getLambdaHandler(acts map[string]twelveFactorAction) interface{} {
	if strings.ToLower(os.Getenv(envVarCommand)) == commandIntake {
		log := new12FactorLogger()
		v, err := actions.NewIntakeValidator(log)
		if err != nil {
			log.Fatal("Unable to set up intake: ", err)
		}
		return actions.GetIntakeLambdaHandler(log, v)
	}
	return func() error { return execute12FactorMode(acts) }
}
