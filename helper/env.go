package helper

import (
	"fmt"
	"os"
	"strings"

	"github.com/relloyd/stagehand/constants"
)

// ReadValueFromEnv will read the env var called name and populate the supplied val.
// If the env var is not set then return an error and leave val untouched.
func ReadValueFromEnv(name string, val *string) error {
	v := os.Getenv(name)
	if v != "" { // if the environment variable was set...
		*val = v // update the callers value
		return nil
	}
	return fmt.Errorf("value for environment variable %v not found", name)
}

// ReadValueFromEnvWithDefault will read the value of name from the environment into v.
// If it's not set then it will apply the supplied defaultValue and return v.
func ReadValueFromEnvWithDefault(name string, defaultValue string) (v string) {
	_ = ReadValueFromEnv(name, &v)
	if v == "" && defaultValue != "" { // if the environment variable is not set and we have been given a default value...
		v = defaultValue
	}
	return
}

// GetEnvironmentVarName returns the variable that overrides a setting of the named environment,
// e.g. dev + SOURCE_PROJECT gives DEV_SOURCE_PROJECT.
func GetEnvironmentVarName(environment string, setting string) string {
	return fmt.Sprintf("%v_%v", sanitise(environment), sanitise(setting))
}

// GetDsnEnvVarName returns the variable that holds a warehouse DSN for the named environment.
func GetDsnEnvVarName(environment string) string {
	return fmt.Sprintf("%v_%v_DSN", constants.EnvVarPrefix, sanitise(environment))
}

func sanitise(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(strings.ToUpper(s)), "-", "_")
}
