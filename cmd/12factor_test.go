package cmd

import (
	"os"
	"testing"

	"github.com/relloyd/stagehand/helper"
)

func TestSetupTwelveFactorMode(t *testing.T) {
	defer func() {
		_ = os.Unsetenv(envVarTwelveFactorMode)
		setupTwelveFactorMode()
	}()
	_ = os.Unsetenv(envVarTwelveFactorMode)
	setupTwelveFactorMode()
	if twelveFactorMode || lambdaMode {
		t.Fatal("expected twelveFactorMode and lambdaMode to be false")
	}
	_ = os.Setenv(envVarTwelveFactorMode, "1")
	setupTwelveFactorMode()
	if !twelveFactorMode || lambdaMode {
		t.Fatal("expected twelveFactorMode to be true and lambdaMode false")
	}
	_ = os.Setenv(envVarTwelveFactorMode, "Lambda")
	setupTwelveFactorMode()
	if !twelveFactorMode || !lambdaMode {
		t.Fatal("expected twelveFactorMode and lambdaMode to be true")
	}
}

func TestExecute12FactorMode(t *testing.T) {
	var ran string
	var gotVars map[string]string
	acts := map[string]twelveFactorAction{
		commandTransfer: {
			setupFunc:  func(vars map[string]string) { gotVars = vars },
			runnerFunc: func() error { ran = commandTransfer; return nil },
		},
	}
	osVars := map[string]string{
		envVarLogLevel:                 "error",
		envVarEnvironment:              "uat",
		helper.GetDsnEnvVarName("dev"): "user:secret@account/db/schema",
		envVarObject:                   "s3://landing/a.csv",
		envVarStackDump:                "",
	}
	for k, v := range osVars {
		_ = os.Setenv(k, v)
		defer os.Unsetenv(k)
	}
	defer os.Unsetenv(envVarCommand)

	// Test 1 - action runner function is called and the vars are passed to setup.
	_ = os.Setenv(envVarCommand, "TRANSFER")
	if err := execute12FactorMode(acts); err != nil {
		t.Fatalf("test 1 failed: expected nil error got error: %v", err)
	}
	if ran != commandTransfer {
		t.Fatalf("test 1 failed: expected the transfer runner to be called")
	}
	for k, v := range osVars {
		if gotVars[k] != v {
			t.Fatalf("test 1 failed: expected %v = %q; got %q", k, v, gotVars[k])
		}
	}

	// Test 2 - invalid command.
	_ = os.Setenv(envVarCommand, "cp")
	if err := execute12FactorMode(acts); err == nil {
		t.Fatal("test 2 failed, expected: error; got: nil")
	}
}

func TestTwelveFactorVarsSensitive(t *testing.T) {
	for k := range twelveFactorVarsSensitive {
		if _, ok := twelveFactorVars[k]; !ok {
			t.Fatalf("sensitive variable %v is not read in 12 factor mode", k)
		}
	}
	if _, ok := twelveFactorVarsSensitive["SH_DEV_DSN"]; !ok {
		t.Fatal("expected the dev DSN to be registered as sensitive")
	}
}

func TestTwelveFactorActions(t *testing.T) {
	// Each command offered in 12 factor mode must also be a cobra command.
	for k := range twelveFactorActions {
		found := false
		for _, cmd := range rootCmd.Commands() {
			if cmd.Name() == k {
				found = true
			}
		}
		if !found {
			t.Fatalf("twelveFactorActions handles %v but there is no cobra command for it", k)
		}
	}
}

func TestEnvironmentFromVars(t *testing.T) {
	if got := environmentFromVars(map[string]string{envVarEnvironment: "uat", "ENVIRONMENT": "dev"}); got != "uat" {
		t.Fatalf("expected %v to take precedence; got %v", envVarEnvironment, got)
	}
	if got := environmentFromVars(map[string]string{"ENVIRONMENT": "dev"}); got != "dev" {
		t.Fatalf("expected fallback to ENVIRONMENT; got %v", got)
	}
}

func TestTwelveFactorSetupFuncs(t *testing.T) {
	twelveFactorActions[commandTransfer].setupFunc(map[string]string{"ENVIRONMENT": "uat"})
	if transferCfg.Environment != "uat" {
		t.Fatalf("expected transfer environment uat; got %v", transferCfg.Environment)
	}
	twelveFactorActions[commandIntake].setupFunc(map[string]string{envVarObject: "s3://landing/a.csv"})
	if intakeCfg.Object != "s3://landing/a.csv" {
		t.Fatalf("expected intake object; got %v", intakeCfg.Object)
	}
}
