package config

import (
	"os"

	c "github.com/relloyd/stagehand/constants"
	"github.com/relloyd/stagehand/helper"
)

// IntakeSettings names the buckets used by the file intake pipeline.
// ConfigBucket and DeadLetterBucket are optional here: the validator dead-letters files when the
// former is missing and only logs when the latter is missing.
type IntakeSettings struct {
	LandingBucket    string `json:"landingBucket" errorTxt:"landing bucket" mandatory:"yes"`
	ExtTablesBucket  string `json:"extTablesBucket" errorTxt:"external tables bucket" mandatory:"yes"`
	ConfigBucket     string `json:"configBucket"`
	DeadLetterBucket string `json:"deadLetterBucket"`
	Region           string `json:"region" errorTxt:"AWS region (AWS_REGION)" mandatory:"yes"`
	StagingDir       string `json:"stagingDir" errorTxt:"staging directory" mandatory:"yes"`
}

// LoadIntakeSettings reads intake settings from the environment, applying defaults where
// variables are not set.
func LoadIntakeSettings() IntakeSettings {
	return IntakeSettings{
		LandingBucket:    helper.ReadValueFromEnvWithDefault(c.EnvVarLandingBucket, c.DefaultLandingBucket),
		ExtTablesBucket:  helper.ReadValueFromEnvWithDefault(c.EnvVarExtTablesBucket, c.DefaultExtTablesBucket),
		ConfigBucket:     helper.ReadValueFromEnvWithDefault(c.EnvVarConfigBucket, ""),
		DeadLetterBucket: helper.ReadValueFromEnvWithDefault(c.EnvVarDeadLetterBucket, ""),
		Region:           helper.ReadValueFromEnvWithDefault(c.EnvVarAwsRegion, ""),
		StagingDir:       helper.ReadValueFromEnvWithDefault(c.EnvVarStagingDir, os.TempDir()),
	}
}

// Validate checks that mandatory settings are present.
func (s IntakeSettings) Validate() error {
	return helper.ValidateStructIsPopulated(s)
}
