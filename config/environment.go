package config

import (
	"strings"

	"github.com/pkg/errors"
	c "github.com/relloyd/stagehand/constants"
	"github.com/relloyd/stagehand/helper"
)

// ErrUnknownEnvironment is returned for environment tags other than dev and uat.
var ErrUnknownEnvironment = errors.New("unknown environment")

// Environment is the resolved replication setup for one environment tag.
type Environment struct {
	Name             string   `mapstructure:"-" json:"name"`
	Warehouse        string   `mapstructure:"warehouse" json:"warehouse" errorTxt:"warehouse" mandatory:"yes"`
	SourceProject    string   `mapstructure:"sourceProject" json:"sourceProject" errorTxt:"source project" mandatory:"yes"`
	DestProject      string   `mapstructure:"destProject" json:"destProject" errorTxt:"destination project" mandatory:"yes"`
	SourceDataset    string   `mapstructure:"sourceDataset" json:"sourceDataset" errorTxt:"source dataset" mandatory:"yes"`
	DestDataset      string   `mapstructure:"destDataset" json:"destDataset" errorTxt:"destination dataset" mandatory:"yes"`
	Location         string   `mapstructure:"location" json:"location,omitempty"` // used when the source dataset location is unknown
	Dsn              string   `mapstructure:"dsn" json:"-"`
	SensitiveColumns []string `mapstructure:"sensitiveColumns" json:"sensitiveColumns"`
}

var defaultEnvironments = map[string]Environment{
	c.EnvironmentDev: {
		Warehouse:     c.WarehouseBigQuery,
		SourceProject: "sbox-rgodoy-001-20251124",
		DestProject:   "sbox-rgodoy-002-20251008",
		SourceDataset: "dts_01",
		DestDataset:   "dev_dts",
		SensitiveColumns: []string{
			"dts_01:stg_business_licenses.account_number.redact",
			"dts_01:stg_business_licenses.business_address.redact",
			"dts_01:stg_business_licenses.community_area.redact",
			"dts_01:stg_business_licenses.payment_date.redact",
			"dts_01:stg_crimes.x_coordinate.redact",
			"dts_01:stg_crimes.y_coordinate.redact",
			"dts_01:stg_crimes.latitude.redact",
			"dts_01:stg_crimes.longitude.redact",
			"dts_01:stg_crimes.location_description.redact",
		},
	},
	c.EnvironmentUat: {
		Warehouse:        c.WarehouseBigQuery,
		SourceProject:    "sbox-rgodoy-001-20251124",
		DestProject:      "sbox-rgodoy-002-20251008",
		SourceDataset:    "dts_01",
		DestDataset:      "uat_dts",
		SensitiveColumns: []string{},
	},
}

// ValidEnvironments returns the supported environment tags.
func ValidEnvironments() []string {
	return []string{c.EnvironmentDev, c.EnvironmentUat}
}

// IsValidEnvironment returns true if name is a supported environment tag.
func IsValidEnvironment(name string) bool {
	_, ok := defaultEnvironments[name]
	return ok
}

// LoadEnvironment resolves the named environment.
// Built-in defaults are overridden by the key of the same name in overrides (if not nil),
// then by environment variables such as DEV_SOURCE_PROJECT and SH_DEV_DSN.
// An unknown name returns ErrUnknownEnvironment before anything else is read.
func LoadEnvironment(name string, overrides Getter) (Environment, error) {
	def, ok := defaultEnvironments[name]
	if !ok {
		return Environment{}, errors.Wrapf(ErrUnknownEnvironment, "%q (must be one of %v)", name, strings.Join(ValidEnvironments(), ", "))
	}
	env := def
	env.Name = name
	env.SensitiveColumns = append([]string{}, def.SensitiveColumns...)
	if overrides != nil {
		err := overrides.Get(name, &env)
		if err != nil && !errors.As(err, &KeyNotFoundError{}) { // if the overrides exist but are unreadable...
			return Environment{}, errors.Wrapf(err, "error reading overrides for environment %v", name)
		}
	}
	applyEnvVarOverrides(&env)
	if err := env.Validate(); err != nil {
		return Environment{}, errors.Wrapf(err, "invalid configuration for environment %v", name)
	}
	return env, nil
}

func applyEnvVarOverrides(env *Environment) {
	settings := map[string]*string{
		"SOURCE_PROJECT": &env.SourceProject,
		"DEST_PROJECT":   &env.DestProject,
		"SOURCE_DATASET": &env.SourceDataset,
		"DEST_DATASET":   &env.DestDataset,
		"WAREHOUSE":      &env.Warehouse,
		"LOCATION":       &env.Location,
	}
	for k, v := range settings {
		_ = helper.ReadValueFromEnv(helper.GetEnvironmentVarName(env.Name, k), v)
	}
	_ = helper.ReadValueFromEnv(helper.GetDsnEnvVarName(env.Name), &env.Dsn)
	var cols string
	if err := helper.ReadValueFromEnv(helper.GetEnvironmentVarName(env.Name, "SENSITIVE_COLUMNS"), &cols); err == nil {
		env.SensitiveColumns = helper.CsvToStringSliceTrimSpaces(cols)
	}
}

// Validate checks that mandatory fields are set and the warehouse is supported.
func (e Environment) Validate() error {
	if err := helper.ValidateStructIsPopulated(e); err != nil {
		return err
	}
	switch strings.ToLower(e.Warehouse) {
	case c.WarehouseBigQuery:
	case c.WarehouseSnowflake:
		if e.Dsn == "" {
			return errors.Errorf("a DSN is required for %v environments (set %v)", c.WarehouseSnowflake, helper.GetDsnEnvVarName(e.Name))
		}
	default:
		return errors.Errorf("unsupported warehouse %q", e.Warehouse)
	}
	return nil
}
