package intake

import (
	"context"
	"errors"
	"fmt"

	"github.com/relloyd/stagehand/aws/s3"
	c "github.com/relloyd/stagehand/constants"
	"github.com/relloyd/stagehand/helper"
	"github.com/tidwall/gjson"
)

const (
	KeyExpectedColumns = "expected_columns"
	KeyTargetPath      = "target_path"
	KeyFilenamePattern = "filename_pattern"
)

var requiredKeys = []string{KeyExpectedColumns, KeyTargetPath, KeyFilenamePattern}

// FileTypeConfig holds the rules for one type of uploaded file.
type FileTypeConfig struct {
	ExpectedColumns int    `json:"expected_columns"`
	TargetPath      string `json:"target_path"`
	FilenamePattern string `json:"filename_pattern"`
}

// ConfigNotFoundError is returned when the config object cannot be fetched or is not a JSON object.
type ConfigNotFoundError struct {
	Key string
	Err error
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("Config file not found: %v", e.Key)
}

func (e *ConfigNotFoundError) Unwrap() error {
	return e.Err
}

func (e *ConfigNotFoundError) Reason() string {
	return "Configuration file was not found for this dataset: " + e.Error()
}

// MissingKeyError names the first required key absent from a config object.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("Configuration file is missing required key: '%v'", e.Key)
}

func (e *MissingKeyError) Reason() string {
	return e.Error()
}

// InvalidValueError is returned when a required key holds a value of the wrong type.
type InvalidValueError struct {
	Key   string
	Value string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("Configuration file has an invalid value for key '%v': %v", e.Key, e.Value)
}

func (e *InvalidValueError) Reason() string {
	return e.Error()
}

// ConfigKey returns the config object key for an uploaded object, e.g. 'in/raw_orders.csv'
// gives 'config/raw_orders.json'.
func ConfigKey(objectName string) string {
	return c.ConfigFolder + helper.BaseNameWithoutExt(objectName) + c.ConfigFileExt
}

// LoadFileTypeConfig fetches and parses the config for objectName from bucket.
// Any fetch failure is reported as ConfigNotFoundError, with the cause available to errors.Is/As.
func LoadFileTypeConfig(ctx context.Context, getter s3.Getter, bucket string, objectName string) (*FileTypeConfig, error) {
	key := ConfigKey(objectName)
	data, err := getter.Get(ctx, bucket, key)
	if err != nil { // S3 reports AccessDenied for missing keys unless the caller may list the bucket.
		return nil, &ConfigNotFoundError{Key: key, Err: err}
	}
	return ParseFileTypeConfig(key, data)
}

// ParseFileTypeConfig validates data, read from the config object named key.
// Extra keys are ignored.
func ParseFileTypeConfig(key string, data []byte) (*FileTypeConfig, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ConfigNotFoundError{Key: key, Err: errors.New("invalid JSON")}
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, &ConfigNotFoundError{Key: key, Err: errors.New("expected a JSON object")}
	}
	values := make(map[string]gjson.Result, len(requiredKeys))
	for _, k := range requiredKeys {
		v := doc.Get(k)
		if !v.Exists() {
			return nil, &MissingKeyError{Key: k}
		}
		values[k] = v
	}
	cols := values[KeyExpectedColumns]
	if cols.Type != gjson.Number || cols.Num != float64(int64(cols.Num)) {
		return nil, &InvalidValueError{Key: KeyExpectedColumns, Value: cols.Raw}
	}
	for _, k := range []string{KeyTargetPath, KeyFilenamePattern} {
		if values[k].Type != gjson.String {
			return nil, &InvalidValueError{Key: k, Value: values[k].Raw}
		}
	}
	return &FileTypeConfig{
		ExpectedColumns: int(cols.Int()),
		TargetPath:      values[KeyTargetPath].String(),
		FilenamePattern: values[KeyFilenamePattern].String(),
	}, nil
}
