package intake

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/golang/mock/gomock"
	"github.com/relloyd/stagehand/aws/s3"
	"github.com/relloyd/stagehand/aws/s3/mocks"
)

func TestConfigKey(t *testing.T) {
	cases := map[string]string{
		"addcharge_mapping.csv":  "config/addcharge_mapping.json",
		"in/2024/raw_orders.csv": "config/raw_orders.json",
		"archive.tar.gz":         "config/archive.tar.json",
		"no_extension":           "config/no_extension.json",
	}
	for in, expected := range cases {
		if got := ConfigKey(in); got != expected {
			t.Fatalf("ConfigKey(%q): expected %q; got %q", in, expected, got)
		}
	}
}

func TestParseFileTypeConfig(t *testing.T) {
	cfg, err := ParseFileTypeConfig("config/x.json", []byte(`{"expected_columns": 3.0, "target_path": "shared_data", "filename_pattern": "*.csv", "owner": "finance"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ExpectedColumns != 3 || cfg.TargetPath != "shared_data" || cfg.FilenamePattern != "*.csv" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	// Missing keys are reported in declared order.
	_, err = ParseFileTypeConfig("config/x.json", []byte(`{}`))
	var mk *MissingKeyError
	if !errors.As(err, &mk) || mk.Key != KeyExpectedColumns {
		t.Fatalf("expected missing %v; got %v", KeyExpectedColumns, err)
	}
	_, err = ParseFileTypeConfig("config/x.json", []byte(`{"expected_columns": 3, "target_path": "t"}`))
	if !errors.As(err, &mk) || mk.Key != KeyFilenamePattern {
		t.Fatalf("expected missing %v; got %v", KeyFilenamePattern, err)
	}
	// Wrong types.
	var iv *InvalidValueError
	for _, body := range []string{
		`{"expected_columns": "3", "target_path": "t", "filename_pattern": "p"}`,
		`{"expected_columns": 2.5, "target_path": "t", "filename_pattern": "p"}`,
		`{"expected_columns": 3, "target_path": 7, "filename_pattern": "p"}`,
	} {
		if _, err = ParseFileTypeConfig("config/x.json", []byte(body)); !errors.As(err, &iv) {
			t.Fatalf("expected InvalidValueError for %v; got %v", body, err)
		}
	}
	// Not an object.
	var nf *ConfigNotFoundError
	for _, body := range []string{`[]`, `{"expected_columns":`, `"text"`} {
		if _, err = ParseFileTypeConfig("config/x.json", []byte(body)); !errors.As(err, &nf) {
			t.Fatalf("expected ConfigNotFoundError for %v; got %v", body, err)
		}
	}
}

func TestLoadFileTypeConfig(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	getter := mocks.NewMockGetter(ctrl)
	ctx := context.Background()

	getter.EXPECT().Get(ctx, "cfg", "config/orders.json").Return(nil, s3.ErrKeyNotFound)
	_, err := LoadFileTypeConfig(ctx, getter, "cfg", "in/orders.csv")
	var nf *ConfigNotFoundError
	if !errors.As(err, &nf) || nf.Key != "config/orders.json" {
		t.Fatalf("expected ConfigNotFoundError; got %v", err)
	}

	// S3 answers AccessDenied for a missing key when the role cannot list the bucket.
	denied := awserr.New("AccessDenied", "Access Denied", nil)
	getter.EXPECT().Get(ctx, "cfg", "config/orders.json").Return(nil, denied)
	_, err = LoadFileTypeConfig(ctx, getter, "cfg", "in/orders.csv")
	if !errors.As(err, &nf) || !errors.Is(err, denied) {
		t.Fatalf("expected ConfigNotFoundError wrapping the storage error; got %v", err)
	}

	getter.EXPECT().Get(ctx, "cfg", "config/orders.json").
		Return([]byte(`{"expected_columns": 4, "target_path": "t/", "filename_pattern": "in/*"}`), nil)
	cfg, err := LoadFileTypeConfig(ctx, getter, "cfg", "in/orders.csv")
	if err != nil || cfg.ExpectedColumns != 4 {
		t.Fatalf("unexpected result %+v, %v", cfg, err)
	}
}
