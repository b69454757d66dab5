package intake

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/jonboulle/clockwork"
	pkgerrors "github.com/pkg/errors"
	"github.com/relloyd/stagehand/config"
	c "github.com/relloyd/stagehand/constants"
	"github.com/relloyd/stagehand/logger"
)

const (
	testLanding = "landing"
	testExt     = "ext"
	testConfig  = "cfg"
	testDLQ     = "dlq"
)

var testNow = time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

func newTestValidator(t *testing.T, store *memStore) (*Validator, string) {
	t.Helper()
	dir, err := ioutil.TempDir("", "intake-test")
	if err != nil {
		t.Fatalf("unable to create staging dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	settings := config.IntakeSettings{
		LandingBucket:    testLanding,
		ExtTablesBucket:  testExt,
		ConfigBucket:     testConfig,
		DeadLetterBucket: testDLQ,
		Region:           "eu-west-2",
		StagingDir:       dir,
	}
	log := logger.NewLogger("stagehand", "error", false)
	return NewValidator(log, store, settings, clockwork.NewFakeClockAt(testNow)), dir
}

func assertStagingDirEmpty(t *testing.T, dir string) {
	t.Helper()
	files, err := ioutil.ReadDir(dir)
	if err != nil {
		t.Fatalf("unable to read staging dir: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected staged files to be removed; found %v", len(files))
	}
}

func TestProcessAccepted(t *testing.T) {
	store := newMemStore()
	store.put(testConfig, "config/addcharge_mapping.json",
		`{"expected_columns": 3, "target_path": "shared_data/", "filename_pattern": "addcharge_mapping.csv"}`)
	store.put(testLanding, "addcharge_mapping.csv", "a,b,c\n1,2,3,4,5\n")
	v, dir := newTestValidator(t, store)

	d := v.Process(context.Background(), Event{Bucket: testLanding, Name: "addcharge_mapping.csv"})
	if d == nil {
		t.Fatal("expected a decision")
	}
	if d.Outcome != OutcomeAccepted {
		t.Fatalf("expected accepted; got %v with reason %q", d.Outcome, d.Reason)
	}
	re := regexp.MustCompile(`^shared_data/ingestion_timestamp=` + c.TimeFormatIngestionRegex + `/addcharge_mapping\.csv$`)
	if !re.MatchString(d.DestinationObject) {
		t.Fatalf("unexpected destination %q", d.DestinationObject)
	}
	expected := "shared_data/ingestion_timestamp=20240305_140709/addcharge_mapping.csv"
	if d.DestinationObject != expected {
		t.Fatalf("expected destination %q; got %q", expected, d.DestinationObject)
	}
	if _, ok := store.get(testExt, expected); !ok {
		t.Fatalf("expected object in external tables bucket; got %v", store.keys(testExt))
	}
	if len(store.keys(testDLQ)) != 0 {
		t.Fatalf("expected nothing dead-lettered; got %v", store.keys(testDLQ))
	}
	if d.Columns != 3 {
		t.Fatalf("expected 3 columns; got %v", d.Columns)
	}
	assertStagingDirEmpty(t, dir)
}

func TestProcessTargetPathNormalised(t *testing.T) {
	for _, target := range []string{"shared_data", "shared_data/", "shared_data//"} {
		store := newMemStore()
		store.put(testConfig, "config/orders.json",
			`{"expected_columns": 2, "target_path": "`+target+`", "filename_pattern": "in/*.csv"}`)
		store.put(testLanding, "in/sub/orders.csv", "a,b\n")
		v, _ := newTestValidator(t, store)
		d := v.Process(context.Background(), Event{Bucket: testLanding, Name: "in/sub/orders.csv"})
		expected := "shared_data/ingestion_timestamp=20240305_140709/in/sub/orders.csv"
		if d.Outcome != OutcomeAccepted || d.DestinationObject != expected {
			t.Fatalf("target %q: expected accepted at %q; got %v at %q (%v)", target, expected, d.Outcome, d.DestinationObject, d.Reason)
		}
	}
}

func TestProcessColumnMismatch(t *testing.T) {
	store := newMemStore()
	store.put(testConfig, "config/addcharge_mapping.json",
		`{"expected_columns": 3, "target_path": "shared_data/", "filename_pattern": "addcharge_mapping.csv"}`)
	store.put(testLanding, "addcharge_mapping.csv", "1,2,3,4,5\n")
	v, dir := newTestValidator(t, store)

	d := v.Process(context.Background(), Event{Bucket: testLanding, Name: "addcharge_mapping.csv"})
	if d.Outcome != OutcomeDeadLettered {
		t.Fatalf("expected dead-lettered; got %v", d.Outcome)
	}
	expected := "Column count mismatch. Config expected 3, but file has 5."
	if d.Reason != expected {
		t.Fatalf("expected reason %q; got %q", expected, d.Reason)
	}
	if d.DestinationBucket != testDLQ || d.DestinationObject != "error/20240305140709_addcharge_mapping.csv" || !d.Routed {
		t.Fatalf("unexpected dead-letter destination %+v", d)
	}
	if len(store.keys(testExt)) != 0 {
		t.Fatalf("expected nothing accepted; got %v", store.keys(testExt))
	}
	assertStagingDirEmpty(t, dir)
}

func TestProcessConfigNotFound(t *testing.T) {
	store := newMemStore()
	store.put(testLanding, "unknown_file.csv", "a,b\n")
	v, _ := newTestValidator(t, store)

	d := v.Process(context.Background(), Event{Bucket: testLanding, Name: "unknown_file.csv"})
	if d.Outcome != OutcomeDeadLettered {
		t.Fatalf("expected dead-lettered; got %v", d.Outcome)
	}
	expected := "Configuration file was not found for this dataset: Config file not found: config/unknown_file.json"
	if d.Reason != expected {
		t.Fatalf("expected reason %q; got %q", expected, d.Reason)
	}
	re := regexp.MustCompile(`^error/` + c.TimeFormatDeadLetterRegex + `_unknown_file\.csv$`)
	if !re.MatchString(d.DestinationObject) {
		t.Fatalf("unexpected dead-letter object %q", d.DestinationObject)
	}
	if _, ok := store.get(testDLQ, d.DestinationObject); !ok {
		t.Fatalf("expected object in dead-letter bucket; got %v", store.keys(testDLQ))
	}
	if len(store.download) != 0 {
		t.Fatal("expected no download before config is resolved")
	}
}

func TestProcessInvalidConfigJSON(t *testing.T) {
	store := newMemStore()
	store.put(testConfig, "config/orders.json", `{"expected_columns": 3,`)
	store.put(testLanding, "orders.csv", "a,b,c\n")
	v, _ := newTestValidator(t, store)
	d := v.Process(context.Background(), Event{Bucket: testLanding, Name: "orders.csv"})
	if !strings.HasPrefix(d.Reason, "Configuration file was not found for this dataset: ") {
		t.Fatalf("expected config-not-found reason; got %q", d.Reason)
	}
}

func TestProcessMissingKey(t *testing.T) {
	store := newMemStore()
	store.put(testConfig, "config/orders.json", `{"expected_columns": 3, "filename_pattern": "*.csv"}`)
	store.put(testLanding, "orders.csv", "a,b,c\n")
	v, _ := newTestValidator(t, store)
	d := v.Process(context.Background(), Event{Bucket: testLanding, Name: "orders.csv"})
	expected := "Configuration file is missing required key: 'target_path'"
	if d.Outcome != OutcomeDeadLettered || d.Reason != expected {
		t.Fatalf("expected reason %q; got %v %q", expected, d.Outcome, d.Reason)
	}
}

func TestProcessPatternMismatch(t *testing.T) {
	store := newMemStore()
	store.put(testConfig, "config/orders.json", `{"expected_columns": 3, "target_path": "t", "filename_pattern": "sales/orders_*.csv"}`)
	store.put(testLanding, "orders.csv", "a,b,c\n")
	v, _ := newTestValidator(t, store)
	d := v.Process(context.Background(), Event{Bucket: testLanding, Name: "orders.csv"})
	expected := "Filename 'orders.csv' does not match the mandatory pattern 'sales/orders_*.csv' defined in config file."
	if d.Reason != expected {
		t.Fatalf("expected reason %q; got %q", expected, d.Reason)
	}
}

func TestProcessForeignBucketIsIgnored(t *testing.T) {
	store := newMemStore()
	store.put("elsewhere", "addcharge_mapping.csv", "a,b,c\n")
	v, _ := newTestValidator(t, store)
	if d := v.Process(context.Background(), Event{Bucket: "elsewhere", Name: "addcharge_mapping.csv"}); d != nil {
		t.Fatalf("expected no decision; got %+v", d)
	}
	if d := v.Process(context.Background(), Event{Bucket: testLanding}); d != nil {
		t.Fatalf("expected no decision for empty name; got %+v", d)
	}
	if store.copies != 0 || len(store.download) != 0 {
		t.Fatal("expected no side effects")
	}
}

func TestProcessUnexpectedError(t *testing.T) {
	store := newMemStore()
	store.put(testConfig, "config/orders.json", `{"expected_columns": 3, "target_path": "t", "filename_pattern": "*"}`)
	store.put(testLanding, "orders.csv", "a,b,c\n")
	store.dlErr = awserr.New("AccessDenied", "Access Denied", nil)
	v, dir := newTestValidator(t, store)
	d := v.Process(context.Background(), Event{Bucket: testLanding, Name: "orders.csv"})
	if d.Outcome != OutcomeDeadLettered {
		t.Fatalf("expected dead-lettered; got %v", d.Outcome)
	}
	if !strings.HasPrefix(d.Reason, "Unexpected processing error: AccessDenied - ") {
		t.Fatalf("unexpected reason %q", d.Reason)
	}
	assertStagingDirEmpty(t, dir)
}

func TestProcessConfigAccessDenied(t *testing.T) {
	store := newMemStore()
	store.put(testLanding, "unknown_file.csv", "a,b,c\n")
	store.getErr = awserr.New("AccessDenied", "Access Denied", nil)
	v, _ := newTestValidator(t, store)
	d := v.Process(context.Background(), Event{Bucket: testLanding, Name: "unknown_file.csv"})
	expected := "Configuration file was not found for this dataset: Config file not found: config/unknown_file.json"
	if d.Outcome != OutcomeDeadLettered || d.Reason != expected {
		t.Fatalf("expected dead-letter with reason %q; got %v %q", expected, d.Outcome, d.Reason)
	}
}

func TestProcessEmptyFile(t *testing.T) {
	store := newMemStore()
	store.put(testConfig, "config/orders.json", `{"expected_columns": 3, "target_path": "t", "filename_pattern": "*"}`)
	store.put(testLanding, "orders.csv", "")
	v, dir := newTestValidator(t, store)
	d := v.Process(context.Background(), Event{Bucket: testLanding, Name: "orders.csv"})
	expected := "Unexpected processing error: EmptyFileError - No columns to parse from file"
	if d.Reason != expected {
		t.Fatalf("expected reason %q; got %q", expected, d.Reason)
	}
	assertStagingDirEmpty(t, dir)
}

func TestProcessConfigBucketUnset(t *testing.T) {
	store := newMemStore()
	store.put(testLanding, "orders.csv", "a,b,c\n")
	v, _ := newTestValidator(t, store)
	v.settings.ConfigBucket = ""
	d := v.Process(context.Background(), Event{Bucket: testLanding, Name: "orders.csv"})
	expected := "Unexpected processing error: SettingsError - CONFIG_BUCKET environment variable is not set."
	if d.Reason != expected {
		t.Fatalf("expected reason %q; got %q", expected, d.Reason)
	}
}

func TestProcessDeadLetterFailureIsSwallowed(t *testing.T) {
	store := newMemStore()
	store.put(testLanding, "unknown.csv", "a\n")
	store.copyErr = errors.New("boom")
	v, _ := newTestValidator(t, store)
	d := v.Process(context.Background(), Event{Bucket: testLanding, Name: "unknown.csv"})
	if d.Outcome != OutcomeDeadLettered || d.Routed {
		t.Fatalf("expected unrouted dead-letter decision; got %+v", d)
	}
}

func TestErrorCategory(t *testing.T) {
	_, pathErr := os.Open("/definitely/not/here")
	cases := []struct {
		err      error
		expected string
	}{
		{errors.New("plain"), "Error"},
		{pathErr, "PathError"},
		{fmt.Errorf("staging: %w", pathErr), "PathError"},
		{pkgerrors.Wrap(pathErr, "staging"), "PathError"},
		{pkgerrors.New("plain"), "Error"},
		{&ConfigNotFoundError{Key: "k", Err: pathErr}, "ConfigNotFoundError"},
		{&SettingsError{Name: "X"}, "SettingsError"},
		{awserr.New("NoSuchBucket", "gone", nil), "NoSuchBucket"},
		{&PatternError{Pattern: "[", Err: errors.New("bad")}, "PatternError"},
	}
	for _, tc := range cases {
		if got := ErrorCategory(tc.err); got != tc.expected {
			t.Fatalf("ErrorCategory(%v): expected %q; got %q", tc.err, tc.expected, got)
		}
	}
}
