package intake

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"reflect"
	"strings"
	"unicode"

	"github.com/jonboulle/clockwork"
	"github.com/relloyd/stagehand/aws/s3"
	"github.com/relloyd/stagehand/config"
	c "github.com/relloyd/stagehand/constants"
	"github.com/relloyd/stagehand/helper"
	"github.com/relloyd/stagehand/logger"
	"github.com/relloyd/stagehand/stats"
)

// Store is the object storage used by the validator.
type Store interface {
	s3.Getter
	s3.Downloader
	s3.Copier
}

// Rejection is implemented by errors that dead-letter a file with their own reason text.
type Rejection interface {
	error
	Reason() string
}

// PatternMismatchError reports an object name that does not match the configured pattern.
type PatternMismatchError struct {
	Name    string
	Pattern string
}

func (e *PatternMismatchError) Error() string {
	return fmt.Sprintf("Filename '%v' does not match the mandatory pattern '%v' defined in config file.", e.Name, e.Pattern)
}

func (e *PatternMismatchError) Reason() string {
	return e.Error()
}

// SettingsError reports a setting that must be present for a file to be processed.
type SettingsError struct {
	Name string
}

func (e *SettingsError) Error() string {
	return fmt.Sprintf("%v environment variable is not set.", e.Name)
}

// Validator decides whether an uploaded file is accepted or dead-lettered.
type Validator struct {
	log        logger.Logger
	store      Store
	settings   config.IntakeSettings
	deadLetter *DeadLetterRouter
	clock      clockwork.Clock
}

func NewValidator(log logger.Logger, store Store, settings config.IntakeSettings, clock clockwork.Clock) *Validator {
	return &Validator{
		log:        log,
		store:      store,
		settings:   settings,
		deadLetter: NewDeadLetterRouter(log, store, settings.DeadLetterBucket, clock),
		clock:      clock,
	}
}

// Process runs one event through the validation steps.
// It returns nil when the event is not for the landing bucket or names no object.
// Every other event ends in a Decision: accepted files are copied to the external tables bucket
// and all failures, expected or not, are routed to the dead-letter bucket.
func (v *Validator) Process(ctx context.Context, ev Event) *Decision {
	if ev.Bucket != v.settings.LandingBucket {
		v.log.Warn("Event from unexpected bucket: ", ev.Bucket, ". Ignoring.")
		return nil
	}
	if ev.Name == "" {
		v.log.Error("Missing file name in event for bucket ", ev.Bucket)
		return nil
	}
	log := v.log.WithField("object", ev.Name)
	log.Info("Processing file: s3://", ev.Bucket, "/", ev.Name)
	st := &stagedFile{dir: v.settings.StagingDir}
	defer st.remove(log)
	d, err := v.validate(ctx, log, ev, st)
	if err != nil {
		d = v.deadLetter.Route(ctx, ev.Bucket, ev.Name, rejectionReason(log, err))
	}
	stats.IncIntakeDecision(d.Outcome.String())
	return d
}

func (v *Validator) validate(ctx context.Context, log logger.Logger, ev Event, st *stagedFile) (*Decision, error) {
	if v.settings.ConfigBucket == "" {
		return nil, &SettingsError{Name: c.EnvVarConfigBucket}
	}
	log.Info("Loading config from: ", ConfigKey(ev.Name))
	cfg, err := LoadFileTypeConfig(ctx, v.store, v.settings.ConfigBucket, ev.Name)
	if err != nil {
		return nil, err
	}
	ok, err := MatchPattern(cfg.FilenamePattern, ev.Name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &PatternMismatchError{Name: ev.Name, Pattern: cfg.FilenamePattern}
	}
	cols, err := v.countColumns(ctx, ev, st)
	if err != nil {
		return nil, err
	}
	if cols != cfg.ExpectedColumns {
		return nil, &ColumnCountError{Expected: cfg.ExpectedColumns, Actual: cols}
	}
	key := v.AcceptedKey(cfg.TargetPath, ev.Name)
	if err = v.store.Copy(ctx, ev.Bucket, ev.Name, v.settings.ExtTablesBucket, key); err != nil {
		return nil, err
	}
	log.Info("SUCCESS: File ", ev.Name, " validated (Cols: ", cols, ") and copied to s3://", v.settings.ExtTablesBucket, "/", key)
	return &Decision{
		Outcome:           OutcomeAccepted,
		SourceBucket:      ev.Bucket,
		SourceObject:      ev.Name,
		DestinationBucket: v.settings.ExtTablesBucket,
		DestinationObject: key,
		Columns:           cols,
		Routed:            true,
	}, nil
}

// AcceptedKey returns <targetPath/>ingestion_timestamp=<UTC yyyyMMdd_HHmmss>/<name>.
func (v *Validator) AcceptedKey(targetPath, name string) string {
	ts := v.clock.Now().UTC().Format(c.TimeFormatIngestion)
	return fmt.Sprintf("%v%v=%v/%v", helper.EnsureTrailingSlash(targetPath), c.IngestionPartitionKey, ts, name)
}

func (v *Validator) countColumns(ctx context.Context, ev Event, st *stagedFile) (int, error) {
	f, err := st.create(path.Base(ev.Name))
	if err != nil {
		return 0, err
	}
	if err = v.store.Download(ctx, ev.Bucket, ev.Name, f); err != nil {
		return 0, err
	}
	if _, err = f.Seek(0, 0); err != nil {
		return 0, err
	}
	return CountColumns(f)
}

// rejectionReason returns the dead-letter reason for err.
func rejectionReason(log logger.Logger, err error) string {
	var r Rejection
	if errors.As(err, &r) {
		if cause := errors.Unwrap(r); cause != nil {
			log.Warn("Rejected with cause: ", cause)
		}
		return r.Reason()
	}
	log.Error("An unexpected error occurred during processing: ", err)
	return fmt.Sprintf("Unexpected processing error: %v - %v", ErrorCategory(err), err)
}

// ErrorCategory names the kind of err: the Code() of the first error in the chain that has one,
// else the type name of the outermost exported error in the chain. Unexported wrappers such as
// those from fmt.Errorf and pkg/errors are skipped; the root cause is not preferred over them.
func ErrorCategory(err error) string {
	var coded interface{ Code() string }
	if errors.As(err, &coded) && coded.Code() != "" {
		return coded.Code()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		if name := exportedTypeName(e); name != "" {
			return name
		}
	}
	return "Error"
}

// exportedTypeName returns the bare type name of err, or "" for unexported types such as *errors.errorString.
func exportedTypeName(err error) string {
	name := reflect.TypeOf(err).String()
	name = name[strings.LastIndex(name, ".")+1:]
	if name == "" || !unicode.IsUpper([]rune(name)[0]) {
		return ""
	}
	return name
}

// stagedFile is the local copy of a downloaded object.
type stagedFile struct {
	dir string
	f   *os.File
}

func (s *stagedFile) create(base string) (*os.File, error) {
	f, err := os.CreateTemp(s.dir, "intake-*-"+strings.ReplaceAll(base, "*", ""))
	if err != nil {
		return nil, err
	}
	s.f = f
	return f, nil
}

func (s *stagedFile) remove(log logger.Logger) {
	if s.f == nil {
		return
	}
	_ = s.f.Close()
	if err := os.Remove(s.f.Name()); err != nil && !os.IsNotExist(err) {
		log.Warn("Unable to remove staged file ", s.f.Name(), ": ", err)
	}
}
