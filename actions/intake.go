package actions

import (
	"context"
	"io"
	"net/url"
	"os"
	"os/signal"

	"github.com/aws/aws-lambda-go/events"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/relloyd/stagehand/aws/s3"
	"github.com/relloyd/stagehand/config"
	c "github.com/relloyd/stagehand/constants"
	"github.com/relloyd/stagehand/helper"
	"github.com/relloyd/stagehand/intake"
	"github.com/relloyd/stagehand/logger"
)

type IntakeConfig struct {
	LogLevel         string `errorTxt:"log level" mandatory:"yes"`
	Object           string `errorTxt:"object URL" mandatory:"yes"` // s3://<bucket>/<key>
	Output           string
	StackDumpOnPanic bool
}

// NewIntakeValidator builds a validator from environment settings with one S3 client for the process.
func NewIntakeValidator(log logger.Logger) (*intake.Validator, error) {
	settings := config.LoadIntakeSettings()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if settings.DeadLetterBucket == "" {
		log.Warn(c.EnvVarDeadLetterBucket, " is not set: rejected files will not be moved")
	}
	store, err := s3.NewBasicClient(settings.Region)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create S3 client")
	}
	return intake.NewValidator(log, store, settings, clockwork.NewRealClock()), nil
}

// RunIntake processes the object at cfg.Object as if an upload event had named it.
func RunIntake(cfg *IntakeConfig) error {
	if cfg == nil {
		return errors.New("nil pointer to intake config supplied")
	}
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	obj, err := s3.ParseURL(cfg.Object)
	if err != nil {
		return err
	}
	log := logger.NewLogger(c.AppName, cfg.LogLevel, cfg.StackDumpOnPanic)
	v, err := NewIntakeValidator(log)
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	d := v.Process(ctx, intake.Event{Bucket: obj.Bucket, Name: obj.Key})
	if d == nil {
		log.Info("Event ignored for ", obj)
		return nil
	}
	return printOutput(os.Stdout, cfg.Output, d)
}

type DeadLettersConfig struct {
	LogLevel string `errorTxt:"log level" mandatory:"yes"`
	Output   string
}

// RunListDeadLetters prints the files that intake has rejected into the dead-letter bucket.
func RunListDeadLetters(cfg *DeadLettersConfig) error {
	if cfg == nil {
		return errors.New("nil pointer to dead-letters config supplied")
	}
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	log := logger.NewLogger(c.AppName, cfg.LogLevel, false)
	settings := config.LoadIntakeSettings()
	store, err := s3.NewBasicClient(settings.Region)
	if err != nil {
		return errors.Wrap(err, "unable to create S3 client")
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	return listDeadLetters(ctx, log, os.Stdout, store, settings.DeadLetterBucket, cfg.Output)
}

func listDeadLetters(ctx context.Context, log logger.Logger, w io.Writer, lister s3.Lister, bucket string, output string) error {
	keys, err := intake.ListDeadLetters(ctx, lister, bucket)
	if err != nil {
		return errors.Wrap(err, "unable to list dead letters")
	}
	log.Info("Found ", len(keys), " dead letters in bucket ", bucket)
	return printOutput(w, output, keys)
}

// GetIntakeLambdaHandler returns a Lambda handler for S3 notifications.
// Decisions are terminal so the handler never asks Lambda to retry.
func GetIntakeLambdaHandler(log logger.Logger, v EventProcessor) func(ctx context.Context, ev events.S3Event) error {
	return func(ctx context.Context, ev events.S3Event) error {
		for _, rec := range ev.Records {
			key, err := url.QueryUnescape(rec.S3.Object.Key)
			if err != nil {
				log.Warn("Unable to decode object key ", rec.S3.Object.Key, ": ", err)
				key = rec.S3.Object.Key
			}
			if d := v.Process(ctx, intake.Event{Bucket: rec.S3.Bucket.Name, Name: key}); d != nil {
				log.Info("Intake decision for ", key, ": ", d.Outcome)
			}
		}
		return nil
	}
}
