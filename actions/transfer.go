package actions

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/pkg/errors"
	"github.com/relloyd/stagehand/config"
	c "github.com/relloyd/stagehand/constants"
	"github.com/relloyd/stagehand/gcp/bigquery"
	"github.com/relloyd/stagehand/helper"
	"github.com/relloyd/stagehand/logger"
	"github.com/relloyd/stagehand/rdbms"
	"github.com/relloyd/stagehand/redact"
	"github.com/relloyd/stagehand/replication"
	"github.com/relloyd/stagehand/warehouse"
)

// ErrTransferFailed is returned by RunTransfer when any step or table failed.
var ErrTransferFailed = errors.New("dataset transfer failed")

type TransferConfig struct {
	LogLevel         string `errorTxt:"log level" mandatory:"yes"`
	Environment      string `errorTxt:"environment" mandatory:"yes"`
	DryRun           bool
	Output           string
	StackDumpOnPanic bool
}

// Warehouses holds the clients for one environment.
// Source and Dest may be the same client, e.g. for Snowflake where one connection sees both databases.
type Warehouses struct {
	Source   warehouse.Client
	Dest     warehouse.Client
	Renderer redact.Renderer
}

// Close closes the clients, once each.
func (w *Warehouses) Close() {
	if w.Dest != nil {
		_ = w.Dest.Close()
	}
	if w.Source != nil && w.Source != w.Dest {
		_ = w.Source.Close()
	}
}

// WarehouseFactory opens the warehouse clients for an environment.
type WarehouseFactory func(ctx context.Context, log logger.Logger, env config.Environment) (*Warehouses, error)

// NewWarehouses opens BigQuery clients bound to the source and destination projects, or a single
// Snowflake connection, depending on env.Warehouse.
func NewWarehouses(ctx context.Context, log logger.Logger, env config.Environment) (*Warehouses, error) {
	switch strings.ToLower(env.Warehouse) {
	case c.WarehouseBigQuery:
		src, err := bigquery.NewClient(ctx, log, env.SourceProject)
		if err != nil {
			return nil, err
		}
		dst, err := bigquery.NewClient(ctx, log, env.DestProject)
		if err != nil {
			_ = src.Close()
			return nil, err
		}
		return &Warehouses{Source: src, Dest: dst, Renderer: bigquery.Renderer{}}, nil
	case c.WarehouseSnowflake:
		sf, err := rdbms.NewSnowflakeClient(ctx, log, env.Dsn)
		if err != nil {
			return nil, err
		}
		return &Warehouses{Source: sf, Dest: sf, Renderer: rdbms.SnowflakeRenderer{}}, nil
	}
	return nil, fmt.Errorf("unsupported warehouse %q", env.Warehouse)
}

// Transferrer runs the replication job for an environment tag.
type Transferrer struct {
	log       logger.Logger
	factory   WarehouseFactory
	overrides config.Getter
	dryRun    bool
}

func NewTransferrer(log logger.Logger, factory WarehouseFactory, overrides config.Getter, dryRun bool) *Transferrer {
	return &Transferrer{log: log, factory: factory, overrides: overrides, dryRun: dryRun}
}

// Transfer resolves the environment and runs the job to completion.
// An error is returned only when the run could not start, e.g. for an unknown environment.
// Failures during the run are described by the report.
func (t *Transferrer) Transfer(ctx context.Context, envName string) (*replication.Report, error) {
	env, err := config.LoadEnvironment(envName, t.overrides)
	if err != nil {
		return nil, err
	}
	log := t.log.WithField("environment", env.Name)
	log.Info("Using ", strings.ToUpper(env.Name), " environment configuration")
	wh, err := t.factory(ctx, log, env)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to connect to %v", env.Warehouse)
	}
	defer wh.Close()
	dest := wh.Dest
	if t.dryRun {
		dest = warehouse.NewDryRunClient(log, dest)
	}
	engine := redact.NewEngine(log, redact.ParseRules(log, env.SensitiveColumns), wh.Renderer, dest)
	log.Info("Loaded ", len(engine.Rules()), " of ", len(env.SensitiveColumns), " redaction rules")
	job := replication.Job{
		Name:            env.Name,
		Source:          warehouse.DatasetRef{Project: env.SourceProject, Dataset: env.SourceDataset},
		Dest:            warehouse.DatasetRef{Project: env.DestProject, Dataset: env.DestDataset},
		DefaultLocation: env.Location,
	}
	return replication.NewOrchestrator(log, job, wh.Source, dest, engine).Run(ctx), nil
}

// RunTransfer runs one replication from the command line.
func RunTransfer(cfg *TransferConfig) error {
	if cfg == nil {
		return errors.New("nil pointer to transfer config supplied")
	}
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	if !config.IsValidEnvironment(cfg.Environment) { // check before any connection is made.
		return errors.Wrapf(config.ErrUnknownEnvironment, "%q (must be one of %v)", cfg.Environment, strings.Join(config.ValidEnvironments(), ", "))
	}
	log := logger.NewLogger(c.AppName, cfg.LogLevel, cfg.StackDumpOnPanic)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	t := NewTransferrer(log, NewWarehouses, config.Environments, cfg.DryRun)
	report, err := t.Transfer(ctx, cfg.Environment)
	if err != nil {
		return err
	}
	if err = printOutput(os.Stdout, cfg.Output, report); err != nil {
		return err
	}
	if !report.Success {
		log.Error("Dataset transfer failed!")
		return errors.Wrapf(ErrTransferFailed, "%v tables succeeded", report.Summary())
	}
	log.Info("Dataset transfer completed successfully!")
	return nil
}
