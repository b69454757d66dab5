package replication

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/relloyd/stagehand/logger"
	"github.com/relloyd/stagehand/stats"
	"github.com/relloyd/stagehand/warehouse"
	"github.com/rs/xid"
)

type Step string

const (
	StepAuthenticate  Step = "authenticate"
	StepEnsureDataset Step = "ensure-dataset"
	StepListTables    Step = "list-tables"
	StepCopyTables    Step = "copy-tables"
)

// ErrNoTables is reported when the source dataset holds no native tables.
var ErrNoTables = errors.New("no tables to copy")

// Job describes one replication from a source dataset to a destination dataset.
type Job struct {
	Name            string
	Source          warehouse.DatasetRef
	Dest            warehouse.DatasetRef
	DefaultLocation string // used for a new destination when the source location is unknown
}

// Redactor applies redaction rules to a copied table.
type Redactor interface {
	Apply(ctx context.Context, dest warehouse.TableRef) (applied int, err error)
}

type TableOutcome struct {
	Table        string  `json:"table"`
	Copied       bool    `json:"copied"`
	Redacted     bool    `json:"redacted"`
	RulesApplied int     `json:"rulesApplied"`
	Rows         *uint64 `json:"rows,omitempty"`
	Error        string  `json:"error,omitempty"`
}

// Succeeded is true when the table was copied and redacted.
func (t TableOutcome) Succeeded() bool {
	return t.Copied && t.Redacted
}

// Report is the result of one run. Success is true only when every enumerated table succeeded.
type Report struct {
	RunID      string         `json:"runId"`
	Job        string         `json:"job"`
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
	Tables     []TableOutcome `json:"tables"`
	Succeeded  int            `json:"succeeded"`
	Total      int            `json:"total"`
	Success    bool           `json:"success"`
	FailedStep Step           `json:"failedStep,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// Summary returns "<succeeded>/<total>".
func (r *Report) Summary() string {
	return fmt.Sprintf("%v/%v", r.Succeeded, r.Total)
}

type Orchestrator struct {
	log      logger.Logger
	job      Job
	source   warehouse.Client
	dest     warehouse.Client
	redactor Redactor
	clock    clockwork.Clock
}

type Option func(o *Orchestrator)

func WithClock(clock clockwork.Clock) Option {
	return func(o *Orchestrator) {
		o.clock = clock
	}
}

// NewOrchestrator returns an orchestrator for job. The source client lists tables and looks up
// the source dataset; everything else runs through the destination client.
// A nil redactor leaves copies as they are.
func NewOrchestrator(log logger.Logger, job Job, source, dest warehouse.Client, redactor Redactor, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		log:      log,
		job:      job,
		source:   source,
		dest:     dest,
		redactor: redactor,
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes the steps in order. Authentication, dataset and listing failures end the run.
// Table failures are recorded and the remaining tables are still processed.
func (o *Orchestrator) Run(ctx context.Context) *Report {
	r := &Report{RunID: xid.New().String(), Job: o.job.Name, StartedAt: o.clock.Now(), Tables: make([]TableOutcome, 0)}
	log := o.log.WithField("runId", r.RunID)
	log.Info("Starting dataset transfer: ", o.job.Name)
	defer func() {
		r.FinishedAt = o.clock.Now()
		stats.ObserveReplicationRun(o.job.Name, stats.Status(r.Success), r.FinishedAt.Sub(r.StartedAt))
	}()
	if err := o.authenticate(ctx, log); err != nil {
		return r.fail(log, StepAuthenticate, err)
	}
	if err := o.ensureDestDataset(ctx, log); err != nil {
		return r.fail(log, StepEnsureDataset, err)
	}
	tables, err := o.listTables(ctx, log)
	if err != nil {
		return r.fail(log, StepListTables, err)
	}
	r.Total = len(tables)
	for _, t := range tables {
		out := o.processTable(ctx, log, t)
		if out.Succeeded() {
			r.Succeeded++
		}
		stats.IncReplicationTable(o.job.Name, stats.Status(out.Succeeded()))
		r.Tables = append(r.Tables, out)
	}
	r.Success = r.Succeeded == r.Total
	if r.Success {
		log.Info("Dataset transfer completed successfully: ", r.Summary(), " tables")
	} else {
		r.FailedStep = StepCopyTables
		log.Error("Dataset transfer completed with failures: ", r.Summary(), " tables")
	}
	return r
}

func (r *Report) fail(log logger.Logger, step Step, err error) *Report {
	r.FailedStep = step
	r.Error = err.Error()
	log.Error("Dataset transfer failed at step ", step, ": ", err)
	return r
}

func (o *Orchestrator) authenticate(ctx context.Context, log logger.Logger) error {
	if err := o.source.Ping(ctx, o.job.Source.Project); err != nil {
		return errors.Wrapf(err, "source project %v", o.job.Source.Project)
	}
	log.Info("Source project access validated: ", o.job.Source.Project)
	if err := o.dest.Ping(ctx, o.job.Dest.Project); err != nil {
		return errors.Wrapf(err, "destination project %v", o.job.Dest.Project)
	}
	log.Info("Destination project access validated: ", o.job.Dest.Project)
	return nil
}

func (o *Orchestrator) ensureDestDataset(ctx context.Context, log logger.Logger) error {
	md, err := o.dest.GetDataset(ctx, o.job.Dest)
	if err == nil {
		log.Info("Destination dataset ", o.job.Dest, " already exists (Location: ", md.Location, ")")
		return nil
	}
	if !errors.Is(err, warehouse.ErrNotFound) {
		return errors.Wrapf(err, "error checking for dataset %v", o.job.Dest)
	}
	log.Info("Destination dataset ", o.job.Dest, " not found. Creating it...")
	location := o.job.DefaultLocation
	src, err := o.source.GetDataset(ctx, o.job.Source)
	switch {
	case err == nil:
		location = src.Location
		log.Info("Setting location to match source: ", location)
	case errors.Is(err, warehouse.ErrNotFound):
		log.Warn("Source dataset location not found. Using default location.")
	default:
		log.Warn("Could not determine source location: ", err, ". Using default location.")
	}
	if err = o.dest.CreateDataset(ctx, o.job.Dest, warehouse.DatasetMetadata{Location: location}); err != nil {
		return errors.Wrapf(err, "failed to create dataset %v", o.job.Dest)
	}
	log.Info("Created destination dataset ", o.job.Dest)
	return nil
}

// listTables returns the native tables of the source dataset in listing order.
func (o *Orchestrator) listTables(ctx context.Context, log logger.Logger) ([]string, error) {
	all, err := o.source.ListTables(ctx, o.job.Source)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get tables in %v", o.job.Source)
	}
	tables := make([]string, 0, len(all))
	for _, t := range all {
		if t.Type != warehouse.TableTypeNative {
			log.Debug("Skipping ", t.Type, " ", t.Name)
			continue
		}
		tables = append(tables, t.Name)
	}
	log.Info("Found ", len(tables), " tables to copy: ", tables)
	if len(tables) == 0 {
		return nil, ErrNoTables
	}
	return tables, nil
}

func (o *Orchestrator) processTable(ctx context.Context, log logger.Logger, table string) TableOutcome {
	out := TableOutcome{Table: table}
	src := o.job.Source.Table(table)
	dst := o.job.Dest.Table(table)
	log.Info("Copying table: ", src, " -> ", dst)
	if err := o.dest.CopyTable(ctx, src, dst); err != nil {
		log.Error("Failed to copy table ", table, ": ", err)
		out.Error = err.Error()
		return out
	}
	out.Copied = true
	if md, err := o.dest.TableMetadata(ctx, dst); err == nil {
		rows := md.NumRows
		out.Rows = &rows
		log.Info("Successfully copied table: ", table, " (", rows, " rows)")
	} else {
		log.Info("Successfully copied table: ", table)
	}
	if o.redactor == nil {
		out.Redacted = true
		return out
	}
	n, err := o.redactor.Apply(ctx, dst)
	out.RulesApplied = n
	if err != nil {
		log.Error("Failed to apply redaction to ", table, ": ", err)
		out.Error = err.Error()
		return out
	}
	out.Redacted = true
	return out
}
