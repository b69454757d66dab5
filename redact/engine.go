//go:generate mockgen -package mocks -destination mocks/engine.go -source=engine.go
package redact

import (
	"context"
	"errors"
	"fmt"

	"github.com/relloyd/stagehand/logger"
	"github.com/relloyd/stagehand/warehouse"
)

// ErrUnknownTactic is returned by a Renderer for tactics it cannot express.
var ErrUnknownTactic = errors.New("unknown tactic")

// Renderer produces the UPDATE statement text that applies a tactic to column of table.
type Renderer interface {
	Render(tactic Tactic, table warehouse.TableRef, column string) (string, error)
}

// Executor runs a statement and blocks until it completes.
type Executor interface {
	Exec(ctx context.Context, stmt warehouse.Statement) error
}

// Engine applies the rules that match a table to its destination copy.
type Engine struct {
	log      logger.Logger
	rules    []Rule
	renderer Renderer
	exec     Executor
}

func NewEngine(log logger.Logger, rules []Rule, renderer Renderer, exec Executor) *Engine {
	return &Engine{log: log, rules: rules, renderer: renderer, exec: exec}
}

// Rules returns the rules held by the engine.
func (e *Engine) Rules() []Rule {
	return e.rules
}

// Apply runs one statement per rule whose table equals dest.Table, in declared order.
// Unknown tactics are logged and skipped. The first failed statement stops the remaining
// rules for this table and is returned. It returns the number of statements applied.
func (e *Engine) Apply(ctx context.Context, dest warehouse.TableRef) (applied int, err error) {
	for _, r := range e.rules {
		if r.Table != dest.Table { // if the rule is for another table...
			continue
		}
		if !r.Tactic.IsKnown() {
			e.log.Warn("Unknown tactic: ", r.Tactic, ". Skipping ", r)
			continue
		}
		sql, err := e.renderer.Render(r.Tactic, dest, r.Column)
		if errors.Is(err, ErrUnknownTactic) {
			e.log.Warn("Tactic ", r.Tactic, " is not supported by this warehouse. Skipping ", r)
			continue
		} else if err != nil {
			return applied, err
		}
		e.log.Info("Applying ", r.Tactic, " to ", dest.Table, ".", r.Column)
		e.log.Debug(sql)
		if err := e.exec.Exec(ctx, warehouse.Statement{SQL: sql, DefaultDataset: dest.DatasetRef}); err != nil {
			return applied, fmt.Errorf("failed to apply %v to %v.%v: %w", r.Tactic, dest, r.Column, err)
		}
		applied++
	}
	if applied == 0 {
		e.log.Debug("No redaction needed for table: ", dest.Table)
	}
	return applied, nil
}
