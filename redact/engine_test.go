package redact_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/relloyd/stagehand/logger"
	"github.com/relloyd/stagehand/redact"
	"github.com/relloyd/stagehand/redact/mocks"
	"github.com/relloyd/stagehand/warehouse"
)

var dest = warehouse.TableRef{
	DatasetRef: warehouse.DatasetRef{Project: "dest-project", Dataset: "dev_dts"},
	Table:      "stg_crimes",
}

func mockRules() []redact.Rule {
	return []redact.Rule{
		{Dataset: "dts_01", Table: "stg_crimes", Column: "latitude", Tactic: redact.TacticRedact},
		{Dataset: "dts_01", Table: "stg_business_licenses", Column: "account_number", Tactic: redact.TacticHash},
		{Dataset: "dts_01", Table: "stg_crimes", Column: "block", Tactic: "scramble"},
		{Dataset: "dts_01", Table: "stg_crimes", Column: "location_description", Tactic: redact.TacticMask},
	}
}

func TestEngineAppliesMatchingRulesInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := logger.NewLogger("stagehand-test", "error", false)
	ctx := context.Background()
	r := mocks.NewMockRenderer(ctrl)
	x := mocks.NewMockExecutor(ctrl)
	gomock.InOrder(
		r.EXPECT().Render(redact.TacticRedact, dest, "latitude").Return("SQL1", nil),
		x.EXPECT().Exec(ctx, warehouse.Statement{SQL: "SQL1", DefaultDataset: dest.DatasetRef}).Return(nil),
		r.EXPECT().Render(redact.TacticMask, dest, "location_description").Return("SQL2", nil),
		x.EXPECT().Exec(ctx, warehouse.Statement{SQL: "SQL2", DefaultDataset: dest.DatasetRef}).Return(nil),
	)
	e := redact.NewEngine(log, mockRules(), r, x)
	applied, err := e.Apply(ctx, dest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied != 2 {
		t.Fatalf("expected 2 statements applied (unknown tactic skipped); got %v", applied)
	}
}

func TestEngineStopsOnStatementFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := logger.NewLogger("stagehand-test", "error", false)
	ctx := context.Background()
	r := mocks.NewMockRenderer(ctrl)
	x := mocks.NewMockExecutor(ctrl)
	boom := errors.New("boom")
	r.EXPECT().Render(redact.TacticRedact, dest, "latitude").Return("SQL1", nil)
	x.EXPECT().Exec(ctx, gomock.Any()).Return(boom)
	e := redact.NewEngine(log, mockRules(), r, x)
	applied, err := e.Apply(ctx, dest)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped statement error; got %v", err)
	}
	if applied != 0 {
		t.Fatalf("expected 0 statements applied; got %v", applied)
	}
}

func TestEngineSkipsTacticsTheRendererRejects(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := logger.NewLogger("stagehand-test", "error", false)
	ctx := context.Background()
	r := mocks.NewMockRenderer(ctrl)
	x := mocks.NewMockExecutor(ctrl)
	rules := []redact.Rule{{Dataset: "dts_01", Table: "stg_crimes", Column: "latitude", Tactic: redact.TacticFingerprintHash}}
	r.EXPECT().Render(redact.TacticFingerprintHash, dest, "latitude").Return("", redact.ErrUnknownTactic)
	x.EXPECT().Exec(gomock.Any(), gomock.Any()).Times(0)
	applied, err := redact.NewEngine(log, rules, r, x).Apply(ctx, dest)
	if err != nil || applied != 0 {
		t.Fatalf("expected skip without error; got %v, %v", applied, err)
	}
}

func TestEngineNoMatchingRules(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := logger.NewLogger("stagehand-test", "error", false)
	r := mocks.NewMockRenderer(ctrl)
	x := mocks.NewMockExecutor(ctrl)
	other := dest
	other.Table = "stg_other"
	applied, err := redact.NewEngine(log, mockRules(), r, x).Apply(context.Background(), other)
	if err != nil || applied != 0 {
		t.Fatalf("expected nothing applied; got %v, %v", applied, err)
	}
}

func TestEngineRulesFromPolicy(t *testing.T) {
	log := logger.NewLogger("stagehand-test", "error", false)
	entries := []string{
		"dts_01:stg_crimes.latitude.redact",
		"dts_01:stg_crimes.longitude",      // malformed
		"dts_01:stg_crimes.block.scramble", // unknown tactic is kept until Apply
	}
	e := redact.NewEngine(log, redact.ParseRules(log, entries), nil, nil)
	rules := e.Rules()
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules; got %v", rules)
	}
	if rules[0].Column != "latitude" || rules[1].Tactic != "scramble" {
		t.Fatalf("expected rules in declared order; got %v", rules)
	}
}
