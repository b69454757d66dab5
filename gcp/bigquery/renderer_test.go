package bigquery

import (
	"errors"
	"strings"
	"testing"

	"github.com/relloyd/stagehand/redact"
	"github.com/relloyd/stagehand/warehouse"
)

var (
	mockSource = warehouse.TableRef{DatasetRef: warehouse.DatasetRef{Project: "src-project", Dataset: "dts_01"}, Table: "stg_crimes"}
	mockDest   = warehouse.TableRef{DatasetRef: warehouse.DatasetRef{Project: "dest-project", Dataset: "dev_dts"}, Table: "stg_crimes"}
)

func TestRendererTargetsDestination(t *testing.T) {
	for _, tactic := range redact.Tactics {
		sql, err := Renderer{}.Render(tactic, mockDest, "latitude")
		if err != nil {
			t.Fatalf("unexpected error rendering %v: %v", tactic, err)
		}
		if !strings.HasPrefix(sql, "UPDATE `dest-project.dev_dts.stg_crimes`") {
			t.Fatalf("expected %v statement to update the destination table; got: %v", tactic, sql)
		}
		if strings.Contains(sql, mockSource.Project) || strings.Contains(sql, mockSource.Dataset) {
			t.Fatalf("%v statement must not reference the source: %v", tactic, sql)
		}
	}
}

func TestRendererNotNullGuard(t *testing.T) {
	cases := map[redact.Tactic]bool{
		redact.TacticRedact:          false,
		redact.TacticFingerprintHash: false,
		redact.TacticMask:            true,
		redact.TacticHash:            true,
	}
	for tactic, guarded := range cases {
		sql, _ := Renderer{}.Render(tactic, mockDest, "latitude")
		if got := strings.Contains(sql, "WHERE `latitude` IS NOT NULL"); got != guarded {
			t.Fatalf("%v: expected not-null guard = %v; got statement: %v", tactic, guarded, sql)
		}
		if !guarded && !strings.HasSuffix(sql, "WHERE TRUE") {
			t.Fatalf("%v: expected unconditional update; got statement: %v", tactic, sql)
		}
	}
}

func TestRendererExpressions(t *testing.T) {
	expected := map[redact.Tactic]string{
		redact.TacticRedact:          "SET `latitude` = NULL",
		redact.TacticFingerprintHash: "FARM_FINGERPRINT(CAST(T.`latitude` AS STRING))",
		redact.TacticMask:            "CONCAT('****', SUBSTR(CAST(`latitude` AS STRING), -4))",
		redact.TacticHash:            "TO_HEX(SHA256(CAST(`latitude` AS BYTES)))",
	}
	for tactic, fragment := range expected {
		sql, _ := Renderer{}.Render(tactic, mockDest, "latitude")
		if !strings.Contains(sql, fragment) {
			t.Fatalf("%v: expected statement to contain %q; got: %v", tactic, fragment, sql)
		}
	}
}

func TestRendererUnknownTactic(t *testing.T) {
	_, err := Renderer{}.Render("scramble", mockDest, "latitude")
	if !errors.Is(err, redact.ErrUnknownTactic) {
		t.Fatalf("expected ErrUnknownTactic; got %v", err)
	}
}

func TestRendererQuotesReservedColumns(t *testing.T) {
	for _, tactic := range redact.Tactics {
		sql, err := Renderer{}.Render(tactic, mockDest, "from")
		if err != nil {
			t.Fatalf("unexpected error rendering %v: %v", tactic, err)
		}
		if strings.Contains(sql, " from ") || !strings.Contains(sql, "`from`") {
			t.Fatalf("%v: expected column to be quoted; got: %v", tactic, sql)
		}
	}
}

func TestQuoteIdentifier(t *testing.T) {
	cases := map[string]string{
		"latitude": "`latitude`",
		"from":     "`from`",
		"a`b":      "`a\\`b`",
		`a\b`:      "`a\\\\b`",
	}
	for in, expected := range cases {
		if got := QuoteIdentifier(in); got != expected {
			t.Fatalf("QuoteIdentifier(%q): expected %v; got %v", in, expected, got)
		}
	}
}
