package bigquery

import (
	"fmt"
	"strings"

	"github.com/relloyd/stagehand/redact"
	"github.com/relloyd/stagehand/warehouse"
)

// Renderer renders redaction tactics as BigQuery DML.
type Renderer struct{}

func (Renderer) Render(tactic redact.Tactic, table warehouse.TableRef, column string) (string, error) {
	t := fmt.Sprintf("`%v`", table)
	col := QuoteIdentifier(column)
	switch tactic {
	case redact.TacticRedact:
		return fmt.Sprintf("UPDATE %v SET %v = NULL WHERE TRUE", t, col), nil
	case redact.TacticFingerprintHash:
		return fmt.Sprintf("UPDATE %v T SET %v = FARM_FINGERPRINT(CAST(T.%v AS STRING)) WHERE TRUE", t, col, col), nil
	case redact.TacticMask:
		return fmt.Sprintf(`UPDATE %v SET %v = CASE
  WHEN LENGTH(CAST(%v AS STRING)) > 4 THEN CONCAT('****', SUBSTR(CAST(%v AS STRING), -4))
  ELSE '****'
END
WHERE %v IS NOT NULL`, t, col, col, col, col), nil
	case redact.TacticHash:
		return fmt.Sprintf("UPDATE %v SET %v = TO_HEX(SHA256(CAST(%v AS BYTES))) WHERE %v IS NOT NULL", t, col, col, col), nil
	}
	return "", fmt.Errorf("%w: %v", redact.ErrUnknownTactic, tactic)
}

// QuoteIdentifier wraps name in backticks so reserved words such as `from` can be used as columns.
// Backticks and backslashes inside name are escaped.
func QuoteIdentifier(name string) string {
	r := strings.NewReplacer(`\`, `\\`, "`", "\\`")
	return "`" + r.Replace(name) + "`"
}
