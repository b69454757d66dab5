package rdbms

import (
	"fmt"

	"github.com/relloyd/stagehand/redact"
	"github.com/relloyd/stagehand/warehouse"
)

// SnowflakeRenderer renders redaction tactics as Snowflake DML.
type SnowflakeRenderer struct{}

func (SnowflakeRenderer) Render(tactic redact.Tactic, table warehouse.TableRef, column string) (string, error) {
	t := NewSchemaTable(table.DatasetRef, table.Table)
	c := QuoteIdentifier(column)
	switch tactic {
	case redact.TacticRedact:
		return fmt.Sprintf("UPDATE %v SET %v = NULL WHERE TRUE", t, c), nil
	case redact.TacticFingerprintHash:
		return fmt.Sprintf("UPDATE %v SET %v = HASH(CAST(%v AS VARCHAR)) WHERE TRUE", t, c, c), nil
	case redact.TacticMask:
		return fmt.Sprintf(`UPDATE %v SET %v = CASE
  WHEN LENGTH(CAST(%v AS VARCHAR)) > 4 THEN CONCAT('****', RIGHT(CAST(%v AS VARCHAR), 4))
  ELSE '****'
END
WHERE %v IS NOT NULL`, t, c, c, c, c), nil
	case redact.TacticHash:
		return fmt.Sprintf("UPDATE %v SET %v = SHA2(CAST(%v AS VARCHAR), 256) WHERE %v IS NOT NULL", t, c, c, c), nil
	}
	return "", fmt.Errorf("%w: %v", redact.ErrUnknownTactic, tactic)
}
