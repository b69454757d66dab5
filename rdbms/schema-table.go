package rdbms

import (
	"regexp"
	"strings"

	"github.com/relloyd/stagehand/warehouse"
)

var reUnquotedIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)

// SchemaTable is a fully qualified <database>.<schema>[.<table>] name.
type SchemaTable struct {
	Database string
	Schema   string
	Table    string
}

// NewSchemaTable returns the name of table in dataset ref, or of the schema itself when table is empty.
func NewSchemaTable(ref warehouse.DatasetRef, table string) SchemaTable {
	return SchemaTable{Database: ref.Project, Schema: ref.Dataset, Table: table}
}

func (st SchemaTable) String() string {
	parts := []string{QuoteIdentifier(st.Database), QuoteIdentifier(st.Schema)}
	if st.Table != "" {
		parts = append(parts, QuoteIdentifier(st.Table))
	}
	return strings.Join(parts, ".")
}

// QuoteIdentifier leaves plain identifiers as they are, so Snowflake folds them to upper case,
// and double quotes anything else.
func QuoteIdentifier(s string) string {
	if isQuoted(s) || reUnquotedIdentifier.MatchString(s) {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// IdentifierValue returns s as it is stored in INFORMATION_SCHEMA.
func IdentifierValue(s string) string {
	if isQuoted(s) {
		return strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)
	}
	if reUnquotedIdentifier.MatchString(s) {
		return strings.ToUpper(s)
	}
	return s
}

func isQuoted(s string) bool {
	return len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`)
}
