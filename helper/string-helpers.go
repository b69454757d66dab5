package helper

import (
	"encoding/csv"
	"path"
	"strings"
)

// CsvToStringSliceTrimSpaces converts a string of the form, 'f1, f2, f3, ...' into a slice of string values.
// Empty values are dropped.
func CsvToStringSliceTrimSpaces(s string) (retval []string) {
	c := csv.NewReader(strings.NewReader(s))
	all, _ := c.ReadAll()
	for _, rec := range all { // for each line in the CSV...
		for _, val := range rec {
			if v := strings.TrimSpace(val); v != "" {
				retval = append(retval, v)
			}
		}
	}
	return
}

// ParseBool treats anything other than an empty string, "0", "false" or "no" as true,
// so that flags supplied as environment variables can be switched on with any value.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "no":
		return false
	}
	return true
}

// EnsureTrailingSlash returns s with exactly one trailing slash.
func EnsureTrailingSlash(s string) string {
	return strings.TrimRight(s, "/") + "/"
}

// BaseNameWithoutExt strips directories and the final extension from an object name,
// e.g. 'in/raw_orders.csv' gives 'raw_orders'.
// Leading dots are not treated as extensions, so '.hidden' stays as it is.
func BaseNameWithoutExt(name string) string {
	base := path.Base(name)
	trimmed := strings.TrimLeft(base, ".")
	ext := path.Ext(trimmed)
	return strings.TrimSuffix(base, ext)
}
