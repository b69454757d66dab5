package intake

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/charmap"
)

// EmptyFileError is returned when a file has no rows to count.
type EmptyFileError struct{}

func (e *EmptyFileError) Error() string {
	return "No columns to parse from file"
}

// ColumnCountError reports a first row whose field count differs from the config.
type ColumnCountError struct {
	Expected int
	Actual   int
}

func (e *ColumnCountError) Error() string {
	return fmt.Sprintf("Column count mismatch. Config expected %v, but file has %v.", e.Expected, e.Actual)
}

func (e *ColumnCountError) Reason() string {
	return e.Error()
}

// CountColumns returns the number of fields in the first non-blank row of a latin-1 CSV stream.
// No header row is assumed and later rows are not read.
func CountColumns(r io.Reader) (int, error) {
	cr := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rec, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return 0, &EmptyFileError{}
	} else if err != nil {
		return 0, err
	}
	return len(rec), nil
}
