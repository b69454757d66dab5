//go:generate mockgen -package mocks -destination mocks/warehouse.go -source=warehouse.go
package warehouse

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a dataset or table does not exist.
var ErrNotFound = errors.New("not found")

type TableType string

const (
	TableTypeNative   TableType = "TABLE"
	TableTypeView     TableType = "VIEW"
	TableTypeExternal TableType = "EXTERNAL"
	TableTypeOther    TableType = "OTHER"
)

// DatasetRef identifies a dataset (BigQuery) or schema (Snowflake) within a project (or database).
type DatasetRef struct {
	Project string `json:"project"`
	Dataset string `json:"dataset"`
}

func (d DatasetRef) String() string {
	return fmt.Sprintf("%v.%v", d.Project, d.Dataset)
}

// Table returns a reference to the named table in this dataset.
func (d DatasetRef) Table(name string) TableRef {
	return TableRef{DatasetRef: d, Table: name}
}

type TableRef struct {
	DatasetRef
	Table string `json:"table"`
}

func (t TableRef) String() string {
	return fmt.Sprintf("%v.%v.%v", t.Project, t.Dataset, t.Table)
}

type DatasetMetadata struct {
	Location string
}

type TableInfo struct {
	Name string
	Type TableType
}

type TableMetadata struct {
	Type    TableType
	NumRows uint64
}

// Statement is a SQL statement run with DefaultDataset as the session's default dataset.
type Statement struct {
	SQL            string
	DefaultDataset DatasetRef
}

// Client is the set of warehouse operations used by replication and redaction.
// Every call blocks until the underlying job has completed.
type Client interface {
	// Ping lists at most one dataset in project to prove read access.
	Ping(ctx context.Context, project string) error
	// GetDataset returns ErrNotFound if the dataset does not exist.
	GetDataset(ctx context.Context, ref DatasetRef) (*DatasetMetadata, error)
	CreateDataset(ctx context.Context, ref DatasetRef, md DatasetMetadata) error
	ListTables(ctx context.Context, ref DatasetRef) ([]TableInfo, error)
	// CopyTable fully replaces dst with the contents of src.
	CopyTable(ctx context.Context, src TableRef, dst TableRef) error
	// TableMetadata returns ErrNotFound if the table does not exist.
	TableMetadata(ctx context.Context, ref TableRef) (*TableMetadata, error)
	Exec(ctx context.Context, stmt Statement) error
	Close() error
}
