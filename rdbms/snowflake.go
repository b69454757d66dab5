package rdbms

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/relloyd/stagehand/logger"
	"github.com/relloyd/stagehand/warehouse"
	sf "github.com/snowflakedb/gosnowflake"
)

const snowflakeDsnPrefix = "snowflake://"

type SnowflakeConnectionDetails struct {
	Account   string `errorTxt:"Snowflake account" mandatory:"yes"`
	DBName    string `errorTxt:"Snowflake db name"`
	Schema    string `errorTxt:"Snowflake schema"`
	User      string `errorTxt:"Snowflake username" mandatory:"yes"`
	Password  string `errorTxt:"Snowflake password" mandatory:"yes"`
	Warehouse string `errorTxt:"Snowflake warehouse"`
	RoleName  string `errorTxt:"Snowflake role name"`
}

// String returns the connection details with the password masked.
func (d SnowflakeConnectionDetails) String() string {
	return fmt.Sprintf("%v:%v@%v/%v?schema=%v&warehouse=%v&role=%v",
		d.User,
		"xxxxxxx",
		d.Account,
		d.DBName,
		d.Schema,
		d.Warehouse,
		d.RoleName,
	)
}

// SnowflakeGetDSN constructs a DSN based on SnowflakeConnectionDetails.
// The prefix 'snowflake://' is added to the DSN.
func SnowflakeGetDSN(c *SnowflakeConnectionDetails) (string, error) {
	cfg := &sf.Config{
		Account:   c.Account,
		Database:  c.DBName,
		Schema:    c.Schema,
		User:      c.User,
		Password:  c.Password,
		Warehouse: c.Warehouse,
		Role:      c.RoleName,
	}
	dsn, err := sf.DSN(cfg)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(dsn, snowflakeDsnPrefix) { // if the prefix is missing...
		dsn = snowflakeDsnPrefix + dsn
	}
	return dsn, nil
}

// SnowflakeParseDSN converts a Snowflake DSN into native connection details.
// The prefix 'snowflake://' is optional.
func SnowflakeParseDSN(d string) (*SnowflakeConnectionDetails, error) {
	cfg, err := sf.ParseDSN(strings.TrimPrefix(d, snowflakeDsnPrefix))
	if err != nil {
		return nil, errors.Wrap(err, "unsupported Snowflake DSN format")
	}
	retval := &SnowflakeConnectionDetails{
		User:      cfg.User,
		Password:  cfg.Password,
		Schema:    cfg.Schema,
		DBName:    cfg.Database,
		Account:   cfg.Account,
		RoleName:  cfg.Role,
		Warehouse: cfg.Warehouse,
	}
	if cfg.Region != "" && !strings.Contains(retval.Account, ".") { // if region exists in the parsed config...
		retval.Account = fmt.Sprintf("%v.%v", retval.Account, cfg.Region)
	}
	return retval, nil
}

// SnowflakeClient implements warehouse.Client for Snowflake.
// Projects map to databases and datasets map to schemas.
type SnowflakeClient struct {
	log logger.Logger
	db  *sql.DB
}

// NewSnowflakeClient opens and pings the Snowflake database specified by dsn.
func NewSnowflakeClient(ctx context.Context, log logger.Logger, dsn string) (*SnowflakeClient, error) {
	details, err := SnowflakeParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("snowflake", strings.TrimPrefix(dsn, snowflakeDsnPrefix))
	if err != nil {
		return nil, errors.Wrapf(err, "error opening Snowflake connection %v", details)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "error connecting to Snowflake %v", details)
	}
	log.Info("Successful database connection to Snowflake.")
	return &SnowflakeClient{log: log, db: db}, nil
}

func (c *SnowflakeClient) Ping(ctx context.Context, project string) error {
	q := fmt.Sprintf("SELECT SCHEMA_NAME FROM %v.INFORMATION_SCHEMA.SCHEMATA LIMIT 1", QuoteIdentifier(project))
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return errors.Wrapf(err, "unable to list schemas in database %v", project)
	}
	defer rows.Close()
	for rows.Next() {
	}
	return rows.Err()
}

func (c *SnowflakeClient) GetDataset(ctx context.Context, ref warehouse.DatasetRef) (*warehouse.DatasetMetadata, error) {
	q := fmt.Sprintf("SELECT SCHEMA_NAME FROM %v.INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?", QuoteIdentifier(ref.Project))
	var name string
	err := c.db.QueryRowContext(ctx, q, IdentifierValue(ref.Dataset)).Scan(&name)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(warehouse.ErrNotFound, "schema %v", ref)
	} else if err != nil {
		return nil, errors.Wrapf(err, "error fetching schema %v", ref)
	}
	return &warehouse.DatasetMetadata{}, nil // schemas have no location of their own
}

func (c *SnowflakeClient) CreateDataset(ctx context.Context, ref warehouse.DatasetRef, md warehouse.DatasetMetadata) error {
	if md.Location != "" {
		c.log.Debug("Ignoring location ", md.Location, " for Snowflake schema ", ref)
	}
	_, err := c.db.ExecContext(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %v", NewSchemaTable(ref, "")))
	return errors.Wrapf(err, "error creating schema %v", ref)
}

func (c *SnowflakeClient) ListTables(ctx context.Context, ref warehouse.DatasetRef) ([]warehouse.TableInfo, error) {
	q := fmt.Sprintf("SELECT TABLE_NAME, TABLE_TYPE FROM %v.INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = ? ORDER BY TABLE_NAME",
		QuoteIdentifier(ref.Project))
	rows, err := c.db.QueryContext(ctx, q, IdentifierValue(ref.Dataset))
	if err != nil {
		return nil, errors.Wrapf(err, "error listing tables in %v", ref)
	}
	defer rows.Close()
	retval := make([]warehouse.TableInfo, 0)
	for rows.Next() {
		var name, typ string
		if err := rows.Scan(&name, &typ); err != nil {
			return nil, errors.Wrapf(err, "error reading tables in %v", ref)
		}
		retval = append(retval, warehouse.TableInfo{Name: name, Type: snowflakeTableType(typ)})
	}
	return retval, errors.Wrapf(rows.Err(), "error listing tables in %v", ref)
}

// CopyTable replaces dst with a zero-copy clone of src.
func (c *SnowflakeClient) CopyTable(ctx context.Context, src warehouse.TableRef, dst warehouse.TableRef) error {
	q := fmt.Sprintf("CREATE OR REPLACE TABLE %v CLONE %v", NewSchemaTable(dst.DatasetRef, dst.Table), NewSchemaTable(src.DatasetRef, src.Table))
	c.log.Debug(q)
	_, err := c.db.ExecContext(ctx, q)
	return errors.Wrapf(err, "error copying %v to %v", src, dst)
}

func (c *SnowflakeClient) TableMetadata(ctx context.Context, ref warehouse.TableRef) (*warehouse.TableMetadata, error) {
	q := fmt.Sprintf("SELECT TABLE_TYPE, COALESCE(ROW_COUNT, 0) FROM %v.INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?",
		QuoteIdentifier(ref.Project))
	var typ string
	var numRows uint64
	err := c.db.QueryRowContext(ctx, q, IdentifierValue(ref.Dataset), IdentifierValue(ref.Table)).Scan(&typ, &numRows)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(warehouse.ErrNotFound, "table %v", ref)
	} else if err != nil {
		return nil, errors.Wrapf(err, "error fetching metadata for table %v", ref)
	}
	return &warehouse.TableMetadata{Type: snowflakeTableType(typ), NumRows: numRows}, nil
}

// Exec runs stmt on a single session whose current schema is the statement's default dataset.
func (c *SnowflakeClient) Exec(ctx context.Context, stmt warehouse.Statement) error {
	conn, err := c.db.Conn(ctx)
	if err != nil {
		return errors.Wrap(err, "error fetching Snowflake session")
	}
	defer conn.Close()
	if _, err = conn.ExecContext(ctx, fmt.Sprintf("USE SCHEMA %v", NewSchemaTable(stmt.DefaultDataset, ""))); err != nil {
		return errors.Wrapf(err, "error using schema %v", stmt.DefaultDataset)
	}
	_, err = conn.ExecContext(ctx, stmt.SQL)
	return errors.Wrap(err, "error running statement")
}

func (c *SnowflakeClient) Close() error {
	return c.db.Close()
}

func snowflakeTableType(t string) warehouse.TableType {
	switch strings.ToUpper(t) {
	case "BASE TABLE":
		return warehouse.TableTypeNative
	case "VIEW", "MATERIALIZED VIEW":
		return warehouse.TableTypeView
	case "EXTERNAL TABLE":
		return warehouse.TableTypeExternal
	default:
		return warehouse.TableTypeOther
	}
}
