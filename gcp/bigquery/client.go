package bigquery

import (
	"context"
	"net/http"

	bq "cloud.google.com/go/bigquery"
	"github.com/pkg/errors"
	"github.com/relloyd/stagehand/logger"
	"github.com/relloyd/stagehand/warehouse"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Client implements warehouse.Client for BigQuery.
// Jobs (copies and queries) run and are billed in the project the client was created for.
type Client struct {
	log     logger.Logger
	bq      *bq.Client
	project string
}

// NewClient creates a BigQuery client whose jobs run in project.
func NewClient(ctx context.Context, log logger.Logger, project string, opts ...option.ClientOption) (*Client, error) {
	c, err := bq.NewClient(ctx, project, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "error creating BigQuery client for project %v", project)
	}
	return &Client{log: log, bq: c, project: project}, nil
}

func (c *Client) Ping(ctx context.Context, project string) error {
	it := c.bq.Datasets(ctx)
	it.ProjectID = project
	it.PageInfo().MaxSize = 1
	_, err := it.Next()
	if err != nil && err != iterator.Done {
		return errors.Wrapf(err, "unable to list datasets in project %v", project)
	}
	return nil
}

func (c *Client) GetDataset(ctx context.Context, ref warehouse.DatasetRef) (*warehouse.DatasetMetadata, error) {
	md, err := c.bq.DatasetInProject(ref.Project, ref.Dataset).Metadata(ctx)
	if isNotFound(err) {
		return nil, errors.Wrapf(warehouse.ErrNotFound, "dataset %v", ref)
	} else if err != nil {
		return nil, errors.Wrapf(err, "error fetching dataset %v", ref)
	}
	return &warehouse.DatasetMetadata{Location: md.Location}, nil
}

func (c *Client) CreateDataset(ctx context.Context, ref warehouse.DatasetRef, md warehouse.DatasetMetadata) error {
	err := c.bq.DatasetInProject(ref.Project, ref.Dataset).Create(ctx, &bq.DatasetMetadata{Location: md.Location})
	return errors.Wrapf(err, "error creating dataset %v", ref)
}

func (c *Client) ListTables(ctx context.Context, ref warehouse.DatasetRef) ([]warehouse.TableInfo, error) {
	retval := make([]warehouse.TableInfo, 0)
	it := c.bq.DatasetInProject(ref.Project, ref.Dataset).Tables(ctx)
	for {
		t, err := it.Next()
		if err == iterator.Done {
			break
		} else if err != nil {
			return nil, errors.Wrapf(err, "error listing tables in %v", ref)
		}
		md, err := t.Metadata(ctx) // the listing does not carry the table type reliably
		if err != nil {
			return nil, errors.Wrapf(err, "error fetching metadata for table %v", t.FullyQualifiedName())
		}
		retval = append(retval, warehouse.TableInfo{Name: t.TableID, Type: tableType(md.Type)})
	}
	return retval, nil
}

func (c *Client) CopyTable(ctx context.Context, src warehouse.TableRef, dst warehouse.TableRef) error {
	c.log.Debug("Starting copy job in project ", c.project, ": ", src, " -> ", dst)
	copier := c.table(dst).CopierFrom(c.table(src))
	copier.WriteDisposition = bq.WriteTruncate
	job, err := copier.Run(ctx)
	if err != nil {
		return errors.Wrapf(err, "error starting copy of %v to %v", src, dst)
	}
	return errors.Wrapf(wait(ctx, job), "error copying %v to %v", src, dst)
}

func (c *Client) TableMetadata(ctx context.Context, ref warehouse.TableRef) (*warehouse.TableMetadata, error) {
	md, err := c.table(ref).Metadata(ctx)
	if isNotFound(err) {
		return nil, errors.Wrapf(warehouse.ErrNotFound, "table %v", ref)
	} else if err != nil {
		return nil, errors.Wrapf(err, "error fetching metadata for table %v", ref)
	}
	return &warehouse.TableMetadata{Type: tableType(md.Type), NumRows: md.NumRows}, nil
}

func (c *Client) Exec(ctx context.Context, stmt warehouse.Statement) error {
	c.log.Debug("Starting query job in project ", c.project, " with default dataset ", stmt.DefaultDataset)
	q := c.bq.Query(stmt.SQL)
	q.DefaultProjectID = stmt.DefaultDataset.Project
	q.DefaultDatasetID = stmt.DefaultDataset.Dataset
	job, err := q.Run(ctx)
	if err != nil {
		return errors.Wrap(err, "error starting query")
	}
	return errors.Wrap(wait(ctx, job), "error running query")
}

func (c *Client) Close() error {
	return c.bq.Close()
}

func (c *Client) table(ref warehouse.TableRef) *bq.Table {
	return c.bq.DatasetInProject(ref.Project, ref.Dataset).Table(ref.Table)
}

// wait blocks until job completes and returns its error, if any.
func wait(ctx context.Context, job *bq.Job) error {
	status, err := job.Wait(ctx)
	if err != nil {
		return err
	}
	return status.Err()
}

func isNotFound(err error) bool {
	var e *googleapi.Error
	return errors.As(err, &e) && e.Code == http.StatusNotFound
}

func tableType(t bq.TableType) warehouse.TableType {
	switch t {
	case bq.RegularTable:
		return warehouse.TableTypeNative
	case bq.ViewTable, bq.MaterializedView:
		return warehouse.TableTypeView
	case bq.ExternalTable:
		return warehouse.TableTypeExternal
	default:
		return warehouse.TableTypeOther
	}
}
