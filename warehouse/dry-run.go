package warehouse

import (
	"context"

	"github.com/relloyd/stagehand/logger"
)

// dryRunClient passes reads through to the wrapped client and logs writes instead of running them.
type dryRunClient struct {
	Client
	log logger.Logger
}

// NewDryRunClient wraps c so that dataset creation, copies and statements are only logged.
func NewDryRunClient(log logger.Logger, c Client) Client {
	return &dryRunClient{Client: c, log: log.WithField("dryRun", true)}
}

func (d *dryRunClient) CreateDataset(ctx context.Context, ref DatasetRef, md DatasetMetadata) error {
	d.log.Info("Would create dataset ", ref, " in location '", md.Location, "'")
	return nil
}

func (d *dryRunClient) CopyTable(ctx context.Context, src TableRef, dst TableRef) error {
	d.log.Info("Would copy table ", src, " to ", dst)
	return nil
}

func (d *dryRunClient) Exec(ctx context.Context, stmt Statement) error {
	d.log.Info("Would execute statement in ", stmt.DefaultDataset, ": ", stmt.SQL)
	return nil
}
