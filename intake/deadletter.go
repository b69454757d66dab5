package intake

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/relloyd/stagehand/aws/s3"
	c "github.com/relloyd/stagehand/constants"
	"github.com/relloyd/stagehand/logger"
	"github.com/relloyd/stagehand/stats"
)

// DeadLetterRouter copies rejected objects into the dead-letter bucket.
type DeadLetterRouter struct {
	log    logger.Logger
	copier s3.Copier
	bucket string
	clock  clockwork.Clock
}

// NewDeadLetterRouter returns a router for bucket. An empty bucket disables copying.
func NewDeadLetterRouter(log logger.Logger, copier s3.Copier, bucket string, clock clockwork.Clock) *DeadLetterRouter {
	return &DeadLetterRouter{log: log, copier: copier, bucket: bucket, clock: clock}
}

// DeadLetterKey returns error/<UTC yyyyMMddHHmmss>_<object>.
func (r *DeadLetterRouter) DeadLetterKey(object string) string {
	return fmt.Sprintf("%v%v_%v", c.DeadLetterFolder, r.clock.Now().UTC().Format(c.TimeFormatDeadLetter), object)
}

// Route copies sourceBucket/sourceObject to the dead-letter bucket.
// Routing is best effort: failures are logged at critical severity and reflected in Decision.Routed.
func (r *DeadLetterRouter) Route(ctx context.Context, sourceBucket, sourceObject, reason string) *Decision {
	d := &Decision{
		Outcome:      OutcomeDeadLettered,
		SourceBucket: sourceBucket,
		SourceObject: sourceObject,
		Reason:       reason,
	}
	r.log.Error("DEAD LETTER: File ", sourceObject, " failed processing. Reason: ", reason)
	if r.bucket == "" {
		r.log.Critical("DEAD_LETTER_BUCKET is not set. Cannot move file ", sourceObject)
		stats.IncDeadLetterRoutingFailure("unset")
		return d
	}
	key := r.DeadLetterKey(sourceObject)
	d.DestinationBucket = r.bucket
	d.DestinationObject = key
	if err := r.copier.Copy(ctx, sourceBucket, sourceObject, r.bucket, key); err != nil {
		r.log.Critical("Failed to move file to dead-letter bucket ", r.bucket, ". Error: ", err)
		stats.IncDeadLetterRoutingFailure("copy")
		return d
	}
	d.Routed = true
	r.log.Info("File moved to dead letter: s3://", r.bucket, "/", key)
	return d
}

// ListDeadLetters returns the keys of files previously rejected into bucket.
func ListDeadLetters(ctx context.Context, lister s3.Lister, bucket string) ([]string, error) {
	if bucket == "" {
		return nil, fmt.Errorf("%v is not set", c.EnvVarDeadLetterBucket)
	}
	return lister.List(ctx, bucket, c.DeadLetterFolder)
}
