package intake

import (
	"encoding/json"
	"fmt"
)

type Outcome int

const (
	OutcomeAccepted Outcome = iota
	OutcomeDeadLettered
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeDeadLettered:
		return "dead-lettered"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// Decision is the terminal state of one intake run.
// Routed is false when a dead-lettered object could not be copied to the dead-letter bucket.
type Decision struct {
	Outcome           Outcome `json:"outcome"`
	SourceBucket      string  `json:"sourceBucket"`
	SourceObject      string  `json:"sourceObject"`
	DestinationBucket string  `json:"destinationBucket,omitempty"`
	DestinationObject string  `json:"destinationObject,omitempty"`
	Reason            string  `json:"reason,omitempty"`
	Columns           int     `json:"columns,omitempty"`
	Routed            bool    `json:"routed"`
}
