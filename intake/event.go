package intake

import (
	"errors"
	"net/url"

	"github.com/tidwall/gjson"
)

var ErrInvalidEvent = errors.New("invalid event payload")

// Event names the object that triggered an intake run.
type Event struct {
	Bucket string `json:"bucket"`
	Name   string `json:"name"`
}

// ParseEvent accepts a plain {"bucket","name"} body, a CloudEvent with the same fields under
// "data", or an S3 notification whose first record names the object.
// Missing fields are left empty for the validator to filter.
func ParseEvent(body []byte) (Event, error) {
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return Event{}, ErrInvalidEvent
	}
	if rec := gjson.GetBytes(body, "Records.0.s3"); rec.Exists() {
		key := rec.Get("object.key").String()
		if k, err := url.QueryUnescape(key); err == nil { // notification keys are form encoded
			key = k
		}
		return Event{Bucket: rec.Get("bucket.name").String(), Name: key}, nil
	}
	if data := gjson.GetBytes(body, "data"); data.IsObject() {
		return Event{Bucket: data.Get("bucket").String(), Name: data.Get("name").String()}, nil
	}
	return Event{
		Bucket: gjson.GetBytes(body, "bucket").String(),
		Name:   gjson.GetBytes(body, "name").String(),
	}, nil
}
