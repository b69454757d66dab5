//go:generate mockgen -package mocks -destination mocks/interface.go -source=interface.go
package s3

import (
	"context"
	"errors"
	"io"
)

var ErrKeyNotFound = errors.New("key not found")

type BasicClient interface {
	Lister
	Getter
	Downloader
	Copier
}

type Lister interface {
	List(ctx context.Context, bucket, prefix string) (keys []string, err error)
}

type Getter interface {
	// Get returns ErrKeyNotFound if the given key doesn't exist.
	Get(ctx context.Context, bucket, key string) (data []byte, err error)
}

// Downloader streams an object into w.
type Downloader interface {
	// Download returns ErrKeyNotFound if the given key doesn't exist.
	Download(ctx context.Context, bucket, key string, w io.Writer) error
}

// Copier copies an object server-side, possibly across buckets.
type Copier interface {
	// Copy returns ErrKeyNotFound if the src key doesn't exist.
	Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error
}
