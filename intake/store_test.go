package intake

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/relloyd/stagehand/aws/s3"
)

// memStore is an in-memory Store keyed by bucket then object name.
type memStore struct {
	mu       sync.Mutex
	objects  map[string]map[string][]byte
	copyErr  error
	getErr   error
	dlErr    error
	copies   int
	download []string
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string]map[string][]byte)}
}

func (m *memStore) put(bucket, key string, data string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects[bucket] == nil {
		m.objects[bucket] = make(map[string][]byte)
	}
	m.objects[bucket][key] = []byte(data)
}

func (m *memStore) get(bucket, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[bucket][key]
	return data, ok
}

func (m *memStore) keys(bucket string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	retval := make([]string, 0)
	for k := range m.objects[bucket] {
		retval = append(retval, k)
	}
	return retval
}

func (m *memStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	data, ok := m.get(bucket, key)
	if !ok {
		return nil, s3.ErrKeyNotFound
	}
	return data, nil
}

func (m *memStore) Download(ctx context.Context, bucket, key string, w io.Writer) error {
	if m.dlErr != nil {
		return m.dlErr
	}
	data, ok := m.get(bucket, key)
	if !ok {
		return s3.ErrKeyNotFound
	}
	m.download = append(m.download, key)
	_, err := io.Copy(w, bytes.NewReader(data))
	return err
}

func (m *memStore) Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	if m.copyErr != nil {
		return m.copyErr
	}
	data, ok := m.get(srcBucket, srcKey)
	if !ok {
		return s3.ErrKeyNotFound
	}
	m.copies++
	m.put(dstBucket, dstKey, string(data))
	return nil
}
