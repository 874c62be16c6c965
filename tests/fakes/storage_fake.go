package fakes

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/elaunira/r2index/internal/storage"
)

type fakeObject struct {
	data        []byte
	contentType string
}

// FakeStorage is an in-memory object store. Puts overwrite, gets of
// absent keys return storage.NotFoundError, and failures can be
// injected per key and operation.
type FakeStorage struct {
	mu        sync.Mutex
	objects   map[string]fakeObject
	failPut   map[string]error
	failGet   map[string]error
	putCounts map[string]int
}

// NewFakeStorage creates an empty fake store.
func NewFakeStorage() *FakeStorage {
	return &FakeStorage{
		objects:   make(map[string]fakeObject),
		failPut:   make(map[string]error),
		failGet:   make(map[string]error),
		putCounts: make(map[string]int),
	}
}

// WithObject seeds an object. Fluent API for configuring test data.
func (f *FakeStorage) WithObject(key string, data []byte, contentType string) *FakeStorage {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = fakeObject{data: data, contentType: contentType}
	return f
}

// WithPutError makes puts of key fail with err.
func (f *FakeStorage) WithPutError(key string, err error) *FakeStorage {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failPut[key] = err
	return f
}

// WithGetError makes gets of key fail with err.
func (f *FakeStorage) WithGetError(key string, err error) *FakeStorage {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failGet[key] = err
	return f
}

// Put implements storage.Client.
func (f *FakeStorage) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failPut[key]; ok {
		return err
	}
	f.objects[key] = fakeObject{data: data, contentType: contentType}
	f.putCounts[key]++
	return nil
}

// Get implements storage.Client.
func (f *FakeStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failGet[key]; ok {
		return nil, err
	}
	obj, ok := f.objects[key]
	if !ok {
		return nil, storage.NotFoundError{Key: key}
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

// List implements storage.Client.
func (f *FakeStorage) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Object returns a stored object's bytes and content type.
func (f *FakeStorage) Object(key string) ([]byte, string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[key]
	return obj.data, obj.contentType, ok
}

// PutCount returns how many times key was successfully put.
func (f *FakeStorage) PutCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.putCounts[key]
}

// Len returns the number of stored objects.
func (f *FakeStorage) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}
