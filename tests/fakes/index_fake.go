package fakes

import (
	"context"
	"sync"

	"github.com/elaunira/r2index/internal/index"
	"github.com/google/uuid"
)

// FakeIndex is an in-memory indexing API. Register assigns UUID record
// ids the way the real API does; failures can be injected per storage
// key.
type FakeIndex struct {
	mu      sync.Mutex
	records map[string]index.Record
	failOn  map[string]error
	order   []string
}

// NewFakeIndex creates an empty fake index.
func NewFakeIndex() *FakeIndex {
	return &FakeIndex{
		records: make(map[string]index.Record),
		failOn:  make(map[string]error),
	}
}

// WithRegisterError makes Register fail for records with the given
// storage key.
func (f *FakeIndex) WithRegisterError(storageKey string, err error) *FakeIndex {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failOn[storageKey] = err
	return f
}

// Register implements index.Client.
func (f *FakeIndex) Register(ctx context.Context, rec index.Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failOn[rec.StorageKey]; ok {
		return "", err
	}

	rec.ID = uuid.NewString()
	f.records[rec.ID] = rec
	f.order = append(f.order, rec.ID)
	return rec.ID, nil
}

// Get implements index.Client.
func (f *FakeIndex) Get(ctx context.Context, id string) (index.Record, error) {
	if err := ctx.Err(); err != nil {
		return index.Record{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok {
		return index.Record{}, index.NotFoundError{ID: id}
	}
	return rec, nil
}

// List implements index.Client.
func (f *FakeIndex) List(ctx context.Context, q index.Query) ([]index.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	var out []index.Record
	for _, id := range f.order {
		rec := f.records[id]
		if q.Category != "" && rec.Category != q.Category {
			continue
		}
		if q.Entity != "" && rec.Entity != q.Entity {
			continue
		}
		if q.Extension != "" && rec.Extension != q.Extension {
			continue
		}
		out = append(out, rec)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

// Records returns all registered records in registration order.
func (f *FakeIndex) Records() []index.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]index.Record, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.records[id])
	}
	return out
}
