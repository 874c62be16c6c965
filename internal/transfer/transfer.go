// Package transfer executes categorized, versioned file transfers
// against the object-storage backend and registers uploads with the
// indexing API.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/elaunira/r2index/internal/index"
	"github.com/elaunira/r2index/internal/logging"
	"github.com/elaunira/r2index/internal/storage"
)

// ErrorKind classifies a failed transfer for the caller's retry policy.
type ErrorKind string

const (
	ErrInvalidItem       ErrorKind = "invalid_transfer_item"
	ErrLocalRead         ErrorKind = "local_read_error"
	ErrLocalWrite        ErrorKind = "local_write_error"
	ErrStorage           ErrorKind = "storage_error"
	ErrObjectNotFound    ErrorKind = "object_not_found"
	ErrIndexRegistration ErrorKind = "index_registration_failed"
)

// Result reports the outcome of one transfer. For uploads that stored
// the object but failed index registration, Success is false while
// StorageKey is set: the write is durable and is not rolled back.
type Result struct {
	Success    bool
	StorageKey string
	RecordID   string
	Kind       ErrorKind
	Err        error
}

func failure(kind ErrorKind, key string, err error) Result {
	return Result{StorageKey: key, Kind: kind, Err: err}
}

// Orchestrator runs uploads and downloads against a client pair. It
// holds no mutable state between calls; batches run items concurrently
// behind a bounded semaphore with per-item failure isolation.
type Orchestrator struct {
	storage storage.Client
	index   index.Client
	logger  *logging.Logger

	// maxConcurrent bounds in-flight batch items so large manifests do
	// not overwhelm the backends.
	maxConcurrent int
}

// New creates an orchestrator for one client pair.
func New(st storage.Client, idx index.Client, logger *logging.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.New(false, true)
	}
	return &Orchestrator{
		storage:       st,
		index:         idx,
		logger:        logger,
		maxConcurrent: 10,
	}
}

// Upload stores one file and registers it with the index. A failed
// registration after a successful store reports ErrIndexRegistration
// without undoing the write; the caller may re-register alone.
func (o *Orchestrator) Upload(ctx context.Context, item UploadItem) Result {
	key, err := item.ref().Key()
	if err != nil {
		return failure(ErrInvalidItem, "", err)
	}

	f, err := os.Open(item.Source)
	if err != nil {
		observeTransfer(directionUpload, statusError)
		return failure(ErrLocalRead, key, fmt.Errorf("failed to open source %s: %w", item.Source, err))
	}
	defer func() { _ = f.Close() }()

	counted := &countingReader{r: f}
	if err := o.storage.Put(ctx, key, counted, item.MediaType); err != nil {
		observeTransfer(directionUpload, statusError)
		return failure(ErrStorage, key, err)
	}
	observeBytes(directionUpload, counted.n)

	rec := index.Record{
		StorageKey: key,
		Category:   item.Category,
		Entity:     item.Entity,
		Extension:  item.Extension,
		MediaType:  item.MediaType,
		Version:    item.DestinationVersion,
		Name:       item.Name,
		Tags:       item.Tags,
		Extra:      item.Extra,
	}
	recordID, err := o.index.Register(ctx, rec)
	if err != nil {
		o.logger.Warn("Object %s stored but index registration failed: %v", key, err)
		observeTransfer(directionUpload, statusError)
		return failure(ErrIndexRegistration, key,
			fmt.Errorf("index registration failed for %s: %w", key, err))
	}

	o.logger.Debug("Uploaded %s (record %s)", key, recordID)
	observeTransfer(directionUpload, statusSuccess)
	return Result{Success: true, StorageKey: key, RecordID: recordID}
}

// Download fetches one object and writes it to the item's destination.
func (o *Orchestrator) Download(ctx context.Context, item DownloadItem) Result {
	key, err := item.ref().Key()
	if err != nil {
		return failure(ErrInvalidItem, "", err)
	}

	body, err := o.storage.Get(ctx, key)
	if err != nil {
		observeTransfer(directionDownload, statusError)
		var notFound storage.NotFoundError
		if errors.As(err, &notFound) {
			return failure(ErrObjectNotFound, key, err)
		}
		return failure(ErrStorage, key, err)
	}
	defer func() { _ = body.Close() }()

	if !item.Overwrite {
		if _, err := os.Stat(item.Destination); err == nil {
			observeTransfer(directionDownload, statusError)
			return failure(ErrLocalWrite, key,
				fmt.Errorf("destination %s exists and overwrite is disabled", item.Destination))
		}
	}

	if dir := filepath.Dir(item.Destination); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			observeTransfer(directionDownload, statusError)
			return failure(ErrLocalWrite, key,
				fmt.Errorf("failed to create destination directory %s: %w", dir, err))
		}
	}

	dest, err := os.Create(item.Destination)
	if err != nil {
		observeTransfer(directionDownload, statusError)
		return failure(ErrLocalWrite, key,
			fmt.Errorf("failed to create destination %s: %w", item.Destination, err))
	}

	n, err := io.Copy(dest, body)
	if closeErr := dest.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		observeTransfer(directionDownload, statusError)
		return failure(ErrLocalWrite, key,
			fmt.Errorf("failed to write destination %s: %w", item.Destination, err))
	}

	o.logger.Debug("Downloaded %s to %s (%d bytes)", key, item.Destination, n)
	observeTransfer(directionDownload, statusSuccess)
	observeBytes(directionDownload, n)
	return Result{Success: true, StorageKey: key}
}

// UploadAll processes a batch of uploads. Results are returned in item
// order; one item's failure never aborts its siblings.
func (o *Orchestrator) UploadAll(ctx context.Context, items []UploadItem) []Result {
	results := make([]Result, len(items))
	o.forEach(len(items), func(i int) {
		results[i] = o.Upload(ctx, items[i])
	})
	return results
}

// DownloadAll processes a batch of downloads with the same isolation
// guarantees as UploadAll.
func (o *Orchestrator) DownloadAll(ctx context.Context, items []DownloadItem) []Result {
	results := make([]Result, len(items))
	o.forEach(len(items), func(i int) {
		results[i] = o.Download(ctx, items[i])
	})
	return results
}

// forEach runs fn for every index concurrently, bounded by the
// semaphore. Item keys are independent, so ordering only matters for
// the result slice, which is indexed, not appended.
func (o *Orchestrator) forEach(n int, fn func(i int)) {
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, o.maxConcurrent)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()
			fn(i)
		}(i)
	}

	wg.Wait()
}

// countingReader tracks bytes consumed by the storage client.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
