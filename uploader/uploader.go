package uploader

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Uploader publishes completed case files to GCS
type Uploader struct {
	config      GCSUploadConfig
	store       objectStore
	uploadChan  chan string
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	uploadStats Stats
	statsMu     sync.RWMutex
	chunkMgr    *ChunkManager
	stopOnce    sync.Once
}

// Stats tracks upload statistics
type Stats struct {
	TotalFiles     int64
	Successful     int64
	Failed         int64
	TotalBytes     int64
	TotalDuration  time.Duration
	LastUploadTime time.Time
}

// NewUploader creates a new GCS uploader service
func NewUploader(config GCSUploadConfig) (*Uploader, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	store, err := newGCSStore(ctx, config)
	if err != nil {
		cancel()
		return nil, err
	}

	return newUploader(ctx, cancel, config, store), nil
}

func newUploader(ctx context.Context, cancel context.CancelFunc, config GCSUploadConfig, store objectStore) *Uploader {
	return &Uploader{
		config:     config,
		store:      store,
		uploadChan: make(chan string, config.ChannelBufferSize),
		ctx:        ctx,
		cancel:     cancel,
		chunkMgr:   NewChunkManager(config.MaxChunksPerCompose),
	}
}

// Start starts the uploader service (reads from channel and uploads files)
func (u *Uploader) Start() {
	u.wg.Add(1)
	go u.uploadWorker()
}

// Stop closes the upload channel, waits for queued files to finish and releases the client
func (u *Uploader) Stop() {
	u.stopOnce.Do(func() {
		close(u.uploadChan)
		u.wg.Wait()
		u.cancel()
		if err := u.store.Close(); err != nil {
			log.Printf("[WARNING] Failed to close storage client: %v", err)
		}
	})
}

// Abort cancels in-flight uploads and stops the service
func (u *Uploader) Abort() {
	u.cancel()
	u.Stop()
}

// GetUploadChannel returns the channel to send file paths for upload
func (u *Uploader) GetUploadChannel() chan<- string {
	return u.uploadChan
}

// GetStats returns current upload statistics
func (u *Uploader) GetStats() Stats {
	u.statsMu.RLock()
	defer u.statsMu.RUnlock()
	return u.uploadStats
}

// uploadWorker reads from channel and uploads files
func (u *Uploader) uploadWorker() {
	defer u.wg.Done()

	for filePath := range u.uploadChan {
		if filePath == "" {
			continue
		}

		err := u.uploadFileWithRetry(filePath)

		u.statsMu.Lock()
		u.uploadStats.TotalFiles++
		if err != nil {
			u.uploadStats.Failed++
		} else {
			u.uploadStats.Successful++
			u.uploadStats.LastUploadTime = time.Now()
		}
		u.statsMu.Unlock()

		if err != nil {
			log.Printf("[ERROR] Failed to upload %s: %v", filePath, err)
		} else {
			log.Printf("[INFO] Uploaded %s to gs://%s/%s", filePath, u.config.Bucket, u.generateObjectName(filePath))
		}
	}
}

// uploadFileWithRetry uploads a file with retry logic
func (u *Uploader) uploadFileWithRetry(filePath string) error {
	var lastErr error
	for attempt := 0; attempt <= u.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-u.ctx.Done():
				return fmt.Errorf("uploader stopped: %w", lastErr)
			case <-time.After(u.config.RetryDelay):
			}
		}

		start := time.Now()
		size, err := u.uploadFile(filePath)
		if err == nil {
			u.statsMu.Lock()
			u.uploadStats.TotalBytes += size
			u.uploadStats.TotalDuration += time.Since(start)
			u.statsMu.Unlock()
			return nil
		}

		lastErr = err
		if attempt < u.config.MaxRetries {
			log.Printf("[WARNING] Upload attempt %d/%d failed for %s: %v, retrying...", attempt+1, u.config.MaxRetries+1, filePath, err)
		}
	}

	return fmt.Errorf("upload failed after %d attempts: %w", u.config.MaxRetries+1, lastErr)
}

// uploadFile uploads a single file and returns its size
func (u *Uploader) uploadFile(filePath string) (int64, error) {
	buf, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to read file: %w", err)
	}

	objectName := u.generateObjectName(filePath)
	if err := u.uploadParallel(u.ctx, objectName, buf); err != nil {
		return 0, fmt.Errorf("parallel upload failed: %w", err)
	}

	if u.config.DeleteAfterUpload {
		if err := os.Remove(filePath); err != nil {
			// Non-fatal - upload succeeded
			log.Printf("[WARNING] Failed to delete local file %s after upload: %v", filePath, err)
		}
	}

	return int64(len(buf)), nil
}

// generateObjectName generates the GCS object name from file path
func (u *Uploader) generateObjectName(filePath string) string {
	return u.config.ObjectPrefix + filepath.Base(filePath)
}

// uploadParallel uploads chunks in parallel and composes them into the final object.
// Files that fit in one chunk are written directly.
func (u *Uploader) uploadParallel(ctx context.Context, object string, buf []byte) error {
	chunkSize := u.config.ChunkSize
	if len(buf) <= chunkSize {
		if err := u.store.Write(ctx, object, buf, chunkSize); err != nil {
			return err
		}
		return u.verifySize(ctx, object, int64(len(buf)))
	}

	numChunks := (len(buf) + chunkSize - 1) / chunkSize
	tempPrefix := fmt.Sprintf("%s.tmp.%d", object, time.Now().UnixNano())

	chunkObjects := make([]string, numChunks)
	errs := make([]error, numChunks)
	var wg sync.WaitGroup

	for i := 0; i < numChunks; i++ {
		offset := i * chunkSize
		end := offset + chunkSize
		if end > len(buf) {
			end = len(buf)
		}
		chunkObjects[i] = fmt.Sprintf("%s.chunk.%d", tempPrefix, i)

		wg.Add(1)
		go func(chunkIndex int, chunkData []byte) {
			defer wg.Done()
			errs[chunkIndex] = u.store.Write(ctx, chunkObjects[chunkIndex], chunkData, chunkSize)
		}(i, buf[offset:end])
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			u.cleanupTempChunks(ctx, chunkObjects)
			return fmt.Errorf("chunk %d failed: %w", i, err)
		}
	}

	if err := u.chunkMgr.Compose(ctx, u.store, object, chunkObjects); err != nil {
		u.cleanupTempChunks(ctx, chunkObjects)
		return fmt.Errorf("compose error: %w", err)
	}

	u.cleanupTempChunks(ctx, chunkObjects)

	if err := u.verifySize(ctx, object, int64(len(buf))); err != nil {
		// Try to delete malformed object
		_ = u.store.Delete(ctx, object)
		return err
	}

	return nil
}

// verifySize checks the stored object size against the local file
func (u *Uploader) verifySize(ctx context.Context, object string, expected int64) error {
	size, err := u.store.Size(ctx, object)
	if err != nil {
		return fmt.Errorf("failed to get object attributes: %w", err)
	}
	if size != expected {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d bytes", expected, size)
	}
	return nil
}

// cleanupTempChunks deletes temporary chunk objects
func (u *Uploader) cleanupTempChunks(ctx context.Context, chunkObjects []string) {
	for _, obj := range chunkObjects {
		if err := u.store.Delete(ctx, obj); err != nil {
			log.Printf("[WARNING] Failed to cleanup temp chunk %s: %v", obj, err)
		}
	}
}
