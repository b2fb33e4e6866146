package uploader

import (
	"fmt"
	"time"
)

// GCSUploadConfig holds configuration for the case file uploader
type GCSUploadConfig struct {
	Bucket              string        // GCS bucket name (required)
	ObjectPrefix        string        // Object prefix (e.g., "inputs/max_100/")
	ChunkSize           int           // Chunk size for parallel upload (default: 32MB)
	MaxChunksPerCompose int           // Maximum chunks per compose (default: 32)
	MaxRetries          int           // Max retry attempts (default: 3)
	RetryDelay          time.Duration // Delay between retries (default: 5s)
	GRPCPoolSize        int           // gRPC connection pool size (default: 4)
	ChannelBufferSize   int           // Upload channel buffer size (default: 16)
	DeleteAfterUpload   bool          // Remove the local file once uploaded

	// Optional: storage endpoint override (e.g. a local emulator). Uses plaintext gRPC.
	Endpoint string
}

// DefaultGCSUploadConfig returns a GCS upload configuration with defaults
func DefaultGCSUploadConfig(bucket string) GCSUploadConfig {
	return GCSUploadConfig{
		Bucket:              bucket,
		ObjectPrefix:        "",
		ChunkSize:           32 * 1024 * 1024, // 32MB
		MaxChunksPerCompose: 32,               // GCS limit
		MaxRetries:          3,
		RetryDelay:          5 * time.Second,
		GRPCPoolSize:        4,
		ChannelBufferSize:   16,
	}
}

// Validate checks if the GCS upload configuration is valid and applies defaults where needed
func (g *GCSUploadConfig) Validate() error {
	if g.Bucket == "" {
		return fmt.Errorf("bucket name is required")
	}

	if g.ChunkSize <= 0 {
		g.ChunkSize = 32 * 1024 * 1024 // 32MB default
	}

	if g.MaxChunksPerCompose <= 0 || g.MaxChunksPerCompose > 32 {
		g.MaxChunksPerCompose = 32 // GCS limit
	}

	if g.MaxRetries < 0 {
		g.MaxRetries = 3
	}

	if g.RetryDelay <= 0 {
		g.RetryDelay = 5 * time.Second
	}

	if g.GRPCPoolSize <= 0 {
		g.GRPCPoolSize = 4
	}

	if g.ChannelBufferSize <= 0 {
		g.ChannelBufferSize = 16
	}

	return nil
}
