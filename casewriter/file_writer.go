package casewriter

import (
	"fmt"
	"io"
	"time"
)

// FileWriter defines the interface for writing a single case file
type FileWriter interface {
	io.Writer

	// Path returns the path of the file being written
	Path() string

	// BytesWritten returns the number of bytes that reached the file so far
	BytesWritten() int64

	// GetLastWriteDuration returns the duration of the last write syscall
	GetLastWriteDuration() time.Duration

	// Close flushes, syncs and closes the file, then hands its path to the completed channel
	Close() error

	// Abort closes the file without handing it off
	Abort() error
}

// Config holds the file writer configuration
type Config struct {
	BufferSize          int   // bufio buffer size in bytes (default: 1MB)
	PreallocateFileSize int64 // Size to preallocate using fallocate (0 = disabled)
	SyncOnClose         bool  // fsync before close
}

// DefaultConfig returns a configuration with baseline defaults
func DefaultConfig() Config {
	return Config{
		BufferSize:          1 << 20, // 1MB
		PreallocateFileSize: 0,       // Disabled by default
		SyncOnClose:         true,
	}
}

func (c *Config) applyDefaults() {
	if c.BufferSize <= 0 {
		c.BufferSize = 1 << 20
	}
	if c.PreallocateFileSize < 0 {
		c.PreallocateFileSize = 0
	}
}

// handOff sends a completed file path to the channel without blocking
func handOff(completedFileChan chan<- string, path string) {
	if completedFileChan == nil {
		return
	}
	select {
	case completedFileChan <- path:
	default:
		fmt.Printf("[WARNING] Upload channel full, skipping upload for %s\n", path)
	}
}
