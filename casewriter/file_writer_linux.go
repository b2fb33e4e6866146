//go:build linux

package casewriter

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

// alignmentSize is the filesystem block size preallocation is rounded up to
const alignmentSize = 4096

// CaseFileWriter writes one case file through a buffered positional writer.
// Preallocated space is released on Close by truncating to the written size.
type CaseFileWriter struct {
	file       *os.File
	fd         int
	filePath   string
	fileOffset int64
	buf        *bufio.Writer

	preallocated int64
	syncOnClose  bool

	lastWriteDuration time.Duration

	// Channel for completed files (for GCS upload)
	completedFileChan chan<- string
}

// NewCaseFileWriter creates (or truncates) the file at path.
// completedFileChan is optional - if provided, the path is sent to it after a successful Close
func NewCaseFileWriter(path string, config Config, completedFileChan chan<- string) (*CaseFileWriter, error) {
	config.applyDefaults()

	file, preallocated, err := openPreallocated(path, config.PreallocateFileSize)
	if err != nil {
		return nil, fmt.Errorf("failed to open case file: %w", err)
	}

	fw := &CaseFileWriter{
		file:              file,
		fd:                int(file.Fd()),
		filePath:          path,
		preallocated:      preallocated,
		syncOnClose:       config.SyncOnClose,
		completedFileChan: completedFileChan,
	}
	fw.buf = bufio.NewWriterSize(positionalWriter{fw}, config.BufferSize)

	return fw, nil
}

// Write buffers p; full buffers are written at the current file offset
func (fw *CaseFileWriter) Write(p []byte) (int, error) {
	if fw.file == nil {
		return 0, os.ErrClosed
	}
	return fw.buf.Write(p)
}

// WriteString buffers s
func (fw *CaseFileWriter) WriteString(s string) (int, error) {
	if fw.file == nil {
		return 0, os.ErrClosed
	}
	return fw.buf.WriteString(s)
}

// Path returns the path of the file being written
func (fw *CaseFileWriter) Path() string {
	return fw.filePath
}

// BytesWritten returns the number of bytes written to the file (excludes buffered bytes)
func (fw *CaseFileWriter) BytesWritten() int64 {
	return fw.fileOffset
}

// GetLastWriteDuration returns the duration of the last Pwrite syscall
func (fw *CaseFileWriter) GetLastWriteDuration() time.Duration {
	return fw.lastWriteDuration
}

// Close flushes buffered data, syncs, truncates preallocated space and closes the file
func (fw *CaseFileWriter) Close() error {
	return fw.close(true)
}

// Abort closes the file like Close but never hands it to the completed channel.
// Used when the content written so far is known to be incomplete.
func (fw *CaseFileWriter) Abort() error {
	return fw.close(false)
}

func (fw *CaseFileWriter) close(complete bool) error {
	if fw.file == nil {
		return nil
	}

	var firstErr error

	if err := fw.buf.Flush(); err != nil {
		firstErr = fmt.Errorf("failed to flush case file: %w", err)
	}

	if fw.syncOnClose && fw.fileOffset > 0 {
		if err := unix.Fsync(fw.fd); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to sync file: %w", err)
		}
	}

	// fallocate extends the file size, so cut it back to what was written
	if fw.preallocated > 0 {
		if err := unix.Ftruncate(fw.fd, fw.fileOffset); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to truncate file to actual size: %w", err)
		}
	}

	if err := fw.file.Close(); err != nil && firstErr == nil {
		firstErr = err
	}

	fw.file = nil
	fw.fd = 0

	if complete && firstErr == nil {
		handOff(fw.completedFileChan, fw.filePath)
	}

	return firstErr
}

// pwrite writes p at the current offset, retrying short writes
func (fw *CaseFileWriter) pwrite(p []byte) (int, error) {
	start := time.Now()
	defer func() { fw.lastWriteDuration = time.Since(start) }()

	total := 0
	for total < len(p) {
		n, err := unix.Pwrite(fw.fd, p[total:], fw.fileOffset)
		if n > 0 {
			total += n
			fw.fileOffset += int64(n)
		}
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return total, fmt.Errorf("pwrite failed: %w", err)
		}
		if n == 0 {
			return total, fmt.Errorf("pwrite failed: %w", unix.EIO)
		}
	}
	return total, nil
}

type positionalWriter struct {
	fw *CaseFileWriter
}

func (w positionalWriter) Write(p []byte) (int, error) {
	return w.fw.pwrite(p)
}

// openPreallocated opens path for writing and preallocates with fallocate.
// Returns the number of preallocated bytes, 0 when preallocation was skipped.
func openPreallocated(path string, preallocateSize int64) (*os.File, int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, 0, fmt.Errorf("failed to create directory: %w", err)
	}

	fd, err := unix.Open(path, unix.O_WRONLY|unix.O_CREAT|unix.O_TRUNC|unix.O_CLOEXEC, 0644)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open file: %w", err)
	}

	var preallocated int64
	if preallocateSize > 0 {
		alignedSize := alignUp(preallocateSize, alignmentSize)
		if err := unix.Fallocate(fd, 0, 0, alignedSize); err != nil {
			// File still works, just without preallocation
			fmt.Printf("[WARNING] Failed to preallocate %d bytes for %s, continuing without preallocation: %v\n",
				alignedSize, path, err)
		} else {
			preallocated = alignedSize
		}
	}

	file := os.NewFile(uintptr(fd), path)
	if file == nil {
		unix.Close(fd)
		return nil, 0, fmt.Errorf("failed to create file descriptor")
	}

	return file, preallocated, nil
}

// alignUp rounds n up to the next multiple of align (power of 2)
func alignUp(n, align int64) int64 {
	return (n + align - 1) &^ (align - 1)
}
