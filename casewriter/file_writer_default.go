//go:build !linux

package casewriter

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// CaseFileWriter writes one case file through a buffered positional writer (non-Linux fallback).
// Preallocation is not supported and PreallocateFileSize is ignored.
type CaseFileWriter struct {
	file       *os.File
	filePath   string
	fileOffset int64
	buf        *bufio.Writer

	syncOnClose bool

	lastWriteDuration time.Duration

	// Channel for completed files (for GCS upload)
	completedFileChan chan<- string
}

// NewCaseFileWriter creates (or truncates) the file at path (non-Linux fallback)
func NewCaseFileWriter(path string, config Config, completedFileChan chan<- string) (*CaseFileWriter, error) {
	config.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to open case file: failed to create directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open case file: %w", err)
	}

	fw := &CaseFileWriter{
		file:              file,
		filePath:          path,
		syncOnClose:       config.SyncOnClose,
		completedFileChan: completedFileChan,
	}
	fw.buf = bufio.NewWriterSize(positionalWriter{fw}, config.BufferSize)

	return fw, nil
}

// Write buffers p
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

// GetLastWriteDuration returns the duration of the last write
func (fw *CaseFileWriter) GetLastWriteDuration() time.Duration {
	return fw.lastWriteDuration
}

// Close flushes, syncs and closes the file
func (fw *CaseFileWriter) Close() error {
	return fw.close(true)
}

// Abort closes the file like Close but never hands it to the completed channel
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
		if err := fw.file.Sync(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to sync file: %w", err)
		}
	}

	if err := fw.file.Close(); err != nil && firstErr == nil {
		firstErr = err
	}

	fw.file = nil

	if complete && firstErr == nil {
		handOff(fw.completedFileChan, fw.filePath)
	}

	return firstErr
}

type positionalWriter struct {
	fw *CaseFileWriter
}

func (w positionalWriter) Write(p []byte) (int, error) {
	start := time.Now()
	n, err := w.fw.file.WriteAt(p, w.fw.fileOffset)
	w.fw.lastWriteDuration = time.Since(start)
	w.fw.fileOffset += int64(n)
	return n, err
}
