package generator

import (
	"fmt"
	"os"
	"time"

	"github.com/neehar-mavuduru/benchinput/casewriter"
)

// Config holds the configuration for a generator run
type Config struct {
	// Record set
	MaxValue float64 // Upper bound of the value dimension (inclusive, 0.1 steps)
	Method   int     // Method code written as the last line of every file

	// Output
	OutputDir  string            // Directory the case files are written to (default: ".")
	FileConfig casewriter.Config // Per-file writer settings

	// Seed for the resampling source used by the average case
	Seed uint64

	// Optional: channel receiving the path of every completed case file
	UploadChannel chan<- string
}

// DefaultConfig returns the configuration used by cmd/inputgen
func DefaultConfig(outputDir string) Config {
	return Config{
		MaxValue:   100,
		Method:     4,
		OutputDir:  outputDir,
		FileConfig: casewriter.DefaultConfig(),
		Seed:       uint64(time.Now().UnixNano()),
	}
}

// Validate applies defaults and checks that the output location is usable.
// MaxValue and Method are not validated.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		c.OutputDir = "."
	}

	if c.FileConfig.BufferSize <= 0 {
		c.FileConfig.BufferSize = casewriter.DefaultConfig().BufferSize
	}

	info, err := os.Stat(c.OutputDir)
	if err == nil && !info.IsDir() {
		return fmt.Errorf("output path %s is not a directory", c.OutputDir)
	}
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat output directory: %w", err)
	}

	return nil
}
