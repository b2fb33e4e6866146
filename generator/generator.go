package generator

import (
	"fmt"
	"log"
	"math/rand/v2"
	"path/filepath"
	"time"

	"github.com/neehar-mavuduru/benchinput/casewriter"
)

// Result describes a completed generator run
type Result struct {
	Count    int           // Records per file
	Files    []string      // Written files, in Cases order
	Duration time.Duration // Wall time for building and writing
}

// Generator writes the best, average and worst case files for one record set
type Generator struct {
	config Config
	rng    *rand.Rand
}

// NewGenerator creates a generator seeded from config.Seed
func NewGenerator(config Config) (*Generator, error) {
	return NewGeneratorWithRand(config, rand.New(rand.NewPCG(config.Seed, config.Seed^0x9e3779b97f4a7c15)))
}

// NewGeneratorWithRand creates a generator that resamples from rng
func NewGeneratorWithRand(config Config, rng *rand.Rand) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}

	return &Generator{
		config: config,
		rng:    rng,
	}, nil
}

// Generate builds the record set and writes one file per case.
// Files are written one at a time; the first failure stops the run.
func (g *Generator) Generate() (Result, error) {
	start := time.Now()

	rs := BuildRecordSet(g.config.MaxValue)

	files := make([]string, 0, len(Cases))
	for _, c := range Cases {
		path := filepath.Join(g.config.OutputDir, c.FileName())
		if err := g.writeCase(path, c.Order(rs, g.rng)); err != nil {
			return Result{}, fmt.Errorf("failed to write %s case: %w", c, err)
		}
		files = append(files, path)
	}

	log.Printf("[INFO] Generated %d entries", rs.Len())

	return Result{
		Count:    rs.Len(),
		Files:    files,
		Duration: time.Since(start),
	}, nil
}

// writeCase writes one case file. A failed write aborts the file so it is
// never handed to the upload channel.
func (g *Generator) writeCase(path string, records []Record) error {
	fw, err := casewriter.NewCaseFileWriter(path, g.config.FileConfig, g.config.UploadChannel)
	if err != nil {
		return err
	}

	if err := WriteCase(fw, records, g.config.Method); err != nil {
		if abortErr := fw.Abort(); abortErr != nil {
			log.Printf("[WARNING] Failed to close %s after write error: %v", path, abortErr)
		}
		return err
	}

	return fw.Close()
}

// Generate writes best.in, average.in and worst.in to the working directory
// and returns the number of records in each file
func Generate(maxValue float64, method int) (int, error) {
	config := DefaultConfig(".")
	config.MaxValue = maxValue
	config.Method = method

	g, err := NewGenerator(config)
	if err != nil {
		return 0, err
	}

	result, err := g.Generate()
	if err != nil {
		return 0, err
	}
	return result.Count, nil
}
