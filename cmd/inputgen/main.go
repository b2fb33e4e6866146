package main

import (
	"log"
	"time"

	"github.com/neehar-mavuduru/benchinput/generator"
	"github.com/neehar-mavuduru/benchinput/uploader"
)

// Invocation parameters are fixed here; there are no flags.
const (
	maxValue = 100.0
	method   = 4

	outputDir = "."

	// Set a bucket to publish the generated files after writing them
	gcsBucket = ""
	gcsPrefix = ""
)

func main() {
	config := generator.DefaultConfig(outputDir)
	config.MaxValue = maxValue
	config.Method = method

	// Initialize GCS uploader if enabled
	var up *uploader.Uploader
	if gcsBucket != "" {
		uploaderConfig := uploader.DefaultGCSUploadConfig(gcsBucket)
		uploaderConfig.ObjectPrefix = gcsPrefix

		var err error
		up, err = uploader.NewUploader(uploaderConfig)
		if err != nil {
			log.Fatalf("Failed to create GCS uploader: %v", err)
		}
		config.UploadChannel = up.GetUploadChannel()
		up.Start()
		log.Printf("GCS uploader enabled: bucket=%s, prefix=%s", gcsBucket, gcsPrefix)
	}

	g, err := generator.NewGenerator(config)
	if err != nil {
		log.Fatalf("Failed to create generator: %v", err)
	}

	result, err := g.Generate()
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	for _, path := range result.Files {
		if _, err := generator.VerifyCaseFile(path, method); err != nil {
			log.Fatalf("Verification failed: %v", err)
		}
	}

	log.Printf("Wrote %d files with %d entries each in %v (seed=%d)",
		len(result.Files), result.Count, result.Duration.Round(time.Millisecond), config.Seed)

	if up != nil {
		up.Stop()
		stats := up.GetStats()
		log.Printf("Uploads: %d successful, %d failed, %d bytes", stats.Successful, stats.Failed, stats.TotalBytes)
	}
}
