package uploader

import (
	"context"
	"fmt"
	"log"
)

// ChunkManager handles GCS compose operations with the 32-source limit
type ChunkManager struct {
	maxChunksPerCompose int // Default: 32 (GCS limit)
}

// NewChunkManager creates a new chunk manager
func NewChunkManager(maxChunksPerCompose int) *ChunkManager {
	if maxChunksPerCompose < 2 {
		maxChunksPerCompose = 32 // GCS limit
	}
	return &ChunkManager{
		maxChunksPerCompose: maxChunksPerCompose,
	}
}

// Compose composes chunks into the final object, in order
func (cm *ChunkManager) Compose(ctx context.Context, store objectStore, object string, chunkObjects []string) error {
	if len(chunkObjects) <= cm.maxChunksPerCompose {
		return cm.singleCompose(ctx, store, object, chunkObjects)
	}

	return cm.multiLevelCompose(ctx, store, object, chunkObjects, 0)
}

// singleCompose performs a single compose operation
func (cm *ChunkManager) singleCompose(ctx context.Context, store objectStore, object string, chunkObjects []string) error {
	if len(chunkObjects) == 0 {
		return fmt.Errorf("no chunks to compose")
	}

	if len(chunkObjects) > cm.maxChunksPerCompose {
		return fmt.Errorf("too many chunks (%d), max is %d", len(chunkObjects), cm.maxChunksPerCompose)
	}

	return store.Compose(ctx, object, chunkObjects)
}

// multiLevelCompose composes groups into intermediate objects until one compose fits
func (cm *ChunkManager) multiLevelCompose(ctx context.Context, store objectStore, object string, chunkObjects []string, level int) error {
	var intermediateObjects []string
	for i := 0; i < len(chunkObjects); i += cm.maxChunksPerCompose {
		end := i + cm.maxChunksPerCompose
		if end > len(chunkObjects) {
			end = len(chunkObjects)
		}

		intermediateObj := fmt.Sprintf("%s.intermediate.%d.%d", object, level, i/cm.maxChunksPerCompose)
		if err := cm.singleCompose(ctx, store, intermediateObj, chunkObjects[i:end]); err != nil {
			cm.cleanupObjects(ctx, store, intermediateObjects)
			return fmt.Errorf("failed to compose intermediate object %s: %w", intermediateObj, err)
		}

		intermediateObjects = append(intermediateObjects, intermediateObj)
	}

	var err error
	if len(intermediateObjects) <= cm.maxChunksPerCompose {
		err = cm.singleCompose(ctx, store, object, intermediateObjects)
	} else {
		err = cm.multiLevelCompose(ctx, store, object, intermediateObjects, level+1)
	}

	cm.cleanupObjects(ctx, store, intermediateObjects)
	return err
}

// cleanupObjects deletes objects (for cleanup on error or after use)
func (cm *ChunkManager) cleanupObjects(ctx context.Context, store objectStore, objects []string) {
	for _, obj := range objects {
		if err := store.Delete(ctx, obj); err != nil {
			log.Printf("[WARNING] Failed to cleanup object %s: %v", obj, err)
		}
	}
}
