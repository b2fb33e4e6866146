package uploader

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func putChunks(t *testing.T, store *memStore, n int) ([]string, string) {
	t.Helper()
	names := make([]string, n)
	want := ""
	for i := 0; i < n; i++ {
		names[i] = fmt.Sprintf("best.in.chunk.%d", i)
		part := fmt.Sprintf("[%d]", i)
		require.NoError(t, store.Write(context.Background(), names[i], []byte(part), 0))
		want += part
	}
	return names, want
}

func TestChunkManager_Compose(t *testing.T) {
	t.Run("SingleCompose", func(t *testing.T) {
		store := newMemStore()
		chunks, want := putChunks(t, store, 5)

		require.NoError(t, NewChunkManager(32).Compose(context.Background(), store, "best.in", chunks))

		got, ok := store.get("best.in")
		require.True(t, ok)
		assert.Equal(t, want, string(got))
		assert.Len(t, store.composes, 1)
	})

	t.Run("MultiLevelComposeKeepsOrder", func(t *testing.T) {
		store := newMemStore()
		chunks, want := putChunks(t, store, 10)

		require.NoError(t, NewChunkManager(2).Compose(context.Background(), store, "worst.in", chunks))

		got, ok := store.get("worst.in")
		require.True(t, ok)
		assert.Equal(t, want, string(got))
		for _, sources := range store.composes {
			assert.LessOrEqual(t, len(sources), 2)
		}

		// Only the chunks and the final object remain
		assert.Len(t, store.names(), 11)
	})

	t.Run("NoChunks", func(t *testing.T) {
		err := NewChunkManager(32).Compose(context.Background(), newMemStore(), "best.in", nil)
		assert.Error(t, err)
	})

	t.Run("MissingChunkCleansIntermediates", func(t *testing.T) {
		store := newMemStore()
		chunks, _ := putChunks(t, store, 4)
		chunks = append(chunks, "missing")

		err := NewChunkManager(2).Compose(context.Background(), store, "average.in", chunks)
		assert.Error(t, err)

		_, ok := store.get("average.in")
		assert.False(t, ok)
		assert.Len(t, store.names(), 4)
	})
}

func TestNewChunkManager_Defaults(t *testing.T) {
	assert.Equal(t, 32, NewChunkManager(0).maxChunksPerCompose)
	assert.Equal(t, 32, NewChunkManager(1).maxChunksPerCompose)
	assert.Equal(t, 8, NewChunkManager(8).maxChunksPerCompose)
}
