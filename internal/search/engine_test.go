package search

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snooze/internal/storage"
)

func setupSnapshotStore(t *testing.T) *storage.Store {
	t.Helper()

	store, err := storage.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	err = store.SaveFeedSnapshot([]storage.CachedStory{
		{
			ID:        "s1",
			Title:     "Understanding Goroutines in Depth",
			Author:    "Dana Dev",
			URL:       "https://example.com/goroutines",
			Username:  "dana",
			CreatedAt: time.Now(),
		},
		{
			ID:        "s2",
			Title:     "A Beginner Guide to Baking Bread",
			Author:    "Bert Baker",
			URL:       "https://bread.example.org/guide",
			Username:  "bert",
			CreatedAt: time.Now(),
		},
		{
			ID:        "s3",
			Title:     "Goroutine Leaks and How to Find Them",
			Author:    "Sam Ops",
			URL:       "https://example.com/leaks",
			Username:  "samops",
			CreatedAt: time.Now(),
		},
	})
	require.NoError(t, err)

	return store
}

func TestEngineSearch(t *testing.T) {
	engine := NewEngine(setupSnapshotStore(t))

	results, err := engine.Search("goroutine", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	ids := []string{results[0].Story.ID, results[1].Story.ID}
	assert.Contains(t, ids, "s1")
	assert.Contains(t, ids, "s3")
	assert.Greater(t, results[0].Score, 0.0)
}

func TestEngineSearchByAuthor(t *testing.T) {
	engine := NewEngine(setupSnapshotStore(t))

	results, err := engine.Search("bert", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "s2", results[0].Story.ID)
}

func TestEngineSearchRanking(t *testing.T) {
	engine := NewEngine(setupSnapshotStore(t))

	// A title hit should outrank the same term appearing only in a URL.
	results, err := engine.Search("bread", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "s2", results[0].Story.ID)
}

func TestEngineSearchShortQuery(t *testing.T) {
	engine := NewEngine(setupSnapshotStore(t))

	results, err := engine.Search("g", 10)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = engine.Search("  ", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEngineSearchNoSnapshot(t *testing.T) {
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer store.Close()

	engine := NewEngine(store)

	results, err := engine.Search("anything", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEngineSearchLimit(t *testing.T) {
	engine := NewEngine(setupSnapshotStore(t))

	results, err := engine.Search("example", 1)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), 1)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple words", "hello world", []string{"hello", "world"}},
		{"mixed case", "Hello World", []string{"hello", "world"}},
		{"punctuation", "hello, world!", []string{"hello", "world"}},
		{"single chars dropped", "a b go", []string{"go"}},
		{"numbers kept", "top 10 stories", []string{"top", "10", "stories"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenize(tt.input))
		})
	}
}
