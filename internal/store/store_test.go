package store

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"agentnorm/internal/codex"
	"agentnorm/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codexRoot() string {
	return filepath.Join("..", "..", "testdata", "runs", "codex")
}

func TestListRuns(t *testing.T) {
	res, err := ListRuns(ListOptions{Root: codexRoot(), Normalizer: codex.New()})
	require.NoError(t, err)
	require.Empty(t, res.Warnings)
	require.Len(t, res.Runs, 3)

	assert.Equal(t, filepath.Join(codexRoot(), "empty.jsonl"), res.Runs[0].Path)
	assert.Equal(t, filepath.Join(codexRoot(), "multi-turn.jsonl"), res.Runs[1].Path)
	assert.Equal(t, filepath.Join(codexRoot(), "structured.jsonl"), res.Runs[2].Path)

	for _, run := range res.Runs {
		assert.Equal(t, codex.ProviderName, run.Provider)
	}
	assert.Nil(t, res.Runs[0].Result.Usage)
	assert.Equal(t, "Done. All tests pass.", res.Runs[1].Result.Result)
}

func TestListRuns_SessionFilterAndLimit(t *testing.T) {
	res, err := ListRuns(ListOptions{
		Root:       codexRoot(),
		Normalizer: codex.New(),
		SessionID:  "thread-structured",
	})
	require.NoError(t, err)
	require.Len(t, res.Runs, 1)
	assert.Equal(t, "Structured answer.", res.Runs[0].Result.Result)

	res, err = ListRuns(ListOptions{Root: codexRoot(), Normalizer: codex.New(), Limit: 2})
	require.NoError(t, err)
	assert.Len(t, res.Runs, 2)
}

func TestListRuns_Pattern(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.log"), []byte(`{"type":"item.completed","item":{"text":"log"}}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.jsonl"), []byte(`{"type":"item.completed","item":{"text":"jsonl"}}`), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "c.log"), []byte("garbage"), 0o600))

	res, err := ListRuns(ListOptions{Root: dir, Patterns: []string{"*.log"}, Normalizer: codex.New()})
	require.NoError(t, err)
	require.Len(t, res.Runs, 2)
	assert.Equal(t, "log", res.Runs[0].Result.Result)
	assert.Empty(t, res.Runs[1].Result.Result)

	res, err = ListRuns(ListOptions{Root: dir, Patterns: []string{"*.jsonl", "a.*"}, Normalizer: codex.New()})
	require.NoError(t, err)
	require.Len(t, res.Runs, 2)
	assert.Equal(t, "log", res.Runs[0].Result.Result)
	assert.Equal(t, "jsonl", res.Runs[1].Result.Result)

	_, err = ListRuns(ListOptions{Root: dir, Patterns: []string{"*.log", "["}, Normalizer: codex.New()})
	assert.Error(t, err)
}

type failingNormalizer struct{}

func (failingNormalizer) Name() string { return "failing" }

func (failingNormalizer) Normalize(io.Reader) (model.NormalizedResult, error) {
	return model.NormalizedResult{}, errors.New("disk on fire")
}

func TestListRuns_ReadFaultsBecomeWarnings(t *testing.T) {
	res, err := ListRuns(ListOptions{Root: codexRoot(), Normalizer: failingNormalizer{}})
	require.NoError(t, err)
	assert.Empty(t, res.Runs)
	require.Len(t, res.Warnings, 3)
	assert.Contains(t, res.Warnings[0].Error(), "disk on fire")
}

func TestListRuns_RequiresRoot(t *testing.T) {
	_, err := ListRuns(ListOptions{Normalizer: codex.New()})
	assert.ErrorIs(t, err, ErrRootRequired)

	_, err = ListRuns(ListOptions{Root: codexRoot()})
	assert.Error(t, err)
}

func TestNormalizeFile_Missing(t *testing.T) {
	_, err := NormalizeFile(codex.New(), filepath.Join(t.TempDir(), "nope.jsonl"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
