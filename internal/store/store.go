// Package store enumerates captured agent-run files on disk and normalizes
// each one.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"agentnorm/internal/model"

	"github.com/samber/lo"
)

// ErrRootRequired is returned when no directory is given.
var ErrRootRequired = errors.New("root directory is required")

// DefaultPattern matches captured JSONL run files.
const DefaultPattern = "*.jsonl"

// Run is the normalized record for one captured file.
type Run struct {
	Path     string
	Provider string
	Result   model.NormalizedResult
}

// ListOptions controls how run files are enumerated.
type ListOptions struct {
	Root       string
	Patterns   []string
	SessionID  string
	Limit      int
	Normalizer model.Normalizer
}

// ListResult contains normalized runs and non-fatal warnings.
type ListResult struct {
	Runs     []Run
	Warnings []error
}

// ListRuns walks Root, normalizes every file whose base name matches any of
// Patterns (DefaultPattern when empty),
// and returns the runs sorted by path. Files that cannot be read become
// warnings; malformed content never does.
func ListRuns(opts ListOptions) (ListResult, error) {
	if opts.Root == "" {
		return ListResult{}, ErrRootRequired
	}
	if opts.Normalizer == nil {
		return ListResult{}, errors.New("normalizer is required")
	}
	patterns := lo.Compact(opts.Patterns)
	if len(patterns) == 0 {
		patterns = []string{DefaultPattern}
	}
	for _, pattern := range patterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return ListResult{}, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
	}

	var result ListResult

	err := filepath.WalkDir(opts.Root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			result.Warnings = append(result.Warnings, fmt.Errorf("walk %s: %w", path, walkErr))
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !matchAny(patterns, d.Name()) {
			return nil
		}

		normalized, err := NormalizeFile(opts.Normalizer, path)
		if err != nil {
			result.Warnings = append(result.Warnings, err)
			return nil
		}

		result.Runs = append(result.Runs, Run{
			Path:     path,
			Provider: opts.Normalizer.Name(),
			Result:   normalized,
		})
		return nil
	})
	if err != nil {
		return result, err
	}

	if opts.SessionID != "" {
		result.Runs = lo.Filter(result.Runs, func(run Run, _ int) bool {
			return run.Result.SessionID != nil && *run.Result.SessionID == opts.SessionID
		})
	}

	sort.Slice(result.Runs, func(i, j int) bool {
		return result.Runs[i].Path < result.Runs[j].Path
	})

	if opts.Limit > 0 && len(result.Runs) > opts.Limit {
		result.Runs = result.Runs[:opts.Limit]
	}

	return result, nil
}

func matchAny(patterns []string, name string) bool {
	return lo.ContainsBy(patterns, func(pattern string) bool {
		ok, _ := filepath.Match(pattern, name)
		return ok
	})
}

// NormalizeFile opens path and normalizes its contents.
func NormalizeFile(n model.Normalizer, path string) (model.NormalizedResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return model.NormalizedResult{}, fmt.Errorf("open run file: %w", err)
	}
	defer file.Close() //nolint:errcheck

	result, err := n.Normalize(file)
	if err != nil {
		return model.NormalizedResult{}, fmt.Errorf("normalize %s: %w", path, err)
	}
	return result, nil
}
