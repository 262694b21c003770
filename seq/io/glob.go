package io

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/lguimbarda/min-seq/seq/core"
)

// Glob creates a sequence of the paths matching pattern, in lexical order.
// Patterns follow filepath.Match.
func Glob(pattern string) *core.Sequence[string] {
	return core.FromFunc(func(ctx context.Context, yield func(string) bool) error {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("glob: %w", err)
		}
		for _, m := range matches {
			if ctx.Err() != nil || !yield(m) {
				return nil
			}
		}
		return nil
	})
}

// WalkFiles creates a sequence of the paths of the regular files under
// root, in lexical order. Directories are traversed but not yielded.
func WalkFiles(root string) *core.Sequence[string] {
	return core.FromFunc(func(ctx context.Context, yield func(string) bool) error {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.Type().IsRegular() && !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil && ctx.Err() == nil {
			return fmt.Errorf("walk files: %w", err)
		}
		return nil
	})
}
