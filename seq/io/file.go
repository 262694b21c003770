// Package io provides sequence sources and sinks for files: lines, raw
// bytes, CSV records, JSON values and directory listings.
//
// Sources open their file when the sequence is evaluated, not when it is
// built, and close it once the terminal operation stops pulling. Open and
// read errors are returned by the terminal operation.
package io

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/lguimbarda/min-seq/seq/core"
)

// ReadLines creates a sequence of the lines of the file at path, without
// their trailing newline.
func ReadLines(path string) *core.Sequence[string] {
	return core.FromFunc(func(ctx context.Context, yield func(string) bool) error {
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("read lines: %w", err)
		}
		defer file.Close()
		return scanLines(ctx, file, yield)
	})
}

// ReadLinesFrom creates a sequence of the lines read from r. The reader is
// consumed by the first evaluation.
func ReadLinesFrom(r io.Reader) *core.Sequence[string] {
	return core.FromFunc(func(ctx context.Context, yield func(string) bool) error {
		return scanLines(ctx, r, yield)
	})
}

func scanLines(ctx context.Context, r io.Reader, yield func(string) bool) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil || !yield(scanner.Text()) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read lines: %w", err)
	}
	return nil
}

// ReadBytes creates a sequence of chunks of at most chunkSize bytes read
// from the file at path. Each chunk is a fresh slice.
func ReadBytes(path string, chunkSize int) *core.Sequence[[]byte] {
	return core.FromFunc(func(ctx context.Context, yield func([]byte) bool) error {
		if chunkSize <= 0 {
			return fmt.Errorf("read bytes: invalid chunk size %d", chunkSize)
		}
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("read bytes: %w", err)
		}
		defer file.Close()

		buf := make([]byte, chunkSize)
		for {
			n, err := file.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				if ctx.Err() != nil || !yield(chunk) {
					return nil
				}
			}
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return fmt.Errorf("read bytes: %w", err)
			}
		}
	})
}

// WriteLines drains s into the file at path, one element per line. The
// file is created if it doesn't exist, or truncated if it does.
func WriteLines(ctx context.Context, s *core.Sequence[string], path string) error {
	return WriteLinesWithOptions(ctx, s, path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
}

// AppendLines drains s onto the end of the file at path, one element per
// line.
func AppendLines(ctx context.Context, s *core.Sequence[string], path string) error {
	return WriteLinesWithOptions(ctx, s, path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

// WriteLinesWithOptions drains s into a file opened with flag and perm.
func WriteLinesWithOptions(ctx context.Context, s *core.Sequence[string], path string, flag int, perm os.FileMode) error {
	file, err := os.OpenFile(path, flag, perm)
	if err != nil {
		return fmt.Errorf("write lines: %w", err)
	}
	if err := WriteTo(ctx, s, file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteTo drains s into w, one element per line. Lines are written in
// encounter order regardless of the evaluation mode of s.
func WriteTo(ctx context.Context, s *core.Sequence[string], w io.Writer) error {
	writer := bufio.NewWriter(w)
	for line, err := range s.All(ctx) {
		if err != nil {
			return err
		}
		if _, err := writer.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("write lines: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("write lines: %w", err)
	}
	return nil
}
