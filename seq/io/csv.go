package io

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/lguimbarda/min-seq/seq/core"
)

// ReaderOption configures a CSV reader.
type ReaderOption func(*csv.Reader)

// WithComma sets the field delimiter (default is ',').
func WithComma(comma rune) ReaderOption {
	return func(r *csv.Reader) { r.Comma = comma }
}

// WithComment sets the comment character. Lines beginning with it are
// skipped.
func WithComment(comment rune) ReaderOption {
	return func(r *csv.Reader) { r.Comment = comment }
}

// WithFieldsPerRecord sets the expected number of fields per record.
// If 0, the first record sets it. If negative, records may vary.
func WithFieldsPerRecord(n int) ReaderOption {
	return func(r *csv.Reader) { r.FieldsPerRecord = n }
}

// WithTrimLeadingSpace trims leading whitespace from fields.
func WithTrimLeadingSpace(trim bool) ReaderOption {
	return func(r *csv.Reader) { r.TrimLeadingSpace = trim }
}

// ReadRecords creates a sequence of the records of the CSV file at path.
// A malformed record ends the sequence with an error.
func ReadRecords(path string, opts ...ReaderOption) *core.Sequence[[]string] {
	return core.FromFunc(func(ctx context.Context, yield func([]string) bool) error {
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("read records: %w", err)
		}
		defer file.Close()
		return readRecords(ctx, file, opts, yield)
	})
}

// ReadRecordsFrom creates a sequence of the CSV records read from r.
func ReadRecordsFrom(r io.Reader, opts ...ReaderOption) *core.Sequence[[]string] {
	return core.FromFunc(func(ctx context.Context, yield func([]string) bool) error {
		return readRecords(ctx, r, opts, yield)
	})
}

func readRecords(ctx context.Context, r io.Reader, opts []ReaderOption, yield func([]string) bool) error {
	reader := csv.NewReader(r)
	for _, opt := range opts {
		opt(reader)
	}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read records: %w", err)
		}
		if ctx.Err() != nil || !yield(record) {
			return nil
		}
	}
}

// WriteRecords drains s into the file at path as CSV. The file is created
// if it doesn't exist, or truncated if it does.
func WriteRecords(ctx context.Context, s *core.Sequence[[]string], path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	if err := WriteRecordsTo(ctx, s, file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteRecordsTo drains s into w as CSV, in encounter order.
func WriteRecordsTo(ctx context.Context, s *core.Sequence[[]string], w io.Writer) error {
	writer := csv.NewWriter(w)
	for record, err := range s.All(ctx) {
		if err != nil {
			return err
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write records: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	return nil
}
