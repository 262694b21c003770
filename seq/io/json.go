package io

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/lguimbarda/min-seq/seq/core"
)

// ReadJSON creates a sequence of the JSON values stored one after another
// in the file at path, such as JSON Lines. Each value is decoded into a T.
func ReadJSON[T any](path string) *core.Sequence[T] {
	return core.FromFunc(func(ctx context.Context, yield func(T) bool) error {
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("read json: %w", err)
		}
		defer file.Close()
		return decodeAll(ctx, file, yield)
	})
}

// ReadJSONFrom creates a sequence of the JSON values read from r.
func ReadJSONFrom[T any](r io.Reader) *core.Sequence[T] {
	return core.FromFunc(func(ctx context.Context, yield func(T) bool) error {
		return decodeAll(ctx, r, yield)
	})
}

func decodeAll[T any](ctx context.Context, r io.Reader, yield func(T) bool) error {
	dec := json.NewDecoder(r)
	for {
		var v T
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read json: %w", err)
		}
		if ctx.Err() != nil || !yield(v) {
			return nil
		}
	}
}

// WriteJSON drains s into w as JSON Lines, in encounter order.
func WriteJSON[T any](ctx context.Context, s *core.Sequence[T], w io.Writer) error {
	enc := json.NewEncoder(w)
	for v, err := range s.All(ctx) {
		if err != nil {
			return err
		}
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
	}
	return nil
}
