// stdout.go implements the store that "stores" by writing to a stream.

package store

import (
	"context"
	"fmt"
	"io"
)

// StdoutStore emits computed content to a writer instead of persisting it.
// It manages nothing, so Load always returns empty content: operations
// against this store work from a blank table and print the result.
type StdoutStore struct {
	out io.Writer
}

// NewStdoutStore creates a store that writes to out.
func NewStdoutStore(out io.Writer) *StdoutStore {
	return &StdoutStore{out: out}
}

// Name implements Store.
func (s *StdoutStore) Name() string { return StdoutStoreName }

// Load implements Store. Always empty: nothing is managed here.
func (s *StdoutStore) Load(ctx context.Context) (string, error) {
	return "", nil
}

// Save writes the content to the configured writer.
func (s *StdoutStore) Save(ctx context.Context, content string) error {
	if _, err := io.WriteString(s.out, ensureTrailingNewline(content)); err != nil {
		return fmt.Errorf("write to stdout: %w", err)
	}
	return nil
}

var _ Store = (*StdoutStore)(nil)
var _ Store = (*CrontabStore)(nil)
