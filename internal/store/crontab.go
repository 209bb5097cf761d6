// crontab.go implements the store backed by the real user crontab.
// It shells out to crontab(1): "crontab -l" to read, "crontab -" to replace.

package store

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CrontabStore reads and replaces the invoking user's crontab.
type CrontabStore struct {
	// bin is the crontab executable; overridable in tests.
	bin string
}

// NewCrontabStore creates a store that uses the system crontab binary.
func NewCrontabStore() *CrontabStore {
	return &CrontabStore{bin: "crontab"}
}

// Name implements Store.
func (s *CrontabStore) Name() string { return CrontabStoreName }

// Load returns the current crontab content. A user with no crontab yet
// ("crontab -l" exits non-zero) loads as empty content.
func (s *CrontabStore) Load(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, s.bin, "-l")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			// "no crontab for <user>" - start from an empty table.
			return "", nil
		}
		return "", fmt.Errorf("list crontab: %w", err)
	}
	return stdout.String(), nil
}

// Save replaces the user's crontab with the given content.
func (s *CrontabStore) Save(ctx context.Context, content string) error {
	cmd := exec.CommandContext(ctx, s.bin, "-")
	cmd.Stdin = strings.NewReader(ensureTrailingNewline(content))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("install crontab: %w: %s", err, msg)
		}
		return fmt.Errorf("install crontab: %w", err)
	}
	return nil
}
