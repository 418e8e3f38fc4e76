package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// NewMaildir creates folder name below root with cur, new and tmp
// sub-directories and returns its path.
func NewMaildir(t *testing.T, root, name string) string {
	t.Helper()

	dir := filepath.Join(root, name)
	for _, sub := range []string{"cur", "new", "tmp"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o700); err != nil {
			t.Fatalf("creating maildir %s: %v", name, err)
		}
	}
	return dir
}

// WriteMessage writes raw into folder/sub/filename and returns the path.
func WriteMessage(t *testing.T, folder, sub, filename, raw string) string {
	t.Helper()

	path := filepath.Join(folder, sub, filename)
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("writing message %s: %v", filename, err)
	}
	return path
}

// RawMessage builds a minimal message with the given headers and body.
func RawMessage(from, subject, date, body string) string {
	return fmt.Sprintf("From: %s\r\nSubject: %s\r\nDate: %s\r\n\r\n%s", from, subject, date, body)
}
