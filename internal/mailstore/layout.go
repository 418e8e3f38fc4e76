// Package mailstore reads and rewrites a tree of maildir folders.
//
// Each folder holds the sub-directories "new" (delivered, not yet seen by a
// client), "cur" (seen by a client) and "tmp" (in-flight deliveries). The
// filename of a message in "cur" may carry an info suffix ":2,<flags>" whose
// flag letters record the message state; "S" marks it read. See
// https://cr.yp.to/proto/maildir.html.
package mailstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/emersion/go-maildir"
)

const (
	curMaildir = "cur"
	newMaildir = "new"
	tmpMaildir = "tmp"

	// InboxName names the root folder when the root itself is a maildir.
	InboxName = "INBOX"
)

// DefaultRoot returns ~/.Mail, the conventional location of the tree.
func DefaultRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".Mail"
	}
	return filepath.Join(home, ".Mail")
}

func isDir(path string) bool {
	stat, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) || err != nil {
		return false
	}
	return stat.IsDir()
}

// IsMaildir reports whether path looks like a maildir folder. Only "cur" is
// required; "new" and "tmp" are created lazily by many delivery agents.
func IsMaildir(path string) bool {
	return isDir(filepath.Join(path, curMaildir))
}

// DiscoverFolders lists the folder names below root. When root is itself a
// maildir it is listed first as INBOX. Child directories that are maildirs
// follow in lexical order. An unreadable or empty tree yields just INBOX.
func DiscoverFolders(root string) []string {
	var folders []string
	rootIsMaildir := IsMaildir(root)

	entries, err := os.ReadDir(root)
	if err == nil {
		for _, entry := range entries {
			name := entry.Name()
			if !entry.IsDir() || isSubArea(name) {
				continue
			}
			if IsMaildir(filepath.Join(root, name)) {
				folders = append(folders, name)
			}
		}
	}
	sort.Strings(folders)

	if rootIsMaildir || len(folders) == 0 {
		folders = append([]string{InboxName}, folders...)
	}
	return folders
}

func isSubArea(name string) bool {
	return name == curMaildir || name == newMaildir || name == tmpMaildir
}

// FolderPath resolves a folder name to its directory. INBOX maps to root
// when root is itself a maildir.
func FolderPath(root, name string) string {
	if name == InboxName && IsMaildir(root) {
		return filepath.Clean(root)
	}
	return filepath.Join(root, name)
}

// EnsureFolders creates the named folders below root with all three
// sub-directories, leaving existing folders untouched.
func EnsureFolders(root string, names ...string) error {
	for _, name := range names {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(path, 0o700); err != nil {
			return fmt.Errorf("creating folder %s: %w", name, err)
		}
		if err := maildir.Dir(path).Init(); err != nil {
			return fmt.Errorf("creating maildir %s: %w", name, err)
		}
	}
	return nil
}
