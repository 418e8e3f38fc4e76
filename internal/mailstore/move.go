package mailstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nhle/noxmail/internal/model"
)

// ErrDestinationExists is returned when a move would replace another file.
var ErrDestinationExists = errors.New("destination already exists")

// rename moves src to dst, refusing to overwrite.
func rename(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("moving %s: %w: %s", filepath.Base(src), ErrDestinationExists, dst)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", dst, err)
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s: %w", filepath.Base(src), err)
	}
	return nil
}

// ReadTarget returns the path that marks the message at path read. A
// message in "new" moves to the sibling "cur". changed is false when path
// is already marked read.
func ReadTarget(path string) (target string, changed bool) {
	dir, name := filepath.Split(path)
	readName, changed := ReadName(name)
	if !changed {
		return path, false
	}

	dir = filepath.Clean(dir)
	if filepath.Base(dir) == newMaildir {
		dir = filepath.Join(filepath.Dir(dir), curMaildir)
	}
	return filepath.Join(dir, readName), true
}

// MarkRead renames the message file so that it is marked read and updates
// rec to match. It is a no-op for a message already marked read. On
// failure rec is left unchanged.
func MarkRead(rec *model.MessageRecord) error {
	target, changed := ReadTarget(rec.StoragePath)
	if !changed {
		rec.IsRead = true
		return nil
	}
	if err := rename(rec.StoragePath, target); err != nil {
		return err
	}
	rec.StoragePath = target
	rec.IsRead = true
	return nil
}

// ArchiveTarget returns the destination of path inside archiveFolder. The
// filename, and with it the read state, is kept.
func ArchiveTarget(archiveFolder, path string) string {
	return filepath.Join(archiveFolder, curMaildir, filepath.Base(path))
}

// Archive moves the message file into the "cur" directory of archiveFolder
// and updates rec's storage path. On failure rec is left unchanged.
func Archive(rec *model.MessageRecord, archiveFolder string) error {
	target := ArchiveTarget(archiveFolder, rec.StoragePath)
	if err := rename(rec.StoragePath, target); err != nil {
		return err
	}
	rec.StoragePath = target
	return nil
}

// WriteDraft delivers d into the "new" directory of outboxFolder. The file
// is written to "tmp" first and renamed into place. The name is the
// delivery time in milliseconds, suffixed with a counter on collision.
func WriteDraft(outboxFolder string, d model.Draft, now time.Time) (string, error) {
	base := strconv.FormatInt(now.UnixMilli(), 10)
	name := base
	for i := 1; ; i++ {
		_, errNew := os.Lstat(filepath.Join(outboxFolder, newMaildir, name))
		_, errTmp := os.Lstat(filepath.Join(outboxFolder, tmpMaildir, name))
		if errors.Is(errNew, os.ErrNotExist) && errors.Is(errTmp, os.ErrNotExist) {
			break
		}
		name = base + "." + strconv.Itoa(i)
	}

	tmpPath := filepath.Join(outboxFolder, tmpMaildir, name)
	if err := os.WriteFile(tmpPath, FormatDraft(d), 0o600); err != nil {
		return "", fmt.Errorf("writing draft: %w", err)
	}

	dst := filepath.Join(outboxFolder, newMaildir, name)
	if err := rename(tmpPath, dst); err != nil {
		_ = os.Remove(tmpPath)
		return "", err
	}
	return dst, nil
}

// FormatDraft renders d as a plain-text RFC 5322 message with CRLF line
// endings.
func FormatDraft(d model.Draft) []byte {
	var b strings.Builder
	b.WriteString("To: " + oneLine(d.To) + "\r\n")
	b.WriteString("Subject: " + oneLine(d.Subject) + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")

	body := strings.ReplaceAll(d.Body, "\r\n", "\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}

// oneLine keeps header values from injecting extra header lines.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
