package mailstore

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nhle/noxmail/internal/message"
	"github.com/nhle/noxmail/internal/model"
)

// ScanResult is the outcome of scanning one folder.
type ScanResult struct {
	Records []model.MessageRecord
	// Contacts maps each sender address to the first non-empty display
	// name seen for it in this folder.
	Contacts map[string]string
}

// Scanner reads every message of a folder into records.
type Scanner struct {
	parser *message.Parser
	logger *slog.Logger
}

// NewScanner returns a Scanner. A nil logger discards output.
func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Scanner{
		parser: message.NewParser(IsRead),
		logger: logger,
	}
}

// Scan reads "new" then "cur" of folder. A missing sub-directory counts as
// empty. Files that cannot be read or parsed still yield a placeholder
// record so they stay visible. The only error returned is ctx's.
func (s *Scanner) Scan(ctx context.Context, folder string) (ScanResult, error) {
	res := ScanResult{Contacts: make(map[string]string)}

	for _, sub := range []string{newMaildir, curMaildir} {
		dir := filepath.Join(folder, sub)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				s.logger.Warn("listing maildir", "dir", dir, "error", err)
			}
			continue
		}

		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return ScanResult{}, err
			}
			name := entry.Name()
			if entry.IsDir() || strings.HasPrefix(name, ".") {
				continue
			}

			rec := s.record(filepath.Join(dir, name))
			res.Records = append(res.Records, rec)
			addContact(res.Contacts, rec.Sender)
		}
	}

	s.logger.Debug("scanned folder", "folder", folder, "messages", len(res.Records), "contacts", len(res.Contacts))
	return res, nil
}

func (s *Scanner) record(path string) model.MessageRecord {
	raw, err := os.ReadFile(path)
	if err != nil {
		s.logger.Warn("reading message", "path", path, "error", err)
		return placeholder(path, model.SubjectReadErr)
	}

	rec, err := s.parser.Parse(raw, path)
	if err != nil {
		s.logger.Warn("parsing message", "path", path, "error", err)
		return placeholder(path, model.SubjectParseErr)
	}
	return rec
}

func placeholder(path, subject string) model.MessageRecord {
	return model.MessageRecord{
		StoragePath: path,
		Sender:      model.UnknownSender,
		Subject:     subject,
		IsRead:      IsRead(path),
	}
}

func addContact(contacts map[string]string, sender string) {
	if sender == model.UnknownSender {
		return
	}
	name, addr := message.ParseFrom(sender)
	if addr == "" {
		return
	}
	if existing, ok := contacts[addr]; !ok || (existing == "" && name != "") {
		contacts[addr] = name
	}
}
