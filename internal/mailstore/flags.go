package mailstore

import (
	"path/filepath"
	"strings"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-maildir"
)

// infoSep separates the unique name from the flag letters.
const infoSep = ":2,"

// SplitInfo splits a maildir filename into its unique part and flag
// letters. hasInfo is false when the name carries no ":2," suffix.
func SplitInfo(filename string) (unique, flags string, hasInfo bool) {
	i := strings.Index(filename, infoSep)
	if i < 0 {
		return filename, "", false
	}
	return filename[:i], filename[i+len(infoSep):], true
}

func hasFlag(filename string, f maildir.Flag) bool {
	_, flags, ok := SplitInfo(filename)
	return ok && strings.ContainsRune(flags, rune(f))
}

// IsRead reports whether the message at path is marked read.
func IsRead(path string) bool {
	return hasFlag(filepath.Base(path), maildir.FlagSeen)
}

// ReadName returns the filename that marks filename read. changed is false
// when filename already carries the S flag.
func ReadName(filename string) (name string, changed bool) {
	_, flags, ok := SplitInfo(filename)
	switch {
	case !ok:
		return filename + infoSep + string(rune(maildir.FlagSeen)), true
	case strings.ContainsRune(flags, rune(maildir.FlagSeen)):
		return filename, false
	default:
		return filename + string(rune(maildir.FlagSeen)), true
	}
}

// imapFlags maps maildir flag letters to their IMAP counterparts.
var imapFlags = map[maildir.Flag]imap.Flag{
	maildir.FlagPassed:  imap.FlagForwarded,
	maildir.FlagReplied: imap.FlagAnswered,
	maildir.FlagSeen:    imap.FlagSeen,
	maildir.FlagTrashed: imap.FlagDeleted,
	maildir.FlagDraft:   imap.FlagDraft,
	maildir.FlagFlagged: imap.FlagFlagged,
}

// IMAPFlags returns the IMAP flags encoded in the filename of path, in
// the order the letters appear. Unknown letters are ignored.
func IMAPFlags(path string) []imap.Flag {
	_, letters, ok := SplitInfo(filepath.Base(path))
	if !ok {
		return nil
	}
	var flags []imap.Flag
	for _, c := range letters {
		if f, known := imapFlags[maildir.Flag(c)]; known {
			flags = append(flags, f)
		}
	}
	return flags
}

// HasIMAPFlag reports whether flags contains f.
func HasIMAPFlag(flags []imap.Flag, f imap.Flag) bool {
	for _, got := range flags {
		if got == f {
			return true
		}
	}
	return false
}
