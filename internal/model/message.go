package model

// Placeholder values substituted when a header is missing or a file could
// not be turned into a record.
const (
	NoSubject       = "(no subject)"
	UnknownSender   = "unknown"
	SubjectReadErr  = "(read error)"
	SubjectParseErr = "(could not be parsed)"
)

// MessageRecord is the normalized view of one stored message.
type MessageRecord struct {
	// StoragePath is the absolute path of the message file. It changes when
	// the message is marked read or archived.
	StoragePath string `json:"storage_path"`

	// Timestamp is the Date header in seconds since the epoch, or 0 when
	// the header is missing or unparsable.
	Timestamp int64 `json:"timestamp"`

	// DateShort and DateFull are display forms of the date, computed once
	// at scan time. They hold the raw header when it could not be parsed.
	DateShort string `json:"date_short"`
	DateFull  string `json:"date_full"`

	// Sender is the From header with RFC 2047 encoded words decoded.
	Sender string `json:"sender"`

	// ReturnPath is the raw Return-Path header, possibly empty.
	ReturnPath string `json:"return_path"`

	// Subject is the decoded Subject header.
	Subject string `json:"subject"`

	// IsRead mirrors the S flag in the filename of StoragePath.
	IsRead bool `json:"is_read"`
}

// Draft is a composed message waiting in the outbox.
type Draft struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
