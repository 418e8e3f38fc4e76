// Package message turns raw RFC 5322 bytes into message records and
// displayable text.
package message

import (
	"bufio"
	"bytes"
	"fmt"

	gomessage "github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-message/textproto"

	"github.com/nhle/noxmail/internal/model"
)

// Display layouts for cached date strings.
const (
	dateShortLayout = "02.01.2006 15:04"
	dateFullLayout  = "Mon, 02 Jan 2006 15:04:05 -0700"
)

// ReadStateFunc reports whether a storage path denotes a read message.
// The parser does not know the maildir naming rules itself.
type ReadStateFunc func(path string) bool

// Parser builds message records from raw bytes.
type Parser struct {
	isRead ReadStateFunc
}

// NewParser returns a parser that derives read state with isRead.
// A nil isRead treats every message as unread.
func NewParser(isRead ReadStateFunc) *Parser {
	if isRead == nil {
		isRead = func(string) bool { return false }
	}
	return &Parser{isRead: isRead}
}

// Parse extracts a record from raw message bytes. path is stored as the
// record's StoragePath and used only to derive read state. An error means
// the header block could not be read at all.
func (p *Parser) Parse(raw []byte, path string) (model.MessageRecord, error) {
	h, err := readHeader(raw)
	if err != nil {
		return model.MessageRecord{}, fmt.Errorf("parsing header of %s: %w", path, err)
	}

	rec := model.MessageRecord{
		StoragePath: path,
		Subject:     model.NoSubject,
		Sender:      model.UnknownSender,
		IsRead:      p.isRead(path),
	}

	if h.Has("Subject") {
		rec.Subject = decodedText(h, "Subject")
	}
	if h.Has("From") {
		rec.Sender = decodedText(h, "From")
	}
	rec.ReturnPath = h.Get("Return-Path")

	rawDate := h.Get("Date")
	if ts, ok := ParseDate(rawDate); ok {
		rec.Timestamp = ts.Unix()
		local := ts.Local()
		rec.DateShort = local.Format(dateShortLayout)
		rec.DateFull = local.Format(dateFullLayout)
	} else {
		rec.DateShort = rawDate
		rec.DateFull = rawDate
	}

	return rec, nil
}

// readHeader reads only the header block of raw.
func readHeader(raw []byte) (mail.Header, error) {
	th, err := textproto.ReadHeader(bufio.NewReader(bytes.NewReader(raw)))
	if err != nil {
		return mail.Header{}, err
	}
	return mail.Header{Header: gomessage.Header{Header: th}}, nil
}

// decodedText returns the RFC 2047 decoded value of the first k header,
// or the raw value when decoding fails.
func decodedText(h mail.Header, k string) string {
	v, err := h.Text(k)
	if err != nil {
		return h.Get(k)
	}
	return v
}
