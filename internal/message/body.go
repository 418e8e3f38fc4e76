package message

import (
	"bytes"
	"io"
	"strings"

	gomessage "github.com/emersion/go-message"
)

// NoTextFound is shown when a message carries no text part.
const NoTextFound = "No displayable text found."

// maxNesting bounds recursion into nested multipart structures.
const maxNesting = 16

// part is a buffered child of a multipart entity. Children must be read in
// order, so their content is captured before deciding which one to show.
type part struct {
	mediaType string
	body      []byte
	header    gomessage.Header
}

// ExtractBody returns the displayable text of a message: the first
// text/plain part, else the first text/html part stripped of markup, else
// the first text found in a nested multipart, else NoTextFound.
func ExtractBody(raw []byte) string {
	e, err := gomessage.Read(bytes.NewReader(raw))
	if err != nil && !gomessage.IsUnknownCharset(err) && !gomessage.IsUnknownEncoding(err) {
		return NoTextFound
	}

	if text, ok := entityText(e, 0); ok {
		return text
	}
	return NoTextFound
}

func entityText(e *gomessage.Entity, depth int) (string, bool) {
	if depth > maxNesting {
		return "", false
	}

	mr := e.MultipartReader()
	if mr == nil {
		mediaType, _, _ := e.Header.ContentType()
		body, err := io.ReadAll(e.Body)
		if err != nil && len(body) == 0 {
			return "", false
		}
		return leafText(mediaType, body)
	}

	var parts []part
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil && !gomessage.IsUnknownCharset(err) && !gomessage.IsUnknownEncoding(err) {
			break
		}
		if isAttachment(p.Header) {
			continue
		}
		mediaType, _, _ := p.Header.ContentType()
		body, readErr := io.ReadAll(p.Body)
		if readErr != nil && len(body) == 0 {
			continue
		}
		parts = append(parts, part{mediaType: mediaType, body: body, header: p.Header})
	}

	for _, p := range parts {
		if p.mediaType == "text/plain" {
			return string(p.body), true
		}
	}
	for _, p := range parts {
		if p.mediaType == "text/html" {
			return StripHTML(string(p.body)), true
		}
	}
	for _, p := range parts {
		if !strings.HasPrefix(p.mediaType, "multipart/") {
			continue
		}
		nested, err := gomessage.New(p.header, bytes.NewReader(p.body))
		if err != nil && !gomessage.IsUnknownCharset(err) && !gomessage.IsUnknownEncoding(err) {
			continue
		}
		if text, ok := entityText(nested, depth+1); ok {
			return text, true
		}
	}

	return "", false
}

// leafText converts a single-part body into text when its type allows.
// A missing Content-Type defaults to text/plain.
func leafText(mediaType string, body []byte) (string, bool) {
	switch mediaType {
	case "", "text/plain":
		return string(body), true
	case "text/html":
		return StripHTML(string(body)), true
	default:
		return "", false
	}
}

func isAttachment(h gomessage.Header) bool {
	disp, _, err := h.ContentDisposition()
	return err == nil && disp == "attachment"
}
