package message

import "strings"

// ParseFrom splits a From-style value into display name and address.
// "Jane Doe <jane@example.com>" yields ("Jane Doe", "jane@example.com");
// a bare value yields an empty name and the trimmed value as address.
func ParseFrom(from string) (name, addr string) {
	start := strings.IndexByte(from, '<')
	if start >= 0 {
		if end := strings.IndexByte(from[start:], '>'); end >= 0 {
			name = strings.TrimSpace(strings.ReplaceAll(from[:start], `"`, ""))
			addr = strings.TrimSpace(from[start+1 : start+end])
			return name, addr
		}
	}
	return "", strings.TrimSpace(from)
}

// ReplySubject prefixes subject with "Re: " unless it already has one.
func ReplySubject(subject string) string {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(subject)), "re:") {
		return subject
	}
	return "Re: " + subject
}
