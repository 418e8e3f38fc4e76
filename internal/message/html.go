package message

import (
	"regexp"
	"strings"
)

// blockTags are removed together with everything up to their close tag.
var blockTags = []string{"head", "style", "script"}

var (
	lineBreakPattern = regexp.MustCompile(`(?i)<br\s*/?>`)
	paraEndPattern   = regexp.MustCompile(`(?i)</p\s*>`)
)

var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
	"&quot;", `"`,
)

// StripHTML reduces an HTML document to plain text. Head, style and script
// blocks and comments are dropped, line breaks become newlines, paragraph
// ends become blank lines, all other tags are removed and the basic
// entities are unescaped.
func StripHTML(html string) string {
	if html == "" {
		return ""
	}

	result := html
	for _, tag := range blockTags {
		result = removeBlocks(result, tag)
	}
	result = removeComments(result)

	result = lineBreakPattern.ReplaceAllString(result, "\n")
	result = paraEndPattern.ReplaceAllString(result, "\n\n")

	var b strings.Builder
	b.Grow(len(result))
	insideTag := false
	for _, r := range result {
		switch {
		case r == '<':
			insideTag = true
		case r == '>':
			insideTag = false
		case !insideTag:
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(entityReplacer.Replace(b.String()))
}

// removeBlocks cuts every <tag ...>...</tag> block, matching the tag name
// case-insensitively. An unterminated block runs to the end of s.
func removeBlocks(s, tag string) string {
	open := "<" + tag
	closing := "</" + tag

	for {
		lower := asciiLower(s)
		start := indexTag(lower, open, 0)
		if start < 0 {
			return s
		}

		end := len(s)
		if c := strings.Index(lower[start:], closing); c >= 0 {
			closeAt := start + c
			if gt := strings.IndexByte(lower[closeAt:], '>'); gt >= 0 {
				end = closeAt + gt + 1
			}
		}
		s = s[:start] + s[end:]
	}
}

// indexTag finds open in lower at or after from, requiring the tag name to
// end there so that "<head" does not match "<header".
func indexTag(lower, open string, from int) int {
	for from <= len(lower) {
		i := strings.Index(lower[from:], open)
		if i < 0 {
			return -1
		}
		i += from
		next := i + len(open)
		if next >= len(lower) {
			return i
		}
		switch lower[next] {
		case '>', '/', ' ', '\t', '\n', '\r':
			return i
		}
		from = next
	}
	return -1
}

// removeComments drops <!-- ... --> blocks; an unterminated comment runs
// to the end of s.
func removeComments(s string) string {
	for {
		start := strings.Index(s, "<!--")
		if start < 0 {
			return s
		}
		end := len(s)
		if e := strings.Index(s[start+4:], "-->"); e >= 0 {
			end = start + 4 + e + 3
		}
		s = s[:start] + s[end:]
	}
}

// asciiLower lower-cases ASCII letters only, keeping byte offsets stable.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
