package core

import (
	"regexp"
	"strings"
)

var (
	copyIn  = regexp.MustCompile(`(?is)^\s*copy\b.*\bfrom\s+stdin\b`)
	copyOut = regexp.MustCompile(`(?is)^\s*copy\b.*\bto\s+stdout\b`)
)

// CopyDirection reports StatusCopyIn or StatusCopyOut when any statement of
// command is a COPY that would switch the session into the copy
// sub-protocol, and StatusCommandOK otherwise.
func CopyDirection(command string) Status {
	for _, stmt := range Statements(command) {
		switch {
		case copyIn.MatchString(stmt):
			return StatusCopyIn
		case copyOut.MatchString(stmt):
			return StatusCopyOut
		}
	}
	return StatusCommandOK
}

// Statements splits command on top-level semicolons. Comments become a
// single space and the body of every quoted string, quoted identifier and
// dollar-quoted string is dropped, so only SQL keywords and names remain.
// Empty statements are skipped.
func Statements(command string) []string {
	var (
		stmts []string
		cur   strings.Builder
	)
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			stmts = append(stmts, s)
		}
		cur.Reset()
	}

	src := command
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == ';':
			flush()
			i++
		case c == '-' && strings.HasPrefix(src[i:], "--"):
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				i = len(src)
			} else {
				i += end + 1
			}
			cur.WriteByte(' ')
		case c == '/' && strings.HasPrefix(src[i:], "/*"):
			i = skipBlockComment(src, i)
			cur.WriteByte(' ')
		case c == '\'':
			i = skipQuoted(src, i, '\'', escapeString(src, i))
			cur.WriteString("''")
		case c == '"':
			i = skipQuoted(src, i, '"', false)
			cur.WriteString(`""`)
		case c == '$' && !identByte(prev(src, i)):
			if tag, ok := dollarTag(src, i); ok {
				end := strings.Index(src[i+len(tag):], tag)
				if end < 0 {
					i = len(src)
				} else {
					i += len(tag) + end + len(tag)
				}
				cur.WriteString("''")
				continue
			}
			cur.WriteByte(c)
			i++
		default:
			cur.WriteByte(c)
			i++
		}
	}
	flush()
	return stmts
}

// skipBlockComment returns the index just past the comment opening at i.
// Block comments nest.
func skipBlockComment(src string, i int) int {
	depth := 0
	for i < len(src) {
		switch {
		case strings.HasPrefix(src[i:], "/*"):
			depth++
			i += 2
		case strings.HasPrefix(src[i:], "*/"):
			depth--
			i += 2
			if depth == 0 {
				return i
			}
		default:
			i++
		}
	}
	return i
}

// skipQuoted returns the index just past the literal opening at i. A doubled
// quote stays inside the literal; with backslash set, so does an escaped
// character.
func skipQuoted(src string, i int, quote byte, backslash bool) int {
	for i++; i < len(src); i++ {
		switch src[i] {
		case '\\':
			if backslash {
				i++
			}
		case quote:
			if i+1 < len(src) && src[i+1] == quote {
				i++
				continue
			}
			return i + 1
		}
	}
	return i
}

// escapeString reports whether the quote at i opens an E'...' literal.
func escapeString(src string, i int) bool {
	if i == 0 || (src[i-1] != 'e' && src[i-1] != 'E') {
		return false
	}
	return !identByte(prev(src, i-1))
}

// dollarTag returns the $tag$ opening a dollar-quoted string at i.
func dollarTag(src string, i int) (string, bool) {
	for j := i + 1; j < len(src); j++ {
		c := src[j]
		if c == '$' {
			return src[i : j+1], true
		}
		if !identByte(c) || (j == i+1 && c >= '0' && c <= '9') {
			return "", false
		}
	}
	return "", false
}

func prev(src string, i int) byte {
	if i == 0 {
		return ' '
	}
	return src[i-1]
}

func identByte(c byte) bool {
	return c == '_' || c == '$' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
