// Package sqltext provides lexical helpers for scanning SQL statements
// without parsing them.
package sqltext

import (
	"bytes"
	"regexp"
	"strings"
)

// Mask returns a copy of query where the contents of string literals,
// quoted identifiers and comments are replaced by spaces. The result has
// the same byte length as query, so offsets found in the masked text can be
// used to edit the original.
//
// If backslash is true, a backslash inside a single- or double-quoted
// string escapes the next byte (MySQL semantics).
func Mask(query string, backslash bool) string {
	b := []byte(query)
	for i := 0; i < len(b); {
		switch c := b[i]; {
		case c == '\'' || c == '"' || c == '`':
			i = maskQuoted(b, i, c, backslash && c != '`')
		case c == '[':
			i = maskUntil(b, i, "]")
		case c == '-' && i+1 < len(b) && b[i+1] == '-':
			i = maskUntil(b, i, "\n")
		case c == '/' && i+1 < len(b) && b[i+1] == '*':
			i = maskUntil(b, i, "*/")
		default:
			i++
		}
	}
	return string(b)
}

// maskQuoted blanks a quoted section opened at b[start]. A doubled quote
// character is an escaped quote. The delimiters are kept.
func maskQuoted(b []byte, start int, q byte, backslash bool) int {
	i := start + 1
	for i < len(b) {
		switch {
		case backslash && b[i] == '\\' && i+1 < len(b):
			b[i], b[i+1] = ' ', ' '
			i += 2
		case b[i] == q && i+1 < len(b) && b[i+1] == q:
			b[i], b[i+1] = ' ', ' '
			i += 2
		case b[i] == q:
			return i + 1
		default:
			b[i] = ' '
			i++
		}
	}
	return i
}

// maskUntil blanks everything after b[start] up to and including end.
// The opening byte is kept for brackets and blanked for comments.
func maskUntil(b []byte, start int, end string) int {
	keepOpen := b[start] == '['
	if !keepOpen {
		b[start] = ' '
	}
	i := start + 1
	for i < len(b) {
		if bytes.HasPrefix(b[i:], []byte(end)) {
			if end == "\n" || end == "]" {
				return i + len(end)
			}
			for j := 0; j < len(end); j++ {
				b[i+j] = ' '
			}
			return i + len(end)
		}
		b[i] = ' '
		i++
	}
	return i
}

// rowKeywords are the leading keywords of statements that produce a result set.
var rowKeywords = map[string]struct{}{
	"SELECT":   {},
	"WITH":     {},
	"SHOW":     {},
	"PRAGMA":   {},
	"EXPLAIN":  {},
	"VALUES":   {},
	"DESCRIBE": {},
	"DESC":     {},
	"TABLE":    {},
}

// returningRe matches a RETURNING clause or an OUTPUT clause. A column
// named returning or output is followed by an operator, a comma or a
// parenthesis instead.
var returningRe = regexp.MustCompile(`(?i)\bRETURNING\s+[^\s=<>!,)]|\bOUTPUT\s+(INSERTED|DELETED)\.`)

// Keyword returns the first keyword of query in upper case, skipping
// leading whitespace, comments and opening parentheses.
func Keyword(query string) string {
	m := strings.TrimLeft(Mask(query, false), " \t\r\n(")
	end := strings.IndexFunc(m, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_')
	})
	if end < 0 {
		end = len(m)
	}
	return strings.ToUpper(m[:end])
}

// ReturnsRows reports whether query is expected to produce a result set:
// either it starts with a row-producing keyword, or it carries a RETURNING
// clause or an OUTPUT inserted./deleted. clause outside of quoted text.
func ReturnsRows(query string) bool {
	if _, ok := rowKeywords[Keyword(query)]; ok {
		return true
	}
	return returningRe.MatchString(Mask(query, false))
}
