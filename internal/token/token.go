// Package token splits raw inbound command lines into tokens.
//
// The inbound side of the wire protocol is deliberately simple:
// whitespace-separated words, where an argument containing spaces is
// wrapped in double quotes.  No escape processing happens beyond
// matching the quoted segment itself, so a backslash inside quotes
// passes through untouched.
package token

import "regexp"

// A token is either a bare word (first char not a quote, no spaces) or
// a double-quoted segment that may contain backslash escapes.  The
// single lenient pass mirrors the quoting rules of the editor side.
var tokenRe = regexp.MustCompile(`\s*([^"\s]\S*|"(?:[^"\\]|\\.)*")`)

// Split tokenizes a raw command line.  Quotes around quoted tokens are
// stripped; interior characters are kept verbatim.  An empty or
// whitespace-only input yields an empty slice.  Malformed input (an
// unterminated quote) is never an error: the scan skips the dangling
// quote and keeps going.
func Split(s string) []string {
	matches := tokenRe.FindAllStringSubmatch(s, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		tok := m[1]
		if len(tok) >= 2 && tok[0] == '"' && tok[len(tok)-1] == '"' {
			tok = tok[1 : len(tok)-1]
		}
		out = append(out, tok)
	}
	return out
}
