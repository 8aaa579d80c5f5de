package fetch

import "strings"

const upperhex = "0123456789ABCDEF"

// EncodePath percent-encodes every segment of a route while keeping the
// "/" separators and any query string intact.
//
// Identifiers such as tickers, names and inscription ids may carry
// non-ASCII or reserved characters, so each segment is encoded on its own.
// Only unreserved characters (ALPHA, DIGIT, "-", "_", ".", "~") pass through
// unchanged; an already-safe path is returned as-is. The query string is
// left untouched and callers must pre-encode its values.
func EncodePath(path string) string {
	route, query, _ := strings.Cut(path, "?")

	segs := strings.Split(route, "/")
	for i, seg := range segs {
		segs[i] = escapeSegment(seg)
	}

	encoded := strings.Join(segs, "/")
	if query != "" {
		encoded += "?" + query
	}
	return encoded
}

// escapeSegment encodes every byte outside the unreserved set as %XX.
// net/url offers no way to pick the safe set, and url.PathEscape keeps
// sub-delimiters such as ":" "@" "&" "=" which must be encoded here.
func escapeSegment(seg string) string {
	n := 0
	for i := 0; i < len(seg); i++ {
		if !unreserved(seg[i]) {
			n++
		}
	}
	if n == 0 {
		return seg
	}

	var b strings.Builder
	b.Grow(len(seg) + 2*n)
	for i := 0; i < len(seg); i++ {
		c := seg[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}
