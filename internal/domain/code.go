package domain

import "strings"

// CodeSegments splits a dotted code such as "2.1.3" into its segments.
// Trailing "0" segments are dropped so that "1.0" and "1" name the same
// group.
func CodeSegments(code string) []string {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	segs := strings.Split(code, ".")
	for len(segs) > 1 && (segs[len(segs)-1] == "0" || segs[len(segs)-1] == "") {
		segs = segs[:len(segs)-1]
	}
	return segs
}

// CodeKey is the canonical form of a dotted code, so "1" and "1.0" compare
// equal.
func CodeKey(code string) string {
	return strings.Join(CodeSegments(code), ".")
}

// IsCodeParent reports whether parent is a strict dot-prefix of child:
// "1" and "1.0" both parent "1.2", but "1" does not parent "11.2".
func IsCodeParent(parent, child string) bool {
	p := CodeSegments(parent)
	c := CodeSegments(child)
	if len(p) == 0 || len(c) <= len(p) {
		return false
	}
	for i := range p {
		if p[i] != c[i] {
			return false
		}
	}
	return true
}
