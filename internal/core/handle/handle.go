// Package handle turns raw platform usernames into canonical comparison keys
//
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFKD compatibility decomposition, then strip combining marks
// 3 Width fold fullwidth to ASCII
// 4 Trim surrounding whitespace and strip one leading @
// 5 Keep only [A-Za-z0-9_]
// 6 Lowercase
// 7 Truncate to MaxLenX
package handle

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// MaxLenX is the longest handle the x platform allows
const MaxLenX = 15

// Handle is a canonical lowercase username
type Handle string

// Invalid is the explicit marker for input that normalizes to nothing
const Invalid Handle = ""

// Valid reports whether h is not the invalid marker
func (h Handle) Valid() bool { return h != Invalid }

// String implements fmt.Stringer
func (h Handle) String() string { return string(h) }

// pool of fresh transformer chains, a transform.Chain keeps state between calls
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKD,
			runes.Remove(runes.In(unicode.Mn)),
			width.Fold,
		)
	},
}

// Normalize canonicalizes raw; it is pure, total and idempotent
func Normalize(raw string) Handle {
	if raw == "" {
		return Invalid
	}
	s := strings.ToValidUTF8(raw, "")

	if !isASCII(s) {
		tr := chainPool.Get().(transform.Transformer)
		s, _, _ = transform.String(tr, s)
		tr.Reset()
		chainPool.Put(tr)
	}

	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "@")

	var b strings.Builder
	b.Grow(min(len(s), MaxLenX))
	n := 0
	for i := 0; i < len(s) && n < MaxLenX; i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '_':
		case c >= 'A' && c <= 'Z':
			c += 'a' - 'A'
		default:
			continue
		}
		b.WriteByte(c)
		n++
	}
	return Handle(b.String())
}

// NormalizeAll normalizes raw in order, dropping invalid and repeated handles
func NormalizeAll(raw []string) []Handle {
	out := make([]Handle, 0, len(raw))
	seen := make(map[Handle]struct{}, len(raw))
	for _, r := range raw {
		h := Normalize(r)
		if !h.Valid() {
			continue
		}
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	return out
}

// Strings converts handles back to plain strings
func Strings(hs []Handle) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = string(h)
	}
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
