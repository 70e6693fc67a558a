package core

import (
	"fmt"
	"strings"
)

// JoinURL resolves ref against base the way the upstream manifest expects:
// absolute refs win, refs starting with "/" resolve against the host root,
// and a base without a trailing slash loses its final path segment.
func JoinURL(base, ref string) string {
	if ref == "" {
		return base
	}
	if strings.Contains(ref, "://") {
		return ref
	}
	start := 0
	if at := strings.Index(base, "://"); at >= 0 {
		start = at + 3
	}
	if strings.HasPrefix(ref, "/") {
		if slash := strings.IndexByte(base[start:], '/'); slash >= 0 {
			return base[:start+slash] + ref
		}
		return base + ref
	}
	if strings.HasSuffix(base, "/") {
		return base + ref
	}
	if slash := strings.LastIndexByte(base[start:], '/'); slash >= 0 {
		return base[:start+slash+1] + ref
	}
	return base + "/" + ref
}

// EscapeResourceURL percent-encodes everything outside the unreserved set
// while preserving the scheme delimiter and path separators, so destinations
// containing spaces or non-ASCII names survive the trip to the CDN.
func EscapeResourceURL(raw string) string {
	var builder strings.Builder
	builder.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if unreservedURLByte(c) || c == ':' || c == '/' {
			builder.WriteByte(c)
		} else {
			_, _ = fmt.Fprintf(&builder, "%%%02X", c)
		}
	}
	return builder.String()
}

func unreservedURLByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_' || c == '.' || c == '~':
		return true
	}
	return false
}
