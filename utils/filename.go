package utils

import "strings"

// SanitizeFilename reduces a client-supplied name to characters safe for
// server-side storage. Anything outside [A-Za-z0-9._-] becomes an
// underscore; an empty result falls back to "file".
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		// A name reduced to pure underscores is still a name; only
		// dot-only input collapses to the fallback.
		out = strings.Trim(b.String(), ".")
	}
	if out == "" {
		return "file"
	}
	return out
}
