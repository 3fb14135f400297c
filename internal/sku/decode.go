package sku

import (
	"encoding/base64"
	"strings"
)

// Decode splits a SKU produced by Resolve back into its product key and
// normalized groups. Product keys never contain Separator, so the first one
// ends the key. ok is false when the suffix is not an encoded selection,
// which is the case for sanitized fallback SKUs.
func Decode(s string) (productKey string, groups []Group, ok bool) {
	key, suffix, found := strings.Cut(s, Separator)
	if !found {
		return s, nil, true
	}

	raw, err := base64.StdEncoding.DecodeString(suffix)
	if err != nil {
		return s, nil, false
	}
	groups, ok = parseCanonical(string(raw))
	if !ok {
		return s, nil, false
	}
	return key, groups, true
}

// parseCanonical reverses Canonical, honoring backslash escapes.
func parseCanonical(s string) ([]Group, bool) {
	var groups []Group
	for _, part := range splitUnescaped(s, '|') {
		nameAndOpts := splitUnescaped(part, ':')
		if len(nameAndOpts) != 2 {
			return nil, false
		}
		g := Group{Name: unescape(nameAndOpts[0])}
		for _, o := range splitUnescaped(nameAndOpts[1], ',') {
			g.Options = append(g.Options, unescape(o))
		}
		groups = append(groups, g)
	}
	return groups, len(groups) > 0
}

// splitUnescaped splits s on sep occurrences not preceded by an escaping
// backslash. Escapes are kept in the returned parts.
func splitUnescaped(s string, sep byte) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
