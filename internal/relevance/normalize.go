package relevance

import "strings"

const compoundSeparator = "-"

// Normalize lowercases and trims text. It is the only equivalence applied to terms.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// SplitCompound returns the normalized hyphen-delimited parts of a compound term.
// A nil result means the term is not a compound.
func SplitCompound(term string) []string {
	normalized := Normalize(term)
	if !strings.Contains(normalized, compoundSeparator) {
		return nil
	}

	var parts []string
	for _, part := range strings.Split(normalized, compoundSeparator) {
		if p := Normalize(part); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// normalizeSet normalizes values, dropping blanks and duplicates while keeping first-seen order.
func normalizeSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		n := Normalize(v)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// related reports a bidirectional substring relation between two non-empty normalized strings.
func related(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
