// Package tokenize implements the shared "non-alphanumeric becomes a
// separator" tokenization rule used identically at index-build time and at
// query time.
package tokenize

// isTermByte reports whether b is part of the term alphabet [0-9A-Za-z].
func isTermByte(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// Normalize replaces every byte in content that is not alphanumeric, tab,
// or newline with a single ASCII space, in place. The segment builder
// applies it to each document body after splitting the input into lines
// and separating the docId at the first tab.
func Normalize(content []byte) {
	for i, b := range content {
		if b == '\t' || b == '\n' || isTermByte(b) {
			continue
		}
		content[i] = ' '
	}
}

// Split splits s on runs of non-alphanumeric bytes and returns the
// nonempty terms found, in order.
func Split(s string) []string {
	var terms []string
	start := -1
	for i := 0; i < len(s); i++ {
		if isTermByte(s[i]) {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			terms = append(terms, s[start:i])
			start = -1
		}
	}
	if start != -1 {
		terms = append(terms, s[start:])
	}
	return terms
}

// SplitUnique splits s into terms the same way Split does, but deduplicates
// while preserving first-occurrence order, matching the query-term
// preparation contract.
func SplitUnique(s string) []string {
	terms := Split(s)
	seen := make(map[string]bool, len(terms))
	out := terms[:0]
	for _, term := range terms {
		if seen[term] {
			continue
		}
		seen[term] = true
		out = append(out, term)
	}
	return out
}
