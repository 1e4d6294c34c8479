package ocr

import (
	"regexp"
	"strings"
)

// disallowedRE matches anything OCR may emit that carries no item or price
// information: everything except letters, digits, underscore, whitespace, '.', '$' and ','.
// Whitespace is Unicode-wide (NBSP and friends), not just ASCII \s.
var disallowedRE = regexp.MustCompile(`[^\p{L}\p{N}_\s\p{Z}\x{1c}-\x{1f}\x{85}.$,]`)

// excludeKeywords mark receipt metadata lines (totals, tenders, savings).
var excludeKeywords = []string{
	"subtotal", "total", "change", "balance",
	"amount due", "grand total", "payment", "visa", "mastercard",
	"credit", "debit", "cash", "thank you", "regular price",
	"discount", "savings", "you saved",
}

// CleanLine keeps only alphanumerics and the characters prices need.
func CleanLine(line string) string {
	return disallowedRE.ReplaceAllString(line, "")
}

// SanitizeLines cleans every line, one output per input, order preserved.
func SanitizeLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = CleanLine(l)
	}
	return out
}

// ShouldExclude reports whether a line names a total, tender or discount
// rather than a purchasable item. Matching is case-insensitive.
func ShouldExclude(line string) bool {
	low := strings.ToLower(line)
	for _, kw := range excludeKeywords {
		if strings.Contains(low, kw) {
			return true
		}
	}
	return false
}
