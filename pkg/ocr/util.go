package ocr

import "strings"

// snippet returns a shortened version of text for logging.
func snippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

// splitLines splits raw OCR output into rows, normalizing CRLF.
func splitLines(t string) []string {
	t = strings.ReplaceAll(t, "\r\n", "\n")
	return strings.Split(t, "\n")
}
