package scan

import (
	"regexp"
	"strings"
)

// Inward numbers as stamped by the office: an optional short letter prefix,
// a serial, and an optional /year suffix, e.g. "IN-001", "REV/1234/2024",
// "456/2025". Bare years and long digit runs are excluded below.
var inwardRE = regexp.MustCompile(`\b(?:[A-Z]{1,4}[-/])?\d{1,6}(?:/\d{4})?\b`)

var yearOnlyRE = regexp.MustCompile(`^(19|20)\d{2}$`)

// FindInwardCandidates pulls inward-number-shaped tokens out of OCR text,
// deduplicated, in the order they appear. Tokens appearing near the words
// "inward" or "क्रमांक" are promoted to the front.
func FindInwardCandidates(text string) []string {
	upper := strings.ToUpper(text)
	seen := make(map[string]bool)
	var promoted, rest []string
	for _, line := range strings.Split(upper, "\n") {
		near := strings.Contains(line, "INWARD") || strings.Contains(line, "क्रमांक")
		for _, tok := range inwardRE.FindAllString(line, -1) {
			if yearOnlyRE.MatchString(tok) {
				continue
			}
			if len(tok) < 2 || seen[tok] {
				continue
			}
			seen[tok] = true
			if near {
				promoted = append(promoted, tok)
			} else {
				rest = append(rest, tok)
			}
		}
	}
	return append(promoted, rest...)
}
