package chatbot

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	wordPattern  = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	pricePattern = regexp.MustCompile(`\$?(\d+(?:\.\d{2})?)`)
)

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// extractTerms lower-cases the message and keeps the words that are not stop
// words and longer than two characters, in message order.
func extractTerms(message string) []string {
	words := wordPattern.FindAllString(strings.ToLower(message), -1)
	terms := make([]string, 0, len(words))
	for _, w := range words {
		if _, stop := stopWords[w]; stop {
			continue
		}
		if utf8.RuneCountInString(w) <= 2 {
			continue
		}
		terms = append(terms, w)
	}
	return terms
}

// extractPrices returns the numbers found in the message, a leading dollar
// sign allowed.
func extractPrices(message string) []float64 {
	matches := pricePattern.FindAllStringSubmatch(message, -1)
	out := make([]float64, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}
