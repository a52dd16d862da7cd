package analytics

import (
	"strings"
	"unicode"

	meeting "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/application/domain"
)

// stopwords are excluded from the word cloud.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "that": {}, "this": {}, "with": {},
	"was": {}, "are": {}, "but": {}, "not": {}, "you": {}, "have": {},
	"had": {}, "our": {}, "his": {}, "her": {}, "its": {}, "they": {},
	"them": {}, "then": {}, "than": {}, "will": {}, "would": {}, "can": {},
	"could": {}, "should": {}, "what": {}, "when": {}, "where": {}, "there": {},
	"here": {}, "about": {}, "just": {}, "like": {}, "from": {}, "into": {},
}

// WordFrequency counts content words across the transcript, lowercased.
// Words shorter than three characters and common stopwords are skipped.
func WordFrequency(transcript []meeting.TranscriptEntry) map[string]int {
	freq := make(map[string]int)
	for _, entry := range transcript {
		words := strings.FieldsFunc(strings.ToLower(entry.Text), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
		})
		for _, w := range words {
			w = strings.Trim(w, "'")
			if len(w) < 3 {
				continue
			}
			if _, skip := stopwords[w]; skip {
				continue
			}
			freq[w]++
		}
	}
	return freq
}
