package search

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// summarizer builds a result summary out of the page sentences that mention
// at least one search term.
type summarizer struct {
	terms map[string]struct{}

	// Maximum summary length in characters, not counting separators.
	maxLen int
}

type scoredSentence struct {
	// Index of the sentence within the page text.
	pos   int
	text  string
	score float64
}

func newMatchSummarizer(query string, maxLen int) *summarizer {
	terms := make(map[string]struct{})
	for _, term := range strings.Fields(strings.Trim(query, `"`)) {
		terms[strings.ToLower(term)] = struct{}{}
	}

	return &summarizer{terms: terms, maxLen: maxLen}
}

// Summary returns the best matching sentences of content in page order.
// Higher scoring sentences claim the length budget first and the last one
// picked may be cut short. Sentences that were not adjacent in the page are
// joined with an ellipsis.
func (s *summarizer) Summary(content string) string {
	var picked []scoredSentence
	for pos, text := range splitSentences(content) {
		if score := s.score(text); score > 0 {
			picked = append(picked, scoredSentence{pos: pos, text: text, score: score})
		}
	}

	sort.SliceStable(picked, func(i, j int) bool {
		return picked[i].score > picked[j].score
	})

	n := 0
	for budget := s.maxLen; n < len(picked) && budget > 0; n++ {
		length := utf8.RuneCountInString(picked[n].text)
		if length > budget {
			picked[n].text = string([]rune(picked[n].text)[:budget]) + "..."
		}

		budget -= length
	}

	picked = picked[:n]
	sort.Slice(picked, func(i, j int) bool {
		return picked[i].pos < picked[j].pos
	})

	var b strings.Builder
	for i, sentence := range picked {
		switch {
		case i == 0:
		case sentence.pos == picked[i-1].pos+1:
			b.WriteByte(' ')
		default:
			b.WriteString("... ")
		}

		b.WriteString(sentence.text)

		if last, _ := utf8.DecodeLastRuneInString(sentence.text); !isTerminator(last) {
			b.WriteByte('.')
		}
	}

	return b.String()
}

// score is the share of words in sentence that are search terms.
func (s *summarizer) score(sentence string) float64 {
	words := strings.Fields(sentence)
	if len(words) == 0 {
		return 0
	}

	var matched int
	for _, word := range words {
		word = strings.ToLower(strings.TrimFunc(word, unicode.IsPunct))
		if _, ok := s.terms[word]; ok {
			matched++
		}
	}

	return float64(matched) / float64(len(words))
}

// splitSentences breaks text after every terminator that follows a
// non-capital character and precedes whitespace or a capital letter, so
// version numbers such as "v1.2" stay whole.
func splitSentences(text string) []string {
	var (
		runes     = []rune(text)
		sentences []string
		start     int
	)

	flush := func(end int) {
		if sentence := strings.TrimSpace(string(runes[start:end])); sentence != "" {
			sentences = append(sentences, sentence)
		}

		start = end
	}

	for i := 1; i+1 < len(runes); i++ {
		prev, cur, next := runes[i-1], runes[i], runes[i+1]
		if isTerminator(cur) && !unicode.IsUpper(prev) && !isTerminator(prev) &&
			(unicode.IsSpace(next) || unicode.IsUpper(next)) {

			flush(i + 1)
		}
	}

	flush(len(runes))

	return sentences
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
