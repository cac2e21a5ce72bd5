package extractor

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// rightDelimiters may directly follow a term, besides whitespace
const rightDelimiters = ".,;!?)"

// termPattern matches one lowercase taxonomy term with word-like boundaries
type termPattern struct {
	term string
	re   *regexp.Regexp
}

func compileTerm(term string) (termPattern, bool) {
	term = strings.TrimSpace(term)
	if term == "" {
		return termPattern{}, false
	}
	return termPattern{
		term: term,
		re:   regexp.MustCompile(regexp.QuoteMeta(term)),
	}, true
}

// count returns the number of non-overlapping hits of p in text that sit on
// valid boundaries. text must already be lowercased.
func (p termPattern) count(text string) int {
	n := 0
	pos := 0
	for pos < len(text) {
		loc := p.re.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if end == start {
			break
		}
		if leftBoundary(text, start) && rightBoundary(text, end) {
			n++
			pos = end
			continue
		}
		// only skip the first rune so an adjacent valid hit is still seen
		_, size := utf8.DecodeRuneInString(text[start:])
		pos = start + size
	}
	return n
}

func leftBoundary(text string, start int) bool {
	if start == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:start])
	return unicode.IsSpace(r)
}

func rightBoundary(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[end:])
	return unicode.IsSpace(r) || strings.ContainsRune(rightDelimiters, r)
}
