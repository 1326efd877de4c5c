package infopoisk

import (
	"strings"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════════
// TOKENIZER
// ═══════════════════════════════════════════════════════════════════════════════
// Splits raw text into lowercased alphanumeric tokens with stopword and
// pattern filtering. Unlike a Unicode-aware splitter, this scans byte by
// byte and treats anything outside ASCII as a plain separator — the corpus
// this engine was built for (scraped web text) carries handles, hashtags,
// and escaped HTML entities that a generic word-splitter would mangle.
//
// EXAMPLE:
// --------
//
//	Tokenize("Check out @handle #golang state-of-the-art fashion's designs")
//	→ tokens: ["check", "golang", "state-of-the-art", "fashion's", "designs"]
//	   (stopwords "the" inside the hyphen run survive because they're part of
//	   one token; "out" is in the stopword list and is dropped; tokens are
//	   not stemmed here, so "designs" keeps its "s")
// ═══════════════════════════════════════════════════════════════════════════════

// TokenizeResult carries the token stream plus the bookkeeping spec §4.1
// asks for: total characters emitted and elapsed processing time.
type TokenizeResult struct {
	Tokens         []string
	TotalCharCount int
	ElapsedMillis  float64
}

// Tokenize runs the full pipeline described in spec §4.1 over text.
func Tokenize(text string) TokenizeResult {
	start := time.Now()

	var result TokenizeResult
	var current strings.Builder

	emit := func() {
		if current.Len() == 0 {
			return
		}
		tok := current.String()
		current.Reset()
		if cleaned, ok := cleanupAndFilter(tok); ok {
			result.Tokens = append(result.Tokens, cleaned)
			result.TotalCharCount += len(cleaned)
		}
	}

	data := []byte(text)
	for i := 0; i < len(data); i++ {
		c := data[i]

		if isTokenChar(c, current.String(), data, i) {
			current.WriteByte(lowerByte(c))
			continue
		}

		// Non-token byte: whatever was being accumulated ends here.
		emit()

		switch c {
		case '@':
			i = skipUntilWhitespace(data, i)
		case '#':
			i = consumeHashtag(data, i, &result)
		case '&':
			if next, ok := skipHTMLEntity(data, i); ok {
				i = next - 1
			}
		}
	}
	emit()

	result.ElapsedMillis = float64(time.Since(start).Nanoseconds()) / 1e6
	return result
}

// isTokenChar decides whether byte c continues the token currently being
// accumulated (spec §4.1 rules a–c).
func isTokenChar(c byte, current string, data []byte, i int) bool {
	if isASCIIAlnum(c) {
		return true
	}
	if c == '\'' && current != "" && !strings.Contains(current, "'") {
		return true
	}
	if c == '-' && current != "" && i+1 < len(data) && isASCIIAlnum(data[i+1]) {
		return true
	}
	return false
}

func isASCIIAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func lowerByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c - 'A' + 'a'
	}
	return c
}

// skipUntilWhitespace strips an @handle by advancing past it; returns the
// index the outer loop's i++ should resume from.
func skipUntilWhitespace(data []byte, i int) int {
	j := i + 1
	for j < len(data) && !isASCIISpace(data[j]) {
		j++
	}
	return j - 1
}

func isASCIISpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

// consumeHashtag reads the alphanumeric-or-underscore run following '#' and
// emits it as its own token when longer than one character.
func consumeHashtag(data []byte, i int, result *TokenizeResult) int {
	j := i + 1
	start := j
	for j < len(data) && (isASCIIAlnum(data[j]) || data[j] == '_') {
		j++
	}
	tag := string(data[start:j])
	if len(tag) > 1 {
		tag = strings.ToLower(tag)
		result.Tokens = append(result.Tokens, tag)
		result.TotalCharCount += len(tag)
	}
	return j - 1
}

// skipHTMLEntity matches the literal prefixes "&amp;" and "&quot;" starting
// at data[i] (which must be '&'). Returns (i+len(match), true) on a match,
// or (0, false) when data[i:] is not one of the two recognized entities.
func skipHTMLEntity(data []byte, i int) (int, bool) {
	for _, entity := range [...]string{"&amp;", "&quot;"} {
		if i+len(entity) <= len(data) && string(data[i:i+len(entity)]) == entity {
			return i + len(entity), true
		}
	}
	return 0, false
}

// cleanupAndFilter applies the stopword/pattern filters to the raw,
// untrimmed token first, then trims leading/trailing apostrophes and
// hyphens and collapses "--" runs, then checks length — in that order,
// matching original_source/src/tokenizer.cpp's process_token (which runs
// should_filter_token before cleanup_token). The order matters: a raw
// token like "2024'" is not an exact stopword/all-digit match (the
// trailing apostrophe keeps it from being all-digit) and so survives to
// be trimmed into the kept term "2024"; trimming first would reject it
// as all-digit. Likewise a raw "the'" is not an exact stopword match
// until after trimming, so it passes the filter here exactly as the
// original does. Returns (cleaned, false) when the token should be
// dropped.
func cleanupAndFilter(tok string) (string, bool) {
	if isStopword(tok) {
		return "", false
	}
	if strings.HasPrefix(tok, "http") || strings.HasPrefix(tok, "www.") {
		return "", false
	}
	if isAllDigits(tok) {
		return "", false
	}

	tok = trimApostropheHyphen(tok)
	tok = collapseHyphenRuns(tok)

	if len(tok) < 2 || len(tok) > 50 {
		return "", false
	}
	return tok, true
}

func trimApostropheHyphen(tok string) string {
	for len(tok) > 0 && (tok[0] == '\'' || tok[0] == '-') {
		tok = tok[1:]
	}
	for len(tok) > 0 && (tok[len(tok)-1] == '\'' || tok[len(tok)-1] == '-') {
		tok = tok[:len(tok)-1]
	}
	return tok
}

func collapseHyphenRuns(tok string) string {
	for strings.Contains(tok, "--") {
		tok = strings.ReplaceAll(tok, "--", "-")
	}
	return tok
}

func isAllDigits(tok string) bool {
	for i := 0; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return false
		}
	}
	return true
}

// isStopword reports whether tok is in the fixed stopword set (spec glossary).
func isStopword(tok string) bool {
	_, ok := stopwords[tok]
	return ok
}

// stopwords is the fixed small stopword set from spec.md's glossary — much
// smaller than the teacher's 300-word English stopword list, which belongs
// to a general-purpose search engine, not this specification.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {}, "you": {},
	"all": {}, "any": {}, "can": {}, "her": {}, "was": {}, "one": {}, "our": {},
	"out": {}, "day": {}, "get": {}, "has": {}, "him": {}, "his": {}, "how": {},
	"man": {}, "new": {}, "now": {}, "old": {}, "see": {}, "two": {}, "who": {},
	"boy": {}, "did": {}, "its": {}, "let": {}, "put": {}, "say": {}, "she": {},
	"too": {}, "use": {}, "way": {}, "why": {}, "yes": {}, "yet": {},
}
