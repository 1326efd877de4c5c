package infopoisk

import "strings"

// ═══════════════════════════════════════════════════════════════════════════════
// STEMMER
// ═══════════════════════════════════════════════════════════════════════════════
// A fixed five-step suffix-stripping stemmer (Porter-family, but not a
// faithful Porter implementation — see the step 2 and measure() notes below,
// both preserved exactly as this engine's spec defines them rather than
// "corrected" to match the canonical algorithm).
//
// EXAMPLE:
// --------
//
//	Stem("relational")  → "relat"    (step 2: ational → ate; step 5 drops the e)
//	Stem("conditional") → "condit"   (step 2: tional → tion; step 4 drops ion after t)
//	Stem("happiness")   → "happiness" (step 2 table has no "iness" entry)
// ═══════════════════════════════════════════════════════════════════════════════

var step1Suffixes = []string{"sses", "ies", "ss", "s"}

// step2Suffixes lists every suffix step 2 recognizes as an ending, in the
// fixed priority order it checks them. Only five of the twenty — ational,
// tional, enci, anci, izer — actually have a replacement wired up below;
// the rest are historical Porter-algorithm entries that this engine's
// table never finished mapping. A stem ending in, say, "alism" or "biliti"
// matches here and then falls straight through the step, untouched.
var step2Suffixes = []string{
	"ational", "tional", "enci", "anci", "izer", "abli", "alli",
	"entli", "eli", "ousli", "ization", "ation", "ator", "alism",
	"iveness", "fulness", "ousness", "aliti", "iviti", "biliti",
}

var step3Suffixes = []string{"icate", "ative", "alize", "iciti", "ical", "ful", "ness"}

var step4Suffixes = []string{
	"al", "ance", "ence", "er", "ic", "able", "ible", "ant",
	"ement", "ment", "ent", "ion", "ou", "ism", "ate", "iti",
	"ous", "ive", "ize",
}

// Stem reduces word to its stem by applying all five steps in order. Words
// shorter than three characters are returned unchanged.
func Stem(word string) string {
	if len(word) < 3 {
		return word
	}
	result := word
	result = stemStep1(result)
	result = stemStep2(result)
	result = stemStep3(result)
	result = stemStep4(result)
	result = stemStep5(result)
	return result
}

// stemStep1 handles plurals and possessive-looking endings.
func stemStep1(word string) string {
	switch {
	case strings.HasSuffix(word, "sses"):
		return replaceSuffix(word, "sses", "ss")
	case strings.HasSuffix(word, "ies"):
		return replaceSuffix(word, "ies", "i")
	case strings.HasSuffix(word, "ss"):
		return word
	case strings.HasSuffix(word, "s"):
		return replaceSuffix(word, "s", "")
	}
	return word
}

// stemStep2 replaces the first step2Suffixes entry the word ends with, but
// only when measure(stem) > 0 AND the suffix is one of the five the table
// actually maps (see step2Suffixes doc comment). Checked in table order;
// a matching suffix that is unmapped (or whose stem has measure 0) moves
// on to the later candidates, and since all five mapped suffixes come
// first in the table, such a word ends up unchanged.
func stemStep2(word string) string {
	for _, suffix := range step2Suffixes {
		if !strings.HasSuffix(word, suffix) {
			continue
		}
		stem := word[:len(word)-len(suffix)]
		if measure(stem) > 0 {
			switch suffix {
			case "ational":
				return stem + "ate"
			case "tional":
				return stem + "tion"
			case "enci":
				return stem + "ence"
			case "anci":
				return stem + "ance"
			case "izer":
				return stem + "ize"
			}
		}
	}
	return word
}

func stemStep3(word string) string {
	for _, suffix := range step3Suffixes {
		if !strings.HasSuffix(word, suffix) {
			continue
		}
		stem := word[:len(word)-len(suffix)]
		if measure(stem) > 0 {
			switch suffix {
			case "icate":
				return stem + "ic"
			case "ative":
				return stem
			case "alize":
				return stem + "al"
			case "iciti":
				return stem + "ic"
			}
		}
	}
	return word
}

// stemStep4 strips a final step4Suffixes entry when measure(stem) > 1. The
// "ion" suffix additionally requires the stripped stem to end in 's' or 't'.
func stemStep4(word string) string {
	for _, suffix := range step4Suffixes {
		if !strings.HasSuffix(word, suffix) {
			continue
		}
		stem := word[:len(word)-len(suffix)]
		if measure(stem) > 1 {
			if suffix == "ion" {
				if last := stem[len(stem)-1]; last == 's' || last == 't' {
					return stem
				}
				continue
			}
			return stem
		}
	}
	return word
}

// stemStep5 performs final cleanup: drop a trailing 'e' under the usual
// measure/cvc conditions, then collapse a trailing double 'l'.
func stemStep5(word string) string {
	if strings.HasSuffix(word, "e") {
		stem := word[:len(word)-1]
		m := measure(stem)
		if m > 1 {
			return stem
		}
		if m == 1 && !endsWithCVC(stem) {
			return stem
		}
	}

	if strings.HasSuffix(word, "ll") && measure(word) > 1 {
		return word[:len(word)-1]
	}

	return word
}

func replaceSuffix(word, oldSuffix, newSuffix string) string {
	return word[:len(word)-len(oldSuffix)] + newSuffix
}

// measure counts vowel-to-consonant transitions in stem — the number of
// times a run of vowels is immediately followed by a run of consonants.
// This is the complementary count to the canonical Porter "VC count"
// (which counts consonant-to-vowel transitions); this engine counts the
// other direction, so compared with a consonant-to-vowel count its
// measure() can run one higher on words that start with a vowel ("oats"
// gives 1 here, 0 the other way) and one lower on words that start with
// a consonant.
func measure(stem string) int {
	count := 0
	lastWasVowel := false

	for i := 0; i < len(stem); i++ {
		isVowel := isVowelChar(stem[i])
		if lastWasVowel && !isVowel {
			count++
		}
		lastWasVowel = isVowel
	}

	return count
}

func isVowelChar(c byte) bool {
	c = lowerByte(c)
	return c == 'a' || c == 'e' || c == 'i' || c == 'o' || c == 'u'
}

// endsWithCVC reports whether word ends in consonant-vowel-consonant, with
// the final consonant not being w, x, or y.
func endsWithCVC(word string) bool {
	if len(word) < 3 {
		return false
	}
	c1, c2, c3 := word[len(word)-3], word[len(word)-2], word[len(word)-1]
	return !isVowelChar(c1) && isVowelChar(c2) && !isVowelChar(c3) &&
		c3 != 'w' && c3 != 'x' && c3 != 'y'
}
