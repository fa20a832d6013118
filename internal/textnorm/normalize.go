// Package textnorm canonicalizes user text for obfuscation-resistant
// matching. The output of Normalize contains only lowercase letters, digits
// and single spaces, with leetspeak, diacritics, zero-width characters,
// doubled letters and character-spacing tricks folded away.
package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// leetMap folds the common single-character substitutions. Unmapped
// characters pass through untouched.
var leetMap = map[rune]rune{
	'0': 'o',
	'1': 'i',
	'3': 'e',
	'4': 'a',
	'5': 's',
	'7': 't',
	'@': 'a',
	'$': 's',
}

// stripMarks decomposes accented characters and removes the combining marks
// ("É" -> "e" after lowercasing).
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// zero-width and BOM code points that evade naive matching
func isZeroWidth(r rune) bool {
	switch r {
	case '\u200b', '\u200c', '\u200d', '\u2060', '\ufeff':
		return true
	}
	return false
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Normalize runs the full canonicalization pipeline. The stage order is
// fixed; each stage assumes the previous stage's output shape. Normalize is
// pure and idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	// 1. Unicode compatibility composition + lowercase
	s := strings.ToLower(norm.NFKC.String(text))

	// 2. Diacritic folding
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}

	// 3. Leetspeak substitution, character by character
	s = strings.Map(func(r rune) rune {
		if mapped, ok := leetMap[r]; ok {
			return mapped
		}
		return r
	}, s)

	// 4. Strip zero-width/BOM characters
	s = strings.Map(func(r rune) rune {
		if isZeroWidth(r) {
			return -1
		}
		return r
	}, s)

	// 5. Drop separator runs that sit between two alphanumerics
	//    ("f_u-u...ck" -> "fuuck") without introducing a space.
	s = dropInnerSeparators(s)

	// 6. Remaining non-alphanumeric, non-space characters become token breaks
	s = strings.Map(func(r rune) rune {
		if isAlnum(r) {
			return r
		}
		return ' '
	}, s)

	// 7. Collapse immediately-repeated characters ("awesommme" -> "awesome").
	//    Runs on the whole string, so real doubled letters collapse too;
	//    accepted lossy tradeoff.
	s = collapseRepeats(s)

	// 8. Collapse whitespace runs and trim
	fields := strings.Fields(s)

	// 9. Token rejoin: runs of >=3 consecutive single-character tokens are an
	//    obfuscation pattern ("m a s k e d"); 1-2 single-char tokens are left
	//    alone so real short words survive.
	fields = rejoinSpacedTokens(fields)

	// 10. Final collapse/trim
	return strings.Join(fields, " ")
}

// dropInnerSeparators removes each maximal run of non-alphanumeric,
// non-space characters whose immediate neighbors are both alphanumeric.
func dropInnerSeparators(s string) string {
	rs := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(rs); {
		r := rs[i]
		if isAlnum(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
			i++
			continue
		}

		// maximal separator run [i, j)
		j := i
		for j < len(rs) && !isAlnum(rs[j]) && !unicode.IsSpace(rs[j]) {
			j++
		}
		prevAlnum := i > 0 && isAlnum(rs[i-1])
		nextAlnum := j < len(rs) && isAlnum(rs[j])
		if !(prevAlnum && nextAlnum) {
			// leave the run for the token-break stage
			for k := i; k < j; k++ {
				b.WriteRune(rs[k])
			}
		}
		i = j
	}
	return b.String()
}

// collapseRepeats keeps the first of each run of identical characters.
func collapseRepeats(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var prev rune = -1
	for _, r := range s {
		if r == prev {
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

// rejoinSpacedTokens concatenates every run of >=3 consecutive
// single-character tokens into one token.
func rejoinSpacedTokens(fields []string) []string {
	out := make([]string, 0, len(fields))
	for i := 0; i < len(fields); {
		if utf8.RuneCountInString(fields[i]) != 1 {
			out = append(out, fields[i])
			i++
			continue
		}

		// run of single-character tokens [i, j)
		j := i
		for j < len(fields) && utf8.RuneCountInString(fields[j]) == 1 {
			j++
		}
		if j-i >= 3 {
			out = append(out, strings.Join(fields[i:j], ""))
		} else {
			out = append(out, fields[i:j]...)
		}
		i = j
	}
	return out
}
