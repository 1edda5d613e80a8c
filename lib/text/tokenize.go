/*
 * Copyright 2022 Medicines Discovery Catapult
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package text

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/blevesearch/segment"
)

// Token is a run of text with its rune offset in the text it was cut from.
type Token struct {
	Text   string
	Offset int
}

var latinWord = regexp.MustCompile(`[a-z]+`)

// LatinTokens lowercases s and returns every maximal run of a-z. Digits, punctuation
// and any other rune act as separators. Offsets are rune offsets into s.
func LatinTokens(s string) []Token {
	// Only ASCII letters can form tokens, so folding ASCII is enough and keeps byte
	// positions of lower aligned with s.
	lower := asciiLower(s)
	offsets := RuneOffsets(lower)
	matches := latinWord.FindAllStringIndex(lower, -1)
	tokens := make([]Token, 0, len(matches))
	for _, m := range matches {
		tokens = append(tokens, Token{
			Text:   lower[m[0]:m[1]],
			Offset: offsets[m[0]],
		})
	}
	return tokens
}

func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

// RuneOffsets maps every byte position of s (and len(s)) to the index of the rune
// that contains it.
func RuneOffsets(s string) []int {
	offsets := make([]int, len(s)+1)
	n := 0
	for i := 0; i < len(s); i++ {
		offsets[i] = n
		if i+1 == len(s) || utf8.RuneStart(s[i+1]) {
			n++
		}
	}
	offsets[len(s)] = n
	return offsets
}

// Boundaries holds the byte positions of s at which a word may start or end.
type Boundaries []bool

/**
	WordBoundaries records every position of s at which a word may start or end.

	Boundaries come from Unicode text segmentation (UAX #29), so combining vowel signs and
	joiners in Sinhala or Tamil words stay inside the word and "ඩෙංගු" is a single word.
	UAX #29 also keeps apostrophes and periods between letters inside a word; those are
	split again so that "dengue's" and "dengue.Fever" both end a word after "dengue".
	Any position whose two neighbouring runes are not both word runes is a boundary.
**/
func WordBoundaries(s string) Boundaries {
	boundaries := make(Boundaries, len(s)+1)
	boundaries[0] = true
	boundaries[len(s)] = true

	segmenter := segment.NewWordSegmenterDirect([]byte(s))
	position := 0
	for segmenter.Segment() {
		position += len(segmenter.Bytes())
		if position <= len(s) {
			boundaries[position] = true
		}
	}
	if err := segmenter.Err(); err != nil {
		// The segmenter gave up part way. Fall back to rune boundaries for the rest
		// so that matching degrades to substring matching instead of failing.
		for i := position; i < len(s); i++ {
			if utf8.RuneStart(s[i]) {
				boundaries[i] = true
			}
		}
	}

	prev := rune(-1)
	for i, r := range s {
		if i > 0 && !(isWordRune(prev) && isWordRune(r)) {
			boundaries[i] = true
		}
		prev = r
	}
	return boundaries
}

const (
	zeroWidthNonJoiner = '\u200c'
	zeroWidthJoiner    = '\u200d'
)

// isWordRune reports whether r can continue a word. Joiners are part of Sinhala
// conjuncts such as "ද්‍ය".
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) || r == '_' ||
		r == zeroWidthNonJoiner || r == zeroWidthJoiner
}

// IsWord reports whether the byte span [start, end) begins and ends on a word boundary.
func (b Boundaries) IsWord(start, end int) bool {
	if start < 0 || end >= len(b) || start >= end {
		return false
	}
	return b[start] && b[end]
}

// FindWholeWords returns the byte spans of every non-overlapping match of re in s that
// starts and ends on a word boundary.
func FindWholeWords(re *regexp.Regexp, s string, boundaries Boundaries) [][]int {
	var spans [][]int
	for _, m := range re.FindAllStringIndex(s, -1) {
		if boundaries.IsWord(m[0], m[1]) {
			spans = append(spans, m)
		}
	}
	return spans
}
