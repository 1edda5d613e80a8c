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

package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"unicode"
)

const (
	// DefaultThreshold is the Jaccard similarity at which two texts are near duplicates.
	DefaultThreshold = 0.9
	// Texts with fewer distinct words are only compared by hash.
	minTokens = 5
)

// Normalize lowercases s, drops punctuation and symbols and collapses whitespace. Marks
// and joiners are kept so Sinhala and Tamil words survive intact.
func Normalize(s string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsSpace(r):
			space = b.Len() > 0
		case unicode.IsLetter(r), unicode.IsMark(r), unicode.IsDigit(r), r == '_', r == '\u200c', r == '\u200d':
			if space {
				b.WriteByte(' ')
				space = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Hash returns the hex SHA-256 of the normalized text.
func Hash(s string) string {
	sum := sha256.Sum256([]byte(Normalize(s)))
	return hex.EncodeToString(sum[:])
}

type tokenSet map[string]struct{}

func tokens(s string) tokenSet {
	set := tokenSet{}
	for _, w := range strings.Fields(Normalize(s)) {
		set[w] = struct{}{}
	}
	return set
}

func jaccard(a, b tokenSet) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := 0
	for w := range a {
		if _, ok := b[w]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(a)+len(b)-shared)
}

// Similarity is the Jaccard similarity of the word sets of a and b.
func Similarity(a, b string) float64 {
	return jaccard(tokens(a), tokens(b))
}

// Match describes the earlier text a new one duplicates.
type Match struct {
	ID         string  `json:"original_id"`
	Similarity float64 `json:"similarity_score"`
	Exact      bool    `json:"is_exact"`
}

type entry struct {
	id     string
	tokens tokenSet
}

// Index remembers the texts seen so far. It is safe for concurrent use.
type Index struct {
	mut       sync.Mutex
	threshold float64
	hashes    map[string]string
	entries   []entry
}

// NewIndex returns an Index reporting near duplicates at or above threshold. A
// threshold outside (0, 1] uses DefaultThreshold.
func NewIndex(threshold float64) *Index {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Index{threshold: threshold, hashes: map[string]string{}}
}

/**
	Check reports whether s duplicates a text already in the index and, if not, adds it
	under id.

	An identical normalized text is an exact duplicate. Otherwise the most similar earlier
	text with at least five distinct words is a near duplicate when its similarity reaches
	the threshold.
**/
func (idx *Index) Check(id, s string) (Match, bool) {
	idx.mut.Lock()
	defer idx.mut.Unlock()

	hash := Hash(s)
	if original, ok := idx.hashes[hash]; ok {
		return Match{ID: original, Similarity: 1, Exact: true}, true
	}

	set := tokens(s)
	var best Match
	if len(set) >= minTokens {
		for _, e := range idx.entries {
			if sim := jaccard(set, e.tokens); sim > best.Similarity {
				best = Match{ID: e.id, Similarity: sim}
			}
		}
		if best.Similarity >= idx.threshold {
			return best, true
		}
	}

	idx.hashes[hash] = id
	if len(set) >= minTokens {
		idx.entries = append(idx.entries, entry{id: id, tokens: set})
	}
	return Match{}, false
}
