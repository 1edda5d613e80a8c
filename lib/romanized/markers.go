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

package romanized

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/rs/zerolog/log"
)

// Markers maps a category (question_words, pronouns, ...) to its marker words.
type Markers map[string][]string

var defaultSinglishMarkers = Markers{
	"question_words": {"koheda", "mokakda", "kawda", "keeyada", "aida", "monawada"},
	"pronouns":       {"mama", "oya", "api", "umba", "eyaa", "mage", "oyage"},
	"particles":      {"da", "neda", "ne", "ko", "lu", "ado", "aney"},
	"verbs":          {"ganna", "yanna", "enna", "kanna", "bonna", "karanna", "innava"},
	"common_phrases": {"kohomada", "mokada", "harida", "epane", "ithin", "namuth"},
}

var defaultTamilishMarkers = Markers{
	"question_words": {"enna", "enga", "eppo", "evlo", "yaru", "ethu"},
	"pronouns":       {"naan", "nee", "avan", "aval", "naanga", "neengal"},
	"particles":      {"la", "le", "lam", "pola", "thaan", "um"},
	"verbs":          {"vaa", "poo", "saapdu", "paru", "keelu", "sollu", "pannunga"},
	"common_phrases": {"epdi", "inga", "anga", "appuram", "mudiyuma", "theriyuma", "illai"},
}

// englishHealthTerms never count as Singlish or Tamilish evidence.
var englishHealthTerms = wordSet{
	"clinic":      {},
	"hospital":    {},
	"doctor":      {},
	"fever":       {},
	"dengue":      {},
	"vaccine":     {},
	"appointment": {},
	"opd":         {},
	"patient":     {},
	"medicine":    {},
	"pharmacy":    {},
	"emergency":   {},
}

type wordSet map[string]struct{}

func (w wordSet) has(word string) bool {
	_, ok := w[word]
	return ok
}

func (m Markers) flatten() wordSet {
	set := wordSet{}
	for _, words := range m {
		for _, word := range words {
			set[strings.ToLower(word)] = struct{}{}
		}
	}
	return set
}

type markerFile struct {
	Singlish Markers `json:"singlish_markers"`
	Tamilish Markers `json:"tamilish_markers"`
}

// LoadMarkers reads a marker pattern JSON file. Either key may be absent, in which
// case the returned Markers for it is nil.
func LoadMarkers(path string) (singlish, tamilish Markers, err error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var f markerFile
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, nil, fmt.Errorf("parse %v: %w", path, err)
	}
	log.Info().Str("path", path).Msg("loaded romanized marker patterns")
	return f.Singlish, f.Tamilish, nil
}
