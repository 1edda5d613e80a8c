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

package domain

import (
	"regexp"
	"sort"

	"github.com/lk-health/corpus-annotator/lib/text"
)

type Domain string

const (
	Dengue         Domain = "dengue"
	Covid          Domain = "covid"
	Vaccination    Domain = "vaccination"
	MentalHealth   Domain = "mental_health"
	MaternalHealth Domain = "maternal_health"
	ChildHealth    Domain = "child_health"
	OPD            Domain = "opd"
	Emergency      Domain = "emergency"
	Pharmacy       Domain = "pharmacy"
	Laboratory     Domain = "laboratory"
	Dental         Domain = "dental"
	Eye            Domain = "eye"
	General        Domain = "general"
)

// Domains is the declaration order used to break ties between equal confidences.
var Domains = []Domain{
	Dengue, Covid, Vaccination, MentalHealth, MaternalHealth, ChildHealth,
	OPD, Emergency, Pharmacy, Laboratory, Dental, Eye,
}

const (
	perKeyword        = 0.25
	baseConfidence    = 0.4
	noMatchConfidence = 0.3
)

type Tag struct {
	Domain          Domain   `json:"domain"`
	Confidence      float64  `json:"confidence"`
	MatchedKeywords []string `json:"matched_keywords"`
}

type Result struct {
	Primary       Domain   `json:"primary_domain"`
	Confidence    float64  `json:"confidence"`
	All           []Tag    `json:"all_domains"`
	KeywordsFound []string `json:"keywords_found"`
}

type keyword struct {
	word string
	re   *regexp.Regexp
}

// Tagger assigns health domains by whole-word keyword matching. Word boundaries follow
// Unicode segmentation, so Sinhala and Tamil keywords are matched as words too. It is
// safe for concurrent use.
type Tagger struct {
	keywords map[Domain][]keyword
}

func New() *Tagger {
	t := &Tagger{keywords: make(map[Domain][]keyword, len(domainKeywords))}
	for _, d := range Domains {
		for _, word := range domainKeywords[d] {
			t.keywords[d] = append(t.keywords[d], keyword{
				word: word,
				re:   regexp.MustCompile(`(?i)` + regexp.QuoteMeta(word)),
			})
		}
	}
	return t
}

// Tag scores every domain by its distinct keyword hits in s. A domain scores
// min(0.25*hits+0.4, 1). Text without hits is general at 0.3, empty text general at 0.
func (t *Tagger) Tag(s string) Result {
	if s == "" {
		return Result{Primary: General, All: []Tag{}, KeywordsFound: []string{}}
	}

	boundaries := text.WordBoundaries(s)
	tags := []Tag{}
	found := []string{}
	for _, d := range Domains {
		var matched []string
		for _, kw := range t.keywords[d] {
			if len(text.FindWholeWords(kw.re, s, boundaries)) > 0 {
				matched = append(matched, kw.word)
			}
		}
		if len(matched) == 0 {
			continue
		}
		tags = append(tags, Tag{
			Domain:          d,
			Confidence:      min(float64(len(matched))*perKeyword+baseConfidence, 1),
			MatchedKeywords: matched,
		})
		found = append(found, matched...)
	}

	if len(tags) == 0 {
		return Result{Primary: General, Confidence: noMatchConfidence, All: tags, KeywordsFound: found}
	}

	sort.SliceStable(tags, func(i, j int) bool {
		return tags[i].Confidence > tags[j].Confidence
	})
	return Result{
		Primary:       tags[0].Domain,
		Confidence:    tags[0].Confidence,
		All:           tags,
		KeywordsFound: found,
	}
}

func (t *Tagger) TagBatch(texts []string) []Result {
	results := make([]Result, 0, len(texts))
	for _, s := range texts {
		results = append(results, t.Tag(s))
	}
	return results
}

// Keywords returns the distinct surface forms of a domain's keywords found in s, in
// the order they were first seen.
func (t *Tagger) Keywords(s string, d Domain) []string {
	keywords := []string{}
	kws, ok := t.keywords[d]
	if !ok || s == "" {
		return keywords
	}

	boundaries := text.WordBoundaries(s)
	seen := map[string]struct{}{}
	for _, kw := range kws {
		for _, m := range text.FindWholeWords(kw.re, s, boundaries) {
			surface := s[m[0]:m[1]]
			if _, ok := seen[surface]; ok {
				continue
			}
			seen[surface] = struct{}{}
			keywords = append(keywords, surface)
		}
	}
	return keywords
}

// Description returns a human readable description of a domain.
func Description(d Domain) string {
	if desc, ok := descriptions[d]; ok {
		return desc
	}
	return "Health services"
}
