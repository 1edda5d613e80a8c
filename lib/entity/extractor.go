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

package entity

import (
	"regexp"
	"strings"

	"github.com/lk-health/corpus-annotator/lib/blocklist"
	"github.com/lk-health/corpus-annotator/lib/text"
	"github.com/rs/zerolog/log"
)

type patternCategory struct {
	entityType Type
	patterns   []*regexp.Regexp
}

var patternCategories = []patternCategory{
	{
		entityType: Time,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}\s*(?:am|pm)?\b`),
			regexp.MustCompile(`(?i)\b\d{1,2}\s*(?:am|pm)\b`),
			regexp.MustCompile(`(?i)\b(?:morning|afternoon|evening|night)\b`),
		},
	},
	{
		entityType: Date,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),
			regexp.MustCompile(`(?i)\b(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),
			regexp.MustCompile(`(?i)\b(?:weekday|weekend)s?\b`),
		},
	},
	{
		entityType: Phone,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b0\d{9}\b`),
			regexp.MustCompile(`\+94\s?\d{9}\b`),
		},
	},
}

// Extractor finds health entities using the gazette and a fixed set of patterns. It is
// safe for concurrent use.
type Extractor struct {
	gazette   *Gazette
	blocklist *blocklist.Blocklist
}

type Option func(*Extractor)

// WithGazette replaces the gazette loaded by New.
func WithGazette(g *Gazette) Option {
	return func(e *Extractor) {
		e.gazette = g
	}
}

// WithBlocklist drops candidates whose surface text or normalized name is blocklisted.
func WithBlocklist(b *blocklist.Blocklist) Option {
	return func(e *Extractor) {
		e.blocklist = b
	}
}

// New returns an Extractor using the gazette at gazettePath. When the path is empty,
// missing or unparsable the built-in default gazette is used instead.
func New(gazettePath string, opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	if e.gazette != nil {
		return e
	}

	if gazettePath == "" {
		log.Warn().Msg("no gazette configured, using default gazette")
		e.gazette = DefaultGazette()
		return e
	}
	g, err := LoadGazette(gazettePath)
	if err != nil {
		log.Warn().Err(err).Str("path", gazettePath).Msg("failed to load gazette, using default gazette")
		e.gazette = DefaultGazette()
		return e
	}
	log.Info().
		Int("hospitals", g.Size(Hospital)).
		Int("diseases", g.Size(Disease)).
		Int("symptoms", g.Size(Symptom)).
		Int("clinics", g.Size(Clinic)).
		Msg("gazette loaded")
	e.gazette = g
	return e
}

func (e *Extractor) Gazette() *Gazette {
	return e.gazette
}

// Extract returns the non-overlapping entities of s with a count per type. The language
// is accepted for symmetry with the other stages and does not change matching.
func (e *Extractor) Extract(s, language string) Result {
	res := Result{Entities: []Entity{}, Counts: map[Type]int{}}
	if s == "" {
		return res
	}

	offsets := text.RuneOffsets(s)
	boundaries := text.WordBoundaries(s)

	var candidates []Entity
	for _, c := range e.gazette.categories {
		candidates = append(candidates, c.find(s, offsets, boundaries)...)
	}
	for _, pc := range patternCategories {
		for _, re := range pc.patterns {
			for _, m := range re.FindAllStringIndex(s, -1) {
				candidates = append(candidates, Entity{
					Type:       pc.entityType,
					Text:       s[m[0]:m[1]],
					Start:      offsets[m[0]],
					End:        offsets[m[1]],
					Confidence: PatternConfidence,
					Metadata:   map[string]interface{}{},
				})
			}
		}
	}

	res.Entities = Deduplicate(e.allowed(candidates))
	for _, ent := range res.Entities {
		res.Counts[ent.Type]++
	}
	return res
}

func (e *Extractor) allowed(candidates []Entity) []Entity {
	if e.blocklist == nil {
		return candidates
	}
	kept := candidates[:0]
	for _, c := range candidates {
		if e.blocklist.Allowed(c.Text) && (c.Normalized == "" || e.blocklist.Allowed(c.Normalized)) {
			kept = append(kept, c)
		}
	}
	return kept
}

// find matches every alias as a whole word, then the first occurrence of every
// canonical name anywhere in s.
func (c *category) find(s string, offsets []int, boundaries text.Boundaries) []Entity {
	var found []Entity
	for _, a := range c.aliases {
		for _, m := range text.FindWholeWords(a.re, s, boundaries) {
			metadata, ok := c.byName[strings.ToLower(a.canonical)]
			if !ok {
				metadata = Record{}
			}
			found = append(found, Entity{
				Type:       c.entityType,
				Text:       s[m[0]:m[1]],
				Normalized: a.canonical,
				Start:      offsets[m[0]],
				End:        offsets[m[1]],
				Confidence: AliasConfidence,
				Metadata:   metadata,
			})
		}
	}
	for _, n := range c.names {
		m := n.re.FindStringIndex(s)
		if m == nil {
			continue
		}
		normalized, _ := n.record.name()
		found = append(found, Entity{
			Type:       c.entityType,
			Text:       s[m[0]:m[1]],
			Normalized: normalized,
			Start:      offsets[m[0]],
			End:        offsets[m[1]],
			Confidence: CanonicalConfidence,
			Metadata:   n.record,
		})
	}
	return found
}

func (e *Extractor) ExtractBatch(texts []string, language string) []Result {
	results := make([]Result, 0, len(texts))
	for _, s := range texts {
		results = append(results, e.Extract(s, language))
	}
	return results
}
