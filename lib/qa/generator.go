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

package qa

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/lk-health/corpus-annotator/lib/domain"
	"github.com/lk-health/corpus-annotator/lib/entity"
	"github.com/lk-health/corpus-annotator/lib/intent"
	"github.com/lk-health/corpus-annotator/lib/language"
	"github.com/lk-health/corpus-annotator/lib/markup"
)

const (
	minPartLength    = 10
	minAnswerLength  = 20
	faqConfidence    = 0.8
	entityConfidence = 0.6

	locationTemplate = "Where is the %s?"
	timeTemplate     = "What are the opening hours of %s?"
	symptomsTemplate = "What are the symptoms of %s?"
)

var (
	// <h2>Q: ...</h2><p>A: ...</p>, also with strong, b and div.
	taggedFAQ = regexp.MustCompile(`(?is)<(?:h\d|strong|b)[^>]*>\s*(?:Q[:.]\s*)?(.+?)\s*</(?:h\d|strong|b)>\s*<(?:p|div)[^>]*>\s*(?:A[:.]\s*)?(.+?)\s*</(?:p|div)>`)

	labelledQuestion = regexp.MustCompile(`(?is)(?:Q[:.]\s*|Question[:.]\s*)(.+?)[\n\r]+(?:A[:.]\s*|Answer[:.]\s*)`)
	labelledEnd      = regexp.MustCompile(`\n\n`)

	numberedQuestion = regexp.MustCompile(`(?ism)^[ \t]*\d+[.)]\s*(.+?\?)\s*[\n\r]+`)
	numberedEnd      = regexp.MustCompile(`\n(?:\n|[ \t]*\d+[.)])`)
)

type Generator struct {
	newID func() string
}

type Option func(*Generator)

// WithIDGenerator replaces the random UUIDs given to new pairs.
func WithIDGenerator(newID func() string) Option {
	return func(g *Generator) {
		g.newID = newID
	}
}

func New(opts ...Option) *Generator {
	g := &Generator{newID: uuid.NewString}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) pair(question, answer string, src Source, confidence float64) Pair {
	return Pair{
		ID:               g.newID(),
		Question:         question,
		Answer:           answer,
		QuestionLanguage: language.English,
		AnswerLanguage:   language.English,
		Entities:         []entity.Entity{},
		SourceURL:        src.URL,
		SourceContextID:  src.ContextID,
		Confidence:       confidence,
	}
}

/**
	FromFAQ extracts the question and answer pairs of FAQ formatted text. Three layouts are
	recognised, each searched over the whole of s:

	 - a heading, <strong> or <b> element followed by a <p> or <div> answer,
	 - "Q:" or "Question:" lines followed by an "A:" or "Answer:" line, the answer running
	   to the next blank line,
	 - numbered questions ending in "?", the answer running to the next numbered line or
	   blank line.

	Markup is stripped from both parts and a pair is kept only when both are longer than
	ten characters.
**/
func (g *Generator) FromFAQ(s string, src Source) []Pair {
	var found [][2]string
	for _, m := range taggedFAQ.FindAllStringSubmatch(s, -1) {
		found = append(found, [2]string{m[1], m[2]})
	}
	found = append(found, scan(s, labelledQuestion, labelledEnd)...)
	found = append(found, scan(s, numberedQuestion, numberedEnd)...)

	var pairs []Pair
	for _, f := range found {
		question, answer := markup.Strip(f[0]), markup.Strip(f[1])
		if utf8.RuneCountInString(question) <= minPartLength || utf8.RuneCountInString(answer) <= minPartLength {
			continue
		}
		pairs = append(pairs, g.pair(question, answer, src, faqConfidence))
	}
	return pairs
}

// scan finds every match of head in s. The first group of head is the question and the
// answer runs from the end of head up to the next match of end, or the end of s.
func scan(s string, head, end *regexp.Regexp) [][2]string {
	var found [][2]string
	for pos := 0; pos < len(s); {
		m := head.FindStringSubmatchIndex(s[pos:])
		if m == nil {
			break
		}
		start := pos + m[1]
		stop := len(s)
		if loc := end.FindStringIndex(s[start:]); loc != nil {
			stop = start + loc[0]
		}
		if stop > start {
			found = append(found, [2]string{s[pos+m[2] : pos+m[3]], s[start:stop]})
		}
		pos = max(stop, start)
	}
	return found
}

// FromEntities writes templated questions about the hospitals, clinics and diseases in
// entities. A question is only kept when context has a sentence mentioning the entity
// that can serve as its answer.
func (g *Generator) FromEntities(entities []entity.Entity, context string, src Source) []Pair {
	var pairs []Pair
	add := func(e entity.Entity, template string, in intent.Intent, d domain.Domain) {
		answer, ok := answerFor(context, e.Text)
		if !ok {
			return
		}
		p := g.pair(fmt.Sprintf(template, e.Name()), answer, src, entityConfidence)
		p.Intent = in
		p.Domain = d
		p.Entities = []entity.Entity{e}
		pairs = append(pairs, p)
	}

	for _, e := range entities {
		if e.Text == "" {
			continue
		}
		switch e.Type {
		case entity.Hospital, entity.Clinic:
			add(e, locationTemplate, intent.AskingLocation, "")
			add(e, timeTemplate, intent.AskingTime, "")
		case entity.Disease:
			add(e, symptomsTemplate, intent.AskingSymptoms, domain.Domain(strings.ToLower(e.Text)))
		}
	}
	return pairs
}

// answerFor returns the first sentence of context that mentions the entity and is longer
// than twenty characters.
func answerFor(context, mention string) (string, bool) {
	mention = strings.ToLower(mention)
	sentences := strings.FieldsFunc(context, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	for _, sentence := range sentences {
		if !strings.Contains(strings.ToLower(sentence), mention) {
			continue
		}
		sentence = strings.TrimSpace(sentence)
		if utf8.RuneCountInString(sentence) > minAnswerLength {
			return sentence + ".", true
		}
	}
	return "", false
}

// Generate runs FAQ extraction over s followed by entity templating and drops repeated
// questions.
func (g *Generator) Generate(s string, entities []entity.Entity, src Source) []Pair {
	pairs := g.FromFAQ(s, src)
	pairs = append(pairs, g.FromEntities(entities, s, src)...)
	return Dedup(pairs)
}
