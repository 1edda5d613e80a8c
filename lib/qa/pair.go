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
	"strings"

	"github.com/lk-health/corpus-annotator/lib/domain"
	"github.com/lk-health/corpus-annotator/lib/entity"
	"github.com/lk-health/corpus-annotator/lib/intent"
	"github.com/lk-health/corpus-annotator/lib/language"
	"github.com/lk-health/corpus-annotator/lib/romanized"
)

// Pair is a question and its answer. Pairs are generated unverified; Verified is only set
// by a human review outside of this package.
type Pair struct {
	ID               string            `json:"id"`
	Question         string            `json:"question"`
	Answer           string            `json:"answer"`
	QuestionLanguage language.Language `json:"question_language"`
	AnswerLanguage   language.Language `json:"answer_language"`
	IsRomanized      bool              `json:"is_romanized"`
	RomanizedType    romanized.Type    `json:"romanized_type,omitempty"`
	Intent           intent.Intent     `json:"intent,omitempty"`
	Domain           domain.Domain     `json:"domain,omitempty"`
	Entities         []entity.Entity   `json:"entities"`
	SourceURL        string            `json:"source_url,omitempty"`
	SourceContextID  string            `json:"source_context_id,omitempty"`
	Confidence       float64           `json:"confidence"`
	Verified         bool              `json:"verified"`
}

// Source identifies where the text a pair was generated from came from.
type Source struct {
	URL       string
	ContextID string
}

// Dedup drops every pair whose question, ignoring case and surrounding whitespace, was
// already asked by an earlier pair.
func Dedup(pairs []Pair) []Pair {
	seen := make(map[string]struct{}, len(pairs))
	unique := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		key := strings.ToLower(strings.TrimSpace(p.Question))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, p)
	}
	return unique
}
