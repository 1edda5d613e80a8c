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

package intent

import (
	"regexp"
	"sort"
	"strings"
)

type Intent string

const (
	AskingLocation    Intent = "asking_location"
	AskingTime        Intent = "asking_time"
	AskingSymptoms    Intent = "asking_symptoms"
	AskingTreatment   Intent = "asking_treatment"
	AskingAppointment Intent = "asking_appointment"
	AskingContact     Intent = "asking_contact"
	Emergency         Intent = "emergency"
	GeneralInfo       Intent = "general_info"
	Unknown           Intent = "unknown"
)

// Intents is the declaration order used to break ties between equal scores.
var Intents = []Intent{
	AskingLocation,
	AskingTime,
	AskingSymptoms,
	AskingTreatment,
	AskingAppointment,
	AskingContact,
	Emergency,
	GeneralInfo,
}

const (
	perPattern    = 0.3
	baseScore     = 0.4
	secondaryMin  = 0.3
	maxSecondary  = 2
	questionScore = 0.3
	// QuestionMark is reported as the matched pattern of the question mark fallback.
	QuestionMark = "question_mark"
)

type Scored struct {
	Intent Intent  `json:"intent"`
	Score  float64 `json:"score"`
}

type Result struct {
	Intent          Intent   `json:"intent"`
	Confidence      float64  `json:"confidence"`
	MatchedPatterns []string `json:"matched_patterns"`
	Secondary       []Scored `json:"secondary_intents"`
}

type pattern struct {
	source string
	re     *regexp.Regexp
}

// Classifier scores a text against the patterns of every intent. It is safe for
// concurrent use.
type Classifier struct {
	patterns map[Intent][]pattern
}

func New() *Classifier {
	c := &Classifier{patterns: make(map[Intent][]pattern, len(intentPatterns))}
	for _, in := range Intents {
		for _, source := range intentPatterns[in] {
			c.patterns[in] = append(c.patterns[in], pattern{
				source: source,
				re:     regexp.MustCompile(`(?i)` + source),
			})
		}
	}
	return c
}

func unknown() Result {
	return Result{Intent: Unknown, MatchedPatterns: []string{}, Secondary: []Scored{}}
}

// Classify returns the best scoring intent of s. Each intent scores
// min(0.3*matches+0.4, 1) where matches counts its distinct matching patterns. Up to two
// runners-up scoring above 0.3 are reported as secondary intents.
func (c *Classifier) Classify(s string) Result {
	if strings.TrimSpace(s) == "" {
		return unknown()
	}

	type candidate struct {
		Scored
		matched []string
	}
	var candidates []candidate
	for _, in := range Intents {
		var matched []string
		for _, p := range c.patterns[in] {
			if p.re.MatchString(s) {
				matched = append(matched, p.source)
			}
		}
		if len(matched) > 0 {
			candidates = append(candidates, candidate{
				Scored:  Scored{Intent: in, Score: min(float64(len(matched))*perPattern+baseScore, 1)},
				matched: matched,
			})
		}
	}

	if len(candidates) == 0 {
		if strings.Contains(s, "?") {
			return Result{
				Intent:          GeneralInfo,
				Confidence:      questionScore,
				MatchedPatterns: []string{QuestionMark},
				Secondary:       []Scored{},
			}
		}
		return unknown()
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	res := Result{
		Intent:          candidates[0].Intent,
		Confidence:      candidates[0].Score,
		MatchedPatterns: candidates[0].matched,
		Secondary:       []Scored{},
	}
	for _, cand := range candidates[1:min(len(candidates), maxSecondary+1)] {
		if cand.Score > secondaryMin {
			res.Secondary = append(res.Secondary, cand.Scored)
		}
	}
	return res
}

func (c *Classifier) ClassifyBatch(texts []string) []Result {
	results := make([]Result, 0, len(texts))
	for _, s := range texts {
		results = append(results, c.Classify(s))
	}
	return results
}

// Examples returns sample queries of an intent.
func Examples(in Intent) []string {
	return append([]string{}, examples[in]...)
}
