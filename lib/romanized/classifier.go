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
	"strings"
	"unicode/utf8"

	"github.com/lk-health/corpus-annotator/lib/text"
	"github.com/rs/zerolog/log"
)

type Type string

const (
	PureEnglish Type = "pure_english"
	Singlish    Type = "singlish"
	Tamilish    Type = "tamilish"
	Mixed       Type = "mixed"
	Unknown     Type = "unknown"
)

const (
	SinglishThreshold = 0.3
	TamilishThreshold = 0.3
	EnglishThreshold  = 0.7

	markerBoost = 0.3
	// lowSignalConfidence is reported for Latin text that carries too few markers to be
	// called Romanized but not enough plain words to be confidently English.
	lowSignalConfidence = 0.6
)

// token languages used by code switch detection
const (
	langSinglish = "singlish"
	langTamilish = "tamilish"
	langEnglish  = "english"
	langUnknown  = "unknown"
)

// CodeSwitch is a transition between two consecutive classified tokens. Positions are
// rune offsets of the second token.
type CodeSwitch struct {
	StartPos    int    `json:"start_pos"`
	EndPos      int    `json:"end_pos"`
	FromLang    string `json:"from_lang"`
	ToLang      string `json:"to_lang"`
	TextSegment string `json:"text_segment"`
}

type Result struct {
	Classification Type         `json:"classification"`
	Confidence     float64      `json:"confidence"`
	SinglishScore  float64      `json:"singlish_score"`
	TamilishScore  float64      `json:"tamilish_score"`
	EnglishScore   float64      `json:"english_score"`
	MatchedMarkers []string     `json:"matched_markers"`
	CodeSwitches   []CodeSwitch `json:"code_switches"`
	IsCodeMixed    bool         `json:"is_code_mixed"`
}

// IsRomanized reports whether the classification names a Romanized local language.
func (t Type) IsRomanized() bool {
	return t == Singlish || t == Tamilish || t == Mixed
}

// Classifier tells pure English apart from Singlish and Tamilish by counting marker
// words. It is safe for concurrent use.
type Classifier struct {
	singlish wordSet
	tamilish wordSet
}

// New returns a Classifier using the built-in markers. When patternsPath is not empty
// the marker file overrides the defaults for every key it contains. A file that cannot
// be read leaves the defaults in place.
func New(patternsPath string) *Classifier {
	c := &Classifier{
		singlish: defaultSinglishMarkers.flatten(),
		tamilish: defaultTamilishMarkers.flatten(),
	}
	if patternsPath == "" {
		return c
	}

	singlish, tamilish, err := LoadMarkers(patternsPath)
	if err != nil {
		log.Warn().Err(err).Str("path", patternsPath).Msg("failed to load marker patterns, using defaults")
		return c
	}
	if singlish != nil {
		c.singlish = singlish.flatten()
	}
	if tamilish != nil {
		c.tamilish = tamilish.flatten()
	}
	return c
}

// NewWithMarkers builds a Classifier from explicit marker sets.
func NewWithMarkers(singlish, tamilish Markers) *Classifier {
	return &Classifier{
		singlish: singlish.flatten(),
		tamilish: tamilish.flatten(),
	}
}

func unknownResult() Result {
	return Result{
		Classification: Unknown,
		MatchedMarkers: []string{},
		CodeSwitches:   []CodeSwitch{},
	}
}

// Classify scores s against both marker sets and applies the threshold rules in
// order: mixed, singlish, tamilish, english, then a low signal english default.
func (c *Classifier) Classify(s string) Result {
	if strings.TrimSpace(s) == "" {
		return unknownResult()
	}
	tokens := text.LatinTokens(s)
	if len(tokens) == 0 {
		return unknownResult()
	}

	res := c.score(tokens)
	switch {
	case res.SinglishScore >= SinglishThreshold && res.TamilishScore >= TamilishThreshold:
		res.Classification = Mixed
		res.Confidence = max(res.SinglishScore, res.TamilishScore)
	case res.SinglishScore >= SinglishThreshold:
		res.Classification = Singlish
		res.Confidence = min(1, res.SinglishScore+markerBoost)
	case res.TamilishScore >= TamilishThreshold:
		res.Classification = Tamilish
		res.Confidence = min(1, res.TamilishScore+markerBoost)
	case res.EnglishScore >= EnglishThreshold:
		res.Classification = PureEnglish
		res.Confidence = res.EnglishScore
	default:
		res.Classification = PureEnglish
		res.Confidence = lowSignalConfidence
	}

	res.CodeSwitches = c.codeSwitches(s, tokens)
	res.IsCodeMixed = len(res.CodeSwitches) > 0
	return res
}

func (c *Classifier) score(tokens []text.Token) Result {
	filtered := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !englishHealthTerms.has(tok.Text) {
			filtered = append(filtered, tok.Text)
		}
	}
	if len(filtered) == 0 {
		return Result{EnglishScore: 1, MatchedMarkers: []string{}}
	}

	var singlish, tamilish []string
	for _, tok := range filtered {
		if c.singlish.has(tok) {
			singlish = append(singlish, tok)
		}
		if c.tamilish.has(tok) {
			tamilish = append(tamilish, tok)
		}
	}

	total := float64(len(filtered))
	res := Result{
		SinglishScore:  float64(len(singlish)) / total,
		TamilishScore:  float64(len(tamilish)) / total,
		MatchedMarkers: append(append([]string{}, singlish...), tamilish...),
	}
	res.EnglishScore = 1 - max(res.SinglishScore, res.TamilishScore)
	return res
}

func (c *Classifier) tokenLanguage(token string) string {
	switch {
	case c.singlish.has(token):
		return langSinglish
	case c.tamilish.has(token):
		return langTamilish
	case englishHealthTerms.has(token):
		return langEnglish
	}
	return langUnknown
}

// CodeSwitches returns every point in s where consecutive known-language tokens change
// language. Unknown tokens are skipped and do not reset the previous language.
func (c *Classifier) CodeSwitches(s string) []CodeSwitch {
	return c.codeSwitches(s, text.LatinTokens(s))
}

func (c *Classifier) codeSwitches(s string, tokens []text.Token) []CodeSwitch {
	switches := []CodeSwitch{}
	if len(tokens) < 2 {
		return switches
	}

	prev := c.tokenLanguage(tokens[0].Text)
	for _, tok := range tokens[1:] {
		curr := c.tokenLanguage(tok.Text)
		if curr == langUnknown {
			continue
		}
		if prev != langUnknown && curr != prev {
			switches = append(switches, CodeSwitch{
				StartPos:    tok.Offset,
				EndPos:      tok.Offset + utf8.RuneCountInString(tok.Text),
				FromLang:    prev,
				ToLang:      curr,
				TextSegment: tok.Text,
			})
		}
		prev = curr
	}
	return switches
}

func (c *Classifier) ClassifyBatch(texts []string) []Result {
	results := make([]Result, 0, len(texts))
	for _, s := range texts {
		results = append(results, c.Classify(s))
	}
	return results
}

// IsRomanizedLocal reports whether s is Singlish, Tamilish or a mix of both.
func (c *Classifier) IsRomanizedLocal(s string) bool {
	return c.Classify(s).Classification.IsRomanized()
}

// LanguageForTranslation names the native language s should be translated to, or ""
// when s is not Romanized. Mixed text with equal scores goes to tamil.
func (c *Classifier) LanguageForTranslation(s string) string {
	res := c.Classify(s)
	switch res.Classification {
	case Singlish:
		return "sinhala"
	case Tamilish:
		return "tamil"
	case Mixed:
		if res.SinglishScore > res.TamilishScore {
			return "sinhala"
		}
		return "tamil"
	}
	return ""
}
