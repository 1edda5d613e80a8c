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

package preprocess

import (
	"regexp"
	"strings"

	"github.com/lk-health/corpus-annotator/lib/text"
)

// Options configures a Preprocessor. The zero value disables masking and Romanized
// normalization; use DefaultOptions for the usual pipeline settings.
type Options struct {
	RemovePII          bool   `mapstructure:"remove_pii"`
	NormalizeRomanized bool   `mapstructure:"normalize_romanized"`
	MaskString         string `mapstructure:"mask_string"`
}

func DefaultOptions() Options {
	return Options{
		RemovePII:          true,
		NormalizeRomanized: true,
		MaskString:         DefaultMask,
	}
}

// Result keeps the untouched input next to its cleaned form.
type Result struct {
	OriginalText string     `json:"original_text"`
	CleanedText  string     `json:"cleaned_text"`
	PII          []PIIMatch `json:"pii_detected"`
	PIIRemoved   bool       `json:"pii_removed"`
	Sentences    []string   `json:"sentences"`
}

// Preprocessor cleans text, masks personal data and splits sentences. It holds no
// per-call state and is safe for concurrent use.
type Preprocessor struct {
	opts Options
}

func New(opts Options) *Preprocessor {
	if opts.MaskString == "" {
		opts.MaskString = DefaultMask
	}
	return &Preprocessor{opts: opts}
}

var (
	horizontalSpace = regexp.MustCompile(`[ \t]+`)
	blankLines      = regexp.MustCompile(`\n{3,}`)
)

// Clean normalizes s to NFC, drops control characters other than newlines, collapses
// spaces and runs of blank lines and trims every line. Clean(Clean(s)) == Clean(s).
func Clean(s string) string {
	if s == "" {
		return ""
	}
	s = text.NormalizeString(s)
	s = horizontalSpace.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")

	// lines are trimmed first so that whitespace-only lines count as blank here
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

type spelling struct {
	re       *regexp.Regexp
	standard string
}

// romanizedSpellings maps common misspellings to their standard form.
var romanizedSpellings = []spelling{
	{regexp.MustCompile(`(?i)\bkohenda\b`), "koheda"},
	{regexp.MustCompile(`(?i)\bhosiptal\b`), "hospital"},
	{regexp.MustCompile(`(?i)\bdocter\b`), "doctor"},
	{regexp.MustCompile(`(?i)\bclinik\b`), "clinic"},
	{regexp.MustCompile(`(?i)\bvacine\b`), "vaccine"},
}

// NormalizeRomanized lowercases s and fixes known Romanized misspellings. It is a no-op
// when the option is disabled.
func (p *Preprocessor) NormalizeRomanized(s string) string {
	if !p.opts.NormalizeRomanized {
		return s
	}
	s = strings.ToLower(s)
	for _, sp := range romanizedSpellings {
		s = sp.re.ReplaceAllLiteralString(s, sp.standard)
	}
	return s
}

var (
	defaultTerminators = ".!?"
	sinhalaTerminators = ".!?។"
	tamilTerminators   = ".!?।"
)

func terminators(language string) string {
	switch strings.ToLower(language) {
	case "sinhala", "si", "sin":
		return sinhalaTerminators
	case "tamil", "ta", "tam":
		return tamilTerminators
	}
	return defaultTerminators
}

// SegmentSentences splits s after every sentence terminator of the language. The
// terminator stays with the sentence it closes and blank sentences are dropped.
func SegmentSentences(s, language string) []string {
	sentences := []string{}
	if s == "" {
		return sentences
	}
	ends := terminators(language)

	var current strings.Builder
	flush := func() {
		if sentence := strings.TrimSpace(current.String()); sentence != "" {
			sentences = append(sentences, sentence)
		}
		current.Reset()
	}
	for _, r := range s {
		current.WriteRune(r)
		if strings.ContainsRune(ends, r) {
			flush()
		}
	}
	flush()
	return sentences
}

// Preprocess runs cleaning, Romanized normalization, PII detection and masking, and
// sentence segmentation on s.
func (p *Preprocessor) Preprocess(s, language string, detectPII bool) Result {
	cleaned := Clean(s)
	cleaned = p.NormalizeRomanized(cleaned)

	res := Result{
		OriginalText: s,
		PII:          []PIIMatch{},
	}
	if detectPII {
		res.PII = p.DetectPII(cleaned)
		if p.opts.RemovePII && len(res.PII) > 0 {
			cleaned = MaskPII(cleaned, res.PII)
			res.PIIRemoved = true
		}
	}
	res.CleanedText = cleaned
	res.Sentences = SegmentSentences(cleaned, language)
	return res
}

func (p *Preprocessor) PreprocessBatch(texts []string, language string) []Result {
	results := make([]Result, 0, len(texts))
	for _, s := range texts {
		results = append(results, p.Preprocess(s, language, true))
	}
	return results
}

// MaskString is the text that replaces masked PII.
func (p *Preprocessor) MaskString() string {
	return p.opts.MaskString
}
