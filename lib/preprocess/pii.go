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
	"sort"
	"unicode/utf8"

	"github.com/lk-health/corpus-annotator/lib/text"
)

type PIIType string

const (
	PIIPhone    PIIType = "phone"
	PIIEmail    PIIType = "email"
	PIINIC      PIIType = "nic"
	PIIPassport PIIType = "passport"
	PIIAddress  PIIType = "address"
	PIIName     PIIType = "name"
)

// DefaultMask replaces every masked PII span.
const DefaultMask = "[REDACTED]"

// PIIMatch is a detected span of personal data. Start and End are rune offsets.
type PIIMatch struct {
	Type         PIIType `json:"pii_type"`
	Start        int     `json:"start"`
	End          int     `json:"end"`
	OriginalText string  `json:"original_text"`
	MaskedText   string  `json:"masked_text"`
}

type piiPattern struct {
	piiType PIIType
	re      *regexp.Regexp
}

// Declaration order decides the type reported for spans found by several patterns.
var piiPatterns = []piiPattern{
	// Sri Lankan mobile and landline numbers
	{PIIPhone, regexp.MustCompile(`\b0\d{9}\b`)},
	{PIIPhone, regexp.MustCompile(`\+94\s?\d{9}\b`)},
	{PIIPhone, regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`)},
	{PIIPhone, regexp.MustCompile(`\b\d{10}\b`)},
	{PIIEmail, regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)},
	// national identity card, old (123456789V) and new (200012345678) formats
	{PIINIC, regexp.MustCompile(`\b\d{9}[VvXx]\b`)},
	{PIINIC, regexp.MustCompile(`\b\d{12}\b`)},
}

// DetectPII finds phone numbers, emails and NIC numbers in s. Spans matched by more
// than one pattern are merged, so the returned matches never overlap. They are sorted
// by start offset.
func (p *Preprocessor) DetectPII(s string) []PIIMatch {
	type span struct {
		start, end int
		piiType    PIIType
		order      int
	}
	var spans []span
	for i, pattern := range piiPatterns {
		for _, m := range pattern.re.FindAllStringIndex(s, -1) {
			spans = append(spans, span{start: m[0], end: m[1], piiType: pattern.piiType, order: i})
		}
	}
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		if spans[i].end != spans[j].end {
			return spans[i].end > spans[j].end
		}
		return spans[i].order < spans[j].order
	})

	var merged []span
	for _, sp := range spans {
		if n := len(merged); n > 0 && sp.start < merged[n-1].end {
			if sp.end > merged[n-1].end {
				merged[n-1].end = sp.end
			}
			continue
		}
		merged = append(merged, sp)
	}

	offsets := text.RuneOffsets(s)
	matches := make([]PIIMatch, 0, len(merged))
	for _, sp := range merged {
		matches = append(matches, PIIMatch{
			Type:         sp.piiType,
			Start:        offsets[sp.start],
			End:          offsets[sp.end],
			OriginalText: s[sp.start:sp.end],
			MaskedText:   p.opts.MaskString,
		})
	}
	return matches
}

// MaskPII replaces every match with its mask text. Matches are applied from the last to
// the first so that earlier offsets stay valid.
func MaskPII(s string, matches []PIIMatch) string {
	if len(matches) == 0 {
		return s
	}
	runes := []rune(s)
	ordered := make([]PIIMatch, len(matches))
	copy(ordered, matches)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start < ordered[j].Start
	})

	for i := len(ordered) - 1; i >= 0; i-- {
		m := ordered[i]
		if m.Start < 0 || m.End > len(runes) || m.Start > m.End {
			continue
		}
		masked := make([]rune, 0, len(runes)-(m.End-m.Start)+utf8.RuneCountInString(m.MaskedText))
		masked = append(masked, runes[:m.Start]...)
		masked = append(masked, []rune(m.MaskedText)...)
		masked = append(masked, runes[m.End:]...)
		runes = masked
	}
	return string(runes)
}
