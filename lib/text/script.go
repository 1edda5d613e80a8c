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

package text

import (
	"strings"
	"unicode"
)

// Script names used as keys of a Distribution.
const (
	Sinhala = "sinhala"
	Tamil   = "tamil"
	Latin   = "latin"
	Other   = "other"
)

// Scripts lists the Distribution keys in a fixed order.
var Scripts = []string{Sinhala, Tamil, Latin, Other}

var (
	sinhalaRange       = [2]rune{0x0D80, 0x0DFF}
	tamilRange         = [2]rune{0x0B80, 0x0BFF}
	latinRange         = [2]rune{0x0041, 0x007A}
	latinExtendedRange = [2]rune{0x00C0, 0x024F}
)

// ignoredPunctuation is never counted towards a script.
var ignoredPunctuation = map[rune]struct{}{
	'.':  {},
	',':  {},
	'!':  {},
	'?':  {},
	';':  {},
	':':  {},
	'(':  {},
	')':  {},
	'[':  {},
	']':  {},
	'{':  {},
	'}':  {},
	'"':  {},
	'\'': {},
	'-':  {},
}

// Distribution maps a script name to the share of classified characters written in it.
type Distribution map[string]float64

func inRange(r rune, bounds [2]rune) bool {
	return bounds[0] <= r && r <= bounds[1]
}

func IsSinhala(r rune) bool {
	return inRange(r, sinhalaRange)
}

func IsTamil(r rune) bool {
	return inRange(r, tamilRange)
}

func IsLatin(r rune) bool {
	return inRange(r, latinRange) || inRange(r, latinExtendedRange)
}

// ScriptOf returns the script a rune belongs to, or "" when the rune is not counted
// (whitespace, ignored punctuation, decimal digits).
func ScriptOf(r rune) string {
	if unicode.IsSpace(r) {
		return ""
	}
	if _, ok := ignoredPunctuation[r]; ok {
		return ""
	}
	switch {
	case IsSinhala(r):
		return Sinhala
	case IsTamil(r):
		return Tamil
	case IsLatin(r):
		return Latin
	case unicode.IsDigit(r):
		return ""
	default:
		return Other
	}
}

// ScriptDistribution counts the runes of s per script and normalises the counts by the
// number of classified runes. Text with no classified runes gives an empty Distribution.
func ScriptDistribution(s string) Distribution {
	counts := make(map[string]int, len(Scripts))
	total := 0
	for _, r := range s {
		script := ScriptOf(r)
		if script == "" {
			continue
		}
		counts[script]++
		total++
	}

	dist := Distribution{}
	if total == 0 {
		return dist
	}
	for _, script := range Scripts {
		dist[script] = float64(counts[script]) / float64(total)
	}
	return dist
}

// Dominant returns the script with the highest ratio. Ties go to the script listed
// first in Scripts. Other is skipped unless includeOther is set.
func (d Distribution) Dominant(includeOther bool) (string, float64) {
	best, bestRatio := "", 0.0
	for _, script := range Scripts {
		if script == Other && !includeOther {
			continue
		}
		ratio, ok := d[script]
		if !ok {
			continue
		}
		if best == "" || ratio > bestRatio {
			best, bestRatio = script, ratio
		}
	}
	return best, bestRatio
}

func ContainsSinhala(s string) bool {
	return strings.IndexFunc(s, IsSinhala) >= 0
}

func ContainsTamil(s string) bool {
	return strings.IndexFunc(s, IsTamil) >= 0
}

// ExtractByScript keeps whitespace and the runes of the requested script and drops
// everything else. The result is trimmed.
func ExtractByScript(s, script string) string {
	var keep func(rune) bool
	switch script {
	case Sinhala:
		keep = IsSinhala
	case Tamil:
		keep = IsTamil
	case Latin:
		keep = IsLatin
	default:
		return ""
	}

	var b strings.Builder
	for _, r := range s {
		if unicode.IsSpace(r) || keep(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
