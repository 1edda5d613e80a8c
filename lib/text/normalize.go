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
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// controlChars matches every rune in Unicode category C (control, format, surrogate,
// private use, unassigned) except the newline.
var controlChars = runes.Predicate(func(r rune) bool {
	if r == '\n' {
		return false
	}
	// unicode.C does not cover unassigned code points (Cn), so anything outside every
	// other major category is treated as C as well.
	return unicode.In(r, unicode.C) ||
		!unicode.In(r, unicode.L, unicode.M, unicode.N, unicode.P, unicode.S, unicode.Z)
})

// NormalizeString composes s to NFC and removes control characters other than '\n'.
func NormalizeString(s string) string {
	t := transform.Chain(norm.NFC, runes.Remove(controlChars))
	out, _, err := transform.String(t, s)
	if err != nil {
		// transform only fails on malformed chains, never on input text.
		return norm.NFC.String(s)
	}
	return out
}
