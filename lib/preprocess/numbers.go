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

import "regexp"

var (
	temperaturePattern = regexp.MustCompile(`\d{2,3}(?:\.\d)?°?[°CF]?`)
	clockPattern       = regexp.MustCompile(`\d{1,2}(?::\d{2})?\s*(?:am|pm|AM|PM)?`)
	numericDatePattern = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`)
)

// ExtractHealthNumbers collects numbers that matter to a health text without being
// personal data on their own: temperatures, times and dates. Phone numbers found by
// the PII patterns are listed as well. Every key is present even when empty.
func (p *Preprocessor) ExtractHealthNumbers(s string) map[string][]string {
	numbers := map[string][]string{
		"temperatures":  all(temperaturePattern, s),
		"phone_numbers": {},
		"times":         all(clockPattern, s),
		"dates":         all(numericDatePattern, s),
	}
	for _, m := range p.DetectPII(s) {
		if m.Type == PIIPhone {
			numbers["phone_numbers"] = append(numbers["phone_numbers"], m.OriginalText)
		}
	}
	return numbers
}

func all(re *regexp.Regexp, s string) []string {
	found := re.FindAllString(s, -1)
	if found == nil {
		return []string{}
	}
	return found
}
