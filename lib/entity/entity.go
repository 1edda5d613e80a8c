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

type Type string

const (
	Hospital     Type = "hospital"
	Clinic       Type = "clinic"
	Disease      Type = "disease"
	Symptom      Type = "symptom"
	Medicine     Type = "medicine"
	Doctor       Type = "doctor"
	Location     Type = "location"
	Time         Type = "time"
	Date         Type = "date"
	Phone        Type = "phone"
	Organization Type = "organization"
)

// Confidences of the three ways an entity can be found.
const (
	CanonicalConfidence = 1.0
	AliasConfidence     = 0.9
	PatternConfidence   = 0.95
)

// Entity is a mention found in a text. Start and End are rune offsets into that text.
// Normalized is empty for pattern matches.
type Entity struct {
	Type       Type                   `json:"type"`
	Text       string                 `json:"text"`
	Normalized string                 `json:"normalized,omitempty"`
	Start      int                    `json:"start"`
	End        int                    `json:"end"`
	Confidence float64                `json:"confidence"`
	Metadata   map[string]interface{} `json:"metadata"`
}

// Name returns the normalized form of the entity, falling back to its surface text.
func (e Entity) Name() string {
	if e.Normalized != "" {
		return e.Normalized
	}
	return e.Text
}

// Overlaps reports whether the spans of e and other intersect.
func (e Entity) Overlaps(other Entity) bool {
	return e.Start < other.End && other.Start < e.End
}

type Result struct {
	Entities []Entity     `json:"entities"`
	Counts   map[Type]int `json:"counts"`
}

// OfType returns the entities of the given types in document order.
func (r Result) OfType(types ...Type) []Entity {
	var found []Entity
	for _, e := range r.Entities {
		for _, t := range types {
			if e.Type == t {
				found = append(found, e)
				break
			}
		}
	}
	return found
}

// Summary groups the unique names of the result's entities by type, keeping the order
// in which they first appear.
func Summary(r Result) map[Type][]string {
	summary := map[Type][]string{}
	seen := map[Type]map[string]struct{}{}
	for _, e := range r.Entities {
		if seen[e.Type] == nil {
			seen[e.Type] = map[string]struct{}{}
		}
		name := e.Name()
		if _, ok := seen[e.Type][name]; ok {
			continue
		}
		seen[e.Type][name] = struct{}{}
		summary[e.Type] = append(summary[e.Type], name)
	}
	return summary
}
