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

import "sort"

/**
	Deduplicate resolves overlapping candidates into a non-overlapping set.

	Candidates are ordered by start offset and then by descending confidence, keeping
	the incoming order for full ties. Walking that order, an entity is kept only when it
	starts at or after the end of the last kept entity, so the first entity at a position
	claims its whole span and suppresses anything that begins inside it, whatever its type.
**/
func Deduplicate(candidates []Entity) []Entity {
	if len(candidates) == 0 {
		return []Entity{}
	}

	sorted := make([]Entity, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].Confidence > sorted[j].Confidence
	})

	kept := make([]Entity, 0, len(sorted))
	lastEnd := -1
	for _, e := range sorted {
		if e.Start >= lastEnd {
			kept = append(kept, e)
			lastEnd = e.End
		}
	}
	return kept
}
