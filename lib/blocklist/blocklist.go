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

package blocklist

import (
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"
)

type set map[string]struct{}

// Blocklist holds surface forms that must never be reported as entities. Case
// insensitive terms are stored lowercased.
type Blocklist struct {
	exact  set
	folded set
}

func New(caseSensitive, caseInsensitive []string) *Blocklist {
	b := &Blocklist{
		exact:  make(set, len(caseSensitive)),
		folded: make(set, len(caseInsensitive)),
	}
	for _, term := range caseSensitive {
		b.exact[term] = struct{}{}
	}
	for _, term := range caseInsensitive {
		b.folded[strings.ToLower(term)] = struct{}{}
	}
	return b
}

// Allowed returns true if term is not blocklisted.
func (b *Blocklist) Allowed(term string) bool {
	if _, ok := b.exact[term]; ok {
		return false
	}
	_, ok := b.folded[strings.ToLower(term)]
	return !ok
}

func (b *Blocklist) Len() int {
	return len(b.exact) + len(b.folded)
}

// Parse reads a YAML document with case_sensitive and case_insensitive term lists.
func Parse(data []byte) (*Blocklist, error) {
	var doc struct {
		CaseSensitive   []string `yaml:"case_sensitive"`
		CaseInsensitive []string `yaml:"case_insensitive"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return New(doc.CaseSensitive, doc.CaseInsensitive), nil
}

func Load(path string) (*Blocklist, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not find blocklist at %v: %w", path, err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("could not load blocklist from %v: %w", path, err)
	}
	log.Info().Str("path", path).Int("terms", b.Len()).Msg("blocklist loaded")
	return b, nil
}
