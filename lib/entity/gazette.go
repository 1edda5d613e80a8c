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

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"regexp"
	"strings"
)

// Record is one gazette entry as found in the resource file. Every field is kept and
// handed out as entity metadata.
type Record map[string]interface{}

func (r Record) name() (string, bool) {
	name, ok := r["name"].(string)
	return name, ok && name != ""
}

func (r Record) aliases() []string {
	raw, ok := r["aliases"].([]interface{})
	if !ok {
		return nil
	}
	aliases := make([]string, 0, len(raw))
	for _, a := range raw {
		if s, ok := a.(string); ok && s != "" {
			aliases = append(aliases, s)
		}
	}
	return aliases
}

type canonicalName struct {
	key    string
	record Record
	re     *regexp.Regexp
}

type alias struct {
	key       string
	canonical string
	re        *regexp.Regexp
}

// category is the gazette of a single entity type. Names and aliases keep the order
// they were loaded in.
type category struct {
	entityType Type
	names      []canonicalName
	byName     map[string]Record
	aliases    []alias
}

func newCategory(t Type) *category {
	return &category{entityType: t, byName: map[string]Record{}}
}

func caseInsensitive(s string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(s))
}

func (c *category) addName(name string, record Record) {
	key := strings.ToLower(name)
	if _, ok := c.byName[key]; !ok {
		c.names = append(c.names, canonicalName{key: key, record: record, re: caseInsensitive(name)})
	} else {
		for i := range c.names {
			if c.names[i].key == key {
				c.names[i].record = record
			}
		}
	}
	c.byName[key] = record
}

func (c *category) addAlias(a, canonical string) {
	key := strings.ToLower(a)
	for i := range c.aliases {
		if c.aliases[i].key == key {
			c.aliases[i].canonical = canonical
			return
		}
	}
	c.aliases = append(c.aliases, alias{key: key, canonical: canonical, re: caseInsensitive(a)})
}

func (c *category) add(record Record) error {
	name, ok := record.name()
	if !ok {
		return fmt.Errorf("%v entry without a name", c.entityType)
	}
	c.addName(name, record)
	for _, a := range record.aliases() {
		c.addAlias(a, name)
	}
	return nil
}

// Gazette holds the curated hospital, disease, symptom and clinic lists.
type Gazette struct {
	categories []*category
}

// gazetteOrder is the order in which categories are matched.
var gazetteOrder = []Type{Hospital, Disease, Symptom, Clinic}

func newGazette() *Gazette {
	g := &Gazette{}
	for _, t := range gazetteOrder {
		g.categories = append(g.categories, newCategory(t))
	}
	return g
}

func (g *Gazette) category(t Type) *category {
	for _, c := range g.categories {
		if c.entityType == t {
			return c
		}
	}
	return nil
}

// Size returns the number of canonical names of a type.
func (g *Gazette) Size(t Type) int {
	if c := g.category(t); c != nil {
		return len(c.names)
	}
	return 0
}

// Lookup returns the gazette record of a canonical name, ignoring case.
func (g *Gazette) Lookup(t Type, name string) (Record, bool) {
	c := g.category(t)
	if c == nil {
		return nil, false
	}
	r, ok := c.byName[strings.ToLower(name)]
	return r, ok
}

type gazetteFile struct {
	Hospitals []Record `json:"hospitals"`
	Diseases  []Record `json:"diseases"`
	Symptoms  []Record `json:"symptoms"`
	Clinics   []Record `json:"clinics"`
}

// ParseGazette builds a Gazette from the JSON resource format.
func ParseGazette(data []byte) (*Gazette, error) {
	var f gazetteFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	g := newGazette()
	lists := map[Type][]Record{
		Hospital: f.Hospitals,
		Disease:  f.Diseases,
		Symptom:  f.Symptoms,
		Clinic:   f.Clinics,
	}
	for _, c := range g.categories {
		for _, record := range lists[c.entityType] {
			if err := c.add(record); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// LoadGazette reads and parses a gazette file.
func LoadGazette(path string) (*Gazette, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	g, err := ParseGazette(b)
	if err != nil {
		return nil, fmt.Errorf("parse gazette %v: %w", path, err)
	}
	return g, nil
}

// DefaultGazette is the small built-in gazette used when no resource can be loaded.
func DefaultGazette() *Gazette {
	g := newGazette()

	hospitals := g.category(Hospital)
	hospitals.addName("National Hospital of Sri Lanka", Record{"name": "National Hospital of Sri Lanka", "location": "Colombo"})
	hospitals.addAlias("national hospital", "National Hospital of Sri Lanka")

	diseases := g.category(Disease)
	diseases.addName("Dengue Fever", Record{"name": "Dengue Fever"})
	diseases.addName("COVID-19", Record{"name": "COVID-19"})
	diseases.addAlias("dengue", "Dengue Fever")
	diseases.addAlias("covid", "COVID-19")
	diseases.addAlias("corona", "COVID-19")

	return g
}
