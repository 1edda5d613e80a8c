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

package local

import (
	"context"
	"fmt"
	"sync"

	"github.com/lk-health/corpus-annotator/lib/annotation"
)

type IntentDomain struct {
	Intent string `json:"intent"`
	Domain string `json:"domain"`
}

// Store keeps annotations in memory. It is safe for concurrent use.
type Store struct {
	mut       *sync.RWMutex
	languages map[string]annotation.LanguageRecord
	entities  map[string][]annotation.EntityRecord
	intents   map[string]IntentDomain
	qaPairs   map[string]annotation.QAPairRecord
	// qaOrder keeps the insertion order of qaPairs.
	qaOrder []string
}

func New() *Store {
	return &Store{
		mut:       &sync.RWMutex{},
		languages: make(map[string]annotation.LanguageRecord),
		entities:  make(map[string][]annotation.EntityRecord),
		intents:   make(map[string]IntentDomain),
		qaPairs:   make(map[string]annotation.QAPairRecord),
	}
}

func (s *Store) UpdateLanguage(ctx context.Context, rec annotation.LanguageRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mut.Lock()
	defer s.mut.Unlock()

	s.languages[rec.ContextID] = rec
	return nil
}

func (s *Store) UpdateEntities(ctx context.Context, contextID string, entities []annotation.EntityRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mut.Lock()
	defer s.mut.Unlock()

	s.entities[contextID] = append([]annotation.EntityRecord{}, entities...)
	return nil
}

func (s *Store) UpdateIntentDomain(ctx context.Context, contextID, intent, domain string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mut.Lock()
	defer s.mut.Unlock()

	s.intents[contextID] = IntentDomain{Intent: intent, Domain: domain}
	return nil
}

func (s *Store) InsertQAPair(ctx context.Context, rec annotation.QAPairRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mut.Lock()
	defer s.mut.Unlock()

	if _, ok := s.qaPairs[rec.ID]; ok {
		return fmt.Errorf("qa pair %v already exists", rec.ID)
	}
	s.qaPairs[rec.ID] = rec
	s.qaOrder = append(s.qaOrder, rec.ID)
	return nil
}

func (s *Store) Language(contextID string) (annotation.LanguageRecord, bool) {
	s.mut.RLock()
	defer s.mut.RUnlock()

	rec, ok := s.languages[contextID]
	return rec, ok
}

func (s *Store) Entities(contextID string) []annotation.EntityRecord {
	s.mut.RLock()
	defer s.mut.RUnlock()

	return append([]annotation.EntityRecord{}, s.entities[contextID]...)
}

func (s *Store) IntentDomain(contextID string) (IntentDomain, bool) {
	s.mut.RLock()
	defer s.mut.RUnlock()

	id, ok := s.intents[contextID]
	return id, ok
}

// QAPairs returns the pairs generated from a document in insertion order. An empty
// contextID returns every pair.
func (s *Store) QAPairs(contextID string) []annotation.QAPairRecord {
	s.mut.RLock()
	defer s.mut.RUnlock()

	pairs := []annotation.QAPairRecord{}
	for _, id := range s.qaOrder {
		if p := s.qaPairs[id]; contextID == "" || p.SourceContextID == contextID {
			pairs = append(pairs, p)
		}
	}
	return pairs
}

// Delete forgets every annotation of a document, its question and answer pairs included.
func (s *Store) Delete(contextID string) {
	s.mut.Lock()
	defer s.mut.Unlock()

	delete(s.languages, contextID)
	delete(s.entities, contextID)
	delete(s.intents, contextID)

	kept := s.qaOrder[:0]
	for _, id := range s.qaOrder {
		if s.qaPairs[id].SourceContextID == contextID {
			delete(s.qaPairs, id)
			continue
		}
		kept = append(kept, id)
	}
	s.qaOrder = kept
}
