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

package annotation

import (
	"github.com/lk-health/corpus-annotator/lib/entity"
	"github.com/lk-health/corpus-annotator/lib/language"
	"github.com/lk-health/corpus-annotator/lib/qa"
	"github.com/lk-health/corpus-annotator/lib/romanized"
)

// LanguageRecord is the stored language annotation of a document.
type LanguageRecord struct {
	ContextID          string  `json:"context_id"`
	DetectedLanguage   string  `json:"detected_language"`
	LanguageConfidence float64 `json:"language_confidence"`
	IsRomanized        bool    `json:"is_romanized"`
	RomanizedType      string  `json:"romanized_type,omitempty"`
}

// NewLanguageRecord flags a document as Romanized only when it was classified as
// Singlish, Tamilish or a mix of both.
func NewLanguageRecord(contextID string, lang language.Result, rom *romanized.Result) LanguageRecord {
	rec := LanguageRecord{
		ContextID:          contextID,
		DetectedLanguage:   string(lang.Language),
		LanguageConfidence: lang.Confidence,
	}
	if rom != nil && rom.Classification.IsRomanized() {
		rec.IsRomanized = true
		rec.RomanizedType = string(rom.Classification)
	}
	return rec
}

type EntityRecord struct {
	Type       string                 `json:"type"`
	Text       string                 `json:"text"`
	Normalized string                 `json:"normalized"`
	Start      int                    `json:"start"`
	End        int                    `json:"end"`
	Confidence float64                `json:"confidence"`
	Metadata   map[string]interface{} `json:"metadata"`
}

func NewEntityRecord(e entity.Entity) EntityRecord {
	metadata := e.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	return EntityRecord{
		Type:       string(e.Type),
		Text:       e.Text,
		Normalized: e.Normalized,
		Start:      e.Start,
		End:        e.End,
		Confidence: e.Confidence,
		Metadata:   metadata,
	}
}

func NewEntityRecords(entities []entity.Entity) []EntityRecord {
	records := make([]EntityRecord, 0, len(entities))
	for _, e := range entities {
		records = append(records, NewEntityRecord(e))
	}
	return records
}

// QAPairRecord is the stored form of a question and answer pair.
type QAPairRecord struct {
	ID                    string         `json:"id"`
	QuestionText          string         `json:"question_text"`
	AnswerText            string         `json:"answer_text"`
	QuestionLanguage      string         `json:"question_language"`
	AnswerLanguage        string         `json:"answer_language"`
	QuestionIsRomanized   bool           `json:"question_is_romanized"`
	QuestionRomanizedType string         `json:"question_romanized_type,omitempty"`
	Intent                string         `json:"intent,omitempty"`
	Domain                string         `json:"domain,omitempty"`
	Entities              []EntityRecord `json:"entities"`
	SourceURL             string         `json:"source_url,omitempty"`
	SourceContextID       string         `json:"source_context_id,omitempty"`
	Confidence            float64        `json:"confidence"`
	Verified              bool           `json:"verified"`
}

func NewQAPairRecord(p qa.Pair) QAPairRecord {
	return QAPairRecord{
		ID:                    p.ID,
		QuestionText:          p.Question,
		AnswerText:            p.Answer,
		QuestionLanguage:      string(p.QuestionLanguage),
		AnswerLanguage:        string(p.AnswerLanguage),
		QuestionIsRomanized:   p.IsRomanized,
		QuestionRomanizedType: string(p.RomanizedType),
		Intent:                string(p.Intent),
		Domain:                string(p.Domain),
		Entities:              NewEntityRecords(p.Entities),
		SourceURL:             p.SourceURL,
		SourceContextID:       p.SourceContextID,
		Confidence:            p.Confidence,
		Verified:              p.Verified,
	}
}

// Summary is the per document line of a processing report.
type Summary struct {
	ContextID          string         `json:"context_id"`
	DetectedLanguage   string         `json:"detected_language,omitempty"`
	LanguageConfidence float64        `json:"language_confidence"`
	IsRomanized        bool           `json:"is_romanized"`
	RomanizedType      string         `json:"romanized_type,omitempty"`
	Entities           []EntityRecord `json:"entities"`
	Intent             string         `json:"intent,omitempty"`
	Domain             string         `json:"domain,omitempty"`
	QAPairsCount       int            `json:"qa_pairs_count"`
	PIIRemoved         bool           `json:"pii_removed"`
	ProcessingTimeMS   float64        `json:"processing_time_ms"`
	Errors             []string       `json:"errors,omitempty"`
}

func (r Result) Summary() Summary {
	s := Summary{
		ContextID:        r.ContextID,
		Entities:         []EntityRecord{},
		QAPairsCount:     len(r.QAPairs),
		ProcessingTimeMS: float64(r.ProcessingTime.Microseconds()) / 1000,
		Errors:           r.Errors,
	}
	if r.Language != nil {
		rec := NewLanguageRecord(r.ContextID, *r.Language, r.Romanized)
		s.DetectedLanguage = rec.DetectedLanguage
		s.LanguageConfidence = rec.LanguageConfidence
		s.IsRomanized = rec.IsRomanized
		s.RomanizedType = rec.RomanizedType
	}
	if r.Entities != nil {
		s.Entities = NewEntityRecords(r.Entities.Entities)
	}
	if r.Intent != nil {
		s.Intent = string(r.Intent.Intent)
	}
	if r.Domain != nil {
		s.Domain = string(r.Domain.Primary)
	}
	if r.Preprocessing != nil {
		s.PIIRemoved = r.Preprocessing.PIIRemoved
	}
	return s
}
