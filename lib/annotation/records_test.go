package annotation

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/lk-health/corpus-annotator/lib/domain"
	"github.com/lk-health/corpus-annotator/lib/entity"
	"github.com/lk-health/corpus-annotator/lib/intent"
	"github.com/lk-health/corpus-annotator/lib/language"
	"github.com/lk-health/corpus-annotator/lib/preprocess"
	"github.com/lk-health/corpus-annotator/lib/qa"
	"github.com/lk-health/corpus-annotator/lib/romanized"
	"github.com/stretchr/testify/assert"
)

func TestNewLanguageRecord(t *testing.T) {
	english := language.Result{Language: language.English, Confidence: 0.8, ScriptType: language.LatinScript}
	tests := []struct {
		name      string
		romanized *romanized.Result
		expected  LanguageRecord
	}{
		{
			name:     "not latin script",
			expected: LanguageRecord{ContextID: "doc", DetectedLanguage: "english", LanguageConfidence: 0.8},
		},
		{
			name:      "singlish",
			romanized: &romanized.Result{Classification: romanized.Singlish},
			expected:  LanguageRecord{ContextID: "doc", DetectedLanguage: "english", LanguageConfidence: 0.8, IsRomanized: true, RomanizedType: "singlish"},
		},
		{
			name:      "mixed",
			romanized: &romanized.Result{Classification: romanized.Mixed},
			expected:  LanguageRecord{ContextID: "doc", DetectedLanguage: "english", LanguageConfidence: 0.8, IsRomanized: true, RomanizedType: "mixed"},
		},
		{
			name:      "pure english is not romanized",
			romanized: &romanized.Result{Classification: romanized.PureEnglish},
			expected:  LanguageRecord{ContextID: "doc", DetectedLanguage: "english", LanguageConfidence: 0.8},
		},
		{
			name:      "unknown",
			romanized: &romanized.Result{Classification: romanized.Unknown},
			expected:  LanguageRecord{ContextID: "doc", DetectedLanguage: "english", LanguageConfidence: 0.8},
		},
	}
	for _, tt := range tests {
		t.Log(tt.name)
		assert.Equal(t, tt.expected, NewLanguageRecord("doc", english, tt.romanized))
	}
}

func TestNewEntityRecord(t *testing.T) {
	rec := NewEntityRecord(entity.Entity{Type: entity.Disease, Text: "dengue", Normalized: "Dengue Fever", Start: 4, End: 10, Confidence: 0.9})
	b, err := json.Marshal(rec)
	assert.NoError(t, err)
	assert.JSONEq(t,
		`{"type":"disease","text":"dengue","normalized":"Dengue Fever","start":4,"end":10,"confidence":0.9,"metadata":{}}`,
		string(b))

	assert.Equal(t, []EntityRecord{}, NewEntityRecords(nil))
}

func TestNewQAPairRecord(t *testing.T) {
	p := qa.Pair{
		ID:               "qa-1",
		Question:         "dengue clinic eka koheda?",
		Answer:           "The dengue clinic is on the second floor.",
		QuestionLanguage: language.English,
		AnswerLanguage:   language.English,
		IsRomanized:      true,
		RomanizedType:    romanized.Singlish,
		Intent:           intent.AskingLocation,
		Domain:           domain.Dengue,
		Entities:         []entity.Entity{{Type: entity.Disease, Text: "dengue", Start: 0, End: 6, Confidence: 0.9}},
		SourceContextID:  "doc",
		Confidence:       0.8,
	}
	rec := NewQAPairRecord(p)

	assert.Equal(t, "dengue clinic eka koheda?", rec.QuestionText)
	assert.True(t, rec.QuestionIsRomanized)
	assert.Equal(t, "singlish", rec.QuestionRomanizedType)
	assert.Equal(t, "asking_location", rec.Intent)
	assert.Equal(t, "dengue", rec.Domain)
	assert.Len(t, rec.Entities, 1)
	assert.Equal(t, map[string]interface{}{}, rec.Entities[0].Metadata)
	assert.False(t, rec.Verified)
}

func TestSummary(t *testing.T) {
	res := Result{
		ContextID:     "doc",
		Language:      &language.Result{Language: language.English, Confidence: 0.8, ScriptType: language.LatinScript},
		Romanized:     &romanized.Result{Classification: romanized.Tamilish},
		Preprocessing: &preprocess.Result{PIIRemoved: true},
		Entities:      &entity.Result{Entities: []entity.Entity{{Type: entity.Hospital, Text: "National Hospital"}}},
		Intent:        &intent.Result{Intent: intent.AskingLocation},
		Domain:        &domain.Result{Primary: domain.OPD},
		QAPairs:       []qa.Pair{{ID: "1"}, {ID: "2"}},
		// 1.5ms
		ProcessingTime: 1500 * time.Microsecond,
		Errors:         []string{},
	}
	s := res.Summary()

	assert.Equal(t, "english", s.DetectedLanguage)
	assert.True(t, s.IsRomanized)
	assert.Equal(t, "tamilish", s.RomanizedType)
	assert.Len(t, s.Entities, 1)
	assert.Equal(t, "asking_location", s.Intent)
	assert.Equal(t, "opd", s.Domain)
	assert.Equal(t, 2, s.QAPairsCount)
	assert.True(t, s.PIIRemoved)
	assert.Equal(t, 1.5, s.ProcessingTimeMS)

	failed := Result{ContextID: "broken", Errors: []string{"boom"}}.Summary()
	assert.Empty(t, failed.DetectedLanguage)
	assert.Equal(t, []EntityRecord{}, failed.Entities)
	assert.Equal(t, []string{"boom"}, failed.Errors)
}
