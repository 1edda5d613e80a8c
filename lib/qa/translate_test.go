package qa

import (
	"context"
	"errors"
	"testing"

	"github.com/lk-health/corpus-annotator/lib/intent"
	"github.com/lk-health/corpus-annotator/lib/language"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockTranslator struct {
	mock.Mock
}

func (m *mockTranslator) Translate(ctx context.Context, text string, from, to language.Language) (string, error) {
	args := m.Called(ctx, text, from, to)
	return args.String(0), args.Error(1)
}

func TestMultilingual(t *testing.T) {
	ctx := context.Background()
	original := Pair{
		ID:               "qa-1",
		Question:         "Where is the dengue clinic?",
		Answer:           "The dengue clinic is on the ground floor.",
		QuestionLanguage: language.English,
		AnswerLanguage:   language.English,
		Intent:           intent.AskingLocation,
		SourceContextID:  "ctx-1",
		Confidence:       0.8,
	}

	translator := new(mockTranslator)
	translator.On("Translate", ctx, original.Question, language.English, language.Sinhala).Return("ඩෙංගු සායනය කොහෙද?", nil).Once()
	translator.On("Translate", ctx, original.Answer, language.English, language.Sinhala).Return("ඩෙංගු සායනය බිම් මහලේ ඇත.", nil).Once()
	translator.On("Translate", ctx, original.Question, language.English, language.Tamil).Return("", errors.New("model unavailable")).Once()

	pairs := New().Multilingual(ctx, original, translator)
	translator.AssertExpectations(t)

	require.Len(t, pairs, 2)
	assert.Equal(t, original, pairs[0])

	sinhala := pairs[1]
	assert.NotEqual(t, original.ID, sinhala.ID)
	assert.Equal(t, "ඩෙංගු සායනය කොහෙද?", sinhala.Question)
	assert.Equal(t, "ඩෙංගු සායනය බිම් මහලේ ඇත.", sinhala.Answer)
	assert.Equal(t, language.Sinhala, sinhala.QuestionLanguage)
	assert.Equal(t, language.Sinhala, sinhala.AnswerLanguage)
	assert.Equal(t, intent.AskingLocation, sinhala.Intent)
	assert.Equal(t, "ctx-1", sinhala.SourceContextID)
	assert.InDelta(t, 0.72, sinhala.Confidence, 1e-9)
}

func TestMultilingualFromNativeLanguage(t *testing.T) {
	ctx := context.Background()
	original := Pair{
		ID:               "qa-2",
		Question:         "ඩෙංගු රෝග ලක්ෂණ මොනවාද?",
		Answer:           "අධික උණ සහ හිසරදය.",
		QuestionLanguage: language.Sinhala,
		AnswerLanguage:   language.Sinhala,
		Confidence:       1,
	}

	translator := new(mockTranslator)
	translator.On("Translate", ctx, mock.Anything, language.Sinhala, language.Tamil).Return("tamil", nil).Twice()
	translator.On("Translate", ctx, mock.Anything, language.Sinhala, language.English).Return("english", nil).Twice()

	pairs := New().Multilingual(ctx, original, translator)
	translator.AssertExpectations(t)

	require.Len(t, pairs, 3)
	assert.Equal(t, language.Tamil, pairs[1].QuestionLanguage)
	assert.Equal(t, language.English, pairs[2].QuestionLanguage)
	assert.Equal(t, "english", pairs[2].Answer)
	assert.InDelta(t, 0.9, pairs[2].Confidence, 1e-9)
}

func TestMultilingualSkipsFailedAnswers(t *testing.T) {
	ctx := context.Background()
	original := Pair{Question: "What is dengue?", Answer: "A viral fever.", QuestionLanguage: language.English, AnswerLanguage: language.English}

	translator := new(mockTranslator)
	translator.On("Translate", ctx, original.Question, language.English, mock.Anything).Return("translated", nil)
	translator.On("Translate", ctx, original.Answer, language.English, mock.Anything).Return("", errors.New("timeout"))

	pairs := New().Multilingual(ctx, original, translator)
	require.Len(t, pairs, 1)
	assert.Equal(t, original, pairs[0])
}
