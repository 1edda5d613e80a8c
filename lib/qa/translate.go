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

package qa

import (
	"context"

	"github.com/lk-health/corpus-annotator/lib/entity"
	"github.com/lk-health/corpus-annotator/lib/language"
	"github.com/rs/zerolog/log"
)

const translationDiscount = 0.9

// Translator translates text between the supported languages.
type Translator interface {
	Translate(ctx context.Context, text string, from, to language.Language) (string, error)
}

// Multilingual returns p followed by its translations into Sinhala and Tamil, and into
// English when p isn't already English. A language the translator fails on is skipped.
func (g *Generator) Multilingual(ctx context.Context, p Pair, translator Translator) []Pair {
	pairs := []Pair{p}

	targets := []language.Language{language.Sinhala, language.Tamil}
	if p.QuestionLanguage != language.English {
		targets = append(targets, language.English)
	}

	for _, target := range targets {
		if target == p.QuestionLanguage {
			continue
		}
		question, err := translator.Translate(ctx, p.Question, p.QuestionLanguage, target)
		if err != nil {
			log.Warn().Err(err).Str("pair_id", p.ID).Str("target", string(target)).Msg("question translation failed")
			continue
		}
		answer, err := translator.Translate(ctx, p.Answer, p.AnswerLanguage, target)
		if err != nil {
			log.Warn().Err(err).Str("pair_id", p.ID).Str("target", string(target)).Msg("answer translation failed")
			continue
		}
		pairs = append(pairs, Pair{
			ID:               g.newID(),
			Question:         question,
			Answer:           answer,
			QuestionLanguage: target,
			AnswerLanguage:   target,
			Intent:           p.Intent,
			Domain:           p.Domain,
			Entities:         []entity.Entity{},
			SourceURL:        p.SourceURL,
			SourceContextID:  p.SourceContextID,
			Confidence:       p.Confidence * translationDiscount,
		})
	}
	return pairs
}
