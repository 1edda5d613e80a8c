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
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Repository stores annotations. Implementations live under lib/store.
type Repository interface {
	UpdateLanguage(ctx context.Context, rec LanguageRecord) error
	UpdateEntities(ctx context.Context, contextID string, entities []EntityRecord) error
	UpdateIntentDomain(ctx context.Context, contextID, intent, domain string) error
	InsertQAPair(ctx context.Context, rec QAPairRecord) error
}

// Batch is a Repository that holds its writes until Commit.
type Batch interface {
	Repository
	Commit(ctx context.Context) error
}

// Batcher is implemented by repositories that can send all the writes of one document
// together.
type Batcher interface {
	NewBatch() Batch
}

/**
	Save writes the annotations of res to repo. Stages that did not run are skipped, except
	intent and domain which are always written, empty when unknown.

	When repo is a Batcher the records of res are collected in one Batch and committed
	once.
**/
func Save(ctx context.Context, res Result, repo Repository) error {
	id := res.ContextID

	var batch Batch
	if b, ok := repo.(Batcher); ok {
		batch = b.NewBatch()
		repo = batch
	}

	if res.Language != nil {
		if err := repo.UpdateLanguage(ctx, NewLanguageRecord(id, *res.Language, res.Romanized)); err != nil {
			return fmt.Errorf("save language of %v: %w", id, err)
		}
	}

	entities := 0
	if res.Entities != nil && len(res.Entities.Entities) > 0 {
		entities = len(res.Entities.Entities)
		if err := repo.UpdateEntities(ctx, id, NewEntityRecords(res.Entities.Entities)); err != nil {
			return fmt.Errorf("save entities of %v: %w", id, err)
		}
	}

	var intent, domain string
	if res.Intent != nil {
		intent = string(res.Intent.Intent)
	}
	if res.Domain != nil {
		domain = string(res.Domain.Primary)
	}
	if err := repo.UpdateIntentDomain(ctx, id, intent, domain); err != nil {
		return fmt.Errorf("save intent and domain of %v: %w", id, err)
	}

	for _, p := range res.QAPairs {
		if err := repo.InsertQAPair(ctx, NewQAPairRecord(p)); err != nil {
			return fmt.Errorf("save qa pair %v of %v: %w", p.ID, id, err)
		}
	}

	if batch != nil {
		if err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("commit annotations of %v: %w", id, err)
		}
	}

	log.Info().
		Str("context_id", id).
		Int("entities", entities).
		Int("qa_pairs", len(res.QAPairs)).
		Msg("saved annotations")
	return nil
}
