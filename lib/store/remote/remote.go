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

package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lk-health/corpus-annotator/lib/annotation"
)

type Client interface {
	NewSetPipeline(size int) SetPipeline
	Ready() bool
}

type Pipeline interface {
	Size() int
}

// SetPipeline buffers writes until ExecSet sends them in one round trip.
type SetPipeline interface {
	Set(key string, data []byte)
	ExecSet(ctx context.Context) error
	Pipeline
}

func LanguageKey(contextID string) string {
	return fmt.Sprintf("annotation:%s:language", contextID)
}

func EntitiesKey(contextID string) string {
	return fmt.Sprintf("annotation:%s:entities", contextID)
}

func IntentDomainKey(contextID string) string {
	return fmt.Sprintf("annotation:%s:intent_domain", contextID)
}

func QAPairKey(id string) string {
	return fmt.Sprintf("qa_pair:%s", id)
}

// EntitiesDoc and IntentDomainDoc wrap values that are not stored as records of their own.
type EntitiesDoc struct {
	ContextID string                    `json:"context_id"`
	Entities  []annotation.EntityRecord `json:"entities"`
}

type IntentDomainDoc struct {
	ContextID string `json:"context_id"`
	Intent    string `json:"intent"`
	Domain    string `json:"domain"`
}

// Repository stores annotations as JSON documents through a remote Client.
type Repository struct {
	client Client
}

func NewRepository(client Client) *Repository {
	return &Repository{client: client}
}

// NewBatch returns a Batch writing through a single SetPipeline.
func (r *Repository) NewBatch() annotation.Batch {
	return r.newBatch(4)
}

func (r *Repository) newBatch(size int) *Batch {
	return &Batch{pipe: r.client.NewSetPipeline(size)}
}

func (r *Repository) set(ctx context.Context, key string, v interface{}) error {
	b := r.newBatch(1)
	if err := b.add(ctx, key, v); err != nil {
		return err
	}
	return b.Commit(ctx)
}

func (r *Repository) UpdateLanguage(ctx context.Context, rec annotation.LanguageRecord) error {
	return r.set(ctx, LanguageKey(rec.ContextID), rec)
}

func (r *Repository) UpdateEntities(ctx context.Context, contextID string, entities []annotation.EntityRecord) error {
	return r.set(ctx, EntitiesKey(contextID), EntitiesDoc{ContextID: contextID, Entities: entities})
}

func (r *Repository) UpdateIntentDomain(ctx context.Context, contextID, intent, domain string) error {
	return r.set(ctx, IntentDomainKey(contextID), IntentDomainDoc{ContextID: contextID, Intent: intent, Domain: domain})
}

func (r *Repository) InsertQAPair(ctx context.Context, rec annotation.QAPairRecord) error {
	return r.set(ctx, QAPairKey(rec.ID), rec)
}

// Batch buffers documents in a SetPipeline. Nothing is sent before Commit. A Batch is
// not safe for concurrent use.
type Batch struct {
	pipe SetPipeline
	keys []string
}

func (b *Batch) add(ctx context.Context, key string, v interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %v: %w", key, err)
	}
	b.pipe.Set(key, data)
	b.keys = append(b.keys, key)
	return nil
}

// Commit sends the buffered documents in one round trip. An empty batch sends nothing.
func (b *Batch) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.pipe.Size() == 0 {
		return nil
	}
	if err := b.pipe.ExecSet(ctx); err != nil {
		return fmt.Errorf("set %v: %w", strings.Join(b.keys, ", "), err)
	}
	return nil
}

func (b *Batch) UpdateLanguage(ctx context.Context, rec annotation.LanguageRecord) error {
	return b.add(ctx, LanguageKey(rec.ContextID), rec)
}

func (b *Batch) UpdateEntities(ctx context.Context, contextID string, entities []annotation.EntityRecord) error {
	return b.add(ctx, EntitiesKey(contextID), EntitiesDoc{ContextID: contextID, Entities: entities})
}

func (b *Batch) UpdateIntentDomain(ctx context.Context, contextID, intent, domain string) error {
	return b.add(ctx, IntentDomainKey(contextID), IntentDomainDoc{ContextID: contextID, Intent: intent, Domain: domain})
}

func (b *Batch) InsertQAPair(ctx context.Context, rec annotation.QAPairRecord) error {
	return b.add(ctx, QAPairKey(rec.ID), rec)
}
