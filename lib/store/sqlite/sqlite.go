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

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/lk-health/corpus-annotator/lib/annotation"
)

// Store keeps annotations in a SQLite database, one row per document in annotations and
// one row per pair in qa_pairs.
type Store struct {
	db *sql.DB
}

// Open opens the database at path with WAL mode enabled and creates the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS annotations (
	context_id TEXT PRIMARY KEY,
	detected_language TEXT,
	language_confidence REAL,
	is_romanized INTEGER NOT NULL DEFAULT 0,
	romanized_type TEXT,
	entities TEXT NOT NULL DEFAULT '[]',
	intent TEXT,
	domain TEXT
);

CREATE TABLE IF NOT EXISTS qa_pairs (
	id TEXT PRIMARY KEY,
	question_text TEXT NOT NULL,
	answer_text TEXT NOT NULL,
	question_language TEXT,
	answer_language TEXT,
	question_is_romanized INTEGER NOT NULL DEFAULT 0,
	question_romanized_type TEXT,
	intent TEXT,
	domain TEXT,
	entities TEXT NOT NULL DEFAULT '[]',
	source_url TEXT,
	source_context_id TEXT,
	confidence REAL,
	verified INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_qa_pairs_context ON qa_pairs(source_context_id);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *Store) UpdateLanguage(ctx context.Context, rec annotation.LanguageRecord) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO annotations (context_id, detected_language, language_confidence, is_romanized, romanized_type)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(context_id) DO UPDATE SET
	detected_language = excluded.detected_language,
	language_confidence = excluded.language_confidence,
	is_romanized = excluded.is_romanized,
	romanized_type = excluded.romanized_type`,
		rec.ContextID, rec.DetectedLanguage, rec.LanguageConfidence, rec.IsRomanized, nullable(rec.RomanizedType))
	if err != nil {
		return fmt.Errorf("update language of %v: %w", rec.ContextID, err)
	}
	return nil
}

func (s *Store) UpdateEntities(ctx context.Context, contextID string, entities []annotation.EntityRecord) error {
	if entities == nil {
		entities = []annotation.EntityRecord{}
	}
	b, err := json.Marshal(entities)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO annotations (context_id, entities) VALUES (?, ?)
ON CONFLICT(context_id) DO UPDATE SET entities = excluded.entities`,
		contextID, string(b))
	if err != nil {
		return fmt.Errorf("update entities of %v: %w", contextID, err)
	}
	return nil
}

func (s *Store) UpdateIntentDomain(ctx context.Context, contextID, intent, domain string) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO annotations (context_id, intent, domain) VALUES (?, ?, ?)
ON CONFLICT(context_id) DO UPDATE SET intent = excluded.intent, domain = excluded.domain`,
		contextID, nullable(intent), nullable(domain))
	if err != nil {
		return fmt.Errorf("update intent and domain of %v: %w", contextID, err)
	}
	return nil
}

func (s *Store) InsertQAPair(ctx context.Context, rec annotation.QAPairRecord) error {
	entities := rec.Entities
	if entities == nil {
		entities = []annotation.EntityRecord{}
	}
	b, err := json.Marshal(entities)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO qa_pairs (
	id, question_text, answer_text, question_language, answer_language,
	question_is_romanized, question_romanized_type, intent, domain, entities,
	source_url, source_context_id, confidence, verified
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.QuestionText, rec.AnswerText, rec.QuestionLanguage, rec.AnswerLanguage,
		rec.QuestionIsRomanized, nullable(rec.QuestionRomanizedType), nullable(rec.Intent), nullable(rec.Domain), string(b),
		nullable(rec.SourceURL), nullable(rec.SourceContextID), rec.Confidence, rec.Verified)
	if err != nil {
		return fmt.Errorf("insert qa pair %v: %w", rec.ID, err)
	}
	return nil
}

// Annotation is a row of the annotations table.
type Annotation struct {
	Language annotation.LanguageRecord
	Entities []annotation.EntityRecord
	Intent   string
	Domain   string
}

// Annotation returns the stored annotations of a document. found is false when nothing
// was stored for it.
func (s *Store) Annotation(ctx context.Context, contextID string) (a Annotation, found bool, err error) {
	var (
		language, romanizedType, intent, domain sql.NullString
		confidence                              sql.NullFloat64
		entities                                string
	)
	err = s.db.QueryRowContext(ctx, `
SELECT detected_language, language_confidence, is_romanized, romanized_type, entities, intent, domain
FROM annotations WHERE context_id = ?`, contextID).
		Scan(&language, &confidence, &a.Language.IsRomanized, &romanizedType, &entities, &intent, &domain)
	if errors.Is(err, sql.ErrNoRows) {
		return a, false, nil
	} else if err != nil {
		return a, false, fmt.Errorf("get annotation %v: %w", contextID, err)
	}

	a.Language.ContextID = contextID
	a.Language.DetectedLanguage = language.String
	a.Language.LanguageConfidence = confidence.Float64
	a.Language.RomanizedType = romanizedType.String
	a.Intent = intent.String
	a.Domain = domain.String
	if err := json.Unmarshal([]byte(entities), &a.Entities); err != nil {
		return a, false, fmt.Errorf("decode entities of %v: %w", contextID, err)
	}
	return a, true, nil
}

// QAPairs returns the pairs generated from a document ordered by insertion.
func (s *Store) QAPairs(ctx context.Context, contextID string) ([]annotation.QAPairRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, question_text, answer_text, question_language, answer_language,
	question_is_romanized, question_romanized_type, intent, domain, entities,
	source_url, source_context_id, confidence, verified
FROM qa_pairs WHERE source_context_id = ? ORDER BY rowid`, contextID)
	if err != nil {
		return nil, fmt.Errorf("list qa pairs of %v: %w", contextID, err)
	}
	defer rows.Close()

	pairs := []annotation.QAPairRecord{}
	for rows.Next() {
		var (
			p                                                 annotation.QAPairRecord
			romanizedType, intent, domain, url, sourceContext sql.NullString
			entities                                          string
		)
		if err := rows.Scan(&p.ID, &p.QuestionText, &p.AnswerText, &p.QuestionLanguage, &p.AnswerLanguage,
			&p.QuestionIsRomanized, &romanizedType, &intent, &domain, &entities,
			&url, &sourceContext, &p.Confidence, &p.Verified); err != nil {
			return nil, err
		}
		p.QuestionRomanizedType = romanizedType.String
		p.Intent = intent.String
		p.Domain = domain.String
		p.SourceURL = url.String
		p.SourceContextID = sourceContext.String
		if err := json.Unmarshal([]byte(entities), &p.Entities); err != nil {
			return nil, fmt.Errorf("decode entities of qa pair %v: %w", p.ID, err)
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

// nullable stores empty strings as NULL.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
