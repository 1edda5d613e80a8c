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
	"runtime"
	"strings"
	"time"

	"github.com/lk-health/corpus-annotator/lib/domain"
	"github.com/lk-health/corpus-annotator/lib/entity"
	"github.com/lk-health/corpus-annotator/lib/intent"
	"github.com/lk-health/corpus-annotator/lib/language"
	"github.com/lk-health/corpus-annotator/lib/markup"
	"github.com/lk-health/corpus-annotator/lib/preprocess"
	"github.com/lk-health/corpus-annotator/lib/qa"
	"github.com/lk-health/corpus-annotator/lib/romanized"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// The stages of the pipeline.
type (
	LanguageDetector interface {
		Detect(s string) language.Result
	}
	RomanizedClassifier interface {
		Classify(s string) romanized.Result
	}
	Preprocessor interface {
		Preprocess(s, language string, detectPII bool) preprocess.Result
	}
	EntityExtractor interface {
		Extract(s, language string) entity.Result
	}
	IntentClassifier interface {
		Classify(s string) intent.Result
	}
	DomainTagger interface {
		Tag(s string) domain.Result
	}
	QAGenerator interface {
		Generate(s string, entities []entity.Entity, src qa.Source) []qa.Pair
		FromFAQ(s string, src qa.Source) []qa.Pair
	}
)

// Document is one unit of input. When Text is empty it is rendered from HTML. FAQ markup
// in HTML is also searched for question and answer pairs.
type Document struct {
	ContextID string `json:"context_id"`
	Text      string `json:"text"`
	HTML      string `json:"html,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
}

type Options struct {
	GenerateQA bool `mapstructure:"generate_qa"`
	// Workers bounds the documents processed at once by ProcessBatch.
	Workers int `mapstructure:"workers"`
}

func DefaultOptions() Options {
	return Options{GenerateQA: true, Workers: runtime.NumCPU()}
}

// Result holds the output of every stage that ran. A nil stage result means the stage
// never ran because an earlier one failed; Errors says why.
type Result struct {
	ContextID      string             `json:"context_id"`
	Language       *language.Result   `json:"language"`
	Romanized      *romanized.Result  `json:"romanized,omitempty"`
	Preprocessing  *preprocess.Result `json:"preprocessing"`
	Entities       *entity.Result     `json:"entities"`
	Intent         *intent.Result     `json:"intent"`
	Domain         *domain.Result     `json:"domain"`
	QAPairs        []qa.Pair          `json:"qa_pairs"`
	ProcessingTime time.Duration      `json:"processing_time"`
	Errors         []string           `json:"errors"`
}

type Processor struct {
	detector     LanguageDetector
	romanized    RomanizedClassifier
	preprocessor Preprocessor
	extractor    EntityExtractor
	intents      IntentClassifier
	domains      DomainTagger
	generator    QAGenerator
	opts         Options
}

type Option func(*Processor)

func WithLanguageDetector(d LanguageDetector) Option {
	return func(p *Processor) { p.detector = d }
}

func WithRomanizedClassifier(c RomanizedClassifier) Option {
	return func(p *Processor) { p.romanized = c }
}

func WithPreprocessor(pp Preprocessor) Option {
	return func(p *Processor) { p.preprocessor = pp }
}

func WithEntityExtractor(e EntityExtractor) Option {
	return func(p *Processor) { p.extractor = e }
}

func WithIntentClassifier(c IntentClassifier) Option {
	return func(p *Processor) { p.intents = c }
}

func WithDomainTagger(t DomainTagger) Option {
	return func(p *Processor) { p.domains = t }
}

func WithQAGenerator(g QAGenerator) Option {
	return func(p *Processor) { p.generator = g }
}

// New returns a Processor. Stages not supplied through opts use their defaults, which
// rely on built-in resources only.
func New(options Options, opts ...Option) *Processor {
	if options.Workers <= 0 {
		options.Workers = runtime.NumCPU()
	}
	p := &Processor{opts: options}
	for _, opt := range opts {
		opt(p)
	}
	if p.detector == nil {
		p.detector = language.NewDetector()
	}
	if p.romanized == nil {
		p.romanized = romanized.New("")
	}
	if p.preprocessor == nil {
		p.preprocessor = preprocess.New(preprocess.DefaultOptions())
	}
	if p.extractor == nil {
		p.extractor = entity.New("")
	}
	if p.intents == nil {
		p.intents = intent.New()
	}
	if p.domains == nil {
		p.domains = domain.New()
	}
	if p.generator == nil {
		p.generator = qa.New()
	}
	return p
}

/**
	Process runs the pipeline over one document:

	language detection, Romanized classification of Latin script text, preprocessing,
	then entity extraction, intent classification and domain tagging over the cleaned
	text, and finally question and answer generation.

	Process never panics. A failing stage stops the pipeline, its message is added to
	Errors and the results of the stages before it are kept.
**/
func (p *Processor) Process(doc Document) (res Result) {
	start := time.Now()
	res = Result{ContextID: doc.ContextID, QAPairs: []qa.Pair{}, Errors: []string{}}
	defer func() {
		if r := recover(); r != nil {
			p.fail(&res, fmt.Errorf("%v", r))
		}
		res.ProcessingTime = time.Since(start)
	}()

	text := doc.Text
	if text == "" && doc.HTML != "" {
		var err error
		if text, err = markup.ToText(strings.NewReader(doc.HTML)); err != nil {
			p.fail(&res, fmt.Errorf("render html: %w", err))
			return res
		}
	}

	lang := p.detector.Detect(text)
	res.Language = &lang

	if lang.ScriptType == language.LatinScript {
		rom := p.romanized.Classify(text)
		res.Romanized = &rom
	}

	pre := p.preprocessor.Preprocess(text, string(lang.Language), true)
	res.Preprocessing = &pre
	cleaned := pre.CleanedText

	entities := p.extractor.Extract(cleaned, string(lang.Language))
	res.Entities = &entities

	in := p.intents.Classify(cleaned)
	res.Intent = &in

	dom := p.domains.Tag(cleaned)
	res.Domain = &dom

	if p.opts.GenerateQA {
		src := qa.Source{URL: doc.SourceURL, ContextID: doc.ContextID}
		pairs := p.generator.Generate(cleaned, entities.Entities, src)
		if doc.HTML != "" {
			pairs = qa.Dedup(append(p.generator.FromFAQ(doc.HTML, src), pairs...))
		}
		for i := range pairs {
			if pairs[i].Intent == "" {
				pairs[i].Intent = in.Intent
			}
			if pairs[i].Domain == "" {
				pairs[i].Domain = dom.Primary
			}
		}
		res.QAPairs = pairs
	}
	return res
}

func (p *Processor) fail(res *Result, err error) {
	log.Error().Err(err).Str("context_id", res.ContextID).Msg("annotation failed")
	res.Errors = append(res.Errors, err.Error())
}

// ProcessBatch processes docs concurrently, at most Workers at a time, and returns the
// results in the order of docs. Documents not started before ctx is done are left as
// zero Results and the context error is returned.
func (p *Processor) ProcessBatch(ctx context.Context, docs []Document) ([]Result, error) {
	results := make([]Result, len(docs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = p.Process(doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
