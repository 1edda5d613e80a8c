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

package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/lk-health/corpus-annotator/lib"
	"github.com/lk-health/corpus-annotator/lib/annotation"
	"github.com/lk-health/corpus-annotator/lib/blocklist"
	"github.com/lk-health/corpus-annotator/lib/dedup"
	"github.com/lk-health/corpus-annotator/lib/entity"
	"github.com/lk-health/corpus-annotator/lib/language"
	"github.com/lk-health/corpus-annotator/lib/preprocess"
	"github.com/lk-health/corpus-annotator/lib/romanized"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

// config structure
type conf struct {
	lib.BaseConfig `mapstructure:",squash"`
	Resources      struct {
		Gazette           string
		RomanizedPatterns string `mapstructure:"romanized_patterns"`
		Blocklist         string
	}
	Pipeline struct {
		annotation.Options  `mapstructure:",squash"`
		StatisticalFallback bool    `mapstructure:"statistical_fallback"`
		SkipDuplicates      bool    `mapstructure:"skip_duplicates"`
		DuplicateThreshold  float64 `mapstructure:"duplicate_threshold"`
	}
	Preprocess preprocess.Options
	Input      struct {
		Format InputFormat
	}
	Sink sinkConfig
}

var config conf

func init() {
	pflag.Usage = func() {
		os.Stderr.WriteString("usage: annotator [--config path] [file ...]\n")
		pflag.PrintDefaults()
	}

	err := lib.InitializeConfig("./config/annotator.yml", map[string]interface{}{
		"log_level":  "info",
		"log_format": "json",
		"resources": map[string]interface{}{
			"gazette":            "./resources/health_entities.json",
			"romanized_patterns": "./resources/romanized_patterns.json",
			"blocklist":          "./resources/blocklist.yml",
		},
		"pipeline": map[string]interface{}{
			"generate_qa":          true,
			"workers":              4,
			"statistical_fallback": false,
			"skip_duplicates":      true,
			"duplicate_threshold":  dedup.DefaultThreshold,
		},
		"preprocess": map[string]interface{}{
			"remove_pii":          true,
			"normalize_romanized": true,
			"mask_string":         preprocess.DefaultMask,
		},
		"input": map[string]interface{}{
			"format": TextInput,
		},
		"sink": map[string]interface{}{
			"type":          NoSink,
			"ready_timeout": "1m",
			"redis": map[string]interface{}{
				"host": "localhost",
				"port": 6379,
			},
			"elasticsearch": map[string]interface{}{
				"host":  "localhost",
				"port":  9200,
				"index": "annotations",
			},
			"sqlite": map[string]interface{}{
				"path": "./annotations.db",
			},
		},
	}, &config)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}

func newProcessor(config conf) *annotation.Processor {
	var detectorOpts []language.Option
	if config.Pipeline.StatisticalFallback {
		detectorOpts = append(detectorOpts, language.WithStatisticalDetector(language.NewWhatlangDetector()))
	}

	var entityOpts []entity.Option
	if config.Resources.Blocklist != "" {
		if bl, err := blocklist.Load(config.Resources.Blocklist); err != nil {
			log.Warn().Err(err).Msg("continuing without a blocklist")
		} else {
			entityOpts = append(entityOpts, entity.WithBlocklist(bl))
		}
	}

	return annotation.New(config.Pipeline.Options,
		annotation.WithLanguageDetector(language.NewDetector(detectorOpts...)),
		annotation.WithRomanizedClassifier(romanized.New(config.Resources.RomanizedPatterns)),
		annotation.WithPreprocessor(preprocess.New(config.Preprocess)),
		annotation.WithEntityExtractor(entity.New(config.Resources.Gazette, entityOpts...)),
	)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go lib.HandleInterrupt(cancel)

	processor := newProcessor(config)

	docs, err := readDocuments(config.Input.Format, pflag.Args(), os.Stdin)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read input")
	}
	if config.Pipeline.SkipDuplicates {
		docs = skipDuplicates(docs, dedup.NewIndex(config.Pipeline.DuplicateThreshold))
	}
	log.Info().Int("documents", len(docs)).Msg("processing")

	repo, closeSink, err := openSink(ctx, config.Sink)
	if err != nil {
		log.Fatal().Err(err).Str("sink", string(config.Sink.Type)).Msg("failed to open sink")
	}
	defer func() {
		if err := closeSink(); err != nil {
			log.Error().Err(err).Msg("failed to close sink")
		}
	}()

	results, err := processor.ProcessBatch(ctx, docs)
	if err != nil {
		log.Error().Err(err).Msg("batch stopped early")
	}

	if err := report(ctx, os.Stdout, results, repo); err != nil {
		log.Error().Err(err).Msg("failed to save annotations")
		cancel()
		os.Exit(1)
	}
}

// report writes one summary line per processed document to w and saves the annotations
// to repo when there is one.
func report(ctx context.Context, w io.Writer, results []annotation.Result, repo annotation.Repository) error {
	enc := json.NewEncoder(w)
	failed := 0
	for _, res := range results {
		if res.ContextID == "" {
			continue
		}
		if len(res.Errors) > 0 {
			failed++
		}
		if repo != nil {
			if err := annotation.Save(ctx, res, repo); err != nil {
				return err
			}
		}
		if err := enc.Encode(res.Summary()); err != nil {
			return err
		}
	}
	log.Info().Int("documents", len(results)).Int("failed", failed).Msg("finished")
	return nil
}
