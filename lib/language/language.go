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

package language

import (
	"strings"
	"unicode"

	"github.com/lk-health/corpus-annotator/lib/text"
)

type Language string

const (
	Sinhala Language = "sinhala"
	Tamil   Language = "tamil"
	English Language = "english"
	Mixed   Language = "mixed"
	Unknown Language = "unknown"
)

type ScriptType string

const (
	SinhalaScript ScriptType = "sinhala_script"
	TamilScript   ScriptType = "tamil_script"
	LatinScript   ScriptType = "latin"
	MixedScript   ScriptType = "mixed"
	NumericScript ScriptType = "numeric"
	UnknownScript ScriptType = "unknown"
)

const (
	// MinCharsForDetection is the shortest trimmed input that is analysed at all.
	MinCharsForDetection = 3
	DominanceThreshold   = 0.7
	MixedThreshold       = 0.2
	nativeScriptRatio    = 0.1
)

// Result is the outcome of detecting the language of one text.
type Result struct {
	Language           Language          `json:"language"`
	Confidence         float64           `json:"confidence"`
	ScriptType         ScriptType        `json:"script_type"`
	ScriptDistribution text.Distribution `json:"script_distribution"`
	IsMixedScript      bool              `json:"is_mixed_script"`
	DominantScript     string            `json:"dominant_script,omitempty"`
}

// Detector assigns languages from the Unicode script make-up of a text. An optional
// StatisticalDetector refines the confidence of Latin text reported as English.
type Detector struct {
	statistical StatisticalDetector
}

type Option func(*Detector)

// WithStatisticalDetector enables the statistical fallback for Latin script text.
func WithStatisticalDetector(s StatisticalDetector) Option {
	return func(d *Detector) {
		d.statistical = s
	}
}

func NewDetector(opts ...Option) *Detector {
	d := &Detector{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// HasStatisticalFallback reports whether a statistical detector is configured.
func (d *Detector) HasStatisticalFallback() bool {
	return d.statistical != nil
}

// DetectScript returns the primary script type of s.
func (d *Detector) DetectScript(s string) ScriptType {
	return scriptType(s, text.ScriptDistribution(s))
}

// scriptType maps a distribution to a ScriptType. Text without classified characters is
// numeric when it holds a digit.
func scriptType(s string, dist text.Distribution) ScriptType {
	if len(dist) == 0 {
		if strings.IndexFunc(s, unicode.IsDigit) >= 0 {
			return NumericScript
		}
		return UnknownScript
	}

	script, ratio := dist.Dominant(true)
	if ratio >= DominanceThreshold {
		switch script {
		case text.Sinhala:
			return SinhalaScript
		case text.Tamil:
			return TamilScript
		case text.Latin:
			return LatinScript
		}
	}

	present := 0
	for _, r := range dist {
		if r >= MixedThreshold {
			present++
		}
	}
	if present >= 2 {
		return MixedScript
	}
	return UnknownScript
}

// Detect classifies the language of s. Inputs with fewer than MinCharsForDetection
// characters after trimming are Unknown with zero confidence.
func (d *Detector) Detect(s string) Result {
	if len([]rune(strings.TrimSpace(s))) < MinCharsForDetection {
		return Result{
			Language:           Unknown,
			ScriptType:         UnknownScript,
			ScriptDistribution: text.Distribution{},
		}
	}

	dist := text.ScriptDistribution(s)
	st := scriptType(s, dist)

	switch st {
	case SinhalaScript:
		return Result{
			Language:           Sinhala,
			Confidence:         dist[text.Sinhala],
			ScriptType:         st,
			ScriptDistribution: dist,
			DominantScript:     text.Sinhala,
		}
	case TamilScript:
		return Result{
			Language:           Tamil,
			Confidence:         dist[text.Tamil],
			ScriptType:         st,
			ScriptDistribution: dist,
			DominantScript:     text.Tamil,
		}
	case LatinScript:
		confidence := dist[text.Latin]
		if p, ok := d.englishProbability(s); ok {
			confidence = p
		}
		return Result{
			Language:           English,
			Confidence:         confidence,
			ScriptType:         st,
			ScriptDistribution: dist,
			DominantScript:     text.Latin,
		}
	case MixedScript:
		script, ratio := dist.Dominant(false)
		lang := Mixed
		switch script {
		case text.Sinhala:
			lang = Sinhala
		case text.Tamil:
			lang = Tamil
		}
		return Result{
			Language:           lang,
			Confidence:         ratio,
			ScriptType:         st,
			ScriptDistribution: dist,
			IsMixedScript:      true,
			DominantScript:     script,
		}
	}

	return Result{
		Language:           Unknown,
		ScriptType:         st,
		ScriptDistribution: dist,
	}
}

// englishProbability asks the statistical detector about s. It only answers when
// English is the top candidate. Detector errors are ignored.
func (d *Detector) englishProbability(s string) (float64, bool) {
	if !d.HasStatisticalFallback() {
		return 0, false
	}
	top, err := d.statistical.Top(s)
	if err != nil || top.Lang != EnglishCode {
		return 0, false
	}
	return clamp(top.Probability), true
}

func (d *Detector) DetectBatch(texts []string) []Result {
	results := make([]Result, 0, len(texts))
	for _, s := range texts {
		results = append(results, d.Detect(s))
	}
	return results
}

// IsNativeScript reports whether more than a tenth of s is Sinhala or Tamil script.
func (d *Detector) IsNativeScript(s string) bool {
	dist := text.ScriptDistribution(s)
	return dist[text.Sinhala] > nativeScriptRatio || dist[text.Tamil] > nativeScriptRatio
}

func clamp(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
