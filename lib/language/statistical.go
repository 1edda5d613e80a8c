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
	"github.com/abadojack/whatlanggo"
)

// EnglishCode is the ISO 639-1 code statistical detectors report for English.
const EnglishCode = "en"

// Candidate is the best guess of a statistical detector.
type Candidate struct {
	Lang        string
	Probability float64
}

// StatisticalDetector is an external language model used to refine Latin script
// detection.
type StatisticalDetector interface {
	Top(s string) (Candidate, error)
}

type whatlang struct {
	options whatlanggo.Options
}

// NewWhatlangDetector returns a StatisticalDetector backed by whatlanggo. Only Latin
// script languages are considered since the detector is consulted for Latin text only.
func NewWhatlangDetector() StatisticalDetector {
	return &whatlang{
		options: whatlanggo.Options{
			Whitelist: map[whatlanggo.Lang]bool{
				whatlanggo.Eng: true,
				whatlanggo.Deu: true,
				whatlanggo.Fra: true,
				whatlanggo.Spa: true,
				whatlanggo.Por: true,
				whatlanggo.Ita: true,
				whatlanggo.Nld: true,
				whatlanggo.Ind: true,
				whatlanggo.Tgl: true,
			},
		},
	}
}

func (w *whatlang) Top(s string) (Candidate, error) {
	info := whatlanggo.DetectWithOptions(s, w.options)
	if info.Lang == whatlanggo.Eng {
		return Candidate{Lang: EnglishCode, Probability: info.Confidence}, nil
	}
	return Candidate{Lang: info.Lang.String(), Probability: info.Confidence}, nil
}
