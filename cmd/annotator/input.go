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
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/lk-health/corpus-annotator/lib/annotation"
	"github.com/lk-health/corpus-annotator/lib/dedup"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
)

type InputFormat string

const (
	TextInput  InputFormat = "text"
	HTMLInput  InputFormat = "html"
	JSONLInput InputFormat = "jsonl"
)

// readDocuments reads one document per path, or per line for jsonl input. stdin is read
// when paths is empty. Documents without a context id get a new ULID.
func readDocuments(format InputFormat, paths []string, stdin io.Reader) ([]annotation.Document, error) {
	if len(paths) == 0 {
		return decode(format, stdin, "")
	}

	var docs []annotation.Document
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		read, err := decode(format, f, path)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %v: %w", path, err)
		}
		docs = append(docs, read...)
	}
	return docs, nil
}

func decode(format InputFormat, r io.Reader, source string) ([]annotation.Document, error) {
	var docs []annotation.Document
	switch format {
	case TextInput, HTMLInput, "":
		b, err := ioutil.ReadAll(r)
		if err != nil {
			return nil, err
		}
		doc := annotation.Document{SourceURL: source}
		if format == HTMLInput {
			doc.HTML = string(b)
		} else {
			doc.Text = string(b)
		}
		docs = append(docs, doc)
	case JSONLInput:
		scn := bufio.NewScanner(r)
		scn.Buffer(make([]byte, 64*1024), 16*1024*1024)
		for line := 1; scn.Scan(); line++ {
			if len(scn.Bytes()) == 0 {
				continue
			}
			var doc annotation.Document
			if err := json.Unmarshal(scn.Bytes(), &doc); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			docs = append(docs, doc)
		}
		if err := scn.Err(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}

	for i := range docs {
		if docs[i].ContextID == "" {
			docs[i].ContextID = ulid.Make().String()
		}
	}
	return docs, nil
}

// skipDuplicates drops documents whose text repeats, or nearly repeats, an earlier one.
func skipDuplicates(docs []annotation.Document, idx *dedup.Index) []annotation.Document {
	unique := docs[:0:0]
	for _, doc := range docs {
		content := doc.Text
		if content == "" {
			content = doc.HTML
		}
		if m, dup := idx.Check(doc.ContextID, content); dup {
			log.Info().
				Str("context_id", doc.ContextID).
				Str("original_id", m.ID).
				Float64("similarity", m.Similarity).
				Msg("skipping duplicate document")
			continue
		}
		unique = append(unique, doc)
	}
	return unique
}
