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

package markup

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Elements whose content is never rendered as text.
var skippedNodes = map[string]struct{}{
	"audio":    {},
	"head":     {},
	"noscript": {},
	"script":   {},
	"style":    {},
	"template": {},
	"textarea": {},
	"video":    {},
}

// Elements that continue the text of the block they appear in.
var inlineNodes = map[string]struct{}{
	"a":      {},
	"abbr":   {},
	"b":      {},
	"big":    {},
	"cite":   {},
	"code":   {},
	"del":    {},
	"em":     {},
	"font":   {},
	"i":      {},
	"img":    {},
	"ins":    {},
	"mark":   {},
	"q":      {},
	"s":      {},
	"small":  {},
	"span":   {},
	"strike": {},
	"strong": {},
	"sub":    {},
	"sup":    {},
	"u":      {},
}

// Elements without an end tag.
var voidNodes = map[string]struct{}{
	"area":   {},
	"base":   {},
	"br":     {},
	"col":    {},
	"embed":  {},
	"hr":     {},
	"input":  {},
	"link":   {},
	"meta":   {},
	"param":  {},
	"source": {},
	"track":  {},
	"wbr":    {},
}

func is(set map[string]struct{}, tag string) bool {
	_, ok := set[tag]
	return ok
}

// Block is the text found between two block level boundaries of a document.
type Block struct {
	// Tag is the innermost block level element containing the text.
	Tag string
	// Offset is the byte offset in the document of the tag that started the block.
	Offset int
	Text   string
}

/**
	Blocks walks the HTML tokens of r and splits the rendered text into blocks.

	Any element that isn't inline starts a new block when it opens and when it closes, as
	do void elements such as <br>. The content of script, style and similar elements is
	dropped. Whitespace inside a block is collapsed to single spaces and blocks with no
	text are left out.
**/
func Blocks(r io.Reader) ([]Block, error) {
	tokenizer := html.NewTokenizer(r)

	var (
		blocks   []Block
		open     []string
		skip     int
		position int
		text     strings.Builder
		current  = Block{Tag: "html"}
	)

	parent := func() string {
		if len(open) == 0 {
			return "html"
		}
		return open[len(open)-1]
	}
	flush := func(next string) {
		if collapsed := collapse(text.String()); collapsed != "" {
			current.Text = collapsed
			blocks = append(blocks, current)
		}
		text.Reset()
		current = Block{Tag: next, Offset: position}
	}

	for {
		tokenType := tokenizer.Next()
		// Must read this first. Text() unescapes the token in place.
		size := len(tokenizer.Raw())

		switch tokenType {
		case html.ErrorToken:
			flush("")
			if err := tokenizer.Err(); err != io.EOF {
				return blocks, err
			}
			return blocks, nil
		case html.TextToken:
			if skip == 0 {
				text.Write(tokenizer.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			switch {
			case is(skippedNodes, tag):
				if tokenType == html.StartTagToken {
					skip++
				}
			case is(inlineNodes, tag):
			case is(voidNodes, tag) || tokenType == html.SelfClosingTagToken:
				if skip == 0 {
					flush(parent())
				}
			default:
				if skip == 0 {
					flush(tag)
				}
				open = append(open, tag)
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			switch {
			case is(skippedNodes, tag):
				if skip > 0 {
					skip--
				}
			case is(inlineNodes, tag), is(voidNodes, tag):
			default:
				for i := len(open) - 1; i >= 0; i-- {
					if open[i] == tag {
						open = open[:i]
						break
					}
				}
				if skip == 0 {
					flush(parent())
				}
			}
		}
		position += size
	}
}

// ToText renders an HTML document as plain text with one line per block.
func ToText(r io.Reader) (string, error) {
	blocks, err := Blocks(r)
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(blocks))
	for _, b := range blocks {
		lines = append(lines, b.Text)
	}
	return strings.Join(lines, "\n"), nil
}

// Strip removes every tag from a fragment of HTML, decodes character references and
// collapses whitespace.
func Strip(s string) string {
	// A strings.Reader only ever reports io.EOF.
	blocks, _ := Blocks(strings.NewReader(s))
	texts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		texts = append(texts, b.Text)
	}
	return strings.Join(texts, " ")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
