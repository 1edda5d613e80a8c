package markup

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlocks(t *testing.T) {
	type args struct {
		r io.Reader
	}
	tests := []struct {
		name string
		args args
		want []Block
	}{
		{
			name: "empty body",
			args: args{r: bytes.NewBufferString("")},
			want: nil,
		},
		{
			name: "includes break",
			args: args{r: bytes.NewBufferString("  <body>  x<sup>2</sup> <strike>hello</strike><br/>dave</body>")},
			want: []Block{
				{Tag: "body", Offset: 2, Text: "x2 hello"},
				{Tag: "body", Offset: 46, Text: "dave"},
			},
		},
		{
			name: "skips head and scripts",
			args: args{r: bytes.NewBufferString(
				"<html><head><title>T</title><style>p{}</style></head><body>" +
					"<h2>Q: What is dengue?</h2><p>A viral <b>fever</b> &amp; more</p>" +
					"<script>var x = 1;</script></body></html>",
			)},
			want: []Block{
				{Tag: "h2", Offset: 59, Text: "Q: What is dengue?"},
				{Tag: "p", Offset: 86, Text: "A viral fever & more"},
			},
		},
		{
			name: "text without markup",
			args: args{r: bytes.NewBufferString("plain\n\n  text")},
			want: []Block{{Tag: "html", Offset: 0, Text: "plain text"}},
		},
		{
			name: "unterminated script",
			args: args{r: bytes.NewBufferString("<script>var x")},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Log(tt.name)
		got, err := Blocks(tt.args.r)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
}

func TestBlocksReaderError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Blocks(iotest.ErrReader(boom))
	assert.ErrorIs(t, err, boom)

	_, err = ToText(iotest.ErrReader(boom))
	assert.ErrorIs(t, err, boom)
}

func TestToText(t *testing.T) {
	got, err := ToText(strings.NewReader("<h1>Title</h1><div><p>Body  text</p>tail</div>"))
	require.NoError(t, err)
	assert.Equal(t, "Title\nBody text\ntail", got)

	got, err = ToText(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestStrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "inline tags", input: "<b>Q:</b> What&#39;s <i>up</i>\n  now", want: "Q: What's up now"},
		{name: "blocks are separated", input: "<p>one</p><p>two</p>", want: "one two"},
		{name: "no markup", input: " plain  text\n", want: "plain text"},
		{name: "sinhala text", input: "<span>ඩෙංගු</span> රෝගය", want: "ඩෙංගු රෝගය"},
		{name: "empty", input: "", want: ""},
	}
	for _, tt := range tests {
		t.Log(tt.name)
		assert.Equal(t, tt.want, Strip(tt.input), tt.name)
	}
}
