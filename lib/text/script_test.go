package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sum(d Distribution) float64 {
	var total float64
	for _, v := range d {
		total += v
	}
	return total
}

func TestScriptDistribution(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Distribution
	}{
		{
			name:     "empty string",
			input:    "",
			expected: Distribution{},
		},
		{
			name:     "only punctuation, digits and whitespace",
			input:    " 123 ... (0771234567)! ",
			expected: Distribution{},
		},
		{
			name:  "latin only",
			input: "Hello, world!",
			expected: Distribution{
				Sinhala: 0,
				Tamil:   0,
				Latin:   1,
				Other:   0,
			},
		},
		{
			name:  "digits do not count towards the total",
			input: "ab12",
			expected: Distribution{
				Sinhala: 0,
				Tamil:   0,
				Latin:   1,
				Other:   0,
			},
		},
		{
			name:  "half sinhala half tamil",
			input: "ඩෙ டெ",
			expected: Distribution{
				Sinhala: 0.5,
				Tamil:   0.5,
				Latin:   0,
				Other:   0,
			},
		},
		{
			name:  "other scripts",
			input: "ab日本",
			expected: Distribution{
				Sinhala: 0,
				Tamil:   0,
				Latin:   0.5,
				Other:   0.5,
			},
		},
	}
	for _, tt := range tests {
		t.Log(tt.name)
		actual := ScriptDistribution(tt.input)
		assert.Equal(t, len(tt.expected), len(actual), tt.name)
		for script, ratio := range tt.expected {
			assert.InDelta(t, ratio, actual[script], 1e-9, tt.name)
		}
	}
}

func TestScriptDistributionSumsToOne(t *testing.T) {
	for _, input := range []string{
		"ඩෙංගු වෛද්‍ය මධ්‍යස්ථානය",
		"dengue clinic enga irukku",
		"Colombo ජාතික රෝහල டெங்கு 2024!",
		"Ünïcödé ñ 日本語",
	} {
		d := ScriptDistribution(input)
		assert.InDelta(t, 1.0, sum(d), 1e-9, input)
	}
}

func TestDominant(t *testing.T) {
	d := Distribution{Sinhala: 0.3, Tamil: 0.3, Latin: 0.1, Other: 0.3}
	script, ratio := d.Dominant(true)
	assert.Equal(t, Sinhala, script)
	assert.Equal(t, 0.3, ratio)

	d = Distribution{Sinhala: 0.2, Tamil: 0.1, Latin: 0.1, Other: 0.6}
	script, _ = d.Dominant(true)
	assert.Equal(t, Other, script)
	script, ratio = d.Dominant(false)
	assert.Equal(t, Sinhala, script)
	assert.Equal(t, 0.2, ratio)

	script, _ = Distribution{}.Dominant(true)
	assert.Equal(t, "", script)
}

func TestContainsScript(t *testing.T) {
	assert.True(t, ContainsSinhala("clinic ඩෙංගු"))
	assert.False(t, ContainsSinhala("clinic டெங்கு"))
	assert.True(t, ContainsTamil("clinic டெங்கு"))
	assert.False(t, ContainsTamil("clinic"))
}

func TestExtractByScript(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		script   string
		expected string
	}{
		{
			name:     "keeps sinhala and whitespace",
			input:    "dengue ඩෙංගු clinic",
			script:   Sinhala,
			expected: "ඩෙංගු",
		},
		{
			name:     "keeps latin",
			input:    "dengue ඩෙංගු clinic, 2024",
			script:   Latin,
			expected: "dengue  clinic",
		},
		{
			name:     "keeps tamil",
			input:    "டெங்கு fever",
			script:   Tamil,
			expected: "டெங்கு",
		},
		{
			name:     "unknown script",
			input:    "anything",
			script:   Other,
			expected: "",
		},
	}
	for _, tt := range tests {
		t.Log(tt.name)
		assert.Equal(t, tt.expected, ExtractByScript(tt.input, tt.script), tt.name)
	}
}
