package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnalysis_PlainJSON(t *testing.T) {
	content := `{"tone":"casual","structure":"hook-story-CTA","prompt":"Write about [TOPIC]","themes":["coffee","mornings"],"sentimentScore":0.7}`

	analysis, err := parseAnalysis(content)
	require.NoError(t, err)
	assert.Equal(t, "casual", analysis.Tone)
	assert.Equal(t, "hook-story-CTA", analysis.Structure)
	assert.Equal(t, []string{"coffee", "mornings"}, analysis.Themes)
	assert.InDelta(t, 0.7, analysis.SentimentScore, 0.001)
}

func TestParseAnalysis_MarkdownFenced(t *testing.T) {
	content := "```json\n{\"tone\":\"playful\",\"sentimentScore\":0.2}\n```"

	analysis, err := parseAnalysis(content)
	require.NoError(t, err)
	assert.Equal(t, "playful", analysis.Tone)
}

func TestParseAnalysis_ProseAroundJSON(t *testing.T) {
	content := `Here is the analysis you asked for:
{"tone":"inspirational","sentimentScore":0.9}
Let me know if you need anything else.`

	analysis, err := parseAnalysis(content)
	require.NoError(t, err)
	assert.Equal(t, "inspirational", analysis.Tone)
}

func TestParseAnalysis_MalformedJSON(t *testing.T) {
	_, err := parseAnalysis(`{"tone": "casual", "sentimentScore":`)
	assert.Error(t, err)
}

func TestParseAnalysis_MissingTone(t *testing.T) {
	_, err := parseAnalysis(`{"structure":"list","sentimentScore":0.1}`)
	assert.Error(t, err)
}

func TestParseAnalysis_SentimentOutOfRange(t *testing.T) {
	_, err := parseAnalysis(`{"tone":"angry","sentimentScore":-1.5}`)
	assert.Error(t, err)

	_, err = parseAnalysis(`{"tone":"elated","sentimentScore":2}`)
	assert.Error(t, err)
}

func TestParseAnalysis_SentimentBoundsInclusive(t *testing.T) {
	analysis, err := parseAnalysis(`{"tone":"down","sentimentScore":-1}`)
	require.NoError(t, err)
	assert.InDelta(t, -1, analysis.SentimentScore, 0.001)

	analysis, err = parseAnalysis(`{"tone":"up","sentimentScore":1}`)
	require.NoError(t, err)
	assert.InDelta(t, 1, analysis.SentimentScore, 0.001)
}

func TestParseProposals_FencedArray(t *testing.T) {
	content := "```json\n[{\"title\":\"Motivation Monday\",\"promptTemplate\":\"Write about [TOPIC]\",\"tone\":\"inspirational\",\"structure\":\"hook-story-CTA\",\"tags\":[\"fitness\"]}]\n```"

	proposals, err := parseProposals(content)
	require.NoError(t, err)
	require.Len(t, proposals, 1)
	assert.Equal(t, "Motivation Monday", proposals[0].Title)
	assert.Equal(t, "Write about [TOPIC]", proposals[0].PromptTemplate)
	assert.Equal(t, []string{"fitness"}, proposals[0].Tags)
}

func TestParseProposals_ProseAroundArray(t *testing.T) {
	content := `Based on the posts, here are the templates:
[{"title":"Q&A","promptTemplate":"Answer [QUESTION]"}]`

	proposals, err := parseProposals(content)
	require.NoError(t, err)
	require.Len(t, proposals, 1)
	assert.Equal(t, "Q&A", proposals[0].Title)
}

func TestParseProposals_EmptyArray(t *testing.T) {
	_, err := parseProposals(`[]`)
	assert.Error(t, err)
}

func TestParseProposals_MissingRequiredFields(t *testing.T) {
	_, err := parseProposals(`[{"title":"no prompt"}]`)
	assert.Error(t, err)

	_, err = parseProposals(`[{"promptTemplate":"no title"}]`)
	assert.Error(t, err)
}

func TestParseProposals_MalformedJSON(t *testing.T) {
	_, err := parseProposals(`[{"title": "broken"`)
	assert.Error(t, err)
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		open    string
		closing string
		want    string
	}{
		{"bare object", `{"a":1}`, "{", "}", `{"a":1}`},
		{"fenced object", "```json\n{\"a\":1}\n```", "{", "}", `{"a":1}`},
		{"fence without language", "```\n[1,2]\n```", "[", "]", "[1,2]"},
		{"leading prose", `Sure! {"a":1}`, "{", "}", `{"a":1}`},
		{"trailing prose", `[1] is the result`, "[", "]", "[1]"},
		{"no delimiters", "not json at all", "{", "}", "not json at all"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSONResponse(tt.in, tt.open, tt.closing))
		})
	}
}
