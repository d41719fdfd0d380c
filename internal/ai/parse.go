package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"social-template-platform/models"
)

func parseAnalysis(content string) (*models.AnalysisResult, error) {
	cleaned := cleanJSONResponse(content, "{", "}")

	var analysis models.AnalysisResult
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis response: %w", err)
	}
	if analysis.Tone == "" {
		return nil, fmt.Errorf("analysis response missing tone")
	}
	if analysis.SentimentScore < -1 || analysis.SentimentScore > 1 {
		return nil, fmt.Errorf("analysis sentiment score %v out of range", analysis.SentimentScore)
	}
	return &analysis, nil
}

func parseProposals(content string) ([]TemplateProposal, error) {
	cleaned := cleanJSONResponse(content, "[", "]")

	var proposals []TemplateProposal
	if err := json.Unmarshal([]byte(cleaned), &proposals); err != nil {
		return nil, fmt.Errorf("failed to parse template response: %w", err)
	}
	if len(proposals) == 0 {
		return nil, fmt.Errorf("template response contained no templates")
	}
	for i, proposal := range proposals {
		if proposal.Title == "" || proposal.PromptTemplate == "" {
			return nil, fmt.Errorf("template proposal %d missing title or prompt template", i)
		}
	}
	return proposals, nil
}

func cleanJSONResponse(content, open, closing string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around the JSON.
	start := strings.Index(content, open)
	end := strings.LastIndex(content, closing)
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}
