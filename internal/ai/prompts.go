package ai

import (
	"fmt"
	"strings"

	"social-template-platform/models"
)

const analysisSystemPrompt = "You are an expert social media content analyzer. Respond only with valid JSON."

const synthesisSystemPrompt = "You are an expert social media content strategist. Respond only with valid JSON array."

const generationSystemPrompt = "You are an expert social media content creator. Generate engaging Instagram post content based on the provided template and user input. Maintain the specified tone and style."

func buildAnalysisPrompt(caption string) string {
	return fmt.Sprintf(`Analyze the following Instagram post caption and provide a structured analysis:

Caption: %q

Please provide your analysis in the following JSON format:
{
  "tone": "describe the tone (e.g., professional, casual, inspirational, humorous)",
  "structure": "describe the structure (e.g., hook-story-CTA, list-format, question-answer)",
  "prompt": "extract or create a prompt template that could generate similar content",
  "themes": ["list", "of", "main", "themes"],
  "sentimentScore": number between -1 and 1 (negative to positive)
}`, caption)
}

func buildSynthesisPrompt(posts []models.Post, themeHint string) string {
	var sb strings.Builder
	for i, post := range posts {
		if i > 0 {
			sb.WriteString("\n\n---\n\n")
		}
		sb.WriteString("Caption: " + post.Caption)
		if post.AnalysisResult != nil {
			sb.WriteString("\nTone: " + post.AnalysisResult.Tone)
			sb.WriteString("\nThemes: " + strings.Join(post.AnalysisResult.Themes, ", "))
		}
	}

	accountNote := ""
	if themeHint != "" {
		accountNote = fmt.Sprintf(" for a %s account", themeHint)
	}

	return fmt.Sprintf(`Based on the following analyzed Instagram posts%s, generate 10-15 reusable post templates:

%s

Generate diverse templates that capture different tones, structures, and themes found in these posts. Each template should be reusable and adaptable.

Respond with a JSON array in this format:
[
  {
    "title": "descriptive title for the template",
    "promptTemplate": "a prompt that could generate similar content (use [TOPIC], [PRODUCT], etc. as placeholders)",
    "tone": "the tone this template represents",
    "structure": "the content structure",
    "tags": ["relevant", "tags"]
  }
]`, accountNote, sb.String())
}

func buildGenerationPrompt(baseText, promptTemplate, tone, extraContext string) string {
	var sb strings.Builder
	sb.WriteString("Template: " + promptTemplate + "\n")
	sb.WriteString("Base text/topic: " + baseText + "\n")
	if tone != "" {
		sb.WriteString("Desired tone: " + tone + "\n")
	}
	if extraContext != "" {
		sb.WriteString("Additional context: " + extraContext + "\n")
	}
	sb.WriteString("\nGenerate a complete Instagram post caption that follows the template structure while incorporating the base text. Make it engaging, authentic, and ready to post. Include relevant hashtags if appropriate for the template style.")
	return sb.String()
}
