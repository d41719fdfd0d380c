package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/sony/gobreaker"

	"social-template-platform/internal/logger"
	"social-template-platform/models"
)

// TemplateProposal is one template suggestion from a bulk synthesis call.
type TemplateProposal struct {
	Title          string   `json:"title"`
	PromptTemplate string   `json:"promptTemplate"`
	Tone           string   `json:"tone"`
	Structure      string   `json:"structure"`
	Tags           []string `json:"tags"`
}

// Client wraps the OpenAI chat-completions API behind a circuit breaker.
// All responses are expected to be JSON; markdown fencing is stripped before
// parsing and malformed JSON surfaces as an error, never a coerced value.
type Client struct {
	api     *openai.Client
	model   openai.ChatModel
	breaker *gobreaker.CircuitBreaker
}

func NewClient(apiKey, model string) *Client {
	api := openai.NewClient(option.WithAPIKey(apiKey))

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "OpenAIAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		api:     &api,
		model:   openai.ChatModel(model),
		breaker: breaker,
	}
}

// AnalyzeCaption produces a structured tone/theme analysis for one caption.
func (c *Client) AnalyzeCaption(ctx context.Context, caption string) (*models.AnalysisResult, error) {
	content, err := c.complete(ctx, analysisSystemPrompt, buildAnalysisPrompt(caption), 0.3, 500)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze caption: %w", err)
	}
	return parseAnalysis(content)
}

// SynthesizeTemplates asks for a fresh template set derived from the given
// analyzed posts, optionally steered by an account theme hint.
func (c *Client) SynthesizeTemplates(ctx context.Context, posts []models.Post, themeHint string) ([]TemplateProposal, error) {
	content, err := c.complete(ctx, synthesisSystemPrompt, buildSynthesisPrompt(posts, themeHint), 0.7, 2000)
	if err != nil {
		return nil, fmt.Errorf("failed to generate templates: %w", err)
	}
	return parseProposals(content)
}

// GenerateCaption renders a new caption from a stored prompt template.
func (c *Client) GenerateCaption(ctx context.Context, baseText, promptTemplate, tone, extraContext string) (string, error) {
	content, err := c.complete(ctx, generationSystemPrompt, buildGenerationPrompt(baseText, promptTemplate, tone, extraContext), 0.8, 500)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return content, nil
}

func (c *Client) complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64, maxTokens int64) (string, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model: c.model,
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(systemPrompt),
				openai.UserMessage(userPrompt),
			},
			Temperature: openai.Float(temperature),
			MaxTokens:   openai.Int(maxTokens),
		})
		if err != nil {
			return nil, fmt.Errorf("openai API error: %w", err)
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
			return nil, fmt.Errorf("no response from openai")
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}
