package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const classifySystemPrompt = `You are a sentiment classifier for public consultation feedback.
Respond with a JSON object: {"label": "POSITIVE"|"NEGATIVE"|"NEUTRAL", "confidence": <0..1>}.
Judge only the sentiment of the comment itself.`

const summarizeSystemPrompt = `You summarize public consultation feedback.
Respond with a JSON object: {"summary": "<summary text>"}.
Preserve the substance of the feedback; do not add opinions.`

// OpenAIProvider implements Provider on top of the OpenAI chat completions
// API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a provider using the given API key and model.
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

type classifyResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classify asks the model for a sentiment label and confidence. The raw
// label is normalized before it reaches the core.
func (p *OpenAIProvider) Classify(ctx context.Context, text string) (Sentiment, error) {
	content, err := p.complete(ctx, classifySystemPrompt, text)
	if err != nil {
		return Sentiment{}, fmt.Errorf("classify sentiment: %w", err)
	}

	var parsed classifyResponse
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return Sentiment{}, fmt.Errorf("parse classifier response: %w", err)
	}

	if parsed.Confidence < 0 {
		parsed.Confidence = 0
	}
	if parsed.Confidence > 1 {
		parsed.Confidence = 1
	}

	return Sentiment{
		Label:      NormalizeLabel(parsed.Label),
		Confidence: parsed.Confidence,
	}, nil
}

type summarizeResponse struct {
	Summary string `json:"summary"`
}

// Summarize asks the model for an abstractive summary bounded by maxWords.
func (p *OpenAIProvider) Summarize(ctx context.Context, text string, maxWords int) (string, error) {
	if maxWords <= 0 {
		maxWords = 150
	}
	cleaned := CleanText(text)
	if len(strings.Fields(cleaned)) < 50 {
		return cleaned, nil
	}

	prompt := fmt.Sprintf("Summarize in at most %d words:\n\n%s", maxWords, cleaned)
	content, err := p.complete(ctx, summarizeSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}

	var parsed summarizeResponse
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return "", fmt.Errorf("parse summarizer response: %w", err)
	}

	return parsed.Summary, nil
}

func (p *OpenAIProvider) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens: 512,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
