package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// GeminiCompleter adapts the Google Gemini API to the OpenAI-style
// chat completion shape the classifier consumes, so either provider
// can sit behind the same narrow client interface.
type GeminiCompleter struct {
	client *genai.Client
}

// NewGeminiCompleter creates the adapter. Construction fails fast on a
// missing key or unreachable endpoint; the orchestrator treats that as
// a fatal batch-start error, not something to retry per item.
func NewGeminiCompleter(ctx context.Context, apiKey string) (*GeminiCompleter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key not provided")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	log.Info("Gemini completion provider initialized")
	return &GeminiCompleter{client: client}, nil
}

// CreateChatCompletion maps the request onto a single Gemini
// GenerateContent call. Gemini has no separate system role in this API
// surface, so system and user messages are concatenated in order.
func (p *GeminiCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	model := p.client.GenerativeModel(req.Model)
	model.SetTemperature(req.Temperature)
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}

	var prompt strings.Builder
	for _, msg := range req.Messages {
		if prompt.Len() > 0 {
			prompt.WriteString("\n\n")
		}
		prompt.WriteString(msg.Content)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt.String()))
	if err != nil {
		return openai.ChatCompletionResponse{}, fmt.Errorf("gemini generate content: %w", err)
	}

	var content strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if text, ok := part.(genai.Text); ok {
				content.WriteString(string(text))
			}
		}
	}

	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: content.String(),
			}},
		},
	}, nil
}

// Close releases the underlying client.
func (p *GeminiCompleter) Close() error {
	return p.client.Close()
}
