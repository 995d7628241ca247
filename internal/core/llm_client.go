package core

import (
	"context"
	"fmt"
	"iter"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// CompletionClient is the single capability the email service needs from the
// model provider: one full completion, or a lazy, finite, non-restartable
// fragment stream. Implementations must be safe for concurrent use.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Stream(ctx context.Context, prompt string) iter.Seq2[string, error]
}

// GeminiClient is the live CompletionClient backed by the hosted GenAI
// endpoint.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiClient{client: client, modelName: modelName}, nil
}

func (c *GeminiClient) Close() {
	if c.client != nil {
		if err := c.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		}
	}
}

func (c *GeminiClient) model() *genai.GenerativeModel {
	model := c.client.GenerativeModel(c.modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(emailSystemInstruction)},
	}
	return model
}

func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model().GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini completion failed: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("gemini returned no text candidates")
	}
	return text, nil
}

// Stream issues a streaming completion. A mid-stream upstream failure is
// yielded once and terminates the sequence; the underlying stream is released
// when the consumer stops iterating or ctx is cancelled.
func (c *GeminiClient) Stream(ctx context.Context, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stream := c.model().GenerateContentStream(ctx, genai.Text(prompt))
		for {
			resp, err := stream.Next()
			if err == iterator.Done {
				return
			}
			if err != nil {
				yield("", fmt.Errorf("gemini stream failed: %w", err))
				return
			}
			if text := responseText(resp); text != "" {
				if !yield(text, nil) {
					return
				}
			}
		}
	}
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var builder strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			builder.WriteString(string(txt))
		}
	}
	return builder.String()
}
