package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"github.com/qs3c/blogmind_server/config"
)

var ErrEmptyResponse = errors.New("model returned no text")

// GeminiGenerator 基于 Vertex AI Gemini 的文本生成
type GeminiGenerator struct {
	client      *genai.Client
	model       string
	temperature float32
}

func NewGeminiGenerator(ctx context.Context, cfg *config.AIConfig) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex ai client: %w", err)
	}

	return &GeminiGenerator{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

// Generate 单轮生成，返回拼接后的文本
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(g.temperature)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	return extractText(resp)
}

func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
