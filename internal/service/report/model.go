package report

import (
	"context"

	"google.golang.org/genai"
)

// Model is a single prompt-in, response-out generation call.
type Model interface {
	GenerateContent(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error)
}

type geminiModel struct {
	cli   *genai.Client
	model string
}

func newGeminiModel(ctx context.Context, apiKey, model string) (*geminiModel, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &geminiModel{cli: cli, model: model}, nil
}

func (g *geminiModel) GenerateContent(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error) {
	return g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		nil,
	)
}
