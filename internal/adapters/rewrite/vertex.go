package rewrite

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/frn-eng/intake-agent/internal/domain"
)

type VertexRewriter struct {
	client    *genai.Client
	modelName string
}

// NewVertexRewriter creates a rewriter backed by Vertex AI (Gemini), for
// deployments that already live on GCP.
func NewVertexRewriter(ctx context.Context, projectID, location, modelName string) (*VertexRewriter, error) {
	if projectID == "" || location == "" {
		return nil, fmt.Errorf("project and location must be set for the vertex rewriter")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return &VertexRewriter{
		client:    client,
		modelName: modelName,
	}, nil
}

// Rewrite implements domain.Rewriter using Vertex AI.
func (v *VertexRewriter) Rewrite(ctx context.Context, fieldID domain.FieldID, label, raw string) (string, error) {
	prompt := BuildPrompt(fieldID, label, raw)

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	// Low temperature: the output lands in an official report verbatim.
	temp := float32(0.2)
	outputTokens := int32(2048)

	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: outputTokens,
	}

	res, err := v.client.Models.GenerateContent(ctx, v.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("vertex generate content: %w", err)
	}

	text := strings.TrimSpace(res.Text())
	if text == "" {
		return "", fmt.Errorf("vertex returned empty text")
	}

	return text, nil
}
