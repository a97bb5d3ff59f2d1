// Package oracle implements the language-model collaborators on Gemini.
package oracle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/realgoal/realgoal-backend/internal/domain"
)

// DefaultModel is the default Gemini model used for extraction and analysis.
const DefaultModel = "gemini-2.5-flash"

// Gemini implements quickadd.Oracle and analyst.Oracle against the Gemini
// API. Credentials are resolved by the genai client from the environment.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini oracle. An empty model selects DefaultModel.
func NewGemini(ctx context.Context, model string) (*Gemini, error) {
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Gemini{client: client, model: model}, nil
}

// QuickAdd sends text to the model and returns its raw JSON response. The
// caller validates the shape; this adapter only strips Markdown wrapping.
func (g *Gemini) QuickAdd(ctx context.Context, text string, today time.Time) ([]byte, error) {
	raw, err := g.generate(ctx, buildQuickAddPrompt(text, today))
	if err != nil {
		return nil, fmt.Errorf("quick add: %w", err)
	}
	return []byte(cleanModelJSON(raw)), nil
}

// AnalyzeGoals asks the model for a Markdown analysis of the goals.
func (g *Gemini) AnalyzeGoals(ctx context.Context, goals []domain.Goal) (string, error) {
	raw, err := g.generate(ctx, buildAnalystPrompt(goals))
	if err != nil {
		return "", fmt.Errorf("analyze goals: %w", err)
	}
	return raw, nil
}

func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return "", fmt.Errorf("empty response from model")
	}

	return raw, nil
}

// cleanModelJSON strips Markdown code fences when the model ignores the
// raw-JSON instruction.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	return strings.TrimSpace(s)
}
