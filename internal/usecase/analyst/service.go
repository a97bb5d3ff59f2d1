// Package analyst produces a natural-language analysis of a user's goals
// via the language-model oracle.
package analyst

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/realgoal/realgoal-backend/internal/domain"
)

// Oracle generates the goal analysis text.
type Oracle interface {
	// AnalyzeGoals returns a Markdown analysis of the given goals.
	AnalyzeGoals(ctx context.Context, goals []domain.Goal) (string, error)
}

// Service handles goal analysis requests.
type Service struct {
	oracle Oracle
	log    zerolog.Logger
}

// NewService creates a new analyst service.
func NewService(oracle Oracle, log zerolog.Logger) *Service {
	return &Service{
		oracle: oracle,
		log:    log.With().Str("component", "analyst").Logger(),
	}
}

// Analyze returns a Markdown analysis of goals. An empty goal list yields an
// empty analysis without invoking the oracle.
func (s *Service) Analyze(ctx context.Context, goals []domain.Goal) (string, error) {
	if len(goals) == 0 {
		return "", nil
	}

	analysis, err := s.oracle.AnalyzeGoals(ctx, goals)
	if err != nil {
		return "", fmt.Errorf("%w: goal analysis: %v", domain.ErrExtraction, err)
	}

	analysis = strings.TrimSpace(analysis)
	if analysis == "" {
		return "", fmt.Errorf("%w: empty analysis from oracle", domain.ErrExtraction)
	}

	s.log.Debug().Int("goals", len(goals)).Msg("goals analyzed")
	return analysis, nil
}
