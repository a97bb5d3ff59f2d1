package oracle

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/realgoal/realgoal-backend/internal/domain"
)

func TestBuildQuickAddPrompt(t *testing.T) {
	today := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)
	prompt := buildQuickAddPrompt("Padaria 25.50, Salário 5000", today)

	assert.Contains(t, prompt, "2024-06-20")
	assert.Contains(t, prompt, "Padaria 25.50, Salário 5000")
	assert.Contains(t, prompt, `"transactions"`)
	assert.Contains(t, prompt, "Outros")
}

func TestBuildAnalystPrompt(t *testing.T) {
	goals := []domain.Goal{
		{
			ID:            uuid.New(),
			Name:          "Viagem",
			TotalAmount:   decimal.NewFromInt(1000),
			CurrentAmount: decimal.NewFromFloat(450.5),
			Deadline:      time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
			UserID:        "user-1",
		},
	}

	prompt := buildAnalystPrompt(goals)

	assert.Contains(t, prompt, "Viagem")
	assert.Contains(t, prompt, "1000.00")
	assert.Contains(t, prompt, "450.50")
	assert.Contains(t, prompt, "2025-12-31")
	assert.Contains(t, prompt, "Markdown")
}

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "plain json untouched",
			raw:  `{"transactions": []}`,
			want: `{"transactions": []}`,
		},
		{
			name: "json fence stripped",
			raw:  "```json\n{\"transactions\": []}\n```",
			want: `{"transactions": []}`,
		},
		{
			name: "bare fence stripped",
			raw:  "```\n{\"transactions\": []}\n```",
			want: `{"transactions": []}`,
		},
		{
			name: "surrounding whitespace trimmed",
			raw:  "  \n{\"transactions\": []}\n ",
			want: `{"transactions": []}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanModelJSON(tt.raw))
		})
	}
}
