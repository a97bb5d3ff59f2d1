// Package quickadd turns free-form text into ledger transactions via an
// external language-model oracle. The oracle's output is untrusted: this
// service validates the shape, applies defaults and resolves relative dates
// before anything reaches the ledger. Candidates never auto-commit; the
// caller previews them and commits explicitly.
package quickadd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/realgoal/realgoal-backend/internal/domain"
	"github.com/realgoal/realgoal-backend/internal/usecase/ledger"
)

// Oracle is the external language-model service that converts free text into
// candidate transaction fields.
type Oracle interface {
	// QuickAdd returns the model's raw JSON response for text, with
	// relative dates resolved against today by this service, not the model.
	QuickAdd(ctx context.Context, text string, today time.Time) ([]byte, error)
}

// Candidate is an oracle-proposed transaction awaiting explicit commit.
// A nil Date means no date was mentioned; commit assigns "now".
type Candidate struct {
	Description string
	Amount      decimal.Decimal
	Category    string
	Type        domain.TransactionType
	Date        *time.Time
}

// Service is the extraction ingestion adapter sitting upstream of the ledger.
type Service struct {
	oracle Oracle
	ledger *ledger.Service
	log    zerolog.Logger
	now    func() time.Time
}

// NewService creates the adapter over oracle and ledgerSvc.
func NewService(oracle Oracle, ledgerSvc *ledger.Service, log zerolog.Logger) *Service {
	return &Service{
		oracle: oracle,
		ledger: ledgerSvc,
		log:    log.With().Str("component", "quickadd").Logger(),
		now:    time.Now,
	}
}

// rawResponse is the candidate schema the oracle must produce.
type rawResponse struct {
	Transactions []rawCandidate `json:"transactions"`
}

type rawCandidate struct {
	Description string   `json:"description"`
	Amount      *float64 `json:"amount"`
	Category    string   `json:"category"`
	Type        string   `json:"type"`
	// Date is either a full ISO date (YYYY-MM-DD) or a bare day-of-month
	// number when the text only mentioned a day; empty when no date was
	// mentioned.
	Date string `json:"date,omitempty"`
}

// Extract converts text into an ordered candidate list. Empty or
// whitespace-only input yields an empty list without invoking the oracle.
// today is the reference date for relative-date resolution.
func (s *Service) Extract(ctx context.Context, text string, today time.Time) ([]Candidate, error) {
	if strings.TrimSpace(text) == "" {
		return []Candidate{}, nil
	}

	raw, err := s.oracle.QuickAdd(ctx, text, today)
	if err != nil {
		return nil, fmt.Errorf("%w: oracle call: %v", domain.ErrExtraction, err)
	}

	var resp rawResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed oracle response: %v", domain.ErrExtraction, err)
	}

	candidates := make([]Candidate, 0, len(resp.Transactions))
	for i, rc := range resp.Transactions {
		cand, err := s.normalize(rc, today)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		candidates = append(candidates, cand)
	}

	s.log.Debug().Int("candidates", len(candidates)).Msg("text extracted")
	return candidates, nil
}

// normalize validates one oracle candidate and applies the documented
// defaults: amount 0 when unspecified, category "Outros" when the oracle
// could not infer one, type expense unless income cues were detected.
func (s *Service) normalize(rc rawCandidate, today time.Time) (Candidate, error) {
	description := strings.TrimSpace(rc.Description)
	if description == "" {
		return Candidate{}, fmt.Errorf("%w: missing description", domain.ErrExtraction)
	}

	amount := decimal.Zero
	if rc.Amount != nil {
		if *rc.Amount < 0 {
			return Candidate{}, fmt.Errorf("%w: negative amount", domain.ErrExtraction)
		}
		amount = decimal.NewFromFloat(*rc.Amount)
	}

	category := strings.TrimSpace(rc.Category)
	if category == "" {
		category = "Outros"
	}

	var txType domain.TransactionType
	switch rc.Type {
	case string(domain.TypeIncome):
		txType = domain.TypeIncome
	case string(domain.TypeExpense), "":
		txType = domain.TypeExpense
	default:
		return Candidate{}, fmt.Errorf("%w: unknown type %q", domain.ErrExtraction, rc.Type)
	}

	date, err := resolveDate(rc.Date, today)
	if err != nil {
		return Candidate{}, err
	}

	return Candidate{
		Description: description,
		Amount:      amount,
		Category:    category,
		Type:        txType,
		Date:        date,
	}, nil
}

// resolveDate interprets the oracle's date field. A full ISO date is taken
// as-is. A bare day number resolves within the current month, rolling over
// to the next month when that day has already passed relative to today.
func resolveDate(raw string, today time.Time) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if parsed, err := time.Parse("2006-01-02", raw); err == nil {
		return &parsed, nil
	}

	day, err := strconv.Atoi(raw)
	if err != nil || day < 1 || day > 31 {
		return nil, fmt.Errorf("%w: unparseable date %q", domain.ErrExtraction, raw)
	}

	year, month, _ := today.Date()
	if day < today.Day() {
		month++
	}

	resolved := time.Date(year, month, day, 0, 0, 0, 0, today.Location())
	return &resolved, nil
}

// Commit turns candidates into real ledger entries. Candidates without a
// date get the commit time. All candidates are checked before the first
// append so an invalid one commits nothing.
func (s *Service) Commit(ctx context.Context, candidates []Candidate) ([]domain.Transaction, error) {
	for i, cand := range candidates {
		if cand.Description == "" {
			return nil, fmt.Errorf("%w: candidate %d has no description", domain.ErrValidation, i)
		}
		if cand.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: candidate %d amount must be positive", domain.ErrValidation, i)
		}
	}

	committed := make([]domain.Transaction, 0, len(candidates))
	for _, cand := range candidates {
		date := s.now()
		if cand.Date != nil {
			date = *cand.Date
		}

		tx, err := s.ledger.Add(ctx, ledger.NewTransaction{
			Description: cand.Description,
			Amount:      cand.Amount,
			Category:    cand.Category,
			Type:        cand.Type,
			Date:        date,
		})
		if err != nil {
			return nil, err
		}
		committed = append(committed, *tx)
	}

	s.log.Info().Int("count", len(committed)).Msg("candidates committed")
	return committed, nil
}
