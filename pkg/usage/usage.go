package usage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/llmcouncil/go-llm-council/pkg/catalog"
	"github.com/llmcouncil/go-llm-council/pkg/models"
)

var ErrInvalidPeriod = errors.New("invalid usage period")

// Period bounds a usage aggregation window.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

// ParsePeriod validates a query-string period value, defaulting to all.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodAll:
		return Period(s), nil
	case "":
		return PeriodAll, nil
	default:
		return "", errors.Wrapf(ErrInvalidPeriod, "%q", s)
	}
}

func (p Period) cutoff(now time.Time) (time.Time, bool) {
	switch p {
	case PeriodDay:
		return now.AddDate(0, 0, -1), true
	case PeriodWeek:
		return now.AddDate(0, 0, -7), true
	case PeriodMonth:
		return now.AddDate(0, -1, 0), true
	default:
		return time.Time{}, false
	}
}

// ModelUsage aggregates one model's traffic within a period. CostUSD is
// a decimal string; empty when the model has no published pricing.
type ModelUsage struct {
	ModelID      string  `json:"model_id"`
	Requests     int64   `json:"requests"`
	Errors       int64   `json:"errors"`
	TokensInput  int64   `json:"tokens_input"`
	TokensOutput int64   `json:"tokens_output"`
	AvgLatencyMS float64 `json:"avg_latency_ms"`
	CostUSD      string  `json:"cost_usd,omitempty"`
}

// Summary is the per-period usage report.
type Summary struct {
	Period       Period       `json:"period"`
	Models       []ModelUsage `json:"models"`
	Requests     int64        `json:"requests"`
	TokensInput  int64        `json:"tokens_input"`
	TokensOutput int64        `json:"tokens_output"`
	CostUSD      string       `json:"cost_usd"`
}

// DayUsage is one day's traffic in the daily breakdown.
type DayUsage struct {
	Date         string `json:"date"`
	Requests     int64  `json:"requests"`
	TokensInput  int64  `json:"tokens_input"`
	TokensOutput int64  `json:"tokens_output"`
	CostUSD      string `json:"cost_usd"`
}

// Pricer resolves per-million-token pricing; the catalog registry
// satisfies it.
type Pricer interface {
	CostPerMillionTokens(modelID string) catalog.Pricing
}

// Service computes usage statistics from persisted assistant messages.
type Service struct {
	db     *gorm.DB
	pricer Pricer
}

func NewService(db *gorm.DB, pricer Pricer) *Service {
	return &Service{db: db, pricer: pricer}
}

type modelRow struct {
	ModelID      string
	Requests     int64
	Errors       int64
	TokensInput  int64
	TokensOutput int64
	AvgLatencyMS float64
}

// Summary aggregates per-model totals for the period, most requests first.
func (s *Service) Summary(ctx context.Context, period Period) (*Summary, error) {
	q := s.db.WithContext(ctx).Model(&models.Message{}).
		Select(`model_id,
			COUNT(*) AS requests,
			COUNT(error) AS errors,
			COALESCE(SUM(tokens_input), 0) AS tokens_input,
			COALESCE(SUM(tokens_output), 0) AS tokens_output,
			COALESCE(AVG(latency_ms), 0) AS avg_latency_ms`).
		Where("role = ? AND model_id IS NOT NULL", models.MessageRoleAssistant).
		Group("model_id").
		Order("requests DESC")
	if cutoff, bounded := period.cutoff(time.Now().UTC()); bounded {
		q = q.Where("created_at >= ?", cutoff)
	}

	var rows []modelRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "aggregating usage")
	}

	summary := &Summary{Period: period, Models: make([]ModelUsage, 0, len(rows))}
	total := decimal.Zero
	for _, row := range rows {
		cost := s.cost(row.ModelID, row.TokensInput, row.TokensOutput)
		mu := ModelUsage{
			ModelID:      row.ModelID,
			Requests:     row.Requests,
			Errors:       row.Errors,
			TokensInput:  row.TokensInput,
			TokensOutput: row.TokensOutput,
			AvgLatencyMS: row.AvgLatencyMS,
		}
		if !cost.IsZero() {
			mu.CostUSD = cost.StringFixed(6)
		}
		summary.Models = append(summary.Models, mu)
		summary.Requests += row.Requests
		summary.TokensInput += row.TokensInput
		summary.TokensOutput += row.TokensOutput
		total = total.Add(cost)
	}
	summary.CostUSD = total.StringFixed(6)
	return summary, nil
}

type dailyRow struct {
	ModelID      string
	Day          string
	Requests     int64
	TokensInput  int64
	TokensOutput int64
}

// Daily breaks the last N days down per calendar day (UTC), oldest first.
// Days without traffic are omitted.
func (s *Service) Daily(ctx context.Context, days int) ([]DayUsage, error) {
	if days <= 0 {
		days = 7
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	var rows []dailyRow
	err := s.db.WithContext(ctx).Model(&models.Message{}).
		Select(`model_id,
			DATE(created_at) AS day,
			COUNT(*) AS requests,
			COALESCE(SUM(tokens_input), 0) AS tokens_input,
			COALESCE(SUM(tokens_output), 0) AS tokens_output`).
		Where("role = ? AND model_id IS NOT NULL AND created_at >= ?", models.MessageRoleAssistant, cutoff).
		Group("model_id, DATE(created_at)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "aggregating daily usage")
	}

	// fold per-model rows into per-day entries, keeping cost per model
	var out []DayUsage
	index := make(map[string]int)
	costs := make(map[string]decimal.Decimal)
	for _, row := range rows {
		i, seen := index[row.Day]
		if !seen {
			i = len(out)
			index[row.Day] = i
			out = append(out, DayUsage{Date: row.Day})
		}
		out[i].Requests += row.Requests
		out[i].TokensInput += row.TokensInput
		out[i].TokensOutput += row.TokensOutput
		costs[row.Day] = costs[row.Day].Add(s.cost(row.ModelID, row.TokensInput, row.TokensOutput))
	}
	for i := range out {
		out[i].CostUSD = costs[out[i].Date].StringFixed(6)
	}
	return out, nil
}

var million = decimal.NewFromInt(1_000_000)

func (s *Service) cost(modelID string, tokensIn, tokensOut int64) decimal.Decimal {
	pricing := s.pricer.CostPerMillionTokens(modelID)
	total := decimal.Zero
	if pricing.InputPerMillion != nil {
		total = total.Add(decimal.NewFromInt(tokensIn).
			Mul(decimal.NewFromFloat(*pricing.InputPerMillion)).
			Div(million))
	}
	if pricing.OutputPerMillion != nil {
		total = total.Add(decimal.NewFromInt(tokensOut).
			Mul(decimal.NewFromFloat(*pricing.OutputPerMillion)).
			Div(million))
	}
	return total
}
