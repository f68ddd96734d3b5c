package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/ougirez/roaddefects/internal/domain"
	"github.com/ougirez/roaddefects/internal/pkg/constants"
	"github.com/ougirez/roaddefects/internal/pkg/logger"
	"google.golang.org/genai"
)

const (
	DefaultMaxRecords = 40
	DefaultModel      = "gemini-2.5-pro"

	errPrefix = "unable to generate report: "
)

const reportInstruction = `You are a professional road maintenance analyst. Based on the road defect data below, write a thorough, in-depth analysis report in Markdown. Requirements:
1. A bold, professional report title.
2. A detailed statistical summary: total number of defects, distribution by defect type and severity, and trends. Mix bullet points and paragraphs.
3. Two Markdown tables, one by district and one by road section, each sorted by defect count descending, with the columns: district (or road section), defect count, average severity, repair priority rank.
4. Concrete recommendations and remediation strategies for the districts and road sections that should be repaired first.
5. Keep the report professional and well structured; do not reduce it to a short summary.
`

const analysisInstruction = `You are a professional road maintenance analyst. Analyze the single road defect record below in Markdown: describe the defect, assess its severity and the risk it poses to traffic, and recommend a remediation approach and its urgency.
`

type Config struct {
	APIKey     string
	Model      string
	MaxRecords int
	Timeout    time.Duration
}

type Service struct {
	model      Model
	maxRecords int
	timeout    time.Duration
}

// New builds the service on the Gemini API. It is meant to be called once at startup.
func New(ctx context.Context, cfg Config) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, constants.ErrLLMNotConfigured
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	model, err := newGeminiModel(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return NewWithModel(model, cfg), nil
}

func NewWithModel(model Model, cfg Config) *Service {
	if cfg.MaxRecords <= 0 {
		cfg.MaxRecords = DefaultMaxRecords
	}
	return &Service{model: model, maxRecords: cfg.MaxRecords, timeout: cfg.Timeout}
}

// GenerateReport asks the model for a Markdown report over records. Failures come
// back as explanatory text, never as an error.
func (s *Service) GenerateReport(ctx context.Context, records []domain.Defect) string {
	records = Truncate(records, s.maxRecords)

	data, err := renderRecords(records)
	if err != nil {
		return errPrefix + err.Error()
	}

	prompt := reportInstruction +
		"\nPre-computed statistics:\n" + Summarize(records).String() +
		"\nData:\n" + data
	return s.generate(ctx, "report", prompt)
}

func (s *Service) AnalyzeDefect(ctx context.Context, record domain.Defect) string {
	data, err := renderRecords(record)
	if err != nil {
		return errPrefix + err.Error()
	}
	return s.generate(ctx, "defect analysis", analysisInstruction+"\nData:\n"+data)
}

func (s *Service) generate(ctx context.Context, what, prompt string) (text string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "%s: unexpected error: %v", what, r)
			text = fmt.Sprintf("%s%v", errPrefix, r)
		}
	}()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	resp, err := s.model.GenerateContent(ctx, prompt)
	if err != nil {
		logger.Errorf(ctx, "%s: gemini call failed: %v", what, err)
		return errPrefix + err.Error()
	}
	logger.Infof(ctx, "%s: generated in %s, prompt %d bytes", what, time.Since(started), len(prompt))

	return Validate(resp)
}

// Validate turns a model response into report text or a diagnostic. The checks run
// in order and the first failing one wins.
func Validate(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		reason, msg := "unspecified", ""
		var ratings []*genai.SafetyRating
		if resp != nil && resp.PromptFeedback != nil {
			if resp.PromptFeedback.BlockReason != "" {
				reason = string(resp.PromptFeedback.BlockReason)
			}
			msg = resp.PromptFeedback.BlockReasonMessage
			ratings = resp.PromptFeedback.SafetyRatings
		}
		if msg != "" {
			reason += " (" + msg + ")"
		}
		return fmt.Sprintf("report blocked: reason=%s; safety: %s", reason, formatSafety(ratings))
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return fmt.Sprintf("report is empty: finish_reason=%s; safety: %s",
			finishReason(candidate), formatSafety(candidate.SafetyRatings))
	}

	if candidate.FinishReason != genai.FinishReasonStop {
		return fmt.Sprintf("report generation stopped abnormally: finish_reason=%s", finishReason(candidate))
	}

	return resp.Text()
}

func finishReason(c *genai.Candidate) string {
	if c.FinishReason == "" {
		return "unspecified"
	}
	return string(c.FinishReason)
}

func formatSafety(ratings []*genai.SafetyRating) string {
	parts := make([]string, 0, len(ratings))
	for _, r := range ratings {
		if r == nil {
			continue
		}
		entry := fmt.Sprintf("%s=%s", r.Category, r.Probability)
		if r.Blocked {
			entry += "(blocked)"
		}
		parts = append(parts, entry)
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}

// Truncate keeps the first max records in input order.
func Truncate(records []domain.Defect, max int) []domain.Defect {
	if max <= 0 || len(records) <= max {
		return records
	}
	return records[:max]
}

func renderRecords(v any) (string, error) {
	b, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("render records: %w", err)
	}
	return string(b), nil
}
