package report

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ougirez/roaddefects/internal/domain"
	"github.com/ougirez/roaddefects/internal/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModel struct {
	prompt   string
	deadline bool
	resp     *genai.GenerateContentResponse
	err      error
	panic    any
}

func (f *fakeModel) GenerateContent(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error) {
	f.prompt = prompt
	_, f.deadline = ctx.Deadline()
	if f.panic != nil {
		panic(f.panic)
	}
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content:      genai.NewContentFromText(text, genai.RoleModel),
		FinishReason: genai.FinishReasonStop,
	}}}
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.ErrorIs(t, err, constants.ErrLLMNotConfigured)
}

func TestGenerateReportTruncates(t *testing.T) {
	records := make([]domain.Defect, 0, 45)
	for i := 1; i <= 45; i++ {
		records = append(records, domain.Defect{"id": fmt.Sprintf("D%03d", i), "district": "Xitun", "severity": 2})
	}
	model := &fakeModel{resp: textResponse("# Report")}
	svc := NewWithModel(model, Config{})

	got := svc.GenerateReport(context.Background(), records)

	assert.Equal(t, "# Report", got)
	for i := 1; i <= 40; i++ {
		assert.Contains(t, model.prompt, fmt.Sprintf(`"D%03d"`, i))
	}
	for i := 41; i <= 45; i++ {
		assert.NotContains(t, model.prompt, fmt.Sprintf(`"D%03d"`, i))
	}
	assert.Contains(t, model.prompt, "total defects: 40")
	assert.Contains(t, model.prompt, "- Xitun: count=40, avg_severity=2.00")
}

func TestGenerateReportAppliesTimeout(t *testing.T) {
	model := &fakeModel{resp: textResponse("ok")}
	svc := NewWithModel(model, Config{Timeout: time.Minute})

	svc.GenerateReport(context.Background(), nil)
	assert.True(t, model.deadline)
}

func TestGenerateReportModelError(t *testing.T) {
	svc := NewWithModel(&fakeModel{err: errors.New("quota exceeded")}, Config{})

	got := svc.GenerateReport(context.Background(), []domain.Defect{{"id": 1}})
	assert.Equal(t, "unable to generate report: quota exceeded", got)
}

func TestGenerateReportRecoversPanic(t *testing.T) {
	svc := NewWithModel(&fakeModel{panic: "boom"}, Config{})

	got := svc.GenerateReport(context.Background(), nil)
	assert.Equal(t, "unable to generate report: boom", got)
}

func TestAnalyzeDefect(t *testing.T) {
	model := &fakeModel{resp: textResponse("analysis")}
	svc := NewWithModel(model, Config{})

	got := svc.AnalyzeDefect(context.Background(), domain.Defect{"id": "D007", "road_section": "Taiwan Blvd"})
	assert.Equal(t, "analysis", got)
	assert.Contains(t, model.prompt, `"road_section": "Taiwan Blvd"`)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want string
	}{
		{
			name: "no candidates wins over everything else",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{
					BlockReason:        genai.BlockedReasonSafety,
					BlockReasonMessage: "unsafe prompt",
					SafetyRatings: []*genai.SafetyRating{
						{Category: genai.HarmCategoryHarassment, Probability: genai.HarmProbabilityHigh, Blocked: true},
						{Category: genai.HarmCategoryHateSpeech, Probability: genai.HarmProbabilityLow},
					},
				},
			},
			want: "report blocked: reason=SAFETY (unsafe prompt); safety: " +
				"HARM_CATEGORY_HARASSMENT=HIGH(blocked),HARM_CATEGORY_HATE_SPEECH=LOW",
		},
		{
			name: "nil response",
			resp: nil,
			want: "report blocked: reason=unspecified; safety: none",
		},
		{
			name: "block reason without message",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
			},
			want: "report blocked: reason=SAFETY; safety: none",
		},
		{
			name: "candidate without parts",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content:      &genai.Content{Role: genai.RoleModel},
				FinishReason: genai.FinishReasonSafety,
				SafetyRatings: []*genai.SafetyRating{
					{Category: genai.HarmCategoryDangerousContent, Probability: genai.HarmProbabilityMedium},
				},
			}}},
			want: "report is empty: finish_reason=SAFETY; safety: HARM_CATEGORY_DANGEROUS_CONTENT=MEDIUM",
		},
		{
			name: "abnormal finish",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content:      genai.NewContentFromText("half a rep", genai.RoleModel),
				FinishReason: genai.FinishReasonMaxTokens,
			}}},
			want: "report generation stopped abnormally: finish_reason=MAX_TOKENS",
		},
		{
			name: "text",
			resp: textResponse("## Summary"),
			want: "## Summary",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.resp))
		})
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]domain.Defect{
		{"city": "Taichung", "district": "Xitun", "road_section": "Taiwan Blvd", "severity": 3},
		{"city": "Taichung", "district": "Xitun", "road_section": "Taiwan Blvd", "severity": "2"},
		{"city": "Taichung", "district": "Beitun", "road_section": "Wenxin Rd", "severity": 1},
		{"city": "Taichung", "district": "Beitun", "road_section": "Wenxin Rd"},
		{"city": "Taichung", "district": "Nantun"},
	})

	assert.Equal(t, 5, s.Total)
	require.Len(t, s.ByDistrict, 3)
	assert.Equal(t, "Taichung / Beitun", s.ByDistrict[0].Name)
	assert.Equal(t, "1", s.ByDistrict[0].AvgSeverity.String())
	assert.Equal(t, "Taichung / Xitun", s.ByDistrict[1].Name)
	assert.Equal(t, "2.5", s.ByDistrict[1].AvgSeverity.String())
	assert.Equal(t, 1, s.ByDistrict[2].Count)

	require.Len(t, s.ByRoad, 3)
	assert.Equal(t, unknownLocation, s.ByRoad[2].Name)
	assert.Contains(t, s.String(), "- (unknown): count=1, avg_severity=n/a")
}

func TestTruncate(t *testing.T) {
	records := []domain.Defect{{"id": 1}, {"id": 2}, {"id": 3}}
	assert.Len(t, Truncate(records, 2), 2)
	assert.Len(t, Truncate(records, 5), 3)
	assert.Len(t, Truncate(records, 0), 3)
}
