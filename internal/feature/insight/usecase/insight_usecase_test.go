package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_insight/internal/feature/insight/domain/entity"
	"stock_insight/internal/feature/insight/usecase"
)

const fallback = "Answer generation is temporarily unavailable. Please try again later."

// mockGenerator はGeneratorインターフェースのモック実装です。
type mockGenerator struct {
	GenerateFunc  func(ctx context.Context, messages []entity.ChatMessage, model string) (string, error)
	GenerateCalls int
	LastMessages  []entity.ChatMessage
	LastModel     string
}

func (m *mockGenerator) Generate(ctx context.Context, messages []entity.ChatMessage, model string) (string, error) {
	m.GenerateCalls++
	m.LastMessages = messages
	m.LastModel = model
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, messages, model)
	}
	return "", nil
}

func newBufferLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewJSONHandler(buf, nil)), buf
}

var acme = entity.AnalysisRequest{CompanyName: "Acme Corp", LatestNewsURLs: "https://x/1"}

func TestBuildAnalysisPrompt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  entity.AnalysisRequest
		want []string
	}{
		{
			name: "embeds company name and news verbatim",
			req:  acme,
			want: []string{`"Acme Corp"`, "News:https://x/1"},
		},
		{
			name: "asks for sentiment and recommendation",
			req:  acme,
			want: []string{"bearish, neutral, or bullish", `"Buy," "Hold," or "Sell,"`, "4-5 actionable insights", "in bold in 5 lines"},
		},
		{
			name: "newlines in input are stripped too",
			req:  entity.AnalysisRequest{CompanyName: "Tata\nMotors", LatestNewsURLs: "https://a/1,\r\nhttps://b/2"},
			want: []string{`"TataMotors"`, "News:https://a/1,https://b/2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := usecase.BuildAnalysisPrompt(tt.req)

			assert.NotContains(t, got, "\n")
			assert.NotContains(t, got, "\r")
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
		})
	}
}

func TestInsightUsecase_Analyze(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		model       string
		genFunc     func(ctx context.Context, messages []entity.ChatMessage, model string) (string, error)
		wantInsight string
		wantErr     error
		wantLog     bool
	}{
		{
			name: "success: returns generated text",
			genFunc: func(ctx context.Context, messages []entity.ChatMessage, model string) (string, error) {
				return "**Hold**", nil
			},
			wantInsight: "**Hold**",
		},
		{
			name: "success: fallback sentence is passed through as a normal result",
			genFunc: func(ctx context.Context, messages []entity.ChatMessage, model string) (string, error) {
				return fallback, nil
			},
			wantInsight: fallback,
		},
		{
			name: "success: empty generation is not an error",
			genFunc: func(ctx context.Context, messages []entity.ChatMessage, model string) (string, error) {
				return "", nil
			},
			wantInsight: "",
		},
		{
			name:  "success: configured model is forwarded",
			model: "gpt-4o-mini",
			genFunc: func(ctx context.Context, messages []entity.ChatMessage, model string) (string, error) {
				return model, nil
			},
			wantInsight: "gpt-4o-mini",
		},
		{
			name: "failure: generator error becomes ErrAnalysisFailed",
			genFunc: func(ctx context.Context, messages []entity.ChatMessage, model string) (string, error) {
				return "", errors.New("secret backend detail")
			},
			wantErr: usecase.ErrAnalysisFailed,
			wantLog: true,
		},
		{
			name: "failure: generator panic becomes ErrAnalysisFailed",
			genFunc: func(ctx context.Context, messages []entity.ChatMessage, model string) (string, error) {
				panic("malformed state")
			},
			wantErr: usecase.ErrAnalysisFailed,
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, buf := newBufferLogger()
			gen := &mockGenerator{GenerateFunc: tt.genFunc}
			uc := usecase.NewInsightUsecase(gen, tt.model, logger)

			got, err := uc.Analyze(context.Background(), acme)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.NotContains(t, err.Error(), "secret backend detail")
				assert.Empty(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantInsight, got)
			}
			assert.Equal(t, 1, gen.GenerateCalls)
			assert.Equal(t, tt.model, gen.LastModel)
			if tt.wantLog {
				assert.Contains(t, buf.String(), `"level":"ERROR"`)
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestInsightUsecase_Analyze_SendsSystemThenUser(t *testing.T) {
	t.Parallel()

	gen := &mockGenerator{}
	uc := usecase.NewInsightUsecase(gen, "", nil)

	_, err := uc.Analyze(context.Background(), acme)
	require.NoError(t, err)

	require.Len(t, gen.LastMessages, 2)
	assert.Equal(t, entity.RoleSystem, gen.LastMessages[0].Role)
	assert.Equal(t, usecase.SystemPrompt, gen.LastMessages[0].Content)
	assert.Equal(t, entity.RoleUser, gen.LastMessages[1].Role)
	assert.Contains(t, gen.LastMessages[1].Content, "Acme Corp")
	assert.False(t, strings.ContainsAny(gen.LastMessages[1].Content, "\r\n"))
	assert.Empty(t, gen.LastModel)
}

func TestInsightUsecase_Analyze_NoCaching(t *testing.T) {
	t.Parallel()

	gen := &mockGenerator{}
	uc := usecase.NewInsightUsecase(gen, "", nil)

	for range 3 {
		_, err := uc.Analyze(context.Background(), acme)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, gen.GenerateCalls)
}

func TestInsightUsecase_Analyze_NilGenerator(t *testing.T) {
	t.Parallel()

	logger, buf := newBufferLogger()
	uc := usecase.NewInsightUsecase(nil, "", logger)

	got, err := uc.Analyze(context.Background(), acme)

	require.ErrorIs(t, err, usecase.ErrAnalysisFailed)
	assert.Empty(t, got)
	assert.Contains(t, buf.String(), "stock analysis panicked")
}
