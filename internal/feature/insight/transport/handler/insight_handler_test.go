package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"stock_insight/internal/feature/insight/domain/entity"
	"stock_insight/internal/feature/insight/usecase"
)

// mockInsightUsecase はInsightUsecaseインターフェースのモック実装です。
type mockInsightUsecase struct {
	AnalyzeFunc  func(ctx context.Context, req entity.AnalysisRequest) (string, error)
	AnalyzeCalls int
	LastRequest  entity.AnalysisRequest
}

func (m *mockInsightUsecase) Analyze(ctx context.Context, req entity.AnalysisRequest) (string, error) {
	m.AnalyzeCalls++
	m.LastRequest = req
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, req)
	}
	return "", nil
}

func TestNewInsightHandler(t *testing.T) {
	t.Parallel()

	handler := NewInsightHandler(&mockInsightUsecase{})

	assert.NotNil(t, handler)
	assert.NotNil(t, handler.uc)
}

func TestInsightHandler_Analyze(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		body           string
		analyzeFunc    func(ctx context.Context, req entity.AnalysisRequest) (string, error)
		expectedStatus int
		expectedBody   string
		expectCalled   bool
		expectedReq    entity.AnalysisRequest
	}{
		{
			name: "success: returns ai insight",
			body: `{"companyName":"Acme Corp","latestNewsUrls":"https://x/1,https://x/2"}`,
			analyzeFunc: func(ctx context.Context, req entity.AnalysisRequest) (string, error) {
				return "**Buy**: strong growth", nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"aiInsight":"**Buy**: strong growth"}`,
			expectCalled:   true,
			expectedReq:    entity.AnalysisRequest{CompanyName: "Acme Corp", LatestNewsURLs: "https://x/1,https://x/2"},
		},
		{
			name: "success: backend outage still answers 200 with fallback",
			body: `{"companyName":"Acme Corp","latestNewsUrls":""}`,
			analyzeFunc: func(ctx context.Context, req entity.AnalysisRequest) (string, error) {
				return "Answer generation is temporarily unavailable. Please try again later.", nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"aiInsight":"Answer generation is temporarily unavailable. Please try again later."}`,
			expectCalled:   true,
			expectedReq:    entity.AnalysisRequest{CompanyName: "Acme Corp"},
		},
		{
			name: "failure: analysis failed",
			body: `{"companyName":"Acme Corp","latestNewsUrls":"https://x/1"}`,
			analyzeFunc: func(ctx context.Context, req entity.AnalysisRequest) (string, error) {
				return "", usecase.ErrAnalysisFailed
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Failed to analyze stock data"}`,
			expectCalled:   true,
			expectedReq:    entity.AnalysisRequest{CompanyName: "Acme Corp", LatestNewsURLs: "https://x/1"},
		},
		{
			name:           "bad request: missing companyName",
			body:           `{"latestNewsUrls":"https://x/1"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"companyName is required"}`,
		},
		{
			name:           "bad request: malformed json",
			body:           `{"companyName":`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"companyName is required"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockUC := &mockInsightUsecase{AnalyzeFunc: tt.analyzeFunc}
			handler := NewInsightHandler(mockUC)

			router := gin.New()
			router.POST("/stock-api/analyze", handler.Analyze)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/stock-api/analyze", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			assert.Equal(t, tt.expectCalled, mockUC.AnalyzeCalls == 1)
			if tt.expectCalled {
				assert.Equal(t, tt.expectedReq, mockUC.LastRequest)
			}
		})
	}
}
