// Package handler はinsightフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_insight/internal/api"
	"stock_insight/internal/feature/insight/domain/entity"
)

// InsightUsecase はAIインサイト生成のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type InsightUsecase interface {
	Analyze(ctx context.Context, req entity.AnalysisRequest) (string, error)
}

// InsightHandler は銘柄分析のHTTPリクエストを処理します。
type InsightHandler struct {
	uc InsightUsecase
}

// NewInsightHandler はInsightHandlerの新しいインスタンスを生成します。
func NewInsightHandler(uc InsightUsecase) *InsightHandler {
	return &InsightHandler{uc: uc}
}

// Analyze は会社名とニュース参照からAIインサイトを生成します。
// バックエンド停止時もフォールバック文言を含む200を返します。
//
// エンドポイント: POST /stock-api/analyze
// Content-Type: application/json
func (h *InsightHandler) Analyze(c *gin.Context) {
	var req api.AnalyzeStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("分析リクエストのバリデーションに失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "companyName is required"})
		return
	}

	insight, err := h.uc.Analyze(c.Request.Context(), entity.AnalysisRequest{
		CompanyName:    req.CompanyName,
		LatestNewsURLs: req.LatestNewsUrls,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to analyze stock data"})
		return
	}

	c.JSON(http.StatusOK, api.AnalyzeStockResponse{AiInsight: insight})
}
