// Package handler はdirectoryフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"stock_insight/internal/api"
	"stock_insight/internal/feature/directory/domain/entity"
	"stock_insight/internal/feature/directory/usecase"
)

// SearchUsecase は企業検索のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type SearchUsecase interface {
	Search(ctx context.Context, keyword string) ([]entity.SearchResult, error)
}

// SearchHandler は企業検索のHTTPリクエストを処理します。
type SearchHandler struct {
	uc SearchUsecase
}

// NewSearchHandler は新しい SearchHandler を作成します。
func NewSearchHandler(uc SearchUsecase) *SearchHandler {
	return &SearchHandler{uc: uc}
}

// Search はキーワードで企業を検索します。
//
// エンドポイント例:
// GET /stock-api/search?keyword=tata
func (h *SearchHandler) Search(c *gin.Context) {
	var params api.SearchCompaniesParams
	if err := runtime.BindQueryParameter("form", true, false, "keyword", c.Request.URL.Query(), &params.Keyword); err != nil {
		slog.Warn("検索クエリの解析に失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid keyword parameter"})
		return
	}

	if params.Keyword == nil || *params.Keyword == "" {
		c.JSON(http.StatusOK, api.KeywordRequiredResponse{
			Message: "Keyword is required",
			Data:    []api.CompanySearchResult{},
		})
		return
	}

	results, err := h.uc.Search(c.Request.Context(), *params.Keyword)
	if err != nil {
		if !errors.Is(err, usecase.ErrSearchUnavailable) {
			slog.Error("企業検索で想定外のエラー", "error", err)
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to search for companies. Please try again later."})
		return
	}

	out := make([]api.CompanySearchResult, 0, len(results))
	for _, r := range results {
		out = append(out, api.CompanySearchResult{
			ID:         r.ID,
			IssuerName: r.IssuerName,
			SecurityID: r.SecurityID,
		})
	}
	c.JSON(http.StatusOK, out)
}
