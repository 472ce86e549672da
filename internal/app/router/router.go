// Package router はHTTPルーティングを構築します。
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	directoryhandler "stock_insight/internal/feature/directory/transport/handler"
	insighthandler "stock_insight/internal/feature/insight/transport/handler"
	platformhandler "stock_insight/internal/platform/http/handler"
)

// NewRouter はエンドポイントを登録したgin.Engineを返します。
// 認証は行いません。
func NewRouter(search *directoryhandler.SearchHandler, insight *insighthandler.InsightHandler,
	bootstrap platformhandler.StateReporter) *gin.Engine {
	r := gin.Default()

	// ブラウザのフロントエンドから直接呼ばれる
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		MaxAge:          12 * time.Hour,
	}))

	// 導通確認用
	health := platformhandler.Health(bootstrap)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	r.OPTIONS("/healthz", health)

	api := r.Group("/stock-api")
	{
		api.GET("/search", search.Search)
		api.POST("/analyze", insight.Analyze)
	}

	return r
}
