// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_insight/internal/api"
)

// StateReporter は起動時インポートの状態名を返します。
type StateReporter interface {
	StateName() string
}

// Health はサービスヘルスチェック用の /healthz エンドポイントを返します。
// HTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
// reporterがnilの場合、bootstrapフィールドは省略されます。
func Health(reporter StateReporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		// すべてのGET/HEAD/OPTIONSリクエストに対して200または204を返す
		switch c.Request.Method {
		case http.MethodHead:
			c.Status(http.StatusOK)
		case http.MethodOptions:
			c.Status(http.StatusNoContent)
		default:
			resp := api.HealthResponse{Status: "ok"}
			if reporter != nil {
				resp.Bootstrap = reporter.StateName()
			}
			c.JSON(http.StatusOK, resp)
		}
	}
}
