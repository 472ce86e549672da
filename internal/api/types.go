// Package api はHTTP APIのリクエスト・レスポンス型を定義します。
package api

// ErrorResponse は全エンドポイント共通のエラーレスポンスです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// CompanySearchResult は検索結果1件です。securityNameは含みません。
type CompanySearchResult struct {
	ID         string `json:"id"`
	IssuerName string `json:"issuerName"`
	SecurityID string `json:"securityId"`
}

// KeywordRequiredResponse はkeyword未指定時に返すレスポンスです。
type KeywordRequiredResponse struct {
	Message string                `json:"message"`
	Data    []CompanySearchResult `json:"data"`
}

// SearchCompaniesParams は GET /stock-api/search のクエリパラメータです。
type SearchCompaniesParams struct {
	Keyword *string `form:"keyword,omitempty" json:"keyword,omitempty"`
}

// AnalyzeStockRequest は POST /stock-api/analyze のリクエストボディです。
type AnalyzeStockRequest struct {
	CompanyName    string `json:"companyName" binding:"required"`
	LatestNewsUrls string `json:"latestNewsUrls"`
}

// AnalyzeStockResponse は分析結果のレスポンスです。
type AnalyzeStockResponse struct {
	AiInsight string `json:"aiInsight"`
}

// HealthResponse は /healthz のレスポンスです。
type HealthResponse struct {
	Status    string `json:"status"`
	Bootstrap string `json:"bootstrap,omitempty"`
}
