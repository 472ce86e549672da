// Package usecase はinsightフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"stock_insight/internal/feature/insight/domain/entity"
)

// SystemPrompt は全ての分析呼び出しで先頭に送るシステムメッセージです。
const SystemPrompt = "You are a stock market analyzer. Be thorough but concise."

// analysisPromptTemplate は会社名とニュース参照を埋め込む分析指示です。
// 改行は送信前に除去されます。
const analysisPromptTemplate = `Analyze the stock data for "%s".
1.Identify risks (e.g., high debt, external challenges) and opportunities (e.g., strong growth or profitability). Provide new and valuable insights for investors.
2.Rate sentiment as bearish, neutral, or bullish based on the stock's overall performance, market conditions, and long-term potential.
3.Provide a recommendation: "Buy," "Hold," or "Sell," with reasoning to guide investor decisions.
4.Summarize recent news and its impact on the stock's future prospects.
5.Deliver 4-5 actionable insights that provide new value for investors beyond basic data.
give with highlighting response in bold in 5 lines,
News:%s`

// Generator はロール付きメッセージ列からテキストを生成するクライアントです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type Generator interface {
	// Generate は生成テキストを返します。バックエンド障害はフォールバック文字列として返り、
	// errorは呼び出し側の誤用（空のメッセージ列など）に限られます。
	Generate(ctx context.Context, messages []entity.ChatMessage, model string) (string, error)
}

// InsightUsecase は企業のAIインサイト生成を提供します。
type InsightUsecase struct {
	gen    Generator
	model  string
	logger *slog.Logger
}

// NewInsightUsecase はInsightUsecaseの新しいインスタンスを生成します。
// modelが空の場合、実際のモデルはGenerator側の設定で決まります。
func NewInsightUsecase(gen Generator, model string, logger *slog.Logger) *InsightUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &InsightUsecase{gen: gen, model: model, logger: logger}
}

// BuildAnalysisPrompt は分析プロンプトを1行の文字列として組み立てます。
func BuildAnalysisPrompt(req entity.AnalysisRequest) string {
	prompt := fmt.Sprintf(analysisPromptTemplate, req.CompanyName, req.LatestNewsURLs)
	return strings.NewReplacer("\r", "", "\n", "").Replace(prompt)
}

// BuildMessages はシステム指示とユーザープロンプトの2件を順に返します。
func BuildMessages(req entity.AnalysisRequest) []entity.ChatMessage {
	return []entity.ChatMessage{
		{Role: entity.RoleSystem, Content: SystemPrompt},
		{Role: entity.RoleUser, Content: BuildAnalysisPrompt(req)},
	}
}

// Analyze は企業名とニュース参照からインサイトを生成します。
// 生成処理のエラーやpanicはログに記録し、ErrAnalysisFailedとして返します。
// バックエンド停止時はGeneratorのフォールバック文字列がそのまま成功として返ります。
func (u *InsightUsecase) Analyze(ctx context.Context, req entity.AnalysisRequest) (insight string, err error) {
	defer func() {
		if r := recover(); r != nil {
			u.logger.Error("stock analysis panicked", "company", req.CompanyName, "panic", r)
			insight, err = "", ErrAnalysisFailed
		}
	}()

	out, err := u.gen.Generate(ctx, BuildMessages(req), u.model)
	if err != nil {
		u.logger.Error("stock analysis failed", "company", req.CompanyName, "error", err)
		return "", ErrAnalysisFailed
	}
	return out, nil
}
