// Package azureopenai はAzure OpenAIのチャット補完を使ったテキスト生成クライアントを提供します。
package azureopenai

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"

	"stock_insight/internal/feature/insight/adapters"
	"stock_insight/internal/feature/insight/domain/entity"
	"stock_insight/internal/feature/insight/usecase"
	platformhttp "stock_insight/internal/platform/http"
)

const (
	// DefaultAPIVersion はOPENAI_API_VERSION未設定時に使うAPIバージョンです。
	DefaultAPIVersion = "2024-02-01"
	// DefaultDeployment はAZURE_OPENAI_DEPLOYMENT_ID未設定時のデプロイメント名です。
	DefaultDeployment = "gpt-4o"
)

// Config はクライアント生成時の設定です。呼び出しごとには変わりません。
type Config struct {
	Endpoint   string
	APIKey     string
	APIVersion string
	Deployment string
	Timeout    time.Duration
}

// Client はAzure OpenAIへチャット補完を要求します。
type Client struct {
	client     openai.Client
	deployment string
	logger     *slog.Logger
}

// ClientがGeneratorを実装していることをコンパイル時に検証します。
var _ usecase.Generator = (*Client)(nil)

// NewClient はAzure OpenAIクライアントを生成します。
// SDKのリトライは無効にし、タイムアウトはHTTPクライアント側で制御します。
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("azure openai endpoint is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("azure openai api key is required")
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Deployment == "" {
		cfg.Deployment = DefaultDeployment
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	client := openai.NewClient(
		azure.WithEndpoint(cfg.Endpoint, cfg.APIVersion),
		azure.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(platformhttp.NewHTTPClient(cfg.Timeout)),
		option.WithMaxRetries(0),
	)
	return &Client{client: client, deployment: cfg.Deployment, logger: logger}, nil
}

// Generate は最初の選択肢の本文を返します。
// 通信・認証・HTTPステータスのエラーはログに1件記録し、FallbackMessageを返します。
// 選択肢が無い場合は空文字列です。
func (c *Client) Generate(ctx context.Context, messages []entity.ChatMessage, model string) (string, error) {
	params, err := c.buildParams(messages, model)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		c.logger.Error("azure openai chat completion failed", "deployment", params.Model, "error", err)
		return adapters.FallbackMessage, nil
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// buildParams はメッセージ列をSDKのリクエストに変換します。
// Azureのミドルウェアはmodelをデプロイメント名としてパスに使います。
func (c *Client) buildParams(messages []entity.ChatMessage, model string) (openai.ChatCompletionNewParams, error) {
	if err := adapters.ValidateMessages(messages); err != nil {
		return openai.ChatCompletionNewParams{}, err
	}
	if model == "" {
		model = c.deployment
	}

	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case entity.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case entity.RoleUser:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: out,
	}, nil
}
