// Package gemini はGoogle Gemini APIを使用したテキスト生成クライアントを提供します。
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"stock_insight/internal/feature/insight/adapters"
	"stock_insight/internal/feature/insight/domain/entity"
	"stock_insight/internal/feature/insight/usecase"
	platformhttp "stock_insight/internal/platform/http"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
)

// Config はクライアント生成時の設定です。
// APIKeyが空の場合はGOOGLE_GENAI_USE_VERTEXAIなどの環境変数とADCが使われます。
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	// BaseURL はテスト用のエンドポイント差し替えです。
	BaseURL string
}

// Client はGoogle Gemini APIを使用してテキストを生成します。
type Client struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// ClientがGeneratorを実装していることをコンパイル時に検証します。
var _ usecase.Generator = (*Client)(nil)

// NewClient はGeminiクライアントを生成します。
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	cc := &genai.ClientConfig{
		HTTPClient:  platformhttp.NewHTTPClient(cfg.Timeout),
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	}
	if cfg.APIKey != "" {
		cc.APIKey = cfg.APIKey
		cc.Backend = genai.BackendGeminiAPI
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Client{client: client, model: cfg.Model, logger: logger}, nil
}

// Generate はシステムメッセージをSystemInstructionに、ユーザーメッセージを会話内容に変換して生成します。
// APIエラーはログに1件記録し、FallbackMessageを返します。
func (c *Client) Generate(ctx context.Context, messages []entity.ChatMessage, model string) (string, error) {
	if err := adapters.ValidateMessages(messages); err != nil {
		return "", err
	}
	if model == "" {
		model = c.model
	}

	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case entity.RoleSystem:
			system = append(system, m.Content)
		case entity.RoleUser:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	var config *genai.GenerateContentConfig
	if len(system) > 0 {
		config = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(strings.Join(system, " "), genai.RoleUser),
		}
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		c.logger.Error("gemini generate content failed", "model", model, "error", err)
		return adapters.FallbackMessage, nil
	}
	return resp.Text(), nil
}
