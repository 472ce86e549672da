package di

import (
	"context"
	"fmt"
	"log/slog"

	"stock_insight/internal/feature/insight/adapters/azureopenai"
	"stock_insight/internal/feature/insight/adapters/gemini"
	"stock_insight/internal/feature/insight/usecase"
	"stock_insight/internal/platform/config"
)

// NewGenerator creates the text-generation backend selected by LLM_PROVIDER.
func NewGenerator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (usecase.Generator, error) {
	switch cfg.LLMProvider {
	case config.ProviderAzure:
		c, err := azureopenai.NewClient(azureopenai.Config{
			Endpoint:   cfg.AzureOpenAIEndpoint,
			APIKey:     cfg.AzureOpenAIAPIKey,
			APIVersion: cfg.OpenAIAPIVersion,
			Deployment: cfg.AzureOpenAIDeploymentID,
			Timeout:    cfg.LLMTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.ProviderGemini:
		c, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			Timeout: cfg.LLMTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}
