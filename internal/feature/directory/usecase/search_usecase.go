package usecase

import (
	"context"
	"log/slog"

	"stock_insight/internal/feature/directory/domain/entity"
)

// MaxSearchResults bounds the number of companies returned by a single search.
const MaxSearchResults = 10

// SearchFields are matched with OR; a record matches if the keyword occurs in any of them.
var SearchFields = []string{
	entity.FieldIssuerName,
	entity.FieldSecurityName,
	entity.FieldSecurityID,
}

// CompanyRepository abstracts the persistence layer for the company directory.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type CompanyRepository interface {
	Count(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, companies []entity.Company) error
	FindByKeyword(ctx context.Context, q entity.KeywordQuery) ([]entity.SearchResult, error)
}

// SearchUsecase provides keyword search over the directory.
type SearchUsecase struct {
	repo   CompanyRepository
	logger *slog.Logger
}

// NewSearchUsecase creates a new SearchUsecase. A nil logger falls back to slog.Default().
func NewSearchUsecase(r CompanyRepository, logger *slog.Logger) *SearchUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchUsecase{repo: r, logger: logger}
}

// Search returns at most MaxSearchResults companies whose issuer name, security name
// or security id contains keyword, ignoring case. An empty keyword yields an empty
// result without touching the store.
func (u *SearchUsecase) Search(ctx context.Context, keyword string) ([]entity.SearchResult, error) {
	if keyword == "" {
		return []entity.SearchResult{}, nil
	}

	results, err := u.repo.FindByKeyword(ctx, entity.KeywordQuery{
		Keyword: keyword,
		Fields:  SearchFields,
		Limit:   MaxSearchResults,
	})
	if err != nil {
		u.logger.Error("company search failed", "keyword", keyword, "error", err)
		return nil, ErrSearchUnavailable
	}

	if results == nil {
		return []entity.SearchResult{}, nil
	}
	if len(results) > MaxSearchResults {
		results = results[:MaxSearchResults]
	}
	return results, nil
}
