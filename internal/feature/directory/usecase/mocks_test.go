package usecase_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	"stock_insight/internal/feature/directory/domain/entity"
)

// mockCompanyRepository はCompanyRepositoryインターフェースのモック実装です。
type mockCompanyRepository struct {
	CountFunc         func(ctx context.Context) (int64, error)
	InsertManyFunc    func(ctx context.Context, companies []entity.Company) error
	FindByKeywordFunc func(ctx context.Context, q entity.KeywordQuery) ([]entity.SearchResult, error)

	CountCalls         int
	InsertManyCalls    int
	FindByKeywordCalls int
}

func (m *mockCompanyRepository) Count(ctx context.Context) (int64, error) {
	m.CountCalls++
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func (m *mockCompanyRepository) InsertMany(ctx context.Context, companies []entity.Company) error {
	m.InsertManyCalls++
	if m.InsertManyFunc != nil {
		return m.InsertManyFunc(ctx, companies)
	}
	return nil
}

func (m *mockCompanyRepository) FindByKeyword(ctx context.Context, q entity.KeywordQuery) ([]entity.SearchResult, error) {
	m.FindByKeywordCalls++
	if m.FindByKeywordFunc != nil {
		return m.FindByKeywordFunc(ctx, q)
	}
	return nil, nil
}

// newBufferLogger はログ出力をバッファに書き込むJSONロガーを生成します。
func newBufferLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewJSONHandler(buf, nil)), buf
}

// logLines はバッファ内のログ行を返します。
func logLines(buf *bytes.Buffer) []string {
	out := strings.TrimSpace(buf.String())
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}
