// Package adapters はdirectoryフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"stock_insight/internal/feature/directory/domain/entity"
	"stock_insight/internal/feature/directory/usecase"
)

// insertBatchSize は一括挿入時の1ステートメントあたりの行数です。
const insertBatchSize = 500

// pgUniqueViolation はPostgreSQLの一意制約違反のSQLSTATEです。
const pgUniqueViolation = "23505"

// companyColumns は論理フィールド名から検索用カラム名への対応表です。
// キーワード検索で許可されるフィールドはここに列挙されたものだけです。
// 検索はGo側で小文字化したfolded列に対して行います（SQLiteのLOWERはASCIIのみ対応のため）。
var companyColumns = map[string]string{
	entity.FieldIssuerName:   "issuer_name_folded",
	entity.FieldSecurityName: "security_name_folded",
	entity.FieldSecurityID:   "security_id_folded",
}

// CompanyModel はbse_companiesテーブルの行を表すGORMモデルです。
type CompanyModel struct {
	ID              uint      `gorm:"primaryKey"`
	SecurityCode    string    `gorm:"size:32;not null;uniqueIndex"`
	IssuerName      string    `gorm:"size:255;not null"`
	SecurityID      string    `gorm:"size:64;not null;index"`
	SecurityName    string    `gorm:"size:255;not null"`
	Status          string    `gorm:"size:32;not null"`
	Group           string    `gorm:"column:security_group;size:16;not null"`
	FaceValue       float64   `gorm:"not null"`
	IsinNo          string    `gorm:"size:32;not null"`
	Industry        string    `gorm:"size:255"`
	Instrument      string    `gorm:"size:64;not null"`
	SectorName      string    `gorm:"size:255;not null"`
	IndustryNewName string    `gorm:"size:255"`
	IgroupName      string    `gorm:"size:255"`
	IsubgroupName   string    `gorm:"size:255"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`

	IssuerNameFolded   string `gorm:"size:255;not null;default:''"`
	SecurityIDFolded   string `gorm:"size:64;not null;default:''"`
	SecurityNameFolded string `gorm:"size:255;not null;default:''"`
}

// TableName はGORMが使用するテーブル名を返します。
func (CompanyModel) TableName() string {
	return "bse_companies"
}

func toModel(e entity.Company) CompanyModel {
	return CompanyModel{
		SecurityCode:    e.SecurityCode,
		IssuerName:      e.IssuerName,
		SecurityID:      e.SecurityID,
		SecurityName:    e.SecurityName,
		Status:          e.Status,
		Group:           e.Group,
		FaceValue:       e.FaceValue,
		IsinNo:          e.IsinNo,
		Industry:        e.Industry,
		Instrument:      e.Instrument,
		SectorName:      e.SectorName,
		IndustryNewName: e.IndustryNewName,
		IgroupName:      e.IgroupName,
		IsubgroupName:   e.IsubgroupName,

		IssuerNameFolded:   foldCase(e.IssuerName),
		SecurityIDFolded:   foldCase(e.SecurityID),
		SecurityNameFolded: foldCase(e.SecurityName),
	}
}

// foldCase は検索用にUnicode対応で小文字化します。
// キーワードと格納値の両方に同じ関数を使うこと。
func foldCase(s string) string {
	return strings.ToLower(s)
}

// companyGorm はCompanyRepositoryインターフェースのGORM実装です（PostgreSQL/SQLite）。
type companyGorm struct {
	db *gorm.DB
}

var _ usecase.CompanyRepository = (*companyGorm)(nil)

// NewCompanyRepository は指定されたDB接続でcompanyGormリポジトリの新しいインスタンスを生成します。
func NewCompanyRepository(db *gorm.DB) *companyGorm {
	return &companyGorm{db: db}
}

// Count は登録済みの企業数を返します。
func (r *companyGorm) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&CompanyModel{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// InsertMany は全レコードを検証した上で、1トランザクション内で一括挿入します。
// 途中で失敗した場合はロールバックされ、1件も残りません。
func (r *companyGorm) InsertMany(ctx context.Context, companies []entity.Company) error {
	if len(companies) == 0 {
		return nil
	}
	if err := entity.ValidateAll(companies); err != nil {
		return err
	}

	ms := make([]CompanyModel, 0, len(companies))
	for _, c := range companies {
		ms = append(ms, toModel(c))
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&ms, insertBatchSize).Error
	})
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %w", usecase.ErrDuplicateSecurityCode, err)
	}
	return err
}

// FindByKeyword は指定フィールドのいずれかにキーワードを部分一致（大文字小文字を区別しない）で含む企業を返します。
// 結果は挿入順（id昇順）で、id・issuerName・securityIdのみを読み出します。
func (r *companyGorm) FindByKeyword(ctx context.Context, q entity.KeywordQuery) ([]entity.SearchResult, error) {
	if q.Keyword == "" || len(q.Fields) == 0 {
		return []entity.SearchResult{}, nil
	}

	pattern := "%" + escapeLike(foldCase(q.Keyword)) + "%"
	conds := make([]string, 0, len(q.Fields))
	args := make([]any, 0, len(q.Fields))
	for _, f := range q.Fields {
		col, ok := companyColumns[f]
		if !ok {
			return nil, fmt.Errorf("%w: %q", usecase.ErrUnknownField, f)
		}
		conds = append(conds, fmt.Sprintf(`%s LIKE ? ESCAPE '\'`, col))
		args = append(args, pattern)
	}

	var rows []CompanyModel
	tx := r.db.WithContext(ctx).
		Select("id", "issuer_name", "security_id").
		Where(strings.Join(conds, " OR "), args...).
		Order("id ASC")
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]entity.SearchResult, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.SearchResult{
			ID:         strconv.FormatUint(uint64(m.ID), 10),
			IssuerName: m.IssuerName,
			SecurityID: m.SecurityID,
		})
	}
	return out, nil
}

// escapeLike はLIKEのワイルドカード文字をエスケープし、キーワードをリテラルとして扱います。
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// isUniqueViolation は一意制約違反かどうかを判定します。
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
