package adapters

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"stock_insight/internal/feature/directory/domain/entity"
	"stock_insight/internal/feature/directory/usecase"
)

// companyDocument はbsecompanyコレクションのドキュメント形式です。
type companyDocument struct {
	ID              bson.ObjectID `bson:"_id,omitempty"`
	SecurityCode    string        `bson:"securityCode"`
	IssuerName      string        `bson:"issuerName"`
	SecurityID      string        `bson:"securityId"`
	SecurityName    string        `bson:"securityName"`
	Status          string        `bson:"status"`
	Group           string        `bson:"group"`
	FaceValue       float64       `bson:"faceValue"`
	IsinNo          string        `bson:"isinNo"`
	Industry        string        `bson:"industry,omitempty"`
	Instrument      string        `bson:"instrument"`
	SectorName      string        `bson:"sectorName"`
	IndustryNewName string        `bson:"industryNewName,omitempty"`
	IgroupName      string        `bson:"igroupName,omitempty"`
	IsubgroupName   string        `bson:"isubgroupName,omitempty"`
}

func toDocument(e entity.Company) companyDocument {
	return companyDocument{
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
	}
}

// mongoFields はMongoDBで検索可能なフィールドです。ドキュメントのキーは論理フィールド名と同一です。
var mongoFields = map[string]struct{}{
	entity.FieldIssuerName:   {},
	entity.FieldSecurityName: {},
	entity.FieldSecurityID:   {},
}

// companyMongo はCompanyRepositoryインターフェースのMongoDB実装です。
type companyMongo struct {
	coll *mongo.Collection
}

var _ usecase.CompanyRepository = (*companyMongo)(nil)

// NewCompanyMongoRepository は指定されたコレクションでcompanyMongoリポジトリを生成します。
func NewCompanyMongoRepository(coll *mongo.Collection) *companyMongo {
	return &companyMongo{coll: coll}
}

// EnsureIndexes はsecurityCodeの一意インデックスを作成します。
func (r *companyMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "securityCode", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create securityCode index: %w", err)
	}
	return nil
}

// Count は登録済みの企業数を返します。
func (r *companyMongo) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.D{})
}

// InsertMany は全レコードを検証した上で、1回のinsertManyで挿入します。
// 順序付き挿入のため、重複キーに当たった時点で残りは挿入されません。
func (r *companyMongo) InsertMany(ctx context.Context, companies []entity.Company) error {
	if len(companies) == 0 {
		return nil
	}
	if err := entity.ValidateAll(companies); err != nil {
		return err
	}

	docs := make([]companyDocument, 0, len(companies))
	for _, c := range companies {
		docs = append(docs, toDocument(c))
	}

	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %w", usecase.ErrDuplicateSecurityCode, err)
		}
		return err
	}
	return nil
}

// FindByKeyword は指定フィールドのいずれかにキーワードを大文字小文字を区別せず含む企業を返します。
func (r *companyMongo) FindByKeyword(ctx context.Context, q entity.KeywordQuery) ([]entity.SearchResult, error) {
	if q.Keyword == "" || len(q.Fields) == 0 {
		return []entity.SearchResult{}, nil
	}

	filter, err := keywordFilter(q)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetProjection(bson.D{{Key: "_id", Value: 1}, {Key: "issuerName", Value: 1}, {Key: "securityId", Value: 1}}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	if q.Limit > 0 {
		opts = opts.SetLimit(int64(q.Limit))
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []companyDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]entity.SearchResult, 0, len(docs))
	for _, d := range docs {
		out = append(out, entity.SearchResult{
			ID:         d.ID.Hex(),
			IssuerName: d.IssuerName,
			SecurityID: d.SecurityID,
		})
	}
	return out, nil
}

// keywordFilter はフィールドごとの$regex条件を$orで結合したフィルタを組み立てます。
// キーワードはQuoteMetaでリテラル化されます。
func keywordFilter(q entity.KeywordQuery) (bson.D, error) {
	pattern := regexp.QuoteMeta(q.Keyword)
	or := make(bson.A, 0, len(q.Fields))
	for _, f := range q.Fields {
		if _, ok := mongoFields[f]; !ok {
			return nil, fmt.Errorf("%w: %q", usecase.ErrUnknownField, f)
		}
		or = append(or, bson.D{{Key: f, Value: bson.D{
			{Key: "$regex", Value: pattern},
			{Key: "$options", Value: "i"},
		}}})
	}
	return bson.D{{Key: "$or", Value: or}}, nil
}
