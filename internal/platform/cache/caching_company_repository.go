// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_insight/internal/feature/directory/domain/entity"
	"stock_insight/internal/feature/directory/usecase"
)

// CachingCompanyRepository decorates a CompanyRepository with Redis caching of keyword searches.
// The directory is read-only after bootstrap, so cached results stay valid until the next insert.
type CachingCompanyRepository struct {
	inner     usecase.CompanyRepository
	rdb       *redis.Client
	ttl       time.Duration
	ttlFunc   func() time.Duration // nil means fixed ttl
	namespace string
}

var _ usecase.CompanyRepository = (*CachingCompanyRepository)(nil)

// NewCachingCompanyRepository decorates a CompanyRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "companies".
// A nil rdb turns the decorator into a pass-through.
func NewCachingCompanyRepository(rdb *redis.Client, ttl time.Duration, inner usecase.CompanyRepository, namespace string) *CachingCompanyRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "companies"
	}
	return &CachingCompanyRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// NewRefreshingCompanyRepository is like NewCachingCompanyRepository, but asks ttlFunc for the TTL
// on every write, so entries expire at a wall-clock boundary (e.g. TimeUntilNextRefresh) rather than
// a duration fixed at startup. Non-positive results fall back to the 5 minute default.
func NewRefreshingCompanyRepository(rdb *redis.Client, ttlFunc func() time.Duration, inner usecase.CompanyRepository, namespace string) *CachingCompanyRepository {
	c := NewCachingCompanyRepository(rdb, 0, inner, namespace)
	c.ttlFunc = ttlFunc
	return c
}

// Count is never cached; the bootstrap emptiness check must see the store itself.
func (c *CachingCompanyRepository) Count(ctx context.Context) (int64, error) {
	return c.inner.Count(ctx)
}

// InsertMany inserts into the underlying repository and drops every cached search.
func (c *CachingCompanyRepository) InsertMany(ctx context.Context, companies []entity.Company) error {
	if err := c.inner.InsertMany(ctx, companies); err != nil {
		return err
	}
	if c.rdb == nil || len(companies) == 0 {
		return nil
	}
	if err := c.deleteByPattern(ctx, c.namespace+":search:*"); err != nil {
		// Best effort: the insert itself succeeded
		slog.Warn("failed to invalidate search cache", "namespace", c.namespace, "error", err)
	}
	return nil
}

// FindByKeyword checks the cache first, then falls back to the underlying repository.
func (c *CachingCompanyRepository) FindByKeyword(ctx context.Context, q entity.KeywordQuery) ([]entity.SearchResult, error) {
	if c.rdb == nil {
		return c.inner.FindByKeyword(ctx, q)
	}

	key := c.cacheKey(q)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.SearchResult
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the store
	out, err := c.inner.FindByKeyword(ctx, q)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.entryTTL()).Err()
	}

	return out, nil
}

// entryTTL returns the expiry for an entry written now.
func (c *CachingCompanyRepository) entryTTL() time.Duration {
	if c.ttlFunc != nil {
		if d := c.ttlFunc(); d > 0 {
			return d
		}
	}
	return c.ttl
}

// cacheKey generates a cache key for a keyword query. Matching ignores case, so the keyword is lower-cased;
// query escaping keeps distinct keywords on distinct keys and strips SCAN glob characters.
func (c *CachingCompanyRepository) cacheKey(q entity.KeywordQuery) string {
	return fmt.Sprintf("%s:search:%s:%s:%d",
		c.namespace,
		strings.Join(q.Fields, ","),
		url.QueryEscape(strings.ToLower(q.Keyword)),
		q.Limit,
	)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingCompanyRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}
