package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"Micro_Blog/internal/model"

	"github.com/redis/go-redis/v9"
)

const searchKeyPrefix = "search"

// SearchRepository RediSearch 全文索引，每类实体一个索引，文档键 search:<kind>:<id>。
// 数据库才是权威数据，这里只是镜像。
type SearchRepository struct {
	Client *redis.Client
}

func searchKey(kind string, id uint64) string {
	return fmt.Sprintf("%s:%s:%d", searchKeyPrefix, kind, id)
}

func indexName(kind string) string {
	return "idx:" + kind
}

// EnsureIndex 为某个实体类型建索引，已存在则跳过
func (r *SearchRepository) EnsureIndex(ctx context.Context, kind string, fields []string) error {
	schema := make([]*redis.FieldSchema, 0, len(fields))
	for _, f := range fields {
		schema = append(schema, &redis.FieldSchema{
			FieldName: f,
			FieldType: redis.SearchFieldTypeText,
		})
	}
	err := r.Client.FTCreate(ctx, indexName(kind), &redis.FTCreateOptions{
		OnHash: true,
		Prefix: []interface{}{fmt.Sprintf("%s:%s:", searchKeyPrefix, kind)},
	}, schema...).Err()
	if err != nil && strings.Contains(err.Error(), "Index already exists") {
		return nil
	}
	return err
}

// Upsert 可检索字段写进 hash，RediSearch 按前缀自动跟踪
func (r *SearchRepository) Upsert(ctx context.Context, doc model.Searchable) error {
	fields := doc.SearchFields()
	kv := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		kv[k] = v
	}
	return r.Client.HSet(ctx, searchKey(doc.SearchKind(), doc.SearchRef()), kv).Err()
}

func (r *SearchRepository) Delete(ctx context.Context, kind string, id uint64) error {
	return r.Client.Del(ctx, searchKey(kind, id)).Err()
}

// Query 返回按相关度排好序的主键和总命中数，分页在索引侧完成
func (r *SearchRepository) Query(ctx context.Context, kind, query string, offset, limit int) ([]uint64, int64, error) {
	res, err := r.Client.FTSearchWithArgs(ctx, indexName(kind), query, &redis.FTSearchOptions{
		NoContent:   true,
		LimitOffset: offset,
		Limit:       limit,
	}).Result()
	if err != nil {
		return nil, 0, err
	}
	ids := make([]uint64, 0, len(res.Docs))
	for _, doc := range res.Docs {
		raw := doc.ID
		if i := strings.LastIndexByte(raw, ':'); i >= 0 {
			raw = raw[i+1:]
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, int64(res.Total), nil
}
