package service

import (
	"context"

	"Micro_Blog/internal/model"
	"Micro_Blog/internal/repository/mysql"

	"github.com/sirupsen/logrus"
)

// Index 搜索索引客户端要实现的能力，生产走 RediSearch，测试里换假实现
type Index interface {
	Upsert(ctx context.Context, doc model.Searchable) error
	Delete(ctx context.Context, kind string, id uint64) error
	Query(ctx context.Context, kind, query string, offset, limit int) ([]uint64, int64, error)
}

// Changes 提交前采集好的变更快照，事务成功后整体回放进索引
type Changes struct {
	Upserts []model.Searchable
	Deletes []model.Searchable
}

type SearchService struct {
	idx   Index
	posts *mysql.PostRepository
}

// NewSearchService idx 传 nil 表示未配置索引，镜像和查询全部降级为空操作
func NewSearchService(idx Index, posts *mysql.PostRepository) *SearchService {
	return &SearchService{idx: idx, posts: posts}
}

func (s *SearchService) Enabled() bool {
	return s != nil && s.idx != nil
}

// AfterCommit 数据库提交成功之后回放镜像。索引不可达只记日志：
// 权威数据已经落库，不为索引失败回滚，也不向上报错。
func (s *SearchService) AfterCommit(ctx context.Context, ch Changes) {
	if !s.Enabled() {
		return
	}
	for _, doc := range ch.Upserts {
		if err := s.idx.Upsert(ctx, doc); err != nil {
			logrus.WithError(err).
				WithFields(logrus.Fields{"kind": doc.SearchKind(), "id": doc.SearchRef()}).
				Warn("search mirror upsert failed")
		}
	}
	for _, doc := range ch.Deletes {
		if err := s.idx.Delete(ctx, doc.SearchKind(), doc.SearchRef()); err != nil {
			logrus.WithError(err).
				WithFields(logrus.Fields{"kind": doc.SearchKind(), "id": doc.SearchRef()}).
				Warn("search mirror delete failed")
		}
	}
}

// SearchPosts 先查索引拿名次和总命中数，再回数据库取行，最后按索引名次重排。
// 索引零命中就是空页，不做数据库兜底扫描。
func (s *SearchService) SearchPosts(ctx context.Context, query string, page, size int) ([]model.Post, int64, error) {
	if !s.Enabled() {
		return nil, 0, nil
	}
	if page <= 0 {
		page = 1
	}
	ids, total, err := s.idx.Query(ctx, "post", query, (page-1)*size, size)
	if err != nil {
		logrus.WithError(err).Warn("search index query failed")
		return nil, 0, nil
	}
	if len(ids) == 0 {
		return nil, total, nil
	}
	rows, err := s.posts.ListByIDs(ids)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[uint64]model.Post, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}
	// 索引和库之间允许漂移，库里已删的行直接跳过
	ordered := make([]model.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, total, nil
}

// ReindexPosts 全量重建：逐批扫 posts 重新写入，用于修漂移或初始化新索引
func (s *SearchService) ReindexPosts(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	return s.posts.IterateAll(500, func(batch []model.Post) error {
		for i := range batch {
			if err := s.idx.Upsert(ctx, &batch[i]); err != nil {
				return err
			}
		}
		return nil
	})
}
