package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"Micro_Blog/internal/model"
	"Micro_Blog/internal/repository/mysql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeIndex 内存版索引，名次由测试用例指定
type fakeIndex struct {
	docs       map[string]map[string]string
	queryIDs   []uint64
	queryTotal int64
	fail       bool
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{docs: make(map[string]map[string]string)}
}

func indexKey(kind string, id uint64) string {
	return fmt.Sprintf("%s:%d", kind, id)
}

func (f *fakeIndex) Upsert(_ context.Context, doc model.Searchable) error {
	if f.fail {
		return errors.New("index unavailable")
	}
	f.docs[indexKey(doc.SearchKind(), doc.SearchRef())] = doc.SearchFields()
	return nil
}

func (f *fakeIndex) Delete(_ context.Context, kind string, id uint64) error {
	if f.fail {
		return errors.New("index unavailable")
	}
	delete(f.docs, indexKey(kind, id))
	return nil
}

func (f *fakeIndex) Query(_ context.Context, _ string, _ string, offset, limit int) ([]uint64, int64, error) {
	if f.fail {
		return nil, 0, errors.New("index unavailable")
	}
	ids := f.queryIDs
	if offset >= len(ids) {
		return nil, f.queryTotal, nil
	}
	ids = ids[offset:]
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, f.queryTotal, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, mysql.AutoMigrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username, Email: username + "@example.com", PasswordHash: "x", LastSeen: time.Now()}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedPost(t *testing.T, db *gorm.DB, authorID uint64, title string, createdAt time.Time) *model.Post {
	t.Helper()
	p := &model.Post{AuthorID: authorID, Title: title, Subtitle: "sub", Body: "body " + title, CreatedAt: createdAt}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestSearchPostsOrderedByIndexRank(t *testing.T) {
	db := newTestDB(t)
	idx := newFakeIndex()
	svc := NewSearchService(idx, &mysql.PostRepository{DB: db})

	u := seedUser(t, db, "john")
	now := time.Now()
	p1 := seedPost(t, db, u.ID, "alpha", now.Add(1*time.Second))
	p2 := seedPost(t, db, u.ID, "beta", now.Add(2*time.Second))
	p3 := seedPost(t, db, u.ID, "gamma", now.Add(3*time.Second))

	// 索引给的名次和数据库的时间序故意相反
	idx.queryIDs = []uint64{p1.ID, p3.ID, p2.ID}
	idx.queryTotal = 3

	list, total, err := svc.SearchPosts(context.Background(), "whatever", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 3)
	assert.Equal(t, p1.ID, list[0].ID)
	assert.Equal(t, p3.ID, list[1].ID)
	assert.Equal(t, p2.ID, list[2].ID)
}

func TestSearchPostsEmptyAndDisabled(t *testing.T) {
	db := newTestDB(t)
	idx := newFakeIndex()
	svc := NewSearchService(idx, &mysql.PostRepository{DB: db})

	// 索引零命中：空页加零总数，不做数据库兜底
	list, total, err := svc.SearchPosts(context.Background(), "nothing", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)

	// 未配置索引：同样是空结果，不报错
	disabled := NewSearchService(nil, &mysql.PostRepository{DB: db})
	list, total, err = disabled.SearchPosts(context.Background(), "anything", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)
}

func TestSearchPostsIndexFailureNonFatal(t *testing.T) {
	db := newTestDB(t)
	idx := newFakeIndex()
	idx.fail = true
	svc := NewSearchService(idx, &mysql.PostRepository{DB: db})

	list, total, err := svc.SearchPosts(context.Background(), "q", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)
}

func TestSearchPostsSkipsDriftedRows(t *testing.T) {
	db := newTestDB(t)
	idx := newFakeIndex()
	svc := NewSearchService(idx, &mysql.PostRepository{DB: db})

	u := seedUser(t, db, "john")
	p := seedPost(t, db, u.ID, "alpha", time.Now())

	// 索引里残留了一条库里已经没有的记录
	idx.queryIDs = []uint64{9999, p.ID}
	idx.queryTotal = 2

	list, total, err := svc.SearchPosts(context.Background(), "alpha", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)
}

func TestAfterCommitReplaysChanges(t *testing.T) {
	db := newTestDB(t)
	idx := newFakeIndex()
	svc := NewSearchService(idx, &mysql.PostRepository{DB: db})

	p := &model.Post{ID: 1, Title: "t", Body: "b"}
	q := &model.Post{ID: 2, Title: "t2", Body: "b2"}

	svc.AfterCommit(context.Background(), Changes{Upserts: []model.Searchable{p, q}})
	assert.Len(t, idx.docs, 2)

	svc.AfterCommit(context.Background(), Changes{Deletes: []model.Searchable{p}})
	assert.Len(t, idx.docs, 1)
	_, ok := idx.docs[indexKey("post", q.ID)]
	assert.True(t, ok)

	// 索引挂掉时回放只记日志，不 panic 不报错
	idx.fail = true
	svc.AfterCommit(context.Background(), Changes{Upserts: []model.Searchable{p}})
}

func TestReindexPosts(t *testing.T) {
	db := newTestDB(t)
	idx := newFakeIndex()
	svc := NewSearchService(idx, &mysql.PostRepository{DB: db})

	u := seedUser(t, db, "john")
	now := time.Now()
	for i := 0; i < 3; i++ {
		seedPost(t, db, u.ID, fmt.Sprintf("p%d", i), now.Add(time.Duration(i)*time.Second))
	}

	require.NoError(t, svc.ReindexPosts(context.Background()))
	assert.Len(t, idx.docs, 3)
}
