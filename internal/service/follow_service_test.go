package service

import (
	"context"
	"testing"
	"time"

	"Micro_Blog/internal/repository/mysql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowByName(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(&mysql.FollowRepository{DB: db}, &mysql.UserRepository{DB: db}, 10)
	ctx := context.Background()

	a := seedUser(t, db, "john")
	b := seedUser(t, db, "susan")

	changed, err := svc.FollowByName(ctx, a.ID, "susan")
	require.NoError(t, err)
	assert.True(t, changed)

	ok, err := svc.IsFollowing(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// 重复关注幂等
	changed, err = svc.FollowByName(ctx, a.ID, "susan")
	require.NoError(t, err)
	assert.False(t, changed)

	// 自关注在请求层被拒
	_, err = svc.FollowByName(ctx, a.ID, "john")
	assert.ErrorIs(t, err, ErrSelfFollow)

	_, err = svc.FollowByName(ctx, a.ID, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)

	changed, err = svc.UnfollowByName(ctx, a.ID, "susan")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = svc.UnfollowByName(ctx, a.ID, "susan")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestFeedIncludesOwnPosts(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(&mysql.FollowRepository{DB: db}, &mysql.UserRepository{DB: db}, 10)
	ctx := context.Background()

	a := seedUser(t, db, "john")
	b := seedUser(t, db, "susan")
	now := time.Now()
	seedPost(t, db, a.ID, "mine", now.Add(1*time.Second))
	seedPost(t, db, b.ID, "theirs", now.Add(2*time.Second))

	// 没关注任何人也能看到自己的帖子
	list, total, err := svc.Feed(ctx, a.ID, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "mine", list[0].Title)

	_, err = svc.FollowByName(ctx, a.ID, "susan")
	require.NoError(t, err)

	list, total, err = svc.Feed(ctx, a.ID, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 2)
	assert.Equal(t, "theirs", list[0].Title)
	assert.Equal(t, "mine", list[1].Title)
}
