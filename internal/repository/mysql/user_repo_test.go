package mysql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTouchLastSeenThrottled(t *testing.T) {
	db := newTestDB(t)
	repo := &UserRepository{DB: db}

	u := seedUser(t, db, "john")
	base := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(u).UpdateColumn("last_seen", base).Error)

	now := time.Now()
	require.NoError(t, repo.TouchLastSeen(u.ID, now, 10*time.Second))

	got, err := repo.FindByID(u.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, now, got.LastSeen, time.Second)

	// 10 秒内的再次请求不写库
	later := now.Add(3 * time.Second)
	require.NoError(t, repo.TouchLastSeen(u.ID, later, 10*time.Second))

	got, err = repo.FindByID(u.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, now, got.LastSeen, time.Second)
}

func TestFindByLogin(t *testing.T) {
	db := newTestDB(t)
	repo := &UserRepository{DB: db}
	u := seedUser(t, db, "john")

	got, err := repo.FindByLogin("john")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = repo.FindByLogin("john@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.FindByLogin("nobody")
	assert.Error(t, err)
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	repo := &UserRepository{DB: db}
	u := seedUser(t, db, "john")

	require.NoError(t, repo.UpdateProfile(u.ID, "johnny", "hello there"))

	got, err := repo.FindByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "johnny", got.Username)
	assert.Equal(t, "hello there", got.AboutMe)
}
