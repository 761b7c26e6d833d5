package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	u := &User{Username: "susan"}
	require.NoError(t, u.SetPassword("cat"))

	assert.True(t, u.CheckPassword("cat"))
	assert.False(t, u.CheckPassword("dog"))
	assert.False(t, u.CheckPassword(""))
	// 散列本身也不能当密码用
	assert.False(t, u.CheckPassword(u.PasswordHash))

	// 重新设置后旧密码失效
	require.NoError(t, u.SetPassword("bird"))
	assert.False(t, u.CheckPassword("cat"))
	assert.True(t, u.CheckPassword("bird"))
}

func TestAvatar(t *testing.T) {
	u := &User{Username: "john", Email: "john@example.com"}
	assert.Equal(t,
		"https://www.gravatar.com/avatar/d4c74594d841139328695756648b6bd6?d=retro&s=128",
		u.Avatar(128),
	)
	// 邮箱大小写不影响摘要
	u.Email = "John@Example.COM"
	assert.Contains(t, u.Avatar(64), "d4c74594d841139328695756648b6bd6")
	assert.Contains(t, u.Avatar(64), "s=64")
}

func TestPostSearchFields(t *testing.T) {
	p := &Post{ID: 7, Title: "t", Subtitle: "s", Body: "<p>b</p>"}
	assert.Equal(t, "post", p.SearchKind())
	assert.Equal(t, uint64(7), p.SearchRef())
	assert.Equal(t, map[string]string{"title": "t", "subtitle": "s", "body": "<p>b</p>"}, p.SearchFields())
}
