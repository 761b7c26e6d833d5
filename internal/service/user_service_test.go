package service

import (
	"testing"
	"time"

	"Micro_Blog/internal/pkg"
	"Micro_Blog/internal/repository/mysql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) (*UserService, *mysql.UserRepository) {
	t.Helper()
	db := newTestDB(t)
	repo := &mysql.UserRepository{DB: db}
	mailer := NewEmailService(pkg.SMTPConfig{}, "http://localhost:8080", 600*time.Second)
	// 会话存储只有登录/登出用，这里传 nil 跳过
	return NewUserService(repo, nil, mailer, 600*time.Second), repo
}

func TestRegisterNormalizesCase(t *testing.T) {
	svc, repo := newUserService(t)

	require.NoError(t, svc.Register("John", "John@Example.COM", "secret1"))

	user, err := repo.FindByUsername("john")
	require.NoError(t, err)
	assert.Equal(t, "john", user.Username)
	assert.Equal(t, "john@example.com", user.Email)
	assert.True(t, user.CheckPassword("secret1"))

	// 用户名和邮箱都全局唯一，大小写视为同名
	assert.ErrorIs(t, svc.Register("JOHN", "other@example.com", "secret1"), ErrUsernameTaken)
	assert.ErrorIs(t, svc.Register("jane", "JOHN@example.com", "secret1"), ErrEmailTaken)
}

func TestEditProfile(t *testing.T) {
	svc, repo := newUserService(t)

	require.NoError(t, svc.Register("john", "john@example.com", "secret1"))
	require.NoError(t, svc.Register("susan", "susan@example.com", "secret1"))

	john, err := repo.FindByUsername("john")
	require.NoError(t, err)

	// 占用的用户名换不上
	assert.ErrorIs(t, svc.EditProfile(john.ID, "Susan", "hi"), ErrUsernameTaken)

	// 改成自己原来的名字不算冲突
	require.NoError(t, svc.EditProfile(john.ID, "John", "about me"))
	got, err := repo.FindByID(john.ID)
	require.NoError(t, err)
	assert.Equal(t, "john", got.Username)
	assert.Equal(t, "about me", got.AboutMe)

	require.NoError(t, svc.EditProfile(john.ID, "Johnny", "about me"))
	got, err = repo.FindByID(john.ID)
	require.NoError(t, err)
	assert.Equal(t, "johnny", got.Username)
}

func TestResetPassword(t *testing.T) {
	svc, repo := newUserService(t)

	require.NoError(t, svc.Register("john", "john@example.com", "oldpass"))
	user, err := repo.FindByUsername("john")
	require.NoError(t, err)

	token, err := pkg.GenerateResetToken(user.ID, 600*time.Second)
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(token, "newpass"))

	got, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.True(t, got.CheckPassword("newpass"))
	assert.False(t, got.CheckPassword("oldpass"))

	// 过期 token 和坏 token 一视同仁
	expired, err := pkg.GenerateResetToken(user.ID, -time.Second)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.ResetPassword(expired, "again"), pkg.ErrResetInvalid)
	assert.ErrorIs(t, svc.ResetPassword("garbage", "again"), pkg.ErrResetInvalid)
}

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	svc, _ := newUserService(t)
	// 邮箱没注册也不报错，不暴露注册情况
	assert.NoError(t, svc.RequestPasswordReset("ghost@example.com"))
}
