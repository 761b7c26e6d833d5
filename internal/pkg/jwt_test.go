package pkg

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetTokenRoundTrip(t *testing.T) {
	token, err := GenerateResetToken(42, 600*time.Second)
	require.NoError(t, err)

	id, err := ParseResetToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
}

func TestResetTokenExpired(t *testing.T) {
	token, err := GenerateResetToken(42, -time.Second)
	require.NoError(t, err)

	_, err = ParseResetToken(token)
	assert.ErrorIs(t, err, ErrResetInvalid)
}

func TestResetTokenTampered(t *testing.T) {
	token, err := GenerateResetToken(42, 600*time.Second)
	require.NoError(t, err)

	// 改掉负载里的一个字节，签名必然对不上
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	mid := len(payload) / 2
	if payload[mid] == 'A' {
		payload[mid] = 'B'
	} else {
		payload[mid] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = ParseResetToken(tampered)
	assert.ErrorIs(t, err, ErrResetInvalid)

	_, err = ParseResetToken("not-a-token")
	assert.ErrorIs(t, err, ErrResetInvalid)
}

func TestResetTokenRejectsAccessToken(t *testing.T) {
	pair, err := GeneratePair(42)
	require.NoError(t, err)

	// access token 的密钥和 subject 都不一样，不能拿来重置密码
	_, err = ParseResetToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrResetInvalid)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	pair, err := GeneratePair(7)
	require.NoError(t, err)

	claims, err := ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), claims.UserID)

	// refresh token 不能当 access 用
	_, err = ParseAccess(pair.RefreshToken)
	assert.Error(t, err)
}
