package model

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:120;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	AboutMe      string    `gorm:"size:140" json:"about_me"`
	LastSeen     time.Time `json:"last_seen"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// SetPassword 只存 bcrypt 散列，不存明文
func (u *User) SetPassword(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plaintext)) == nil
}

// Avatar gravatar 头像地址，按小写邮箱的 md5 生成
func (u *User) Avatar(size int) string {
	sum := md5.Sum([]byte(strings.ToLower(u.Email)))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?d=retro&s=%d", hex.EncodeToString(sum[:]), size)
}
