package mysql

import (
	"time"

	"Micro_Blog/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByLogin(login string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ? OR email = ?", login, login).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ?", username).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByID(id uint64) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var usr model.User
	err := r.DB.Where("email = ?", email).First(&usr).Error
	return &usr, err
}

func (r *UserRepository) UpdatePassword(user *model.User, newHash string) error {
	return r.DB.Model(user).Update("password_hash", newHash).Error
}

// UpdateProfile 更新用户名和简介
func (r *UserRepository) UpdateProfile(id uint64, username, aboutMe string) error {
	return r.DB.Model(&model.User{}).Where("id = ?", id).
		Updates(map[string]any{"username": username, "about_me": aboutMe}).Error
}

// TouchLastSeen 条件更新，距上次超过 minGap 才写，压掉并发静态请求带来的写放大
func (r *UserRepository) TouchLastSeen(id uint64, now time.Time, minGap time.Duration) error {
	return r.DB.Model(&model.User{}).
		Where("id = ? AND last_seen < ?", id, now.Add(-minGap)).
		UpdateColumn("last_seen", now).Error
}
