package mysql

import (
	"Micro_Blog/internal/model"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

func (r *PostRepository) Create(post *model.Post) error {
	return r.DB.Create(post).Error
}

func (r *PostRepository) FindByID(id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.First(&post, "id = ?", id).Error
	return &post, err
}

// UpdateOwned 仅作者本人可改，author_id 不参与更新。返回影响行数用于区分无权限。
func (r *PostRepository) UpdateOwned(postID, authorID uint64, title, subtitle, body string) (int64, error) {
	tx := r.DB.Model(&model.Post{}).
		Where("id = ? AND author_id = ?", postID, authorID).
		Updates(map[string]any{"title": title, "subtitle": subtitle, "body": body})
	return tx.RowsAffected, tx.Error
}

// DeleteOwned 硬删除，仅作者本人可删
func (r *PostRepository) DeleteOwned(postID, authorID uint64) (int64, error) {
	tx := r.DB.Where("id = ? AND author_id = ?", postID, authorID).Delete(&model.Post{})
	return tx.RowsAffected, tx.Error
}

// ListAll explore 页，全量按时间倒序
func (r *PostRepository) ListAll(offset, limit int) ([]model.Post, int64, error) {
	var total int64
	if err := r.DB.Model(&model.Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []model.Post
	err := r.DB.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, total, err
}

func (r *PostRepository) ListByAuthor(authorID uint64, offset, limit int) ([]model.Post, int64, error) {
	var total int64
	if err := r.DB.Model(&model.Post{}).Where("author_id = ?", authorID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []model.Post
	err := r.DB.Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, total, err
}

// ListByIDs 搜索回查用，返回顺序不保证，由调用方按索引名次重排
func (r *PostRepository) ListByIDs(ids []uint64) ([]model.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var list []model.Post
	err := r.DB.Where("id IN ?", ids).Find(&list).Error
	return list, err
}

// IterateAll 全量重建索引时分批扫表
func (r *PostRepository) IterateAll(batchSize int, fn func(batch []model.Post) error) error {
	var batch []model.Post
	return r.DB.Model(&model.Post{}).
		FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
			return fn(batch)
		}).Error
}
