package mysql

import (
	"context"
	"encoding/json"
	"time"

	"Micro_Blog/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowRepository struct {
	DB *gorm.DB
}

type OutboxRepository struct {
	DB *gorm.DB
}

// Follow 建立 a→b 关注边（幂等）。真正新增时返回 changed=true 并写 outbox。
func (r *FollowRepository) Follow(ctx context.Context, followerID, followedID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		edge := model.Follow{FollowerID: followerID, FollowedID: followedID}
		// 幂等插入：(follower_id, followed_id) 已存在则不报错也不新增
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "follower_id"}, {Name: "followed_id"}},
			DoNothing: true,
		}).Create(&edge)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			changed = false
			return nil
		}
		changed = true
		return r.insertOutbox(tx, "follow", followerID, followedID)
	})
	return changed, err
}

// Unfollow 删除 a→b 关注边，边不存在时是空操作
func (r *FollowRepository) Unfollow(ctx context.Context, followerID, followedID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND followed_id = ?", followerID, followedID).
			Delete(&model.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			changed = false
			return nil
		}
		changed = true
		return r.insertOutbox(tx, "unfollow", followerID, followedID)
	})
	return changed, err
}

// IsFollowing 判断是否关注
func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followedID uint64) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// feedScope 关注的人发的帖 ∪ 自己发的帖
func (r *FollowRepository) feedScope(ctx context.Context, userID uint64) *gorm.DB {
	sub := r.DB.Model(&model.Follow{}).Select("followed_id").Where("follower_id = ?", userID)
	return r.DB.WithContext(ctx).Model(&model.Post{}).
		Where("author_id = ? OR author_id IN (?)", userID, sub)
}

// FollowedPosts 首页 feed：一次查询出关注集合的帖子，时间倒序，id 倒序打破并列
func (r *FollowRepository) FollowedPosts(ctx context.Context, userID uint64, offset, limit int) ([]model.Post, int64, error) {
	var total int64
	if err := r.feedScope(ctx, userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []model.Post
	err := r.feedScope(ctx, userID).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error
	return list, total, err
}

// ListFollowings 获取关注列表
func (r *FollowRepository) ListFollowings(ctx context.Context, userID uint64, cursor uint64, limit int) ([]model.Follow, uint64, error) {
	return r.listEdges(ctx, "follower_id", userID, cursor, limit)
}

// ListFollowers 获取粉丝列表
func (r *FollowRepository) ListFollowers(ctx context.Context, userID uint64, cursor uint64, limit int) ([]model.Follow, uint64, error) {
	return r.listEdges(ctx, "followed_id", userID, cursor, limit)
}

func (r *FollowRepository) listEdges(ctx context.Context, column string, userID uint64, cursor uint64, limit int) ([]model.Follow, uint64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q := r.DB.WithContext(ctx).Model(&model.Follow{}).Where(column+" = ?", userID)
	if cursor > 0 {
		q = q.Where("id < ?", cursor)
	}
	var rows []model.Follow
	// limit+1 是为了判断有没有下一页
	if err := q.Order("id DESC").Limit(limit + 1).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	var next uint64
	if len(rows) > limit {
		next = rows[limit-1].ID
		rows = rows[:limit]
	}
	return rows, next, nil
}

// Counts 主页展示用的关注/粉丝数
func (r *FollowRepository) Counts(ctx context.Context, userID uint64) (following int64, followers int64, err error) {
	if err = r.DB.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ?", userID).Count(&following).Error; err != nil {
		return
	}
	err = r.DB.WithContext(ctx).Model(&model.Follow{}).
		Where("followed_id = ?", userID).Count(&followers).Error
	return
}

// 插入outbox事件表
func (r *FollowRepository) insertOutbox(tx *gorm.DB, event string, follower, followed uint64) error {
	payload, _ := json.Marshal(map[string]any{
		"event_time": time.Now().UTC().Format(time.RFC3339Nano),
		"follower":   follower,
		"followee":   followed,
	})
	ob := &model.SocialOutbox{
		EventType: event,
		Follower:  follower,
		Followee:  followed,
		Payload:   string(payload),
		Status:    0,
	}
	return tx.Create(ob).Error
}

// List outbox查询
func (r *OutboxRepository) List(ctx context.Context, batchSize int) ([]model.SocialOutbox, error) {
	var list []model.SocialOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = 0").
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// RetryUpdate outbox记录消息失败重试
func (r *OutboxRepository) RetryUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.SocialOutbox{}).Where("id = ?", id).
		Updates(map[string]any{"status": 2, "retry": gorm.Expr("retry + 1")}).Error
}

// SuccessUpdate outbox成功记录消息更新
func (r *OutboxRepository) SuccessUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.SocialOutbox{}).Where("id = ?", id).
		Update("status", 1).Error
}
