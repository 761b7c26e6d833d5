package service

import (
	"context"
	"errors"
	"time"

	"Micro_Blog/internal/model"
	"Micro_Blog/internal/pkg"
	"Micro_Blog/internal/repository/mysql"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrSelfFollow   = errors.New("cannot follow yourself")
	ErrUserNotFound = errors.New("user not found")
)

type FollowService struct {
	repo    *mysql.FollowRepository
	users   *mysql.UserRepository
	perPage int
}

func NewFollowService(repo *mysql.FollowRepository, users *mysql.UserRepository, perPage int) *FollowService {
	return &FollowService{repo: repo, users: users, perPage: perPage}
}

// FollowByName 数据层允许自环，自关注只在这一层拦
func (s *FollowService) FollowByName(ctx context.Context, followerID uint64, username string) (bool, error) {
	target, err := s.resolve(followerID, username)
	if err != nil {
		return false, err
	}
	return s.repo.Follow(ctx, followerID, target.ID)
}

func (s *FollowService) UnfollowByName(ctx context.Context, followerID uint64, username string) (bool, error) {
	target, err := s.resolve(followerID, username)
	if err != nil {
		return false, err
	}
	return s.repo.Unfollow(ctx, followerID, target.ID)
}

func (s *FollowService) resolve(followerID uint64, username string) (*model.User, error) {
	target, err := s.users.FindByUsername(username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if target.ID == followerID {
		return nil, ErrSelfFollow
	}
	return target, nil
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followedID uint64) (bool, error) {
	if followerID == 0 || followedID == 0 {
		return false, errors.New("invalid user id")
	}
	return s.repo.IsFollowing(ctx, followerID, followedID)
}

// Feed 首页：关注的人的帖子加上自己的帖子，时间倒序
func (s *FollowService) Feed(ctx context.Context, userID uint64, page, size int) ([]model.Post, int64, error) {
	if size <= 0 || size > 50 {
		size = s.perPage
	}
	if page <= 0 {
		page = 1
	}
	return s.repo.FollowedPosts(ctx, userID, (page-1)*size, size)
}

func (s *FollowService) ListFollowings(ctx context.Context, userID uint64, cursor uint64, limit int) ([]model.Follow, uint64, error) {
	return s.repo.ListFollowings(ctx, userID, cursor, limit)
}

func (s *FollowService) ListFollowers(ctx context.Context, userID uint64, cursor uint64, limit int) ([]model.Follow, uint64, error) {
	return s.repo.ListFollowers(ctx, userID, cursor, limit)
}

func (s *FollowService) Counts(ctx context.Context, userID uint64) (int64, int64, error) {
	return s.repo.Counts(ctx, userID)
}

type Sender func(ctx context.Context, ob *model.SocialOutbox) error

// OutboxRelayer 把 follow/unfollow 事件从 outbox 表搬到下游
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewOutboxRelayer(repo *mysql.OutboxRepository, sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      repo,
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

// Run outbox启动器
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

// 每轮按批查出未投递的事件，逐条交给 sender
func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		logrus.WithError(err).Warn("outbox query failed")
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			_ = r.repo.RetryUpdate(ctx, ob.ID)
			continue
		}
		_ = r.repo.SuccessUpdate(ctx, ob.ID)
	}
}

// LogSender 默认 sender：未配置 Kafka 时只打日志
func LogSender(ctx context.Context, ob *model.SocialOutbox) error {
	logrus.WithFields(logrus.Fields{
		"type":     ob.EventType,
		"follower": ob.Follower,
		"followee": ob.Followee,
	}).Info("outbox send")
	return nil
}

// NewKafkaSender 按 follower 分区投递，保证单个用户的事件顺序
func NewKafkaSender(producer *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.SocialOutbox) error {
		return producer.Send(ctx, ob.Follower, []byte(ob.Payload))
	}
}
