package main

import (
	"context"

	"Micro_Blog/internal/config"
	"Micro_Blog/internal/pkg"
	"Micro_Blog/internal/repository/mysql"
	"Micro_Blog/internal/repository/redis"
	"Micro_Blog/internal/router"
	"Micro_Blog/internal/service"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// .env 可选，真实环境直接给环境变量
	_ = godotenv.Load()
	cfg := config.Load()

	pkg.Setup(cfg.AccessSecret, cfg.RefreshSecret, cfg.ResetSecret)

	db, err := mysql.InitDB(cfg.MySQLDSN)
	if err != nil {
		logrus.WithError(err).Fatal("mysql init failed")
	}
	if err := mysql.AutoMigrate(db); err != nil {
		logrus.WithError(err).Fatal("auto migrate failed")
	}

	// 会话存储用的 redis
	sessionClient, err := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logrus.WithError(err).Fatal("redis init failed")
	}
	defer sessionClient.Close()
	sessions := &redis.SessionRepository{Client: sessionClient}

	userRepo := &mysql.UserRepository{DB: db}
	postRepo := &mysql.PostRepository{DB: db}
	followRepo := &mysql.FollowRepository{DB: db}
	outboxRepo := &mysql.OutboxRepository{DB: db}

	// 搜索索引可选，连不上或没配置都不拦启动
	var index service.Index
	if cfg.SearchEnabled() {
		searchClient, err := redis.New(cfg.SearchAddr, cfg.SearchPassword, 0)
		if err != nil {
			logrus.WithError(err).Warn("search index unreachable, search disabled")
		} else {
			defer searchClient.Close()
			repo := &redis.SearchRepository{Client: searchClient}
			if err := repo.EnsureIndex(context.Background(), "post", []string{"title", "subtitle", "body"}); err != nil {
				logrus.WithError(err).Warn("search index create failed")
			}
			index = repo
		}
	}

	mailer := service.NewEmailService(pkg.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}, cfg.BaseURL, cfg.ResetTokenTTL)

	searchSvc := service.NewSearchService(index, postRepo)
	userSvc := service.NewUserService(userRepo, sessions, mailer, cfg.ResetTokenTTL)
	postSvc := service.NewPostService(postRepo, searchSvc, cfg.PostsPerPage)
	followSvc := service.NewFollowService(followRepo, userRepo, cfg.PostsPerPage)

	// 关注事件投递，没配 Kafka 就走日志
	sender := service.LogSender
	if len(cfg.KafkaBrokers) > 0 {
		producer := pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic})
		defer producer.Close()
		sender = service.NewKafkaSender(producer)
	}
	relayCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go service.NewOutboxRelayer(outboxRepo, sender).Run(relayCtx)

	r := router.InitRouter(router.Deps{
		Sessions: sessions,
		Users:    userSvc,
		Posts:    postSvc,
		Follows:  followSvc,
		Search:   searchSvc,
		PerPage:  cfg.PostsPerPage,
	})
	if err := r.Run(cfg.HTTPAddr); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}
