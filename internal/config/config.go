package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr string

	MySQLDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// 搜索索引单独一套地址/凭证，不配置则整体关闭搜索镜像
	SearchAddr     string
	SearchPassword string

	AccessSecret  string
	RefreshSecret string
	ResetSecret   string
	ResetTokenTTL time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	KafkaBrokers []string
	KafkaTopic   string

	BaseURL      string
	PostsPerPage int
}

// Load 从环境变量读取配置，.env 由 main 里的 godotenv 先行加载
func Load() *Config {
	return &Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		MySQLDSN: getEnv("MYSQL_DSN", "user:password@tcp(127.0.0.1:3306)/microblog?charset=utf8mb4&parseTime=True"),

		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		SearchAddr:     os.Getenv("SEARCH_ADDR"),
		SearchPassword: os.Getenv("SEARCH_PASSWORD"),

		AccessSecret:  getEnv("ACCESS_SECRET", "secret-key"),
		RefreshSecret: getEnv("REFRESH_SECRET", "refresh-key"),
		ResetSecret:   getEnv("SECRET_KEY", "you-will-never-guess"),
		ResetTokenTTL: time.Duration(getEnvInt("RESET_TOKEN_TTL", 600)) * time.Second,

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnv("SMTP_FROM", "NoReply <no-reply@example.com>"),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "social-events"),

		BaseURL:      getEnv("BASE_URL", "http://localhost:8080"),
		PostsPerPage: getEnvInt("POSTS_PER_PAGE", 10),
	}
}

// SearchEnabled 未配置搜索地址时，镜像与查询全部降级为空操作
func (c *Config) SearchEnabled() bool {
	return c.SearchAddr != ""
}

func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
