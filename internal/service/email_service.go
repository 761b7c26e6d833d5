package service

import (
	"fmt"
	"time"

	"Micro_Blog/internal/pkg"

	"github.com/sirupsen/logrus"
)

// EmailService 只负责一类邮件：带重置 token 的找回密码链接
type EmailService struct {
	cfg     pkg.SMTPConfig
	baseURL string
	ttl     time.Duration
}

func NewEmailService(cfg pkg.SMTPConfig, baseURL string, ttl time.Duration) *EmailService {
	return &EmailService{cfg: cfg, baseURL: baseURL, ttl: ttl}
}

func (s *EmailService) Enabled() bool {
	return s.cfg.Host != ""
}

// SendResetEmail 未配置 SMTP 时把链接打进日志，方便本地联调
func (s *EmailService) SendResetEmail(to, token string) error {
	link := fmt.Sprintf("%s/reset_password/%s", s.baseURL, token)
	if !s.Enabled() {
		logrus.WithField("to", to).Infof("smtp not configured, reset link: %s", link)
		return nil
	}
	return pkg.SendEmail(s.cfg, to, "密码重置", pkg.ResetLinkHTML(link, s.ttl))
}
