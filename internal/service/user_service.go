package service

import (
	"errors"
	"strings"
	"time"

	"Micro_Blog/internal/model"
	"Micro_Blog/internal/pkg"
	"Micro_Blog/internal/repository/mysql"
	"Micro_Blog/internal/repository/redis"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials 用户名错还是密码错不区分，统一一句话
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
)

type UserService struct {
	repo     *mysql.UserRepository
	sessions *redis.SessionRepository
	mailer   *EmailService
	resetTTL time.Duration
}

func NewUserService(repo *mysql.UserRepository, sessions *redis.SessionRepository, mailer *EmailService, resetTTL time.Duration) *UserService {
	return &UserService{repo: repo, sessions: sessions, mailer: mailer, resetTTL: resetTTL}
}

// Register 用户名和邮箱写库前统一转小写
func (s *UserService) Register(username, email, password string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || password == "" {
		return errors.New("username, email and password required")
	}

	if _, err := s.repo.FindByUsername(username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if _, err := s.repo.FindByEmail(email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	user := &model.User{
		Username: username,
		Email:    email,
		LastSeen: time.Now(),
	}
	if err := user.SetPassword(password); err != nil {
		return err
	}
	return s.repo.Create(user)
}

func (s *UserService) Login(login, password string) (*pkg.Pair, error) {
	user, err := s.repo.FindByLogin(strings.ToLower(strings.TrimSpace(login)))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	token, err := pkg.GeneratePair(user.ID)
	if err != nil {
		return nil, err
	}
	// 登录 token 写入 redis，旧会话自然顶掉
	if err = s.sessions.AddUserToken(user.ID, token.AccessToken); err != nil {
		return nil, err
	}
	return token, nil
}

func (s *UserService) Logout(usrID uint64) error {
	return s.sessions.DeleteUserToken(usrID)
}

func (s *UserService) Refresh(refreshToken string) (*pkg.Pair, error) {
	return pkg.Refresh(refreshToken)
}

func (s *UserService) GetByID(id uint64) (*model.User, error) {
	user, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *UserService) GetByUsername(username string) (*model.User, error) {
	user, err := s.repo.FindByUsername(strings.ToLower(username))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// EditProfile 改用户名和简介，用户名同样大小写归一
func (s *UserService) EditProfile(usrID uint64, username, aboutMe string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return errors.New("username required")
	}
	if other, err := s.repo.FindByUsername(username); err == nil && other.ID != usrID {
		return ErrUsernameTaken
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.repo.UpdateProfile(usrID, username, aboutMe)
}

// ChangePassword 登录态修改密码，改完踢掉当前会话
func (s *UserService) ChangePassword(usrID uint64, oldPassword, newPassword string) error {
	user, err := s.repo.FindByID(usrID)
	if err != nil {
		return err
	}
	if !user.CheckPassword(oldPassword) {
		return errors.New("old password is incorrect")
	}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(user, user.PasswordHash); err != nil {
		return err
	}
	return s.Logout(usrID)
}

// RequestPasswordReset 发重置链接。邮箱不存在也不报错，不暴露注册情况。
func (s *UserService) RequestPasswordReset(email string) error {
	user, err := s.repo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithError(err).Warn("reset request lookup failed")
		}
		return nil
	}
	token, err := pkg.GenerateResetToken(user.ID, s.resetTTL)
	if err != nil {
		return err
	}
	return s.mailer.SendResetEmail(user.Email, token)
}

// ResetPassword token 签名错、格式错、过期，一律同一个错误
func (s *UserService) ResetPassword(token, newPassword string) error {
	usrID, err := pkg.ParseResetToken(token)
	if err != nil {
		return err
	}
	if newPassword == "" {
		return errors.New("new password required")
	}
	user, err := s.repo.FindByID(usrID)
	if err != nil {
		return pkg.ErrResetInvalid
	}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	return s.repo.UpdatePassword(user, user.PasswordHash)
}

// TouchLastSeen 10 秒内多次请求只落一次库
func (s *UserService) TouchLastSeen(usrID uint64) {
	if err := s.repo.TouchLastSeen(usrID, time.Now(), 10*time.Second); err != nil {
		logrus.WithError(err).Warn("touch last seen failed")
	}
}
