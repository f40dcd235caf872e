package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/osamahameedprojects/blood-pressure-simulator/internal/domain"
	"github.com/osamahameedprojects/blood-pressure-simulator/internal/progress"
	"github.com/osamahameedprojects/blood-pressure-simulator/internal/repository"
	"github.com/osamahameedprojects/blood-pressure-simulator/internal/store"
)

// AuthService 账号与会话管理。
//
// 认证失败（邮箱重复、邮箱未知、密码不符）一律以 false 返回，
// 不作为 error 对待；error 只表示存储层故障。
type AuthService struct {
	users    repository.UsersRepo
	progress repository.ProgressRepo
	ledger   *progress.Ledger
	sessions *store.SessionStore
	logger   *zap.Logger

	now   func() time.Time
	newID func(email string) string
}

func NewAuthService(
	users repository.UsersRepo,
	progressRepo repository.ProgressRepo,
	ledger *progress.Ledger,
	sessions *store.SessionStore,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		progress: progressRepo,
		ledger:   ledger,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
		newID:    makeUserID,
	}
}

// makeUserID 由邮箱生成可读的用户 id，带短随机后缀保证唯一
func makeUserID(email string) string {
	sanitized := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, strings.ToLower(email))

	return sanitized + "_" + uuid.New().String()[:8]
}

// Signup registers a new account and logs it in. Returns false if the
// lowercased email is already taken; the existing account is untouched.
func (s *AuthService) Signup(ctx context.Context, email, name, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, fmt.Errorf("failed to check existing email: %w", err)
	}

	now := s.now()
	user := domain.User{
		ID:        s.newID(email),
		Email:     email,
		Name:      name,
		Password:  password,
		CreatedAt: now,
		LastLogin: now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return false, fmt.Errorf("failed to create user: %w", err)
	}

	// 新用户默认进度：仅 healthy 解锁
	userProgress := domain.NewUserProgress(user)
	if err := s.progress.SaveProgress(ctx, userProgress); err != nil {
		return false, fmt.Errorf("failed to save initial progress: %w", err)
	}

	s.ledger.LoadUser(userProgress)
	if err := s.sessions.SetCurrentUser(ctx, user.ID); err != nil {
		s.logger.Warn("Failed to set active session pointer", zap.Error(err))
	}

	s.logger.Info("User signed up",
		zap.String("user_id", user.ID),
		zap.String("email", email))

	return true, nil
}

// Login authenticates and loads the persisted progress into the ledger.
// Returns false for unknown email or password mismatch.
func (s *AuthService) Login(ctx context.Context, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up user: %w", err)
	}

	// 明文比较，与既有数据形状一致（已知弱点）
	if user.Password != password {
		return false, nil
	}

	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("Failed to update last login",
			zap.String("user_id", user.ID),
			zap.Error(err))
	}

	userProgress, err := s.progress.GetProgress(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return false, fmt.Errorf("failed to load progress: %w", err)
		}
		// 账号存在但进度缺失：按新用户进度兜底
		userProgress = domain.NewUserProgress(*user)
	}
	userProgress.User.LastLogin = now

	s.ledger.LoadUser(userProgress)
	if err := s.sessions.SetCurrentUser(ctx, user.ID); err != nil {
		s.logger.Warn("Failed to set active session pointer", zap.Error(err))
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID))

	return true, nil
}

// Logout clears the active session marker only; progress data is untouched.
func (s *AuthService) Logout(ctx context.Context) error {
	s.ledger.Unload()
	if err := s.sessions.ClearCurrentUser(ctx); err != nil && !errors.Is(err, store.ErrCacheMiss) {
		return fmt.Errorf("failed to clear active session: %w", err)
	}
	s.logger.Info("User logged out")
	return nil
}

// CurrentProgress returns the active user's progress aggregate.
func (s *AuthService) CurrentProgress() (*domain.UserProgress, error) {
	return s.ledger.Current()
}
