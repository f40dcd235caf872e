package repository

import (
	"context"
	"errors"
	"time"

	"github.com/osamahameedprojects/blood-pressure-simulator/internal/domain"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("not found")

// UsersRepo 账号表访问
type UsersRepo interface {
	CreateUser(ctx context.Context, user domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
}

// ProgressRepo 进度存储：user id → 完整 UserProgress，整体覆盖写
type ProgressRepo interface {
	SaveProgress(ctx context.Context, progress *domain.UserProgress) error
	GetProgress(ctx context.Context, userID string) (*domain.UserProgress, error)
}
