package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/osamahameedprojects/blood-pressure-simulator/internal/domain"
)

// MemoryUsersRepo 内存账号仓储（DB 未就绪时的联测兜底）
type MemoryUsersRepo struct {
	mu    sync.RWMutex
	users map[string]domain.User // keyed by user id
}

func NewMemoryUsersRepo() *MemoryUsersRepo {
	return &MemoryUsersRepo{users: make(map[string]domain.User)}
}

func (r *MemoryUsersRepo) CreateUser(ctx context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *MemoryUsersRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUsersRepo) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := u
	return &copied, nil
}

func (r *MemoryUsersRepo) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.LastLogin = at
	r.users[userID] = u
	return nil
}

// MemoryProgressRepo 内存进度仓储
// 通过 JSON 往返做深拷贝，模拟真实存储的整体覆盖语义。
type MemoryProgressRepo struct {
	mu       sync.RWMutex
	progress map[string][]byte // keyed by user id
}

func NewMemoryProgressRepo() *MemoryProgressRepo {
	return &MemoryProgressRepo{progress: make(map[string][]byte)}
}

func (r *MemoryProgressRepo) SaveProgress(ctx context.Context, progress *domain.UserProgress) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress[progress.User.ID] = data
	return nil
}

func (r *MemoryProgressRepo) GetProgress(ctx context.Context, userID string) (*domain.UserProgress, error) {
	r.mu.RLock()
	data, ok := r.progress[userID]
	r.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	var progress domain.UserProgress
	if err := json.Unmarshal(data, &progress); err != nil {
		return nil, err
	}
	return &progress, nil
}
