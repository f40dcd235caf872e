package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache keys.
const (
	// currentUserKey 活动会话指针（当前登录用户 id），独立于进度存储
	currentUserKey = "bp-simulator:current_user"

	// pressureKeyPrefix 实时压力快照缓存键前缀
	pressureKeyPrefix = "bp-simulator:session:"
	pressureKeySuffix = ":pressure"

	// pressureTTL 实时快照过期时间（会话结束后自动清理的兜底）
	pressureTTL = 30 * time.Second
)

// SessionStore 会话级 KV：活动用户指针 + 实时压力快照
type SessionStore struct {
	kv KVStore
}

func NewSessionStore(kv KVStore) *SessionStore {
	return &SessionStore{kv: kv}
}

// SetCurrentUser 记录活动会话指针
func (s *SessionStore) SetCurrentUser(ctx context.Context, userID string) error {
	if err := s.kv.Set(ctx, currentUserKey, userID, 0); err != nil {
		return fmt.Errorf("failed to set current user: %w", err)
	}
	return nil
}

// CurrentUser 读取活动会话指针；未登录时返回 ErrCacheMiss
func (s *SessionStore) CurrentUser(ctx context.Context) (string, error) {
	return s.kv.Get(ctx, currentUserKey)
}

// ClearCurrentUser 登出：仅清除指针，不动进度数据
func (s *SessionStore) ClearCurrentUser(ctx context.Context) error {
	if err := s.kv.Delete(ctx, currentUserKey); err != nil {
		return fmt.Errorf("failed to clear current user: %w", err)
	}
	return nil
}

// PressureSnapshot 实时压力快照（供仪表盘读取）
type PressureSnapshot struct {
	Pressure    int       `json:"pressure"`
	IsDeflating bool      `json:"isDeflating"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func pressureKey(userID string) string {
	return pressureKeyPrefix + userID + pressureKeySuffix
}

// SavePressure 写入实时压力快照（带 TTL）
func (s *SessionStore) SavePressure(ctx context.Context, userID string, snap PressureSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal pressure snapshot: %w", err)
	}
	if err := s.kv.Set(ctx, pressureKey(userID), string(data), pressureTTL); err != nil {
		return fmt.Errorf("failed to save pressure snapshot: %w", err)
	}
	return nil
}

// GetPressure 读取实时压力快照
func (s *SessionStore) GetPressure(ctx context.Context, userID string) (*PressureSnapshot, error) {
	raw, err := s.kv.Get(ctx, pressureKey(userID))
	if err != nil {
		return nil, err
	}
	var snap PressureSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pressure snapshot: %w", err)
	}
	return &snap, nil
}

// ClearPressure 会话结束时清除快照
func (s *SessionStore) ClearPressure(ctx context.Context, userID string) error {
	return s.kv.Delete(ctx, pressureKey(userID))
}
