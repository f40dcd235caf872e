package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/osamahameedprojects/blood-pressure-simulator/internal/domain"

	"go.uber.org/zap"
)

// PostgresProgressRepo user_progress 表仓储
//
// 进度按 user id 整体以 JSONB 存储，写入为覆盖语义（ON CONFLICT DO UPDATE），
// 与前端 localStorage 的数据形状保持一致，无需 schema 迁移即可演进。
type PostgresProgressRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresProgressRepo(db *sql.DB, logger *zap.Logger) *PostgresProgressRepo {
	return &PostgresProgressRepo{db: db, logger: logger}
}

// SaveProgress writes the full aggregate, replacing any previous snapshot.
func (r *PostgresProgressRepo) SaveProgress(ctx context.Context, progress *domain.UserProgress) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}

	query := `
		INSERT INTO user_progress (user_id, progress, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET progress = EXCLUDED.progress,
		              updated_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, progress.User.ID, data); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}

	return nil
}

// GetProgress loads the full aggregate for the user.
func (r *PostgresProgressRepo) GetProgress(ctx context.Context, userID string) (*domain.UserProgress, error) {
	query := `
		SELECT progress
		FROM user_progress
		WHERE user_id = $1
	`

	var data []byte
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query progress: %w", err)
	}

	var progress domain.UserProgress
	if err := json.Unmarshal(data, &progress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal progress: %w", err)
	}

	return &progress, nil
}
