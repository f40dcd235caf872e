package progress

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/osamahameedprojects/blood-pressure-simulator/internal/domain"
	"github.com/osamahameedprojects/blood-pressure-simulator/internal/repository"
	"github.com/osamahameedprojects/blood-pressure-simulator/internal/scoring"
)

// ErrNoActiveUser 未登录时调用需要活动用户的操作
var ErrNoActiveUser = errors.New("no active user loaded")

// AttemptResult recordAttempt 的返回值
type AttemptResult struct {
	Score     scoring.Score  `json:"score"`
	Accuracy  int            `json:"accuracy"`
	IsCorrect bool           `json:"isCorrect"`
	NewBadges []domain.Badge `json:"newBadges"`
}

// Ledger 进度账本：持有当前活动用户的 UserProgress 聚合，
// 每次提交读数时按固定顺序更新并整体持久化。
//
// 所有更新在同一把锁内完成，对外表现为原子快照变更。
type Ledger struct {
	repo   repository.ProgressRepo
	logger *zap.Logger

	mu      sync.Mutex
	current *domain.UserProgress

	now   func() time.Time
	newID func() string
}

func NewLedger(repo repository.ProgressRepo, logger *zap.Logger) *Ledger {
	return &Ledger{
		repo:   repo,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return "attempt_" + uuid.New().String() },
	}
}

// LoadUser 将用户进度装入账本（登录/注册后调用）
func (l *Ledger) LoadUser(progress *domain.UserProgress) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = progress
}

// Unload 清除活动用户（登出）。进度数据本身不动。
func (l *Ledger) Unload() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = nil
}

// Current 返回当前活动用户的进度快照指针；未登录返回 ErrNoActiveUser
func (l *Ledger) Current() (*domain.UserProgress, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return nil, ErrNoActiveUser
	}
	return l.current, nil
}

// RecordAttempt 记录一次提交的读数并更新全部派生统计。
//
// 每次提交恰好调用一次；两次调用会产生两条记录（无幂等保证）。
// 更新顺序：评分 → 追加记录 → 全局计数/连击 → 总体精度 → 经验/等级 →
// 场景统计与完成 → 解锁门槛 → 勋章评估 → 持久化。
func (l *Ledger) RecordAttempt(ctx context.Context, scenarioKey domain.ScenarioKey, trueReading, entered domain.BPReading) (*AttemptResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return nil, ErrNoActiveUser
	}
	p := l.current
	now := l.now()

	// 1. 评分
	score := scoring.Evaluate(trueReading, entered)

	// 2. 追加测量记录（append-only）
	record := domain.AttemptRecord{
		ID:             l.newID(),
		ScenarioKey:    scenarioKey,
		Timestamp:      now,
		TrueSystolic:   trueReading.Systolic,
		TrueDiastolic:  trueReading.Diastolic,
		UserSystolic:   entered.Systolic,
		UserDiastolic:  entered.Diastolic,
		SystolicError:  score.SystolicError,
		DiastolicError: score.DiastolicError,
		AverageError:   score.AverageError,
		Accuracy:       score.Accuracy,
		IsCorrect:      score.IsCorrect,
	}
	p.Attempts = append(p.Attempts, record)

	// 3. 全局计数与连击
	p.TotalAttempts++
	if score.IsCorrect {
		p.TotalCorrect++
		p.CurrentStreak++
		if p.CurrentStreak > p.BestStreak {
			p.BestStreak = p.CurrentStreak
		}
	} else {
		p.CurrentStreak = 0
	}

	// 4. 总体精度：每次从计数重算，不做增量累加
	p.OverallAccuracy = int(math.Round(100 * float64(p.TotalCorrect) / float64(p.TotalAttempts)))

	// 5. 经验与等级
	if score.IsCorrect {
		p.Experience += 50
	} else {
		p.Experience += 10
	}
	p.Level = p.Experience / 100

	// 6. 场景统计与完成判定
	if sp := p.Scenario(scenarioKey); sp != nil {
		sp.Attempts++
		if score.IsCorrect {
			sp.CorrectAttempts++
		}
		sp.AverageAccuracy = scenarioAverageAccuracy(p.Attempts, scenarioKey)
		if score.Accuracy > sp.BestAccuracy {
			sp.BestAccuracy = score.Accuracy
		}
		if sp.CorrectAttempts >= 5 && !sp.Completed {
			sp.Completed = true
			completedAt := now
			sp.CompletedAt = &completedAt
		}
	}

	// 7. 解锁门槛（单调，只解锁不回锁）
	for i := range p.Scenarios {
		sp := &p.Scenarios[i]
		if sp.Unlocked {
			continue
		}
		req, ok := domain.ScenarioUnlockRequirements[sp.ScenarioKey]
		if ok && p.TotalCorrect >= req.RequiredCorrect {
			sp.Unlocked = true
		}
	}

	// 8. 勋章评估（针对更新后的聚合）
	newBadges := evaluateBadges(p, now)

	// 9. 整体持久化。存储故障不回滚内存状态，记日志后继续。
	if err := l.repo.SaveProgress(ctx, p); err != nil {
		l.logger.Error("Failed to persist progress",
			zap.String("user_id", p.User.ID),
			zap.Error(err))
	}

	return &AttemptResult{
		Score:     score,
		Accuracy:  score.Accuracy,
		IsCorrect: score.IsCorrect,
		NewBadges: newBadges,
	}, nil
}

// Save 将当前聚合整体写入存储（用于非测量路径的变更，如登录时间戳刷新后）
func (l *Ledger) Save(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return ErrNoActiveUser
	}
	if err := l.repo.SaveProgress(ctx, l.current); err != nil {
		return fmt.Errorf("failed to persist progress: %w", err)
	}
	return nil
}

// scenarioAverageAccuracy 从完整测量日志重算场景平均精度，避免浮点累积漂移
func scenarioAverageAccuracy(attempts []domain.AttemptRecord, key domain.ScenarioKey) int {
	sum := 0
	count := 0
	for _, a := range attempts {
		if a.ScenarioKey != key {
			continue
		}
		sum += a.Accuracy
		count++
	}
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(count)))
}
