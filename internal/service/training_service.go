package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	rediscommon "github.com/osamahameedprojects/blood-pressure-simulator/common/redis"
	"github.com/osamahameedprojects/blood-pressure-simulator/internal/domain"
	"github.com/osamahameedprojects/blood-pressure-simulator/internal/progress"
	"github.com/osamahameedprojects/blood-pressure-simulator/internal/scenario"
	"github.com/osamahameedprojects/blood-pressure-simulator/internal/simulator"
	"github.com/osamahameedprojects/blood-pressure-simulator/internal/store"
)

// Training-flow errors surfaced to the API layer.
var (
	ErrUnknownScenario = errors.New("unknown scenario")
	ErrScenarioLocked  = errors.New("scenario is locked")
	ErrNoActiveSession = errors.New("no active training session")
)

// SessionState 会话状态快照（仪表盘轮询用）
type SessionState struct {
	ScenarioKey  domain.ScenarioKey `json:"scenarioKey"`
	Pressure     int                `json:"pressure"`
	IsDeflating  bool               `json:"isDeflating"`
	PulseAudible bool               `json:"pulseAudible"`
}

// attemptEvent 发布到 Redis Stream 的测量事件
type attemptEvent struct {
	UserID      string             `json:"userId"`
	ScenarioKey domain.ScenarioKey `json:"scenarioKey"`
	Accuracy    int                `json:"accuracy"`
	IsCorrect   bool               `json:"isCorrect"`
	NewBadges   int                `json:"newBadges"`
}

// TrainingService 训练会话编排。
//
// 同一时刻最多一个活动会话；开启新会话会先终止旧会话。
// 会话独占压力模拟器，结束时定时器与脉搏提示一并取消。
type TrainingService struct {
	cfg    simulator.SessionConfig
	gen    *scenario.Generator
	ledger *progress.Ledger

	sessions *store.SessionStore
	player   simulator.PulsePlayer
	bridge   simulator.BridgeNotifier

	redisClient   *redis.Client
	attemptStream string

	logger *zap.Logger

	mu     sync.Mutex
	active *simulator.Session
}

func NewTrainingService(
	cfg simulator.SessionConfig,
	gen *scenario.Generator,
	ledger *progress.Ledger,
	sessions *store.SessionStore,
	player simulator.PulsePlayer,
	bridge simulator.BridgeNotifier,
	redisClient *redis.Client,
	attemptStream string,
	logger *zap.Logger,
) *TrainingService {
	return &TrainingService{
		cfg:           cfg,
		gen:           gen,
		ledger:        ledger,
		sessions:      sessions,
		player:        player,
		bridge:        bridge,
		redisClient:   redisClient,
		attemptStream: attemptStream,
		logger:        logger,
	}
}

// StartSession begins a training session for the scenario. The scenario must
// exist and be unlocked for the active user. Any previous session is aborted.
func (s *TrainingService) StartSession(ctx context.Context, key domain.ScenarioKey) error {
	p, err := s.ledger.Current()
	if err != nil {
		return err
	}

	sp := p.Scenario(key)
	if sp == nil {
		return ErrUnknownScenario
	}
	if !sp.Unlocked {
		return ErrScenarioLocked
	}

	s.mu.Lock()
	old := s.active
	s.active = nil
	s.mu.Unlock()
	if old != nil {
		old.Stop()
	}

	// 会话生命周期独立于发起请求，不随请求 ctx 取消
	session := simulator.NewSession(key, s.gen, s.player, s.bridge, s.cfg, s.logger)
	session.Start(context.Background())

	s.mu.Lock()
	s.active = session
	s.mu.Unlock()

	return nil
}

// Pump applies one inflate step to the active session and refreshes the
// cached pressure snapshot. Also the entry point for bridge button events.
func (s *TrainingService) Pump(ctx context.Context) (*simulator.PressureState, error) {
	session, err := s.activeSession()
	if err != nil {
		return nil, err
	}

	state := session.Pump()
	s.savePressureSnapshot(ctx, state)

	return &state, nil
}

// PumpFromBridge 设备桥按钮事件入口：无活动会话时静默忽略
func (s *TrainingService) PumpFromBridge() {
	if _, err := s.Pump(context.Background()); err != nil {
		s.logger.Debug("Bridge pump ignored", zap.Error(err))
	}
}

// State returns the live session snapshot.
func (s *TrainingService) State(ctx context.Context) (*SessionState, error) {
	session, err := s.activeSession()
	if err != nil {
		return nil, err
	}

	snap := session.Snapshot()
	return &SessionState{
		ScenarioKey:  session.ScenarioKey(),
		Pressure:     snap.CurrentPressure,
		IsDeflating:  snap.IsDeflating,
		PulseAudible: session.PulseState() == simulator.PulseSounding,
	}, nil
}

// SubmitReading stops the session, scores the entered reading against the
// session's held true value and updates the progress ledger.
func (s *TrainingService) SubmitReading(ctx context.Context, entered domain.BPReading) (*progress.AttemptResult, error) {
	s.mu.Lock()
	session := s.active
	s.active = nil
	s.mu.Unlock()

	if session == nil {
		return nil, ErrNoActiveSession
	}

	trueReading := session.TrueReading()
	key := session.ScenarioKey()
	session.Stop()

	result, err := s.ledger.RecordAttempt(ctx, key, trueReading, entered)
	if err != nil {
		return nil, fmt.Errorf("failed to record attempt: %w", err)
	}

	s.publishAttempt(ctx, key, result)
	s.clearPressureSnapshot(ctx)

	return result, nil
}

// AbortSession tears the session down without scoring.
func (s *TrainingService) AbortSession(ctx context.Context) error {
	s.mu.Lock()
	session := s.active
	s.active = nil
	s.mu.Unlock()

	if session == nil {
		return ErrNoActiveSession
	}

	session.Stop()
	s.clearPressureSnapshot(ctx)
	return nil
}

// Shutdown stops any live session (service teardown path).
func (s *TrainingService) Shutdown() {
	s.mu.Lock()
	session := s.active
	s.active = nil
	s.mu.Unlock()

	if session != nil {
		session.Stop()
	}
}

func (s *TrainingService) activeSession() (*simulator.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil, ErrNoActiveSession
	}
	return s.active, nil
}

// savePressureSnapshot 缓存写失败只记日志，不影响会话
func (s *TrainingService) savePressureSnapshot(ctx context.Context, state simulator.PressureState) {
	p, err := s.ledger.Current()
	if err != nil {
		return
	}
	snap := store.PressureSnapshot{
		Pressure:    state.CurrentPressure,
		IsDeflating: state.IsDeflating,
		UpdatedAt:   time.Now(),
	}
	if err := s.sessions.SavePressure(ctx, p.User.ID, snap); err != nil {
		s.logger.Warn("Failed to cache pressure snapshot", zap.Error(err))
	}
}

func (s *TrainingService) clearPressureSnapshot(ctx context.Context) {
	p, err := s.ledger.Current()
	if err != nil {
		return
	}
	if err := s.sessions.ClearPressure(ctx, p.User.ID); err != nil && !errors.Is(err, store.ErrCacheMiss) {
		s.logger.Warn("Failed to clear pressure snapshot", zap.Error(err))
	}
}

// publishAttempt 测量事件进 Redis Stream 供下游统计消费，尽力而为
func (s *TrainingService) publishAttempt(ctx context.Context, key domain.ScenarioKey, result *progress.AttemptResult) {
	if s.redisClient == nil || s.attemptStream == "" {
		return
	}

	p, err := s.ledger.Current()
	if err != nil {
		return
	}

	event := attemptEvent{
		UserID:      p.User.ID,
		ScenarioKey: key,
		Accuracy:    result.Accuracy,
		IsCorrect:   result.IsCorrect,
		NewBadges:   len(result.NewBadges),
	}
	if _, err := rediscommon.PublishJSONToStream(ctx, s.redisClient, s.attemptStream, event); err != nil {
		s.logger.Warn("Failed to publish attempt event", zap.Error(err))
	}
}
