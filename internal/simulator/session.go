package simulator

import (
	"context"
	"sync"
	"time"

	"github.com/osamahameedprojects/blood-pressure-simulator/internal/domain"
	"github.com/osamahameedprojects/blood-pressure-simulator/internal/scenario"

	"go.uber.org/zap"
)

// Session timer defaults.
const (
	// DefaultDeflateInterval 放气 tick 周期
	DefaultDeflateInterval = 100 * time.Millisecond

	// DefaultPushInterval 设备桥推送周期
	DefaultPushInterval = 100 * time.Millisecond
)

// BridgeNotifier 设备桥协作方（尽力而为，可为 nil）
//
// PushUpdate delivers the live pressure and over-max flag at the push cadence;
// PushEnd signals session teardown. Failures are the bridge's problem, not the
// session's.
type BridgeNotifier interface {
	PushUpdate(pressure int, overMax bool)
	PushEnd()
}

// SessionConfig 会话定时参数（测试时可缩短）
type SessionConfig struct {
	DeflateInterval time.Duration
	PushInterval    time.Duration
}

// DefaultSessionConfig returns the production tick cadences.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		DeflateInterval: DefaultDeflateInterval,
		PushInterval:    DefaultPushInterval,
	}
}

// Session 一次训练会话：独占一个压力模拟器和脉搏信号，
// 并且是两个周期活动（放气 tick、桥推送）的唯一所有者。
// Stop 将两者作为一个整体取消，保证会话结束后没有残留定时器继续改状态。
type Session struct {
	cfg    SessionConfig
	logger *zap.Logger

	sim    *PressureSimulator
	gen    *scenario.Generator
	bridge BridgeNotifier

	mu          sync.Mutex
	scenarioKey domain.ScenarioKey
	trueReading domain.BPReading
	pulse       *PulseSignal

	cancel  context.CancelFunc
	done    chan struct{}
	started bool
	stopped bool
}

// NewSession draws the scenario's true reading and prepares the simulator.
// player and bridge may be nil; absence degrades silently.
func NewSession(
	key domain.ScenarioKey,
	gen *scenario.Generator,
	player PulsePlayer,
	bridge BridgeNotifier,
	cfg SessionConfig,
	logger *zap.Logger,
) *Session {
	trueReading := gen.Generate(key)

	return &Session{
		cfg:         cfg,
		logger:      logger,
		sim:         NewPressureSimulator(),
		gen:         gen,
		bridge:      bridge,
		scenarioKey: key,
		trueReading: trueReading,
		pulse:       NewPulseSignal(trueReading, player),
		done:        make(chan struct{}),
	}
}

// Start launches the session loop. Idempotent per session: a second call is a no-op.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || s.stopped {
		return
	}
	s.started = true

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	go s.run(runCtx)

	s.logger.Info("training session started",
		zap.String("scenario", string(s.scenarioKey)),
		zap.Int("true_systolic", s.trueReading.Systolic),
		zap.Int("true_diastolic", s.trueReading.Diastolic),
	)

	// 生成结果与场景指南做一次校验，异常只告警不阻断
	if v := scenario.ValidateForScenario(s.scenarioKey, s.trueReading); !v.IsValid || len(v.Warnings) > 0 {
		s.logger.Warn("generated reading flagged by scenario guidelines",
			zap.String("scenario", string(s.scenarioKey)),
			zap.String("category", v.ActualCategory),
			zap.Strings("warnings", v.Warnings),
		)
	}
}

// run 会话主循环：单 goroutine 驱动两个独立 ticker
func (s *Session) run(ctx context.Context) {
	defer close(s.done)

	deflate := time.NewTicker(s.cfg.DeflateInterval)
	defer deflate.Stop()

	push := time.NewTicker(s.cfg.PushInterval)
	defer push.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-deflate.C:
			s.tickDeflate()
		case <-push.C:
			s.pushBridge()
		}
	}
}

// Pump applies one inflate step. Called by the UI collaborator or by the
// device bridge when a button_pressed event arrives.
//
// 对 arrhythmic 场景每次 pump 重抽真值，模拟逐搏变异。
func (s *Session) Pump() PressureState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return s.sim.Snapshot()
	}

	if s.scenarioKey == domain.ScenarioArrhythmic {
		s.trueReading = s.gen.Generate(s.scenarioKey)
	}

	state := s.sim.Pump()
	s.pulse.SetWindow(s.trueReading, state.CurrentPressure)

	return state
}

func (s *Session) tickDeflate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	state := s.sim.TickDeflate()
	s.pulse.Observe(state.CurrentPressure)
}

// pushBridge 仅在打气周期内推送（与原始设备协议一致：首次 pump 后开始，
// 汞柱放空后停止）
func (s *Session) pushBridge() {
	if s.bridge == nil {
		return
	}
	if !s.sim.IsPumping() {
		return
	}
	s.bridge.PushUpdate(s.sim.Pressure(), s.sim.OverMax())
}

// Stop cancels the deflate and push timers as one unit, silences the pulse cue
// and notifies the bridge. Safe to call more than once.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	cancel := s.cancel
	started := s.started
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if started {
		<-s.done
	}

	s.mu.Lock()
	s.sim.Stop()
	s.pulse.Silence()
	s.mu.Unlock()

	if s.bridge != nil {
		s.bridge.PushEnd()
	}

	s.logger.Info("training session stopped",
		zap.String("scenario", string(s.scenarioKey)),
	)
}

// TrueReading returns the held true value used for scoring at submit time.
func (s *Session) TrueReading() domain.BPReading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trueReading
}

// ScenarioKey returns the session's scenario.
func (s *Session) ScenarioKey() domain.ScenarioKey {
	return s.scenarioKey
}

// Pressure returns the live column height.
func (s *Session) Pressure() int {
	return s.sim.Pressure()
}

// Snapshot returns the live pressure state.
func (s *Session) Snapshot() PressureState {
	return s.sim.Snapshot()
}

// PulseState returns the current cue state.
func (s *Session) PulseState() PulseState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pulse.State()
}
