package simulator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/osamahameedprojects/blood-pressure-simulator/internal/domain"
	"github.com/osamahameedprojects/blood-pressure-simulator/internal/scenario"
)

type recordingBridge struct {
	mu      sync.Mutex
	updates []int
	ends    int
}

func (b *recordingBridge) PushUpdate(pressure int, overMax bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updates = append(b.updates, pressure)
}

func (b *recordingBridge) PushEnd() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ends++
}

func (b *recordingBridge) snapshot() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.updates), b.ends
}

func fastConfig() SessionConfig {
	return SessionConfig{
		DeflateInterval: time.Millisecond,
		PushInterval:    time.Millisecond,
	}
}

func TestSession_DeflatesAfterPump(t *testing.T) {
	gen := scenario.NewGeneratorWithSeed(1)
	s := NewSession(domain.ScenarioHealthy, gen, nil, nil, fastConfig(), zap.NewNop())
	s.Start(context.Background())
	defer s.Stop()

	for i := 0; i < 5; i++ {
		s.Pump()
	}
	start := s.Pressure()
	require.Greater(t, start, 0)

	// 放气 tick 1ms 一次，20ms 内必然下降
	assert.Eventually(t, func() bool {
		return s.Pressure() < start
	}, time.Second, 5*time.Millisecond)
}

func TestSession_StopCancelsTimersAndNotifiesBridge(t *testing.T) {
	gen := scenario.NewGeneratorWithSeed(1)
	bridge := &recordingBridge{}
	s := NewSession(domain.ScenarioHealthy, gen, nil, bridge, fastConfig(), zap.NewNop())
	s.Start(context.Background())

	s.Pump()
	assert.Eventually(t, func() bool {
		n, _ := bridge.snapshot()
		return n > 0
	}, time.Second, 5*time.Millisecond)

	s.Stop()
	_, ends := bridge.snapshot()
	assert.Equal(t, 1, ends)

	// Stop 后压力不再变化（没有残留定时器）
	p := s.Pressure()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, p, s.Pressure())

	// 再次 Stop 幂等
	s.Stop()
	_, ends = bridge.snapshot()
	assert.Equal(t, 1, ends)
}

func TestSession_NoBridgePushBeforeFirstPump(t *testing.T) {
	gen := scenario.NewGeneratorWithSeed(1)
	bridge := &recordingBridge{}
	s := NewSession(domain.ScenarioHealthy, gen, nil, bridge, fastConfig(), zap.NewNop())
	s.Start(context.Background())

	time.Sleep(20 * time.Millisecond)
	n, _ := bridge.snapshot()
	assert.Equal(t, 0, n)

	s.Stop()
}

func TestSession_ArrhythmicRerollsTrueReadingPerPump(t *testing.T) {
	gen := scenario.NewGeneratorWithSeed(42)
	s := NewSession(domain.ScenarioArrhythmic, gen, nil, nil, fastConfig(), zap.NewNop())
	// 不 Start：只验证 Pump 的重抽逻辑

	seen := make(map[domain.BPReading]bool)
	for i := 0; i < 10; i++ {
		s.Pump()
		seen[s.TrueReading()] = true
	}
	assert.Greater(t, len(seen), 1, "arrhythmic true reading should vary across pumps")

	s.Stop()
}

func TestSession_HealthyTrueReadingStaysFixed(t *testing.T) {
	gen := scenario.NewGeneratorWithSeed(42)
	s := NewSession(domain.ScenarioHealthy, gen, nil, nil, fastConfig(), zap.NewNop())

	first := s.TrueReading()
	for i := 0; i < 10; i++ {
		s.Pump()
	}
	assert.Equal(t, first, s.TrueReading())

	s.Stop()
}

func TestSession_StopSilencesPulse(t *testing.T) {
	gen := scenario.NewGeneratorWithSeed(7)
	player := &countingPlayer{}
	s := NewSession(domain.ScenarioHealthy, gen, player, nil, fastConfig(), zap.NewNop())

	// 打到窗口上方再靠 tick 进窗太慢，直接打到窗口内边沿之上
	window := s.TrueReading()
	for s.Pressure() < window.Diastolic {
		s.Pump()
	}
	// Pump 路径上 SetWindow 会 Observe 当前压力
	if s.PulseState() == PulseSounding {
		s.Stop()
		assert.Equal(t, PulseSilent, s.PulseState())
		assert.Equal(t, player.stops, player.starts)
		return
	}
	s.Stop()
	assert.Equal(t, PulseSilent, s.PulseState())
}
