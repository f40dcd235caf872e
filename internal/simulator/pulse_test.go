package simulator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/osamahameedprojects/blood-pressure-simulator/internal/domain"
)

type countingPlayer struct {
	starts int
	stops  int
}

func (p *countingPlayer) Start(beat time.Duration) { p.starts++ }
func (p *countingPlayer) Stop()                    { p.stops++ }

func TestPulseSignal_EdgeTriggeredExactlyOnce(t *testing.T) {
	player := &countingPlayer{}
	pulse := NewPulseSignal(domain.BPReading{Systolic: 120, Diastolic: 80}, player)

	// 窗口外：无触发
	pulse.Observe(150)
	assert.Equal(t, 0, player.starts)
	assert.Equal(t, PulseSilent, pulse.State())

	// 进入窗口：一次 start
	pulse.Observe(120)
	assert.Equal(t, 1, player.starts)
	assert.Equal(t, PulseSounding, pulse.State())

	// 窗口内重复 tick：不重启
	for p := 119; p >= 80; p-- {
		pulse.Observe(p)
	}
	assert.Equal(t, 1, player.starts)
	assert.Equal(t, 0, player.stops)

	// 跌出窗口：一次 stop
	pulse.Observe(79)
	assert.Equal(t, 1, player.stops)
	assert.Equal(t, PulseSilent, pulse.State())
}

func TestPulseSignal_MultipleIntervals(t *testing.T) {
	player := &countingPlayer{}
	pulse := NewPulseSignal(domain.BPReading{Systolic: 120, Diastolic: 80}, player)

	// 两段独立的窗口内区间：各一次 start/stop
	pulse.Observe(100)
	pulse.Observe(70)
	pulse.Observe(90)
	pulse.Observe(60)

	assert.Equal(t, 2, player.starts)
	assert.Equal(t, 2, player.stops)
}

func TestPulseSignal_SetWindowReEvaluates(t *testing.T) {
	player := &countingPlayer{}
	pulse := NewPulseSignal(domain.BPReading{Systolic: 120, Diastolic: 80}, player)

	pulse.Observe(100)
	assert.Equal(t, PulseSounding, pulse.State())

	// 窗口重抽后当前压力不再在窗口内：触发 stop
	pulse.SetWindow(domain.BPReading{Systolic: 90, Diastolic: 60}, 100)
	assert.Equal(t, PulseSilent, pulse.State())
	assert.Equal(t, 1, player.stops)
}

func TestPulseSignal_SilenceIdempotent(t *testing.T) {
	player := &countingPlayer{}
	pulse := NewPulseSignal(domain.BPReading{Systolic: 120, Diastolic: 80}, player)

	pulse.Observe(100)
	pulse.Silence()
	pulse.Silence()

	assert.Equal(t, 1, player.stops)
	assert.Equal(t, PulseSilent, pulse.State())
}

func TestPulseSignal_NilPlayer(t *testing.T) {
	pulse := NewPulseSignal(domain.BPReading{Systolic: 120, Diastolic: 80}, nil)

	pulse.Observe(100)
	assert.Equal(t, PulseSounding, pulse.State())
	pulse.Observe(70)
	assert.Equal(t, PulseSilent, pulse.State())
}
