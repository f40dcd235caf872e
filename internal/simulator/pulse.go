package simulator

import (
	"time"

	"github.com/osamahameedprojects/blood-pressure-simulator/internal/domain"
)

// PulseBeatInterval 脉搏提示音的循环间隔
const PulseBeatInterval = 800 * time.Millisecond

// PulsePlayer 外部脉搏提示协作方（音频循环播放器）
//
// Start begins the looping cue at the given beat interval; Stop halts it and
// rewinds to the beginning. Implementations must not block: calls happen
// synchronously from the pressure-change path.
type PulsePlayer interface {
	Start(beat time.Duration)
	Stop()
}

// PulseState 提示音状态
type PulseState int

const (
	PulseSilent PulseState = iota
	PulseSounding
)

// PulseSignal derives the audible-pulse state from pressure and the scenario's
// true range. Edge-triggered: exactly one Start per contiguous in-range
// interval, one Stop on exit. 区间内重复 tick 不会重启提示音。
//
// Not safe for concurrent use; the owning session serializes calls.
type PulseSignal struct {
	window domain.BPReading
	state  PulseState
	player PulsePlayer
}

// NewPulseSignal creates the signal in the Silent state.
// player may be nil (no cue collaborator attached).
func NewPulseSignal(window domain.BPReading, player PulsePlayer) *PulseSignal {
	return &PulseSignal{window: window, player: player}
}

// Observe recomputes the in-range predicate for the current pressure and fires
// the start/stop edge if the boundary was crossed.
func (p *PulseSignal) Observe(pressure int) {
	inRange := pressure >= p.window.Diastolic && pressure <= p.window.Systolic

	switch {
	case inRange && p.state == PulseSilent:
		p.state = PulseSounding
		if p.player != nil {
			p.player.Start(PulseBeatInterval)
		}
	case !inRange && p.state == PulseSounding:
		p.state = PulseSilent
		if p.player != nil {
			p.player.Stop()
		}
	}
}

// SetWindow replaces the true range (arrhythmic re-roll) and re-evaluates the
// edge against the current pressure.
func (p *PulseSignal) SetWindow(window domain.BPReading, pressure int) {
	p.window = window
	p.Observe(pressure)
}

// Window returns the active auscultation window.
func (p *PulseSignal) Window() domain.BPReading {
	return p.window
}

// State returns the current cue state.
func (p *PulseSignal) State() PulseState {
	return p.state
}

// Silence forces the cue off (session teardown). Safe to call when already silent.
func (p *PulseSignal) Silence() {
	if p.state == PulseSounding {
		p.state = PulseSilent
		if p.player != nil {
			p.player.Stop()
		}
	}
}
