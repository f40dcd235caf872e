package simulator

import (
	"sync"

	"github.com/osamahameedprojects/blood-pressure-simulator/internal/domain"
)

// Cuff pressure model constants (mmHg / per tick).
const (
	// MaxPressure 汞柱上限
	MaxPressure = 200

	// PumpStep 每次打气的增量
	PumpStep = 10

	// DeflateStep 每个放气 tick 的减量
	DeflateStep = 1
)

// PressureState 压力快照
type PressureState struct {
	CurrentPressure int  `json:"pressure"`
	IsDeflating     bool `json:"isDeflating"`
}

// PressureSimulator owns the live cuff pressure value.
//
// 纯状态机：Pump/TickDeflate/Stop 只改状态，不挂定时器。
// 放气节拍由 Session 的 ticker 驱动，便于确定性测试。
type PressureSimulator struct {
	mu        sync.Mutex
	pressure  int
	deflating bool
	pumping   bool // true from first pump until deflation reaches 0 or Stop
}

// NewPressureSimulator starts at 0, idle.
func NewPressureSimulator() *PressureSimulator {
	return &PressureSimulator{}
}

// Pump raises pressure by PumpStep (ceiling MaxPressure) and starts deflation
// on the first positive value. Pumping while already deflating just raises the
// column again; deflation continues from the new height.
func (s *PressureSimulator) Pump() PressureState {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.pressure + PumpStep
	if next > MaxPressure {
		next = MaxPressure
	}
	s.pressure = next
	s.pumping = true

	if !s.deflating && next > 0 {
		s.deflating = true
	}

	return PressureState{CurrentPressure: s.pressure, IsDeflating: s.deflating}
}

// TickDeflate applies one deflation step. No-op unless deflating.
// 压力降到 0 后回到 Idle；后续 tick 不再有影响。
func (s *PressureSimulator) TickDeflate() PressureState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.deflating {
		return PressureState{CurrentPressure: s.pressure, IsDeflating: false}
	}

	s.pressure -= DeflateStep
	if s.pressure <= 0 {
		s.pressure = 0
		s.deflating = false
		s.pumping = false
	}

	return PressureState{CurrentPressure: s.pressure, IsDeflating: s.deflating}
}

// Stop cancels deflation and pump state immediately (reading submitted or
// session aborted). The pressure value itself is left for the final snapshot.
func (s *PressureSimulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deflating = false
	s.pumping = false
}

// Pressure returns the current column height.
func (s *PressureSimulator) Pressure() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pressure
}

// IsDeflating reports whether a deflation run is active.
func (s *PressureSimulator) IsDeflating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deflating
}

// IsPumping reports whether the user is in an active pump cycle
// (first pump happened and the column has not yet drained).
func (s *PressureSimulator) IsPumping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pumping
}

// OverMax reports the over-pressure condition pushed to the device bridge.
func (s *PressureSimulator) OverMax() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pumping && s.pressure >= MaxPressure
}

// InRange reports whether the pressure sits inside the auscultation window.
func (s *PressureSimulator) InRange(window domain.BPReading) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pressure >= window.Diastolic && s.pressure <= window.Systolic
}

// Snapshot returns the current state.
func (s *PressureSimulator) Snapshot() PressureState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return PressureState{CurrentPressure: s.pressure, IsDeflating: s.deflating}
}
