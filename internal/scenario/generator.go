package scenario

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/osamahameedprojects/blood-pressure-simulator/internal/domain"
)

// Generator range constants (mmHg).
const (
	healthySystolicMin  = 90
	healthySystolicMax  = 119
	healthyDiastolicMin = 60
	healthyDiastolicMax = 79

	stage1SystolicMin  = 130
	stage1SystolicMax  = 139
	stage1DiastolicMin = 80
	stage1DiastolicMax = 89

	stage2SystolicMin  = 140
	stage2SystolicMax  = 170
	stage2DiastolicMin = 90
	stage2DiastolicMax = 110

	arrhythmicSystolicMin  = 70
	arrhythmicSystolicMax  = 200
	arrhythmicDiastolicMin = 40
	arrhythmicDiastolicMax = 130

	// stage1Probability 高血压场景中一期的概率
	stage1Probability = 0.7

	// jitterRatio 基础抽样后的乘性抖动幅度（±3%）
	jitterRatio = 0.03
)

// DefaultReading 未知场景时的安全默认值
var DefaultReading = domain.BPReading{Systolic: 120, Diastolic: 80}

// Generator produces true systolic/diastolic pairs per scenario.
//
// Pure modulo the random source. 对 arrhythmic 场景，调用方必须在每次
// pump 时重新调用 Generate 以模拟逐搏变异（观察到的原始行为，非优化项）。
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a generator seeded from the wall clock.
func NewGenerator() *Generator {
	return NewGeneratorWithSeed(time.Now().UnixNano())
}

// NewGeneratorWithSeed creates a generator with a fixed seed (for tests).
func NewGeneratorWithSeed(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate returns the true BP pair for the scenario.
// Unknown keys fall back to DefaultReading rather than failing the session.
func (g *Generator) Generate(key domain.ScenarioKey) domain.BPReading {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch key {
	case domain.ScenarioHealthy:
		return g.drawHealthy()
	case domain.ScenarioHypertensive:
		return g.drawHypertensive()
	case domain.ScenarioArrhythmic:
		return g.drawArrhythmic()
	default:
		return DefaultReading
	}
}

// drawHealthy 正常血压：sys [90,119]、dia [60,79]，抖动后夹回范围内
func (g *Generator) drawHealthy() domain.BPReading {
	systolic := g.jitter(g.uniformInt(healthySystolicMin, healthySystolicMax))
	diastolic := g.jitter(g.uniformInt(healthyDiastolicMin, healthyDiastolicMax))

	return domain.BPReading{
		Systolic:  clamp(systolic, healthySystolicMin, healthySystolicMax),
		Diastolic: clamp(diastolic, healthyDiastolicMin, healthyDiastolicMax),
	}
}

// drawHypertensive 高血压：70% 一期，否则二期；抖动后夹回对应分期范围
func (g *Generator) drawHypertensive() domain.BPReading {
	if g.rng.Float64() < stage1Probability {
		return domain.BPReading{
			Systolic:  clamp(g.jitter(g.uniformInt(stage1SystolicMin, stage1SystolicMax)), stage1SystolicMin, stage1SystolicMax),
			Diastolic: clamp(g.jitter(g.uniformInt(stage1DiastolicMin, stage1DiastolicMax)), stage1DiastolicMin, stage1DiastolicMax),
		}
	}
	return domain.BPReading{
		Systolic:  clamp(g.jitter(g.uniformInt(stage2SystolicMin, stage2SystolicMax)), stage2SystolicMin, stage2SystolicMax),
		Diastolic: clamp(g.jitter(g.uniformInt(stage2DiastolicMin, stage2DiastolicMax)), stage2DiastolicMin, stage2DiastolicMax),
	}
}

// drawArrhythmic 心律不齐：50/50 取正常或高血压基值，再叠加独立扰动
//
// 扰动幅度 m 均匀取自 [8,15]：收缩压偏移 ±m/2，舒张压偏移 ±0.3m，
// 最终夹到 sys [70,200]、dia [40,130]。
func (g *Generator) drawArrhythmic() domain.BPReading {
	var base domain.BPReading
	if g.rng.Float64() < 0.5 {
		base = g.drawHealthy()
	} else {
		base = g.drawHypertensive()
	}

	magnitude := 8 + g.rng.Float64()*7 // [8,15]
	systolic := float64(base.Systolic) + (g.rng.Float64()-0.5)*magnitude
	diastolic := float64(base.Diastolic) + (g.rng.Float64()-0.5)*0.6*magnitude

	return domain.BPReading{
		Systolic:  clamp(int(math.Round(systolic)), arrhythmicSystolicMin, arrhythmicSystolicMax),
		Diastolic: clamp(int(math.Round(diastolic)), arrhythmicDiastolicMin, arrhythmicDiastolicMax),
	}
}

// uniformInt 均匀整数，闭区间 [min,max]
func (g *Generator) uniformInt(min, max int) int {
	return min + g.rng.Intn(max-min+1)
}

// jitter 乘性抖动 ±3% 后四舍五入
func (g *Generator) jitter(value int) int {
	factor := 1 + (g.rng.Float64()*2-1)*jitterRatio
	return int(math.Round(float64(value) * factor))
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
