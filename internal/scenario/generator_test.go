package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osamahameedprojects/blood-pressure-simulator/internal/domain"
)

func TestGenerate_HealthyAlwaysNormalRange(t *testing.T) {
	g := NewGeneratorWithSeed(1)

	for i := 0; i < 1000; i++ {
		r := g.Generate(domain.ScenarioHealthy)
		assert.GreaterOrEqual(t, r.Systolic, healthySystolicMin)
		assert.Less(t, r.Systolic, 120)
		assert.GreaterOrEqual(t, r.Diastolic, healthyDiastolicMin)
		assert.Less(t, r.Diastolic, 80)
	}
}

func TestGenerate_HypertensiveAlwaysInStageBounds(t *testing.T) {
	g := NewGeneratorWithSeed(2)

	sawStage1 := false
	sawStage2 := false
	for i := 0; i < 1000; i++ {
		r := g.Generate(domain.ScenarioHypertensive)

		inStage1 := r.Systolic >= stage1SystolicMin && r.Systolic <= stage1SystolicMax &&
			r.Diastolic >= stage1DiastolicMin && r.Diastolic <= stage1DiastolicMax
		inStage2 := r.Systolic >= stage2SystolicMin && r.Systolic <= stage2SystolicMax &&
			r.Diastolic >= stage2DiastolicMin && r.Diastolic <= stage2DiastolicMax

		assert.True(t, inStage1 || inStage2, "reading %+v outside both stages", r)
		if inStage1 {
			sawStage1 = true
		}
		if inStage2 {
			sawStage2 = true
		}
	}
	assert.True(t, sawStage1, "expected some stage 1 draws")
	assert.True(t, sawStage2, "expected some stage 2 draws")
}

func TestGenerate_ArrhythmicWithinClampBounds(t *testing.T) {
	g := NewGeneratorWithSeed(3)

	distinct := make(map[domain.BPReading]bool)
	for i := 0; i < 1000; i++ {
		r := g.Generate(domain.ScenarioArrhythmic)
		assert.GreaterOrEqual(t, r.Systolic, arrhythmicSystolicMin)
		assert.LessOrEqual(t, r.Systolic, arrhythmicSystolicMax)
		assert.GreaterOrEqual(t, r.Diastolic, arrhythmicDiastolicMin)
		assert.LessOrEqual(t, r.Diastolic, arrhythmicDiastolicMax)
		distinct[r] = true
	}
	assert.Greater(t, len(distinct), 10, "arrhythmic draws should vary beat to beat")
}

func TestGenerate_UnknownScenarioFallsBack(t *testing.T) {
	g := NewGeneratorWithSeed(4)

	r := g.Generate(domain.ScenarioKey("bogus"))
	assert.Equal(t, DefaultReading, r)
}

func TestGenerate_SeededDeterminism(t *testing.T) {
	a := NewGeneratorWithSeed(99)
	b := NewGeneratorWithSeed(99)

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Generate(domain.ScenarioHealthy), b.Generate(domain.ScenarioHealthy))
	}
}
