package domain

// ScenarioKey 训练场景标识（固定枚举）
type ScenarioKey string

const (
	ScenarioHealthy      ScenarioKey = "healthy"
	ScenarioHypertensive ScenarioKey = "hypertensive"
	ScenarioArrhythmic   ScenarioKey = "arrhythmic"
)

// ScenarioKeys lists all scenarios in display order.
var ScenarioKeys = []ScenarioKey{ScenarioHealthy, ScenarioHypertensive, ScenarioArrhythmic}

// ScenarioNames display names per scenario.
var ScenarioNames = map[ScenarioKey]string{
	ScenarioHealthy:      "Healthy Adult",
	ScenarioHypertensive: "Hypertensive",
	ScenarioArrhythmic:   "Arrhythmic",
}

// IsValid reports whether k is one of the known scenario keys.
func (k ScenarioKey) IsValid() bool {
	switch k {
	case ScenarioHealthy, ScenarioHypertensive, ScenarioArrhythmic:
		return true
	}
	return false
}

// UnlockRequirement 场景解锁条件
type UnlockRequirement struct {
	RequiredCorrect int
	RequiredLevel   int
}

// ScenarioUnlockRequirements unlock gating per scenario.
// healthy 始终解锁；hypertensive/arrhythmic 按累计正确次数解锁。
var ScenarioUnlockRequirements = map[ScenarioKey]UnlockRequirement{
	ScenarioHealthy:      {RequiredCorrect: 0, RequiredLevel: 0},
	ScenarioHypertensive: {RequiredCorrect: 5, RequiredLevel: 1},
	ScenarioArrhythmic:   {RequiredCorrect: 10, RequiredLevel: 2},
}
