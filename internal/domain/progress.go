package domain

import "time"

// AttemptRecord 单次测量记录（append-only，创建后不再修改）
type AttemptRecord struct {
	ID             string      `json:"id"`
	ScenarioKey    ScenarioKey `json:"scenarioKey"`
	Timestamp      time.Time   `json:"timestamp"`
	TrueSystolic   int         `json:"trueSystolic"`
	TrueDiastolic  int         `json:"trueDiastolic"`
	UserSystolic   int         `json:"userSystolic"`
	UserDiastolic  int         `json:"userDiastolic"`
	SystolicError  int         `json:"systolicError"`
	DiastolicError int         `json:"diastolicError"`
	AverageError   float64     `json:"averageError"`
	Accuracy       int         `json:"accuracy"`
	IsCorrect      bool        `json:"isCorrect"`
}

// ScenarioProgress 单个场景的进度统计
// unlocked/completed 单调：一旦为 true 不再回退。
type ScenarioProgress struct {
	ScenarioKey     ScenarioKey `json:"scenarioKey"`
	ScenarioName    string      `json:"scenarioName"`
	Attempts        int         `json:"attempts"`
	CorrectAttempts int         `json:"correctAttempts"`
	AverageAccuracy int         `json:"averageAccuracy"`
	BestAccuracy    int         `json:"bestAccuracy"`
	Unlocked        bool        `json:"unlocked"`
	Completed       bool        `json:"completed"`
	CompletedAt     *time.Time  `json:"completedAt,omitempty"`
}

// UserProgress 用户进度聚合根（每用户一份，整体读写）
type UserProgress struct {
	User            User               `json:"user"`
	Scenarios       []ScenarioProgress `json:"scenarios"`
	Badges          []Badge            `json:"badges"`
	Attempts        []AttemptRecord    `json:"attempts"`
	TotalAttempts   int                `json:"totalAttempts"`
	TotalCorrect    int                `json:"totalCorrect"`
	OverallAccuracy int                `json:"overallAccuracy"`
	CurrentStreak   int                `json:"currentStreak"`
	BestStreak      int                `json:"bestStreak"`
	Level           int                `json:"level"`
	Experience      int                `json:"experience"`
}

// NewUserProgress 创建新用户的默认进度（仅 healthy 解锁）
func NewUserProgress(user User) *UserProgress {
	scenarios := make([]ScenarioProgress, 0, len(ScenarioKeys))
	for _, key := range ScenarioKeys {
		scenarios = append(scenarios, ScenarioProgress{
			ScenarioKey:  key,
			ScenarioName: ScenarioNames[key],
			Unlocked:     key == ScenarioHealthy,
		})
	}

	return &UserProgress{
		User:      user,
		Scenarios: scenarios,
		Badges:    []Badge{},
		Attempts:  []AttemptRecord{},
	}
}

// Scenario returns the progress entry for key, or nil if absent.
func (p *UserProgress) Scenario(key ScenarioKey) *ScenarioProgress {
	for i := range p.Scenarios {
		if p.Scenarios[i].ScenarioKey == key {
			return &p.Scenarios[i]
		}
	}
	return nil
}

// HasBadge reports whether the badge id has already been earned.
func (p *UserProgress) HasBadge(id string) bool {
	for _, b := range p.Badges {
		if b.ID == id {
			return true
		}
	}
	return false
}
