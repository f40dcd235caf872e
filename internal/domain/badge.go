package domain

import "time"

// Badge 勋章（用户已获得的实例，EarnedAt 为获得时间）
type Badge struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Criteria    string    `json:"criteria"`
	EarnedAt    time.Time `json:"earnedAt"`
}

// Badge catalog ids.
const (
	BadgeFirstSuccess     = "first_success"
	BadgeAccuracyAce      = "accuracy_ace"
	BadgeHypertensionHero = "hypertension_hero"
	BadgeStreakMaster     = "streak_master"
	BadgePrecisionExpert  = "precision_expert"
)

// AvailableBadges 固定的勋章目录（5个），EarnedAt 留空
var AvailableBadges = []Badge{
	{
		ID:          BadgeFirstSuccess,
		Name:        "First Success",
		Description: "Complete your first measurement successfully",
		Icon:        "🎯",
		Criteria:    "Complete 1 correct measurement",
	},
	{
		ID:          BadgeAccuracyAce,
		Name:        "Accuracy Ace",
		Description: "Unlock the next scenario level",
		Icon:        "🏆",
		Criteria:    "Complete 5 correct measurements",
	},
	{
		ID:          BadgeHypertensionHero,
		Name:        "Hypertension Hero",
		Description: "Master the hypertensive scenario",
		Icon:        "💪",
		Criteria:    "Unlock arrhythmic scenario",
	},
	{
		ID:          BadgeStreakMaster,
		Name:        "Streak Master",
		Description: "Achieve a 5-measurement winning streak",
		Icon:        "🔥",
		Criteria:    "Get 5 correct measurements in a row",
	},
	{
		ID:          BadgePrecisionExpert,
		Name:        "Precision Expert",
		Description: "Achieve 95%+ accuracy over 10 attempts",
		Icon:        "⭐",
		Criteria:    "Maintain 95%+ accuracy over 10 attempts",
	},
}
