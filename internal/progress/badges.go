package progress

import (
	"time"

	"github.com/osamahameedprojects/blood-pressure-simulator/internal/domain"
)

// badgeQualifies 勋章触发条件，针对更新后的聚合评估
func badgeQualifies(id string, p *domain.UserProgress) bool {
	switch id {
	case domain.BadgeFirstSuccess:
		return p.TotalCorrect >= 1
	case domain.BadgeAccuracyAce:
		return p.TotalCorrect >= 5
	case domain.BadgeHypertensionHero:
		return p.TotalCorrect >= 10
	case domain.BadgeStreakMaster:
		return p.CurrentStreak >= 5
	case domain.BadgePrecisionExpert:
		return p.TotalAttempts >= 10 && p.OverallAccuracy >= 95
	default:
		return false
	}
}

// evaluateBadges walks the catalog, awards newly qualifying badges and
// returns them. Badges already held are skipped.
func evaluateBadges(p *domain.UserProgress, now time.Time) []domain.Badge {
	newBadges := make([]domain.Badge, 0)
	for _, catalog := range domain.AvailableBadges {
		if p.HasBadge(catalog.ID) {
			continue
		}
		if !badgeQualifies(catalog.ID, p) {
			continue
		}
		earned := catalog
		earned.EarnedAt = now
		p.Badges = append(p.Badges, earned)
		newBadges = append(newBadges, earned)
	}
	return newBadges
}
