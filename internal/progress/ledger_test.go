package progress

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/osamahameedprojects/blood-pressure-simulator/internal/domain"
	"github.com/osamahameedprojects/blood-pressure-simulator/internal/repository"
)

func newTestLedger(t *testing.T) (*Ledger, *repository.MemoryProgressRepo) {
	t.Helper()
	repo := repository.NewMemoryProgressRepo()
	ledger := NewLedger(repo, zap.NewNop())

	counter := 0
	ledger.newID = func() string {
		counter++
		return fmt.Sprintf("attempt_%d", counter)
	}
	ledger.now = func() time.Time {
		return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	}

	user := domain.User{
		ID:       "trainer_demo_1a2b3c4d",
		Email:    "trainer@demo.com",
		Name:     "Trainer",
		Password: "password123",
	}
	ledger.LoadUser(domain.NewUserProgress(user))

	return ledger, repo
}

func TestRecordAttempt_NoActiveUser(t *testing.T) {
	ledger := NewLedger(repository.NewMemoryProgressRepo(), zap.NewNop())

	result, err := ledger.RecordAttempt(context.Background(), domain.ScenarioHealthy,
		domain.BPReading{Systolic: 120, Diastolic: 80},
		domain.BPReading{Systolic: 120, Diastolic: 80})

	assert.ErrorIs(t, err, ErrNoActiveUser)
	assert.Nil(t, result)
}

func TestRecordAttempt_PerfectReading(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	reading := domain.BPReading{Systolic: 120, Diastolic: 80}
	result, err := ledger.RecordAttempt(ctx, domain.ScenarioHealthy, reading, reading)
	require.NoError(t, err)

	assert.Equal(t, 100, result.Accuracy)
	assert.True(t, result.IsCorrect)

	p, err := ledger.Current()
	require.NoError(t, err)
	assert.Equal(t, 1, p.TotalAttempts)
	assert.Equal(t, 1, p.TotalCorrect)
	assert.Equal(t, 1, p.CurrentStreak)
	assert.Equal(t, 100, p.OverallAccuracy)
	assert.Equal(t, 50, p.Experience)
	assert.Equal(t, 0, p.Level)

	// 第一次正确测量即获得 first_success
	require.Len(t, result.NewBadges, 1)
	assert.Equal(t, domain.BadgeFirstSuccess, result.NewBadges[0].ID)

	healthy := p.Scenario(domain.ScenarioHealthy)
	assert.Equal(t, 1, healthy.Attempts)
	assert.Equal(t, 1, healthy.CorrectAttempts)
	assert.Equal(t, 100, healthy.AverageAccuracy)
	assert.Equal(t, 100, healthy.BestAccuracy)
	assert.False(t, healthy.Completed)
}

func TestRecordAttempt_FiveCorrectUnlocksHypertensive(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()
	reading := domain.BPReading{Systolic: 110, Diastolic: 70}

	var last *AttemptResult
	for i := 0; i < 5; i++ {
		var err error
		last, err = ledger.RecordAttempt(ctx, domain.ScenarioHealthy, reading, reading)
		require.NoError(t, err)
	}

	p, err := ledger.Current()
	require.NoError(t, err)

	assert.True(t, p.Scenario(domain.ScenarioHypertensive).Unlocked)
	assert.False(t, p.Scenario(domain.ScenarioArrhythmic).Unlocked)

	healthy := p.Scenario(domain.ScenarioHealthy)
	assert.True(t, healthy.Completed)
	require.NotNil(t, healthy.CompletedAt)

	// 第5次正确同时触发 accuracy_ace 与 streak_master
	ids := make([]string, 0, len(last.NewBadges))
	for _, b := range last.NewBadges {
		ids = append(ids, b.ID)
	}
	assert.Contains(t, ids, domain.BadgeAccuracyAce)
	assert.Contains(t, ids, domain.BadgeStreakMaster)
	assert.NotContains(t, ids, domain.BadgeFirstSuccess)

	assert.Equal(t, 250, p.Experience)
	assert.Equal(t, 2, p.Level)
}

func TestRecordAttempt_StreakResetsOnIncorrect(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()
	good := domain.BPReading{Systolic: 110, Diastolic: 70}
	bad := domain.BPReading{Systolic: 160, Diastolic: 100}

	for i := 0; i < 4; i++ {
		_, err := ledger.RecordAttempt(ctx, domain.ScenarioHealthy, good, good)
		require.NoError(t, err)
	}

	p, _ := ledger.Current()
	assert.Equal(t, 4, p.CurrentStreak)

	_, err := ledger.RecordAttempt(ctx, domain.ScenarioHealthy, good, bad)
	require.NoError(t, err)

	p, _ = ledger.Current()
	assert.Equal(t, 0, p.CurrentStreak)
	assert.Equal(t, 4, p.BestStreak)
}

func TestRecordAttempt_NoDriftOverMixedAttempts(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()
	good := domain.BPReading{Systolic: 110, Diastolic: 70}
	bad := domain.BPReading{Systolic: 160, Diastolic: 100}

	for i := 0; i < 100; i++ {
		entered := good
		if i%3 == 0 {
			entered = bad
		}
		_, err := ledger.RecordAttempt(ctx, domain.ScenarioHealthy, good, entered)
		require.NoError(t, err)
	}

	p, err := ledger.Current()
	require.NoError(t, err)

	expected := int(math.Round(100 * float64(p.TotalCorrect) / float64(p.TotalAttempts)))
	assert.Equal(t, expected, p.OverallAccuracy)
	assert.Equal(t, 100, p.TotalAttempts)
	assert.Equal(t, 66, p.TotalCorrect)
	assert.Len(t, p.Attempts, 100)
}

func TestRecordAttempt_PersistsWholeAggregate(t *testing.T) {
	ledger, repo := newTestLedger(t)
	ctx := context.Background()
	reading := domain.BPReading{Systolic: 120, Diastolic: 80}

	_, err := ledger.RecordAttempt(ctx, domain.ScenarioHealthy, reading, reading)
	require.NoError(t, err)

	stored, err := repo.GetProgress(ctx, "trainer_demo_1a2b3c4d")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.TotalAttempts)
	require.Len(t, stored.Attempts, 1)
	assert.Equal(t, "attempt_1", stored.Attempts[0].ID)
}

func TestRecordAttempt_ScenarioAverageRecomputed(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()
	trueReading := domain.BPReading{Systolic: 120, Diastolic: 80}

	// accuracy 100，然后 accuracy 70（误差 20/10）
	_, err := ledger.RecordAttempt(ctx, domain.ScenarioHealthy, trueReading, trueReading)
	require.NoError(t, err)
	_, err = ledger.RecordAttempt(ctx, domain.ScenarioHealthy, trueReading,
		domain.BPReading{Systolic: 140, Diastolic: 90})
	require.NoError(t, err)

	p, _ := ledger.Current()
	healthy := p.Scenario(domain.ScenarioHealthy)
	assert.Equal(t, 85, healthy.AverageAccuracy)
	assert.Equal(t, 100, healthy.BestAccuracy)
}

func TestLedger_UnloadClearsActiveUser(t *testing.T) {
	ledger, _ := newTestLedger(t)

	_, err := ledger.Current()
	require.NoError(t, err)

	ledger.Unload()

	_, err = ledger.Current()
	assert.ErrorIs(t, err, ErrNoActiveUser)
}
