package scoring

import (
	"math"

	"github.com/osamahameedprojects/blood-pressure-simulator/internal/domain"
)

const (
	// AccuracyTolerance 判定"正确"的误差上限（±5 mmHg）
	AccuracyTolerance = 5

	// maxError 精度换算的误差上限：平均误差 >= 50 时精度为 0
	maxError = 50
)

// Score 单次读数的评分结果
type Score struct {
	SystolicError  int     `json:"systolicError"`
	DiastolicError int     `json:"diastolicError"`
	AverageError   float64 `json:"averageError"`
	Accuracy       int     `json:"accuracy"`
	IsCorrect      bool    `json:"isCorrect"`
}

// Evaluate scores an entered reading against the true reading.
//
// accuracy 线性衰减：误差 0 → 100%，平均误差 >= 50 → 0%，下限 0。
// Pure function; inputs are validated positive integers by the input layer.
func Evaluate(trueReading, entered domain.BPReading) Score {
	systolicError := abs(trueReading.Systolic - entered.Systolic)
	diastolicError := abs(trueReading.Diastolic - entered.Diastolic)
	averageError := float64(systolicError+diastolicError) / 2

	accuracy := int(math.Round(100 - (averageError/maxError)*100))
	if accuracy < 0 {
		accuracy = 0
	}

	return Score{
		SystolicError:  systolicError,
		DiastolicError: diastolicError,
		AverageError:   averageError,
		Accuracy:       accuracy,
		IsCorrect:      systolicError <= AccuracyTolerance && diastolicError <= AccuracyTolerance,
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
