package scenario

import (
	"github.com/osamahameedprojects/blood-pressure-simulator/internal/domain"
)

// Validation result for a generated reading against its scenario's guidelines.
type Validation struct {
	IsValid          bool     `json:"isValid"`
	ExpectedCategory string   `json:"expectedCategory"`
	ActualCategory   string   `json:"actualCategory"`
	Warnings         []string `json:"warnings"`
}

// Range 某场景的教学参考范围
type Range struct {
	SystolicMin  int    `json:"systolicMin"`
	SystolicMax  int    `json:"systolicMax"`
	DiastolicMin int    `json:"diastolicMin"`
	DiastolicMax int    `json:"diastolicMax"`
	Description  string `json:"description"`
}

// Category categorizes a BP reading according to AHA 2017 guidelines.
func Category(systolic, diastolic int) string {
	if systolic < 120 && diastolic < 80 {
		return "Normal"
	}
	if systolic < 130 && diastolic < 80 {
		return "Elevated"
	}
	if (systolic >= 130 && systolic <= 139) || (diastolic >= 80 && diastolic <= 89) {
		return "Stage 1 Hypertension"
	}
	if systolic >= 140 || diastolic >= 90 {
		return "Stage 2 Hypertension"
	}
	if systolic >= 180 || diastolic >= 120 {
		return "Hypertensive Crisis"
	}
	return "Unknown"
}

// ValidateForScenario checks that a reading is appropriate for the scenario.
// 仅用于生成结果校验和教学展示，不参与评分。
func ValidateForScenario(key domain.ScenarioKey, reading domain.BPReading) Validation {
	v := Validation{
		IsValid:        true,
		ActualCategory: Category(reading.Systolic, reading.Diastolic),
		Warnings:       []string{},
	}

	switch key {
	case domain.ScenarioHealthy:
		v.ExpectedCategory = "Normal"
		if reading.Systolic >= 120 || reading.Diastolic >= 80 {
			v.IsValid = false
			v.Warnings = append(v.Warnings, "BP reading is elevated for a healthy adult scenario")
		}
		if reading.Systolic < 90 || reading.Diastolic < 60 {
			v.Warnings = append(v.Warnings, "BP reading may be too low (hypotensive)")
		}

	case domain.ScenarioHypertensive:
		v.ExpectedCategory = "Stage 1 or 2 Hypertension"
		if reading.Systolic < 130 && reading.Diastolic < 80 {
			v.IsValid = false
			v.Warnings = append(v.Warnings, "BP reading is too low for hypertensive scenario")
		}
		if reading.Systolic > 180 || reading.Diastolic > 120 {
			v.Warnings = append(v.Warnings, "BP reading indicates hypertensive crisis - medical emergency")
		}

	case domain.ScenarioArrhythmic:
		v.ExpectedCategory = "Variable (Normal to Hypertensive)"
		if reading.Systolic < 70 || reading.Systolic > 200 {
			v.Warnings = append(v.Warnings, "Systolic reading outside realistic range for arrhythmic patient")
		}
		if reading.Diastolic < 40 || reading.Diastolic > 130 {
			v.Warnings = append(v.Warnings, "Diastolic reading outside realistic range for arrhythmic patient")
		}

	default:
		v.ExpectedCategory = "Unknown"
		v.IsValid = false
		v.Warnings = append(v.Warnings, "Unknown scenario type")
	}

	return v
}

// Ranges returns the educational BP range for the scenario, or nil for unknown keys.
func Ranges(key domain.ScenarioKey) *Range {
	switch key {
	case domain.ScenarioHealthy:
		return &Range{
			SystolicMin: 90, SystolicMax: 119,
			DiastolicMin: 60, DiastolicMax: 79,
			Description: "Normal blood pressure range",
		}
	case domain.ScenarioHypertensive:
		return &Range{
			SystolicMin: 130, SystolicMax: 170,
			DiastolicMin: 80, DiastolicMax: 110,
			Description: "Hypertensive range (Stage 1 & 2)",
		}
	case domain.ScenarioArrhythmic:
		return &Range{
			SystolicMin: 70, SystolicMax: 200,
			DiastolicMin: 40, DiastolicMax: 130,
			Description: "Variable range due to irregular rhythm",
		}
	default:
		return nil
	}
}
