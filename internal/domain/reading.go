package domain

// BPReading 血压读数（mmHg）
// Both values are positive integers; generation keeps them physiologically
// ordered but the struct itself does not enforce systolic > diastolic.
type BPReading struct {
	Systolic  int `json:"systolic"`
	Diastolic int `json:"diastolic"`
}
