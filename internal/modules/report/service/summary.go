package service

import (
	"anoa.com/collegeattendance/internal/entity"
	"anoa.com/collegeattendance/internal/modules/report/dto"
)

// AttendanceThreshold is the minimum percentage a student must hold.
const AttendanceThreshold = 75

// Summarize reduces a list of marks. Only present marks count as attended.
func Summarize(statuses []entity.AttendanceStatus) dto.Summary {
	attended := 0
	for _, s := range statuses {
		if s == entity.StatusPresent {
			attended++
		}
	}
	return FromCounts(len(statuses), attended)
}

func FromCounts(total, attended int) dto.Summary {
	if total <= 0 {
		return dto.Summary{NoRecords: true}
	}
	pct := percent(attended, total)
	return dto.Summary{
		Total:                total,
		Attended:             attended,
		Absent:               total - attended,
		Percentage:           pct,
		PercentageIfMissNext: percent(attended, total+1),
		AtRisk:               pct < AttendanceThreshold,
	}
}

// percent returns num/den as a percentage rounded half up to two decimals.
// The rounding is done on the exact fraction, so 1/32 gives 3.13.
func percent(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	n, d := int64(num), int64(den)
	basisPoints := (n*10000*2 + d) / (2 * d)
	return float64(basisPoints) / 100
}
