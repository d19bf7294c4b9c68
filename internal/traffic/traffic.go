// Package traffic estimates how busy a gym is from live occupancy and
// weekly/daily attendance patterns.
package traffic

import "time"

type Level string

const (
	Low        Level = "low"
	Medium     Level = "medium"
	MediumHigh Level = "medium-high"
	High       Level = "high"
)

const (
	actualWeight    = 0.7
	predictedWeight = 0.3
)

// Status buckets an occupancy percentage.
func Status(capacityPct float64) Level {
	switch {
	case capacityPct >= 75:
		return High
	case capacityPct >= 50:
		return MediumHigh
	case capacityPct >= 25:
		return Medium
	default:
		return Low
	}
}

func ForDay(day time.Weekday) Level {
	switch day {
	case time.Sunday, time.Saturday:
		return High
	case time.Monday, time.Friday:
		return MediumHigh
	case time.Wednesday:
		return Low
	default:
		return Medium
	}
}

func ForHour(hour int) Level {
	switch {
	case hour >= 6 && hour < 9:
		return High
	case hour >= 12 && hour < 14:
		return MediumHigh
	case hour >= 17 && hour < 20:
		return High
	case hour >= 20 || hour < 6:
		return Low
	default:
		return Medium
	}
}

// Combine weighs the observed level against the predicted one.
func Combine(actual, predicted Level) Level {
	v := ordinal(actual)*actualWeight + ordinal(predicted)*predictedWeight

	switch {
	case v >= 3.5:
		return High
	case v >= 2.5:
		return MediumHigh
	case v >= 1.5:
		return Medium
	default:
		return Low
	}
}

func Indicator(l Level) string {
	switch l {
	case High:
		return "🔴"
	case MediumHigh:
		return "🟠"
	case Medium:
		return "🟡"
	case Low:
		return "🟢"
	default:
		return "⚪"
	}
}

// ordinal treats unrecognised levels as medium so Combine stays total.
func ordinal(l Level) float64 {
	switch l {
	case Low:
		return 1
	case MediumHigh:
		return 3
	case High:
		return 4
	default:
		return 2
	}
}
