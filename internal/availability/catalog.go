package availability

import "strings"

var machineTypes = []struct {
	kind     string
	keywords []string
}{
	{"strength", []string{"bench", "press"}},
	{"cardio", []string{"treadmill", "bike", "elliptical"}},
	{"back", []string{"row", "pull"}},
	{"legs", []string{"leg", "squat", "extension"}},
	{"arms", []string{"curl", "bicep"}},
}

// MachineType buckets a machine by keywords in its name. The first matching
// bucket wins, so "Leg Press" is strength.
func MachineType(name string) string {
	lower := strings.ToLower(name)
	for _, t := range machineTypes {
		for _, kw := range t.keywords {
			if strings.Contains(lower, kw) {
				return t.kind
			}
		}
	}
	return "other"
}

func Popularity(uses int) string {
	switch {
	case uses >= 1000:
		return "very popular"
	case uses >= 500:
		return "popular"
	case uses >= 100:
		return "average"
	default:
		return "less used"
	}
}

func AvailabilityStatus(pct float64) string {
	switch {
	case pct >= 75:
		return "high"
	case pct >= 50:
		return "medium"
	case pct >= 25:
		return "limited"
	default:
		return "low"
	}
}
