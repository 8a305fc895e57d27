package enums

import "fmt"

// IntervalUnit is the cadence unit of a recurring payment schedule.
type IntervalUnit string

const (
	IntervalUnitDays   IntervalUnit = "days"
	IntervalUnitMonths IntervalUnit = "months"
)

var validIntervalUnits = []IntervalUnit{
	IntervalUnitDays,
	IntervalUnitMonths,
}

// String implements fmt.Stringer.
func (u IntervalUnit) String() string {
	return string(u)
}

// IsValid reports whether the value is a known IntervalUnit.
func (u IntervalUnit) IsValid() bool {
	for _, candidate := range validIntervalUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// LengthInRange reports whether the gateway accepts the interval length for
// this unit (7-365 for days, 1-12 for months).
func (u IntervalUnit) LengthInRange(length int) bool {
	switch u {
	case IntervalUnitDays:
		return length >= 7 && length <= 365
	case IntervalUnitMonths:
		return length >= 1 && length <= 12
	default:
		return false
	}
}

// ParseIntervalUnit converts raw input into an IntervalUnit.
func ParseIntervalUnit(value string) (IntervalUnit, error) {
	for _, candidate := range validIntervalUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid interval unit %q", value)
}
