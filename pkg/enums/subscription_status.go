package enums

import "fmt"

// SubscriptionStatus mirrors the gateway's recurring-billing states.
type SubscriptionStatus string

const (
	SubscriptionStatusActive     SubscriptionStatus = "active"
	SubscriptionStatusSuspended  SubscriptionStatus = "suspended"
	SubscriptionStatusCanceled   SubscriptionStatus = "canceled"
	SubscriptionStatusExpired    SubscriptionStatus = "expired"
	SubscriptionStatusTerminated SubscriptionStatus = "terminated"
)

var validSubscriptionStatuses = []SubscriptionStatus{
	SubscriptionStatusActive,
	SubscriptionStatusSuspended,
	SubscriptionStatusCanceled,
	SubscriptionStatusExpired,
	SubscriptionStatusTerminated,
}

// String implements fmt.Stringer.
func (s SubscriptionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s SubscriptionStatus) IsValid() bool {
	for _, candidate := range validSubscriptionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the gateway allows no further transitions.
func (s SubscriptionStatus) IsTerminal() bool {
	return s == SubscriptionStatusCanceled || s == SubscriptionStatusExpired || s == SubscriptionStatusTerminated
}

// ParseSubscriptionStatus converts raw input into a SubscriptionStatus.
func ParseSubscriptionStatus(value string) (SubscriptionStatus, error) {
	for _, candidate := range validSubscriptionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid subscription status %q", value)
}
