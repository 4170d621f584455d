package enums

import (
	"fmt"
	"strings"
)

// DeliveredState filters orders on their delivery flag.
type DeliveredState string

const (
	DeliveredStateAll         DeliveredState = "all"
	DeliveredStateDelivered   DeliveredState = "delivered"
	DeliveredStateUndelivered DeliveredState = "undelivered"
)

var validDeliveredStates = []DeliveredState{
	DeliveredStateAll,
	DeliveredStateDelivered,
	DeliveredStateUndelivered,
}

// String implements fmt.Stringer.
func (d DeliveredState) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveredState.
func (d DeliveredState) IsValid() bool {
	for _, candidate := range validDeliveredStates {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliveredState converts raw input into a DeliveredState. Empty input means all.
func ParseDeliveredState(value string) (DeliveredState, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return DeliveredStateAll, nil
	}
	for _, candidate := range validDeliveredStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivered state %q", value)
}

// DeliveredStateOrAll reads a filter value; unknown input means all.
func DeliveredStateOrAll(value string) DeliveredState {
	if d, err := ParseDeliveredState(value); err == nil {
		return d
	}
	return DeliveredStateAll
}
