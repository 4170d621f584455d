package enums

import (
	"fmt"
	"strings"
)

// PreparedState filters line items on their basket preparation flag.
type PreparedState string

const (
	PreparedStateAll        PreparedState = "all"
	PreparedStatePrepared   PreparedState = "prepared"
	PreparedStateUnprepared PreparedState = "unprepared"
)

var validPreparedStates = []PreparedState{
	PreparedStateAll,
	PreparedStatePrepared,
	PreparedStateUnprepared,
}

// String implements fmt.Stringer.
func (p PreparedState) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PreparedState.
func (p PreparedState) IsValid() bool {
	for _, candidate := range validPreparedStates {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePreparedState converts raw input into a PreparedState. Empty input means all.
func ParsePreparedState(value string) (PreparedState, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return PreparedStateAll, nil
	}
	for _, candidate := range validPreparedStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid prepared state %q", value)
}

// PreparedStateOrAll reads a filter value; unknown input means all.
func PreparedStateOrAll(value string) PreparedState {
	if p, err := ParsePreparedState(value); err == nil {
		return p
	}
	return PreparedStateAll
}
