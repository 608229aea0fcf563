package enums

import "fmt"

// DriverAction is a driver's response to a pending assignment.
type DriverAction string

const (
	DriverActionAccept DriverAction = "accept"
	DriverActionReject DriverAction = "reject"
)

var validDriverActions = []DriverAction{
	DriverActionAccept,
	DriverActionReject,
}

// String implements fmt.Stringer.
func (d DriverAction) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DriverAction.
func (d DriverAction) IsValid() bool {
	for _, candidate := range validDriverActions {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDriverAction converts raw input into a DriverAction.
func ParseDriverAction(value string) (DriverAction, error) {
	for _, candidate := range validDriverActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid driver action %q", value)
}
