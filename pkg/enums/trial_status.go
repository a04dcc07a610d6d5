package enums

import "fmt"

// TrialStatus captures where a store sits in its subscription trial.
type TrialStatus string

const (
	TrialStatusActive  TrialStatus = "active"
	TrialStatusExpired TrialStatus = "expired"
)

var trialStatuses = map[TrialStatus]struct{}{
	TrialStatusActive:  {},
	TrialStatusExpired: {},
}

func (s TrialStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known TrialStatus.
func (s TrialStatus) IsValid() bool {
	_, ok := trialStatuses[s]
	return ok
}

// ParseTrialStatus converts raw input into a TrialStatus.
func ParseTrialStatus(value string) (TrialStatus, error) {
	status := TrialStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid trial status %q", value)
	}
	return status, nil
}
