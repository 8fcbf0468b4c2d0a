package enums

import "fmt"

// ServiceStatus tracks a service record through its lifecycle. A record only
// ever moves forward; Paid is terminal.
type ServiceStatus string

const (
	ServiceStatusQueued     ServiceStatus = "queued"
	ServiceStatusInProgress ServiceStatus = "in_progress"
	ServiceStatusCompleted  ServiceStatus = "completed"
	ServiceStatusPaid       ServiceStatus = "paid"
)

var orderedServiceStatuses = []ServiceStatus{
	ServiceStatusQueued,
	ServiceStatusInProgress,
	ServiceStatusCompleted,
	ServiceStatusPaid,
}

// String implements fmt.Stringer.
func (s ServiceStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ServiceStatus.
func (s ServiceStatus) IsValid() bool {
	for _, candidate := range orderedServiceStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Next returns the status that legally follows s, or empty for Paid.
func (s ServiceStatus) Next() ServiceStatus {
	for i, candidate := range orderedServiceStatuses {
		if candidate == s && i+1 < len(orderedServiceStatuses) {
			return orderedServiceStatuses[i+1]
		}
	}
	return ""
}

// CanTransitionTo reports whether target is the single legal successor of s.
func (s ServiceStatus) CanTransitionTo(target ServiceStatus) bool {
	return s.Next() == target && target != ""
}

// ParseServiceStatus converts raw input into a ServiceStatus.
func ParseServiceStatus(value string) (ServiceStatus, error) {
	for _, candidate := range orderedServiceStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid service status %q", value)
}
