package enums

import "fmt"

// ProposalStatus tracks a proposal's lifecycle: PENDING until the target
// decides, then ACCEPTED or REJECTED forever.
type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "PENDING"
	ProposalStatusAccepted ProposalStatus = "ACCEPTED"
	ProposalStatusRejected ProposalStatus = "REJECTED"
)

var validProposalStatuses = []ProposalStatus{
	ProposalStatusPending,
	ProposalStatusAccepted,
	ProposalStatusRejected,
}

// IsValid reports whether the value matches the canonical status enum.
func (s ProposalStatus) IsValid() bool {
	for _, candidate := range validProposalStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions.
func (s ProposalStatus) IsTerminal() bool {
	return s == ProposalStatusAccepted || s == ProposalStatusRejected
}

// ParseProposalStatus converts raw input into ProposalStatus.
func ParseProposalStatus(value string) (ProposalStatus, error) {
	for _, candidate := range validProposalStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid proposal status %q", value)
}
