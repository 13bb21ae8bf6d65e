package enums

import "fmt"

// TradeDecision is the target company's answer to a pending proposal.
type TradeDecision string

const (
	TradeDecisionAccept TradeDecision = "ACCEPT"
	TradeDecisionReject TradeDecision = "REJECT"
)

var validTradeDecisions = []TradeDecision{TradeDecisionAccept, TradeDecisionReject}

// IsValid reports whether the value matches the canonical decision enum.
func (d TradeDecision) IsValid() bool {
	for _, candidate := range validTradeDecisions {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseTradeDecision converts raw input into TradeDecision.
func ParseTradeDecision(value string) (TradeDecision, error) {
	for _, candidate := range validTradeDecisions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid trade decision %q", value)
}
