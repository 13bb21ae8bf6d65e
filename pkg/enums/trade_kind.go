package enums

import "fmt"

// TradeKind says which side of the trade the requestor is on.
type TradeKind string

const (
	// TradeKindBuy means the requestor buys carbon from the target.
	TradeKindBuy TradeKind = "BUY"
	// TradeKindSell means the requestor sells carbon to the target.
	TradeKindSell TradeKind = "SELL"
)

var validTradeKinds = []TradeKind{TradeKindBuy, TradeKindSell}

// IsValid reports whether the value matches the canonical trade kind enum.
func (k TradeKind) IsValid() bool {
	for _, candidate := range validTradeKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseTradeKind converts raw input into TradeKind.
func ParseTradeKind(value string) (TradeKind, error) {
	for _, candidate := range validTradeKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid trade kind %q", value)
}
