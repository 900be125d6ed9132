package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// OptionType is the broker's option type tag ("CE" for calls, "PE" for puts).
type OptionType string

const (
	Call OptionType = "CE"
	Put  OptionType = "PE"
)

// ParseOptionType maps a raw type tag from the option chain to an OptionType.
func ParseOptionType(tag string) (OptionType, bool) {
	switch OptionType(tag) {
	case Call:
		return Call, true
	case Put:
		return Put, true
	}
	return "", false
}

func (t OptionType) String() string {
	switch t {
	case Call:
		return "CALL"
	case Put:
		return "PUT"
	}
	return string(t)
}

// OptionContract is a single entry of the option chain window.
type OptionContract struct {
	Exchange      string          `json:"exchange"`      // e.g. "NFO"
	TradingSymbol string          `json:"tradingSymbol"` // e.g. "BANKNIFTY28NOV24C48100"
	Token         string          `json:"token"`         // broker instrument token
	StrikePrice   decimal.Decimal `json:"strikePrice"`
	LastPrice     decimal.Decimal `json:"lastPrice"`
	HasLastPrice  bool            `json:"hasLastPrice"` // false when neither the chain nor a quote carried a price
	OptionType    OptionType      `json:"optionType"`
}

// Chain holds the option chain window partitioned by option type.
type Chain struct {
	Calls []OptionContract
	Puts  []OptionContract
}

// Partition splits raw chain entries into calls and puts.
// Entries with an unknown type tag are dropped.
func Partition(entries []OptionContract) Chain {
	var chain Chain
	for _, e := range entries {
		switch e.OptionType {
		case Call:
			chain.Calls = append(chain.Calls, e)
		case Put:
			chain.Puts = append(chain.Puts, e)
		}
	}
	return chain
}

// Find returns the first contract of the given type whose strike equals strike exactly.
func (c Chain) Find(t OptionType, strike decimal.Decimal) (OptionContract, bool) {
	for _, e := range c.side(t) {
		if e.StrikePrice.Equal(strike) {
			return e, true
		}
	}
	return OptionContract{}, false
}

// Update applies fn to every contract of type t at the given strike.
func (c *Chain) Update(t OptionType, strike decimal.Decimal, fn func(*OptionContract)) {
	side := c.side(t)
	for i := range side {
		if side[i].StrikePrice.Equal(strike) {
			fn(&side[i])
		}
	}
}

// Len returns the number of contracts in the chain.
func (c Chain) Len() int {
	return len(c.Calls) + len(c.Puts)
}

func (c Chain) side(t OptionType) []OptionContract {
	if t == Put {
		return c.Puts
	}
	if t == Call {
		return c.Calls
	}
	return nil
}

// NearestStrikes returns the call strike (price rounded up to the interval)
// and the put strike (price rounded down to the interval).
func NearestStrikes(price, interval decimal.Decimal) (callStrike, putStrike decimal.Decimal) {
	steps := price.Div(interval)
	callStrike = steps.Ceil().Mul(interval)
	putStrike = steps.Floor().Mul(interval)
	return callStrike, putStrike
}

// Snapshot is the market state fetched for one loop iteration.
type Snapshot struct {
	Price     decimal.Decimal
	Chain     Chain
	FetchedAt time.Time
}
