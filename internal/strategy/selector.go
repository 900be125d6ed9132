package strategy

import (
	"fmt"

	"optionbuyer/internal/market"

	"github.com/shopspring/decimal"
)

// StrikeInterval is the Bank Nifty strike spacing.
var StrikeInterval = decimal.NewFromInt(100)

// SelectOption picks the contract to buy for the underlying price using the
// Bank Nifty strike interval. See SelectOptionWithInterval.
func SelectOption(price decimal.Decimal, chain market.Chain) (market.OptionContract, error) {
	return SelectOptionWithInterval(price, chain, StrikeInterval)
}

// SelectOptionWithInterval compares the call at the strike above price with the
// put at the strike below it.
//
// When the put strike is strictly closer to price, the put wins unless the call
// is strictly cheaper. Otherwise (call closer, or equidistant, which includes a
// price on an exact strike) the call wins only when strictly cheaper than the put.
func SelectOptionWithInterval(price decimal.Decimal, chain market.Chain,
	interval decimal.Decimal) (market.OptionContract, error) {
	if !price.IsPositive() {
		return market.OptionContract{}, fmt.Errorf("%w: %s", ErrInvalidPrice, price)
	}
	if !interval.IsPositive() {
		return market.OptionContract{}, fmt.Errorf("strike interval must be positive: %s", interval)
	}

	callStrike, putStrike := market.NearestStrikes(price, interval)

	call, ok := chain.Find(market.Call, callStrike)
	if !ok {
		return market.OptionContract{}, fmt.Errorf("%w: %s %s", ErrStrikeNotFound, market.Call, callStrike)
	}
	put, ok := chain.Find(market.Put, putStrike)
	if !ok {
		return market.OptionContract{}, fmt.Errorf("%w: %s %s", ErrStrikeNotFound, market.Put, putStrike)
	}

	for _, c := range []market.OptionContract{call, put} {
		if !c.HasLastPrice {
			return market.OptionContract{}, fmt.Errorf("%w: no last price for %s", ErrDataUnavailable, c.TradingSymbol)
		}
	}

	putDistance := price.Sub(putStrike).Abs()
	callDistance := callStrike.Sub(price).Abs()

	if putDistance.LessThan(callDistance) {
		if put.LastPrice.LessThanOrEqual(call.LastPrice) {
			return put, nil
		}
		return call, nil
	}

	if call.LastPrice.LessThan(put.LastPrice) {
		return call, nil
	}
	return put, nil
}
