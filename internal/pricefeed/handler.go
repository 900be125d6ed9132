package pricefeed

import (
	"encoding/json"

	"optionbuyer/pkg/shoonya"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MakeMessageHandler returns a function that handles incoming websocket messages
// by parsing touchline frames and storing their last price.
func MakeMessageHandler(logger *zap.Logger, store *MemoryPriceStore) func(msg []byte) {
	return func(msg []byte) {
		var parsed shoonya.TouchlineMessage
		if err := json.Unmarshal(msg, &parsed); err != nil {
			logger.Warn("failed to parse feed message", zap.Error(err))
			return
		}

		switch parsed.Type {
		case shoonya.WSTouchlineAck, shoonya.WSTouchlineFeed:
		case shoonya.WSConnectAck:
			if parsed.Status != "OK" {
				logger.Error("feed connect rejected", zap.String("status", parsed.Status))
			}
			return
		default:
			return // Ignore other frames (order updates, heartbeats)
		}

		// tf frames only carry fields that changed
		if parsed.LastPrice == "" {
			return
		}

		lp, err := decimal.NewFromString(parsed.LastPrice)
		if err != nil {
			logger.Warn("invalid last price in feed", zap.String("token", parsed.Token),
				zap.String("lp", parsed.LastPrice))
			return
		}
		store.Set(parsed.Exchange, parsed.Token, lp)
	}
}
