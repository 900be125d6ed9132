package strategy

import "errors"

var (
	// ErrDataUnavailable means the quote or option chain was missing or malformed; the iteration is skipped.
	ErrDataUnavailable = errors.New("market data unavailable")

	// ErrStrikeNotFound means the chain has no contract at the computed strike.
	ErrStrikeNotFound = errors.New("strike not found in option chain")

	// ErrInvalidPrice means the underlying price is not positive.
	ErrInvalidPrice = errors.New("underlying price must be positive")

	// ErrOrderRejected means the broker did not accept the order.
	ErrOrderRejected = errors.New("order rejected")
)
