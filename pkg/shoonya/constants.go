package shoonya

const (
	DefaultBaseURL = "https://api.shoonya.com/NorenWClientTP"
	DefaultWSURL   = "wss://api.shoonya.com/NorenWSTP/"

	// StatOk is the "stat" value of a successful response; anything else is an error.
	StatOk = "Ok"

	// Request source reported to the broker.
	Source     = "API"
	APKVersion = "1.0.0"
)

// REST endpoints, relative to the base URL.
const (
	EndpointQuickAuth      = "/QuickAuth"
	EndpointGetQuotes      = "/GetQuotes"
	EndpointGetOptionChain = "/GetOptionChain"
	EndpointPlaceOrder     = "/PlaceOrder"
	EndpointLogout         = "/Logout"
)

// Order field values.
const (
	TransactionBuy  = "B"
	TransactionSell = "S"

	ProductCNC      = "C"
	ProductMIS      = "I"
	ProductNRML     = "M"
	PriceTypeLimit  = "LMT"
	PriceTypeMarket = "MKT"
	RetentionDay    = "DAY"
	RetentionIOC    = "IOC"
)

// Websocket message types ("t" field).
const (
	WSConnect       = "c"
	WSConnectAck    = "ck"
	WSTouchline     = "t"
	WSTouchlineAck  = "tk"
	WSTouchlineFeed = "tf"
)
