package shoonya

import "fmt"

// Envelope is the status part shared by every NorenAPI response.
type Envelope struct {
	Stat        string `json:"stat"`                   // "Ok" on success, "Not_Ok" otherwise
	Emsg        string `json:"emsg,omitempty"`         // error message when Stat is not Ok
	RequestTime string `json:"request_time,omitempty"` // broker timestamp, "HH:MM:SS DD-MM-YYYY"
}

// APIError is returned when the broker answers with a non-Ok status.
type APIError struct {
	Endpoint string
	Stat     string
	Message  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shoonya %s: stat=%s: %s", e.Endpoint, e.Stat, e.Message)
}

type LoginRequest struct {
	Source     string `json:"source"`
	APKVersion string `json:"apkversion"`
	UserID     string `json:"uid"`
	Password   string `json:"pwd"` // sha256 hex of the plain password
	Factor2    string `json:"factor2"`
	VendorCode string `json:"vc"`
	AppKey     string `json:"appkey"` // sha256 hex of "uid|api secret"
	IMEI       string `json:"imei"`
}

type LoginResponse struct {
	Envelope
	UserToken string   `json:"susertoken"`
	UserName  string   `json:"uname"`
	AccountID string   `json:"actid"`
	Exchanges []string `json:"exarr"`
}

type QuoteRequest struct {
	UserID   string `json:"uid"`
	Exchange string `json:"exch"`
	Token    string `json:"token"`
}

type QuoteResponse struct {
	Envelope
	Exchange      string `json:"exch"`
	TradingSymbol string `json:"tsym"`
	Token         string `json:"token"`
	LastPrice     string `json:"lp"`
	Open          string `json:"o,omitempty"`
	High          string `json:"h,omitempty"`
	Low           string `json:"l,omitempty"`
	Close         string `json:"c,omitempty"`
	Volume        string `json:"v,omitempty"`
}

type OptionChainRequest struct {
	UserID        string `json:"uid"`
	Exchange      string `json:"exch"`
	TradingSymbol string `json:"tsym"`
	StrikePrice   string `json:"strprc"`
	Count         string `json:"cnt"`
}

type OptionChainEntry struct {
	Exchange      string `json:"exch"`
	TradingSymbol string `json:"tsym"`
	Token         string `json:"token"`
	OptionType    string `json:"optt"` // "CE" or "PE"
	StrikePrice   string `json:"strprc"`
	LotSize       string `json:"ls"`
	TickSize      string `json:"ti"`
	LastPrice     string `json:"lp,omitempty"` // not always present
}

type OptionChainResponse struct {
	Envelope
	Values []OptionChainEntry `json:"values"`
}

type PlaceOrderRequest struct {
	OrderSource       string `json:"ordersource"`
	UserID            string `json:"uid"`
	AccountID         string `json:"actid"`
	TransactionType   string `json:"trantype"`
	Product           string `json:"prd"`
	Exchange          string `json:"exch"`
	TradingSymbol     string `json:"tsym"`
	Quantity          string `json:"qty"`
	DisclosedQuantity string `json:"dscqty"`
	PriceType         string `json:"prctyp"`
	Price             string `json:"prc"`
	Retention         string `json:"ret"`
	Remarks           string `json:"remarks,omitempty"`
}

type PlaceOrderResponse struct {
	Envelope
	OrderNo string `json:"norenordno"`
}

type LogoutRequest struct {
	UserID string `json:"uid"`
}

type LogoutResponse struct {
	Envelope
}

// TouchlineMessage is a websocket touchline frame ("tk" acknowledgement or "tf" update).
type TouchlineMessage struct {
	Type          string `json:"t"`
	Exchange      string `json:"e"`
	Token         string `json:"tk"`
	TradingSymbol string `json:"ts,omitempty"`
	LastPrice     string `json:"lp,omitempty"`
	Status        string `json:"s,omitempty"`
}
