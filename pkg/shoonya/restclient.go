package shoonya

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ErrNotLoggedIn is returned by session calls made before QuickAuth succeeded.
var ErrNotLoggedIn = errors.New("shoonya: not logged in")

// RESTClient talks to the NorenAPI REST gateway. It keeps the session token
// returned by QuickAuth and sends it as jKey on every later call.
type RESTClient struct {
	baseURL    string
	httpClient *http.Client

	mu        sync.RWMutex
	userID    string
	accountID string
	userToken string
}

func NewRESTClient(baseURL string, timeout time.Duration) *RESTClient {
	return &RESTClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *RESTClient) HTTPClient() *http.Client {
	return c.httpClient
}

// Session returns the user id, account id and session token of the current login.
func (c *RESTClient) Session() (userID, accountID, userToken string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID, c.accountID, c.userToken
}

// SHA256Hex returns the lowercase hex sha256 digest of s.
func SHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// NewLoginRequest builds a QuickAuth payload from plain credentials,
// hashing the password and deriving the app key.
func NewLoginRequest(userID, password, factor2, vendorCode, apiSecret, imei string) LoginRequest {
	return LoginRequest{
		Source:     Source,
		APKVersion: APKVersion,
		UserID:     userID,
		Password:   SHA256Hex(password),
		Factor2:    factor2,
		VendorCode: vendorCode,
		AppKey:     SHA256Hex(userID + "|" + apiSecret),
		IMEI:       imei,
	}
}

// QuickAuth logs in and stores the session token.
func (c *RESTClient) QuickAuth(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.post(ctx, EndpointQuickAuth, req, "", &resp, &resp.Envelope); err != nil {
		return nil, err
	}
	if resp.UserToken == "" {
		return nil, fmt.Errorf("shoonya %s: empty session token", EndpointQuickAuth)
	}

	accountID := resp.AccountID
	if accountID == "" {
		accountID = req.UserID
	}

	c.mu.Lock()
	c.userID = req.UserID
	c.accountID = accountID
	c.userToken = resp.UserToken
	c.mu.Unlock()

	return &resp, nil
}

// GetQuotes fetches the quote of one instrument token on an exchange.
func (c *RESTClient) GetQuotes(ctx context.Context, exchange, token string) (*QuoteResponse, error) {
	userID, _, key, err := c.session()
	if err != nil {
		return nil, err
	}

	var resp QuoteResponse
	req := QuoteRequest{UserID: userID, Exchange: exchange, Token: token}
	if err := c.post(ctx, EndpointGetQuotes, req, key, &resp, &resp.Envelope); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetOptionChain fetches count strikes on each side of strikePrice for the given trading symbol.
func (c *RESTClient) GetOptionChain(ctx context.Context, exchange, tradingSymbol, strikePrice string,
	count int) (*OptionChainResponse, error) {
	userID, _, key, err := c.session()
	if err != nil {
		return nil, err
	}

	var resp OptionChainResponse
	req := OptionChainRequest{
		UserID:        userID,
		Exchange:      exchange,
		TradingSymbol: tradingSymbol,
		StrikePrice:   strikePrice,
		Count:         strconv.Itoa(count),
	}
	if err := c.post(ctx, EndpointGetOptionChain, req, key, &resp, &resp.Envelope); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PlaceOrder submits an order. UserID, AccountID and OrderSource are filled from the session when empty.
func (c *RESTClient) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResponse, error) {
	userID, accountID, key, err := c.session()
	if err != nil {
		return nil, err
	}
	if req.UserID == "" {
		req.UserID = userID
	}
	if req.AccountID == "" {
		req.AccountID = accountID
	}
	if req.OrderSource == "" {
		req.OrderSource = Source
	}

	var resp PlaceOrderResponse
	if err := c.post(ctx, EndpointPlaceOrder, req, key, &resp, &resp.Envelope); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout ends the session. The stored token is cleared whatever the outcome.
func (c *RESTClient) Logout(ctx context.Context) (*LogoutResponse, error) {
	userID, _, key, err := c.session()
	if err != nil {
		return nil, err
	}

	defer func() {
		c.mu.Lock()
		c.userToken = ""
		c.mu.Unlock()
	}()

	var resp LogoutResponse
	if err := c.post(ctx, EndpointLogout, LogoutRequest{UserID: userID}, key, &resp, &resp.Envelope); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *RESTClient) session() (userID, accountID, key string, err error) {
	userID, accountID, key = c.Session()
	if key == "" {
		return "", "", "", ErrNotLoggedIn
	}
	return userID, accountID, key, nil
}

// post sends payload as "jData=<json>[&jKey=<key>]", decodes the body into out
// and converts a non-Ok envelope into an *APIError.
func (c *RESTClient) post(ctx context.Context, endpoint string, payload any, key string,
	out any, env *Envelope) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	body := "jData=" + string(data)
	if key != "" {
		body += "&jKey=" + key
	}

	// Construct the POST request with context for timeout/cancel support
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")

	// Execute the HTTP request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	// Error answers usually still carry a JSON envelope, so decode before checking the status code
	if err := json.Unmarshal(raw, out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("shoonya %s: http %d: %s", endpoint, resp.StatusCode, raw)
		}
		return fmt.Errorf("decode response: %w", err)
	}

	if env.Stat != StatOk {
		return &APIError{Endpoint: endpoint, Stat: env.Stat, Message: env.Emsg}
	}
	return nil
}
