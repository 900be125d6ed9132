package shoonya

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WSSession carries the login details the feed needs to authenticate.
type WSSession struct {
	UserID    string
	AccountID string
	UserToken string
}

// WSClient handles the NorenAPI websocket feed and message routing.
type WSClient struct {
	url            string
	reconnectDelay time.Duration
	session        WSSession
	topics         []string
	handler        func([]byte)
	logger         *zap.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWSClient creates a websocket client; reconnectDelay is the pause between reconnect attempts.
func NewWSClient(url string, reconnectDelay time.Duration, logger *zap.Logger) *WSClient {
	if reconnectDelay <= 0 {
		reconnectDelay = 3 * time.Second
	}
	return &WSClient{
		url:            url,
		reconnectDelay: reconnectDelay,
		logger:         logger,
	}
}

// SetMessageHandler sets the function to handle incoming messages.
func (c *WSClient) SetMessageHandler(h func([]byte)) {
	c.handler = h
}

// TouchlineTopic formats a subscription key such as "NSE|26009".
func TouchlineTopic(exchange, token string) string {
	return exchange + "|" + token
}

// Connect dials the feed, authenticates with the session and subscribes to
// touchline updates for the given topics. It does not start the listener.
func (c *WSClient) Connect(ctx context.Context, session WSSession, topics []string) error {
	c.session = session
	c.topics = topics

	conn, err := c.dial(ctx)
	if err != nil {
		c.logger.Error("Failed to connect to WebSocket", zap.String("url", c.url), zap.Error(err))
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	c.logger.Info("WebSocket connected", zap.String("url", c.url), zap.Strings("topics", topics))
	return nil
}

// Listen reads messages until ctx is cancelled, reconnecting after read errors.
func (c *WSClient) Listen(ctx context.Context) {
	go func() {
		<-ctx.Done()
		c.Close()
	}()

	for {
		conn := c.current()
		if conn == nil {
			return
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("WebSocket read error", zap.Error(err))

			// Retry reconnecting until the context ends
			for {
				select {
				case <-ctx.Done():
					return
				case <-time.After(c.reconnectDelay):
				}
				if err := c.reconnect(ctx); err != nil {
					c.logger.Warn("Retrying reconnect...", zap.Error(err))
					continue
				}
				c.logger.Info("Reconnected successfully")
				break
			}
			continue
		}

		if c.handler != nil {
			c.handler(msg)
		}
	}
}

// Close closes the current connection, if any.
func (c *WSClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *WSClient) current() *websocket.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

func (c *WSClient) reconnect(ctx context.Context) error {
	newConn, err := c.dial(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if ctx.Err() != nil {
		_ = newConn.Close()
		return ctx.Err()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.conn = newConn
	return nil
}

// dial opens a connection and sends the connect and subscribe frames.
func (c *WSClient) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return nil, err
	}

	connectMsg := map[string]string{
		"t":          WSConnect,
		"uid":        c.session.UserID,
		"actid":      c.session.AccountID,
		"susertoken": c.session.UserToken,
		"source":     Source,
	}
	if err := conn.WriteJSON(connectMsg); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("websocket connect frame failed: %w", err)
	}

	if len(c.topics) > 0 {
		subMsg := map[string]string{
			"t": WSTouchline,
			"k": strings.Join(c.topics, "#"),
		}
		if err := conn.WriteJSON(subMsg); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("websocket subscribe failed: %w", err)
		}
	}

	return conn, nil
}
