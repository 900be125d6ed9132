// Package session owns the broker login for the lifetime of the trader.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"optionbuyer/internal/broker"

	"go.uber.org/zap"
)

var (
	ErrAuthentication = errors.New("authentication failed")
	ErrLogout         = errors.New("logout failed")
	ErrInvalidState   = errors.New("invalid session state")
)

type State int

const (
	Unauthenticated State = iota
	Authenticated
	Closed
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	case Closed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Manager logs in once and logs out once. There is no refresh or reconnect:
// Unauthenticated -> Authenticated -> Closed, or straight to Closed if never opened.
type Manager struct {
	broker broker.Broker
	creds  broker.Credentials
	logger *zap.Logger

	mu    sync.Mutex
	state State
}

func NewManager(b broker.Broker, creds broker.Credentials, logger *zap.Logger) *Manager {
	return &Manager{
		broker: b,
		creds:  creds,
		logger: logger,
	}
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Open authenticates. A failed login leaves the manager Unauthenticated.
func (m *Manager) Open(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Unauthenticated {
		return fmt.Errorf("%w: open while %s", ErrInvalidState, m.state)
	}

	res, err := m.broker.Login(ctx, m.creds)
	if err != nil {
		m.logger.Error("Failed to log in", zap.String("uid", m.creds.UserID), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	}

	m.state = Authenticated
	m.logger.Info("Logged in successfully",
		zap.String("uid", m.creds.UserID),
		zap.String("uname", res.UserName),
		zap.String("actid", res.AccountID))
	return nil
}

// Close logs out once. The manager is Closed afterwards whatever the outcome;
// closing an unopened or already closed session does not call the broker.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.state
	m.state = Closed
	if prev != Authenticated {
		return nil
	}

	if err := m.broker.Logout(ctx); err != nil {
		m.logger.Warn("Failed to log out", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrLogout, err)
	}
	m.logger.Info("Logged out successfully")
	return nil
}
