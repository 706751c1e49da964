package agent

import (
	"sync"
	"time"

	"github.com/dmforge/encounter-api/internal/errors"
	encounterorc "github.com/dmforge/encounter-api/internal/orchestrators/encounter"
	"github.com/dmforge/encounter-api/internal/pkg/clock"
)

// ManagerConfig holds the dependencies shared by every session
type ManagerConfig struct {
	Orchestrator encounterorc.Service

	// Clock is optional; the real clock is used when nil
	Clock clock.Clock

	// Cooldown is optional; 0 uses DefaultCooldown
	Cooldown time.Duration
}

// Validate checks that all required dependencies are provided
func (c *ManagerConfig) Validate() error {
	if c.Orchestrator == nil {
		return errors.InvalidArgument("orchestrator is required")
	}
	return nil
}

// Manager hands out the per-session trigger hooks, creating them on first
// use. Sessions never share trigger state.
type Manager struct {
	orchestrator encounterorc.Service
	clock        clock.Clock
	cooldown     time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a session manager
func NewManager(cfg *ManagerConfig) (*Manager, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &Manager{
		orchestrator: cfg.Orchestrator,
		clock:        c,
		cooldown:     cfg.Cooldown,
		sessions:     make(map[string]*Session),
	}, nil
}

// Session returns the trigger hook for the given session ID, creating it if
// this is the session's first turn
func (m *Manager) Session(sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if session, ok := m.sessions[sessionID]; ok {
		return session, nil
	}

	session, err := NewSession(&SessionConfig{
		SessionID:    sessionID,
		Orchestrator: m.orchestrator,
		Clock:        m.clock,
		Cooldown:     m.cooldown,
	})
	if err != nil {
		return nil, err
	}
	m.sessions[sessionID] = session
	return session, nil
}
