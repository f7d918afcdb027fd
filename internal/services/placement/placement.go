// Package placement manages interactive placement sessions. The rendering
// layer re-solves a light continuously while it is dragged; each session
// tracks the latest request and result per light and fans updates out through
// the pubsub service.
package placement

import (
	"errors"
	"sync"
	"time"

	"github.com/lucsky/cuid"

	"github.com/luxplan/luxplan-go/internal/services/pubsub"
	"github.com/luxplan/luxplan-go/internal/services/solver"
)

// DefaultSessionTimeout is the idle timeout applied when none is configured.
const DefaultSessionTimeout = 30 * time.Minute

// ErrSessionClosed is returned when an update targets a session that does not
// exist or has already ended.
var ErrSessionClosed = errors.New("placement session closed")

// LightState is the latest solve for one light in a session.
type LightState struct {
	LightID   string
	Request   solver.Request
	Result    solver.Result
	UpdatedAt time.Time
}

// Update is published on TopicPlacementUpdated whenever a light is re-solved.
type Update struct {
	SessionID string
	LightID   string
	Result    solver.Result
}

// End is published on TopicSessionEnded when a session ends or expires.
type End struct {
	SessionID string
}

// Session represents an active placement session. Lights are computed
// independently of each other; the session only remembers the latest state
// per light ID.
type Session struct {
	ID           string
	IsActive     bool
	CreatedAt    time.Time
	LastActivity time.Time
	Lights       map[string]*LightState
}

// Service handles placement session operations.
type Service struct {
	mu             sync.RWMutex
	sessions       map[string]*Session
	sessionTimeout time.Duration
	sessionTimers  map[string]*time.Timer
	solver         *solver.Solver
	events         *pubsub.PubSub
}

// NewService creates a new placement service. A non-positive sessionTimeout
// falls back to DefaultSessionTimeout.
func NewService(slv *solver.Solver, events *pubsub.PubSub, sessionTimeout time.Duration) *Service {
	if sessionTimeout <= 0 {
		sessionTimeout = DefaultSessionTimeout
	}
	return &Service{
		sessions:       make(map[string]*Session),
		sessionTimeout: sessionTimeout,
		sessionTimers:  make(map[string]*time.Timer),
		solver:         slv,
		events:         events,
	}
}

// StartSession starts a new placement session.
func (s *Service) StartSession() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := &Session{
		ID:           cuid.New(),
		IsActive:     true,
		CreatedAt:    time.Now(),
		LastActivity: time.Now(),
		Lights:       make(map[string]*LightState),
	}
	s.sessions[session.ID] = session

	// Set auto-cleanup timeout
	timer := time.AfterFunc(s.sessionTimeout, func() {
		s.EndSession(session.ID)
	})
	s.sessionTimers[session.ID] = timer

	return session
}

// UpdateLight re-solves one light in a session and stores the result. Solver
// validation failures are returned as-is and leave the session state
// untouched.
func (s *Service) UpdateLight(sessionID, lightID string, req solver.Request) (solver.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[sessionID]
	if !exists || !session.IsActive {
		return solver.Result{}, ErrSessionClosed
	}

	result, err := s.solver.Solve(req)
	if err != nil {
		return solver.Result{}, err
	}

	session.Lights[lightID] = &LightState{
		LightID:   lightID,
		Request:   req,
		Result:    result,
		UpdatedAt: time.Now(),
	}
	session.LastActivity = time.Now()

	// Reset session timeout
	if timer, exists := s.sessionTimers[sessionID]; exists {
		timer.Reset(s.sessionTimeout)
	}

	if s.events != nil {
		s.events.Publish(pubsub.TopicPlacementUpdated, sessionID, Update{
			SessionID: sessionID,
			LightID:   lightID,
			Result:    result,
		})
	}

	return result, nil
}

// EndSession ends a placement session. Returns false when the session is
// already gone.
func (s *Service) EndSession(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[sessionID]
	if !exists {
		return false
	}

	// Clear timeout timer
	if timer, exists := s.sessionTimers[sessionID]; exists {
		timer.Stop()
		delete(s.sessionTimers, sessionID)
	}

	session.IsActive = false
	delete(s.sessions, sessionID)

	if s.events != nil {
		s.events.Publish(pubsub.TopicSessionEnded, sessionID, End{SessionID: sessionID})
	}

	return true
}

// GetSession returns a session by ID.
func (s *Service) GetSession(sessionID string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[sessionID]
}

// GetLight returns the latest state for a light in a session.
func (s *Service) GetLight(sessionID, lightID string) (*LightState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[sessionID]
	if !exists {
		return nil, false
	}
	state, exists := session.Lights[lightID]
	return state, exists
}

// SessionCount returns the number of active sessions.
func (s *Service) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
