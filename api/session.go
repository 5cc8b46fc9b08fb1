package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	websh "github.com/telnet2/go-practice/go-websh"
)

// Session binds one interpreter to one client. The interpreter carries
// multi-line capture state between calls, so Execute serializes access.
type Session struct {
	ID        string
	CreatedAt time.Time
	LastUsed  time.Time

	interp *websh.Interpreter
	cwd    string
	mu     sync.Mutex
}

// Execute runs one command line in the session. The working directory is
// retained across calls; a result with an empty Dir leaves it as is.
func (s *Session) Execute(ctx context.Context, line string) websh.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastUsed = time.Now()
	res := s.interp.ExecuteContext(ctx, line, s.cwd)
	if res.Dir != "" {
		s.cwd = res.Dir
	}
	return res
}

// Cwd returns the session's current working directory.
func (s *Session) Cwd() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cwd
}

// SessionManager manages interpreter sessions keyed by UUID.
type SessionManager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	newFs    func() afero.Fs
}

// NewSessionManager creates a session manager. newFs builds the
// filesystem for each new session; nil gives every session its own
// in-memory filesystem.
func NewSessionManager(newFs func() afero.Fs) *SessionManager {
	if newFs == nil {
		newFs = func() afero.Fs { return afero.NewMemMapFs() }
	}
	return &SessionManager{
		sessions: make(map[string]*Session),
		newFs:    newFs,
	}
}

// CreateSession creates a new interpreter session starting in the
// default working directory.
func (sm *SessionManager) CreateSession() *Session {
	fs := sm.newFs()
	_ = fs.MkdirAll(websh.DefaultWorkDir, 0o755)

	session := &Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		LastUsed:  time.Now(),
		interp:    websh.New(fs),
		cwd:       websh.DefaultWorkDir,
	}

	sm.mu.Lock()
	sm.sessions[session.ID] = session
	sm.mu.Unlock()

	return session
}

// GetSession retrieves a session by ID.
func (sm *SessionManager) GetSession(sessionID string) (*Session, error) {
	sm.mu.RLock()
	session, exists := sm.sessions[sessionID]
	sm.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("session not found: %s", sessionID)
	}
	return session, nil
}

// ListSessions returns all active sessions.
func (sm *SessionManager) ListSessions() []*Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sessions := make([]*Session, 0, len(sm.sessions))
	for _, session := range sm.sessions {
		sessions = append(sessions, session)
	}
	return sessions
}

// RemoveSession removes a session by ID.
func (sm *SessionManager) RemoveSession(sessionID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[sessionID]; !exists {
		return fmt.Errorf("session not found: %s", sessionID)
	}
	delete(sm.sessions, sessionID)
	return nil
}
