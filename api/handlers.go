package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	websh "github.com/telnet2/go-practice/go-websh"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// ExecRequest is the body of POST /api/exec.
type ExecRequest struct {
	Cmd string `json:"cmd"`
	Cwd string `json:"cwd"`
}

// ExecResponse is the envelope returned by POST /api/exec. Cwd always
// carries a directory: when the command leaves the working directory
// unchanged, the caller's cwd is echoed back.
type ExecResponse struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
	Cwd    string `json:"cwd"`
	Code   int    `json:"code"`
}

// SessionInfo represents session information for API responses
type SessionInfo struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	LastUsed  time.Time `json:"last_used"`
	Cwd       string    `json:"cwd"`
}

// CreateSessionResponse represents the response for session creation
type CreateSessionResponse struct {
	Session SessionInfo `json:"session"`
}

// ListSessionsResponse represents the response for listing sessions
type ListSessionsResponse struct {
	Sessions []SessionInfo `json:"sessions"`
}

// RemoveSessionRequest represents the request for removing a session
type RemoveSessionRequest struct {
	SessionID string `json:"session_id"`
}

// RemoveSessionResponse represents the response for session removal
type RemoveSessionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server exposes the interpreter over HTTP: a stateless exec endpoint
// where the caller owns the cwd, session management, and a WebSocket
// JSON-RPC REPL for session-bound clients.
type Server struct {
	SessionManager *SessionManager

	logger *zap.Logger

	// defaultInterp serves /api/exec. The interpreter itself is not
	// concurrency-safe across capture sessions, so calls are serialized.
	defaultInterp *websh.Interpreter
	defaultMu     sync.Mutex
}

// NewServer creates an API server. The default interpreter for
// /api/exec runs on fs; sessions created through the session endpoints
// each get their own filesystem from newFs.
func NewServer(fs afero.Fs, newFs func() afero.Fs, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		SessionManager: NewSessionManager(newFs),
		logger:         logger,
		defaultInterp:  websh.New(fs),
	}
}

// RegisterRoutes attaches all handlers to mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/exec", s.HandleExec)
	mux.HandleFunc("/api/v1/session/create", s.HandleCreateSession)
	mux.HandleFunc("/api/v1/session/list", s.HandleListSessions)
	mux.HandleFunc("/api/v1/session/remove", s.HandleRemoveSession)
	mux.HandleFunc("/api/v1/session/repl", s.HandleREPL)
	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/", s.HandleIndex)
}

// HandleExec handles POST /api/exec. The caller supplies the command
// line and its current working directory and gets back captured stdout,
// stderr, the directory for the next call, and the exit code.
func (s *Server) HandleExec(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ExecRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Cwd == "" {
		req.Cwd = websh.DefaultWorkDir
	}

	s.defaultMu.Lock()
	res := s.defaultInterp.ExecuteContext(r.Context(), req.Cmd, req.Cwd)
	s.defaultMu.Unlock()

	cwd := res.Dir
	if cwd == "" {
		cwd = req.Cwd
	}

	s.logger.Debug("exec",
		zap.String("cmd", req.Cmd),
		zap.String("cwd", cwd),
		zap.Int("code", res.Code))

	respondJSON(w, ExecResponse{
		Stdout: res.Stdout,
		Stderr: res.Stderr,
		Cwd:    cwd,
		Code:   res.Code,
	}, http.StatusOK)
}

// HandleCreateSession handles POST /api/v1/session/create
func (s *Server) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session := s.SessionManager.CreateSession()
	s.logger.Info("session created", zap.String("id", session.ID))

	response := CreateSessionResponse{
		Session: SessionInfo{
			ID:        session.ID,
			CreatedAt: session.CreatedAt,
			LastUsed:  session.LastUsed,
			Cwd:       session.Cwd(),
		},
	}

	respondJSON(w, response, http.StatusCreated)
}

// HandleListSessions handles POST /api/v1/session/list
func (s *Server) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessions := s.SessionManager.ListSessions()

	sessionInfos := make([]SessionInfo, 0, len(sessions))
	for _, session := range sessions {
		sessionInfos = append(sessionInfos, SessionInfo{
			ID:        session.ID,
			CreatedAt: session.CreatedAt,
			LastUsed:  session.LastUsed,
			Cwd:       session.Cwd(),
		})
	}

	respondJSON(w, ListSessionsResponse{Sessions: sessionInfos}, http.StatusOK)
}

// HandleRemoveSession handles POST /api/v1/session/remove
func (s *Server) HandleRemoveSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RemoveSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.SessionManager.RemoveSession(req.SessionID); err != nil {
		respondError(w, err.Error(), http.StatusNotFound)
		return
	}
	s.logger.Info("session removed", zap.String("id", req.SessionID))

	respondJSON(w, RemoveSessionResponse{
		Success: true,
		Message: "Session removed successfully",
	}, http.StatusOK)
}

// HandleREPL handles WebSocket connection for /api/v1/session/repl
func (s *Server) HandleREPL(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "Failed to upgrade connection", http.StatusInternalServerError)
		return
	}
	defer conn.Close()

	for {
		var request JSONRPCRequest
		if err := conn.ReadJSON(&request); err != nil {
			break
		}

		response := HandleJSONRPC(r.Context(), s.SessionManager, &request)

		if err := conn.WriteJSON(response); err != nil {
			s.logger.Warn("repl write failed", zap.Error(err))
			break
		}
	}
}

// HandleHealth handles GET /health
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// HandleIndex serves the embedded terminal page at /.
func (s *Server) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
