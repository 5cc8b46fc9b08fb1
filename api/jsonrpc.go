package api

import (
	"context"
	"encoding/json"
	"fmt"
)

// JSONRPCRequest represents a JSON-RPC 2.0 request
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      interface{}     `json:"id"`
}

// JSONRPCResponse represents a JSON-RPC 2.0 response
type JSONRPCResponse struct {
	JSONRPC string        `json:"jsonrpc"`
	Result  interface{}   `json:"result,omitempty"`
	Error   *JSONRPCError `json:"error,omitempty"`
	ID      interface{}   `json:"id"`
}

// JSONRPCError represents a JSON-RPC 2.0 error
type JSONRPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ExecuteCommandParams represents parameters for shell.execute
type ExecuteCommandParams struct {
	SessionID string `json:"session_id"`
	Command   string `json:"command"`
}

// ExecuteCommandResult carries the interpreter result for shell.execute.
// Cwd is the session's directory after the command ran.
type ExecuteCommandResult struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
	Cwd    string `json:"cwd"`
	Code   int    `json:"code"`
}

// Error codes
const (
	ParseError     = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	InternalError  = -32603
)

// HandleJSONRPC processes a JSON-RPC request
func HandleJSONRPC(ctx context.Context, sm *SessionManager, request *JSONRPCRequest) *JSONRPCResponse {
	response := &JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      request.ID,
	}

	if request.JSONRPC != "2.0" {
		response.Error = &JSONRPCError{
			Code:    InvalidRequest,
			Message: "Invalid JSON-RPC version",
		}
		return response
	}

	switch request.Method {
	case "shell.execute":
		result, err := handleExecute(ctx, sm, request.Params)
		if err != nil {
			response.Error = err
		} else {
			response.Result = result
		}

	default:
		response.Error = &JSONRPCError{
			Code:    MethodNotFound,
			Message: fmt.Sprintf("Method not found: %s", request.Method),
		}
	}

	return response
}

// handleExecute handles the shell.execute method
func handleExecute(ctx context.Context, sm *SessionManager, params json.RawMessage) (*ExecuteCommandResult, *JSONRPCError) {
	var execParams ExecuteCommandParams
	if err := json.Unmarshal(params, &execParams); err != nil {
		return nil, &JSONRPCError{
			Code:    InvalidParams,
			Message: "Invalid parameters",
			Data:    err.Error(),
		}
	}

	if execParams.SessionID == "" {
		return nil, &JSONRPCError{
			Code:    InvalidParams,
			Message: "session_id is required",
		}
	}

	// An empty command is fine: the interpreter answers it with an
	// empty success result, which a REPL uses to re-prompt.

	session, err := sm.GetSession(execParams.SessionID)
	if err != nil {
		return nil, &JSONRPCError{
			Code:    InvalidParams,
			Message: "Invalid session",
			Data:    err.Error(),
		}
	}

	res := session.Execute(ctx, execParams.Command)

	return &ExecuteCommandResult{
		Stdout: res.Stdout,
		Stderr: res.Stderr,
		Cwd:    session.Cwd(),
		Code:   res.Code,
	}, nil
}
