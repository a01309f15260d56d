// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"io"
	"time"

	"github.com/jeranaias/suaibot/internal/model"
)

// JSONResponse is the envelope of every --json output.
type JSONResponse struct {
	Success bool `json:"success"`

	// Data is the command-specific payload
	Data any `json:"data"`

	// Error is null on success
	Error *string `json:"error"`

	// Timestamp is RFC3339 UTC
	Timestamp string `json:"timestamp"`

	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a successful response.
func NewJSONResponse(command string, data any) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a failed response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Success:   false,
		Error:     &errStr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print writes the response as indented JSON.
func (r *JSONResponse) Print(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// =============================================================================
// COMMAND PAYLOADS
// =============================================================================

// VersionData is the payload of "version --json".
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// AskData is the payload of "ask --json".
type AskData struct {
	Question  string            `json:"question"`
	Answer    string            `json:"answer"`
	UserID    string            `json:"user_id"`
	SessionID *string           `json:"session_id"`
	Sources   map[string]string `json:"sources,omitempty"`
	Images    map[string]any    `json:"images,omitempty"`
}

// HistoryData is the payload of "history --json".
type HistoryData struct {
	UserID    string           `json:"user_id"`
	SessionID *string          `json:"session_id"`
	Total     int              `json:"total"`
	Messages  []model.Message  `json:"messages"`
	Stats     model.UsageStats `json:"stats"`
}

// DeleteData is the payload of "delete --json".
type DeleteData struct {
	DeletedCount int     `json:"deleted_count"`
	UserID       string  `json:"user_id"`
	SessionID    *string `json:"session_id"`
}

// SessionData is the payload of "session --json".
type SessionData struct {
	UserID    string  `json:"user_id"`
	SessionID *string `json:"session_id"`
	Theme     string  `json:"theme,omitempty"`
	Store     string  `json:"store"`
}

// ConfigData is the payload of "config show --json".
type ConfigData struct {
	Path   string            `json:"path"`
	Values map[string]string `json:"values"`
}
