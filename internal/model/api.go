// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// ChatRequest is the body of POST /message.
type ChatRequest struct {
	UserID      string  `json:"user_id"`
	Message     string  `json:"message"`
	SessionID   *string `json:"session_id"`
	SaveHistory bool    `json:"save_history"`
}

// ChatResponse is the answer to a ChatRequest.
type ChatResponse struct {
	Response  string            `json:"response"`
	UserID    string            `json:"user_id"`
	SessionID *string           `json:"session_id"`
	Sources   map[string]string `json:"sources,omitempty"`
	Images    map[string]any    `json:"images,omitempty"`
}

// ChatMessageResponse is one stored history row.
type ChatMessageResponse struct {
	ID          int64          `json:"id"`
	UserID      string         `json:"user_id"`
	SessionID   *string        `json:"session_id"`
	MessageType string         `json:"message_type"`
	Content     string         `json:"content"`
	ExtraData   map[string]any `json:"extra_data"`
	CreatedAt   string         `json:"created_at"`
}

// ChatHistoryResponse is returned by both history endpoints.
type ChatHistoryResponse struct {
	Messages  []ChatMessageResponse `json:"messages"`
	Total     int                   `json:"total"`
	UserID    string                `json:"user_id"`
	SessionID *string               `json:"session_id"`
}

// DeleteHistoryResponse is returned by DELETE /history/{user_id}.
type DeleteHistoryResponse struct {
	DeletedCount int     `json:"deleted_count"`
	UserID       string  `json:"user_id"`
	SessionID    *string `json:"session_id"`
}

// createdAtLayouts covers what Python backends commonly emit: RFC 3339 with
// or without zone, with or without fractional seconds.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseCreatedAt parses a history timestamp. Values without a zone are UTC.
func ParseCreatedAt(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// ToMessage converts a history row into a display message.
// Sources and images are taken from extra_data when present.
func (r ChatMessageResponse) ToMessage() Message {
	msg := Message{
		ID:     r.ID,
		Text:   r.Content,
		Sender: SenderFromMessageType(r.MessageType),
	}
	if t, err := ParseCreatedAt(r.CreatedAt); err == nil {
		msg.Time = FormatTime(t)
	}
	if r.ExtraData != nil {
		if raw, ok := r.ExtraData["sources"].(map[string]any); ok && len(raw) > 0 {
			msg.Sources = make(map[string]string, len(raw))
			for k, v := range raw {
				msg.Sources[k] = fmt.Sprint(v)
			}
		}
		if raw, ok := r.ExtraData["images"].(map[string]any); ok && len(raw) > 0 {
			msg.Images = raw
		}
	}
	return msg
}

// MessagesFromHistory converts every row of a history response, oldest first
// as returned by the server.
func MessagesFromHistory(h *ChatHistoryResponse) []Message {
	if h == nil || len(h.Messages) == 0 {
		return nil
	}
	out := make([]Message, 0, len(h.Messages))
	for _, row := range h.Messages {
		out = append(out, row.ToMessage())
	}
	return out
}
