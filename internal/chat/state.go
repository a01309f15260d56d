// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/suaibot/internal/config"
	"github.com/jeranaias/suaibot/internal/identity"
	"github.com/jeranaias/suaibot/internal/local"
	"github.com/jeranaias/suaibot/internal/model"
)

// Service is the remote side of the conversation. *api.Client implements it.
type Service interface {
	SendMessage(ctx context.Context, req model.ChatRequest) (*model.ChatResponse, error)
	GetUserHistory(ctx context.Context, userID string, sessionID *string, limit int) (*model.ChatHistoryResponse, error)
	GetSessionHistory(ctx context.Context, sessionID string, limit int) (*model.ChatHistoryResponse, error)
	DeleteHistory(ctx context.Context, userID string, sessionID *string) (*model.DeleteHistoryResponse, error)
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options tunes a State.
type Options struct {
	// SaveHistory is sent with every message.
	SaveHistory bool

	UserLimit    int
	SessionLimit int

	// Greeting replaces the localized greeting when non-empty.
	Greeting string
	Language local.Language

	// Now is the clock for message times (default: time.Now).
	Now func() time.Time
}

// DefaultOptions mirrors config.Default.
func DefaultOptions() Options {
	return Options{
		SaveHistory:  true,
		UserLimit:    50,
		SessionLimit: 100,
		Language:     local.Rus,
	}
}

// OptionsFrom builds Options from the application config.
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		SaveHistory:  cfg.Chat.SaveHistory,
		UserLimit:    cfg.History.UserLimit,
		SessionLimit: cfg.History.SessionLimit,
		Greeting:     cfg.Chat.Greeting,
		Language:     local.ParseLanguage(cfg.UI.Language),
	}
}

// =============================================================================
// STATE
// =============================================================================

// State is the chat state container: displayed messages, input buffer,
// loading flag, last error and the identity of the conversation.
//
// At most one send is outstanding; the loading flag is checked and set under
// the mutex. Network calls happen outside the mutex.
type State struct {
	mu sync.Mutex

	svc   Service
	ident *identity.Identity
	opts  Options

	messages  []model.Message
	input     string
	loading   bool
	errMsg    string
	userID    string
	sessionID *string

	// generation is bumped whenever the message list is replaced so that a
	// reply to a send started before the replacement is dropped.
	generation uint64
}

// Pending is a send that has been started with BeginSend.
type Pending struct {
	Request    model.ChatRequest
	generation uint64
}

// Snapshot is a copy of the state for rendering.
type Snapshot struct {
	Messages  []model.Message
	Input     string
	Loading   bool
	Error     string
	UserID    string
	SessionID *string

	UserCount int
	BotCount  int
	Stats     model.UsageStats
}

// New creates a State. The user id is generated on first use and the session
// id is restored from ident. The message list starts with the greeting.
func New(svc Service, ident *identity.Identity, opts Options) (*State, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.UserLimit <= 0 {
		opts.UserLimit = DefaultOptions().UserLimit
	}
	if opts.SessionLimit <= 0 {
		opts.SessionLimit = DefaultOptions().SessionLimit
	}

	userID, err := ident.UserID()
	if err != nil {
		return nil, err
	}
	sessionID, err := ident.SessionID()
	if err != nil {
		return nil, err
	}

	s := &State{
		svc:       svc,
		ident:     ident,
		opts:      opts,
		userID:    userID,
		sessionID: sessionID,
	}
	s.messages = []model.Message{s.greeting()}
	return s, nil
}

func (s *State) greeting() model.Message {
	text := s.opts.Greeting
	if text == "" {
		text = local.Greeting.Text(s.opts.Language)
	}
	return model.NewGreeting(text, s.opts.Now())
}

// resetLocked replaces the conversation with the greeting. A send already in
// flight keeps loading set until its FinishSend, which then drops the reply.
func (s *State) resetLocked() {
	s.messages = []model.Message{s.greeting()}
	s.errMsg = ""
	s.generation++
}

// =============================================================================
// INPUT
// =============================================================================

// SetInput replaces the input buffer.
func (s *State) SetInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = text
}

// Input returns the input buffer.
func (s *State) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// =============================================================================
// SEND
// =============================================================================

// BeginSend validates the input and, when it is non-empty and no send is in
// progress, appends the user message, clears the input, sets loading and
// returns the request to issue. Otherwise it returns false and changes nothing.
func (s *State) BeginSend() (*Pending, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text := norm.NFC.String(strings.TrimSpace(s.input))
	if text == "" || s.loading {
		return nil, false
	}

	s.errMsg = ""
	s.messages = append(s.messages, model.NewUserMessage(text, s.opts.Now()))
	s.input = ""
	s.loading = true

	return &Pending{
		Request: model.ChatRequest{
			UserID:      s.userID,
			Message:     text,
			SessionID:   copyID(s.sessionID),
			SaveHistory: s.opts.SaveHistory,
		},
		generation: s.generation,
	}, true
}

// FinishSend records the outcome of a send started with BeginSend. On success
// the reply is appended and, if there was no session yet, the session id from
// the response is adopted and persisted. On failure the error is stored.
// Results for a conversation that has since been reset are dropped, but the
// send still counts as finished.
func (s *State) FinishSend(p *Pending, resp *model.ChatResponse, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p == nil {
		return
	}
	s.loading = false
	if p.generation != s.generation {
		slog.Debug("dropping reply for a reset conversation")
		return
	}

	if err != nil {
		s.errMsg = err.Error()
		return
	}
	if resp == nil {
		s.errMsg = "empty response"
		return
	}

	s.messages = append(s.messages, model.NewBotMessage(resp.Response, s.opts.Now(), resp.Sources, resp.Images))
	s.errMsg = ""

	if s.sessionID == nil && resp.SessionID != nil && *resp.SessionID != "" {
		s.sessionID = copyID(resp.SessionID)
		if perr := s.ident.SetSessionID(s.sessionID); perr != nil {
			slog.Warn("failed to persist session id", "error", perr)
		}
	}
}

// SendMessage sends the current input. Empty input or a send already in
// progress make it a no-op returning nil. The returned error is also stored
// in the state.
func (s *State) SendMessage(ctx context.Context) error {
	p, ok := s.BeginSend()
	if !ok {
		return nil
	}
	return s.Dispatch(ctx, p)
}

// Dispatch issues the request of a pending send and records its outcome.
// Callers that must render the optimistic user message first use BeginSend
// and run Dispatch in the background.
func (s *State) Dispatch(ctx context.Context, p *Pending) error {
	resp, err := s.svc.SendMessage(ctx, p.Request)
	s.FinishSend(p, resp, err)
	return err
}

// Ask sets the input to text and sends it.
func (s *State) Ask(ctx context.Context, text string) error {
	s.SetInput(text)
	return s.SendMessage(ctx)
}

// =============================================================================
// SESSION OPERATIONS
// =============================================================================

// CreateNewSession clears the session id and resets the conversation to the
// greeting. The server assigns a new session id on the next send.
func (s *State) CreateNewSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessionID = nil
	s.resetLocked()
	if err := s.ident.SetSessionID(nil); err != nil {
		s.errMsg = err.Error()
		return err
	}
	return nil
}

// DeleteSessionHistory deletes the current session's history on the server
// (all of the user's history when there is no session) and then resets
// locally like CreateNewSession. On failure the local state is kept.
func (s *State) DeleteSessionHistory(ctx context.Context) (*model.DeleteHistoryResponse, error) {
	s.mu.Lock()
	userID, sessionID := s.userID, copyID(s.sessionID)
	s.mu.Unlock()

	resp, err := s.svc.DeleteHistory(ctx, userID, sessionID)
	if err != nil {
		s.setError(err)
		return nil, err
	}
	if err := s.CreateNewSession(); err != nil {
		return resp, err
	}
	return resp, nil
}

// LoadSessionHistory replaces the conversation with the server's history:
// the current session's when a session id is set, otherwise the user's.
// An empty history leaves just the greeting. Returns the number of messages
// loaded.
func (s *State) LoadSessionHistory(ctx context.Context) (int, error) {
	s.mu.Lock()
	userID, sessionID := s.userID, copyID(s.sessionID)
	opts := s.opts
	s.mu.Unlock()

	var (
		history *model.ChatHistoryResponse
		err     error
	)
	if sessionID != nil {
		history, err = s.svc.GetSessionHistory(ctx, *sessionID, opts.SessionLimit)
	} else {
		history, err = s.svc.GetUserHistory(ctx, userID, nil, opts.UserLimit)
	}
	if err != nil {
		s.setError(err)
		return 0, err
	}

	msgs := model.MessagesFromHistory(history)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	if len(msgs) > 0 {
		s.messages = msgs
	}
	return len(msgs), nil
}

// SwitchSession makes id the active session and persists it. A nil id is the
// same as CreateNewSession. The caller usually follows with LoadSessionHistory.
func (s *State) SwitchSession(id *string) error {
	if id == nil || *id == "" {
		return s.CreateNewSession()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionID = copyID(id)
	s.resetLocked()
	if err := s.ident.SetSessionID(s.sessionID); err != nil {
		s.errMsg = err.Error()
		return err
	}
	return nil
}

// SyncSession re-reads the session id from the identity store and adopts it
// when another process changed it. Reports whether it changed.
func (s *State) SyncSession() (bool, error) {
	stored, err := s.ident.SessionID()
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sameID(stored, s.sessionID) {
		return false, nil
	}
	s.sessionID = stored
	s.resetLocked()
	return true, nil
}

// =============================================================================
// ERROR
// =============================================================================

func (s *State) setError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = err.Error()
}

// Error returns the last error message, or "".
func (s *State) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// ClearError dismisses the current error.
func (s *State) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Loading reports whether a send is in progress.
func (s *State) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// UserID returns the durable user id.
func (s *State) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// SessionID returns a copy of the active session id, or nil.
func (s *State) SessionID() *string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyID(s.sessionID)
}

// Messages returns a copy of the message list.
func (s *State) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// UserMessageCount returns the number of user messages.
func (s *State) UserMessageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, _ := model.CountBySender(s.messages)
	return user
}

// BotMessageCount returns the number of bot messages, greeting included.
func (s *State) BotMessageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, bot := model.CountBySender(s.messages)
	return bot
}

// Stats returns the usage stats of the displayed conversation.
func (s *State) Stats() model.UsageStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.ComputeStats(s.messages)
}

// Language returns the configured UI language.
func (s *State) Language() local.Language {
	return s.opts.Language
}

// Snapshot returns a consistent copy of everything a view needs.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := make([]model.Message, len(s.messages))
	copy(msgs, s.messages)
	user, bot := model.CountBySender(msgs)

	return Snapshot{
		Messages:  msgs,
		Input:     s.input,
		Loading:   s.loading,
		Error:     s.errMsg,
		UserID:    s.userID,
		SessionID: copyID(s.sessionID),
		UserCount: user,
		BotCount:  bot,
		Stats:     model.ComputeStats(msgs),
	}
}

// String summarizes the state for logs.
func (s *State) String() string {
	snap := s.Snapshot()
	session := "<none>"
	if snap.SessionID != nil {
		session = *snap.SessionID
	}
	return fmt.Sprintf("chat{user=%s session=%s messages=%d loading=%t}",
		snap.UserID, session, len(snap.Messages), snap.Loading)
}

func copyID(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func sameID(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
