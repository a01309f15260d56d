// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	chatstate "github.com/jeranaias/suaibot/internal/chat"
	"github.com/jeranaias/suaibot/internal/model"
)

// =============================================================================
// REQUEST RESULTS
// =============================================================================

// SendDoneMsg carries the result of a send started with BeginSend.
type SendDoneMsg struct {
	Pending *chatstate.Pending
	Err     error
}

// HistoryLoadedMsg is sent after LoadSessionHistory returns.
type HistoryLoadedMsg struct {
	Count int
	Err   error
}

// HistoryDeletedMsg is sent after DeleteSessionHistory returns.
type HistoryDeletedMsg struct {
	Response *model.DeleteHistoryResponse
	Err      error
}

// =============================================================================
// IDENTITY STORE
// =============================================================================

// StoreChangedMsg reports that another process touched the identity store.
type StoreChangedMsg struct{}

// watcherClosedMsg ends the watch loop.
type watcherClosedMsg struct{}

// =============================================================================
// UI STATE
// =============================================================================

// NoticeMsg shows a transient line above the input.
type NoticeMsg struct {
	Text string
}
