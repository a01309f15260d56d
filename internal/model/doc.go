// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat messages and the JSON
// types exchanged with the answer service.
//
// # Key Types
//
//   - Message: Displayed chat entry with sender, HH:MM time and optional sources/images
//   - ChatRequest, ChatResponse: Body and reply of a send
//   - ChatHistoryResponse, ChatMessageResponse: Stored history rows
//   - DeleteHistoryResponse: Result of a history delete
//   - QuickAction: Static shortcut table
//   - UsageStats: Question and answer counts
//
// # Usage
//
//	msgs := model.MessagesFromHistory(history)
//	stats := model.ComputeStats(msgs)
package model
