// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the Suai Rag Bot chat service.
//
// Four endpoints are wrapped: send a message, fetch a user's history, fetch a
// session's history and delete history. Non-2xx responses become *APIError
// carrying the server's "detail" string. Requests are never retried.
//
// # Usage
//
//	client := api.NewClient(api.ConfigFrom(cfg))
//	resp, err := client.SendMessage(ctx, model.ChatRequest{
//	    UserID:      userID,
//	    Message:     "Где посмотреть расписание?",
//	    SaveHistory: true,
//	})
//	if errors.Is(err, api.ErrTimeout) {
//	    // ...
//	}
package api
