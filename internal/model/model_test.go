// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextID_StrictlyIncreasing(t *testing.T) {
	now := time.Now()
	a := NextID(now)
	b := NextID(now)
	c := NextID(now.Add(-time.Hour))
	assert.Less(t, a, b)
	assert.Less(t, b, c)
}

func TestNewMessages(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 5, 0, 0, time.Local)

	u := NewUserMessage("Когда сессия?", now)
	assert.Equal(t, SenderUser, u.Sender)
	assert.Equal(t, "09:05", u.Time)
	assert.True(t, u.IsUser())

	g := NewGreeting("Здравствуйте!", now)
	assert.True(t, g.Greeting)
	assert.Equal(t, SenderBot, g.Sender)

	b := NewBotMessage("ответ", now, map[string]string{"b": "2", "a": "1"}, nil)
	assert.False(t, b.Greeting)
	assert.Equal(t, []Source{{"a", "1"}, {"b", "2"}}, b.SourceList())
	assert.Nil(t, b.ImageKeys())
}

func TestSenderFromMessageType(t *testing.T) {
	assert.Equal(t, SenderUser, SenderFromMessageType("user"))
	assert.Equal(t, SenderBot, SenderFromMessageType("assistant"))
	assert.Equal(t, SenderBot, SenderFromMessageType("bot"))
	assert.Equal(t, SenderBot, SenderFromMessageType(""))
}

func TestParseCreatedAt(t *testing.T) {
	for _, in := range []string{
		"2025-03-01T09:05:00Z",
		"2025-03-01T09:05:00.123456+00:00",
		"2025-03-01T09:05:00.123456",
		"2025-03-01T09:05:00",
		"2025-03-01 09:05:00",
	} {
		ts, err := ParseCreatedAt(in)
		require.NoError(t, err, in)
		assert.Equal(t, 9, ts.UTC().Hour(), in)
		assert.Equal(t, 5, ts.UTC().Minute(), in)
	}

	_, err := ParseCreatedAt("yesterday")
	assert.Error(t, err)
}

func TestChatMessageResponse_ToMessage(t *testing.T) {
	raw := `{
		"id": 42,
		"user_id": "u1",
		"session_id": "s1",
		"message_type": "assistant",
		"content": "Стипендия выплачивается ежемесячно.",
		"extra_data": {"sources": {"Положение о стипендиях": "https://guap.ru/doc.pdf", "page": 3}, "images": {"chart": "b64"}},
		"created_at": "2025-03-01T09:05:00Z"
	}`
	var row ChatMessageResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &row))

	msg := row.ToMessage()
	assert.Equal(t, int64(42), msg.ID)
	assert.Equal(t, SenderBot, msg.Sender)
	assert.Equal(t, FormatTime(time.Date(2025, 3, 1, 9, 5, 0, 0, time.UTC)), msg.Time)
	assert.Equal(t, "https://guap.ru/doc.pdf", msg.Sources["Положение о стипендиях"])
	assert.Equal(t, "3", msg.Sources["page"])
	assert.Equal(t, []string{"chart"}, msg.ImageKeys())
	assert.False(t, msg.Greeting)
}

func TestChatMessageResponse_NullExtraData(t *testing.T) {
	raw := `{"id":1,"user_id":"u","session_id":null,"message_type":"user","content":"hi","extra_data":null,"created_at":"garbage"}`
	var row ChatMessageResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &row))
	assert.Nil(t, row.SessionID)

	msg := row.ToMessage()
	assert.True(t, msg.IsUser())
	assert.Empty(t, msg.Time)
	assert.Nil(t, msg.Sources)
}

func TestChatRequest_NullSession(t *testing.T) {
	data, err := json.Marshal(ChatRequest{UserID: "u", Message: "m", SaveHistory: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"user_id":"u","message":"m","session_id":null,"save_history":true}`, string(data))
}

func TestMessagesFromHistory(t *testing.T) {
	assert.Nil(t, MessagesFromHistory(nil))
	assert.Nil(t, MessagesFromHistory(&ChatHistoryResponse{}))

	h := &ChatHistoryResponse{Messages: []ChatMessageResponse{
		{ID: 1, MessageType: "user", Content: "q"},
		{ID: 2, MessageType: "bot", Content: "a"},
	}}
	msgs := MessagesFromHistory(h)
	require.Len(t, msgs, 2)
	assert.Equal(t, "q", msgs[0].Text)
	assert.Equal(t, SenderBot, msgs[1].Sender)
}

func TestQuickActions(t *testing.T) {
	actions := QuickActions()
	require.Len(t, actions, 5)
	assert.Equal(t, "Расписание", actions[0].Title)
	assert.Equal(t, "#06b6d4", actions[4].Color)

	actions[0].Title = "changed"
	a, ok := QuickActionByID(1)
	require.True(t, ok)
	assert.Equal(t, "Расписание", a.Title)

	_, ok = QuickActionByID(6)
	assert.False(t, ok)
}

func TestComputeStats(t *testing.T) {
	now := time.Now()
	msgs := []Message{
		NewGreeting("hello", now),
		NewUserMessage("q1", now),
		NewBotMessage("a1", now, nil, nil),
		NewUserMessage("q2", now),
	}
	assert.Equal(t, UsageStats{Questions: 2, Answers: 1}, ComputeStats(msgs))

	user, bot := CountBySender(msgs)
	assert.Equal(t, 2, user)
	assert.Equal(t, 2, bot)

	assert.Equal(t, UsageStats{}, ComputeStats(nil))
}
