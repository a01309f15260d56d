// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"sort"
	"sync/atomic"
	"time"
)

// TimeFormat is the display format for message times.
const TimeFormat = "15:04"

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who wrote a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// SenderFromMessageType maps a server message_type to a Sender.
// Anything other than "user" is shown as a bot message.
func SenderFromMessageType(messageType string) Sender {
	if messageType == string(SenderUser) {
		return SenderUser
	}
	return SenderBot
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is one entry of the displayed conversation.
// Messages are appended to the list and never modified afterwards.
type Message struct {
	ID      int64             `json:"id"`
	Text    string            `json:"text"`
	Sender  Sender            `json:"type"`
	Time    string            `json:"time"`
	Sources map[string]string `json:"sources,omitempty"`
	Images  map[string]any    `json:"images,omitempty"`

	// Greeting marks the locally generated welcome message. It is not an answer.
	Greeting bool `json:"greeting,omitempty"`
}

// Source is one entry of a bot message's sources map.
type Source struct {
	Title string
	Ref   string
}

var lastID atomic.Int64

// NextID returns a message id derived from now in unix milliseconds.
// Ids are strictly increasing within a process even when two messages are
// created in the same millisecond.
func NextID(now time.Time) int64 {
	candidate := now.UnixMilli()
	for {
		last := lastID.Load()
		next := candidate
		if next <= last {
			next = last + 1
		}
		if lastID.CompareAndSwap(last, next) {
			return next
		}
	}
}

// FormatTime renders t as HH:MM in local time.
func FormatTime(t time.Time) string {
	return t.Local().Format(TimeFormat)
}

// NewUserMessage creates a message typed by the user.
func NewUserMessage(text string, now time.Time) Message {
	return Message{
		ID:     NextID(now),
		Text:   text,
		Sender: SenderUser,
		Time:   FormatTime(now),
	}
}

// NewBotMessage creates a reply message with optional sources and images.
func NewBotMessage(text string, now time.Time, sources map[string]string, images map[string]any) Message {
	return Message{
		ID:      NextID(now),
		Text:    text,
		Sender:  SenderBot,
		Time:    FormatTime(now),
		Sources: sources,
		Images:  images,
	}
}

// NewGreeting creates the welcome message shown in an empty conversation.
func NewGreeting(text string, now time.Time) Message {
	m := NewBotMessage(text, now, nil, nil)
	m.Greeting = true
	return m
}

// IsUser reports whether the user wrote the message.
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

// SourceList returns the sources sorted by title.
func (m Message) SourceList() []Source {
	if len(m.Sources) == 0 {
		return nil
	}
	out := make([]Source, 0, len(m.Sources))
	for title, ref := range m.Sources {
		out = append(out, Source{Title: title, Ref: ref})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

// ImageKeys returns the image map keys in sorted order.
func (m Message) ImageKeys() []string {
	if len(m.Images) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m.Images))
	for k := range m.Images {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
