// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package local

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextSet(t *testing.T) {
	set := NewSet("привет", NewTrans(Eng, "hello"))
	assert.Equal(t, "hello", set.Text(Eng))
	assert.Equal(t, "привет", set.Text(Rus))
	assert.Equal(t, "привет", set.Text(Language("de")))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "Questions: 2 · Answers: 1", StatsLine.Format(Eng, 2, 1))
	assert.Equal(t, "Вопросов: 0 · Ответов: 0", StatsLine.Format(Rus, 0, 0))
}

func TestParseLanguage(t *testing.T) {
	assert.Equal(t, Eng, ParseLanguage("EN"))
	assert.Equal(t, Eng, ParseLanguage(" english "))
	assert.Equal(t, Rus, ParseLanguage("ru"))
	assert.Equal(t, Rus, ParseLanguage(""))
}

func TestGreeting(t *testing.T) {
	assert.True(t, strings.HasPrefix(Greeting.Text(Rus), "Здравствуйте! Я Suai Rag Bot"))
	assert.Contains(t, Greeting.Text(Eng), "Suai Rag Bot")
}

func TestQuickActionTitle(t *testing.T) {
	assert.Equal(t, "Library", QuickActionTitle(Eng, 5, "x"))
	assert.Equal(t, "Библиотека", QuickActionTitle(Rus, 5, "x"))
	assert.Equal(t, "x", QuickActionTitle(Eng, 9, "x"))
}
