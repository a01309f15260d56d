// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package local holds the user-facing strings in Russian and English.
// Russian is the default; any other language falls back to it.
package local

import (
	"fmt"
	"strings"
)

// Language is an ISO 639-1 code.
type Language string

const (
	Eng = Language("en")
	Rus = Language("ru")
)

// ParseLanguage maps a config value to a Language, defaulting to Rus.
func ParseLanguage(s string) Language {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "en", "eng", "english":
		return Eng
	default:
		return Rus
	}
}

// Localization is one translation of a TextSet.
type Localization struct {
	language Language
	text     string
}

// TextSet is a string with its translations.
type TextSet struct {
	Default          string
	translationsText map[Language]string
}

// NewTrans creates a translation for NewSet.
func NewTrans(language Language, text string) Localization {
	return Localization{
		language: language,
		text:     text,
	}
}

// NewSet creates a TextSet whose Default is used for untranslated languages.
func NewSet(defaultText string, localizations ...Localization) TextSet {
	set := TextSet{
		Default:          defaultText,
		translationsText: make(map[Language]string, len(localizations)),
	}
	for _, localization := range localizations {
		set.translationsText[localization.language] = localization.text
	}
	return set
}

// Text returns the translation for language, or Default.
func (l TextSet) Text(language Language) string {
	if text, ok := l.translationsText[language]; ok {
		return text
	}
	return l.Default
}

// Format is Text followed by fmt.Sprintf.
func (l TextSet) Format(language Language, a ...any) string {
	return fmt.Sprintf(l.Text(language), a...)
}
