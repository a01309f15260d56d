// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/suaibot/internal/local"
	"github.com/jeranaias/suaibot/internal/model"
	"github.com/jeranaias/suaibot/internal/util"
)

// =============================================================================
// MAIN VIEW
// =============================================================================

// renderChat stacks header, messages, quick actions, input and status bar.
func (m Model) renderChat() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	quick := m.renderQuickActions()
	input := m.renderInput()
	status := m.renderStatusBar()

	available := m.height - lipgloss.Height(header) - lipgloss.Height(quick) -
		lipgloss.Height(input) - lipgloss.Height(status)
	if available < 1 {
		available = 1
	}

	messages := m.viewport.View()
	if lipgloss.Height(messages) != available {
		messages = lipgloss.NewStyle().
			Height(available).
			MaxHeight(available).
			Width(m.width).
			Render(messages)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, messages, quick, input, status)
}

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render(local.Bot.Text(m.lang))

	session := local.SessionNone.Text(m.lang)
	if id := m.state.SessionID(); id != nil {
		session = util.TruncateWidth(*id, 18)
	}
	meta := m.theme.HeaderMeta.Render(fmt.Sprintf("%s: %s", local.SessionLabel.Text(m.lang), session))

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(meta) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.Header.Width(m.width).Render(title + strings.Repeat(" ", gap) + meta)
}

// =============================================================================
// MESSAGES
// =============================================================================

// updateViewport re-renders the message list into the viewport.
func (m *Model) updateViewport() {
	m.layout()
	m.viewport.SetContent(m.renderMessages())
}

func (m *Model) renderMessages() string {
	msgs := m.state.Messages()
	parts := make([]string, 0, len(msgs)+1)
	for i := range msgs {
		parts = append(parts, m.renderMessage(&msgs[i]))
	}
	if m.state.Loading() {
		parts = append(parts, m.renderThinking())
	}
	return strings.Join(parts, "\n\n")
}

func (m *Model) renderMessage(msg *model.Message) string {
	if msg.IsUser() {
		return m.renderUserMessage(msg)
	}
	return m.renderBotMessage(msg)
}

// bubbleWidth is the inner text width of a message bubble.
func (m *Model) bubbleWidth() int {
	w := m.viewport.Width - 8
	if m.wordWrap > 0 && w > m.wordWrap {
		w = m.wordWrap
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) renderUserMessage(msg *model.Message) string {
	head := m.theme.UserName.Render(local.You.Text(m.lang)) + " " +
		m.theme.Timestamp.Render(msg.Time)
	body := m.theme.UserBubble.Width(m.bubbleWidth()).Render(msg.Text)
	return lipgloss.JoinVertical(lipgloss.Left, head, body)
}

func (m *Model) renderBotMessage(msg *model.Message) string {
	head := m.theme.BotName.Render(local.Bot.Text(m.lang)) + " " +
		m.theme.Timestamp.Render(msg.Time)

	width := m.bubbleWidth()
	text := m.markdown.Render(msg.Text, m.theme.GlamourStyle(), width)
	if extra := m.renderAttachments(msg); extra != "" {
		text += "\n\n" + extra
	}
	body := m.theme.BotBubble.Render(text)
	return lipgloss.JoinVertical(lipgloss.Left, head, body)
}

// renderAttachments lists the sources and image keys of an answer.
func (m *Model) renderAttachments(msg *model.Message) string {
	if !m.showSources {
		return ""
	}

	var b strings.Builder
	if sources := msg.SourceList(); len(sources) > 0 {
		b.WriteString(m.theme.SourceHead.Render(local.Sources.Text(m.lang) + ":"))
		for _, src := range sources {
			b.WriteString("\n  • ")
			if src.Ref != "" && src.Ref != src.Title {
				b.WriteString(src.Title + " ")
				b.WriteString(m.theme.SourceItem.Render(src.Ref))
			} else {
				b.WriteString(m.theme.SourceItem.Render(src.Title))
			}
		}
	}
	if images := msg.ImageKeys(); len(images) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.theme.SourceHead.Render(local.Images.Text(m.lang) + ":"))
		for _, img := range images {
			b.WriteString("\n  • " + m.theme.Muted.Render(img))
		}
	}
	return b.String()
}

func (m *Model) renderThinking() string {
	return m.spinner.View() + " " + m.theme.Muted.Render(local.Thinking.Text(m.lang))
}

// =============================================================================
// QUICK ACTIONS
// =============================================================================

func (m Model) renderQuickActions() string {
	actions := model.QuickActions()
	items := make([]string, 0, len(actions))
	for _, qa := range actions {
		label := fmt.Sprintf("%d %s %s", qa.ID, qa.Icon, local.QuickActionTitle(m.lang, qa.ID, qa.Title))
		items = append(items, m.theme.QuickAction(qa.Color).Render(label))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, items...)
	if m.width > 0 && lipgloss.Width(row) > m.width {
		// Too narrow for bubbles; fall back to a plain line.
		plain := make([]string, 0, len(actions))
		for _, qa := range actions {
			plain = append(plain, fmt.Sprintf("alt+%d %s", qa.ID, local.QuickActionTitle(m.lang, qa.ID, qa.Title)))
		}
		row = m.theme.Help.Render(util.TruncateWidth(strings.Join(plain, " · "), m.width))
	}
	return row
}

// =============================================================================
// INPUT
// =============================================================================

func (m Model) renderInput() string {
	var lines []string

	switch {
	case m.confirmDelete:
		lines = append(lines, m.theme.Error.Render(local.ConfirmDelete.Text(m.lang)))
	case m.state.Error() != "":
		msg := local.ErrorPrefix.Text(m.lang) + ": " + util.FirstLine(m.state.Error())
		lines = append(lines, m.theme.Error.Render(util.TruncateWidth(msg, max(m.width-4, 10))))
	case m.busy:
		lines = append(lines, m.spinner.View()+" "+m.theme.Muted.Render(local.Thinking.Text(m.lang)))
	case m.notice != "":
		lines = append(lines, m.theme.Notice.Render(m.notice))
	}

	lines = append(lines, m.input.View())

	style := m.theme.InputContainer
	if m.width > 0 {
		style = style.Width(m.width - 2)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// =============================================================================
// STATUS BAR
// =============================================================================

func (m Model) renderStatusBar() string {
	stats := m.state.Stats()
	left := local.StatsLine.Format(m.lang, stats.Questions, stats.Answers)

	user := util.TruncateWidth(m.state.UserID(), 8)
	left = m.theme.StatusKey.Render(local.UserLabel.Text(m.lang)+": ") + user + " · " + left

	right := m.theme.Help.Render(local.KeysHelp.Text(m.lang))
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		// Help does not fit; keep the stats.
		right = ""
		gap = 1
	}

	style := m.theme.StatusBar
	if m.width > 0 {
		style = style.Width(m.width)
	}
	return style.Render(left + strings.Repeat(" ", gap) + right)
}
