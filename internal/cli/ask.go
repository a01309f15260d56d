// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - one-shot question command and the message printer shared with
// the history command and the chat REPL.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/suaibot/internal/local"
	"github.com/jeranaias/suaibot/internal/model"
	"github.com/jeranaias/suaibot/internal/ui/styles"
)

// =============================================================================
// ASK COMMAND
// =============================================================================

// HandleAsk sends one question and prints the answer.
//
//	suaibot ask "Когда начинается сессия?"
//	suaibot ask --new --json "Где библиотека?"
func (a *App) HandleAsk(ctx context.Context) error {
	p := a.Args.Parser("new")
	if a.Args.Query == "" {
		return ErrMissingArgument("question", `suaibot ask "Когда начинается сессия?"`)
	}

	state, err := a.NewState()
	if err != nil {
		return err
	}
	if p.BoolFlag("new") {
		if err := state.CreateNewSession(); err != nil {
			return err
		}
	}

	if err := state.Ask(ctx, a.Args.Query); err != nil {
		return err
	}

	msgs := state.Messages()
	answer := msgs[len(msgs)-1]

	if a.Args.JSON {
		return a.printJSON(CmdAsk, AskData{
			Question:  a.Args.Query,
			Answer:    answer.Text,
			UserID:    state.UserID(),
			SessionID: state.SessionID(),
			Sources:   answer.Sources,
			Images:    answer.Images,
		})
	}

	pr := a.printer()
	pr.Body(answer)
	return nil
}

// =============================================================================
// MESSAGE PRINTING
// =============================================================================

// printer writes chat messages to a terminal or a pipe.
type printer struct {
	w           io.Writer
	lang        local.Language
	showSources bool

	// markdown is nil when output is not a terminal.
	markdown *glamour.TermRenderer
}

func (a *App) printer() *printer {
	p := &printer{
		w:           a.Out,
		lang:        a.Language(),
		showSources: a.Config.UI.ShowSources,
	}
	if a.Out == nil || !IsStdoutTTY() || !ColorsEnabled() {
		return p
	}
	p.setStyle(a.ThemeMode(), a.wrapWidth())
	return p
}

// wrapWidth is the terminal width capped by ui.word_wrap.
func (a *App) wrapWidth() int {
	w := GetTerminalWidth() - 4
	if ww := a.Config.UI.WordWrap; ww > 0 && ww < w {
		w = ww
	}
	return w
}

// setStyle switches the markdown renderer to mode. Output stays plain when
// glamour cannot build a renderer.
func (p *printer) setStyle(mode styles.Mode, width int) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(string(mode)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		p.markdown = nil
		return
	}
	p.markdown = r
}

func (p *printer) render(content string) string {
	if p.markdown == nil {
		return content
	}
	out, err := p.markdown.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}

// Message prints a header line with sender and time followed by the body.
func (p *printer) Message(msg model.Message) {
	name := UserStyle.Render(local.You.Text(p.lang))
	if !msg.IsUser() {
		name = BotStyle.Render(local.Bot.Text(p.lang))
	}
	fmt.Fprintf(p.w, "%s %s\n", name, DimStyle.Render(msg.Time))
	p.Body(msg)
}

// Body prints the text of msg and, for answers, its sources and images.
func (p *printer) Body(msg model.Message) {
	if msg.IsUser() {
		fmt.Fprintln(p.w, msg.Text)
		return
	}
	fmt.Fprintln(p.w, p.render(msg.Text))

	if !p.showSources {
		return
	}
	if sources := msg.SourceList(); len(sources) > 0 {
		fmt.Fprintln(p.w, DimStyle.Render(local.Sources.Text(p.lang)+":"))
		for _, src := range sources {
			if src.Ref != "" && src.Ref != src.Title {
				fmt.Fprintf(p.w, "  • %s %s\n", src.Title, SourceStyle.Render(src.Ref))
			} else {
				fmt.Fprintf(p.w, "  • %s\n", SourceStyle.Render(src.Title))
			}
		}
	}
	if images := msg.ImageKeys(); len(images) > 0 {
		fmt.Fprintln(p.w, DimStyle.Render(local.Images.Text(p.lang)+":"))
		for _, img := range images {
			fmt.Fprintf(p.w, "  • %s\n", img)
		}
	}
}

// Stats prints the question and answer counts.
func (p *printer) Stats(stats model.UsageStats) {
	fmt.Fprintln(p.w, DimStyle.Render(local.StatsLine.Format(p.lang, stats.Questions, stats.Answers)))
}
