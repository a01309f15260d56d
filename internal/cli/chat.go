// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - line-mode chat for terminals where the full-screen view is not
// wanted, with readline editing and history.
//
// Interactive commands:
//
//	/new             start a new session
//	/delete          delete the current session's history (asks first)
//	/history         reload and print the current session
//	/stats           question and answer counts
//	/theme           toggle dark and light
//	/quick [N]       list quick questions or ask number N
//	/session [ID]    show ids or switch to session ID
//	/help            command list
//	/quit            exit (also Ctrl+D)
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/jeranaias/suaibot/internal/chat"
	"github.com/jeranaias/suaibot/internal/local"
	"github.com/jeranaias/suaibot/internal/model"
	"github.com/jeranaias/suaibot/internal/ui/styles"
	"github.com/jeranaias/suaibot/internal/util"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// LineReader reads one line of user input.
type LineReader interface {
	ReadInput(prompt string) (string, error)
	Close()
}

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI whose history lives in historyFile.
func NewChatCLI(historyFile string) *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	c := &ChatCLI{line: line, historyFile: historyFile}
	c.LoadHistory()
	return c
}

// LoadHistory loads previous input lines.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line with the given prompt. Non-empty lines go to history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory writes input history with 0600 permissions.
func (c *ChatCLI) SaveHistory() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// historyFilePath is the REPL input history next to the identity store.
func (a *App) historyFilePath() string {
	dir, err := a.Config.DataDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "chat_history")
}

// =============================================================================
// REPL
// =============================================================================

// REPL is one line-mode chat session.
type REPL struct {
	app   *App
	state *chat.State
	in    LineReader
	out   io.Writer
	pr    *printer
	lang  local.Language
	mode  styles.Mode

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewREPL creates a REPL reading from in.
func (a *App) NewREPL(in LineReader) (*REPL, error) {
	state, err := a.NewState()
	if err != nil {
		return nil, err
	}
	return &REPL{
		app:   a,
		state: state,
		in:    in,
		out:   a.Out,
		pr:    a.printer(),
		lang:  a.Language(),
		mode:  a.ThemeMode(),
	}, nil
}

// HandleChat runs the interactive chat on the terminal.
func (a *App) HandleChat(ctx context.Context) error {
	if !IsTTY() {
		return NewValidationError("stdin", "", "chat needs a terminal; use \"suaibot ask\" in scripts")
	}

	in := NewChatCLI(a.historyFilePath())
	defer in.Close()

	r, err := a.NewREPL(in)
	if err != nil {
		return err
	}

	// Ctrl+C during a request cancels the request; at the prompt liner
	// reports it as ErrPromptAborted.
	stop := notifyInterrupt(func() {
		if r.cancelRequest() {
			fmt.Fprintln(a.Err, "\n"+WarningStyle.Render("[Cancelled]"))
		}
	})
	defer stop()

	return r.Run(ctx)
}

// notifyInterrupt calls onInterrupt for every SIGINT until stop is called.
// stop returns once the forwarding goroutine has exited.
func notifyInterrupt(onInterrupt func()) (stop func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range sigChan {
			onInterrupt()
		}
	}()

	return func() {
		signal.Stop(sigChan)
		close(sigChan)
		<-done
	}
}

// Run reads lines until /quit, EOF or Ctrl+C at the prompt.
func (r *REPL) Run(ctx context.Context) error {
	if !r.app.Args.Quiet {
		r.printWelcome()
	}

	prompt := PromptStyle.Render("suai> ")
	for {
		input, err := r.in.ReadInput(prompt)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, liner.ErrPromptAborted) {
				slog.Warn("input error", "error", err)
			}
			fmt.Fprintln(r.out)
			r.printGoodbye()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if !r.handleSlashCommand(ctx, input) {
				r.printGoodbye()
				return nil
			}
			continue
		}
		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			r.printGoodbye()
			return nil
		}

		r.send(ctx, input)
	}
}

// send asks input and prints the answer or the error.
func (r *REPL) send(ctx context.Context, input string) {
	if changed, err := r.state.SyncSession(); err == nil && changed {
		slog.Info("session changed by another process", "session", r.sessionLabel())
	}

	slog.Debug("ask", "question", util.TruncateRunes(input, 80), "session", r.sessionLabel())

	reqCtx, cancel := context.WithCancel(ctx)
	r.setCancel(cancel)
	defer func() {
		r.setCancel(nil)
		cancel()
	}()

	if IsStdoutTTY() && !r.app.Args.Quiet {
		fmt.Fprintln(r.out, DimStyle.Render(local.Thinking.Text(r.lang)))
	}

	if err := r.state.Ask(reqCtx, input); err != nil {
		fmt.Fprintln(r.out, ErrorStyle.Render(local.SendFailed.Format(r.lang, err.Error())))
		return
	}

	msgs := r.state.Messages()
	fmt.Fprintln(r.out)
	r.pr.Message(msgs[len(msgs)-1])
	fmt.Fprintln(r.out)
}

func (r *REPL) setCancel(cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancel = cancel
}

// cancelRequest cancels the request in flight, if any.
func (r *REPL) cancelRequest() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel == nil {
		return false
	}
	r.cancel()
	r.cancel = nil
	return true
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand runs a /command. Returns false to end the REPL.
func (r *REPL) handleSlashCommand(ctx context.Context, input string) bool {
	fields := strings.Fields(input)
	cmd, rest := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "/quit", "/q", "/exit":
		return false

	case "/help", "/h", "/?":
		r.printHelp()

	case "/new", "/n":
		if err := r.state.CreateNewSession(); err != nil {
			r.printError(err)
			break
		}
		fmt.Fprintln(r.out, SuccessStyle.Render(local.SessionStarted.Text(r.lang)))

	case "/delete", "/del":
		answer, err := r.in.ReadInput(WarningStyle.Render(local.ConfirmDelete.Text(r.lang)))
		if err != nil || !isYes(answer) {
			break
		}
		resp, err := r.state.DeleteSessionHistory(ctx)
		if err != nil {
			fmt.Fprintln(r.out, ErrorStyle.Render(local.DeleteFailed.Format(r.lang, err.Error())))
			break
		}
		fmt.Fprintln(r.out, SuccessStyle.Render(local.HistoryDeleted.Format(r.lang, resp.DeletedCount)))

	case "/history", "/hist":
		r.reload(ctx)

	case "/stats":
		r.pr.Stats(r.state.Stats())

	case "/theme":
		r.toggleTheme()

	case "/quick":
		if len(rest) == 0 {
			r.printQuickActions()
			break
		}
		id, err := strconv.Atoi(rest[0])
		qa, ok := model.QuickActionByID(id)
		if err != nil || !ok {
			r.printQuickActions()
			break
		}
		question := local.QuickActionTitle(r.lang, qa.ID, qa.Title)
		fmt.Fprintln(r.out, UserStyle.Render(local.You.Text(r.lang)+":")+" "+question)
		r.send(ctx, question)

	case "/session", "/s":
		if len(rest) > 0 {
			id := rest[0]
			if err := r.state.SwitchSession(&id); err != nil {
				r.printError(err)
				break
			}
			r.reload(ctx)
			break
		}
		fmt.Fprintln(r.out, RenderLabel(local.UserLabel.Text(r.lang), r.state.UserID()))
		fmt.Fprintln(r.out, RenderLabel(local.SessionLabel.Text(r.lang), r.sessionLabel()))

	default:
		fmt.Fprintf(r.out, "%s %s\n", WarningStyle.Render("Unknown command:"), cmd)
		r.printHelp()
	}
	return true
}

// reload replaces the local conversation with the server's and prints it.
func (r *REPL) reload(ctx context.Context) {
	n, err := r.state.LoadSessionHistory(ctx)
	if err != nil {
		fmt.Fprintln(r.out, ErrorStyle.Render(local.LoadFailed.Format(r.lang, err.Error())))
		return
	}
	for _, msg := range r.state.Messages() {
		r.pr.Message(msg)
		fmt.Fprintln(r.out)
	}
	fmt.Fprintln(r.out, DimStyle.Render(local.HistoryLoaded.Format(r.lang, n)))
}

func (r *REPL) toggleTheme() {
	r.mode = r.mode.Other()
	if err := r.app.Identity.SetTheme(string(r.mode)); err != nil {
		r.printError(err)
	}
	lipgloss.SetHasDarkBackground(r.mode == styles.Dark)
	if r.pr.markdown != nil {
		r.pr.setStyle(r.mode, r.app.wrapWidth())
	}
	fmt.Fprintln(r.out, DimStyle.Render(local.ThemeSwitched.Format(r.lang, string(r.mode))))
}

func (r *REPL) sessionLabel() string {
	if id := r.state.SessionID(); id != nil {
		return *id
	}
	return local.SessionNone.Text(r.lang)
}

// =============================================================================
// OUTPUT
// =============================================================================

func (r *REPL) printWelcome() {
	fmt.Fprintln(r.out, TitleStyle.Render(local.Bot.Text(r.lang)))
	msgs := r.state.Messages()
	if len(msgs) > 0 {
		fmt.Fprintln(r.out, msgs[0].Text)
	}
	fmt.Fprintln(r.out)
	r.printQuickActions()
	fmt.Fprintln(r.out, DimStyle.Render("/help"))
	fmt.Fprintln(r.out)
}

func (r *REPL) printQuickActions() {
	fmt.Fprintln(r.out, DimStyle.Render(local.QuickHint.Text(r.lang)+":"))
	for _, qa := range model.QuickActions() {
		title := local.QuickActionTitle(r.lang, qa.ID, qa.Title)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(qa.Color))
		fmt.Fprintf(r.out, "  %s%s %s\n", util.PadRight(fmt.Sprintf("/quick %d", qa.ID), 10), qa.Icon, style.Render(title))
	}
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.out, TitleStyle.Render("Commands"))
	rows := [][2]string{
		{"/new", "start a new session"},
		{"/delete", "delete the current session's history"},
		{"/history", "reload and print the current session"},
		{"/stats", "question and answer counts"},
		{"/theme", "toggle dark and light"},
		{"/quick [N]", "list quick questions or ask number N"},
		{"/session [ID]", "show ids or switch session"},
		{"/quit", "exit (Ctrl+D)"},
	}
	for _, row := range rows {
		fmt.Fprintf(r.out, "  %s %s\n", LabelStyle.Render(row[0]), DimStyle.Render(row[1]))
	}
}

func (r *REPL) printError(err error) {
	fmt.Fprintf(r.out, "%s %v\n", ErrorStyle.Render(local.ErrorPrefix.Text(r.lang)+":"), err)
}

func (r *REPL) printGoodbye() {
	if r.app.Args.Quiet {
		return
	}
	r.pr.Stats(r.state.Stats())
	fmt.Fprintln(r.out, local.Goodbye.Text(r.lang))
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "д", "да":
		return true
	}
	return false
}
