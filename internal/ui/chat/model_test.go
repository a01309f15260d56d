// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/suaibot/internal/api"
	chatstate "github.com/jeranaias/suaibot/internal/chat"
	"github.com/jeranaias/suaibot/internal/identity"
	"github.com/jeranaias/suaibot/internal/model"
	"github.com/jeranaias/suaibot/internal/ui/styles"
)

// =============================================================================
// HELPERS
// =============================================================================

type fakeService struct {
	mu      sync.Mutex
	methods []string
	fail    bool
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.methods = append(f.methods, r.Method+" "+r.URL.Path)
	fail := f.fail
	f.mu.Unlock()

	if fail {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"detail":"Сервис недоступен"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch r.Method {
	case http.MethodPost:
		var req model.ChatRequest
		json.NewDecoder(r.Body).Decode(&req)
		sid := "sess-42"
		json.NewEncoder(w).Encode(model.ChatResponse{
			Response:  "**Сессия** начинается в январе",
			UserID:    req.UserID,
			SessionID: &sid,
			Sources:   map[string]string{"Календарь": "https://guap.ru/cal"},
		})
	case http.MethodGet:
		json.NewEncoder(w).Encode(model.ChatHistoryResponse{
			Messages: []model.ChatMessageResponse{
				{ID: 1, MessageType: "user", Content: "Привет", CreatedAt: "2025-01-10T09:00:00"},
				{ID: 2, MessageType: "assistant", Content: "Здравствуйте", CreatedAt: "2025-01-10T09:00:02"},
			},
			Total: 2,
		})
	case http.MethodDelete:
		json.NewEncoder(w).Encode(model.DeleteHistoryResponse{DeletedCount: 4})
	}
}

func (f *fakeService) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.methods...)
}

func (f *fakeService) setFail(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = fail
}

type testEnv struct {
	fake   *fakeService
	client *api.Client
	ident  *identity.Identity
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	fake := &fakeService{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	return &testEnv{
		fake:   fake,
		client: api.NewClient(&api.ClientConfig{ChatBaseURL: srv.URL + "/api/chat"}),
		ident:  identity.New(identity.NewMemoryStore()),
	}
}

func (e *testEnv) model(t *testing.T) Model {
	t.Helper()

	state, err := chatstate.New(e.client, e.ident, chatstate.DefaultOptions())
	require.NoError(t, err)

	m := New(Options{
		State:       state,
		Identity:    e.ident,
		Theme:       styles.NewTheme(styles.Dark),
		ShowSources: true,
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func newTestModel(t *testing.T) (Model, *identity.Identity, *fakeService) {
	t.Helper()
	env := newTestEnv(t)
	return env.model(t), env.ident, env.fake
}

// runCmd executes cmd and the commands of a batch, returning the messages
// that matter to the model. Spinner and cursor ticks are dropped.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	var out []tea.Msg
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			out = append(out, runCmd(c)...)
		}
	case SendDoneMsg, HistoryLoadedMsg, HistoryDeletedMsg, StoreChangedMsg, watcherClosedMsg:
		out = append(out, msg)
	}
	return out
}

// press feeds msg and the results of its commands back into the model.
func press(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	for _, res := range runCmd(cmd) {
		next, _ = m.Update(res)
		m = next.(Model)
	}
	return m
}

func typeText(m Model, text string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(Model)
}

// =============================================================================
// SEND
// =============================================================================

func TestSubmit_ShowsUserMessageBeforeReply(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = typeText(m, "Когда сессия?")
	assert.Equal(t, "Когда сессия?", m.InputValue())

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)

	msgs := m.State().Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.SenderUser, msgs[1].Sender)
	assert.Equal(t, "Когда сессия?", msgs[1].Text)
	assert.True(t, m.State().Loading())
	assert.Empty(t, m.InputValue())

	for _, msg := range runCmd(cmd) {
		next, _ = m.Update(msg)
		m = next.(Model)
	}

	msgs = m.State().Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, model.SenderBot, msgs[2].Sender)
	assert.False(t, m.State().Loading())
	require.NotNil(t, m.State().SessionID())
	assert.Equal(t, "sess-42", *m.State().SessionID())
}

func TestSubmit_EmptyInputDoesNothing(t *testing.T) {
	m, _, fake := newTestModel(t)
	m = typeText(m, "   ")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Len(t, m.State().Messages(), 1)
	assert.Empty(t, fake.calls())
}

func TestSubmit_ErrorIsShown(t *testing.T) {
	m, _, fake := newTestModel(t)
	fake.setFail(true)

	m = typeText(m, "Привет")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "Сервис недоступен", m.State().Error())
	assert.Contains(t, m.View(), "Сервис недоступен")
	// the optimistic user message stays
	assert.Len(t, m.State().Messages(), 2)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlE})
	assert.Empty(t, m.State().Error())
}

// =============================================================================
// SESSION OPERATIONS
// =============================================================================

func TestNewSession(t *testing.T) {
	m, ident, _ := newTestModel(t)
	m = typeText(m, "Привет")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, m.State().SessionID())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Nil(t, m.State().SessionID())
	assert.Len(t, m.State().Messages(), 1)
	assert.NotEmpty(t, m.Notice())

	stored, err := ident.SessionID()
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestSessionKeysIgnoredWhileSending(t *testing.T) {
	m, _, fake := newTestModel(t)
	m = typeText(m, "Когда сессия?")

	next, sendCmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.True(t, m.State().Loading())

	for _, k := range []tea.KeyType{tea.KeyCtrlN, tea.KeyCtrlR, tea.KeyCtrlX} {
		m = press(t, m, tea.KeyMsg{Type: k})
	}
	assert.False(t, m.ConfirmingDelete())
	assert.Len(t, m.State().Messages(), 2)

	for _, msg := range runCmd(sendCmd) {
		next, _ = m.Update(msg)
		m = next.(Model)
	}
	assert.Equal(t, []string{"POST /api/chat/message"}, fake.calls())
	assert.Len(t, m.State().Messages(), 3)
	assert.False(t, m.State().Loading())
}

func TestDelete_AsksForConfirmation(t *testing.T) {
	m, _, fake := newTestModel(t)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.True(t, m.ConfirmingDelete())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	assert.False(t, m.ConfirmingDelete())
	assert.Empty(t, fake.calls())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	assert.Equal(t, []string{"DELETE /api/chat/history/" + m.State().UserID()}, fake.calls())
	assert.Contains(t, m.Notice(), "4")
}

func TestReload_LoadsHistory(t *testing.T) {
	m, _, fake := newTestModel(t)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	require.Len(t, fake.calls(), 1)
	assert.Contains(t, fake.calls()[0], "GET /api/chat/history/")

	msgs := m.State().Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "Привет", msgs[0].Text)
	assert.Equal(t, model.SenderBot, msgs[1].Sender)
}

func TestInit_RestoresRememberedSession(t *testing.T) {
	env := newTestEnv(t)

	m := env.model(t)
	assert.Empty(t, runCmd(m.Init()))
	assert.Empty(t, env.fake.calls())

	sid := "sess-7"
	require.NoError(t, env.ident.SetSessionID(&sid))

	m = env.model(t)
	var loaded []tea.Msg
	for _, msg := range runCmd(m.Init()) {
		if _, ok := msg.(HistoryLoadedMsg); ok {
			loaded = append(loaded, msg)
		}
	}
	require.Len(t, loaded, 1)
	assert.Equal(t, []string{"GET /api/chat/history/session/sess-7"}, env.fake.calls())
}

// =============================================================================
// PRESENTATION
// =============================================================================

func TestQuickActionFillsInput(t *testing.T) {
	m, _, fake := newTestModel(t)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2"), Alt: true})
	assert.Equal(t, "Экзамены", m.InputValue())
	assert.Empty(t, fake.calls())
}

func TestQuickIndex(t *testing.T) {
	tests := map[string]int{
		"alt+1": 1,
		"alt+5": 5,
		"alt+6": 0,
		"1":     0,
		"alt+":  0,
	}
	for in, want := range tests {
		assert.Equal(t, want, quickIndex(in), in)
	}
}

func TestToggleTheme_Persists(t *testing.T) {
	m, ident, _ := newTestModel(t)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	saved, ok, err := ident.Theme()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "light", saved)
	assert.Contains(t, m.Notice(), "light")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	saved, _, _ = ident.Theme()
	assert.Equal(t, "dark", saved)
}

func TestView_ShowsHeaderStatsAndSources(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = typeText(m, "Когда сессия?")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	view := m.View()
	assert.Contains(t, view, "Suai Rag Bot")
	assert.Contains(t, view, "Вопросов: 1")
	assert.Contains(t, view, "Календарь")
}

func TestView_BeforeResize(t *testing.T) {
	ident := identity.New(identity.NewMemoryStore())
	state, err := chatstate.New(api.NewClient(nil), ident, chatstate.DefaultOptions())
	require.NoError(t, err)

	m := New(Options{State: state, Identity: ident})
	assert.Equal(t, "Loading...", m.View())
}

// =============================================================================
// IDENTITY STORE CHANGES
// =============================================================================

func TestStoreChanged_AdoptsSessionFromOtherProcess(t *testing.T) {
	m, ident, fake := newTestModel(t)

	sid := "sess-from-cli"
	require.NoError(t, ident.SetSessionID(&sid))

	m = press(t, m, StoreChangedMsg{})
	require.NotNil(t, m.State().SessionID())
	assert.Equal(t, "sess-from-cli", *m.State().SessionID())
	require.Len(t, fake.calls(), 1)
	assert.Equal(t, "GET /api/chat/history/session/sess-from-cli", fake.calls()[0])
}

func TestStoreChanged_NoChangeNoReload(t *testing.T) {
	m, _, fake := newTestModel(t)
	m = press(t, m, StoreChangedMsg{})
	assert.Empty(t, fake.calls())
	assert.Nil(t, m.State().SessionID())
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.(Model).View())
}
