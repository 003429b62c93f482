// Package tui is the terminal front-end: a bubbletea program that renders
// the view router's current view and routes key presses to navigation,
// authentication and screen reloads.
package tui

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/felixgeelhaar/portal/internal/assistant"
	"github.com/felixgeelhaar/portal/internal/domain"
	perrors "github.com/felixgeelhaar/portal/internal/errors"
	"github.com/felixgeelhaar/portal/internal/log"
	"github.com/felixgeelhaar/portal/internal/metrics"
	"github.com/felixgeelhaar/portal/internal/screen"
	"github.com/felixgeelhaar/portal/internal/session"
	"github.com/felixgeelhaar/portal/internal/views"
)

type keyMap struct {
	Quit      key.Binding
	QuitSoft  key.Binding
	Next      key.Binding
	Prev      key.Binding
	Submit    key.Binding
	Back      key.Binding
	Logout    key.Binding
	Retry     key.Binding
	Assistant key.Binding
}

var keys = keyMap{
	Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	QuitSoft:  key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	Next:      key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next")),
	Prev:      key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous")),
	Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
	Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Logout:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "log out")),
	Retry:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
	Assistant: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "assistant")),
}

// Config wires a Model to the session and router it drives.
type Config struct {
	App        domain.App
	Store      *session.Store
	Router     *views.Router
	EmployeeID string
	Logger     *log.Logger
	Metrics    *metrics.Metrics
}

// Model represents the TUI application state
type Model struct {
	ctx        context.Context
	app        domain.App
	store      *session.Store
	router     *views.Router
	employeeID string
	logger     *log.Logger
	metrics    *metrics.Metrics

	screens     map[views.View]*screen.Screen[content]
	form        *form
	input       textinput.Model
	spinner     spinner.Model
	chatSession string

	// procurement assistant overlay
	assistantOpen bool
	transcript    []string

	busy     bool
	notice   *screen.Notice
	width    int
	height   int
	quitting bool

	styles Styles
}

// authMsg reports the end of a login or signup.
type authMsg struct {
	err error
}

// loadedMsg carries the outcome of one screen load.
type loadedMsg struct {
	view views.View
	gen  uint64
	data content
	err  error
}

// sentMsg reports an HR chat submission.
type sentMsg struct {
	notice screen.Notice
	err    error
}

// NewModel creates a model and subscribes its router to the session store.
func NewModel(ctx context.Context, cfg Config) *Model {
	if cfg.Logger == nil {
		cfg.Logger = log.Discard()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Discard()
	}
	if cfg.Router == nil {
		cfg.Router = views.NewRouter()
	}
	cfg.Router.Follow(cfg.Store)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	in := textinput.New()
	in.Placeholder = "Ask a question"
	in.CharLimit = 500
	in.Width = 60

	return &Model{
		ctx:         ctx,
		app:         cfg.App,
		store:       cfg.Store,
		router:      cfg.Router,
		employeeID:  cfg.EmployeeID,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
		screens:     make(map[views.View]*screen.Screen[content]),
		input:       in,
		spinner:     sp,
		chatSession: uuid.NewString(),
		styles:      DefaultStyles(),
	}
}

// Init initializes the TUI model (required by Bubble Tea)
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.enter(m.router.Current()))
}

// Update handles messages and updates the model state (required by Bubble Tea)
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case authMsg:
		m.busy = false
		if msg.err != nil {
			m.notify(screen.Notice{Kind: screen.NoticeError, Message: authMessage(msg.err)})
			return m, nil
		}
		m.notice = nil
		return m, m.enter(m.router.Current())

	case loadedMsg:
		if s, ok := m.screens[msg.view]; ok {
			if !s.Finish(msg.gen, msg.data, msg.err) {
				m.logger.Debug("dropped stale load", "view", msg.view.String(), "gen", msg.gen)
			} else if msg.err != nil {
				m.logger.WithError(msg.err).Warn("screen load failed", "view", msg.view.String())
			}
		}
		return m, nil

	case sentMsg:
		m.busy = false
		m.notify(msg.notice)
		if msg.err != nil {
			return m, nil
		}
		m.input.SetValue("")
		return m, m.load(views.Chat)
	}

	return m, m.forward(msg)
}

// forward hands other messages, such as cursor blinks, to the focused input.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	switch {
	case m.form != nil:
		return m.form.update(msg)
	case m.assistantOpen || m.router.Current() == views.Chat:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, keys.Quit) {
		m.quitting = true
		return tea.Quit
	}
	if m.busy {
		return nil
	}
	if m.assistantOpen {
		return m.handleAssistantKey(msg)
	}
	if !m.router.Authenticated() {
		return m.handlePublicKey(msg)
	}
	return m.handleSessionKey(msg)
}

func (m *Model) handlePublicKey(msg tea.KeyMsg) tea.Cmd {
	if m.form == nil {
		switch msg.String() {
		case "q":
			m.quitting = true
			return tea.Quit
		case "1":
			if m.app == domain.AppHR {
				return m.navigate(views.TeamLogin)
			}
			return m.navigate(views.VendorSignin)
		case "2":
			if m.app != domain.AppHR {
				return m.navigate(views.VendorSignup)
			}
		case "3":
			if m.app != domain.AppHR {
				return m.navigate(views.TeamLogin)
			}
		}
		return nil
	}

	switch {
	case key.Matches(msg, keys.Back):
		m.notice = nil
		return m.navigate(views.Landing)
	case key.Matches(msg, keys.Next):
		return m.form.move(1)
	case key.Matches(msg, keys.Prev):
		return m.form.move(-1)
	case key.Matches(msg, keys.Submit):
		if !m.form.onLast() {
			return m.form.move(1)
		}
		return m.submitForm()
	}
	return m.form.update(msg)
}

func (m *Model) handleSessionKey(msg tea.KeyMsg) tea.Cmd {
	items := views.NavItems(m.app, m.userType())
	current := m.router.Current()

	switch {
	case key.Matches(msg, keys.Next):
		return m.navigate(items[(navIndex(items, current)+1)%len(items)].View)
	case key.Matches(msg, keys.Prev):
		return m.navigate(items[(navIndex(items, current)-1+len(items))%len(items)].View)
	}

	if current == views.Chat && m.input.Focused() {
		switch {
		case key.Matches(msg, keys.Back):
			m.input.Blur()
			return nil
		case key.Matches(msg, keys.Submit):
			return m.sendChat()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, keys.QuitSoft):
		m.quitting = true
		return tea.Quit
	case key.Matches(msg, keys.Logout):
		return m.logout()
	case key.Matches(msg, keys.Retry):
		return m.load(current)
	case key.Matches(msg, keys.Assistant) && m.app == domain.AppProcurement:
		m.openAssistant()
		return m.input.Focus()
	case key.Matches(msg, keys.Submit) && current == views.Chat:
		return m.input.Focus()
	}

	if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(items) {
		return m.navigate(items[n-1].View)
	}
	return nil
}

// navigate asks the router for v and enters whatever view results.
func (m *Model) navigate(v views.View) tea.Cmd {
	prev := m.router.Current()
	if err := m.router.Navigate(v); err != nil {
		m.notify(screen.Notice{Kind: screen.NoticeError, Message: err.Error()})
		return nil
	}
	next := m.router.Current()
	if next == prev && m.form != nil {
		return nil
	}
	if s, ok := m.screens[prev]; ok && prev != next {
		s.Discard()
	}
	return m.enter(next)
}

// enter prepares v: a form for public views, a load for the others.
func (m *Model) enter(v views.View) tea.Cmd {
	m.form = nil
	switch v {
	case views.VendorSignin, views.TeamLogin:
		m.form = newLoginForm(v)
		return textinput.Blink
	case views.VendorSignup:
		m.form = newSignupForm()
		return textinput.Blink
	case views.Landing:
		return nil
	case views.Chat:
		return tea.Batch(m.load(v), m.input.Focus())
	}
	return m.load(v)
}

// load starts an asynchronous fetch for v. The generation travels with the
// result so a late answer for an abandoned load is dropped.
func (m *Model) load(v views.View) tea.Cmd {
	fetch := m.fetcher(v)
	if fetch == nil {
		return nil
	}
	s := m.screenFor(v)
	gen := s.Begin(fetch)
	ctx := m.ctx
	return func() tea.Msg {
		data, err := fetch(ctx)
		return loadedMsg{view: v, gen: gen, data: data, err: err}
	}
}

func (m *Model) screenFor(v views.View) *screen.Screen[content] {
	s, ok := m.screens[v]
	if !ok {
		sourceName := ""
		if src := m.store.Source(); src != nil {
			sourceName = src.Name()
		}
		s = screen.New[content](v.String(), screen.WithMetrics(m.metrics, sourceName))
		m.screens[v] = s
	}
	return s
}

func (m *Model) submitForm() tea.Cmd {
	f := m.form
	store := m.store
	ctx := m.ctx

	if f.view == views.VendorSignup {
		signup := f.signup()
		if err := signup.Validate(); err != nil {
			m.notify(screen.Notice{Kind: screen.NoticeError, Message: authMessage(err)})
			return nil
		}
		m.busy = true
		return func() tea.Msg {
			_, err := store.Signup(ctx, signup.Profile)
			return authMsg{err: err}
		}
	}

	email, password := f.value(fieldEmail), f.raw(fieldPassword)
	m.busy = true
	return func() tea.Msg {
		_, err := store.Login(ctx, email, password)
		return authMsg{err: err}
	}
}

func (m *Model) logout() tea.Cmd {
	if err := m.store.Logout(); err != nil {
		m.notify(screen.Notice{Kind: screen.NoticeError, Message: "Failed to clear the stored session"})
	}
	for v, s := range m.screens {
		s.Discard()
		delete(m.screens, v)
	}
	m.assistantOpen = false
	m.transcript = nil
	return m.enter(m.router.Current())
}

func (m *Model) sendChat() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	src := m.store.Source()
	if text == "" || src == nil {
		return nil
	}
	req := domain.ChatRequest{EmployeeID: m.employeeID, SessionID: m.chatSession, Message: text}
	ctx := m.ctx
	m.busy = true
	return func() tea.Msg {
		n, err := screen.Submit(ctx, "message", "", func(ctx context.Context) error {
			_, err := src.SendChatMessage(ctx, req)
			return err
		})
		return sentMsg{notice: n, err: err}
	}
}

func (m *Model) openAssistant() {
	m.assistantOpen = true
	if len(m.transcript) == 0 {
		m.transcript = []string{"Assistant: " + assistant.Welcome(m.assistantContext())}
	}
}

func (m *Model) handleAssistantKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Back):
		m.assistantOpen = false
		m.input.Blur()
		return nil
	case key.Matches(msg, keys.Submit):
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return nil
		}
		reply := assistant.Respond(m.assistantContext(), text)
		m.transcript = append(m.transcript, "You: "+text, "Assistant: "+reply.Text)
		m.input.SetValue("")
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) assistantContext() assistant.Context {
	return assistant.Context{App: m.app, UserType: m.userType()}
}

func (m *Model) userType() domain.UserType {
	if sess := m.store.Current(); sess != nil {
		return sess.User.UserType
	}
	return domain.UserTypeVendor
}

func (m *Model) notify(n screen.Notice) {
	if n.Message == "" {
		m.notice = nil
		return
	}
	m.notice = &n
}

func navIndex(items []views.NavItem, v views.View) int {
	for i, it := range items {
		if it.View == v {
			return i
		}
	}
	return 0
}

// authMessage is the text shown for a failed login, signup or form check.
func authMessage(err error) string {
	var ae *session.AuthError
	if errors.As(err, &ae) {
		return ae.Message
	}
	var pe *perrors.PortalError
	if errors.As(err, &pe) {
		return pe.Message
	}
	return err.Error()
}
