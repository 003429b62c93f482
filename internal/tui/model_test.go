package tui

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/portal/internal/datasource"
	"github.com/felixgeelhaar/portal/internal/domain"
	"github.com/felixgeelhaar/portal/internal/fixtures"
	"github.com/felixgeelhaar/portal/internal/screen"
	"github.com/felixgeelhaar/portal/internal/session"
	"github.com/felixgeelhaar/portal/internal/views"
)

// flakySource fails ListRFPs while fail is set.
type flakySource struct {
	datasource.Source
	fail *atomic.Bool
}

func (f flakySource) ListRFPs(ctx context.Context) ([]domain.RFP, error) {
	if f.fail.Load() {
		return nil, errors.New("connection refused")
	}
	return f.Source.ListRFPs(ctx)
}

type harness struct {
	m     *Model
	store *session.Store
	fail  *atomic.Bool
}

func newHarness(t *testing.T, app domain.App) *harness {
	t.Helper()
	state, err := fixtures.NewDemoState()
	require.NoError(t, err)

	factory := &datasource.Factory{Fixtures: state}
	fail := &atomic.Bool{}
	store := session.NewStore(session.NewMemoryTokenStore(), nil,
		session.WithSources(func(token string, user domain.User, demo bool) (datasource.Source, error) {
			src, err := factory.For(token, user, demo)
			if err != nil {
				return nil, err
			}
			return flakySource{Source: src, fail: fail}, nil
		}),
	)

	m := NewModel(context.Background(), Config{
		App:        app,
		Store:      store,
		EmployeeID: fixtures.DemoEmployeeID,
	})
	return &harness{m: m, store: store, fail: fail}
}

// send delivers msg and settles every command it produces.
func (h *harness) send(t *testing.T, msg tea.Msg) {
	t.Helper()
	_, cmd := h.m.Update(msg)
	h.settle(t, cmd)
}

// settle runs cmd and feeds back the model's own messages. Cursor blinks
// and spinner ticks are timers and are not waited for.
func (h *harness) settle(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	for _, msg := range run(cmd) {
		switch msg.(type) {
		case authMsg, loadedMsg, sentMsg:
			h.send(t, msg)
		}
	}
}

func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case msg := <-done:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, run(c)...)
			}
			return out
		}
		return []tea.Msg{msg}
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

func (h *harness) typeText(t *testing.T, s string) {
	t.Helper()
	h.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) press(t *testing.T, k tea.KeyType) {
	t.Helper()
	h.send(t, tea.KeyMsg{Type: k})
}

func (h *harness) login(t *testing.T, email string) {
	t.Helper()
	h.typeText(t, "1")
	h.typeText(t, email)
	h.press(t, tea.KeyTab)
	h.typeText(t, "secret")
	h.press(t, tea.KeyEnter)
	require.NotNil(t, h.store.Current(), "login should start a session")
}

func (h *harness) snapshot(v views.View) screen.Snapshot[content] {
	s, ok := h.m.screens[v]
	if !ok {
		return screen.Snapshot[content]{}
	}
	return s.Snapshot()
}

func TestNewModel_StartsAtLanding(t *testing.T) {
	h := newHarness(t, domain.AppProcurement)
	h.settle(t, h.m.Init())

	assert.Equal(t, views.Landing, h.m.router.Current())
	assert.Contains(t, h.m.View(), "Vendor sign in")
	assert.Contains(t, h.m.View(), "Team login")
}

func TestLogin_LandsOnLoadedDashboard(t *testing.T) {
	h := newHarness(t, domain.AppProcurement)
	h.login(t, "vendor@acme.com")

	assert.Equal(t, views.Dashboard, h.m.router.Current())
	assert.Nil(t, h.m.form)

	snap := h.snapshot(views.Dashboard)
	assert.Equal(t, screen.Loaded, snap.State)
	assert.Equal(t, "Dashboard", snap.Data.Title)

	out := h.m.View()
	assert.Contains(t, out, "DEMO")
	assert.Contains(t, out, "Available RFPs")
	assert.Contains(t, out, "My proposals")
}

func TestLogin_AdminNavigation(t *testing.T) {
	h := newHarness(t, domain.AppProcurement)
	h.login(t, "buyer@1957ventures.com")

	out := h.m.View()
	assert.Contains(t, out, "Manage RFPs")
	assert.Contains(t, out, "Pending vendors")

	h.typeText(t, "3")
	assert.Equal(t, views.Evaluation, h.m.router.Current())
	assert.Equal(t, "Proposal Evaluations", h.snapshot(views.Evaluation).Data.Title)
}

func TestNavigationKeys(t *testing.T) {
	h := newHarness(t, domain.AppProcurement)
	h.login(t, "vendor@acme.com")

	h.typeText(t, "2")
	assert.Equal(t, views.RFPs, h.m.router.Current())
	assert.Equal(t, screen.Loaded, h.snapshot(views.RFPs).State)

	h.press(t, tea.KeyTab)
	assert.Equal(t, views.Proposals, h.m.router.Current())

	h.press(t, tea.KeyShiftTab)
	assert.Equal(t, views.RFPs, h.m.router.Current())

	h.typeText(t, "9")
	assert.Equal(t, views.RFPs, h.m.router.Current(), "out of range number keys are ignored")
}

func TestLogout(t *testing.T) {
	h := newHarness(t, domain.AppProcurement)
	h.login(t, "vendor@acme.com")

	h.typeText(t, "L")

	assert.Nil(t, h.store.Current())
	assert.Equal(t, views.Landing, h.m.router.Current())
	assert.Empty(t, h.m.screens)
	assert.NotContains(t, h.m.View(), "DEMO")
}

func TestFailedLoadKeepsDataAndRetries(t *testing.T) {
	h := newHarness(t, domain.AppProcurement)
	h.login(t, "vendor@acme.com")
	h.typeText(t, "2")
	require.True(t, h.snapshot(views.RFPs).HasData)

	h.fail.Store(true)
	h.typeText(t, "r")

	snap := h.snapshot(views.RFPs)
	assert.True(t, snap.Failed())
	assert.True(t, snap.HasData, "previous data stays visible")
	assert.Contains(t, h.m.View(), "Press r to retry")

	h.fail.Store(false)
	h.typeText(t, "r")
	assert.False(t, h.snapshot(views.RFPs).Failed())
}

func TestLeavingViewDropsLateResponse(t *testing.T) {
	h := newHarness(t, domain.AppProcurement)
	h.login(t, "vendor@acme.com")

	// Start the RFP load but leave before it answers.
	_, pending := h.m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})
	h.typeText(t, "4")
	assert.Equal(t, views.Contracts, h.m.router.Current())

	h.settle(t, pending)
	assert.False(t, h.snapshot(views.RFPs).HasData)
}

func TestVendorSignup(t *testing.T) {
	h := newHarness(t, domain.AppProcurement)
	h.typeText(t, "2")
	require.NotNil(t, h.m.form)
	assert.Equal(t, views.VendorSignup, h.m.router.Current())

	f := h.m.form
	f.set(fieldEmail, "sales@acme.com")
	f.set(fieldPassword, "secret")
	f.set(fieldConfirm, "different")
	f.set(fieldCompany, "Acme Trading")
	f.set(fieldOTP, session.DemoOTP)
	for !f.onLast() {
		f.move(1)
	}

	h.press(t, tea.KeyEnter)
	require.NotNil(t, h.m.notice)
	assert.Equal(t, "passwords do not match", h.m.notice.Message)
	assert.Nil(t, h.store.Current())
	assert.Equal(t, "sales@acme.com", h.m.form.value(fieldEmail), "form is kept after a failed check")

	f.set(fieldConfirm, "secret")
	h.press(t, tea.KeyEnter)

	sess := h.store.Current()
	require.NotNil(t, sess)
	assert.Equal(t, domain.UserTypeVendor, sess.User.UserType)
	assert.Equal(t, "Acme Trading", sess.User.CompanyName)
	assert.Equal(t, views.Dashboard, h.m.router.Current())
}

func TestFormEscapeReturnsToLanding(t *testing.T) {
	h := newHarness(t, domain.AppProcurement)
	h.typeText(t, "3")
	assert.Equal(t, views.TeamLogin, h.m.router.Current())

	h.press(t, tea.KeyEsc)
	assert.Equal(t, views.Landing, h.m.router.Current())
	assert.Nil(t, h.m.form)
}

func TestAssistantOverlay(t *testing.T) {
	h := newHarness(t, domain.AppProcurement)
	h.login(t, "buyer@1957ventures.com")

	h.typeText(t, "c")
	require.True(t, h.m.assistantOpen)
	assert.Contains(t, h.m.transcript[0], "admin assistant")

	h.typeText(t, "how do I create an rfp")
	h.press(t, tea.KeyEnter)
	require.Len(t, h.m.transcript, 3)
	assert.Contains(t, h.m.transcript[2], "RFP Management")

	h.press(t, tea.KeyEsc)
	assert.False(t, h.m.assistantOpen)
}

func TestHRDashboardAndChat(t *testing.T) {
	h := newHarness(t, domain.AppHR)
	h.login(t, "ahmed.alrahman@1957ventures.com")

	snap := h.snapshot(views.Dashboard)
	require.Equal(t, screen.Loaded, snap.State)
	assert.Equal(t, "Welcome back, Ahmed", snap.Data.Title)

	h.typeText(t, "4")
	require.Equal(t, views.Chat, h.m.router.Current())
	require.True(t, h.m.input.Focused())

	h.typeText(t, "How many vacation days do I have?")
	h.press(t, tea.KeyEnter)

	assert.Empty(t, h.m.input.Value())
	lines := h.snapshot(views.Chat).Data.Lines
	require.NotEmpty(t, lines)
	assert.Equal(t, "You: How many vacation days do I have?", lines[0])
}

func TestQuit(t *testing.T) {
	h := newHarness(t, domain.AppProcurement)

	_, cmd := h.m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, h.m.View())
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$0", money(0))
	assert.Equal(t, "$950", money(950))
	assert.Equal(t, "$1,500,000", money(1500000))
	assert.Equal(t, "-$12,000", money(-12000))
}
