package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/portal/internal/domain"
	"github.com/felixgeelhaar/portal/internal/screen"
	"github.com/felixgeelhaar/portal/internal/views"
)

// View renders the TUI (required by Bubble Tea)
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	current := m.router.Current()
	if m.router.Authenticated() {
		b.WriteString(m.renderNav(current))
		b.WriteString("\n\n")
		if m.assistantOpen {
			b.WriteString(m.renderAssistant())
		} else {
			b.WriteString(m.renderScreen(current))
		}
	} else {
		b.WriteString(m.renderPublic(current))
	}

	if m.notice != nil {
		b.WriteString("\n\n")
		b.WriteString(m.renderNotice(*m.notice))
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelpLine(current))
	return b.String()
}

func (m *Model) renderHeader() string {
	title := "1957 Ventures Procurement Portal"
	if m.app == domain.AppHR {
		title = "HR Self-Service"
	}
	header := m.styles.Title.Render(title)

	if sess := m.store.Current(); sess != nil {
		who := m.styles.Subtitle.Render(fmt.Sprintf("%s · %s", sess.User.Email, sess.User.CompanyName))
		header += "  " + who
		if sess.IsDemo() {
			header += " " + m.styles.DemoBadge.Render("DEMO")
		}
	}
	return header
}

func (m *Model) renderNav(current views.View) string {
	items := views.NavItems(m.app, m.userType())
	parts := make([]string, 0, len(items))
	for i, it := range items {
		label := fmt.Sprintf("%d %s", i+1, it.Label)
		if it.View == current {
			parts = append(parts, m.styles.NavActive.Render(label))
		} else {
			parts = append(parts, m.styles.NavItem.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderPublic(current views.View) string {
	if m.form == nil {
		return m.renderLanding()
	}

	var b strings.Builder
	switch m.form.view {
	case views.VendorSignup:
		b.WriteString(m.styles.Status.Render("Vendor Registration"))
	case views.TeamLogin:
		b.WriteString(m.styles.Status.Render("Team Login"))
	default:
		b.WriteString(m.styles.Status.Render("Vendor Sign In"))
	}
	b.WriteString("\n\n")

	for i, f := range m.form.fields {
		label := m.styles.Label.Render(f.label)
		if i == m.form.focus {
			label = m.styles.Focused.Render("› " + f.label)
		}
		b.WriteString(label + f.input.View() + "\n")
	}

	if m.busy {
		b.WriteString("\n" + m.spinner.View() + " Signing in...")
	}
	return m.styles.Border.Render(b.String())
}

func (m *Model) renderLanding() string {
	var b strings.Builder
	if m.app == domain.AppHR {
		b.WriteString("Employee self-service for leave, requests, salary and policies.\n\n")
		b.WriteString(m.styles.Key.Render("1") + " Sign in\n")
	} else {
		b.WriteString("Transparent, efficient vendor procurement.\n\n")
		b.WriteString(m.styles.Key.Render("1") + " Vendor sign in\n")
		b.WriteString(m.styles.Key.Render("2") + " Register as a vendor\n")
		b.WriteString(m.styles.Key.Render("3") + " Team login\n")
	}
	b.WriteString("\n" + m.styles.Muted.Render("Any email and password start a demo session."))
	return m.styles.Border.Render(b.String())
}

func (m *Model) renderScreen(v views.View) string {
	s, ok := m.screens[v]
	if !ok {
		return m.styles.Muted.Render("Nothing to show.")
	}
	snap := s.Snapshot()

	var b strings.Builder
	if snap.State == screen.Loading && !snap.HasData {
		b.WriteString(m.spinner.View() + " Loading...")
		return b.String()
	}

	if snap.HasData {
		b.WriteString(m.styles.Status.Render(snap.Data.Title))
		if snap.State == screen.Loading {
			b.WriteString(" " + m.spinner.View())
		}
		b.WriteString("\n\n")
		b.WriteString(strings.Join(snap.Data.Lines, "\n"))
	}

	if snap.Failed() {
		if snap.HasData {
			b.WriteString("\n\n")
		}
		msg := screen.ErrorMessage(s.Name(), snap.Err)
		b.WriteString(m.styles.ErrorBox.Render(m.styles.Error.Render("Error: ") + msg + "\n" + m.styles.Muted.Render("Press r to retry")))
	}

	if v == views.Chat {
		b.WriteString("\n\n" + m.styles.AssistantIn.Render(m.input.View()))
	}
	return b.String()
}

func (m *Model) renderAssistant() string {
	var b strings.Builder
	b.WriteString(m.styles.Status.Render("Assistant"))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(m.transcript, "\n"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.AssistantIn.Render(m.input.View()))
	return b.String()
}

func (m *Model) renderNotice(n screen.Notice) string {
	if n.Kind == screen.NoticeError {
		return m.styles.Error.Render("✗ ") + n.Message
	}
	return m.styles.Success.Render("✓ ") + n.Message
}

// renderHelpLine renders the key help for the current state
func (m *Model) renderHelpLine(current views.View) string {
	var help []string

	add := func(k, desc string) {
		help = append(help, m.styles.Key.Render(k)+" "+m.styles.KeyDesc.Render(desc))
	}

	switch {
	case m.assistantOpen:
		add("enter", "send")
		add("esc", "close")
	case !m.router.Authenticated() && m.form != nil:
		add("tab", "next field")
		add("enter", "submit")
		add("esc", "back")
	case !m.router.Authenticated():
		add("q", "quit")
	default:
		add("tab", "next")
		add("1-9", "jump")
		add("r", "retry")
		add("L", "log out")
		if m.app == domain.AppProcurement {
			add("c", "assistant")
		}
		if current == views.Chat {
			add("enter", "type")
		}
		add("q", "quit")
	}

	return m.styles.Help.Render(strings.Join(help, " • "))
}
