package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/portal/internal/datasource"
	"github.com/felixgeelhaar/portal/internal/domain"
	"github.com/felixgeelhaar/portal/internal/screen"
	"github.com/felixgeelhaar/portal/internal/views"
)

// content is what an authenticated screen renders: a heading and
// pre-formatted rows.
type content struct {
	Title string
	Lines []string
}

// fetcher returns the load function for v, or nil when v has nothing to
// fetch or there is no session.
func (m *Model) fetcher(v views.View) screen.Fetch[content] {
	src := m.store.Source()
	sess := m.store.Current()
	if src == nil || sess == nil {
		return nil
	}

	if m.app == domain.AppHR {
		switch v {
		case views.Dashboard:
			return hrDashboard(src, m.employeeID)
		case views.Services:
			return hrServices(src, m.employeeID)
		case views.Policies:
			return hrPolicies(src)
		case views.Chat:
			return hrChat(src, m.employeeID, m.chatSession)
		}
		return nil
	}

	switch v {
	case views.Dashboard:
		return procurementDashboard(src, sess.User.UserType)
	case views.RFPs:
		return rfpList(src)
	case views.Proposals:
		return proposalList(src, "My Proposals")
	case views.Evaluation:
		return proposalList(src, "Proposal Evaluations")
	case views.Contracts:
		return contractList(src)
	}
	return nil
}

func hrDashboard(src datasource.HR, employeeID string) screen.Fetch[content] {
	return func(ctx context.Context) (content, error) {
		var (
			emp  *domain.Employee
			dash *domain.Dashboard
		)
		err := screen.Join(ctx,
			func(ctx context.Context) error {
				var err error
				emp, err = src.GetEmployee(ctx, employeeID)
				return err
			},
			func(ctx context.Context) error {
				var err error
				dash, err = src.GetDashboard(ctx, employeeID)
				return err
			},
		)
		if err != nil {
			return content{}, err
		}

		lines := []string{
			fmt.Sprintf("%s · %s · %s", emp.Name, emp.Title, emp.Department),
			"",
			fmt.Sprintf("Vacation days left:   %d", dash.VacationDaysLeft),
			fmt.Sprintf("Last salary payment:  %s on %s (%s)", money(dash.LastSalaryPayment.Amount), dash.LastSalaryPayment.Date, dash.LastSalaryPayment.Status),
		}
		if dash.BusinessTripStatus.Current != "" {
			lines = append(lines, fmt.Sprintf("Business trip:        %s (%s)", dash.BusinessTripStatus.Current, dash.BusinessTripStatus.Status))
		}
		lines = append(lines, "", fmt.Sprintf("Pending requests (%d)", len(dash.PendingRequests)))
		for _, r := range dash.PendingRequests {
			lines = append(lines, fmt.Sprintf("  %-24s %-18s %s", r.Type, r.Status, r.SubmittedDate))
		}
		if len(dash.UpcomingEvents) > 0 {
			lines = append(lines, "", "Upcoming")
			for _, e := range dash.UpcomingEvents {
				lines = append(lines, fmt.Sprintf("  %-24s %s", e.Type, e.Date))
			}
		}
		return content{Title: "Welcome back, " + firstName(emp.Name), Lines: lines}, nil
	}
}

func hrServices(src datasource.HR, employeeID string) screen.Fetch[content] {
	return func(ctx context.Context) (content, error) {
		reqs, err := src.ListRequests(ctx, employeeID)
		if err != nil {
			return content{}, err
		}
		lines := make([]string, 0, len(reqs)+2)
		if len(reqs) == 0 {
			lines = append(lines, "No requests yet.")
		}
		for _, r := range reqs {
			lines = append(lines, fmt.Sprintf("%-10s %-24s %-18s %s", r.ID, r.Type, r.Status, r.SubmittedDate))
		}
		lines = append(lines, "", "Available: "+strings.Join(domain.RequestTypes, ", "))
		return content{Title: "My Requests", Lines: lines}, nil
	}
}

func hrPolicies(src datasource.HR) screen.Fetch[content] {
	return func(ctx context.Context) (content, error) {
		policies, err := src.ListPolicies(ctx, domain.PolicyQuery{})
		if err != nil {
			return content{}, err
		}
		lines := make([]string, 0, len(policies))
		for _, p := range policies {
			lines = append(lines, fmt.Sprintf("%-8s %-32s %s", p.ID, p.Title, p.Category))
		}
		return content{Title: "Company Policies", Lines: lines}, nil
	}
}

func hrChat(src datasource.HR, employeeID, sessionID string) screen.Fetch[content] {
	return func(ctx context.Context) (content, error) {
		history, err := src.ChatHistory(ctx, employeeID, sessionID)
		if err != nil {
			return content{}, err
		}
		lines := make([]string, 0, 2*len(history))
		for _, msg := range history {
			lines = append(lines, "You: "+msg.Message, "Assistant: "+msg.Response, "")
		}
		return content{Title: "HR Assistant", Lines: lines}, nil
	}
}

func procurementDashboard(src datasource.Procurement, userType domain.UserType) screen.Fetch[content] {
	return func(ctx context.Context) (content, error) {
		var (
			stats *domain.DashboardStats
			rfps  []domain.RFP
		)
		err := screen.Join(ctx,
			func(ctx context.Context) error {
				var err error
				stats, err = src.DashboardStats(ctx)
				return err
			},
			func(ctx context.Context) error {
				var err error
				rfps, err = src.ListRFPs(ctx)
				return err
			},
		)
		if err != nil {
			return content{}, err
		}

		var lines []string
		if userType.IsAdmin() {
			lines = append(lines,
				fmt.Sprintf("Total RFPs:        %d", stats.TotalRFPs),
				fmt.Sprintf("Active RFPs:       %d", stats.ActiveRFPs),
				fmt.Sprintf("Total proposals:   %d", stats.TotalProposals),
				fmt.Sprintf("Pending vendors:   %d", stats.PendingVendors),
			)
		} else {
			lines = append(lines,
				fmt.Sprintf("My proposals:      %d", stats.TotalProposals),
				fmt.Sprintf("Awarded contracts: %d", stats.AwardedContracts),
				fmt.Sprintf("Open RFPs:         %d", len(rfps)),
			)
		}
		lines = append(lines, "", "Recent RFPs")
		for i, r := range rfps {
			if i == 5 {
				break
			}
			lines = append(lines, rfpRow(r))
		}
		return content{Title: "Dashboard", Lines: lines}, nil
	}
}

func rfpList(src datasource.Procurement) screen.Fetch[content] {
	return func(ctx context.Context) (content, error) {
		rfps, err := src.ListRFPs(ctx)
		if err != nil {
			return content{}, err
		}
		lines := make([]string, 0, len(rfps))
		if len(rfps) == 0 {
			lines = append(lines, "No RFPs available.")
		}
		for _, r := range rfps {
			lines = append(lines, rfpRow(r))
		}
		return content{Title: "RFPs", Lines: lines}, nil
	}
}

func rfpRow(r domain.RFP) string {
	return fmt.Sprintf("  %-14s %-40s %14s  %-8s due %s", r.ID, truncate(r.Title, 40), money(r.Budget), r.Status, r.Deadline)
}

func proposalList(src datasource.Procurement, title string) screen.Fetch[content] {
	return func(ctx context.Context) (content, error) {
		proposals, err := src.ListProposals(ctx)
		if err != nil {
			return content{}, err
		}
		lines := make([]string, 0, len(proposals))
		if len(proposals) == 0 {
			lines = append(lines, "No proposals yet.")
		}
		for _, p := range proposals {
			score := "not scored"
			if p.AIScore != nil {
				score = fmt.Sprintf("score %.1f", *p.AIScore)
			}
			lines = append(lines, fmt.Sprintf("  %-18s %-14s %-24s %-12s %s", p.ID, p.RFPID, truncate(p.VendorCompany, 24), p.Status, score))
		}
		return content{Title: title, Lines: lines}, nil
	}
}

func contractList(src datasource.Procurement) screen.Fetch[content] {
	return func(ctx context.Context) (content, error) {
		contracts, err := src.ListContracts(ctx)
		if err != nil {
			return content{}, err
		}
		lines := make([]string, 0, len(contracts))
		if len(contracts) == 0 {
			lines = append(lines, "No contracts yet.")
		}
		for _, c := range contracts {
			lines = append(lines,
				fmt.Sprintf("  %-16s %-36s %14s  %-10s %3.0f%%", c.ID, truncate(c.RFPTitle, 36), money(c.ContractValue), c.Status, c.Progress),
			)
			if c.NextMilestone != "" {
				lines = append(lines, "      next: "+c.NextMilestone)
			}
		}
		return content{Title: "Contracts", Lines: lines}, nil
	}
}

// money formats an amount with thousands separators.
func money(v float64) string {
	s := strconv.FormatInt(int64(v), 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-$" + b.String()
	}
	return "$" + b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func firstName(name string) string {
	if f := strings.Fields(name); len(f) > 0 {
		return f[0]
	}
	return name
}
