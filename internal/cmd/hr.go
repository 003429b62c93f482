package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/portal/internal/domain"
	"github.com/felixgeelhaar/portal/internal/tui"
	"github.com/felixgeelhaar/portal/internal/ux"
)

func newHRCommand() *cobra.Command {
	hrCmd := &cobra.Command{
		Use:   "hr",
		Short: "HR self-service: profile, requests, policies, salary and the HR assistant",
		Long: `HR self-service commands. They act for the employee given by --employee,
the employee_id config key or PORTAL_EMPLOYEE_ID (the demo employee by default).`,
	}
	hrCmd.AddCommand(
		newHRProfileCommand(),
		newHREmployeesCommand(),
		newHRDashboardCommand(),
		newHRRequestsCommand(),
		newHRRequestCommand(),
		newHRPoliciesCommand(),
		newHRPolicyCommand(),
		newHRCategoriesCommand(),
		newHRChatCommand(),
		newHRHistoryCommand(),
		newHRBalanceCommand(),
		newHRPaymentsCommand(),
	)
	return hrCmd
}

func newHRProfileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profile [employee-id]",
		Short: "Show an employee profile",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			_, src, err := cc.RequireSession(cmd.Context())
			if err != nil {
				return err
			}

			id := cc.EmployeeID()
			if len(args) == 1 {
				id = args[0]
			}
			emp, err := src.GetEmployee(cmd.Context(), id)
			if err != nil {
				return ux.FormatError(err, "loading employee")
			}

			return cc.Render(emp, ux.KeyValues(emp.Name,
				"ID", emp.ID,
				"Email", emp.Email,
				"Title", emp.Title,
				"Department", emp.Department,
				"Grade", emp.Grade,
				"Manager", emp.Manager,
				"Start date", emp.StartDate,
				"Total salary", money(emp.TotalSalary),
			))
		},
	}
}

func newHREmployeesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "employees",
		Short: "List employees",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			_, src, err := cc.RequireSession(cmd.Context())
			if err != nil {
				return err
			}

			emps, err := src.ListEmployees(cmd.Context())
			if err != nil {
				return ux.FormatError(err, "listing employees")
			}

			t := ux.NewTable("ID", "NAME", "TITLE", "DEPARTMENT")
			for _, e := range emps {
				t.Add(e.ID, e.Name, e.Title, e.Department)
			}
			return cc.Render(emps, t)
		},
	}
}

func newHRDashboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show leave, pending requests and the last salary payment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			_, src, err := cc.RequireSession(cmd.Context())
			if err != nil {
				return err
			}

			dash, err := src.GetDashboard(cmd.Context(), cc.EmployeeID())
			if err != nil {
				return ux.FormatError(err, "loading dashboard")
			}

			t := ux.KeyValues("HR Dashboard",
				"Vacation days left", strconv.Itoa(dash.VacationDaysLeft),
				"Last salary", fmt.Sprintf("%s on %s (%s)", money(dash.LastSalaryPayment.Amount), dash.LastSalaryPayment.Date, dash.LastSalaryPayment.Status),
			)
			if dash.BusinessTripStatus.Current != "" {
				t.Add("Business trip:", fmt.Sprintf("%s (%s)", dash.BusinessTripStatus.Current, dash.BusinessTripStatus.Status))
			}
			t.Footer = append(t.Footer, "", fmt.Sprintf("Pending requests (%d)", len(dash.PendingRequests)))
			for _, r := range dash.PendingRequests {
				t.Footer = append(t.Footer, fmt.Sprintf("  %s  %s  %s  %s", r.ID, r.Type, r.Status, r.SubmittedDate))
			}
			for _, e := range dash.UpcomingEvents {
				t.Footer = append(t.Footer, fmt.Sprintf("Upcoming: %s on %s", e.Type, e.Date))
			}
			return cc.Render(dash, t)
		},
	}
}

func newHRRequestsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "requests",
		Short: "List your HR requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			_, src, err := cc.RequireSession(cmd.Context())
			if err != nil {
				return err
			}

			reqs, err := src.ListRequests(cmd.Context(), cc.EmployeeID())
			if err != nil {
				return ux.FormatError(err, "listing requests")
			}

			t := ux.NewTable("ID", "TYPE", "STATUS", "SUBMITTED")
			for _, r := range reqs {
				t.Add(r.ID, r.Type, r.Status, r.SubmittedDate)
			}
			if len(reqs) == 0 {
				t.Footer = []string{"No requests yet."}
			}
			return cc.Render(reqs, t)
		},
	}
}

func newHRRequestCommand() *cobra.Command {
	requestCmd := &cobra.Command{
		Use:   "request",
		Short: "Create HR requests and change their status",
	}
	requestCmd.AddCommand(newHRRequestCreateCommand(), newHRRequestStatusCommand())
	return requestCmd
}

func newHRRequestCreateCommand() *cobra.Command {
	var (
		req    domain.HRRequest
		amount float64
	)

	c := &cobra.Command{
		Use:   "create",
		Short: "Submit a leave, travel, expense or certificate request",
		Long: "Submit an HR request. Types: " + strings.Join(domain.RequestTypes, ", ") + ".",
		Example: `  portal hr request create --type "Vacation Leave" --start 2025-03-01 --end 2025-03-05 --reason "Family trip"
  portal hr request create --type "Expense Reimbursement" --amount 450 --description "Client dinner"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			_, src, err := cc.RequireSession(cmd.Context())
			if err != nil {
				return err
			}

			if req.Type == "" && tui.ShouldPrompt() {
				if req.Type, err = tui.PromptForSelect("Request type", domain.RequestTypes); err != nil {
					return err
				}
			}
			if req.Type == "" {
				return fmt.Errorf("--type is required (one of: %s)", strings.Join(domain.RequestTypes, ", "))
			}
			if cmd.Flags().Changed("amount") {
				req.Amount = &amount
			}
			req.EmployeeID = cc.EmployeeID()

			created, err := src.CreateRequest(cmd.Context(), req)
			if err != nil {
				return ux.FormatError(err, "creating request")
			}

			return cc.Render(created, ux.KeyValues("✓ Request submitted",
				"ID", created.ID,
				"Type", created.Type,
				"Status", created.Status,
				"Submitted", created.SubmittedDate,
			))
		},
	}

	f := c.Flags()
	f.StringVar(&req.Type, "type", "", "request type")
	f.StringVar(&req.StartDate, "start", "", "start date (YYYY-MM-DD)")
	f.StringVar(&req.EndDate, "end", "", "end date (YYYY-MM-DD)")
	f.IntVar(&req.Days, "days", 0, "number of days")
	f.StringVar(&req.Reason, "reason", "", "reason for leave")
	f.StringVar(&req.Purpose, "purpose", "", "purpose of a certificate")
	f.Float64Var(&amount, "amount", 0, "expense amount")
	f.StringVar(&req.Category, "category", "", "expense category")
	f.StringVar(&req.Description, "description", "", "description")
	f.StringVar(&req.Destination, "destination", "", "business trip destination")
	f.StringVar(&req.DepartureDate, "departure", "", "business trip departure date")
	f.StringVar(&req.ReturnDate, "return", "", "business trip return date")
	f.StringVar(&req.BusinessPurpose, "business-purpose", "", "business trip purpose")
	f.StringVar(&req.Details, "details", "", "additional details")
	return c
}

func newHRRequestStatusCommand() *cobra.Command {
	var update domain.StatusUpdate

	c := &cobra.Command{
		Use:   "status <request-id>",
		Short: "Approve, reject or review a request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			_, src, err := cc.RequireSession(cmd.Context())
			if err != nil {
				return err
			}
			if update.Status == "" {
				return fmt.Errorf("--status is required")
			}

			if err := src.UpdateRequestStatus(cmd.Context(), args[0], update); err != nil {
				return ux.FormatError(err, "updating request")
			}
			cc.Printf("✓ Request %s is now %s\n", args[0], update.Status)
			return nil
		},
	}

	c.Flags().StringVar(&update.Status, "status", "", "new status, e.g. Approved or Rejected")
	c.Flags().StringVar(&update.ApprovedBy, "approved-by", "", "approver name")
	return c
}

func newHRPoliciesCommand() *cobra.Command {
	var query domain.PolicyQuery

	c := &cobra.Command{
		Use:   "policies",
		Short: "List company policies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			_, src, err := cc.RequireSession(cmd.Context())
			if err != nil {
				return err
			}

			policies, err := src.ListPolicies(cmd.Context(), query)
			if err != nil {
				return ux.FormatError(err, "listing policies")
			}

			t := ux.NewTable("ID", "TITLE", "CATEGORY", "UPDATED")
			for _, p := range policies {
				t.Add(p.ID, p.Title, p.Category, p.LastUpdated)
			}
			return cc.Render(policies, t)
		},
	}

	c.Flags().StringVar(&query.Category, "category", "", "only this category")
	c.Flags().StringVar(&query.Search, "search", "", "match title, content or tags")
	return c
}

func newHRPolicyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "policy <policy-id>",
		Short: "Show a policy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			_, src, err := cc.RequireSession(cmd.Context())
			if err != nil {
				return err
			}

			p, err := src.GetPolicy(cmd.Context(), args[0])
			if err != nil {
				return ux.FormatError(err, "loading policy")
			}

			t := ux.KeyValues(p.Title,
				"ID", p.ID,
				"Category", p.Category,
				"Tags", strings.Join(p.Tags, ", "),
				"Updated", p.LastUpdated,
			)
			t.Footer = []string{"", p.Content}
			return cc.Render(p, t)
		},
	}
}

func newHRCategoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List policy categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			_, src, err := cc.RequireSession(cmd.Context())
			if err != nil {
				return err
			}

			cats, err := src.ListPolicyCategories(cmd.Context())
			if err != nil {
				return ux.FormatError(err, "listing categories")
			}
			return cc.Render(cats, &ux.Table{Footer: cats})
		},
	}
}

func newHRChatCommand() *cobra.Command {
	var sessionID string

	c := &cobra.Command{
		Use:   "chat <message>",
		Short: "Ask the HR assistant",
		Example: `  portal hr chat "How many vacation days do I have?"
  portal hr chat --session my-thread "What is the remote work policy?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			_, src, err := cc.RequireSession(cmd.Context())
			if err != nil {
				return err
			}

			if sessionID == "" {
				sessionID = uuid.NewString()
			}
			msg, err := src.SendChatMessage(cmd.Context(), domain.ChatRequest{
				EmployeeID: cc.EmployeeID(),
				SessionID:  sessionID,
				Message:    strings.Join(args, " "),
			})
			if err != nil {
				return ux.FormatError(err, "sending message")
			}

			return cc.Render(msg, &ux.Table{
				Footer: []string{msg.Response, "", "session: " + sessionID},
			})
		},
	}

	c.Flags().StringVar(&sessionID, "session", "", "conversation to continue (a new one by default)")
	return c
}

func newHRHistoryCommand() *cobra.Command {
	var sessionID string

	c := &cobra.Command{
		Use:   "history",
		Short: "Show HR assistant conversation history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			_, src, err := cc.RequireSession(cmd.Context())
			if err != nil {
				return err
			}

			history, err := src.ChatHistory(cmd.Context(), cc.EmployeeID(), sessionID)
			if err != nil {
				return ux.FormatError(err, "loading history")
			}

			t := &ux.Table{}
			for _, m := range history {
				t.Footer = append(t.Footer, "You: "+m.Message, "Assistant: "+m.Response, "")
			}
			if len(history) == 0 {
				t.Footer = []string{"No messages yet."}
			}
			return cc.Render(history, t)
		},
	}

	c.Flags().StringVar(&sessionID, "session", "", "only this conversation")
	return c
}

func newHRBalanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the vacation balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			_, src, err := cc.RequireSession(cmd.Context())
			if err != nil {
				return err
			}

			b, err := src.GetVacationBalance(cmd.Context(), cc.EmployeeID())
			if err != nil {
				return ux.FormatError(err, "loading balance")
			}

			return cc.Render(b, ux.KeyValues(fmt.Sprintf("Vacation %d", b.Year),
				"Total", strconv.Itoa(b.TotalDays),
				"Used", strconv.Itoa(b.UsedDays),
				"Remaining", strconv.Itoa(b.RemainingDays),
			))
		},
	}
}

func newHRPaymentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "payments",
		Short: "List salary payments",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			_, src, err := cc.RequireSession(cmd.Context())
			if err != nil {
				return err
			}

			payments, err := src.ListSalaryPayments(cmd.Context(), cc.EmployeeID())
			if err != nil {
				return ux.FormatError(err, "listing payments")
			}

			t := ux.NewTable("DATE", "AMOUNT", "STATUS", "DESCRIPTION")
			for _, p := range payments {
				t.Add(p.Date, money(p.Amount), p.Status, p.Description)
			}
			return cc.Render(payments, t)
		},
	}
}
