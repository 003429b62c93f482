package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/portal/internal/assistant"
	"github.com/felixgeelhaar/portal/internal/datasource"
	"github.com/felixgeelhaar/portal/internal/domain"
	"github.com/felixgeelhaar/portal/internal/tui"
	"github.com/felixgeelhaar/portal/internal/ux"
)

func newProcureCommand() *cobra.Command {
	procureCmd := &cobra.Command{
		Use:     "procure",
		Aliases: []string{"procurement"},
		Short:   "Vendor procurement: RFPs, proposals, contracts and vendors",
	}
	procureCmd.AddCommand(
		newStatsCommand(),
		newRFPsCommand(),
		newProposalsCommand(),
		newContractsCommand(),
		newVendorsCommand(),
		newAskCommand(),
	)
	return procureCmd
}

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			sess, src, err := cc.RequireSession(cmd.Context())
			if err != nil {
				return err
			}

			stats, err := src.DashboardStats(cmd.Context())
			if err != nil {
				return ux.FormatError(err, "loading dashboard")
			}

			var t *ux.Table
			if sess.User.UserType.IsAdmin() {
				t = ux.KeyValues("Dashboard",
					"Total RFPs", strconv.Itoa(stats.TotalRFPs),
					"Active RFPs", strconv.Itoa(stats.ActiveRFPs),
					"Total proposals", strconv.Itoa(stats.TotalProposals),
					"Pending vendors", strconv.Itoa(stats.PendingVendors),
				)
			} else {
				t = ux.KeyValues("Dashboard",
					"My proposals", strconv.Itoa(stats.TotalProposals),
					"Awarded contracts", strconv.Itoa(stats.AwardedContracts),
				)
			}
			return cc.Render(stats, t)
		},
	}
}

func newRFPsCommand() *cobra.Command {
	rfpCmd := &cobra.Command{
		Use:     "rfps",
		Aliases: []string{"rfp"},
		Short:   "List and manage RFPs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			_, src, err := cc.RequireSession(cmd.Context())
			if err != nil {
				return err
			}

			rfps, err := src.ListRFPs(cmd.Context())
			if err != nil {
				return ux.FormatError(err, "listing RFPs")
			}

			t := ux.NewTable("ID", "TITLE", "BUDGET", "STATUS", "DEADLINE")
			for _, r := range rfps {
				t.Add(r.ID, r.Title, money(r.Budget), r.Status, r.Deadline)
			}
			if len(rfps) == 0 {
				t.Footer = []string{"No RFPs available."}
			}
			return cc.Render(rfps, t)
		},
	}
	rfpCmd.AddCommand(newRFPShowCommand(), newRFPCreateCommand(), newRFPStatusCommand())
	return rfpCmd
}

func newRFPShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <rfp-id>",
		Short: "Show an RFP",
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

			r, err := src.GetRFP(cmd.Context(), args[0])
			if err != nil {
				return ux.FormatError(err, "loading RFP")
			}
			return cc.Render(r, rfpTable(r))
		},
	}
}

func rfpTable(r *domain.RFP) *ux.Table {
	t := ux.KeyValues(r.Title,
		"ID", r.ID,
		"Status", string(r.Status),
		"Budget", money(r.Budget),
		"Approval", r.ApprovalLevel.String(),
		"Deadline", r.Deadline,
		"Categories", strings.Join(r.Categories, ", "),
	)
	t.Footer = []string{"", r.Description}
	if r.ScopeOfWork != "" {
		t.Footer = append(t.Footer, "", "Scope of work:", r.ScopeOfWork)
	}
	return t
}

func newRFPCreateCommand() *cobra.Command {
	var draft domain.RFPDraft

	c := &cobra.Command{
		Use:   "create",
		Short: "Publish a new RFP (procurement team)",
		Example: `  portal procure rfp create --title "Cloud migration" --budget 750000 \
    --deadline 2025-06-30 --category "Cloud Services" --description "..."`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			_, src, err := cc.RequireSession(cmd.Context())
			if err != nil {
				return err
			}
			if strings.TrimSpace(draft.Title) == "" {
				return fmt.Errorf("--title is required")
			}

			r, err := src.CreateRFP(cmd.Context(), draft)
			if err != nil {
				return ux.FormatError(err, "creating RFP")
			}
			t := rfpTable(r)
			t.Title = "✓ Created " + r.Title
			return cc.Render(r, t)
		},
	}

	f := c.Flags()
	f.StringVar(&draft.Title, "title", "", "RFP title")
	f.StringVar(&draft.Description, "description", "", "description")
	f.Float64Var(&draft.Budget, "budget", 0, "budget in SAR")
	f.StringVar(&draft.Deadline, "deadline", "", "submission deadline (YYYY-MM-DD)")
	f.StringSliceVar(&draft.Categories, "category", nil, "category (repeatable)")
	f.StringVar(&draft.ScopeOfWork, "scope", "", "scope of work")
	return c
}

func newRFPStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status <rfp-id> <active|closed|awarded|draft>",
		Short: "Change an RFP's status (procurement team)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := domain.NewRFPStatus(args[1])
			if err != nil {
				return err
			}
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			_, src, err := cc.RequireSession(cmd.Context())
			if err != nil {
				return err
			}

			if err := src.UpdateRFPStatus(cmd.Context(), args[0], status); err != nil {
				return ux.FormatError(err, "updating RFP")
			}
			cc.Printf("✓ RFP %s is now %s\n", args[0], status)
			return nil
		},
	}
}

func newProposalsCommand() *cobra.Command {
	proposalCmd := &cobra.Command{
		Use:     "proposals",
		Aliases: []string{"proposal"},
		Short:   "List, submit and evaluate proposals",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			_, src, err := cc.RequireSession(cmd.Context())
			if err != nil {
				return err
			}

			proposals, err := src.ListProposals(cmd.Context())
			if err != nil {
				return ux.FormatError(err, "listing proposals")
			}

			t := ux.NewTable("ID", "RFP", "VENDOR", "STATUS", "SCORE", "SUBMITTED")
			for _, p := range proposals {
				t.Add(p.ID, p.RFPID, p.VendorCompany, p.Status, score(p.AIScore), p.SubmittedAt)
			}
			if len(proposals) == 0 {
				t.Footer = []string{"No proposals yet."}
			}
			return cc.Render(proposals, t)
		},
	}
	proposalCmd.AddCommand(newProposalShowCommand(), newProposalSubmitCommand(), newProposalEvaluateCommand())
	return proposalCmd
}

func score(s *float64) string {
	if s == nil {
		return "-"
	}
	return strconv.FormatFloat(*s, 'f', 1, 64)
}

func newProposalShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <proposal-id>",
		Short: "Show a proposal and its evaluation",
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

			p, err := src.GetProposal(cmd.Context(), args[0])
			if err != nil {
				return ux.FormatError(err, "loading proposal")
			}

			t := ux.KeyValues("Proposal "+p.ID,
				"RFP", p.RFPID,
				"Vendor", p.VendorCompany,
				"Status", p.Status,
				"Submitted", p.SubmittedAt,
				"Score", score(p.AIScore),
			)
			if p.AIEvaluation != nil {
				t.Footer = evaluationLines(*p.AIEvaluation)
			}
			return cc.Render(p, t)
		},
	}
}

func evaluationLines(ev domain.Evaluation) []string {
	lines := []string{
		"",
		fmt.Sprintf("Technical %.1f · Commercial %.1f · Overall %.1f", ev.TechnicalScore, ev.CommercialScore, ev.OverallScore),
		"Recommendation: " + ev.Recommendation,
	}
	for _, s := range ev.Strengths {
		lines = append(lines, "  + "+s)
	}
	for _, w := range ev.Weaknesses {
		lines = append(lines, "  - "+w)
	}
	if ev.DetailedAnalysis != "" {
		lines = append(lines, "", ev.DetailedAnalysis)
	}
	return lines
}

func newProposalSubmitCommand() *cobra.Command {
	var rfpID, technical, commercial string

	c := &cobra.Command{
		Use:     "submit",
		Short:   "Submit a proposal with technical and commercial documents",
		Example: `  portal procure proposal submit --rfp demo-rfp-1 --technical tech.pdf --commercial pricing.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rfpID == "" {
				return fmt.Errorf("--rfp is required")
			}
			tech, err := readAttachment(technical)
			if err != nil {
				return err
			}
			comm, err := readAttachment(commercial)
			if err != nil {
				return err
			}

			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			_, src, err := cc.RequireSession(cmd.Context())
			if err != nil {
				return err
			}

			res, err := src.SubmitProposal(cmd.Context(), domain.ProposalSubmission{
				RFPID:      rfpID,
				Technical:  tech,
				Commercial: comm,
			})
			if err != nil {
				return ux.FormatError(err, "submitting proposal")
			}
			return cc.Render(res, ux.KeyValues("✓ "+res.Message, "Proposal", res.ProposalID))
		},
	}

	c.Flags().StringVar(&rfpID, "rfp", "", "RFP to respond to")
	c.Flags().StringVar(&technical, "technical", "", "technical proposal file")
	c.Flags().StringVar(&commercial, "commercial", "", "commercial proposal file")
	return c
}

// readAttachment loads a proposal document. An empty path means the
// document is not attached.
func readAttachment(path string) (*domain.Attachment, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return &domain.Attachment{Name: filepath.Base(path), Content: data}, nil
}

func newProposalEvaluateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate <proposal-id>",
		Short: "Score a proposal (procurement team)",
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

			res, err := src.EvaluateProposal(cmd.Context(), args[0])
			if err != nil {
				return ux.FormatError(err, "evaluating proposal")
			}
			t := &ux.Table{Title: "✓ " + res.Message, Footer: evaluationLines(res.Evaluation)}
			return cc.Render(res, t)
		},
	}
}

func newContractsCommand() *cobra.Command {
	contractCmd := &cobra.Command{
		Use:     "contracts",
		Aliases: []string{"contract"},
		Short:   "List contracts, show milestones and fetch documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			_, src, err := cc.RequireSession(cmd.Context())
			if err != nil {
				return err
			}

			contracts, err := src.ListContracts(cmd.Context())
			if err != nil {
				return ux.FormatError(err, "listing contracts")
			}

			t := ux.NewTable("ID", "RFP", "VALUE", "STATUS", "PROGRESS", "NEXT MILESTONE")
			for _, c := range contracts {
				t.Add(c.ID, c.RFPTitle, money(c.ContractValue), c.Status, fmt.Sprintf("%.0f%%", c.Progress), c.NextMilestone)
			}
			if len(contracts) == 0 {
				t.Footer = []string{"No contracts yet."}
			}
			return cc.Render(contracts, t)
		},
	}
	contractCmd.AddCommand(newContractShowCommand(), newContractDocumentCommand())
	return contractCmd
}

func newContractShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <contract-id>",
		Short: "Show a contract with milestones and documents",
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

			c, err := src.GetContract(cmd.Context(), args[0])
			if err != nil {
				return ux.FormatError(err, "loading contract")
			}

			t := ux.KeyValues(c.RFPTitle,
				"ID", c.ID,
				"Vendor", c.VendorCompany,
				"Value", money(c.ContractValue),
				"Period", c.StartDate+" to "+c.EndDate,
				"Status", c.Status,
				"Progress", fmt.Sprintf("%.0f%%", c.Progress),
				"Paid", money(c.PaidAmount),
				"Pending", money(c.PendingAmount),
			)
			t.Footer = append(t.Footer, "", "Milestones")
			for _, m := range c.Milestones {
				t.Footer = append(t.Footer, fmt.Sprintf("  %-40s %-12s %s", m.Name, m.Status, m.Date))
			}
			t.Footer = append(t.Footer, "", "Documents")
			for _, d := range c.Documents {
				t.Footer = append(t.Footer, fmt.Sprintf("  %-18s %-28s %s", d.ID, d.Name, d.Size))
			}
			return cc.Render(c, t)
		},
	}
}

// documentView is the structured output of a document download.
type documentView struct {
	ContractID string `json:"contract_id" yaml:"contract_id"`
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Digest     string `json:"blake3" yaml:"blake3"`
	Path       string `json:"path,omitempty" yaml:"path,omitempty"`
}

func newContractDocumentCommand() *cobra.Command {
	var out string

	c := &cobra.Command{
		Use:     "document <contract-id> <document-id>",
		Aliases: []string{"doc"},
		Short:   "Download a contract document",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			_, src, err := cc.RequireSession(cmd.Context())
			if err != nil {
				return err
			}

			doc, err := src.GetContractDocument(cmd.Context(), args[0], args[1])
			if err != nil {
				return ux.FormatError(err, "downloading document")
			}

			v := documentView{
				ContractID: args[0],
				ID:         doc.ID,
				Name:       doc.Name,
				Digest:     datasource.DocumentDigest(doc),
				Path:       out,
			}
			if out != "" {
				if err := os.WriteFile(out, []byte(doc.Content), 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", out, err)
				}
			}

			t := ux.KeyValues(doc.Name, "ID", doc.ID, "BLAKE3", v.Digest)
			if out != "" {
				t.Add("Saved:", out)
			} else {
				t.Footer = []string{"", doc.Content}
			}
			return cc.Render(v, t)
		},
	}

	c.Flags().StringVar(&out, "out", "", "write the document to this file")
	return c
}

func newVendorsCommand() *cobra.Command {
	vendorCmd := &cobra.Command{
		Use:     "vendors",
		Aliases: []string{"vendor"},
		Short:   "List and approve vendors (procurement team)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			_, src, err := cc.RequireSession(cmd.Context())
			if err != nil {
				return err
			}

			vendors, err := src.ListVendors(cmd.Context())
			if err != nil {
				return ux.FormatError(err, "listing vendors")
			}

			t := ux.NewTable("ID", "COMPANY", "EMAIL", "COUNTRY", "APPROVED")
			for _, v := range vendors {
				t.Add(v.ID, v.CompanyName, v.Email, v.Country, v.IsApproved)
			}
			return cc.Render(vendors, t)
		},
	}
	vendorCmd.AddCommand(newVendorApprovalCommand(true), newVendorApprovalCommand(false))
	return vendorCmd
}

func newVendorApprovalCommand(approve bool) *cobra.Command {
	var yes bool

	use, short, verb := "approve <vendor-id>", "Approve a vendor", "approved"
	if !approve {
		use, short, verb = "reject <vendor-id>", "Revoke a vendor's approval", "rejected"
	}

	c := &cobra.Command{
		Use:   use,
		Short: short,
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

			if !approve && !yes && tui.ShouldPrompt() {
				ok, err := tui.PromptForConfirmation(fmt.Sprintf("Reject vendor %s?", args[0]), false)
				if err != nil {
					return err
				}
				if !ok {
					cc.Printf("Cancelled\n")
					return nil
				}
			}

			if err := src.SetVendorApproval(cmd.Context(), args[0], approve); err != nil {
				return ux.FormatError(err, "updating vendor")
			}
			cc.Printf("✓ Vendor %s %s\n", args[0], verb)
			return nil
		},
	}

	if !approve {
		c.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	}
	return c
}

func newAskCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the procurement assistant",
		Example: `  portal procure ask "how do I submit a proposal"`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			sess, _, err := cc.RequireSession(cmd.Context())
			if err != nil {
				return err
			}

			reply := assistant.Respond(assistant.Context{
				App:      domain.AppProcurement,
				UserType: sess.User.UserType,
			}, strings.Join(args, " "))
			return cc.Render(reply, &ux.Table{Footer: []string{reply.Text}})
		},
	}
}
