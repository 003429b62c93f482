package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/portal/internal/contract"
	"github.com/felixgeelhaar/portal/internal/gateway"
	"github.com/felixgeelhaar/portal/internal/ux"
)

type contractReport struct {
	Source  string   `json:"source" yaml:"source"`
	Checked int      `json:"checked" yaml:"checked"`
	Missing []string `json:"missing" yaml:"missing"`
	Unused  []string `json:"unused" yaml:"unused"`
}

func newContractCommand() *cobra.Command {
	contractCmd := &cobra.Command{
		Use:   "contract",
		Short: "Verify the gateway against the backend API document",
	}

	var file string
	check := &cobra.Command{
		Use:   "check",
		Short: "Report gateway routes missing from the OpenAPI document",
		Long: `Compare every route the gateway calls with the OpenAPI document. The
embedded document is used unless --file is given. Exits with code 3 when a
gateway route is not documented.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			var doc *contract.Document
			if file != "" {
				doc, err = contract.LoadFile(cmd.Context(), file)
			} else {
				doc, err = contract.Load(cmd.Context())
			}
			if err != nil {
				return err
			}

			report := doc.Check(gateway.Routes())
			out := contractReport{Source: doc.Source(), Checked: report.Checked, Missing: []string{}, Unused: []string{}}

			t := ux.NewTable("STATUS", "ROUTE", "DETAIL")
			t.Title = doc.Title() + " (" + doc.Source() + ")"
			for _, f := range report.Missing {
				out.Missing = append(out.Missing, f.Route.String())
				t.Add("missing", f.Route.String(), f.Message)
			}
			for _, f := range report.Unused {
				out.Unused = append(out.Unused, f.Route.String())
				t.Add("unused", f.Route.String(), f.Message)
			}
			if report.Drifted() {
				t.Footer = []string{"", "✗ " + report.Err().Error()}
			} else {
				t.Footer = []string{"", "✓ all gateway routes are documented"}
			}

			if err := cc.Render(out, t); err != nil {
				return err
			}
			return report.Err()
		},
	}
	check.Flags().StringVar(&file, "file", "", "OpenAPI document to check against")

	contractCmd.AddCommand(check)
	return contractCmd
}
