package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/portal/internal/ux"
	"github.com/felixgeelhaar/portal/internal/version"
)

func newVersionCommand() *cobra.Command {
	var verbose bool

	c := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print version information including version number, git commit,
build date, Go version, and platform.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.GetInfo()
			out := cmd.OutOrStdout()

			format, _ := cmd.Flags().GetString(flagFormat)
			p, err := ux.NewPrinter(format, out)
			if err != nil {
				return err
			}
			if p.Format().Structured() {
				return p.Value(info)
			}

			if verbose {
				fmt.Fprintln(out, info.String())
				return nil
			}
			fmt.Fprintf(out, "portal %s\n", info.Version)
			return nil
		},
	}

	c.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed version information")
	return c
}
