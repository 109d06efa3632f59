package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"mendizabala/dual/internal/client"
	"mendizabala/dual/internal/export"
)

func newExportCommand(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:               "export <csv|json> <teachers|companies>",
		Short:             "Export teachers or companies",
		Args:              cobra.ExactArgs(2),
		PersistentPreRunE: a.gated,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(args[0])
			if err != nil {
				return err
			}

			var write func(io.Writer) error
			switch args[1] {
			case "teachers":
				teachers, err := a.api.ListTeachers(cmd.Context(), "")
				if err != nil {
					return err
				}
				write = func(w io.Writer) error { return export.Teachers(w, format, teachers) }
			case "companies":
				companies, err := a.api.ListCompanies(cmd.Context(), client.CompanyFilter{})
				if err != nil {
					return err
				}
				write = func(w io.Writer) error { return export.Companies(w, format, companies) }
			default:
				return fmt.Errorf("unknown export target %q", args[1])
			}

			if output == "" || output == "-" {
				return write(cmd.OutOrStdout())
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := write(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", a.tr().T("export.written"), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}
