package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"mendizabala/dual/internal/client"
	"mendizabala/dual/internal/i18n"
	"mendizabala/dual/internal/model"
)

func newTeachersCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "teachers",
		Aliases:           []string{"irakasleak", "profesores"},
		Short:             "Manage tutor teachers",
		PersistentPreRunE: a.gated,
	}

	var query string
	list := &cobra.Command{
		Use:   "list",
		Short: "List teachers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			teachers, err := a.api.ListTeachers(cmd.Context(), query)
			if err != nil {
				return err
			}
			printTeachers(cmd.OutOrStdout(), a.tr(), teachers)
			return nil
		},
	}
	list.Flags().StringVarP(&query, "query", "q", "", "substring filter")

	var in client.NewTeacher
	var substitute string
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a teacher",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("substitute") {
				in.SubstituteName = &substitute
			}
			teacher, err := a.api.CreateTeacher(cmd.Context(), in)
			if err != nil {
				return err
			}
			printTeachers(cmd.OutOrStdout(), a.tr(), []model.Teacher{teacher})
			return nil
		},
	}
	create.Flags().StringVar(&in.Name, "name", "", "full name")
	create.Flags().StringVar(&in.Email, "email", "", "email address")
	create.Flags().StringVar(&substitute, "substitute", "", "substitute covering this teacher")

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a teacher; --clear-substitute removes the substitute",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			patch := client.TeacherPatch{
				Name:           stringField(flags, "name"),
				Email:          stringField(flags, "email"),
				SubstituteName: stringField(flags, "substitute"),
			}
			teacher, err := a.api.UpdateTeacher(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			printTeachers(cmd.OutOrStdout(), a.tr(), []model.Teacher{teacher})
			return nil
		},
	}
	update.Flags().String("name", "", "full name")
	update.Flags().String("email", "", "email address")
	update.Flags().String("substitute", "", "substitute covering this teacher")
	update.Flags().Bool("clear-substitute", false, "remove the substitute")

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a teacher; their companies return to the pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := a.api.DeleteTeacher(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), message)
			return nil
		},
	}

	cmd.AddCommand(list, create, update, remove)
	return cmd
}

func newCompaniesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "companies",
		Aliases:           []string{"enpresak", "empresas"},
		Short:             "Manage host companies",
		PersistentPreRunE: a.gated,
	}

	var filter client.CompanyFilter
	list := &cobra.Command{
		Use:   "list",
		Short: "List companies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			companies, err := a.api.ListCompanies(cmd.Context(), filter)
			if err != nil {
				return err
			}
			printCompanies(cmd.OutOrStdout(), a.tr(), companies)
			return nil
		},
	}
	list.Flags().StringVarP(&filter.Query, "query", "q", "", "substring filter")
	list.Flags().StringVar(&filter.TeacherID, "teacher", "", "only companies assigned to this teacher id")
	list.Flags().StringVar(&filter.Status, "status", "", "green, orange or red")

	create := &cobra.Command{
		Use:   "create",
		Short: "Add a company",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			name, _ := flags.GetString("name")
			status, _ := flags.GetString("status")
			in := client.NewCompany{
				Name:                name,
				Location:            stringFlag(flags, "location"),
				ContactPerson:       stringFlag(flags, "contact"),
				Email:               stringFlag(flags, "email"),
				Phone:               stringFlag(flags, "phone"),
				Website:             stringFlag(flags, "website"),
				AssignedTeacherID:   stringFlag(flags, "teacher"),
				Status:              status,
				DemandDual1:         int32Flag(flags, "dual1"),
				DemandDualGeneral:   int32Flag(flags, "general"),
				DemandDualIntensive: int32Flag(flags, "intensive"),
			}
			company, err := a.api.CreateCompany(cmd.Context(), in)
			if err != nil {
				return err
			}
			printCompanies(cmd.OutOrStdout(), a.tr(), []model.Company{company})
			return nil
		},
	}
	companyFlags(create.Flags())

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a company; --clear-<field> empties an optional field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			patch := client.CompanyPatch{
				Name:                stringField(flags, "name"),
				Location:            stringField(flags, "location"),
				ContactPerson:       stringField(flags, "contact"),
				Email:               stringField(flags, "email"),
				Phone:               stringField(flags, "phone"),
				Website:             stringField(flags, "website"),
				AssignedTeacherID:   stringField(flags, "teacher"),
				Status:              stringField(flags, "status"),
				DemandDual1:         int32Field(flags, "dual1"),
				DemandDualGeneral:   int32Field(flags, "general"),
				DemandDualIntensive: int32Field(flags, "intensive"),
			}
			company, err := a.api.UpdateCompany(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			printCompanies(cmd.OutOrStdout(), a.tr(), []model.Company{company})
			return nil
		},
	}
	companyFlags(update.Flags())
	for _, name := range []string{"location", "contact", "email", "phone", "website", "teacher"} {
		update.Flags().Bool("clear-"+name, false, "clear "+name)
	}

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := a.api.DeleteCompany(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), message)
			return nil
		},
	}

	cmd.AddCommand(list, create, update, remove)
	return cmd
}

func companyFlags(flags *pflag.FlagSet) {
	flags.String("name", "", "company name")
	flags.String("location", "", "town or address")
	flags.String("contact", "", "contact person")
	flags.String("email", "", "contact email")
	flags.String("phone", "", "contact phone")
	flags.String("website", "", "website")
	flags.String("teacher", "", "assigned teacher id")
	flags.String("status", "", "green, orange or red")
	flags.Int32("dual1", 0, "dual 1 demand")
	flags.Int32("general", 0, "general dual demand")
	flags.Int32("intensive", 0, "intensive dual demand")
}

// stringField maps --name to a set value and --clear-name to an explicit null.
func stringField(flags *pflag.FlagSet, name string) model.Field[string] {
	if cleared, err := flags.GetBool("clear-" + name); err == nil && cleared {
		return model.Null[string]()
	}
	if !flags.Changed(name) {
		return model.Field[string]{}
	}
	value, _ := flags.GetString(name)
	return model.Set(value)
}

func int32Field(flags *pflag.FlagSet, name string) model.Field[int32] {
	if !flags.Changed(name) {
		return model.Field[int32]{}
	}
	value, _ := flags.GetInt32(name)
	return model.Set(value)
}

func stringFlag(flags *pflag.FlagSet, name string) *string {
	return stringField(flags, name).Ptr()
}

func int32Flag(flags *pflag.FlagSet, name string) *int32 {
	return int32Field(flags, name).Ptr()
}

func printTeachers(out io.Writer, tr i18n.Translator, teachers []model.Teacher) {
	if len(teachers) == 0 {
		fmt.Fprintln(out, tr.T("teachers.noTeachers"))
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%s\t%s\t%s\n", tr.T("teachers.name"), tr.T("teachers.email"), tr.T("teachers.substitute"))
	for _, t := range teachers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, t.Name, t.Email, orDash(t.SubstituteName))
	}
	_ = tw.Flush()
}

func printCompanies(out io.Writer, tr i18n.Translator, companies []model.Company) {
	if len(companies) == 0 {
		fmt.Fprintln(out, tr.T("companies.notFound"))
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		tr.T("companies.name"), tr.T("companies.location"), tr.T("companies.contact"),
		tr.T("status.label"), tr.T("demand.dual1"), tr.T("demand.general"), tr.T("demand.intensive"),
		tr.T("companies.teacher"))
	for _, c := range companies {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			c.ID, c.Name, orDash(c.Location), orDash(c.ContactPerson),
			statusLabel(tr, c.Status), c.DemandDual1, c.DemandDualGeneral, c.DemandDualIntensive,
			orDash(c.AssignedTeacherID))
	}
	_ = tw.Flush()
}

func orDash(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "-"
	}
	return *s
}
