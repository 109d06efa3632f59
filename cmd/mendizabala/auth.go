package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mendizabala/dual/internal/i18n"
	"mendizabala/dual/internal/session"
)

func newRegisterCommand(a *app) *cobra.Command {
	var email, password, name string
	var roles []string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("MENDIZABALA_PASSWORD")
			}
			reg, err := a.api.Register(cmd.Context(), email, password, name, roles)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %v\n", reg.Message, reg.UserID, reg.Roles)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "password (or MENDIZABALA_PASSWORD)")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringSliceVar(&roles, "role", nil, "roles to request (admin, teacher, company)")
	return cmd
}

func newLoginCommand(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("MENDIZABALA_PASSWORD")
			}
			sess, err := a.api.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			return printSession(cmd, a, sess.Email, sess.Roles)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "password (or MENDIZABALA_PASSWORD)")
	return cmd
}

func newOTPCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "otp",
		Short: "Sign in with a code sent by email",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "request <email>",
		Short: "Email a six-digit login code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.api.RequestOTP(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "verify <email> <code>",
		Short: "Exchange a login code for a session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.api.VerifyOTP(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printSession(cmd, a, sess.Email, a.state.Roles())
		},
	})
	return cmd
}

func printSession(cmd *cobra.Command, a *app, email string, roles []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s\n", a.tr().T("login.success"), email)
	screen, err := session.NewGate(a.state, a.api).Resolve(cmd.Context())
	if err != nil {
		return err
	}
	if screen == session.ScreenRoleSelect {
		fmt.Fprintf(out, "%s: %s\n", a.tr().T("role.select"), strings.Join(roles, ", "))
	} else if role := a.state.ActiveRole(); role != "" {
		fmt.Fprintf(out, "%s: %s\n", a.tr().T("role.active"), role)
	}
	return nil
}

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			profile, err := a.api.Me(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s <%s>\n", profile.Name, profile.Email)
			if profile.SubstituteName != nil && strings.TrimSpace(*profile.SubstituteName) != "" {
				fmt.Fprintf(out, "%s: %s\n", a.tr().T("teachers.substitute"), *profile.SubstituteName)
			}
			fmt.Fprintf(out, "%s: %s %v\n", a.tr().T("role.active"), a.state.ActiveRole(), profile.Roles)
			if profile.Dev {
				fmt.Fprintln(out, "development session")
			}
			return nil
		},
	}
}

func newRoleCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "role [name]",
		Short: "Show or choose the active role",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, role := range a.state.Roles() {
					marker := " "
					if role == a.state.ActiveRole() {
						marker = "*"
					}
					fmt.Fprintf(out, "%s %s\n", marker, role)
				}
				return nil
			}
			if err := a.state.SelectRole(args[0]); err != nil {
				return fmt.Errorf("%w: %s", err, args[0])
			}
			if err := a.state.Save(); err != nil {
				return err
			}
			fmt.Fprintf(out, "%s: %s\n", a.tr().T("role.active"), args[0])
			return nil
		},
	}
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.api.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.tr().T("logout"))
			return nil
		},
	}
}

func newLangCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "lang [eu|es]",
		Short:     "Show or change the interface language",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{i18n.Basque, i18n.Spanish},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), a.state.Lang())
				return nil
			}
			if err := a.state.SetLang(args[0]); err != nil {
				return err
			}
			if err := a.state.Save(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.tr().T("lang.changed"))
			return nil
		},
	}
}
