package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"mendizabala/dual/internal/client"
	"mendizabala/dual/internal/i18n"
	"mendizabala/dual/internal/logging"
	"mendizabala/dual/internal/session"
)

type cliConfig struct {
	APIURL      string `env:"MENDIZABALA_API_URL" envDefault:"http://localhost:3000/api"`
	SessionPath string `env:"MENDIZABALA_SESSION"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"warn"`
}

type app struct {
	cfg    cliConfig
	state  *session.State
	api    *client.Client
	logger zerolog.Logger
}

func (a *app) tr() i18n.Translator {
	return i18n.For(a.state.Lang())
}

// requireSession runs the session gate and refuses to continue unless it
// lands on the dashboard.
func (a *app) requireSession(ctx context.Context) error {
	screen, err := session.NewGate(a.state, a.api).Resolve(ctx)
	if err != nil {
		return err
	}
	switch screen {
	case session.ScreenLogin:
		return errors.New("not logged in: run `mendizabala login` or `mendizabala otp request`")
	case session.ScreenRoleSelect:
		return fmt.Errorf("%s: run `mendizabala role <name>` (%v)", a.tr().T("role.select"), a.state.Roles())
	}
	return nil
}

// gated is the pre-run hook for commands that need a dashboard session.
// Cobra runs only the nearest persistent hook, so it also opens the state.
func (a *app) gated(cmd *cobra.Command, _ []string) error {
	if err := a.open(); err != nil {
		return err
	}
	return a.requireSession(cmd.Context())
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "mendizabala",
		Short:         "Dual placement administration for Mendizabala LHII",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open()
		},
	}
	root.PersistentFlags().StringVar(&a.cfg.APIURL, "api", a.cfg.APIURL, "API base URL")
	root.PersistentFlags().StringVar(&a.cfg.SessionPath, "session", a.cfg.SessionPath, "session file (defaults to the user config dir)")

	root.AddCommand(
		newRegisterCommand(a),
		newLoginCommand(a),
		newOTPCommand(a),
		newWhoamiCommand(a),
		newRoleCommand(a),
		newLogoutCommand(a),
		newLangCommand(a),
		newTeachersCommand(a),
		newCompaniesCommand(a),
		newBoardCommand(a),
		newAssignCommand(a),
		newUnassignCommand(a),
		newExportCommand(a),
	)
	return root
}

func (a *app) open() error {
	path := a.cfg.SessionPath
	if path == "" {
		var err error
		if path, err = session.DefaultPath(); err != nil {
			return err
		}
	}
	state, err := session.Load(path)
	if err != nil {
		return err
	}
	a.state = state
	a.api = client.New(a.cfg.APIURL, state)
	return nil
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var cfg cliConfig
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	a := &app{cfg: cfg, logger: logging.NewWithWriter(stderr, cfg.LogLevel)}

	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, a.describe(err))
		return 1
	}
	return 0
}

func (a *app) describe(err error) string {
	if a.state == nil {
		return err.Error()
	}
	tr := a.tr()
	switch {
	case errors.Is(err, client.ErrUnauthorized) && client.Code(err) != "invalid_credentials":
		return tr.T("session.expired")
	case errors.Is(err, client.ErrNetwork):
		return tr.T("error.network")
	}
	if code := client.Code(err); code != "" {
		return code
	}
	return err.Error()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
