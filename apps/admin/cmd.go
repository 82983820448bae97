package main

import (
	"fmt"
	"io"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	echoapi "github.com/skillbridge/portal/apps/api/echo"
	"github.com/skillbridge/portal/core"
	"github.com/skillbridge/portal/core/role"
	"github.com/skillbridge/portal/storage/database"
)

var (
	readPasswordFunc = term.ReadPassword       // mockable
	migrateFunc      = database.RunMigrations // mockable
	openDBFunc       = database.Open          // mockable

	errNoSecret = errors.New("a signing secret is required")
)

type commandLine struct {
	conf *core.Config
	out  io.Writer
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "SkillBridge portal operator commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(cli.out)
	root.AddCommand(cli.migrateCmd(), cli.tokenCmd(), cli.dashboardCmd())
	return root
}

func (cli *commandLine) run(args []string) error {
	root := cli.rootCmd()
	root.SetArgs(args)
	return root.Execute()
}

func (cli *commandLine) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate COMMAND [ARGS...]",
		Short: "Run a goose command (up, down, status, version, redo, reset, up-to N, down-to N) on the audit database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDBFunc(cli.conf)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()
			return cli.migrate(db, args[0], args[1:]...)
		},
	}
}

func (cli *commandLine) migrate(db *sqlx.DB, command string, args ...string) error {
	return migrateFunc(db, command, args...)
}

func (cli *commandLine) tokenCmd() *cobra.Command {
	var (
		email, r, team, name string
		ttl                  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a session token for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !role.IsValid(r) {
				return errors.Errorf("unknown role %q", r)
			}
			secret, err := cli.secret(cmd)
			if err != nil {
				return err
			}
			token, err := echoapi.GenerateToken(echoapi.NewClaims(cli.conf, email, role.Normalize(r), team, name, ttl), secret)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "the user's email (required)")
	cmd.Flags().StringVar(&r, "role", "", "the user's role (required)")
	cmd.Flags().StringVar(&team, "team", "", "the user's sales team")
	cmd.Flags().StringVar(&name, "name", "", "the user's display name")
	cmd.Flags().DurationVar(&ttl, "ttl", cli.conf.Server.JWTExpirationDelta, "how long the token is valid")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

// secret returns the configured signing secret, or prompts for it.
func (cli *commandLine) secret(cmd *cobra.Command) (string, error) {
	if cli.conf.SecretKey != "" {
		return cli.conf.SecretKey, nil
	}
	_, _ = fmt.Fprint(cmd.OutOrStdout(), "Enter signing secret:")
	secret, err := readPasswordFunc(int(syscall.Stdin))
	_, _ = fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", err
	}
	if len(secret) == 0 {
		return "", errNoSecret
	}
	return string(secret), nil
}

func (cli *commandLine) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard ROLE",
		Short: "Print the landing path of a role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), role.DashboardPath(args[0]))
			return nil
		},
	}
}
