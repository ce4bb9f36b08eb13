package cli

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/TechXTT/pgcursor"
	"github.com/TechXTT/pgcursor/pkg/config"
)

func version() string {
	return "v0.1.0"
}

// NewVersionCmd builds the `version` command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version())
		},
	}
}

// NewRootCmd builds the top-level `pgcursor` command.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pgcursor",
		Short:         "pgcursor: run SQL commands and walk their results",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.String("env", ".env", "dotenv file to load before reading PGCURSOR_* variables")
	flags.String("driver", "", "session backend (pgx, postgres, mysql, sqlite3)")
	flags.String("dsn", "", "connection string; empty uses the backend defaults")
	flags.Bool("password", false, "prompt for a password and add it to the connection string")
	flags.BoolP("verbose", "v", false, "log handle lifecycle to stderr")

	root.AddCommand(NewExecCmd())
	root.AddCommand(NewShellCmd())
	root.AddCommand(NewMigrateCmd())
	root.AddCommand(NewVersionCmd())
	return root
}

// connect resolves the configuration for cmd and opens a connection.
func connect(cmd *cobra.Command) (*pgcursor.Conn, *config.Config, error) {
	flags := cmd.Flags()
	envFile, _ := flags.GetString("env")
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, err
	}
	if driver, _ := flags.GetString("driver"); driver != "" {
		cfg.Driver = driver
	}
	if dsn, _ := flags.GetString("dsn"); dsn != "" {
		cfg.DSN = dsn
	}
	if prompt, _ := flags.GetBool("password"); prompt {
		pw, err := readPassword(cmd)
		if err != nil {
			return nil, nil, err
		}
		cfg.DSN = withPassword(cfg.DSN, pw)
	}

	conn, err := pgcursor.Connect(cmd.Context(), cfg.DSN,
		pgcursor.WithDriver(cfg.Driver),
		pgcursor.WithLogger(logger(cmd)))
	if err != nil {
		return nil, nil, err
	}
	return conn, cfg, nil
}

func logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func readPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// withPassword sets the password in a URL or key/value connection string.
func withPassword(dsn, pw string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		if u, err := url.Parse(dsn); err == nil {
			u.User = url.UserPassword(u.User.Username(), pw)
			return u.String()
		}
	}
	quoted := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(pw)
	return strings.TrimSpace(dsn + " password='" + quoted + "'")
}

// isTerminal reports whether the command reads from an interactive terminal.
func isTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
