package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TechXTT/pgcursor/pkg/migrate"
)

// NewMigrateCmd builds the `migrate` command.
func NewMigrateCmd() *cobra.Command {
	var migrations string

	cmd := &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Run database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, cfg, err := connect(cmd)
			if err != nil {
				return err
			}
			defer conn.Close(cmd.Context())

			if !cmd.Flags().Changed("dir") {
				migrations = cfg.MigrationsDir
			}
			mgr, err := migrate.NewManager(conn, migrations)
			if err != nil {
				return err
			}
			mgr.SetOutput(cmd.OutOrStdout())

			switch args[0] {
			case "up":
				return mgr.Up(cmd.Context())
			case "down":
				return mgr.Down(cmd.Context())
			case "status":
				status, err := mgr.Status(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&migrations, "dir", "migrations", "Migrations directory")
	return cmd
}
