package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TechXTT/pgcursor"
)

// NewShellCmd builds the `shell` command: one command per input line.
// `\format <none|vector|hash>` switches the row format and `\q` quits.
func NewShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Read commands from stdin, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, cfg, err := connect(cmd)
			if err != nil {
				return err
			}
			defer conn.Close(cmd.Context())

			shape, err := pgcursor.ParseShape(cfg.Format)
			if err != nil {
				return err
			}
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			interactive := isTerminal(cmd)
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				if interactive {
					fmt.Fprint(out, "pgcursor> ")
				}
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				switch {
				case line == "":
					continue
				case line == `\q`:
					return nil
				case strings.HasPrefix(line, `\format`):
					s, err := pgcursor.ParseShape(strings.TrimSpace(strings.TrimPrefix(line, `\format`)))
					if err != nil {
						fmt.Fprintln(errOut, err)
						continue
					}
					shape = s
					continue
				}
				if err := run(cmd.Context(), out, conn, line, shape); err != nil {
					fmt.Fprintln(errOut, err)
				}
			}
			return scanner.Err()
		},
	}
}
