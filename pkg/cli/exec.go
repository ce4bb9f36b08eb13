package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TechXTT/pgcursor"
)

// NewExecCmd builds the `exec` command.
func NewExecCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "exec <command>",
		Short: "Run one command and print its rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, cfg, err := connect(cmd)
			if err != nil {
				return err
			}
			defer conn.Close(cmd.Context())

			if !cmd.Flags().Changed("format") {
				format = cfg.Format
			}
			shape, err := pgcursor.ParseShape(format)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), conn, args[0], shape)
		},
	}
	cmd.Flags().StringVar(&format, "format", "vector", "row format: none, vector or hash")
	return cmd
}

// run executes command and prints what it produced.
func run(ctx context.Context, w io.Writer, conn *pgcursor.Conn, command string, shape pgcursor.Shape) error {
	res, err := conn.Exec(ctx, command)
	if err != nil {
		return err
	}
	if res == nil {
		tag := conn.CommandTag()
		if tag == "" {
			tag = "OK"
		}
		fmt.Fprintln(w, tag)
		return nil
	}
	return printResult(w, res, shape)
}

const nullText = `\N`

func printResult(w io.Writer, res *pgcursor.Result, shape pgcursor.Shape) error {
	var names []string
	n := 0
	for {
		row, ok, err := res.Step(shape)
		if err != nil {
			if res.IsOpen() {
				res.Close()
			}
			return err
		}
		if !ok {
			break
		}
		if names == nil {
			names, _, _ = res.FieldNames()
			if shape == pgcursor.ShapeVector {
				fmt.Fprintln(w, strings.Join(names, "\t"))
			}
		}
		switch shape {
		case pgcursor.ShapeVector:
			cells := make([]string, len(row.Values))
			for i, v := range row.Values {
				cells[i] = nullText
				if v.Valid {
					cells[i] = v.String
				}
			}
			fmt.Fprintln(w, strings.Join(cells, "\t"))
		case pgcursor.ShapeHash:
			pairs := make([]string, 0, len(names))
			for _, name := range names {
				v := row.Fields[name]
				text := nullText
				if v.Valid {
					text = v.String
				}
				pairs = append(pairs, name+"="+text)
			}
			fmt.Fprintln(w, strings.Join(pairs, " "))
		}
		n++
	}
	fmt.Fprintf(w, "(%d rows)\n", n)
	return nil
}
