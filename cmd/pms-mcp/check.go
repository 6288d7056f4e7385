package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ggoodman/pms-mcp/connector"
	"github.com/ggoodman/pms-mcp/params"
	"github.com/spf13/cobra"
)

var errUnknownTool = errors.New("unknown tool")

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check TOOL [ARGS_JSON]",
		Short: "Canonicalize tool arguments without calling the API",
		Long: "check runs a tool's parameter pipeline on a JSON arguments object and prints the query " +
			"string that would be sent upstream. Pass - to read the arguments from stdin.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := "{}"
			if len(args) == 2 {
				raw = args[1]
			}
			if raw == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read arguments: %w", err)
				}
				raw = string(b)
			}
			asJSON, _ := cmd.Flags().GetBool("json")
			return check(cmd.OutOrStdout(), args[0], raw, asJSON)
		},
	}
	cmd.Flags().Bool("json", false, "print the canonical map as JSON instead of a query string")
	return cmd
}

func check(out io.Writer, tool, raw string, asJSON bool) error {
	def, ok := connector.Lookup(tool)
	if !ok {
		return fmt.Errorf("%w %q (known: %s)", errUnknownTool, tool, strings.Join(connector.Names(), ", "))
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var args map[string]any
	if err := dec.Decode(&args); err != nil {
		return fmt.Errorf("arguments must be a JSON object: %w", err)
	}

	canonical, err := def.Pipeline.Run(args)
	if err != nil {
		var verr *params.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("invalid parameter %w", verr)
		}
		return err
	}

	if asJSON {
		b, err := json.Marshal(canonical)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(b))
		return err
	}
	path, query, err := def.Route(canonical)
	if err != nil {
		return err
	}
	if q := query.Encode(); q != "" {
		path += "?" + q
	}
	_, err = fmt.Fprintln(out, path)
	return err
}

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List tools and their parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, d := range connector.Definitions() {
				fmt.Fprintf(out, "%s\t%s\n", d.Name, d.Description)
				for _, f := range d.Pipeline.Specs() {
					req := ""
					if f.Required {
						req = " (required)"
					}
					fmt.Fprintf(out, "  %s\t%s -> %s%s\n", f.Name, f.Kind, f.Wire, req)
				}
			}
			return nil
		},
	}
}
