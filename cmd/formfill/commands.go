package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formfill/internal/openapi"
	"github.com/goliatone/go-formfill/pkg/document"
	"github.com/goliatone/go-formfill/pkg/fieldpath"
	"github.com/goliatone/go-formfill/pkg/inputs"
	"github.com/goliatone/go-formfill/pkg/render"
	"github.com/goliatone/go-formfill/pkg/session"
	"github.com/goliatone/go-formfill/pkg/store"
	"github.com/goliatone/go-formfill/pkg/visibility/expr"
)

func (c *cli) fillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fill",
		Short: "Prompt for every visible input, then print the rendered template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, app, err := c.open(cmd)
			if err != nil {
				return err
			}
			driver := c.driver
			if driver == nil {
				driver = session.NewSurveyDriver(c.stdout)
			}
			sess, err := session.New(app,
				session.WithPromptDriver(driver),
				session.WithEvaluator(expr.New(), nil),
			)
			if err != nil {
				return err
			}
			if err := sess.Run(ctx); err != nil {
				if errors.Is(err, session.ErrAborted) {
					fmt.Fprintln(cmd.ErrOrStderr(), "aborted, answers so far are saved")
					return nil
				}
				return err
			}
			out, err := app.Render()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func (c *cli) getCmd() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "get PATH",
		Short: "Print the value at a dotted path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, app, err := c.open(cmd)
			if err != nil {
				return err
			}
			v, ok := app.Get(fieldpath.New(args[0]))
			if !ok {
				return fmt.Errorf("nothing at '%s'", args[0])
			}
			if raw {
				fmt.Fprintln(cmd.OutOrStdout(), inputs.DisplayValue(v))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), document.FromValue(v).Pretty())
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print strings without JSON quoting")
	return cmd
}

func (c *cli) setCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "set PATH VALUE",
		Short: "Store a value at a dotted path",
		Long: `Store VALUE at PATH, creating intermediate objects and array elements.
VALUE is stored as a string unless --json is given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var value document.Value = document.String(args[1])
			if asJSON {
				decoded, err := document.Decode([]byte(args[1]))
				if err != nil {
					return err
				}
				value = decoded
			}
			ctx, app, err := c.open(cmd)
			if err != nil {
				return err
			}
			return app.Edit(ctx, fieldpath.New(args[0]), value)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Parse VALUE as JSON")
	return cmd
}

func (c *cli) resizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resize PATH N",
		Short: "Make the value at PATH an array of N elements",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid length %q: %w", args[1], err)
			}
			ctx, app, err := c.open(cmd)
			if err != nil {
				return err
			}
			return app.Resize(ctx, fieldpath.New(args[0]), n)
		},
	}
}

func (c *cli) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm PATH",
		Aliases: []string{"remove"},
		Short:   "Remove the value at PATH",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, err := c.open(cmd)
			if err != nil {
				return err
			}
			return app.Remove(ctx, fieldpath.New(args[0]))
		},
	}
}

func (c *cli) renderCmd() *cobra.Command {
	var diff bool
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the scenario template with the current data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, app, err := c.open(cmd)
			if err != nil {
				return err
			}
			out, err := app.Render()
			if err != nil {
				return err
			}
			if !diff {
				fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			}

			fileStore, err := c.store()
			if err != nil {
				return err
			}
			lastKey := app.Key() + ".rendered"
			prev, err := fileStore.Load(ctx, lastKey)
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), render.Diff(string(prev), out))
			return fileStore.Save(ctx, lastKey, []byte(out))
		},
	}
	cmd.Flags().BoolVar(&diff, "diff", false, "Show a line diff against the last diffed render")
	return cmd
}

func (c *cli) patchCmd() *cobra.Command {
	var merge bool
	cmd := &cobra.Command{
		Use:   "patch FILE",
		Short: "Apply a JSON patch (RFC 6902) or merge patch (RFC 7396); - reads stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := c.readInput(args[0])
			if err != nil {
				return err
			}
			ctx, app, err := c.open(cmd)
			if err != nil {
				return err
			}
			if merge {
				return app.Merge(ctx, raw)
			}
			return app.Patch(ctx, raw)
		},
	}
	cmd.Flags().BoolVar(&merge, "merge", false, "Treat FILE as a merge patch")
	return cmd
}

func (c *cli) exportCmd() *cobra.Command {
	var (
		asYAML bool
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the collected data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, app, err := c.open(cmd)
			if err != nil {
				return err
			}
			out, err := app.Export(asYAML)
			if err != nil {
				return err
			}
			return c.writeOutput(cmd, output, out)
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Export as YAML")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout if empty)")
	return cmd
}

func (c *cli) resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard the collected data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, app, err := c.open(cmd)
			if err != nil {
				return err
			}
			return app.Reset(ctx)
		},
	}
}

func (c *cli) importCmd() *cobra.Command {
	var (
		asYAML bool
		output string
	)
	cmd := &cobra.Command{
		Use:   "import-openapi SPEC [SCHEMA]",
		Short: "Print a scenario built from an OpenAPI component schema",
		Long: `Build a scenario from the properties of an OpenAPI component schema.
SPEC is a file path or an http(s) URL. Without SCHEMA the available
component schemas are listed.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			raw, err := openapi.Read(ctx, args[0], nil)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				names, err := openapi.SchemaNames(ctx, raw)
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}
			scenario, err := openapi.Scenario(ctx, raw, args[1])
			if err != nil {
				return err
			}
			out, err := scenario.Encode(asYAML)
			if err != nil {
				return err
			}
			if !asYAML {
				out = append(out, '\n')
			}
			return c.writeOutput(cmd, output, out)
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Emit YAML instead of JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout if empty)")
	return cmd
}

func (c *cli) readInput(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(c.stdin)
	}
	return os.ReadFile(name)
}

func (c *cli) writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "written to %s\n", path)
	return nil
}
