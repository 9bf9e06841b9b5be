package cli

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/dshills/confstore/internal/config"
	"github.com/dshills/confstore/internal/config/codec"
	"github.com/dshills/confstore/internal/config/notify"
	"github.com/dshills/confstore/internal/config/registry"
)

func (a *app) templateCmd() *cobra.Command {
	var (
		output   string
		keysOnly bool
	)

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write a fresh file holding the schema defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}

			opts := a.encodeOptions()
			if keysOnly {
				opts = append(opts, codec.WithKeysOnly())
			}
			if output == "" {
				return st.Encode(cmd.OutOrStdout(), opts...)
			}
			if err := st.Save(output, opts...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&keysOnly, "keys-only", false, "write keys with empty values")
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	var asJSON, defaults bool

	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Print the effective values after applying fallbacks and FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.loadStore(args[0])
			if err != nil {
				return err
			}
			if st.IsNew() {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s not found, showing defaults and fallbacks\n", args[0])
			}

			if asJSON {
				data, err := st.ExportJSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			opts := a.encodeOptions()
			if defaults {
				opts = append(opts, codec.WithChanges(false))
			}
			return st.Encode(cmd.OutOrStdout(), opts...)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print a JSON object of headings")
	cmd.Flags().BoolVar(&defaults, "defaults", false, "print schema defaults instead of current values")
	return cmd
}

func (a *app) getCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "get FILE [Heading.Entry | QUERY]",
		Short: "Print one value, or query the JSON export with --json",
		Long: `Print the value of one entry. With --json the values are exported as JSON
and the optional argument is a gjson query, e.g. "Audio" or "Audio.Volume".`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.loadStore(args[0])
			if err != nil {
				return err
			}

			if asJSON {
				data, err := st.ExportJSON()
				if err != nil {
					return err
				}
				if len(args) == 1 {
					fmt.Fprintln(cmd.OutOrStdout(), string(data))
					return nil
				}
				res := gjson.GetBytes(data, args[1])
				if !res.Exists() {
					return fmt.Errorf("%w: %s", config.ErrInvalidPath, args[1])
				}
				fmt.Fprintln(cmd.OutOrStdout(), res.Raw)
				return nil
			}

			if len(args) == 1 {
				return fmt.Errorf("missing Heading.Entry argument")
			}
			e, err := st.Lookup(args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.Format())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "query the JSON export")
	return cmd
}

func (a *app) setCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set FILE Heading.Entry=value...",
		Short: "Write values and save FILE",
		Long: `Load FILE, write each value and save FILE. Values are coerced into the
entry's type and clamped into its bounds; values that cannot be stored are
reported and leave the entry unchanged.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := args[0]
			st, err := a.loadStore(file)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			st.Subscribe(func(c notify.Change) {
				fmt.Fprintf(out, "%s: %s -> %s\n", c.Path(),
					registry.FormatValue(c.OldValue), registry.FormatValue(c.NewValue))
			}, notify.OnTypes(notify.ChangeSet))

			rejected := 0
			for _, arg := range args[1:] {
				path, value, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("invalid assignment %q: want Heading.Entry=value", arg)
				}
				path = strings.TrimSpace(path)

				accepted, err := st.SetPath(path, value)
				if err != nil {
					return err
				}
				if !accepted {
					fmt.Fprintf(cmd.ErrOrStderr(), "rejected %s = %q\n", path, value)
					rejected++
				}
			}

			if err := st.Save(file, a.encodeOptions()...); err != nil {
				return err
			}
			if rejected > 0 {
				return fmt.Errorf("%d value(s) rejected", rejected)
			}
			return nil
		},
	}
}

func (a *app) validateCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate [FILE]",
		Short: "Check the schema and, optionally, a file against it",
		Long: `Check the schema definition. When FILE is given it is parsed and every
variable is checked: syntax errors fail, while unknown headings, unknown
variables and values the entry would reject are reported as warnings.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSchema()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				fmt.Fprintf(out, "schema ok: %d headings\n", s.Len())
				return nil
			}

			file := args[0]
			data, err := afero.ReadFile(a.fs, file)
			if err != nil {
				return err
			}
			assignments, err := codec.Parse(bytes.NewReader(data), file)
			if err != nil {
				return err
			}

			warnings := 0
			warn := func(line int, format string, args ...any) {
				fmt.Fprintf(out, "%s:%d: %s\n", file, line, fmt.Sprintf(format, args...))
				warnings++
			}
			for _, as := range assignments {
				if !as.HasHeading {
					warn(as.Line, "%s is outside any heading", as.Key)
					continue
				}
				h, ok := s.Heading(as.Heading)
				if !ok {
					warn(as.Line, "unknown heading [%s]", as.Heading)
					continue
				}
				def, ok := h.Entry(as.Key)
				if !ok {
					warn(as.Line, "unknown variable %s in [%s]", as.Key, as.Heading)
					continue
				}
				e, err := def.NewEntry(registry.Meta{})
				if err != nil {
					return err
				}
				if !e.Locked() && !e.Write(as.Value) {
					warn(as.Line, "%s.%s rejects %q", as.Heading, as.Key, as.Value)
				}
			}

			if warnings == 0 {
				fmt.Fprintf(out, "%s ok: %d values\n", file, len(assignments))
				return nil
			}
			if strict {
				return fmt.Errorf("%s: %d warning(s)", file, warnings)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as errors")
	return cmd
}
