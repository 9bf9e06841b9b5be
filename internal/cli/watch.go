package cli

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/confstore/internal/config"
	"github.com/dshills/confstore/internal/config/notify"
	"github.com/dshills/confstore/internal/config/registry"
	"github.com/dshills/confstore/internal/config/watcher"
)

func (a *app) watchCmd() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Reload FILE and print changed values whenever it is edited",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := args[0]
			st, err := a.loadStore(file)
			if err != nil {
				return err
			}

			w, err := watcher.New(watcher.WithDebounce(debounce))
			if err != nil {
				return err
			}
			defer w.Close()

			for _, path := range append([]string{file}, a.fallbacks()...) {
				if err := w.Watch(path); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "watching %s\n", file)

			ctx := cmd.Context()
			prev := st.Values()
			for {
				select {
				case <-ctx.Done():
					return nil

				case ev, ok := <-w.Events():
					if !ok {
						return nil
					}
					a.logger.Debug("file changed", "path", ev.Path, "op", ev.Op.String())

					if err := a.refresh(st, file); err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "reload failed: %v\n", err)
						continue
					}
					cur := st.Values()
					printChanges(out, prev, cur)
					prev = cur

				case err, ok := <-w.Errors():
					if !ok {
						return nil
					}
					a.logger.Warn("watch error", "error", err)
				}
			}
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 100*time.Millisecond, "wait this long after the last change before reloading")
	return cmd
}

// refresh resets the store to its defaults and reapplies every file.
func (a *app) refresh(st *config.Store, file string) error {
	st.Reload()
	return st.Load(file, a.fallbacks()...)
}

// printChanges writes one "Heading.Entry: old -> new" line per difference.
func printChanges(w io.Writer, prev, cur map[string]map[string]any) {
	var lines []string
	for heading, values := range cur {
		for name, v := range values {
			old, ok := prev[heading][name]
			if ok && old == v {
				continue
			}
			lines = append(lines, fmt.Sprintf("%s: %s -> %s",
				notify.Path(heading, name), registry.FormatValue(old), registry.FormatValue(v)))
		}
	}
	sort.Strings(lines)
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}
