// Package cli implements the confstore command line.
//
// Tool settings come from flags, CONFSTORE_* environment variables and an
// optional YAML settings file ($HOME/.confstore.yaml by default), in that
// order of precedence.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dshills/confstore/internal/config"
	"github.com/dshills/confstore/internal/config/codec"
	"github.com/dshills/confstore/internal/config/loader"
	"github.com/dshills/confstore/internal/config/schema"
	"github.com/dshills/confstore/internal/log"
)

// Version is the build version. Override with:
//
//	-ldflags "-X github.com/dshills/confstore/internal/cli.Version=v1.2.3"
var Version = "dev"

// envPrefix namespaces environment variables, e.g. CONFSTORE_SCHEMA.
const envPrefix = "CONFSTORE"

// Setting keys shared by flags, environment variables and the settings file.
const (
	keySchema            = "schema"
	keyFallback          = "fallback"
	keyCommentColumn     = "comment-column"
	keyMinCommentSpacing = "min-comment-spacing"
	keyIgnoreComments    = "ignore-comments"
	keyIgnorePrefixes    = "ignore-comment-prefix"
	keyEmptyLast         = "empty-last"
	keyEditable          = "editable"
	keyLogLevel          = "log-level"
	keyLogJSON           = "log-json"
)

var errNoSchema = errors.New("no schema file given (use --schema or CONFSTORE_SCHEMA)")

// Option configures Run.
type Option func(*app)

// WithFs sets the file system used for schemas, config files and the
// settings file. Watching always uses the OS file system.
func WithFs(fs afero.Fs) Option {
	return func(a *app) {
		if fs != nil {
			a.fs = fs
		}
	}
}

type app struct {
	v       *viper.Viper
	fs      afero.Fs
	stdout  io.Writer
	stderr  io.Writer
	cfgFile string
	logger  *slog.Logger
}

// Run executes the command line in args and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer, opts ...Option) int {
	a := &app{
		v:      viper.New(),
		fs:     afero.NewOsFs(),
		stdout: stdout,
		stderr: stderr,
		logger: log.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.v.SetFs(a.fs)

	root := a.rootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "confstore",
		Short: "Inspect and edit typed configuration files",
		Long: `confstore reads configuration files against a schema of typed entries.

The schema (TOML, YAML or JSON with comments) declares every heading and
entry with its default, type, bounds and allowed values. Files hold
"[Heading]" sections of "key = value" lines; fallback files are applied
before the main file, most important last.`,
		Example: `  # Write a commented template
  confstore template -s schema.toml -o settings.ini

  # Show the effective values
  confstore show -s schema.toml --fallback /etc/app.ini settings.ini

  # Change values in place
  confstore set -s schema.toml settings.ini Audio.Volume=7`,
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.init()
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "settings file (default: $HOME/.confstore.yaml)")
	pf.StringP(keySchema, "s", "", "schema file (.toml, .yaml, .yml, .json, .jsonc)")
	pf.StringSlice(keyFallback, nil, "fallback file, most important first (repeatable)")
	pf.Int(keyCommentColumn, 0, "align inline comments to this column")
	pf.Int(keyMinCommentSpacing, codec.DefaultMinCommentSpacing, "minimum spaces before an inline comment")
	pf.Bool(keyIgnoreComments, false, "omit inline comments")
	pf.StringSlice(keyIgnorePrefixes, nil, "omit inline comments starting with this prefix (repeatable)")
	pf.Bool(keyEmptyLast, false, "place entries without a priority after prioritized ones")
	pf.Bool(keyEditable, false, "allow creating entries the schema does not define")
	pf.String(keyLogLevel, "warn", "log level (debug, info, warn, error)")
	pf.Bool(keyLogJSON, false, "write logs as JSON")
	_ = a.v.BindPFlags(pf)

	root.AddCommand(
		a.templateCmd(),
		a.showCmd(),
		a.getCmd(),
		a.setCmd(),
		a.validateCmd(),
		a.watchCmd(),
	)
	return root
}

// init reads the settings file and builds the logger.
func (a *app) init() error {
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(home)
		}
		a.v.SetConfigName(".confstore")
		a.v.SetConfigType("yaml")
	}
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read settings: %w", err)
		}
	}

	level, err := log.ParseLevel(a.v.GetString(keyLogLevel))
	if err != nil {
		return err
	}
	a.logger = log.New(log.Config{Out: a.stderr, Level: level, JSON: a.v.GetBool(keyLogJSON)})
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("using settings file", "path", used)
	}
	return nil
}

func (a *app) loadSchema() (*schema.Schema, error) {
	path := a.v.GetString(keySchema)
	if path == "" {
		return nil, errNoSchema
	}
	return schema.LoadFile(a.fs, path)
}

// openStore builds a store holding the schema defaults.
func (a *app) openStore() (*config.Store, error) {
	s, err := a.loadSchema()
	if err != nil {
		return nil, err
	}
	return config.New(s,
		config.WithFileSystem(loader.NewAferoFS(a.fs)),
		config.WithLogger(a.logger),
		config.WithEditable(a.v.GetBool(keyEditable)),
		config.WithEmptyLast(a.v.GetBool(keyEmptyLast)),
	)
}

// loadStore builds a store and applies the fallback files and file.
func (a *app) loadStore(file string) (*config.Store, error) {
	st, err := a.openStore()
	if err != nil {
		return nil, err
	}
	if err := st.Load(file, a.fallbacks()...); err != nil {
		return nil, err
	}
	return st, nil
}

func (a *app) fallbacks() []string {
	return a.v.GetStringSlice(keyFallback)
}

func (a *app) encodeOptions() []codec.Option {
	opts := []codec.Option{
		codec.WithCommentColumn(a.v.GetInt(keyCommentColumn)),
		codec.WithMinCommentSpacing(a.v.GetInt(keyMinCommentSpacing)),
	}
	if a.v.GetBool(keyIgnoreComments) {
		opts = append(opts, codec.WithoutComments())
	}
	if prefixes := a.v.GetStringSlice(keyIgnorePrefixes); len(prefixes) > 0 {
		opts = append(opts, codec.WithIgnoreCommentPrefixes(prefixes...))
	}
	return opts
}
