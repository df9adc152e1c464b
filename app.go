package kwonly

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// App exposes decorated functions through a command line, an HTTP API and
// an MCP server. Every invocation goes through the function's Binder, so
// each transport reports the same argument errors.
type App struct {
	config      Config
	functions   []*RegisteredFunc
	rootCmd     *cobra.Command
	v           *viper.Viper
	logger      zerolog.Logger
	fixedLogger bool
}

// RegisteredFunc is a decorated function exposed by an App.
type RegisteredFunc struct {
	Name        string
	Description string
	Func        *Func
}

// CallRequest is the transport form of one call.
type CallRequest struct {
	Function string         `json:"function,omitempty"`
	Args     []any          `json:"args,omitempty"`
	Kwargs   map[string]any `json:"kwargs,omitempty"`
}

// New creates an application with the given configuration and options.
func New(cfg Config, opts ...AppOption) *App {
	app := &App{
		config: cfg,
		v:      viper.New(),
		logger: zerolog.Nop(),
		rootCmd: &cobra.Command{
			Use:           strings.ToLower(cfg.Name),
			Short:         fmt.Sprintf("%s v%s", cfg.Name, cfg.Version),
			Version:       fmt.Sprintf("%s (%s)", cfg.Version, frameworkVersionString()),
			SilenceUsage:  true,
			SilenceErrors: true,
		},
	}

	for _, opt := range opts {
		opt(app)
	}

	flags := app.rootCmd.PersistentFlags()
	flags.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	flags.String("log-format", "console", "Log format (console, json)")

	app.v.SetEnvPrefix("KWONLY")
	app.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	app.v.AutomaticEnv()
	_ = app.v.BindPFlag("log-level", flags.Lookup("log-level"))
	_ = app.v.BindPFlag("log-format", flags.Lookup("log-format"))

	return app
}

// Register exposes f under its own name.
func (a *App) Register(f *Func, desc string) {
	a.functions = append(a.functions, &RegisteredFunc{
		Name:        f.Name(),
		Description: desc,
		Func:        f,
	})
}

// RegisterFunc wraps fn with Wrap and registers it.
//
// Example:
//
//	app.RegisterFunc(Connect, "Opens a connection",
//		[]kwonly.Param{kwonly.Required("host"), kwonly.Optional("timeout", 30)})
//
// Panics if fn cannot be wrapped.
func (a *App) RegisterFunc(fn any, desc string, params []Param, opts ...Option) {
	f, err := Wrap(fn, params, opts...)
	if err != nil {
		panic(fmt.Sprintf("RegisterFunc failed: %v", err))
	}
	a.Register(f, desc)
}

// Lookup returns the registered function called name.
func (a *App) Lookup(name string) (*RegisteredFunc, bool) {
	for _, fn := range a.functions {
		if fn.Name == name {
			return fn, true
		}
	}
	return nil, false
}

// Command returns the root command with all subcommands attached.
func (a *App) Command() *cobra.Command {
	if a.rootCmd.PersistentPreRunE == nil {
		a.rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
			if err := validator.New(validator.WithRequiredStructEnabled()).Struct(a.config); err != nil {
				return errors.Wrap(err, "invalid app config")
			}
			if a.fixedLogger {
				return nil
			}
			l, err := newLogger(a.v.GetString("log-level"), a.v.GetString("log-format"), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.logger = l.With().Str("app", a.config.Name).Logger()
			return nil
		}
		a.rootCmd.AddCommand(a.buildCallCmd())
		a.rootCmd.AddCommand(a.buildServeCmd())
		a.rootCmd.AddCommand(a.buildMcpCmd())
		a.rootCmd.AddCommand(a.buildSchemaCmd())
	}
	return a.rootCmd
}

// Run executes the application.
//
// Subcommands:
//   - call: read one JSON CallRequest from stdin and print the result.
//   - serve: start the HTTP API.
//   - mcp: run as a Model Context Protocol server on stdio.
//   - schema: print the argument schema of every function.
func (a *App) Run() error {
	return a.Command().Execute()
}

// invoke runs one call against fn and logs its outcome.
func (a *App) invoke(ctx context.Context, fn *RegisteredFunc, req CallRequest) ([]any, error) {
	start := time.Now()
	log := a.logger.With().
		Str("call_id", uuid.NewString()).
		Str("func", fn.Name).
		Int("args", len(req.Args)).
		Int("kwargs", len(req.Kwargs)).
		Logger()

	results, err := fn.Func.Call(ctx, req.Args, req.Kwargs)

	var argErr *ArgumentError
	switch {
	case errors.As(err, &argErr):
		log.Info().Str("kind", argErr.Kind.String()).Err(err).Msg("call rejected")
	case err != nil:
		log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("call failed")
	default:
		log.Debug().Dur("elapsed", time.Since(start)).Msg("call completed")
	}
	return results, err
}

func newLogger(level, format string, w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), errors.Wrapf(err, "invalid log level %q", level)
	}
	if w == nil {
		w = os.Stderr
	}
	switch strings.ToLower(format) {
	case "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	case "json":
	default:
		return zerolog.Nop(), errors.Errorf("invalid log format %q", format)
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}
