package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vk/plugreg/internal/app"
	"github.com/vk/plugreg/internal/catalog"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// envBindings maps config keys to the environment variables that set them.
// The search path is deliberately absent: PLUGREG_PATH is a path list read
// by the source package, not a comma-separated viper value.
var envBindings = map[string]string{
	"locator":               "PLUGREG_LOCATOR",
	"no_discovery":          "PLUGREG_NO_DISCOVERY",
	"log_level":             "PLUGREG_LOG_LEVEL",
	"log_format":            "PLUGREG_LOG_FORMAT",
	"listen":                "PLUGREG_LISTEN",
	"tracing.exporter":      "PLUGREG_TRACING_EXPORTER",
	"tracing.otlp_endpoint": "PLUGREG_TRACING_OTLP_ENDPOINT",
	"tracing.service_name":  "PLUGREG_TRACING_SERVICE_NAME",
}

type options struct {
	v       *viper.Viper
	cfgFile string
	outW    io.Writer
	errW    io.Writer
	modules []catalog.Module
}

// NewRootCmd builds the plugreg command tree. Command output goes to outW,
// logs to errW. Without modules the app's core modules are used.
func NewRootCmd(outW, errW io.Writer, modules ...catalog.Module) *cobra.Command {
	opts := &options{v: viper.New(), outW: outW, errW: errW, modules: modules}

	root := &cobra.Command{
		Use:   "plugreg",
		Short: "Discover declared providers and serve them from a sealed registry",
		Long: `plugreg scans every component on the search path for a declaration file
(META-INF/plugreg.hcl by default), builds the declared services and providers
once, and exposes the sealed registry.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return opts.initConfig()
		},
	}
	root.SetOut(outW)
	root.SetErr(errW)

	defaults := app.DefaultConfig()
	flags := root.PersistentFlags()
	flags.StringVarP(&opts.cfgFile, "config", "c", "", "config file (yaml, json or toml)")
	flags.StringSliceP("path", "p", nil, "search path entry; repeatable (default: $PLUGREG_PATH or .)")
	flags.String("locator", defaults.Locator, "declaration file path relative to each component root")
	flags.Bool("no-discovery", false, "skip source discovery; only programmatic registrations are used")
	flags.String("log-level", defaults.LogLevel, "logging level: 'debug', 'info', 'warn' or 'error'")
	flags.String("log-format", defaults.LogFormat, "log output format: 'text' or 'json'")
	flags.String("trace-exporter", defaults.Tracing.Exporter, "trace exporter: 'none', 'stdout' or 'otlp'")

	bind := map[string]string{
		"path":             "path",
		"locator":          "locator",
		"no_discovery":     "no-discovery",
		"log_level":        "log-level",
		"log_format":       "log-format",
		"tracing.exporter": "trace-exporter",
	}
	for key, flag := range bind {
		_ = opts.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(newListCmd(opts), newGetCmd(opts), newKindsCmd(opts), newServeCmd(opts))
	return root
}

func (o *options) initConfig() error {
	defaults := app.DefaultConfig()
	o.v.SetDefault("locator", defaults.Locator)
	o.v.SetDefault("log_level", defaults.LogLevel)
	o.v.SetDefault("log_format", defaults.LogFormat)
	o.v.SetDefault("listen", defaults.ListenAddr)
	o.v.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	o.v.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	o.v.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	for key, env := range envBindings {
		_ = o.v.BindEnv(key, env)
	}

	if o.cfgFile != "" {
		o.v.SetConfigFile(o.cfgFile)
		if err := o.v.ReadInConfig(); err != nil {
			return &ExitError{Code: 2, Message: fmt.Sprintf("failed to read config file: %v", err)}
		}
	}
	return nil
}

func (o *options) config() (*app.Config, error) {
	var raw app.Config
	if err := o.v.Unmarshal(&raw); err != nil {
		return nil, &ExitError{Code: 2, Message: fmt.Sprintf("invalid configuration: %v", err)}
	}
	cfg, err := app.NewConfig(raw)
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	return cfg, nil
}

func (o *options) newApp(ctx context.Context) (*app.App, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	return app.NewApp(ctx, o.errW, cfg, o.modules...)
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, args []string, outW, errW io.Writer, modules ...catalog.Module) error {
	root := NewRootCmd(outW, errW, modules...)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	if strings.HasPrefix(err.Error(), "unknown command") || strings.HasPrefix(err.Error(), "unknown flag") ||
		strings.Contains(err.Error(), "arg(s)") {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	return err
}
