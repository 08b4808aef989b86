package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kubev2v/xo-harness/internal/config"
	"github.com/kubev2v/xo-harness/internal/models"
)

const envPrefix = "XO_HARNESS"

// flag names
const (
	flagServerURL   = "server-url"
	flagEmail       = "email"
	flagPassword    = "password"
	flagWorkers     = "workers"
	flagDialTimeout = "dial-timeout"
	flagCallTimeout = "call-timeout"
	flagLogFormat   = "log-format"
	flagLogLevel    = "log-level"
)

func NewRootCommand() *cobra.Command {
	cfg := config.NewConfigurationWithOptionsAndDefaults()
	v := viper.New()

	cmd := &cobra.Command{
		Use:          "xo-harness",
		Short:        "Talk to xo-server the way the e2e suite does",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loadConfiguration(v, cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			logger, err := newLogger(cfg.LogFormat, cfg.LogLevel)
			if err != nil {
				return err
			}
			zap.ReplaceGlobals(logger)
			zap.S().Named("cli").Debugw("configuration loaded", "config", cfg.DebugMap())
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = zap.L().Sync()
		},
	}

	registerFlags(cmd.PersistentFlags(), cfg)
	bindFlags(v, cmd.PersistentFlags())

	cmd.AddCommand(
		newPingCommand(cfg),
		newWatchCommand(cfg),
		newCallCommand(cfg),
		newWaitCommand(cfg),
		newServeCommand(cfg),
	)

	return cmd
}

func registerFlags(fs *pflag.FlagSet, cfg *config.Configuration) {
	fs.String(flagServerURL, cfg.Server.URL, "xo-server address (host:port, http(s):// or ws(s)://)")
	fs.String(flagEmail, cfg.Credentials.Email, "Email used to sign in")
	fs.String(flagPassword, cfg.Credentials.Password, "Password used to sign in")
	fs.Int(flagWorkers, cfg.Harness.NumWorkers, "Number of objects the wait command evaluates at once")
	fs.Duration(flagDialTimeout, cfg.Harness.DialTimeout, "Time spent retrying the connection")
	fs.Duration(flagCallTimeout, cfg.Harness.CallTimeout, "Timeout of a single call, 0 to disable")
	fs.String(flagLogFormat, cfg.LogFormat, "Log format: console or json")
	fs.String(flagLogLevel, cfg.LogLevel, "Log level")
}

// bindFlags makes every flag settable from XO_HARNESS_<FLAG> as well.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
	})
}

func loadConfiguration(v *viper.Viper, cfg *config.Configuration) {
	cfg.Server.URL = v.GetString(flagServerURL)
	cfg.Credentials.Email = v.GetString(flagEmail)
	cfg.Credentials.Password = v.GetString(flagPassword)
	cfg.Harness.NumWorkers = v.GetInt(flagWorkers)
	cfg.Harness.DialTimeout = v.GetDuration(flagDialTimeout)
	cfg.Harness.CallTimeout = v.GetDuration(flagCallTimeout)
	cfg.LogFormat = v.GetString(flagLogFormat)
	cfg.LogLevel = v.GetString(flagLogLevel)
}

func newLogger(format, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	zcfg := zap.NewDevelopmentConfig()
	if format == "json" {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)

	return zcfg.Build()
}

func credentials(cfg *config.Configuration) models.Credentials {
	return models.Credentials{Email: cfg.Credentials.Email, Password: cfg.Credentials.Password}
}
