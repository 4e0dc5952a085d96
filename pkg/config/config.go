package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/robfig/cron/v3"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "GATEWAY"
	configName     = ".pos-gateway"
	defaultRPCURL  = "http://localhost:26657"
	defaultPort    = 3000
	defaultHRP     = "tnam"
	defaultProbe   = "@every 30s"
	maxPortNumber  = 65535
	defaultWorkers = 10
)

// Config is the resolved gateway configuration.
type Config struct {
	RPCURLs            []string
	Port               int
	CORSAllowedOrigins []string
	LogLevel           string
	LogEncoding        string

	RPCTimeout         time.Duration
	RPCRPS             int
	RPCBurst           int
	RPCBreakerFailures int
	RPCBreakerCooldown time.Duration
	RPCMaxAttempts     int

	AddressHRP      string
	PageWorkers     int
	HealthProbeSpec string
	MetricsEnabled  bool
	TracingAddress  string
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("gateway", pflag.ContinueOnError)
	fs.String("config", "", "path to a configuration file (default $HOME/.pos-gateway.yaml)")
	fs.String("env-file", ".env", "dotenv file loaded into the environment when present")
	fs.StringSlice("rpc-url", []string{defaultRPCURL}, "chain node query endpoint(s), tried in order")
	fs.Int("port", defaultPort, "HTTP listen port")
	fs.StringSlice("cors-allowed-origins", []string{"*"}, "origins allowed by CORS")
	fs.String("log-level", "info", "minimum level of messages to log")
	fs.String("log-encoding", "json", "log encoding (json or console)")
	fs.Duration("rpc-timeout", 15*time.Second, "timeout of a single node request")
	fs.Int("rpc-rps", 20, "node requests per second")
	fs.Int("rpc-burst", 40, "node request burst")
	fs.Int("rpc-breaker-failures", 3, "consecutive failures before an endpoint is skipped")
	fs.Duration("rpc-breaker-cooldown", 5*time.Second, "how long a failing endpoint is skipped")
	fs.Int("rpc-max-attempts", 1, "attempts per node query, 1 disables retries")
	fs.String("address-hrp", defaultHRP, "human-readable prefix of chain addresses")
	fs.Int("page-workers", defaultWorkers, "concurrent validator lookups per listing page")
	fs.String("health-probe-spec", defaultProbe, "cron spec of the upstream health probe")
	fs.Bool("metrics-enabled", true, "expose prometheus metrics on /metrics")
	fs.String("tracing-address", "", "OTLP/gRPC endpoint for traces, empty disables tracing")
	return fs
}

// loadDotEnv copies the variables of a dotenv file into the process environment.
// Variables that are already set are left alone. A missing file is not an error.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	dv := viper.New()
	dv.SetConfigFile(path)
	dv.SetConfigType("env")
	if err := dv.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read env file %s: %w", path, err)
	}
	for _, key := range dv.AllKeys() {
		name := strings.ToUpper(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, dv.GetString(key)); err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
	}
	return nil
}

// Load resolves configuration from args, the environment and an optional config file.
// Flags win over environment variables, which win over the file. A dotenv file only
// fills variables missing from the environment.
func Load(args []string) (*Config, error) {
	flags := newFlagSet()
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	envFile, err := flags.GetString("env-file")
	if err != nil {
		return nil, err
	}
	if err := loadDotEnv(envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// legacy variable names
	if err := v.BindEnv("rpc-url", envPrefix+"_RPC_URL", "NAMADA_RPC_URL"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}
	if err := v.BindEnv("port", envPrefix+"_PORT", "API_PORT"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, fmt.Errorf("obtain home directory: %w", err)
		}
		v.AddConfigPath(home)
		v.SetConfigName(configName)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read configuration file: %w", err)
		}
	}

	cfg := &Config{
		RPCURLs:            splitList(v.GetStringSlice("rpc-url")),
		Port:               v.GetInt("port"),
		CORSAllowedOrigins: splitList(v.GetStringSlice("cors-allowed-origins")),
		LogLevel:           v.GetString("log-level"),
		LogEncoding:        v.GetString("log-encoding"),
		RPCTimeout:         v.GetDuration("rpc-timeout"),
		RPCRPS:             v.GetInt("rpc-rps"),
		RPCBurst:           v.GetInt("rpc-burst"),
		RPCBreakerFailures: v.GetInt("rpc-breaker-failures"),
		RPCBreakerCooldown: v.GetDuration("rpc-breaker-cooldown"),
		RPCMaxAttempts:     v.GetInt("rpc-max-attempts"),
		AddressHRP:         v.GetString("address-hrp"),
		PageWorkers:        v.GetInt("page-workers"),
		HealthProbeSpec:    v.GetString("health-probe-spec"),
		MetricsEnabled:     v.GetBool("metrics-enabled"),
		TracingAddress:     v.GetString("tracing-address"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitList flattens comma-separated entries, as environment variables deliver lists as one string.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, entry := range in {
		for _, part := range strings.Split(entry, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// ScheduleParser parses health-probe-spec. Seconds are optional.
var ScheduleParser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if len(c.RPCURLs) == 0 {
		return errors.New("at least one rpc-url is required")
	}
	for _, raw := range c.RPCURLs {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid rpc-url %q: must be an http:// or https:// URL", raw)
		}
	}
	if c.Port < 1 || c.Port > maxPortNumber {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.AddressHRP == "" {
		return errors.New("address-hrp must not be empty")
	}
	if c.PageWorkers < 1 {
		return fmt.Errorf("page-workers must be positive, got %d", c.PageWorkers)
	}
	if c.RPCMaxAttempts < 1 {
		return fmt.Errorf("rpc-max-attempts must be positive, got %d", c.RPCMaxAttempts)
	}
	if c.HealthProbeSpec != "" {
		if _, err := ScheduleParser.Parse(c.HealthProbeSpec); err != nil {
			return fmt.Errorf("invalid health-probe-spec %q: %w", c.HealthProbeSpec, err)
		}
	}
	return nil
}
