package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ZaguanLabs/glossa"
)

// config is the resolved configuration for one command run.
type config struct {
	GlossaryPath  string
	PromptPath    string
	Backend       string
	Model         string
	BackendURL    string
	APIKey        string
	Threshold     float64
	FoldAccents   bool
	Lang          string
	Delimiter     string
	ResponseField string
	HTML          bool
	Timeout       time.Duration

	CacheType  string
	CacheTTL   int
	RedisURL   string
	SQLitePath string

	Retries int
	RPM     int
	Breaker bool
	Verbose bool

	QueueURL      string
	RequestQueue  string
	ResultQueue   string
	QueueWorkers  int
	QueuePrefetch int
}

// app carries the per-run state shared by all subcommands.
type app struct {
	v      *viper.Viper
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
	cfg    config
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		v:      viper.New(),
		stdout: stdout,
		stderr: stderr,
		logger: slog.New(slog.DiscardHandler),
	}
}

// flagKeys maps persistent flag names to config keys.
var flagKeys = map[string]string{
	"glossary":       "glossary",
	"prompt":         "prompt",
	"backend":        "backend",
	"model":          "model",
	"backend-url":    "backend_url",
	"api-key":        "api_key",
	"threshold":      "threshold",
	"fold-accents":   "fold_accents",
	"lang":           "lang",
	"delimiter":      "delimiter",
	"response-field": "response_field",
	"html":           "html",
	"timeout":        "timeout",
	"cache":          "cache.type",
	"cache-ttl":      "cache.ttl",
	"redis-url":      "cache.redis_url",
	"sqlite-path":    "cache.sqlite_path",
	"retries":        "retries",
	"rpm":            "rpm",
	"breaker":        "breaker",
	"verbose":        "verbose",
}

func setupPersistentFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()

	f.String("config", "", "config file (default is ./.glossa.yaml or $HOME/.glossa.yaml)")

	// Inputs
	f.String("glossary", "glossario.json", "Glossary JSON file (term -> translation)")
	f.String("prompt", "system_prompt.txt", "Prompt template file")
	f.String("lang", "pt", "Language of the \"no terms\" marker")
	f.String("delimiter", "", "Marker line placed before and after the user text")
	f.Bool("html", false, "Treat input as HTML and match only visible text")

	// Matching
	f.Float64("threshold", glossa.DefaultThreshold, "Minimum similarity score (0-100)")
	f.Bool("fold-accents", false, "Ignore accents when comparing words and terms")

	// Backend
	f.String("backend", "ollama", "Backend: ollama, openai or gemini")
	f.String("model", "", "Model name (default depends on backend)")
	f.String("backend-url", "", "Backend endpoint override")
	f.String("api-key", "", "API key (or OPENAI_API_KEY / GEMINI_API_KEY)")
	f.String("response-field", glossa.DefaultResponseField, "JSON field holding the translation")
	f.Duration("timeout", 2*time.Minute, "Timeout for one translation")
	f.Int("retries", 2, "Retries for transient backend failures")
	f.Int("rpm", 0, "Requests per minute limit (0 = unlimited)")
	f.Bool("breaker", false, "Fail fast after repeated backend failures")

	// Cache
	f.String("cache", "none", "Response cache: none, memory, redis or sqlite")
	f.Int("cache-ttl", 3600, "Cache TTL in seconds (0 = no expiration)")
	f.String("redis-url", "redis://localhost:6379/0", "Redis URL for --cache redis")
	f.String("sqlite-path", "glossa-cache.db", "Database file for --cache sqlite")

	f.BoolP("verbose", "v", false, "Enable debug logging")
}

// bindFlags binds each named flag to its config key, so a flag set on the
// command line wins over the environment and the config file.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for name, key := range keys {
		flag := flags.Lookup(name)
		if flag == nil {
			return fmt.Errorf("unknown flag %q", name)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("binding flag %q: %w", name, err)
		}
	}
	return nil
}

// init loads .env, the config file and the environment, then resolves the
// configuration and logger for this run.
func (a *app) init(cmd *cobra.Command) error {
	_ = godotenv.Load() // A missing .env file is fine

	if err := bindFlags(a.v, cmd.Root().PersistentFlags(), flagKeys); err != nil {
		return err
	}

	if err := a.readConfig(cmd); err != nil {
		return err
	}

	a.cfg = a.load()
	if a.cfg.Threshold < 0 || a.cfg.Threshold > 100 {
		return fmt.Errorf("threshold must be between 0 and 100, got %v", a.cfg.Threshold)
	}

	level := slog.LevelInfo
	if a.cfg.Verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("using config file", "path", used)
	}
	return nil
}

func (a *app) readConfig(cmd *cobra.Command) error {
	v := a.v
	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigType("yaml")
		v.SetConfigName(".glossa")
	}

	v.SetEnvPrefix("GLOSSA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

func (a *app) load() config {
	v := a.v
	cfg := config{
		GlossaryPath:  v.GetString("glossary"),
		PromptPath:    v.GetString("prompt"),
		Backend:       strings.ToLower(v.GetString("backend")),
		Model:         v.GetString("model"),
		BackendURL:    v.GetString("backend_url"),
		APIKey:        v.GetString("api_key"),
		Threshold:     v.GetFloat64("threshold"),
		FoldAccents:   v.GetBool("fold_accents"),
		Lang:          v.GetString("lang"),
		Delimiter:     v.GetString("delimiter"),
		ResponseField: v.GetString("response_field"),
		HTML:          v.GetBool("html"),
		Timeout:       v.GetDuration("timeout"),
		CacheType:     v.GetString("cache.type"),
		CacheTTL:      v.GetInt("cache.ttl"),
		RedisURL:      v.GetString("cache.redis_url"),
		SQLitePath:    v.GetString("cache.sqlite_path"),
		Retries:       v.GetInt("retries"),
		RPM:           v.GetInt("rpm"),
		Breaker:       v.GetBool("breaker"),
		Verbose:       v.GetBool("verbose"),
		QueueURL:      v.GetString("queue.url"),
		RequestQueue:  v.GetString("queue.requests"),
		ResultQueue:   v.GetString("queue.results"),
		QueueWorkers:  v.GetInt("queue.workers"),
		QueuePrefetch: v.GetInt("queue.prefetch"),
	}

	if cfg.APIKey == "" {
		switch cfg.Backend {
		case "openai":
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		case "gemini":
			cfg.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}
	return cfg
}

// withTimeout bounds ctx by the configured timeout, if any.
func (a *app) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.cfg.Timeout)
}
