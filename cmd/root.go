package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/dumpsong/internal/config"
	"github.com/bimmerbailey/dumpsong/internal/redact"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "dumpsong",
	Short: "Parody corporate farewell songs, generated on demand",
	Long: `Dumpsong turns a free-text description of an employee into a cheerful,
jargon-heavy parody song about them being "let go".

It extracts the department and tenure from the description, builds a fixed
songwriting prompt, and asks a chat model (OpenAI, Ollama, Gemini or
Anthropic) for the lyrics, retrying rate limits and server errors with
exponential backoff.

Examples:
  dumpsong serve --addr :5000
  dumpsong lyrics --name "Jane Doe" --info "Sales rep, 4 years, missed quota"
  dumpsong extract --name "Sam" "senior developer for 7 years"`,
	SilenceUsage: true,
}

// Execute is called by main.main(). It runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dumpsong.yaml)")
	rootCmd.PersistentFlags().StringP("format", "f", "text", "output format (text, json, yaml)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize text output (auto, always, never)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().String("provider", "", "llm provider (openai, ollama, gemini, anthropic)")
	rootCmd.PersistentFlags().String("model", "", "model name (default depends on provider)")

	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("color", rootCmd.PersistentFlags().Lookup("color"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("llm.provider", rootCmd.PersistentFlags().Lookup("provider"))
	_ = viper.BindPFlag("llm.model", rootCmd.PersistentFlags().Lookup("model"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".dumpsong")
		viper.SetConfigType("yaml")
	}

	// DUMPSONG_LLM_OPENAI_API_KEY maps to llm.openai.api_key
	viper.SetEnvPrefix("DUMPSONG")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// setDefaults registers a default for every key so AutomaticEnv can see it
// during Unmarshal.
func setDefaults() {
	viper.SetDefault("format", "text")
	viper.SetDefault("color", "auto")
	viper.SetDefault("verbose", false)
	viper.SetDefault("log_format", "text")
	viper.SetDefault("log_level", "")

	viper.SetDefault("llm.provider", config.DefaultProvider)
	viper.SetDefault("llm.model", "")
	viper.SetDefault("llm.temperature", config.DefaultTemperature)
	viper.SetDefault("llm.max_retries", config.DefaultMaxRetries)
	viper.SetDefault("llm.timeout", "0s")
	viper.SetDefault("llm.backoff_initial", config.DefaultBackoffInitial.String())
	viper.SetDefault("llm.rate_limit_rps", 0)
	viper.SetDefault("llm.openai.api_key", "")
	viper.SetDefault("llm.openai.base_url", "")
	viper.SetDefault("llm.openai.org_id", "")
	viper.SetDefault("llm.ollama.host", "http://localhost:11434")
	viper.SetDefault("llm.gemini.api_key", "")
	viper.SetDefault("llm.gemini.base_url", "")
	viper.SetDefault("llm.anthropic.api_key", "")
	viper.SetDefault("llm.anthropic.base_url", "")
	viper.SetDefault("llm.anthropic.max_tokens", 1024)

	viper.SetDefault("server.addr", config.DefaultAddr)
	viper.SetDefault("server.allowed_origins", []string{"*"})
	viper.SetDefault("server.request_timeout", "2m")
	viper.SetDefault("server.read_header_timeout", "10s")
	viper.SetDefault("server.shutdown_timeout", "15s")
	viper.SetDefault("server.video_placeholder_url", config.DefaultVideoPlaceholderURL)

	viper.SetDefault("redaction.enabled", true)
	viper.SetDefault("redaction.patterns", []string{})
}

// loadConfig unmarshals and validates the merged viper configuration.
func loadConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.ApplyProviderDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveLevel picks the log level: an explicit log_level wins, then
// --verbose, then fallback.
func resolveLevel(logLevel string, verbose bool, fallback slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(logLevel)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if verbose {
		return slog.LevelDebug
	}
	return fallback
}

// newLogger builds the process logger. Secrets are redacted from every
// record when redaction is enabled. The returned LevelVar can be changed
// while the logger is in use.
func newLogger(cfg *config.Config, w io.Writer, fallback slog.Level) (*slog.Logger, *slog.LevelVar, *redact.Redactor) {
	level := new(slog.LevelVar)
	level.Set(resolveLevel(cfg.LogLevel, cfg.Verbose, fallback))

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	redactor := redact.New(cfg.Redaction.Enabled, cfg.Redaction.Patterns)
	return slog.New(redact.NewHandler(handler, redactor)), level, redactor
}
