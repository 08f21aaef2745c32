package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"spl2cql/internal/completion"
	"spl2cql/internal/config"
	"spl2cql/internal/history"
	"spl2cql/internal/translate"
)

var (
	// Global flags
	cfgPath string
	verbose bool
	apiKey  string
	model   string
	timeout time.Duration

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "spl2cql",
	Short: "Translate Splunk SPL detection rules to Falcon LogScale CQL",
	Long: `spl2cql translates SIEM detection-rule queries from Splunk SPL to
CrowdStrike Falcon LogScale CQL using an LLM completion service.

Single queries and CSV batches are supported; every attempt, including
failures, is recorded in the session history and can be exported for
review. Translations are not semantically verified - always validate
converted queries before using them in production.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if apiKey != "" {
			cfg.Translator.APIKey = apiKey
		}
		if model != "" {
			cfg.Translator.Model = model
		}
		if timeout > 0 {
			cfg.Translator.Timeout = timeout.String()
		}
		return cfg.Validate()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// newSession wires a fresh session: history store, engine, runner.
// Stores live for the lifetime of one command invocation.
func newSession() (*history.Store, *translate.Engine, *translate.Runner) {
	client := completion.NewAnthropicClientWithConfig(completion.AnthropicConfig{
		APIKey:      cfg.Translator.APIKey,
		BaseURL:     cfg.Translator.BaseURL,
		Model:       cfg.Translator.Model,
		MaxTokens:   cfg.Translator.MaxTokens,
		Temperature: cfg.Translator.Temperature,
		Timeout:     cfg.GetTimeout(),
		Logger:      logger,
	})
	store := history.NewStore()
	engine := translate.NewEngine(client, store, logger)
	runner := translate.NewRunner(engine, cfg.Runner.Concurrency, logger)
	return store, engine, runner
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "spl2cql.yaml", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "completion service API key (overrides config and ANTHROPIC_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "completion model (overrides config)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "completion timeout (overrides config)")

	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(samplesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
