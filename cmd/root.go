package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"url-triage-poc/ai"
	"url-triage-poc/config"
	"url-triage-poc/logging"
	"url-triage-poc/store"
	"url-triage-poc/vetting"
)

var (
	statePath  string
	apiKey     string
	modelName  string
	aiTimeout  string
	batchLimit int
	whois      bool
	verbose    bool

	cfg    config.Config
	st     store.Store
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "url-triage",
	Short: "Classify URLs as Safe, Suspicious or Malicious",
	Long: `url-triage scores a URL against administrator overrides, a local threat
dataset, deterministic heuristics, and (when OPENROUTER_API_KEY is set) a
two-round deep reasoning classifier with a rule-based fallback.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.Init("url-triage", verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if err := applyFlags(cmd); err != nil {
			return err
		}

		bolt, err := store.OpenBolt(cfg.StatePath)
		if err != nil {
			return fmt.Errorf("open state %s: %w", cfg.StatePath, err)
		}
		st = bolt
		logger.Debug("state opened", "path", cfg.StatePath, "ai", cfg.HasCredential())
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if st != nil {
		if cerr := st.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&statePath, "state", "", "path to the state database (env TRIAGE_STATE_PATH)")
	pf.StringVar(&apiKey, "api-key", "", "reasoning service API key (env OPENROUTER_API_KEY)")
	pf.StringVar(&modelName, "model", "", "reasoning model (env OPENROUTER_MODEL)")
	pf.StringVar(&aiTimeout, "ai-timeout", "", "budget for both classifier rounds, e.g. 30s (env TRIAGE_AI_TIMEOUT)")
	pf.IntVar(&batchLimit, "concurrency", 0, "concurrent scans for batches (env TRIAGE_BATCH_LIMIT)")
	pf.BoolVar(&whois, "whois", false, "enrich imported records with WHOIS data (env TRIAGE_WHOIS_ENRICH)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(serveCmd, scanCmd, importCmd, listsCmd, loginCmd, logoutCmd, statsCmd, resetCmd)
}

// applyFlags lets explicitly set flags override environment config.
func applyFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Changed("state") {
		cfg.StatePath = statePath
	}
	if flags.Changed("api-key") {
		cfg.APIKey = apiKey
	}
	if flags.Changed("model") {
		cfg.Model = modelName
	}
	if flags.Changed("ai-timeout") {
		d, err := parsePositiveDuration(aiTimeout)
		if err != nil {
			return fmt.Errorf("--ai-timeout: %w", err)
		}
		cfg.AITimeout = d
	}
	if flags.Changed("concurrency") {
		if batchLimit <= 0 {
			return fmt.Errorf("--concurrency must be positive")
		}
		cfg.BatchLimit = batchLimit
	}
	if flags.Changed("whois") {
		cfg.WhoisEnrich = whois
	}
	return nil
}

func newPipeline() *vetting.Pipeline {
	classifier := ai.NewClassifier(ai.Options{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: cfg.AITimeout,
		Logger:  logger,
	})
	if !classifier.Enabled() {
		logger.Info("no OPENROUTER_API_KEY, running in rule-based mode")
	}
	return vetting.NewPipeline(st, classifier, logger)
}

func newEnricher() *vetting.WhoisEnricher {
	if !cfg.WhoisEnrich {
		return nil
	}
	return vetting.NewWhoisEnricher(logger)
}
