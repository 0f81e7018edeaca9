package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"courselens/internal/intent"
	"courselens/internal/llm"
	"courselens/internal/metrics"
	"courselens/internal/model"
	"courselens/internal/store"
)

var rulesOnly bool

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a numeric metric question in natural language",
	Long: `Ask resolves a natural-language question to one of the cataloged
metrics and executes it against the course database.

The LLM parser runs first when LLAMA_API_BASE and LLAMA_API_KEY are set,
handling fuzzy phrasing and module/assessment names; the deterministic rule
catalog is the fallback. With --rules-only the LLM is never consulted.

Example:
  courselens ask "How many students completed module 2?"
  courselens ask "What is the average rating for module Foundations?"
  courselens ask --rules-only "How many students are enrolled?"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().BoolVar(&rulesOnly, "rules-only", false, "disable the LLM parser; use the rule catalog only")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]
	ctx := context.Background()

	registry, err := metrics.Load(viper.GetString("metrics"))
	if err != nil {
		return err
	}
	db := store.New(viper.GetString("db"))

	// The LLM capability is decided exactly once, here: a nil provider
	// means the resolver never attempts a network call.
	var provider llm.Provider
	if !rulesOnly {
		provider, err = buildProvider()
		if err != nil {
			return err
		}
	}

	if verbose {
		if provider != nil {
			fmt.Fprintf(os.Stderr, "LLM parser: enabled (%s)\n", provider.Name())
		} else {
			fmt.Fprintln(os.Stderr, "LLM parser: disabled")
		}
	}

	resolver := intent.NewResolver(provider, registry, db, verbose)
	in := resolver.Resolve(ctx, question)
	if in == nil {
		fmt.Fprintln(os.Stderr, "Could not understand the question.")
		fmt.Fprintln(os.Stderr, "Tips:")
		fmt.Fprintln(os.Stderr, "  - Try including IDs like 'module 2' or names like 'module Foundations of Education'")
		fmt.Fprintln(os.Stderr, "  - Use --rules-only to bypass the LLM if your endpoint isn't configured")
		os.Exit(2)
	}

	query, bound, err := registry.Render(in.Metric, in.Params)
	if err != nil {
		return err
	}

	value, ok, err := db.QueryScalar(ctx, query, bound)
	if err != nil {
		return err
	}
	if !ok || value == nil {
		fmt.Fprintln(os.Stderr, "No result.")
		os.Exit(1)
	}

	fmt.Println(value)

	resolved, err := json.MarshalIndent(intent.Intent{Metric: in.Metric, Params: bound}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode resolved intent: %w", err)
	}
	fmt.Fprintln(os.Stderr, string(resolved))
	return nil
}

// buildProvider resolves the LLM configuration from config file, COURSELENS_*
// settings, and LLAMA_* environment variables. Returns nil when the
// collaborator is unconfigured.
func buildProvider() (llm.Provider, error) {
	cfg := model.DefaultConfig().LLM
	if v := viper.GetString("llm.base_url"); v != "" {
		cfg.BaseURL = v
	}
	if v := viper.GetString("llm.api_key"); v != "" {
		cfg.APIKey = v
	}
	if v := viper.GetString("llm.model"); v != "" {
		cfg.Model = v
	}
	if v := viper.GetInt("llm.timeout"); v > 0 {
		cfg.Timeout = v
	}
	if v := viper.GetFloat64("llm.requests_per_second"); v > 0 {
		cfg.RequestsPerSecond = v
	}

	return llm.NewProvider(llm.ConfigFromEnv(llm.ConfigFromModel(cfg)))
}
