package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"courselens/internal/feedback"
	"courselens/internal/store"
)

// feedbackCmd represents the feedback command
var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Aggregate and summarize student feedback",
	Long: `Feedback reports combine quantitative rating aggregation with raw
comments, and add a structured LLM summary (themes, praise, issues,
suggestions) when LLAMA_API_BASE and LLAMA_API_KEY are set.`,
}

var feedbackModuleCmd = &cobra.Command{
	Use:   "module <module-id>",
	Short: "Feedback report for one module",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		moduleID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid module id %q", args[0])
		}

		reporter, err := buildReporter()
		if err != nil {
			return err
		}
		report, err := reporter.ModuleReport(context.Background(), moduleID)
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

var feedbackCourseCmd = &cobra.Command{
	Use:   "course",
	Short: "Feedback reports for every module with completions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reporter, err := buildReporter()
		if err != nil {
			return err
		}
		reports, err := reporter.CourseReport(context.Background())
		if err != nil {
			return err
		}
		return printJSON(reports)
	},
}

func init() {
	rootCmd.AddCommand(feedbackCmd)
	feedbackCmd.AddCommand(feedbackModuleCmd)
	feedbackCmd.AddCommand(feedbackCourseCmd)
}

func buildReporter() (*feedback.Reporter, error) {
	provider, err := buildProvider()
	if err != nil {
		return nil, err
	}
	if verbose && provider == nil {
		fmt.Fprintln(os.Stderr, "LLM summarization: disabled")
	}
	return feedback.NewReporter(store.New(viper.GetString("db")), provider), nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
