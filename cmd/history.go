package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/writetutor/internal/calllog"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded LLM calls and their cost",
	Long:  `Lists the most recent calls from the call log together with aggregate token usage and estimated cost. No API key is needed.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "number of calls to show")
	historyCmd.Flags().Bool("json", false, "output as JSON")
	rootCmd.AddCommand(historyCmd)
}

// historyReport is the JSON shape of the history command.
type historyReport struct {
	Stats *calllog.Stats `json:"stats"`
	Calls []calllog.Call `json:"calls"`
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	if limit < 1 {
		return fmt.Errorf("--limit must be positive, got %d", limit)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	calls, closeCalls, err := openCallLog(cfg)
	if err != nil {
		return err
	}
	defer closeCalls()
	if calls == nil {
		return fmt.Errorf("call recording is disabled in %s (record_calls: false)", cfgFile)
	}

	ctx := context.Background()
	stats, err := calls.Stats(ctx)
	if err != nil {
		return err
	}
	recent, err := calls.Recent(ctx, limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(historyReport{Stats: stats, Calls: recent})
	}
	printHistory(cmd.OutOrStdout(), stats, recent)
	return nil
}

func printHistory(w io.Writer, stats *calllog.Stats, recent []calllog.Call) {
	fmt.Fprintf(w, "Calls: %d (%d analyses, %d explanations, %d failed)\n",
		stats.Total, stats.Analyses, stats.Explanations, stats.Failures)
	fmt.Fprintf(w, "Tokens: %d in / %d out\n", stats.InputTokens, stats.OutputTokens)
	fmt.Fprintf(w, "Estimated cost: $%.4f\n", stats.CostUSD)
	if len(recent) == 0 {
		return
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tKIND\tMODEL\tTOKENS\tLATENCY\tRESULT")
	for _, c := range recent {
		result := "ok"
		if c.Kind == calllog.KindAnalysis {
			result = fmt.Sprintf("%d corrections", c.Corrections)
		}
		if !c.Success {
			result = "error: " + c.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d\t%dms\t%s\n",
			c.Timestamp.Local().Format("2006-01-02 15:04:05"), c.Kind, c.Model,
			c.InputTokens, c.OutputTokens, c.LatencyMs, result)
	}
	tw.Flush()
}
