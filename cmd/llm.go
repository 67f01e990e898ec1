package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AKakshat1729/AGI-119/internal/llm"
	"github.com/AKakshat1729/AGI-119/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded LLM calls made for insights",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		since, _ := cmd.Flags().GetDuration("since")
		failed, _ := cmd.Flags().GetBool("failed")

		opts := store.QueryOpts{Limit: limit, Purpose: purpose}
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}
		return withEvents(cmd, func(events store.EventRepo) error {
			list, err := events.QueryLLMEvents(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("query llm events: %w", err)
			}
			if failed {
				list = onlyFailed(list)
			}
			writeEventTable(cmd.OutOrStdout(), list)
			return nil
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one LLM call with its request and response bodies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}
		return withEvents(cmd, func(events store.EventRepo) error {
			ev, err := events.GetLLMEvent(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get llm event: %w", err)
			}
			if ev == nil {
				return fmt.Errorf("llm event %d not found", id)
			}
			writeEvent(cmd.OutOrStdout(), ev)
			return nil
		})
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage per purpose and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEvents(cmd, func(events store.EventRepo) error {
			byPurpose, err := events.LLMUsageByPurpose(cmd.Context())
			if err != nil {
				return fmt.Errorf("usage by purpose: %w", err)
			}
			byModel, err := events.LLMUsageByModel(cmd.Context())
			if err != nil {
				return fmt.Errorf("usage by model: %w", err)
			}

			w := cmd.OutOrStdout()
			if len(byPurpose) == 0 {
				fmt.Fprintln(w, "No LLM usage recorded yet.")
				return nil
			}
			writePurposeUsage(w, byPurpose)
			fmt.Fprintln(w)
			writeModelCost(w, byModel)
			return nil
		})
	},
}

func withEvents(cmd *cobra.Command, fn func(store.EventRepo) error) error {
	app, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app.store.EventRepo())
}

func onlyFailed(events []store.LLMEvent) []store.LLMEvent {
	out := events[:0]
	for _, ev := range events {
		if !ev.Success {
			out = append(out, ev)
		}
	}
	return out
}

func writeEventTable(w io.Writer, events []store.LLMEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No LLM events found.")
		return
	}
	fmt.Fprintf(w, "%-5s  %-19s  %-10s  %-10s  %-26s  %6s  %6s  %7s  %s\n",
		"ID", "Timestamp", "Purpose", "Provider", "Model", "In", "Out", "Ms", "OK")
	rule(w, 108)
	for _, ev := range events {
		status := "ok"
		if !ev.Success {
			status = "FAIL"
		}
		fmt.Fprintf(w, "%-5d  %-19s  %-10s  %-10s  %-26s  %6d  %6d  %7d  %s\n",
			ev.ID,
			ev.Timestamp.Local().Format(timeLayout),
			truncate(ev.Purpose, 10),
			truncate(ev.Provider, 10),
			truncate(ev.Model, 26),
			ev.InputTokens,
			ev.OutputTokens,
			ev.LatencyMs,
			status,
		)
	}
}

func writeEvent(w io.Writer, ev *store.LLMEvent) {
	fields := [][2]string{
		{"ID", strconv.Itoa(ev.ID)},
		{"Time", ev.Timestamp.Local().Format(timeLayout)},
		{"Provider", ev.Provider},
		{"Model", ev.Model},
		{"Purpose", ev.Purpose},
		{"Tokens", fmt.Sprintf("%d in / %d out", ev.InputTokens, ev.OutputTokens)},
		{"Latency", fmt.Sprintf("%dms", ev.LatencyMs)},
		{"Success", strconv.FormatBool(ev.Success)},
	}
	if cost, ok := llm.EstimateCost(ev.Model, ev.InputTokens, ev.OutputTokens); ok {
		fields = append(fields, [2]string{"Cost", formatCost(cost)})
	}
	if ev.ErrorMessage != "" {
		fields = append(fields, [2]string{"Error", ev.ErrorMessage})
	}
	for _, f := range fields {
		fmt.Fprintf(w, "%-10s %s\n", f[0]+":", f[1])
	}

	for _, body := range []struct{ title, text string }{
		{"REQUEST", ev.RequestBody},
		{"RESPONSE", ev.ResponseBody},
	} {
		fmt.Fprintln(w)
		fmt.Fprintln(w, body.title)
		rule(w, 60)
		if body.text == "" {
			fmt.Fprintln(w, "(not captured)")
			continue
		}
		fmt.Fprintln(w, body.text)
	}
}

func writePurposeUsage(w io.Writer, usage []store.PurposeUsage) {
	fmt.Fprintln(w, "Usage by purpose")
	rule(w, 72)
	fmt.Fprintf(w, "%-16s  %6s  %10s  %10s  %10s  %8s\n", "Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
	rule(w, 72)

	var calls, in, out int
	for _, u := range usage {
		fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d  %8d\n",
			truncate(u.Purpose, 16), u.Calls, u.InputTokens, u.OutputTokens, u.InputTokens+u.OutputTokens, u.AvgLatencyMs)
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
	}
	rule(w, 72)
	fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d\n", "TOTAL", calls, in, out, in+out)
}

func writeModelCost(w io.Writer, usage []store.ModelUsage) {
	fmt.Fprintln(w, "Estimated cost (USD)")
	rule(w, 72)
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %9s\n", "Model", "Calls", "Input", "Output", "Cost")
	rule(w, 72)

	var total float64
	var unpriced []string
	for _, u := range usage {
		cost := "?"
		if c, ok := llm.EstimateCost(u.Model, u.InputTokens, u.OutputTokens); ok {
			total += c
			cost = formatCost(c)
		} else {
			unpriced = append(unpriced, u.Model)
		}
		fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %9s\n", truncate(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens, cost)
	}
	rule(w, 72)

	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %9s\n", label, "", "", "", formatCost(total))
	if len(unpriced) > 0 {
		fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unpriced, ", "))
	}
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. insight)")
	llmListCmd.Flags().Duration("since", 0, "Only show events newer than this (e.g. 24h)")
	llmListCmd.Flags().Bool("failed", false, "Only show failed calls")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
