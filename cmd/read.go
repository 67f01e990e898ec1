package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AKakshat1729/AGI-119/internal/clinical"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard <user-id>",
	Short: "Show a user's dashboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		return withEngine(cmd, func(engine *clinical.Engine) error {
			dash := engine.GetDashboardData(cmd.Context(), args[0])
			if asJSON {
				return printJSON(cmd.OutOrStdout(), dash)
			}
			if !dash.Success {
				return fmt.Errorf("dashboard: %s", dash.Error)
			}
			printDashboard(cmd.OutOrStdout(), dash)
			return nil
		})
	},
}

var reportCmd = &cobra.Command{
	Use:   "report <user-id>",
	Short: "Print a user's medical report as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(engine *clinical.Engine) error {
			return printJSON(cmd.OutOrStdout(), engine.GetMedicalReport(cmd.Context(), args[0]))
		})
	},
}

var alertsCmd = &cobra.Command{
	Use:   "alerts <user-id>",
	Short: "List a user's risk alerts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		return withEngine(cmd, func(engine *clinical.Engine) error {
			res := engine.GetRiskAlerts(cmd.Context(), args[0])
			if asJSON {
				return printJSON(cmd.OutOrStdout(), res)
			}
			if !res.Success {
				return fmt.Errorf("risk alerts: %s", res.Error)
			}
			w := cmd.OutOrStdout()
			if res.Count == 0 {
				fmt.Fprintln(w, "No risk alerts.")
				return nil
			}
			fmt.Fprintf(w, "%-19s  %-8s  %-24s  %s\n", "Timestamp", "Severity", "Session", "Categories")
			rule(w, 80)
			for _, a := range res.RiskAlerts {
				fmt.Fprintf(w, "%-19s  %-8s  %-24s  %s\n",
					a.Timestamp.Local().Format("2006-01-02 15:04:05"),
					a.Severity,
					truncate(a.SessionID, 24),
					strings.Join(a.Categories, ", "),
				)
			}
			return nil
		})
	},
}

func withEngine(cmd *cobra.Command, fn func(*clinical.Engine) error) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	engine := e.engine()
	defer engine.Close()
	return fn(engine)
}

func printDashboard(w io.Writer, d *clinical.Dashboard) {
	fmt.Fprintf(w, "User:              %s\n", d.UserID)
	fmt.Fprintf(w, "Sessions:          %d\n", d.TotalSessions)
	fmt.Fprintf(w, "Progress score:    %+.4f\n", d.TherapyProgressScore)
	fmt.Fprintf(w, "Mood stability:    %.4f\n", d.MoodStabilityIndex)
	fmt.Fprintf(w, "Volatility:        %.4f\n", d.EmotionalVolatility)
	fmt.Fprintf(w, "Negative share:    %.0f%%\n", d.DominantNegativePct*100)
	fmt.Fprintf(w, "Trend:             %s\n", d.TrendDirection)
	fmt.Fprintf(w, "Dominant stressor: %s\n", d.DominantStressor)
	fmt.Fprintf(w, "Risk alerts:       %d\n", len(d.RiskAlerts))

	if len(d.TopicFrequency) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Topics")
		rule(w, 32)
		for _, tc := range d.TopicFrequency {
			fmt.Fprintf(w, "%-26s  %4d\n", tc.Theme, tc.Count)
		}
	}
	if len(d.AnxietyTrend) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Anxiety trend (raw / smoothed)")
		rule(w, 32)
		for i, p := range d.AnxietyTrend {
			fmt.Fprintf(w, "%-10s  %6.4f  %6.4f\n", p.Date, p.Score, d.SmoothedAnxietyTrend[i].Score)
		}
	}
}

func init() {
	dashboardCmd.Flags().Bool("json", false, "Print the full payload as JSON")
	alertsCmd.Flags().Bool("json", false, "Print the full payload as JSON")
}
