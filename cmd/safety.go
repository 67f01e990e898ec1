package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/AKakshat1729/AGI-119/internal/safety"
)

var safetyCmd = &cobra.Command{
	Use:   "safety [text...]",
	Short: "Check text for risk indicators",
	Long:  "Runs the safety check on the arguments, or on stdin when none are given. Nothing is stored.",
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if len(args) == 0 {
			var err error
			if text, err = readInput(cmd, nil); err != nil {
				return err
			}
		}
		var m safety.Module
		return printJSON(cmd.OutOrStdout(), m.Analyze(text))
	},
}
