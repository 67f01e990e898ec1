package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Analyse and store one session transcript",
	Long: "Reads a transcript from file (or stdin when omitted or \"-\"), runs the full\n" +
		"pipeline synchronously and prints the stored record.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")
		sessionID, _ := cmd.Flags().GetString("session")
		messages, _ := cmd.Flags().GetInt("messages")

		transcript, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		engine := e.engine()
		defer engine.Close()

		out, err := engine.ProcessSession(cmd.Context(), userID, sessionID, transcript, messages)
		if err != nil {
			return fmt.Errorf("process session: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), out)
	},
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", fmt.Errorf("open transcript: %w", err)
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func init() {
	ingestCmd.Flags().StringP("user", "u", "", "User ID")
	ingestCmd.Flags().StringP("session", "s", "", "Session ID")
	ingestCmd.Flags().IntP("messages", "m", 0, "Number of messages in the session")
	_ = ingestCmd.MarkFlagRequired("user")
	_ = ingestCmd.MarkFlagRequired("session")
}
