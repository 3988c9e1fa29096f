package main

import (
	"encoding/json"
	"strings"

	"modofoco/internal/perception"

	"github.com/spf13/cobra"
)

// parseCmd shows how a message is classified without executing it
var parseCmd = &cobra.Command{
	Use:   "parse [message]",
	Short: "Print the parsed command for a message without executing it",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	parsed := perception.Parse(strings.Join(args, " "))
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(parsed)
}
