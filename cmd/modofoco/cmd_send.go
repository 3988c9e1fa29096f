package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	sendJSON    bool
	sendTimeout time.Duration
)

// sendCmd runs one message through the assistant
var sendCmd = &cobra.Command{
	Use:   "send [message]",
	Short: "Send one message to Falcon and print the reply",
	Long: `Parses the message, executes it and prints Falcon's reply.

Example:
  modofoco send Registrar corrida 5km 28min`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func init() {
	sendCmd.Flags().BoolVar(&sendJSON, "json", false, "Print the reply as JSON")
	sendCmd.Flags().DurationVar(&sendTimeout, "timeout", 30*time.Second, "Operation timeout")
}

func runSend(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	reply := a.brain.ProcessMessage(ctx, strings.Join(args, " "))
	if sendJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(reply)
	}
	fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
	return nil
}
