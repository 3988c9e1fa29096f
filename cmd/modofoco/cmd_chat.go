package main

import (
	"fmt"

	"modofoco/cmd/modofoco/chat"
	"modofoco/cmd/modofoco/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// chatCmd starts the interactive chat
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with Falcon interactively",
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	model := chat.New(a.brain, a.brain.UserID(), ui.DefaultStyles())
	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	if m, ok := final.(chat.Model); ok && m.SessionPoints() > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), a.sessionSummary(m.SessionPoints()))
	}
	return nil
}
