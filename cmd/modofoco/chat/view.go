package chat

import (
	"fmt"
	"strings"
)

// View renders the screen.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(m.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n")
	sb.WriteString(m.renderFooter())
	return sb.String()
}

func (m Model) renderHeader() string {
	title := m.styles.Header.Render("ModoFoco · Falcon")
	badge := m.styles.Badge.Render(fmt.Sprintf("%d FP", m.sessionPoints))
	return title + " " + badge
}

func (m Model) renderFooter() string {
	status := "Enter envia · Esc sai"
	if m.busy {
		status = "Falcon está pensando..."
	}
	return m.styles.Footer.Render(status)
}

func (m Model) renderHistory() string {
	var sb strings.Builder
	for _, msg := range m.history {
		switch msg.Role {
		case "user":
			sb.WriteString(m.styles.Bold.Foreground(m.styles.Theme.Primary).Render("Você") + "\n")
			sb.WriteString(m.styles.UserInput.Render(msg.Content))
			sb.WriteString("\n\n")
		default:
			label := m.styles.Bold.Foreground(m.styles.Theme.Accent).Render("Falcon")
			if msg.Points > 0 {
				label += " " + m.styles.Success.Render(fmt.Sprintf("+%d FP", msg.Points))
			}
			sb.WriteString(label + "\n")
			body := m.styles.AgentResponse.Render(msg.Content)
			if msg.Failed {
				body = m.styles.Error.Render(msg.Content)
			}
			sb.WriteString(body)
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
