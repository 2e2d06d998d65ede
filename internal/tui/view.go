package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/diogo/lawchat/internal/models"
	"github.com/diogo/lawchat/internal/render"
)

const (
	appTitle   = "⚖ Legal Chat"
	panelTitle = "Recent questions"
	botName    = "Lawbot"
	userName   = "You"
)

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.viewport.Width + 2

	header := headerStyle.Width(contentWidth).Render(
		lipgloss.JoinHorizontal(lipgloss.Center,
			titleStyle.Render(appTitle),
			hintStyle.Render("  •  "),
			subtitleStyle.Render(models.AnswerEndpoint),
		),
	)

	messages := messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(m.viewport.View())

	input := inputPanelStyle.Width(contentWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.renderInputLabel(),
			m.textarea.View(),
		),
	)

	body := lipgloss.JoinVertical(lipgloss.Left,
		header,
		messages,
		input,
		m.renderStatusBar(),
	)

	return m.overlayPanel(body)
}

// renderInputLabel shows the send state: a spinner replaces the label while
// a request is outstanding.
func (m Model) renderInputLabel() string {
	if m.ctrl.InFlight() {
		return m.spinner.View() + loadingStyle.Render(" "+models.PendingText) +
			hintStyle.Render("  (send disabled)")
	}
	return inputLabelStyle.Render("Question")
}

func (m Model) renderStatusBar() string {
	if m.notice != "" {
		return statusBarStyle.Render(noticeStyle.Render(m.notice))
	}
	return statusBarStyle.Render(m.help.View(m.keys))
}

// renderMessages lays out the conversation: bot messages on the left, user
// messages right-aligned.
func (m Model) renderMessages(width int) string {
	bubbleWidth := width * 3 / 4
	if bubbleWidth < 10 {
		bubbleWidth = width
	}

	var content strings.Builder
	for i, msg := range m.ctrl.State().Messages {
		if i > 0 {
			content.WriteString("\n\n")
		}
		content.WriteString(m.renderMessage(msg, width, bubbleWidth))
	}
	return content.String()
}

func (m Model) renderMessage(msg models.Message, width, bubbleWidth int) string {
	switch {
	case msg.IsPending():
		return botLabelStyle.Render(botName) + "\n" + pendingStyle.Render(msg.Text)

	case msg.IsUser():
		textWidth := lipgloss.Width(msg.Text) + 2
		if textWidth > bubbleWidth {
			textWidth = bubbleWidth
		}
		bubble := userBubbleStyle.Width(textWidth).Render(msg.Text)
		block := lipgloss.JoinVertical(lipgloss.Right, userLabelStyle.Render(userName), bubble)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)

	default:
		rendered := m.renderAnswer(msg.Text, bubbleWidth-4)
		return botLabelStyle.Render(botName) + "\n" + botBubbleStyle.Render(rendered)
	}
}

func (m Model) renderAnswer(text string, width int) string {
	opts := m.renderOpts
	if width > 0 {
		opts = opts.WithWidth(width)
	}
	return render.Answer(text, opts)
}

// overlayPanel draws the side panel over the right part of body, starting
// at the panel's current offset.
func (m Model) overlayPanel(body string) string {
	if !m.panel.Visible() {
		return body
	}
	offset := m.panel.Offset()
	width := m.panel.Width()
	if width <= 0 {
		return body
	}

	lines := strings.Split(body, "\n")
	panelLines := strings.Split(m.renderPanel(width, len(lines)), "\n")

	for i, line := range lines {
		left := ansi.Truncate(line, offset, "")
		if pad := offset - ansi.StringWidth(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		right := strings.Repeat(" ", width)
		if i < len(panelLines) {
			right = panelLines[i]
		}
		lines[i] = left + right
	}
	return strings.Join(lines, "\n")
}

// renderPanel renders the list of past questions into a width x height block
func (m Model) renderPanel(width, height int) string {
	inner := width - 3 // left border plus padding
	if inner < 1 {
		inner = 1
	}

	var content strings.Builder
	content.WriteString(panelTitleStyle.Render(panelTitle))
	content.WriteString("\n")
	content.WriteString(panelEmptyStyle.Render("esc to close"))
	content.WriteString("\n\n")

	questions := m.ctrl.Questions()
	if len(questions) == 0 {
		content.WriteString(panelEmptyStyle.Render(models.NoQuestionsText))
	}
	for i, q := range questions {
		if i > 0 {
			content.WriteString("\n")
		}
		index := fmt.Sprintf("%d. ", i+1)
		text := strings.ReplaceAll(q, "\n", " ")
		maxLen := inner - len(index)
		if maxLen < 1 {
			maxLen = 1
		}
		text = ansi.Truncate(text, maxLen, "…")
		content.WriteString(panelIndexStyle.Render(index) + panelItemStyle.Render(text))
	}

	styleWidth := width - 1
	if styleWidth < 0 {
		styleWidth = 0
	}
	rendered := panelStyle.Width(styleWidth).Height(height).Render(content.String())

	// The panel is narrower than its padding early in the slide
	out := strings.Split(rendered, "\n")
	for i, line := range out {
		line = ansi.Truncate(line, width, "")
		if pad := width - ansi.StringWidth(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		out[i] = line
	}
	return strings.Join(out, "\n")
}
