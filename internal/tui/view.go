package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/khelfun/vicjack/internal/deck"
	"github.com/khelfun/vicjack/internal/game"
)

// View renders the table
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	tableWidth := m.width - 2
	if m.chat != nil {
		tableWidth = m.width - 46
	}
	if tableWidth < 40 {
		tableWidth = 40
	}

	m.logViewport.Width = tableWidth - 2
	m.logViewport.Height = 6
	table := m.renderTable()

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(tableWidth).
		Padding(0, 1)
	if m.focusedPane == 0 {
		tableStyle = tableStyle.BorderForeground(lipgloss.Color("#FFD700"))
	}
	tablePane := tableStyle.Render(table)

	if m.chat == nil {
		return tablePane
	}

	chatPane := m.renderChatPane(lipgloss.Height(tablePane))
	return lipgloss.JoinHorizontal(lipgloss.Top, tablePane, chatPane)
}

func (m *Model) renderTable() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(" VICJACK "))
	b.WriteString("  ")
	b.WriteString(MoneyStyle.Render(fmt.Sprintf("Balance: $%.0f", m.session.Balance())))
	b.WriteString(HelpStyle.Render(fmt.Sprintf("  shoe: %d cards", m.session.ShoeRemaining())))
	b.WriteString("\n\n")

	// Vic's speech bubble
	if m.dealerThinking {
		b.WriteString(DealerSpeechStyle.Render("Vic is thinking..."))
	} else {
		b.WriteString(DealerSpeechStyle.Render("Vic: " + m.dealerLine))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderDealerRow())
	b.WriteString("\n")
	b.WriteString(m.renderPlayerRows())
	b.WriteString("\n")
	b.WriteString(m.renderBets())
	b.WriteString("\n")

	if m.errLine != "" {
		b.WriteString(LossStyle.Render(m.errLine))
		b.WriteString("\n")
	}

	b.WriteString(m.renderActions())
	b.WriteString("\n\n")
	b.WriteString(HelpStyle.Render("── table log ──"))
	b.WriteString("\n")
	b.WriteString(m.logViewport.View())
	return b.String()
}

func (m *Model) renderDealerRow() string {
	hand := m.session.DealerHand()
	visible := hand
	if m.dealing {
		n := m.dealtSoFar / 2
		if n > len(hand) {
			n = len(hand)
		}
		visible = hand[:n]
	}

	score := ""
	if !m.dealing && len(visible) > 0 {
		score = fmt.Sprintf(" (%d)", game.Score(visible))
	}
	return LabelStyle.Render("Dealer: ") + m.formatCards(visible) + score
}

func (m *Model) renderPlayerRows() string {
	hands := m.session.PlayerHands()
	results := m.session.Results()
	metadata := m.session.Metadata()
	active := m.session.ActiveHandIndex()
	state := m.session.State()

	if len(hands) == 0 {
		return LabelStyle.Render("You:    ") + HelpStyle.Render("place a bet to begin")
	}

	var rows []string
	for i, hand := range hands {
		visible := hand
		if m.dealing {
			n := (m.dealtSoFar + 1) / 2
			if n > len(hand) {
				n = len(hand)
			}
			visible = hand[:n]
		}

		label := "You:    "
		if len(hands) > 1 {
			label = fmt.Sprintf("Hand %d: ", i+1)
		}

		row := LabelStyle.Render(label) + m.formatCards(visible)
		if !m.dealing && len(visible) > 0 {
			row += fmt.Sprintf(" (%d)", game.Score(visible))
		}
		if i < len(metadata) && metadata[i].IsDoubled {
			row += ActionsStyle.Render(" [doubled]")
		}
		if state == game.Playing && len(hands) > 1 && i == active {
			row += ActionsStyle.Render(" ◀")
		}
		if i < len(results) && results[i].Terminal() {
			row += " " + m.formatResult(results[i])
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

func (m *Model) formatResult(r game.Result) string {
	switch r {
	case game.ResultPlayerWin, game.ResultBlackjack:
		return WinStyle.Render(r.String())
	case game.ResultPush:
		return PushStyle.Render(r.String())
	default:
		return LossStyle.Render(r.String())
	}
}

func (m *Model) renderBets() string {
	var parts []string
	parts = append(parts, MoneyStyle.Render(fmt.Sprintf("Bet: $%.0f", m.session.CurrentBet())))
	if pp := m.session.PerfectPairsBet(); pp > 0 {
		parts = append(parts, MoneyStyle.Render(fmt.Sprintf("Pairs: $%.0f", pp)))
	}
	if r := m.session.TwentyOnePlusThreeBet(); r > 0 {
		parts = append(parts, MoneyStyle.Render(fmt.Sprintf("21+3: $%.0f", r)))
	}
	if ins := m.session.InsuranceBet(); ins > 0 {
		parts = append(parts, MoneyStyle.Render(fmt.Sprintf("Insurance: $%.0f", ins)))
	}
	return strings.Join(parts, "  ")
}

func (m *Model) renderActions() string {
	if m.dealing {
		return HelpStyle.Render("Dealing...")
	}

	var line string
	switch m.session.State() {
	case game.Betting:
		var chips []string
		for i, chip := range m.chips {
			label := fmt.Sprintf("[%d] $%d", i+1, chip)
			if i == m.chipIndex {
				label = ActionsStyle.Render(label)
			} else {
				label = HelpStyle.Render(label)
			}
			chips = append(chips, label)
		}
		line = strings.Join(chips, " ") + "\n" +
			ActionsStyle.Render("number add chip • [p]airs • [t] 21+3 • [c]lear • enter deal")
	case game.Insurance:
		line = ActionsStyle.Render("Insurance? [y]es • [n]o")
	case game.Playing:
		line = ActionsStyle.Render("[h]it • [s]tand • [d]ouble • s[p]lit • surrende[r]")
	case game.GameOver:
		line = ActionsStyle.Render("[n]ew round")
	default:
		line = HelpStyle.Render("...")
	}

	help := "Ctrl+C to quit"
	if m.chat != nil {
		help = "Tab to chat • " + help
	}
	return line + "\n" + HelpStyle.Render(help)
}

func (m *Model) renderChatPane(height int) string {
	m.chatViewport.Width = 40
	m.chatViewport.Height = height - 5
	if m.chatViewport.Height < 3 {
		m.chatViewport.Height = 3
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(42).
		Padding(0, 1)
	if m.focusedPane == 1 {
		style = style.BorderForeground(lipgloss.Color("#FFD700"))
	}

	content := LabelStyle.Render("Chat with Vic") + "\n" +
		m.chatViewport.View() + "\n" +
		m.chatInput.View()
	return style.Render(content)
}

func (m *Model) formatCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return HelpStyle.Render("--")
	}

	var formatted []string
	for _, card := range cards {
		switch {
		case card.Hidden:
			formatted = append(formatted, HiddenCardStyle.Render(card.String()))
		case card.IsRed():
			formatted = append(formatted, RedCardStyle.Render(card.String()))
		default:
			formatted = append(formatted, BlackCardStyle.Render(card.String()))
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}
