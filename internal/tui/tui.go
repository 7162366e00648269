// Package tui is the interactive table: a Bubble Tea model over a game
// session, with dealer commentary and a chat widget alongside the felt.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/khelfun/vicjack/internal/dealerai"
	"github.com/khelfun/vicjack/internal/game"
)

// Config wires the table UI to its collaborators. Commentator updates
// arrive on Updates; the channel is created by the caller so it can be
// handed to the commentator first.
type Config struct {
	Session     *game.Session
	Commentator *dealerai.Commentator
	Chat        *dealerai.ChatSession
	Updates     <-chan dealerai.Update
	Chips       []int
	DealPace    time.Duration
	Logger      *log.Logger
}

// Model is the Bubble Tea model for the blackjack table
type Model struct {
	session     *game.Session
	commentator *dealerai.Commentator
	chat        *dealerai.ChatSession
	updates     <-chan dealerai.Update
	logger      *log.Logger

	chips    []int
	dealPace time.Duration

	// UI components
	logViewport  viewport.Model
	chatViewport viewport.Model
	chatInput    textinput.Model

	gameLog        []string
	chatLog        []string
	errLine        string
	dealerLine     string
	dealerThinking bool

	chipIndex   int
	focusedPane int // 0 = table, 1 = chat

	// Opening deal animation: cards already on the table stay hidden
	// until their tick reveals them.
	dealing    bool
	dealtSoFar int

	width    int
	height   int
	quitting bool
}

type commentMsg dealerai.Update

type chatReplyMsg struct {
	reply string
}

type dealTickMsg struct{}

// New creates the table model
func New(cfg Config) *Model {
	vp := viewport.New(10, 5)
	cvp := viewport.New(10, 5)

	ti := textinput.New()
	ti.Placeholder = "Say something to Vic..."
	ti.CharLimit = 200
	ti.Width = 40
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)

	chips := cfg.Chips
	if len(chips) == 0 {
		chips = []int{5, 25, 100, 500}
	}

	m := &Model{
		session:     cfg.Session,
		commentator: cfg.Commentator,
		chat:        cfg.Chat,
		updates:     cfg.Updates,
		logger:      cfg.Logger.WithPrefix("tui"),
		chips:        chips,
		dealPace:     cfg.DealPace,
		logViewport:  vp,
		chatViewport: cvp,
		chatInput:    ti,
		dealerLine:   cfg.Commentator.Message(),
	}

	cfg.Session.EventBus().Subscribe(m)
	return m
}

// OnEvent records session events in the table log. The bus is
// synchronous, so this runs inside the Update that triggered it.
func (m *Model) OnEvent(event game.Event) {
	switch e := event.(type) {
	case game.CardDealtEvent:
		seat := "player"
		if e.Seat == game.SeatDealer {
			seat = "dealer"
		}
		m.addLog(fmt.Sprintf("Dealt %s to %s", e.Card, seat))
	case game.ShoeShuffledEvent:
		m.addLog(fmt.Sprintf("Shoe reshuffled, %d cards", e.Remaining))
	case game.SideBetsSettledEvent:
		for _, s := range e.Settlements {
			m.addLog(fmt.Sprintf("%s: %s pays $%.0f", s.Kind, s.Outcome.Label, s.Payout))
		}
	case game.RoundSettledEvent:
		m.addLog(fmt.Sprintf("Round over, paid $%.0f (balance $%.0f)", e.Payout, e.Balance))
	}
}

func (m *Model) addLog(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 {
		m.logViewport.GotoBottom()
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.listenForComments())
}

func (m *Model) listenForComments() tea.Cmd {
	return func() tea.Msg {
		return commentMsg(<-m.updates)
	}
}

func (m *Model) dealTick() tea.Cmd {
	return tea.Tick(m.dealPace, func(time.Time) tea.Msg {
		return dealTickMsg{}
	})
}

func (m *Model) snapshot(action *game.Action) dealerai.Snapshot {
	return dealerai.Snapshot{
		State:       m.session.State(),
		Results:     m.session.Results(),
		PlayerHands: m.session.PlayerHands(),
		DealerHand:  m.session.DealerHand(),
		CurrentBet:  m.session.CurrentBet(),
		Balance:     m.session.Balance(),
		Action:      action,
	}
}

func (m *Model) react(action *game.Action) {
	m.commentator.React(m.snapshot(action))
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case commentMsg:
		m.dealerLine = msg.Message
		m.dealerThinking = msg.Thinking
		cmds = append(cmds, m.listenForComments())

	case chatReplyMsg:
		m.appendChat("Vic: " + msg.reply)

	case dealTickMsg:
		if m.dealing {
			m.dealtSoFar++
			if m.dealtSoFar >= 4 {
				m.dealing = false
				m.onDealComplete()
			} else {
				cmds = append(cmds, m.dealTick())
			}
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "tab":
			if m.chat != nil {
				m.toggleFocus()
			}
		default:
			if m.focusedPane == 1 {
				if msg.String() == "enter" {
					if cmd := m.sendChat(); cmd != nil {
						cmds = append(cmds, cmd)
					}
				}
			} else if !m.dealing {
				cmds = append(cmds, m.handleTableKey(msg.String())...)
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.chatInput, cmd = m.chatInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) toggleFocus() {
	if m.focusedPane == 0 {
		m.focusedPane = 1
		m.chatInput.Focus()
	} else {
		m.focusedPane = 0
		m.chatInput.Blur()
	}
}

func (m *Model) appendChat(line string) {
	m.chatLog = append(m.chatLog, line)
	m.chatViewport.SetContent(strings.Join(m.chatLog, "\n"))
	if m.chatViewport.Height > 0 {
		m.chatViewport.GotoBottom()
	}
}

func (m *Model) sendChat() tea.Cmd {
	text := strings.TrimSpace(m.chatInput.Value())
	if text == "" || m.chat == nil {
		return nil
	}
	m.chatInput.SetValue("")
	m.appendChat("You: " + text)

	chat := m.chat
	return func() tea.Msg {
		return chatReplyMsg{reply: chat.Send(context.Background(), text)}
	}
}

// handleTableKey dispatches a key to the action legal in the current
// state. Rejected actions surface on the error line instead of
// interrupting play.
func (m *Model) handleTableKey(key string) []tea.Cmd {
	m.errLine = ""

	switch m.session.State() {
	case game.Betting:
		return m.handleBettingKey(key)
	case game.Insurance:
		switch key {
		case "y":
			m.doAction(func() error { return m.session.InsuranceDecision(true) }, nil)
		case "n":
			m.doAction(func() error { return m.session.InsuranceDecision(false) }, nil)
		}
	case game.Playing:
		switch key {
		case "h":
			m.doAction(m.session.Hit, nil)
		case "s":
			m.doAction(m.session.Stand, nil)
		case "d":
			m.doAction(m.session.DoubleDown, actionPtr(game.ActionDouble))
		case "p":
			m.doAction(m.session.Split, nil)
		case "r":
			m.doAction(m.session.Surrender, actionPtr(game.ActionSurrender))
		}
	case game.GameOver:
		if key == "n" || key == "enter" {
			if err := m.session.Reset(); err == nil {
				m.commentator.Say("Place your bets.")
			}
		}
	}
	return nil
}

func (m *Model) handleBettingKey(key string) []tea.Cmd {
	switch key {
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(key[0]-'0') - 1
		if idx < len(m.chips) {
			m.chipIndex = idx
			m.placeBet(game.BetMain)
		}
	case "p":
		m.placeBet(game.BetPerfectPairs)
	case "t":
		m.placeBet(game.BetTwentyOnePlusThree)
	case "c":
		if err := m.session.ClearBet(); err != nil {
			m.errLine = err.Error()
		}
	case "enter", "d":
		if err := m.session.Deal(); err != nil {
			m.errLine = err.Error()
			return nil
		}
		m.dealing = true
		m.dealtSoFar = 0
		return []tea.Cmd{m.dealTick()}
	}
	return nil
}

func (m *Model) placeBet(kind game.BetKind) {
	if err := m.session.PlaceBet(kind, float64(m.chips[m.chipIndex])); err != nil {
		m.errLine = err.Error()
	}
}

// doAction runs a session action and, on success, asks Vic to react to
// the new table state.
func (m *Model) doAction(action func() error, announce *game.Action) {
	if err := action(); err != nil {
		m.errLine = err.Error()
		return
	}
	m.react(announce)
}

// onDealComplete fires once the opening deal animation finishes
func (m *Model) onDealComplete() {
	if m.session.State() == game.Insurance {
		m.react(actionPtr(game.ActionInsurance))
		return
	}
	m.react(nil)
}

func actionPtr(a game.Action) *game.Action { return &a }
