package dealerai

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
)

// ChatBackend runs multi-turn completions for the chat widget.
// Implemented by *Client.
type ChatBackend interface {
	ChatCompletion(ctx context.Context, messages []Message) (string, error)
}

const chatSystemPrompt = Persona + `
If the user asks about the game rules, explain them briefly. If they flirt, flirt back but keep it professional-ish. Keep answers relatively short to fit in a chat bubble.`

// ChatSession is Vic's free-form chat, fully decoupled from game state.
// History accumulates across turns; any backend failure yields a fixed
// apology and resets the session so it cannot get stuck.
type ChatSession struct {
	backend ChatBackend
	logger  *log.Logger

	mu      sync.Mutex
	history []Message
}

// NewChatSession creates a chat session with the persona installed
func NewChatSession(backend ChatBackend, logger *log.Logger) *ChatSession {
	s := &ChatSession{
		backend: backend,
		logger:  logger.WithPrefix("chat"),
	}
	s.reset()
	return s
}

func (s *ChatSession) reset() {
	s.history = []Message{{Role: "system", Content: chatSystemPrompt}}
}

// Send submits a user message and returns Vic's reply. Failures never
// propagate: the caller always gets a displayable line.
func (s *ChatSession) Send(ctx context.Context, message string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, Message{Role: "user", Content: message})

	reply, err := s.backend.ChatCompletion(ctx, s.history)
	if err != nil {
		s.logger.Debug("chat request failed, resetting session", "error", err)
		s.reset()
		return ChatApology
	}
	if reply == "" {
		return ChatBusy
	}

	s.history = append(s.history, Message{Role: "assistant", Content: reply})
	return reply
}
