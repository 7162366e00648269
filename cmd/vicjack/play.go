package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/khelfun/vicjack/cmd/vicjack/shared"
	"github.com/khelfun/vicjack/internal/config"
	"github.com/khelfun/vicjack/internal/dealerai"
	"github.com/khelfun/vicjack/internal/deck"
	"github.com/khelfun/vicjack/internal/game"
	"github.com/khelfun/vicjack/internal/randutil"
	"github.com/khelfun/vicjack/internal/tableid"
	"github.com/khelfun/vicjack/internal/tui"
)

type PlayCmd struct {
	Config  string  `kong:"default='vicjack.hcl',help='Path to the HCL config file'"`
	Balance float64 `kong:"default='0',help='Override the starting balance'"`
	Seed    int64   `kong:"default='0',help='Shoe seed for a reproducible game (0 = random)'"`
	NoAI    bool    `kong:"name='no-ai',help='Disable the AI dealer, use canned table talk only'"`
	Debug   bool    `kong:"help='Enable debug logging'"`
}

func (c *PlayCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logFile, err := shared.OpenLogFile(cfg.Table.LogFile)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	logger := shared.SetupLogger(logFile, cfg.Table.LogLevel, c.Debug).With("table", tableid.Generate())

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("starting table", "seed", seed, "decks", cfg.Table.Decks)

	balance := float64(cfg.Table.StartingBalance)
	if c.Balance > 0 {
		balance = c.Balance
	}

	shoe := deck.NewShoe(cfg.Table.Decks, randutil.New(seed))
	session := game.NewSession(logger, shoe, game.WithBalance(balance))

	client := dealerai.NewClient(dealerai.Config{
		BaseURL:    cfg.Dealer.BaseURL,
		APIKey:     config.APIKey(),
		Model:      cfg.Dealer.Model,
		ImageModel: cfg.Dealer.ImageModel,
	}, logger)

	updates := make(chan dealerai.Update, 64)
	var svc dealerai.CommentService = client
	if c.NoAI || !cfg.Dealer.Enabled {
		svc = noAIService{}
	}
	commentator := dealerai.NewCommentator(svc, logger,
		dealerai.WithTimeout(cfg.DealerTimeout()),
		dealerai.WithRand(randutil.New(seed+1)),
		dealerai.WithUpdateFunc(func(u dealerai.Update) {
			select {
			case updates <- u:
			default:
			}
		}),
	)

	var chat *dealerai.ChatSession
	if !c.NoAI && cfg.Dealer.Enabled {
		chat = dealerai.NewChatSession(client, logger)
	}

	model := tui.New(tui.Config{
		Session:     session,
		Commentator: commentator,
		Chat:        chat,
		Updates:     updates,
		Chips:       cfg.Table.Chips,
		DealPace:    cfg.DealPace(),
		Logger:      logger,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// noAIService forces every comment request down the fallback path
type noAIService struct{}

func (noAIService) DealerComment(ctx context.Context, prompt string) (string, error) {
	return "", fmt.Errorf("dealer AI disabled")
}
