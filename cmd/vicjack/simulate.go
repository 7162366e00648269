package main

import (
	"fmt"
	"os"
	"time"

	"github.com/khelfun/vicjack/cmd/vicjack/shared"
	"github.com/khelfun/vicjack/internal/simulator"
)

type SimulateCmd struct {
	Rounds  int     `kong:"default='10000',help='Number of rounds to play'"`
	Workers int     `kong:"default='0',help='Parallel workers (0 = number of CPUs)'"`
	Bet     float64 `kong:"default='100',help='Flat bet per round'"`
	Decks   int     `kong:"default='6',help='Decks in the shoe'"`
	Seed    int64   `kong:"default='0',help='Base RNG seed (0 = random)'"`
	Debug   bool    `kong:"help='Enable debug logging'"`
}

func (c *SimulateCmd) Run() error {
	logger := shared.SetupLogger(os.Stderr, "info", c.Debug)

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sim := simulator.New(simulator.Config{
		Rounds:  c.Rounds,
		Workers: c.Workers,
		Bet:     c.Bet,
		Decks:   c.Decks,
		Seed:    seed,
		Logger:  logger,
	})

	ctx := shared.SetupSignalHandler(logger)

	start := time.Now()
	stats, err := sim.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Simulated %d rounds in %s (seed %d)\n\n", stats.Rounds, time.Since(start).Round(time.Millisecond), seed)
	fmt.Print(stats.Summary())
	return nil
}
