package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/khelfun/vicjack/cmd/vicjack/shared"
	"github.com/khelfun/vicjack/internal/config"
	"github.com/khelfun/vicjack/internal/dealerai"
	"github.com/khelfun/vicjack/internal/fileutil"
)

type AvatarCmd struct {
	Config string `kong:"default='vicjack.hcl',help='Path to the HCL config file'"`
	Output string `kong:"default='vic.png',help='Where to write the portrait'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

func (c *AvatarCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	logger := shared.SetupLogger(os.Stderr, cfg.Table.LogLevel, c.Debug)

	apiKey := config.APIKey()
	if apiKey == "" {
		return fmt.Errorf("%s is not set", config.EnvAPIKey)
	}

	client := dealerai.NewClient(dealerai.Config{
		BaseURL:    cfg.Dealer.BaseURL,
		APIKey:     apiKey,
		Model:      cfg.Dealer.Model,
		ImageModel: cfg.Dealer.ImageModel,
	}, logger)

	ctx := shared.SetupSignalHandler(logger)
	logger.Info("requesting portrait", "model", cfg.Dealer.ImageModel)

	dataURL, err := client.GenerateAvatar(ctx)
	if err != nil {
		return err
	}

	// Responses come back as data URLs; anything else gets written raw
	// for the caller to deal with.
	idx := strings.Index(dataURL, "base64,")
	if idx < 0 {
		return fileutil.WriteFileAtomic(c.Output, []byte(dataURL), 0o644)
	}

	img, err := base64.StdEncoding.DecodeString(dataURL[idx+len("base64,"):])
	if err != nil {
		return fmt.Errorf("failed to decode portrait: %w", err)
	}
	if err := fileutil.WriteFileAtomic(c.Output, img, 0o644); err != nil {
		return err
	}

	logger.Info("portrait saved", "path", c.Output, "bytes", len(img))
	return nil
}
