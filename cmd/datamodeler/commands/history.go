package commands

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/datamodeler/internal/foundation/errors"
	"git.home.luguber.info/inful/datamodeler/internal/history"
)

// HistoryCmd lists recent generation and render runs from the ledger.
type HistoryCmd struct {
	Species string `arg:"" optional:"" help:"Limit to one species"`
	Limit   int    `short:"n" default:"20" help:"Maximum number of events"`
}

func (h *HistoryCmd) Run(global *Global, cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return errors.ConfigError("history is disabled in the configuration").Build()
	}

	ledger, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer ledger.Close()

	events, err := ledger.Recent(context.Background(), h.Species, h.Limit)
	if err != nil {
		return err
	}

	for _, e := range events {
		line := fmt.Sprintf("%s  %-8s  %-7s  %s",
			e.Timestamp.Format(time.RFC3339), e.Action, e.Outcome, e.Species)
		if e.Release != "" {
			line += "@" + e.Release
		}
		if e.Detail != "" {
			line += "  " + e.Detail
		}
		fmt.Println(line)
	}
	return nil
}
