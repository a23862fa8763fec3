package commands

import (
	"log/slog"

	"git.home.luguber.info/inful/datamodeler/internal/config"
)

// InitCmd writes an example configuration file.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(global *Global, cli *CLI) error {
	if err := config.Init(cli.Config, i.Force); err != nil {
		return err
	}
	global.Logger.Info("configuration written", slog.String("path", cli.Config))
	return nil
}
