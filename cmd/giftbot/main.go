package main

import (
	"context"
	"log"
	"os"

	appconfig "github.com/m3rciful/giftbot/app/config"
	"github.com/m3rciful/giftbot/app/registry"
	"github.com/m3rciful/giftbot/core/bootstrap"
	corecmd "github.com/m3rciful/giftbot/core/cmd"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		Args:              os.Args[1:],
		ConfigEnvVar:      "GIFTBOT_CONFIG",
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			cfg, err := appconfig.Load(path)
			if err != nil {
				return nil, err
			}
			return cfg, nil
		},
		Bootstrap: func(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			cfg := carrier.(*appconfig.Config)
			app, err := bootstrap.Run(context.Background(), bootstrap.Options[*App]{
				Config:    cfg.CoreConfig(),
				AppConfig: cfg,
				Storage:   registry.New(),
				Services:  bootstrap.ProviderFunc[*App](NewApp),
			})
			if err != nil {
				return nil, err
			}
			return app, nil
		},
	})
	if err != nil {
		log.Printf("giftbot: %v", err)
		os.Exit(1)
	}
}
