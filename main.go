package main

import (
	"shopmydish/cmd/config"
	migration "shopmydish/cmd/database/migrate"
	"shopmydish/internal/utils"

	"github.com/gofiber/fiber/v2/log"
)

func main() {
	cfg, err := utils.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	db, err := config.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	app, err := config.NewApp(db, cfg)
	if err != nil {
		log.Fatalf("failed to build app: %v", err)
	}
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
