package main

import (
	"log"

	"github.com/charmheroku/railway-station/internal/common/config"
	"github.com/charmheroku/railway-station/internal/common/logger"
)

func main() {
	logger.SetServiceName("railway-api")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	cfg.Print()

	if err := run(cfg); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
