package main

import (
	"log"

	"github.com/sh3r4rd/product_uploads/internal/app"
	"github.com/sh3r4rd/product_uploads/internal/config"
)

func main() {
	cfg, err := config.Load[config.LocalAPI]()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}

	if err := app.RunLocalAPI(cfg); err != nil {
		log.Fatalf("local api: %s", err)
	}
}
