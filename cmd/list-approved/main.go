package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sh3r4rd/product_uploads/internal/app"
	"github.com/sh3r4rd/product_uploads/internal/config"
	"github.com/sh3r4rd/product_uploads/pkg/logger"
)

func main() {
	cfg, err := config.Load[config.Lister]()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}

	l := logger.New(cfg.LogLevel)

	h, err := app.NewLister(context.Background(), cfg, l)
	if err != nil {
		l.Fatal(err, "failed to initialize function")
	}

	lambda.Start(h.Handle)
}
