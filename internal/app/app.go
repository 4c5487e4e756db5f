// Package app wires configuration, AWS clients and use cases into the
// function handlers.
package app

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/sh3r4rd/product_uploads/internal/awsclient"
	"github.com/sh3r4rd/product_uploads/internal/config"
	"github.com/sh3r4rd/product_uploads/internal/handler"
	"github.com/sh3r4rd/product_uploads/internal/notify"
	"github.com/sh3r4rd/product_uploads/internal/repository/dynamo"
	"github.com/sh3r4rd/product_uploads/internal/storage"
	"github.com/sh3r4rd/product_uploads/internal/usecase"
	"github.com/sh3r4rd/product_uploads/pkg/logger"
)

func loadAWS(ctx context.Context, c config.Common, opts ...awsclient.Option) (aws.Config, *dynamo.ProductRepo, error) {
	opts = append(opts, awsclient.Endpoint(c.Endpoint))

	awsCfg, err := awsclient.Load(ctx, c.Region, opts...)
	if err != nil {
		return aws.Config{}, nil, fmt.Errorf("app - loadAWS - awsclient.Load: %w", err)
	}

	repo := dynamo.NewProductRepo(dynamodb.NewFromConfig(awsCfg), c.Table)

	return awsCfg, repo, nil
}

// NewIssuer builds the upload-url function.
func NewIssuer(ctx context.Context, cfg *config.Issuer, l logger.Interface, opts ...awsclient.Option) (*handler.Issuer, error) {
	awsCfg, repo, err := loadAWS(ctx, cfg.Common, opts...)
	if err != nil {
		return nil, err
	}

	uc := usecase.New(
		repo,
		storage.NewS3Presigner(awsCfg, cfg.Bucket),
		nil,
		l,
		usecase.UploadURLTTL(cfg.UploadURLTTL),
	)

	return handler.NewIssuer(uc, l), nil
}

// NewLinker builds the storage-event function.
func NewLinker(ctx context.Context, cfg *config.Linker, l logger.Interface) (*handler.Linker, error) {
	_, repo, err := loadAWS(ctx, cfg.Common)
	if err != nil {
		return nil, err
	}

	return handler.NewLinker(usecase.New(repo, nil, nil, l), l), nil
}

// NewLister builds the approved-product listing function.
func NewLister(ctx context.Context, cfg *config.Lister, l logger.Interface, opts ...awsclient.Option) (*handler.Lister, error) {
	_, repo, err := loadAWS(ctx, cfg.Common, opts...)
	if err != nil {
		return nil, err
	}

	return handler.NewLister(usecase.New(repo, nil, nil, l), l), nil
}

// NewCleanup builds the scheduled cleanup function.
func NewCleanup(ctx context.Context, cfg *config.Cleanup, l logger.Interface) (*handler.Cleanup, error) {
	awsCfg, repo, err := loadAWS(ctx, cfg.Common)
	if err != nil {
		return nil, err
	}

	uc := usecase.New(
		repo,
		nil,
		notify.NewSNSNotifier(sns.NewFromConfig(awsCfg), cfg.TopicARN),
		l,
		usecase.StaleAfter(cfg.StaleAfter),
		usecase.MaxDeletes(cfg.MaxDeletes),
	)

	return handler.NewCleanup(uc, l), nil
}
