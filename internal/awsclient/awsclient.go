// Package awsclient loads the shared aws.Config every function builds its
// service clients from.
package awsclient

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

type options struct {
	endpoint  string
	accessKey string
	secretKey string
}

// Load resolves the AWS configuration for region. Inside Lambda the default
// credential chain picks up the execution role.
func Load(ctx context.Context, region string, opts ...Option) (aws.Config, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}

	if o.endpoint != "" {
		loadOpts = append(loadOpts, config.WithBaseEndpoint(o.endpoint))
	}

	if o.accessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.accessKey, o.secretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("awsclient - Load - config.LoadDefaultConfig: %w", err)
	}

	return cfg, nil
}
