// Package storage issues pre-signed S3 URLs for direct client uploads.
package storage

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jimlawless/whereami"
	"github.com/sh3r4rd/product_uploads/pkg/e"
)

// PresignAPI is implemented by *s3.PresignClient.
type PresignAPI interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Presigner signs PutObject requests against a single bucket. Signing is
// local; no request reaches S3.
type Presigner struct {
	client PresignAPI
	bucket string
}

func NewPresigner(client PresignAPI, bucket string) *Presigner {
	return &Presigner{
		client: client,
		bucket: bucket,
	}
}

// NewS3Presigner builds a Presigner from an AWS config. Path-style addressing
// is used when a custom endpoint is configured (localstack, minio).
func NewS3Presigner(cfg aws.Config, bucket string) *Presigner {
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.BaseEndpoint != nil
	})

	return NewPresigner(s3.NewPresignClient(client), bucket)
}

// PresignUpload returns a URL allowing a PUT of key with contentType for ttl.
func (p *Presigner) PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	req, err := p.client.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return req.URL, nil
}
