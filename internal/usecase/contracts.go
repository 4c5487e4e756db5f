package usecase

import (
	"context"
	"time"

	"github.com/sh3r4rd/product_uploads/internal/model"
)

type (
	// ProductRepository -.
	ProductRepository interface {
		Create(ctx context.Context, p *model.Product) error
		FindByFileName(ctx context.Context, fileName string) ([]model.Product, error)
		SetImageURL(ctx context.Context, id, imageURL string) error
		ListApproved(ctx context.Context, limit int32, cursor string) ([]model.Product, string, error)
		ScanStale(ctx context.Context, cutoff time.Time) ([]model.Product, error)
		Delete(ctx context.Context, id string) error
	}

	// UploadPresigner -.
	UploadPresigner interface {
		PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
	}

	// Notifier -.
	Notifier interface {
		Notify(ctx context.Context, subject, message string) error
	}

	// Products is the set of operations exposed to the function handlers.
	Products interface {
		IssueUploadURL(ctx context.Context, email string, req model.UploadRequest) (string, error)
		LinkImage(ctx context.Context, bucket, key string) (string, error)
		ListApproved(ctx context.Context, req model.ListRequest) (*model.ProductsResponse, error)
		CleanupStale(ctx context.Context) (*model.CleanupReport, error)
	}
)
