package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sh3r4rd/product_uploads/internal/model"
	"github.com/sh3r4rd/product_uploads/internal/usecase"
	"github.com/sh3r4rd/product_uploads/pkg/e"
	"github.com/sh3r4rd/product_uploads/pkg/logger"
)

// Linker handles S3 ObjectCreated notifications.
type Linker struct {
	products usecase.Products
	logger   logger.Interface
}

func NewLinker(products usecase.Products, l logger.Interface) *Linker {
	return &Linker{products: products, logger: l}
}

// Handle links every object in the notification to its product. The result
// is informational; errors are never returned to the runtime so S3 does not
// retry the delivery.
func (h *Linker) Handle(ctx context.Context, event events.S3Event) (model.InvocationResponse, error) {
	l := requestLogger(ctx, h.logger)

	if len(event.Records) == 0 {
		l.Warn("storage event without records")
		return invocationResponse(http.StatusNotFound, model.ErrorResponse{Error: "Product not found for the given fileName."}), nil
	}

	var resp model.InvocationResponse
	for i, record := range event.Records {
		r := h.link(ctx, l, record)
		if i == 0 || worse(resp.StatusCode, r.StatusCode) != resp.StatusCode {
			resp = r
		}
	}

	return resp, nil
}

func (h *Linker) link(ctx context.Context, l logger.Interface, record events.S3EventRecord) model.InvocationResponse {
	bucket := record.S3.Bucket.Name

	key, err := url.QueryUnescape(record.S3.Object.Key)
	if err != nil {
		key = record.S3.Object.Key
	}

	imageURL, err := h.products.LinkImage(ctx, bucket, key)
	switch {
	case err == nil:
		l.Info("linked %s to %s", key, imageURL)
		return invocationResponse(http.StatusOK, model.MessageResponse{Message: "Product image updated successfully."})
	case errors.Is(err, e.ErrProductNotFound):
		l.Warn("%d %v", http.StatusNotFound, err)
		return invocationResponse(http.StatusNotFound, model.ErrorResponse{Error: "Product not found for the given fileName."})
	default:
		l.Error(err, "failed to link %s", key)
		return invocationResponse(http.StatusInternalServerError, serverError("Failed to update product image.", e.Details(err)))
	}
}
