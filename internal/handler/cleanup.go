package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sh3r4rd/product_uploads/internal/model"
	"github.com/sh3r4rd/product_uploads/internal/usecase"
	"github.com/sh3r4rd/product_uploads/pkg/e"
	"github.com/sh3r4rd/product_uploads/pkg/logger"
)

// Cleanup runs on the EventBridge schedule.
type Cleanup struct {
	products usecase.Products
	logger   logger.Interface
}

func NewCleanup(products usecase.Products, l logger.Interface) *Cleanup {
	return &Cleanup{products: products, logger: l}
}

func (h *Cleanup) Handle(ctx context.Context, event events.CloudWatchEvent) (model.InvocationResponse, error) {
	l := requestLogger(ctx, h.logger)
	l.Debug("cleanup triggered by %s at %s", event.Source, event.Time)

	report, err := h.products.CleanupStale(ctx)
	if err != nil {
		l.Error(err, "cleanup failed")

		resp := model.CleanupResponse{Error: "Failed to clean up products.", Details: e.Details(err)}
		if report != nil {
			resp.Deleted, resp.Skipped, resp.Failed = report.Deleted, report.Skipped, report.Failed
		}
		return invocationResponse(http.StatusInternalServerError, resp), nil
	}

	if report.Matched == 0 {
		l.Info("no stale products")
		return invocationResponse(http.StatusOK, model.MessageResponse{Message: "No products to clean up."}), nil
	}

	if report.Failed > 0 {
		l.Warn("cleanup deleted %d, skipped %d, failed %d", report.Deleted, report.Skipped, report.Failed)
		return invocationResponse(http.StatusInternalServerError, model.CleanupResponse{
			Error:   "Failed to clean up products.",
			Details: fmt.Sprintf("could not delete: %s", strings.Join(report.FailedIDs, ", ")),
			Deleted: report.Deleted,
			Skipped: report.Skipped,
			Failed:  report.Failed,
		}), nil
	}

	l.Info("cleanup deleted %d, skipped %d", report.Deleted, report.Skipped)

	return invocationResponse(http.StatusOK, model.CleanupResponse{
		Message: fmt.Sprintf("%d products cleaned up successfully.", report.Deleted),
		Deleted: report.Deleted,
		Skipped: report.Skipped,
	}), nil
}
