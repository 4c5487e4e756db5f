package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sh3r4rd/product_uploads/internal/model"
	"github.com/sh3r4rd/product_uploads/internal/usecase"
	"github.com/sh3r4rd/product_uploads/pkg/e"
	"github.com/sh3r4rd/product_uploads/pkg/logger"
)

// Issuer serves POST /upload-url.
type Issuer struct {
	products usecase.Products
	logger   logger.Interface
}

func NewIssuer(products usecase.Products, l logger.Interface) *Issuer {
	return &Issuer{products: products, logger: l}
}

// Handle validates the submission, stores the pending product and returns a
// pre-signed upload URL.
func (h *Issuer) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	l := requestLogger(ctx, h.logger)

	email := emailClaim(req)
	if email == "" {
		l.Warn("%d upload-url without email claim", http.StatusUnauthorized)
		return proxyResponse(http.StatusUnauthorized, model.MessageResponse{Message: "Unauthorized"}), nil
	}

	body, err := decodeUploadRequest(req)
	if err != nil {
		l.Warn("%d %v", http.StatusBadRequest, err)
		return h.errorResponse(err), nil
	}

	signedURL, err := h.products.IssueUploadURL(ctx, email, body)
	if err != nil {
		resp := h.errorResponse(err)
		if resp.StatusCode == http.StatusInternalServerError {
			l.Error(err, "failed to issue upload url for %s", body.FileName)
		} else {
			l.Warn("%d %v", resp.StatusCode, err)
		}
		return resp, nil
	}

	return proxyResponse(http.StatusOK, model.UploadResponse{SignedURL: signedURL}), nil
}

func decodeUploadRequest(req events.APIGatewayProxyRequest) (model.UploadRequest, error) {
	var body model.UploadRequest

	raw := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return body, e.Wrap(err.Error(), e.ErrInvalidBody)
		}
		raw = decoded
	}

	if len(raw) == 0 {
		return body, e.ErrMissingFields
	}

	if err := json.Unmarshal(raw, &body); err != nil {
		return body, e.Wrap(err.Error(), e.ErrInvalidBody)
	}

	return body, nil
}

func (h *Issuer) errorResponse(err error) events.APIGatewayProxyResponse {
	switch {
	case errors.Is(err, e.ErrUnauthorized):
		return proxyResponse(http.StatusUnauthorized, model.MessageResponse{Message: "Unauthorized"})
	case errors.Is(err, e.ErrInvalidBody):
		return proxyResponse(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request body."})
	case errors.Is(err, e.ErrMissingFields):
		return proxyResponse(http.StatusBadRequest, model.ErrorResponse{Error: "Missing required fields."})
	case errors.Is(err, e.ErrInvalidPrice):
		return proxyResponse(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid product price."})
	case errors.Is(err, e.ErrInvalidQuantity):
		return proxyResponse(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid quantity."})
	default:
		return proxyResponse(http.StatusInternalServerError, serverError("Failed to generate signed URL.", e.Details(err)))
	}
}
