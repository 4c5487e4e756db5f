package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sh3r4rd/product_uploads/internal/model"
	"github.com/sh3r4rd/product_uploads/internal/usecase"
	"github.com/sh3r4rd/product_uploads/pkg/e"
	"github.com/sh3r4rd/product_uploads/pkg/logger"
)

// Lister serves GET /products.
type Lister struct {
	products usecase.Products
	logger   logger.Interface
}

func NewLister(products usecase.Products, l logger.Interface) *Lister {
	return &Lister{products: products, logger: l}
}

func (h *Lister) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	l := requestLogger(ctx, h.logger)

	listReq, err := parseListRequest(req.QueryStringParameters)
	if err != nil {
		l.Warn("%d %v", http.StatusBadRequest, err)
		return proxyResponse(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid pagination parameters."}), nil
	}

	resp, err := h.products.ListApproved(ctx, listReq)
	if err != nil {
		if errors.Is(err, e.ErrInvalidPagination) {
			l.Warn("%d %v", http.StatusBadRequest, err)
			return proxyResponse(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid pagination parameters."}), nil
		}

		l.Error(err, "failed to list approved products")
		return proxyResponse(http.StatusInternalServerError, serverError("Failed to retrieve products.", e.Details(err))), nil
	}

	return proxyResponse(http.StatusOK, resp), nil
}

// parseListRequest reads the optional limit and nextToken query parameters.
func parseListRequest(query map[string]string) (model.ListRequest, error) {
	req := model.ListRequest{NextToken: query["nextToken"]}

	raw, ok := query["limit"]
	if !ok {
		return req, nil
	}

	limit, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || limit <= 0 {
		return req, e.Wrap("limit "+strconv.Quote(raw), e.ErrInvalidPagination)
	}
	req.Limit = int32(limit)

	return req, nil
}
