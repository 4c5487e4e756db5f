package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/sh3r4rd/product_uploads/internal/model"
	"github.com/sh3r4rd/product_uploads/pkg/logger"
)

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

func encode(body any) string {
	data, err := json.Marshal(body)
	if err != nil {
		return `{"error":"Failed to encode response."}`
	}

	return string(data)
}

// proxyResponse builds an API Gateway proxy response with a JSON body.
func proxyResponse(status int, body any) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    jsonHeaders,
		Body:       encode(body),
	}
}

// invocationResponse builds the result of an event-triggered function.
func invocationResponse(status int, body any) model.InvocationResponse {
	return model.InvocationResponse{
		StatusCode: status,
		Body:       encode(body),
	}
}

func serverError(message string, details string) model.ErrorResponse {
	return model.ErrorResponse{Error: message, Details: details}
}

// requestLogger tags l with the Lambda request id when one is present.
func requestLogger(ctx context.Context, l logger.Interface) logger.Interface {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return l.With("requestId", lc.AwsRequestID)
	}

	return l
}

// worse returns the more severe of two status codes.
func worse(a, b int) int {
	if b == http.StatusInternalServerError || (b == http.StatusNotFound && a == http.StatusOK) {
		return b
	}

	return a
}
