// Package localapi serves the API Gateway functions over plain HTTP for local
// development against localstack.
package localapi

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sh3r4rd/product_uploads/pkg/logger"
)

const maxBodySize = 1 << 20

// ProxyFunc is the signature of an API Gateway proxy function.
type ProxyFunc func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

type Router struct {
	router *chi.Mux
	logger logger.Interface
	email  string
}

// NewRouter returns a router that signs every request in as email, standing
// in for the Cognito authorizer.
func NewRouter(router *chi.Mux, l logger.Interface, email string) *Router {
	return &Router{router: router, logger: l, email: email}
}

func (r *Router) Init(issue, list ProxyFunc) {
	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.Recoverer)

	r.router.Post("/upload-url", r.adapt(issue))
	r.router.Get("/products", r.adapt(list))
}

func (r *Router) adapt(fn ProxyFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		proxyReq, err := r.proxyRequest(w, req)
		if err != nil {
			r.logger.Warn("%d %v", http.StatusRequestEntityTooLarge, err)
			writeJSON(w, http.StatusRequestEntityTooLarge, `{"error":"Request body too large."}`, nil)
			return
		}

		resp, err := fn(req.Context(), proxyReq)
		if err != nil {
			r.logger.Error(err, "%s %s", req.Method, req.URL.Path)
			writeJSON(w, http.StatusBadGateway, `{"message":"Internal server error"}`, nil)
			return
		}

		writeJSON(w, resp.StatusCode, resp.Body, resp.Headers)
	}
}

func (r *Router) proxyRequest(w http.ResponseWriter, req *http.Request) (events.APIGatewayProxyRequest, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxBodySize))
	if err != nil {
		return events.APIGatewayProxyRequest{}, err
	}

	query := make(map[string]string, len(req.URL.Query()))
	for k, v := range req.URL.Query() {
		query[k] = v[0]
	}

	headers := make(map[string]string, len(req.Header))
	for k := range req.Header {
		headers[k] = req.Header.Get(k)
	}

	proxyReq := events.APIGatewayProxyRequest{
		Resource:              chi.RouteContext(req.Context()).RoutePattern(),
		Path:                  req.URL.Path,
		HTTPMethod:            req.Method,
		Headers:               headers,
		QueryStringParameters: query,
		RequestContext: events.APIGatewayProxyRequestContext{
			RequestID: middleware.GetReqID(req.Context()),
			Authorizer: map[string]interface{}{
				"claims": map[string]interface{}{"email": r.email},
			},
		},
	}

	if utf8.Valid(body) {
		proxyReq.Body = string(body)
	} else {
		proxyReq.Body = base64.StdEncoding.EncodeToString(body)
		proxyReq.IsBase64Encoded = true
	}

	return proxyReq, nil
}

func writeJSON(w http.ResponseWriter, status int, body string, headers map[string]string) {
	for k, v := range headers {
		w.Header().Set(k, v)
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
