package handler_test

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sh3r4rd/product_uploads/internal/handler"
	"github.com/sh3r4rd/product_uploads/internal/model"
	"github.com/sh3r4rd/product_uploads/internal/usecase"
	"github.com/sh3r4rd/product_uploads/pkg/e"
)

const validBody = `{"fileName":"lamp.png","fileType":"image/png","productName":"Lamp","productPrice":20.5,"description":"desk lamp","quantity":3,"category":"home"}`

func withClaims(body string, claims interface{}) events.APIGatewayProxyRequest {
	req := events.APIGatewayProxyRequest{Body: body}
	if claims != nil {
		req.RequestContext.Authorizer = map[string]interface{}{"claims": claims}
	}
	return req
}

func TestIssuerHandle(t *testing.T) {
	sellerClaims := map[string]interface{}{"email": "seller@example.com"}

	tests := []struct {
		name       string
		req        events.APIGatewayProxyRequest
		useCaseErr error
		wantStatus int
		wantKey    string
		wantValue  string
	}{
		{"ok", withClaims(validBody, sellerClaims), nil, http.StatusOK, "signedUrl", "https://signed"},
		{"string claims", withClaims(validBody, map[string]string{"email": "seller@example.com"}), nil, http.StatusOK, "signedUrl", "https://signed"},
		{"no claims", withClaims(validBody, nil), nil, http.StatusUnauthorized, "message", "Unauthorized"},
		{"blank email claim", withClaims(validBody, map[string]interface{}{"email": ""}), nil, http.StatusUnauthorized, "message", "Unauthorized"},
		{"malformed json", withClaims(`{"fileName":`, sellerClaims), nil, http.StatusBadRequest, "error", "Invalid request body."},
		{"empty body", withClaims("", sellerClaims), nil, http.StatusBadRequest, "error", "Missing required fields."},
		{"missing fields", withClaims(validBody, sellerClaims), e.ErrMissingFields, http.StatusBadRequest, "error", "Missing required fields."},
		{"bad price", withClaims(validBody, sellerClaims), e.ErrInvalidPrice, http.StatusBadRequest, "error", "Invalid product price."},
		{"bad quantity", withClaims(validBody, sellerClaims), e.ErrInvalidQuantity, http.StatusBadRequest, "error", "Invalid quantity."},
		{"store failure", withClaims(validBody, sellerClaims), errors.New("table missing"), http.StatusInternalServerError, "error", "Failed to generate signed URL."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeProducts{signed: "https://signed", err: tt.useCaseErr}
			l, _ := testLogger()
			h := handler.NewIssuer(fake, l)

			resp, err := h.Handle(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("Handle returned error: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", resp.StatusCode, tt.wantStatus, resp.Body)
			}
			if resp.Headers["Content-Type"] != "application/json" {
				t.Errorf("Content-Type = %q", resp.Headers["Content-Type"])
			}

			body := decode(t, resp.Body)
			if body[tt.wantKey] != tt.wantValue {
				t.Errorf("%s = %v, want %q", tt.wantKey, body[tt.wantKey], tt.wantValue)
			}
			if tt.wantStatus == http.StatusInternalServerError && body["details"] != "table missing" {
				t.Errorf("details = %v", body["details"])
			}
		})
	}
}

func TestIssuerIgnoresBodyEmail(t *testing.T) {
	fake := &fakeProducts{signed: "https://signed"}
	l, _ := testLogger()
	h := handler.NewIssuer(fake, l)

	body := `{"email":"attacker@example.com","fileName":"a.png","fileType":"image/png","productName":"A","productPrice":"1","description":"d","quantity":"1","category":"c"}`
	req := withClaims(body, map[string]interface{}{"email": "seller@example.com"})

	if _, err := h.Handle(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if fake.email != "seller@example.com" {
		t.Errorf("email = %q, want the authorizer claim", fake.email)
	}
}

func TestIssuerDecodesBase64Body(t *testing.T) {
	fake := &fakeProducts{signed: "https://signed"}
	l, _ := testLogger()
	h := handler.NewIssuer(fake, l)

	req := withClaims(base64.StdEncoding.EncodeToString([]byte(validBody)), map[string]interface{}{"email": "seller@example.com"})
	req.IsBase64Encoded = true

	resp, err := h.Handle(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, resp.Body)
	}
	if fake.upload.FileName != "lamp.png" || fake.upload.ProductPrice.String() != "20.5" {
		t.Errorf("decoded request = %+v", fake.upload)
	}
}

type createRecorder struct {
	created []*model.Product
}

func (r *createRecorder) Create(_ context.Context, p *model.Product) error {
	r.created = append(r.created, p)
	return nil
}

func (r *createRecorder) FindByFileName(context.Context, string) ([]model.Product, error) {
	return nil, nil
}

func (r *createRecorder) SetImageURL(context.Context, string, string) error { return nil }

func (r *createRecorder) ListApproved(context.Context, int32, string) ([]model.Product, string, error) {
	return nil, "", nil
}

func (r *createRecorder) ScanStale(context.Context, time.Time) ([]model.Product, error) {
	return nil, nil
}

func (r *createRecorder) Delete(context.Context, string) error { return nil }

type staticPresigner string

func (s staticPresigner) PresignUpload(context.Context, string, string, time.Duration) (string, error) {
	return string(s), nil
}

func TestIssuerValidatesDecodedBody(t *testing.T) {
	body := func(price, quantity string) string {
		return `{"fileName":"lamp.png","fileType":"image/png","productName":"Lamp","productPrice":` + price +
			`,"description":"desk lamp","quantity":` + quantity + `,"category":"home"}`
	}

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"blank price", body(`""`, `3`), http.StatusBadRequest, "Missing required fields."},
		{"null price", body(`null`, `3`), http.StatusBadRequest, "Missing required fields."},
		{"blank quantity", body(`"20"`, `""`), http.StatusBadRequest, "Missing required fields."},
		{"text price", body(`"cheap"`, `3`), http.StatusBadRequest, "Invalid product price."},
		{"text quantity", body(`20`, `"many"`), http.StatusBadRequest, "Invalid quantity."},
		{"boolean price", body(`true`, `3`), http.StatusBadRequest, "Invalid request body."},
		{"string numbers", body(`"20.50"`, `"3"`), http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &createRecorder{}
			l, _ := testLogger()
			h := handler.NewIssuer(usecase.New(repo, staticPresigner("https://signed"), nil, l), l)

			resp, err := h.Handle(context.Background(), withClaims(tt.body, map[string]interface{}{"email": "seller@example.com"}))
			if err != nil {
				t.Fatalf("Handle returned error: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", resp.StatusCode, tt.wantStatus, resp.Body)
			}

			if tt.wantStatus != http.StatusOK {
				if got := decode(t, resp.Body)["error"]; got != tt.wantError {
					t.Errorf("error = %v, want %q", got, tt.wantError)
				}
				if len(repo.created) != 0 {
					t.Error("rejected request was persisted")
				}
				return
			}

			if len(repo.created) != 1 || repo.created[0].ProductPrice != "20.5" {
				t.Errorf("created = %+v", repo.created)
			}
		})
	}
}
