package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sh3r4rd/product_uploads/internal/model"
	"github.com/sh3r4rd/product_uploads/pkg/logger"
)

type fakeProducts struct {
	email   string
	upload  model.UploadRequest
	signed  string
	keys    []string
	buckets []string
	linkErr map[string]error
	list    model.ListRequest
	listed  *model.ProductsResponse
	report  *model.CleanupReport
	err     error
}

func (f *fakeProducts) IssueUploadURL(_ context.Context, email string, req model.UploadRequest) (string, error) {
	f.email, f.upload = email, req
	return f.signed, f.err
}

func (f *fakeProducts) LinkImage(_ context.Context, bucket, key string) (string, error) {
	f.buckets = append(f.buckets, bucket)
	f.keys = append(f.keys, key)
	if err := f.linkErr[key]; err != nil {
		return "", err
	}
	return model.ImageURL(bucket, key), nil
}

func (f *fakeProducts) ListApproved(_ context.Context, req model.ListRequest) (*model.ProductsResponse, error) {
	f.list = req
	return f.listed, f.err
}

func (f *fakeProducts) CleanupStale(context.Context) (*model.CleanupReport, error) {
	return f.report, f.err
}

func testLogger() (logger.Interface, *bytes.Buffer) {
	var buf bytes.Buffer
	return logger.NewWithWriter("debug", &buf), &buf
}

func decode(t *testing.T, body string) map[string]interface{} {
	t.Helper()

	var m map[string]interface{}
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		t.Fatalf("body %q is not JSON: %v", body, err)
	}

	return m
}
