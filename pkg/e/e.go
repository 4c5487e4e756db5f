// Package e holds the sentinel errors shared by the functions and a small
// wrapping helper.
package e

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

var (
	// 400 Bad Request
	ErrInvalidBody       = fmt.Errorf("invalid request body")
	ErrMissingFields     = fmt.Errorf("missing required fields")
	ErrInvalidPrice      = fmt.Errorf("invalid product price")
	ErrInvalidQuantity   = fmt.Errorf("invalid quantity")
	ErrInvalidPagination = fmt.Errorf("invalid pagination parameters")

	// 401 Unauthorized
	ErrUnauthorized = fmt.Errorf("unauthorized")

	// 404 Not Found
	ErrProductNotFound = fmt.Errorf("product not found")

	// Conditional write lost against a concurrent image link.
	ErrImageLinked = fmt.Errorf("product image already linked")
)

// Wrap prefixes err with msg, keeping it matchable with errors.Is.
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// Details returns the message reported to callers in the "details" field.
// AWS API errors are reduced to their code and message so that request
// plumbing does not leak into responses.
func Details(err error) string {
	if err == nil {
		return ""
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("%s: %s", apiErr.ErrorCode(), apiErr.ErrorMessage())
	}

	return err.Error()
}
