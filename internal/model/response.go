package model

// UploadResponse is returned on a successful upload-url request.
type UploadResponse struct {
	SignedURL string `json:"signedUrl"`
}

// ProductsResponse is returned by the approved-product listing.
type ProductsResponse struct {
	Products  []Product `json:"products"`
	NextToken string    `json:"nextToken,omitempty"`
}

// MessageResponse carries a human readable outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is returned for any failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// CleanupResponse reports one cleanup run.
type CleanupResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
	Deleted int    `json:"deleted"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}

// InvocationResponse is the result of event-triggered functions. It mirrors
// the proxy response shape so logs read the same across functions.
type InvocationResponse struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// CleanupReport is the outcome of a cleanup run.
type CleanupReport struct {
	Matched   int
	Deleted   int
	Skipped   int
	Failed    int
	FailedIDs []string
}
