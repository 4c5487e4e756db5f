package model

import "time"

// Domain constants shared across handler, use case, and storage packages.
const (
	UploadURLTTL = time.Hour // validity of the pre-signed PUT URL
	StaleAfter   = time.Hour // imageless records older than this are removed

	// TimeLayout is fixed width so that createdAt compares lexically in
	// DynamoDB filter expressions.
	TimeLayout = "2006-01-02T15:04:05.000Z"

	CleanupSubject = "Product Cleanup Notification"
)
