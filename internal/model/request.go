package model

import (
	"bytes"
	"encoding/json"
)

// Numeric keeps a JSON number or string as sent. Whether it is a valid amount
// is decided by the caller, so blank and non-numeric values decode cleanly.
type Numeric string

func (n *Numeric) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Numeric(s)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*n = Numeric(num)

	return nil
}

func (n Numeric) String() string {
	return string(n)
}

// UploadRequest is the JSON body sent by sellers to POST /upload-url.
// Numeric fields accept both JSON numbers and strings. Any email in the body
// is ignored; the submitter comes from the authorizer claims.
type UploadRequest struct {
	FileName     string  `json:"fileName"`
	FileType     string  `json:"fileType"`
	ProductName  string  `json:"productName"`
	ProductPrice Numeric `json:"productPrice"`
	Description  string  `json:"description"`
	Quantity     Numeric `json:"quantity"`
	Category     string  `json:"category"`
}

// ListRequest carries the optional listing page parameters.
type ListRequest struct {
	Limit     int32
	NextToken string
}
