package model

import (
	"fmt"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
)

// Product represents a single item in the Products DynamoDB table.
type Product struct {
	ID           string                `dynamodbav:"id" json:"id"`
	FileName     string                `dynamodbav:"fileName" json:"fileName"`
	FileType     string                `dynamodbav:"fileType" json:"fileType"`
	ProductName  string                `dynamodbav:"productName" json:"productName"`
	ProductPrice attributevalue.Number `dynamodbav:"productPrice" json:"productPrice"`
	Description  string                `dynamodbav:"description" json:"description"`
	Quantity     attributevalue.Number `dynamodbav:"quantity" json:"quantity"`
	Category     string                `dynamodbav:"category" json:"category"`
	Email        string                `dynamodbav:"email" json:"email"`
	IsApproved   bool                  `dynamodbav:"isApproved" json:"isApproved"`
	ImageURL     string                `dynamodbav:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	CreatedAt    string                `dynamodbav:"createdAt" json:"createdAt"`
}

// Attribute names used in expressions.
const (
	AttrID         = "id"
	AttrFileName   = "fileName"
	AttrIsApproved = "isApproved"
	AttrImageURL   = "imageUrl"
	AttrCreatedAt  = "createdAt"
)

// HasImage reports whether the storage-event linker has attached an image.
func (p Product) HasImage() bool {
	return p.ImageURL != ""
}

// Listable reports whether the product may be served by the public listing.
func (p Product) Listable() bool {
	return p.IsApproved && p.HasImage()
}

// Stale reports whether the product never received an image and was created
// before cutoff. Records with an unparsable createdAt are never stale.
func (p Product) Stale(cutoff time.Time) bool {
	if p.HasImage() {
		return false
	}

	created, err := ParseTime(p.CreatedAt)
	if err != nil {
		return false
	}

	return created.Before(cutoff)
}

// FormatTime renders t the way createdAt is stored.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a stored createdAt value.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}

// ImageURL builds the public URL of an object in bucket.
func ImageURL(bucket, key string) string {
	u := url.URL{
		Scheme: "https",
		Host:   bucket + ".s3.amazonaws.com",
		Path:   "/" + key,
	}

	return u.String()
}

// Newest returns the most recently created product, breaking ties on id.
func Newest(products []Product) (Product, error) {
	if len(products) == 0 {
		return Product{}, fmt.Errorf("no products")
	}

	best := products[0]
	for _, p := range products[1:] {
		if p.CreatedAt > best.CreatedAt || (p.CreatedAt == best.CreatedAt && p.ID > best.ID) {
			best = p
		}
	}

	return best, nil
}
