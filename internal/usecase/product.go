package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/google/uuid"
	"github.com/sh3r4rd/product_uploads/internal/model"
	"github.com/sh3r4rd/product_uploads/pkg/e"
	"github.com/sh3r4rd/product_uploads/pkg/logger"
	"github.com/shopspring/decimal"
)

// ProductUseCase implements the submission and moderation workflow on top of
// the product store, the upload presigner and the notifier. Each function
// only exercises the collaborators its operation needs; the others may be nil.
type ProductUseCase struct {
	repo      ProductRepository
	presigner UploadPresigner
	notifier  Notifier
	logger    logger.Interface

	now          func() time.Time
	newID        func() string
	uploadURLTTL time.Duration
	staleAfter   time.Duration
	maxDeletes   int
}

var _ Products = (*ProductUseCase)(nil)

func New(
	repo ProductRepository,
	presigner UploadPresigner,
	notifier Notifier,
	l logger.Interface,
	opts ...Option,
) *ProductUseCase {
	uc := &ProductUseCase{
		repo:         repo,
		presigner:    presigner,
		notifier:     notifier,
		logger:       l,
		now:          time.Now,
		newID:        uuid.NewString,
		uploadURLTTL: model.UploadURLTTL,
		staleAfter:   model.StaleAfter,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// IssueUploadURL stores a pending product submitted by email and returns a
// pre-signed URL the seller uploads the image to.
func (uc *ProductUseCase) IssueUploadURL(ctx context.Context, email string, req model.UploadRequest) (string, error) {
	const op = "ProductUseCase.IssueUploadURL"

	if strings.TrimSpace(email) == "" {
		return "", e.Wrap(op, e.ErrUnauthorized)
	}

	product, err := uc.newProduct(email, req)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	if err := uc.repo.Create(ctx, product); err != nil {
		return "", e.Wrap(op, err)
	}

	// The record stays behind if signing fails; cleanup reaps it.
	signedURL, err := uc.presigner.PresignUpload(ctx, product.FileName, product.FileType, uc.uploadURLTTL)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	uc.logger.Info("product %s pending upload of %s", product.ID, product.FileName)

	return signedURL, nil
}

// LinkImage attaches the uploaded object key in bucket to the product that
// announced it and returns the stored image URL.
func (uc *ProductUseCase) LinkImage(ctx context.Context, bucket, key string) (string, error) {
	const op = "ProductUseCase.LinkImage"

	imageURL := model.ImageURL(bucket, key)

	matches, err := uc.repo.FindByFileName(ctx, key)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	if len(matches) == 0 {
		return "", e.Wrap(op, fmt.Errorf("fileName %q: %w", key, e.ErrProductNotFound))
	}

	target, err := model.Newest(matches)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	if len(matches) > 1 {
		uc.logger.Warn("%d products share fileName %q, linking newest id=%s", len(matches), key, target.ID)
	}

	if err := uc.repo.SetImageURL(ctx, target.ID, imageURL); err != nil {
		return "", e.Wrap(op, err)
	}

	return imageURL, nil
}

// ListApproved returns approved products that have an image.
func (uc *ProductUseCase) ListApproved(ctx context.Context, req model.ListRequest) (*model.ProductsResponse, error) {
	const op = "ProductUseCase.ListApproved"

	if req.Limit < 0 {
		return nil, e.Wrap(op, e.ErrInvalidPagination)
	}

	products, next, err := uc.repo.ListApproved(ctx, req.Limit, req.NextToken)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	listable := make([]model.Product, 0, len(products))
	for _, p := range products {
		if p.Listable() {
			listable = append(listable, p)
		}
	}

	return &model.ProductsResponse{
		Products:  listable,
		NextToken: next,
	}, nil
}

// CleanupStale removes products that never received an image within the
// retention window and notifies operators about the result. A failed delete
// is counted and the run continues with the next record.
func (uc *ProductUseCase) CleanupStale(ctx context.Context) (*model.CleanupReport, error) {
	const op = "ProductUseCase.CleanupStale"

	cutoff := uc.now().Add(-uc.staleAfter)

	candidates, err := uc.repo.ScanStale(ctx, cutoff)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	report := &model.CleanupReport{}

	for _, p := range candidates {
		if uc.maxDeletes > 0 && report.Deleted >= uc.maxDeletes {
			break
		}
		if !p.Stale(cutoff) {
			continue
		}
		report.Matched++

		if err := ctx.Err(); err != nil {
			report.Failed++
			report.FailedIDs = append(report.FailedIDs, p.ID)
			continue
		}

		err := uc.repo.Delete(ctx, p.ID)
		switch {
		case err == nil:
			report.Deleted++
		case errors.Is(err, e.ErrImageLinked):
			report.Skipped++
			uc.logger.Info("product %s received an image during cleanup, kept", p.ID)
		default:
			report.Failed++
			report.FailedIDs = append(report.FailedIDs, p.ID)
			uc.logger.Error(e.Wrap(op, err), "failed to delete product id=%s", p.ID)
		}
	}

	if report.Matched == 0 {
		return report, nil
	}

	if err := uc.notifier.Notify(ctx, model.CleanupSubject, uc.cleanupMessage(report)); err != nil {
		return report, e.Wrap(op, err)
	}

	return report, nil
}

func (uc *ProductUseCase) cleanupMessage(r *model.CleanupReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Product cleanup notification from subscribed SNS Topic. %d products older than %s without an imageURL have been deleted.",
		r.Deleted, describeAge(uc.staleAfter))

	if r.Skipped > 0 {
		fmt.Fprintf(&b, " %d products received an image during cleanup and were kept.", r.Skipped)
	}
	if r.Failed > 0 {
		fmt.Fprintf(&b, " %d products could not be deleted: %s.", r.Failed, strings.Join(r.FailedIDs, ", "))
	}

	return b.String()
}

func describeAge(d time.Duration) string {
	if d == time.Hour {
		return "one hour"
	}

	return d.String()
}

// newProduct validates req and builds the pending record.
func (uc *ProductUseCase) newProduct(email string, req model.UploadRequest) (*model.Product, error) {
	fields := []string{
		req.FileName,
		req.FileType,
		req.ProductName,
		req.ProductPrice.String(),
		req.Description,
		req.Quantity.String(),
		req.Category,
	}
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return nil, e.ErrMissingFields
		}
	}

	price, err := parsePrice(req.ProductPrice.String())
	if err != nil {
		return nil, err
	}

	quantity, err := parseQuantity(req.Quantity.String())
	if err != nil {
		return nil, err
	}

	return &model.Product{
		ID:           uc.newID(),
		FileName:     req.FileName,
		FileType:     req.FileType,
		ProductName:  req.ProductName,
		ProductPrice: price,
		Description:  req.Description,
		Quantity:     quantity,
		Category:     req.Category,
		Email:        email,
		IsApproved:   false,
		CreatedAt:    model.FormatTime(uc.now()),
	}, nil
}

// parsePrice accepts a non-negative amount with at most two decimal places.
func parsePrice(s string) (attributevalue.Number, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return "", e.ErrInvalidPrice
	}

	if d.IsNegative() || !d.Equal(d.Round(2)) {
		return "", e.ErrInvalidPrice
	}

	return attributevalue.Number(d.String()), nil
}

// parseQuantity accepts a non-negative whole number.
func parseQuantity(s string) (attributevalue.Number, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return "", e.ErrInvalidQuantity
	}

	if d.IsNegative() || !d.IsInteger() {
		return "", e.ErrInvalidQuantity
	}

	return attributevalue.Number(d.String()), nil
}
