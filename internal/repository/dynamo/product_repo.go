package dynamo

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/jimlawless/whereami"
	"github.com/sh3r4rd/product_uploads/internal/model"
	"github.com/sh3r4rd/product_uploads/pkg/e"
)

// API is the subset of the DynamoDB client the repository uses.
type API interface {
	dynamodb.ScanAPIClient
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// ProductRepo stores product records in a single DynamoDB table keyed by id.
// Every read is a filtered Scan; the table has no secondary indexes.
type ProductRepo struct {
	db    API
	table string
}

func NewProductRepo(db API, table string) *ProductRepo {
	return &ProductRepo{
		db:    db,
		table: table,
	}
}

// Create writes a new record, refusing to overwrite an existing id.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	cond, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name(model.AttrID))).
		Build()
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	_, err = r.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(r.table),
		Item:                      item,
		ConditionExpression:       cond.Condition(),
		ExpressionAttributeNames:  cond.Names(),
		ExpressionAttributeValues: cond.Values(),
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// FindByFileName returns every record whose fileName equals fileName.
func (r *ProductRepo) FindByFileName(ctx context.Context, fileName string) ([]model.Product, error) {
	filter := expression.Name(model.AttrFileName).Equal(expression.Value(fileName))

	products, _, err := r.scan(ctx, filter, 0, nil)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return products, nil
}

// SetImageURL sets imageUrl on an existing record. It returns
// e.ErrProductNotFound when the record is gone.
func (r *ProductRepo) SetImageURL(ctx context.Context, id, imageURL string) error {
	expr, err := expression.NewBuilder().
		WithUpdate(expression.Set(expression.Name(model.AttrImageURL), expression.Value(imageURL))).
		WithCondition(expression.AttributeExists(expression.Name(model.AttrID))).
		Build()
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	_, err = r.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       idKey(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if isConditionFailed(err) {
			return e.Wrap(id, e.ErrProductNotFound)
		}
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// ListApproved returns approved records that have an image. With limit 0 it
// follows every page and returns an empty cursor; otherwise it evaluates at
// most limit items starting at cursor and returns the cursor of the next page.
func (r *ProductRepo) ListApproved(ctx context.Context, limit int32, cursor string) ([]model.Product, string, error) {
	filter := expression.AttributeExists(expression.Name(model.AttrImageURL)).
		And(expression.Name(model.AttrIsApproved).Equal(expression.Value(true)))

	startKey, err := decodeCursor(cursor)
	if err != nil {
		return nil, "", err
	}

	products, lastKey, err := r.scan(ctx, filter, limit, startKey)
	if err != nil {
		return nil, "", e.Wrap(whereami.WhereAmI(), err)
	}

	next, err := encodeCursor(lastKey)
	if err != nil {
		return nil, "", e.Wrap(whereami.WhereAmI(), err)
	}

	return products, next, nil
}

// ScanStale returns every record created before cutoff that has no image.
func (r *ProductRepo) ScanStale(ctx context.Context, cutoff time.Time) ([]model.Product, error) {
	filter := expression.Name(model.AttrCreatedAt).LessThan(expression.Value(model.FormatTime(cutoff))).
		And(expression.AttributeNotExists(expression.Name(model.AttrImageURL)))

	input, err := r.scanInput(filter, nil)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	products, err := r.drain(ctx, input)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return products, nil
}

// Delete removes a record unless an image was linked to it in the meantime,
// in which case e.ErrImageLinked is returned.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	cond, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name(model.AttrImageURL))).
		Build()
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	_, err = r.db.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                 aws.String(r.table),
		Key:                       idKey(id),
		ConditionExpression:       cond.Condition(),
		ExpressionAttributeNames:  cond.Names(),
		ExpressionAttributeValues: cond.Values(),
	})
	if err != nil {
		if isConditionFailed(err) {
			return e.Wrap(id, e.ErrImageLinked)
		}
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// scan runs a filtered Scan. With limit 0 it drains every page; otherwise it
// issues a single request with Limit set and returns its LastEvaluatedKey.
func (r *ProductRepo) scan(
	ctx context.Context,
	filter expression.ConditionBuilder,
	limit int32,
	startKey map[string]types.AttributeValue,
) ([]model.Product, map[string]types.AttributeValue, error) {
	input, err := r.scanInput(filter, startKey)
	if err != nil {
		return nil, nil, err
	}

	if limit <= 0 {
		products, err := r.drain(ctx, input)
		return products, nil, err
	}

	input.Limit = aws.Int32(limit)

	out, err := r.db.Scan(ctx, input)
	if err != nil {
		return nil, nil, err
	}

	products := []model.Product{}
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &products); err != nil {
		return nil, nil, err
	}

	return products, out.LastEvaluatedKey, nil
}

// drain follows every page of input.
func (r *ProductRepo) drain(ctx context.Context, input *dynamodb.ScanInput) ([]model.Product, error) {
	products := []model.Product{}

	paginator := dynamodb.NewScanPaginator(r.db, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}

		var batch []model.Product
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, err
		}
		products = append(products, batch...)
	}

	return products, nil
}

func (r *ProductRepo) scanInput(filter expression.ConditionBuilder, startKey map[string]types.AttributeValue) (*dynamodb.ScanInput, error) {
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, err
	}

	return &dynamodb.ScanInput{
		TableName:                 aws.String(r.table),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ExclusiveStartKey:         startKey,
	}, nil
}

func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		model.AttrID: &types.AttributeValueMemberS{Value: id},
	}
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

// The cursor is the id of the last evaluated item; the table key has no
// other attributes.
func encodeCursor(key map[string]types.AttributeValue) (string, error) {
	if len(key) == 0 {
		return "", nil
	}

	var k struct {
		ID string `dynamodbav:"id"`
	}
	if err := attributevalue.UnmarshalMap(key, &k); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString([]byte(k.ID)), nil
}

func decodeCursor(cursor string) (map[string]types.AttributeValue, error) {
	if cursor == "" {
		return nil, nil
	}

	id, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil || len(id) == 0 {
		return nil, e.Wrap("cursor", e.ErrInvalidPagination)
	}

	return idKey(string(id)), nil
}
