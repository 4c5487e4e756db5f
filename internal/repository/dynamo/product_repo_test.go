package dynamo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sh3r4rd/product_uploads/internal/model"
	"github.com/sh3r4rd/product_uploads/internal/repository/dynamo"
	"github.com/sh3r4rd/product_uploads/pkg/e"
)

type fakeDB struct {
	pages    []*dynamodb.ScanOutput
	scanErr  error
	scans    []*dynamodb.ScanInput
	puts     []*dynamodb.PutItemInput
	updates  []*dynamodb.UpdateItemInput
	deletes  []*dynamodb.DeleteItemInput
	writeErr error
}

func (f *fakeDB) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.scans = append(f.scans, in)
	if f.scanErr != nil {
		return nil, f.scanErr
	}

	i := len(f.scans) - 1
	if i >= len(f.pages) {
		return &dynamodb.ScanOutput{}, nil
	}

	return f.pages[i], nil
}

func (f *fakeDB) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.puts = append(f.puts, in)
	return &dynamodb.PutItemOutput{}, f.writeErr
}

func (f *fakeDB) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updates = append(f.updates, in)
	return &dynamodb.UpdateItemOutput{}, f.writeErr
}

func (f *fakeDB) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.deletes = append(f.deletes, in)
	return &dynamodb.DeleteItemOutput{}, f.writeErr
}

func items(t *testing.T, products ...model.Product) []map[string]types.AttributeValue {
	t.Helper()

	out := make([]map[string]types.AttributeValue, 0, len(products))
	for _, p := range products {
		if p.ProductPrice == "" {
			p.ProductPrice = "1"
		}
		if p.Quantity == "" {
			p.Quantity = "1"
		}
		av, err := attributevalue.MarshalMap(p)
		if err != nil {
			t.Fatalf("MarshalMap: %v", err)
		}
		out = append(out, av)
	}

	return out
}

func key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id}}
}

func keyID(t *testing.T, k map[string]types.AttributeValue) string {
	t.Helper()

	s, ok := k["id"].(*types.AttributeValueMemberS)
	if !ok {
		t.Fatalf("key id is %T", k["id"])
	}

	return s.Value
}

func TestCreateIsConditional(t *testing.T) {
	db := &fakeDB{}
	repo := dynamo.NewProductRepo(db, "Products")

	p := &model.Product{
		ID:           "p-1",
		FileName:     "lamp.png",
		ProductPrice: "10",
		Quantity:     "1",
		CreatedAt:    "2026-01-01T00:00:00.000Z",
	}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if len(db.puts) != 1 {
		t.Fatalf("got %d puts, want 1", len(db.puts))
	}

	in := db.puts[0]
	if aws.ToString(in.TableName) != "Products" {
		t.Errorf("TableName = %q", aws.ToString(in.TableName))
	}
	if aws.ToString(in.ConditionExpression) == "" {
		t.Error("PutItem without a condition would overwrite an existing id")
	}
	if _, ok := in.Item["imageUrl"]; ok {
		t.Error("imageUrl must not be written at creation")
	}
}

func TestFindByFileNameFollowsPages(t *testing.T) {
	db := &fakeDB{
		pages: []*dynamodb.ScanOutput{
			{Items: items(t, model.Product{ID: "a", FileName: "x.png"}), LastEvaluatedKey: key("a")},
			{Items: items(t, model.Product{ID: "b", FileName: "x.png"})},
		},
	}
	repo := dynamo.NewProductRepo(db, "Products")

	got, err := repo.FindByFileName(context.Background(), "x.png")
	if err != nil {
		t.Fatalf("FindByFileName: %v", err)
	}

	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("got %+v", got)
	}

	if len(db.scans) != 2 {
		t.Fatalf("got %d scans, want 2", len(db.scans))
	}
	if keyID(t, db.scans[1].ExclusiveStartKey) != "a" {
		t.Error("second page did not start after the first")
	}
	if db.scans[0].FilterExpression == nil {
		t.Error("scan has no filter expression")
	}
}

func TestSetImageURL(t *testing.T) {
	tests := []struct {
		name     string
		writeErr error
		wantErr  error
	}{
		{"updated", nil, nil},
		{"record gone", &types.ConditionalCheckFailedException{}, e.ErrProductNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &fakeDB{writeErr: tt.writeErr}
			repo := dynamo.NewProductRepo(db, "Products")

			err := repo.SetImageURL(context.Background(), "p-1", "https://b.s3.amazonaws.com/x.png")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}

			in := db.updates[0]
			if keyID(t, in.Key) != "p-1" {
				t.Errorf("updated key %v", in.Key)
			}

			var found bool
			for _, v := range in.ExpressionAttributeValues {
				if s, ok := v.(*types.AttributeValueMemberS); ok && s.Value == "https://b.s3.amazonaws.com/x.png" {
					found = true
				}
			}
			if !found {
				t.Error("image url missing from update values")
			}
		})
	}
}

func TestListApprovedWithLimitReturnsCursor(t *testing.T) {
	approved := model.Product{ID: "a", IsApproved: true, ImageURL: "https://b.s3.amazonaws.com/a.png"}
	db := &fakeDB{
		pages: []*dynamodb.ScanOutput{
			{Items: items(t, approved), LastEvaluatedKey: key("a")},
			{Items: items(t)},
		},
	}
	repo := dynamo.NewProductRepo(db, "Products")

	got, next, err := repo.ListApproved(context.Background(), 25, "")
	if err != nil {
		t.Fatalf("ListApproved: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("got %+v", got)
	}
	if next == "" {
		t.Fatal("expected a cursor")
	}
	if aws.ToInt32(db.scans[0].Limit) != 25 {
		t.Errorf("Limit = %d", aws.ToInt32(db.scans[0].Limit))
	}

	got, next, err = repo.ListApproved(context.Background(), 25, next)
	if err != nil {
		t.Fatalf("ListApproved page 2: %v", err)
	}
	if len(got) != 0 || next != "" {
		t.Errorf("page 2 = %+v, next %q", got, next)
	}
	if keyID(t, db.scans[1].ExclusiveStartKey) != "a" {
		t.Error("cursor did not resume after a")
	}
}

func TestListApprovedWithoutLimitDrains(t *testing.T) {
	db := &fakeDB{
		pages: []*dynamodb.ScanOutput{
			{Items: items(t, model.Product{ID: "a"}), LastEvaluatedKey: key("a")},
			{Items: items(t, model.Product{ID: "b"}), LastEvaluatedKey: key("b")},
			{Items: items(t, model.Product{ID: "c"})},
		},
	}
	repo := dynamo.NewProductRepo(db, "Products")

	got, next, err := repo.ListApproved(context.Background(), 0, "")
	if err != nil {
		t.Fatalf("ListApproved: %v", err)
	}
	if len(got) != 3 || next != "" {
		t.Errorf("got %d products, next %q", len(got), next)
	}
	if db.scans[0].Limit != nil {
		t.Error("unbounded listing must not set Limit")
	}
}

func TestListApprovedRejectsBadCursor(t *testing.T) {
	repo := dynamo.NewProductRepo(&fakeDB{}, "Products")

	_, _, err := repo.ListApproved(context.Background(), 10, "%%%")
	if !errors.Is(err, e.ErrInvalidPagination) {
		t.Errorf("err = %v, want ErrInvalidPagination", err)
	}
}

func TestScanStaleDrainsAllPages(t *testing.T) {
	db := &fakeDB{
		pages: []*dynamodb.ScanOutput{
			{Items: items(t, model.Product{ID: "a"}, model.Product{ID: "b"}), LastEvaluatedKey: key("b")},
			{Items: items(t, model.Product{ID: "c"})},
		},
	}
	repo := dynamo.NewProductRepo(db, "Products")

	cutoff := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
	got, err := repo.ScanStale(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("ScanStale: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d, want 3", len(got))
	}
	if len(db.scans) != 2 {
		t.Errorf("got %d scans, want 2", len(db.scans))
	}

	var found bool
	for _, v := range db.scans[0].ExpressionAttributeValues {
		if s, ok := v.(*types.AttributeValueMemberS); ok && s.Value == "2026-03-01T11:00:00.000Z" {
			found = true
		}
	}
	if !found {
		t.Error("cutoff missing from filter values")
	}
}

func TestScanStaleError(t *testing.T) {
	db := &fakeDB{scanErr: errors.New("throttled")}
	repo := dynamo.NewProductRepo(db, "Products")

	if _, err := repo.ScanStale(context.Background(), time.Now()); err == nil {
		t.Fatal("expected error")
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name     string
		writeErr error
		wantErr  error
	}{
		{"deleted", nil, nil},
		{"linked meanwhile", &types.ConditionalCheckFailedException{}, e.ErrImageLinked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &fakeDB{writeErr: tt.writeErr}
			repo := dynamo.NewProductRepo(db, "Products")

			err := repo.Delete(context.Background(), "p-9")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}

			in := db.deletes[0]
			if keyID(t, in.Key) != "p-9" {
				t.Errorf("deleted key %v", in.Key)
			}
			if aws.ToString(in.ConditionExpression) == "" {
				t.Error("delete must be conditional on imageUrl being absent")
			}
		})
	}
}
