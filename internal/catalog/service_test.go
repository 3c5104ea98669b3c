package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/anavarro/tillpoint-backend/pkg/db/models"
	pkgerrors "github.com/anavarro/tillpoint-backend/pkg/errors"
	"github.com/anavarro/tillpoint-backend/pkg/redis"
)

type fakeRepo struct {
	units    map[string]models.ProductUnit
	products map[uuid.UUID]models.Product
	finds    int
}

func (f *fakeRepo) FindUnitByBarcode(ctx context.Context, barcode string) (*models.ProductUnit, *models.Product, error) {
	f.finds++
	unit, ok := f.units[barcode]
	if !ok {
		return nil, nil, gorm.ErrRecordNotFound
	}
	product := f.products[unit.ProductID]
	return &unit, &product, nil
}

func (f *fakeRepo) SearchProducts(ctx context.Context, query string, limit int) ([]models.Product, error) {
	var results []models.Product
	for _, product := range f.products {
		results = append(results, product)
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

type fakeCacheStore struct {
	data map[string]string
}

func (f *fakeCacheStore) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (f *fakeCacheStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.data[key] = value.(string)
	return nil
}

func (f *fakeCacheStore) CatalogBarcodeKey(barcode string) string {
	return "tp:catalog:barcode:" + barcode
}

func seededRepo() *fakeRepo {
	productID := uuid.New()
	return &fakeRepo{
		units: map[string]models.ProductUnit{
			"12345": {
				ID:        uuid.New(),
				ProductID: productID,
				Barcode:   "12345",
				UnitLabel: "250g",
				UnitPrice: decimal.RequireFromString("15.50"),
			},
		},
		products: map[uuid.UUID]models.Product{
			productID: {
				ID:    productID,
				Title: "house blend",
				SKU:   "HB-250",
			},
		},
	}
}

func TestResolveBarcode(t *testing.T) {
	repo := seededRepo()
	svc, err := NewService(repo, nil)
	if err != nil {
		t.Fatalf("NewService error: %v", err)
	}

	ref, err := svc.ResolveBarcode(context.Background(), "12345")
	if err != nil {
		t.Fatalf("ResolveBarcode error: %v", err)
	}
	if ref.Title != "house blend" || ref.UnitLabel != "250g" {
		t.Fatalf("unexpected resolution %+v", ref)
	}
	if !ref.UnitPrice.Equal(decimal.RequireFromString("15.50")) {
		t.Fatalf("unexpected unit price %s", ref.UnitPrice)
	}
}

func TestResolveBarcodeNotFound(t *testing.T) {
	svc, _ := NewService(seededRepo(), nil)

	_, err := svc.ResolveBarcode(context.Background(), "unknown")
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestResolveBarcodeValidation(t *testing.T) {
	svc, _ := NewService(seededRepo(), nil)

	if _, err := svc.ResolveBarcode(context.Background(), "  "); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("blank barcode should fail validation, got %v", err)
	}
}

func TestResolveBarcodeUsesCache(t *testing.T) {
	repo := seededRepo()
	store := &fakeCacheStore{data: map[string]string{}}
	svc, err := NewService(repo, NewCache(store, time.Minute))
	if err != nil {
		t.Fatalf("NewService error: %v", err)
	}

	if _, err := svc.ResolveBarcode(context.Background(), "12345"); err != nil {
		t.Fatalf("first resolve error: %v", err)
	}
	if repo.finds != 1 {
		t.Fatalf("first resolve should hit the repository")
	}

	ref, err := svc.ResolveBarcode(context.Background(), "12345")
	if err != nil {
		t.Fatalf("second resolve error: %v", err)
	}
	if repo.finds != 1 {
		t.Fatalf("second resolve should be served from cache, repo hits %d", repo.finds)
	}
	if !ref.UnitPrice.Equal(decimal.RequireFromString("15.50")) {
		t.Fatalf("cached price mismatch: %s", ref.UnitPrice)
	}
}

func TestLookupValidatesQuery(t *testing.T) {
	svc, _ := NewService(seededRepo(), nil)

	if _, err := svc.Lookup(context.Background(), "  ", 10); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("blank query should fail validation, got %v", err)
	}
}

func TestLookupReturnsMatches(t *testing.T) {
	svc, _ := NewService(seededRepo(), nil)

	results, err := svc.Lookup(context.Background(), "house", 10)
	if err != nil {
		t.Fatalf("Lookup error: %v", err)
	}
	if len(results) != 1 || results[0].Title != "house blend" {
		t.Fatalf("unexpected results %+v", results)
	}
}
