package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/anavarro/tillpoint-backend/internal/pos"
	"github.com/anavarro/tillpoint-backend/pkg/db/models"
	pkgerrors "github.com/anavarro/tillpoint-backend/pkg/errors"
)

const defaultSearchLimit = 20

// Service exposes catalog lookups for the register.
type Service interface {
	Lookup(ctx context.Context, query string, limit int) ([]ProductDTO, error)
	ResolveBarcode(ctx context.Context, barcode string) (*pos.ProductRef, error)
}

type unitFinder interface {
	FindUnitByBarcode(ctx context.Context, barcode string) (*models.ProductUnit, *models.Product, error)
	SearchProducts(ctx context.Context, query string, limit int) ([]models.Product, error)
}

// service implements the catalog service.
type service struct {
	repo  unitFinder
	cache *Cache
}

// NewService constructs a catalog service. cache may be nil to disable the
// barcode cache.
func NewService(repo unitFinder, cache *Cache) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo, cache: cache}, nil
}

// Lookup searches active products by title, SKU or barcode.
func (s *service) Lookup(ctx context.Context, query string, limit int) ([]ProductDTO, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search query is required")
	}
	if limit <= 0 || limit > defaultSearchLimit {
		limit = defaultSearchLimit
	}

	products, err := s.repo.SearchProducts(ctx, query, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "searching catalog")
	}

	results := make([]ProductDTO, 0, len(products))
	for _, product := range products {
		results = append(results, toProductDTO(product))
	}
	return results, nil
}

// ResolveBarcode maps a scanned barcode to its product unit. Cache hits skip
// the database; cache failures degrade to a direct read.
func (s *service) ResolveBarcode(ctx context.Context, barcode string) (*pos.ProductRef, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "barcode is required")
	}

	if s.cache != nil {
		if cached, err := s.cache.GetBarcode(ctx, barcode); err == nil && cached != nil {
			return &pos.ProductRef{
				ProductID: cached.ProductID,
				Title:     cached.Title,
				UnitLabel: cached.UnitLabel,
				Barcode:   cached.Barcode,
				UnitPrice: cached.UnitPrice,
			}, nil
		}
	}

	unit, product, err := s.repo.FindUnitByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no product matches the scanned barcode")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving barcode")
	}

	if s.cache != nil {
		// best effort; a failed write never blocks the scan
		_ = s.cache.SetBarcode(ctx, cachedUnit{
			ProductID: product.ID,
			Title:     product.Title,
			UnitLabel: unit.UnitLabel,
			Barcode:   unit.Barcode,
			UnitPrice: unit.UnitPrice,
		})
	}

	return &pos.ProductRef{
		ProductID: product.ID,
		Title:     product.Title,
		UnitLabel: unit.UnitLabel,
		Barcode:   unit.Barcode,
		UnitPrice: unit.UnitPrice,
	}, nil
}
