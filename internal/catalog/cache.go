package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

type cacheStore interface {
	Get(context.Context, string) (string, error)
	Set(context.Context, string, any, time.Duration) error
	CatalogBarcodeKey(barcode string) string
}

// Cache is a read-through cache for barcode resolutions. Misses and errors
// both fall through to the repository; the cache is never authoritative.
type Cache struct {
	store cacheStore
	ttl   time.Duration
}

// NewCache builds the barcode cache. ttl <= 0 disables expiry.
func NewCache(store cacheStore, ttl time.Duration) *Cache {
	return &Cache{store: store, ttl: ttl}
}

type cachedUnit struct {
	ProductID uuid.UUID       `json:"product_id"`
	Title     string          `json:"title"`
	UnitLabel string          `json:"unit_label"`
	Barcode   string          `json:"barcode"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// GetBarcode returns the cached resolution, or (nil, nil) on a miss.
func (c *Cache) GetBarcode(ctx context.Context, barcode string) (*cachedUnit, error) {
	raw, err := c.store.Get(ctx, c.store.CatalogBarcodeKey(barcode))
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var unit cachedUnit
	if err := json.Unmarshal([]byte(raw), &unit); err != nil {
		return nil, err
	}
	return &unit, nil
}

// SetBarcode stores a resolution under the barcode key.
func (c *Cache) SetBarcode(ctx context.Context, unit cachedUnit) error {
	payload, err := json.Marshal(unit)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, c.store.CatalogBarcodeKey(unit.Barcode), string(payload), c.ttl)
}
