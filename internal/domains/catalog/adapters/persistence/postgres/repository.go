package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-marketplace/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-marketplace/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists products in PostgreSQL using GORM. It accepts either a
// pooled handle or a transaction handle, so the order placement transactor can
// reuse it inside a transaction.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// productRecord maps the product aggregate to the products table.
type productRecord struct {
	ID          string          `gorm:"primaryKey;column:id;size:64"`
	SellerEmail string          `gorm:"column:seller_email;size:320;index"`
	Name        string          `gorm:"column:name"`
	Description string          `gorm:"column:description;type:text"`
	ImageURL    string          `gorm:"column:image_url"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Stock       int             `gorm:"column:stock;check:chk_products_stock,stock >= 0"`
	Category    string          `gorm:"column:category;index"`
	Status      int             `gorm:"column:status;index"`
	CreatedAt   time.Time       `gorm:"column:created_at;index"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Save inserts or updates a product.
func (r *Repository) Save(ctx context.Context, product *domain.Product) (*ports.ProductProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toRecord(product)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":        record.Name,
				"description": record.Description,
				"image_url":   record.ImageURL,
				"price":       record.Price,
				"stock":       record.Stock,
				"category":    record.Category,
				"status":      record.Status,
				"updated_at":  gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// Update rewrites the editable columns only while updated_at still holds the
// value the caller read. Stock decrements also bump updated_at.
func (r *Repository) Update(ctx context.Context, product *domain.Product, unmodifiedSince time.Time) (*ports.ProductProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(product)
	result := r.db.WithContext(ctx).
		Model(&productRecord{}).
		Where("id = ? AND updated_at = ?", record.ID, unmodifiedSince).
		Updates(map[string]any{
			"name":        record.Name,
			"description": record.Description,
			"image_url":   record.ImageURL,
			"price":       record.Price,
			"stock":       record.Stock,
			"category":    record.Category,
			"status":      record.Status,
			"updated_at":  gorm.Expr("clock_timestamp()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, record.ID); err != nil {
			return nil, err
		}
		return nil, ports.ErrStale
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a product by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*ports.ProductProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.first(r.db.WithContext(ctx), id)
}

// GetForUpdate fetches a product and locks its row until the surrounding transaction ends.
func (r *Repository) GetForUpdate(ctx context.Context, id string) (*ports.ProductProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// Delete removes a product by identifier.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&productRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns products in creation order, optionally narrowed to one seller.
func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]*ports.ProductProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC")
	if filter.SellerEmail != "" {
		query = query.Where("LOWER(seller_email) = LOWER(?)", filter.SellerEmail)
	}
	var records []productRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]*ports.ProductProjection, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

// DecrementStock performs a conditional update that only succeeds while the
// product is active and holds at least qty units. PostgreSQL serializes
// concurrent updates of the same row, so the losing request re-evaluates the
// predicate against the committed stock.
func (r *Repository) DecrementStock(ctx context.Context, id string, qty int) (*ports.ProductProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if qty <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	result := r.db.WithContext(ctx).
		Model(&productRecord{}).
		Where("id = ? AND status = ? AND stock >= ?", id, int(domain.StatusActive), qty).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock - ?", qty),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected == 0 {
		if err := current.Entity.CheckPurchase(qty); err != nil {
			return nil, err
		}
		return nil, domain.ErrInsufficientStock
	}
	return current, nil
}

func (r *Repository) first(query *gorm.DB, id string) (*ports.ProductProjection, error) {
	var record productRecord
	if err := query.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}

func toRecord(product *domain.Product) productRecord {
	return productRecord{
		ID:          product.ID,
		SellerEmail: product.SellerEmail,
		Name:        product.Name,
		Description: product.Description,
		ImageURL:    product.ImageURL,
		Price:       product.Price,
		Stock:       product.Stock,
		Category:    product.Category,
		Status:      int(product.Status),
	}
}

func (r productRecord) toDomain() *ports.ProductProjection {
	return projection.New(&domain.Product{
		ID:          r.ID,
		SellerEmail: r.SellerEmail,
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Price:       r.Price,
		Stock:       r.Stock,
		Category:    r.Category,
		Status:      domain.Status(r.Status),
	}, r.CreatedAt, r.UpdatedAt)
}
