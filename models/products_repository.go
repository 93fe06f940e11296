package models

import (
	"context"
	"errors"

	"github.com/generation/farmacia/app/clock"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductsRepository struct {
	db    *gorm.DB
	clock clock.Clock
}

func NewProductsRepository(db *gorm.DB, clk clock.Clock) *ProductsRepository {
	return &ProductsRepository{
		db:    db,
		clock: clk,
	}
}

// GetAllProducts returns every product with its category, ordered by id.
func (r *ProductsRepository) GetAllProducts(ctx context.Context) ([]Product, error) {
	products := []Product{}
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Order("id").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductsRepository) GetByID(ctx context.Context, id uint) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err // Other DB error
	}
	return &product, nil
}

// CreateProduct inserts p, stamping LastModified and filling in the generated ID.
// The Category association is never written.
func (r *ProductsRepository) CreateProduct(ctx context.Context, p *Product) error {
	p.LastModified = r.clock.Now()
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// UpdateProduct replaces every mutable column of the product identified by p.ID.
func (r *ProductsRepository) UpdateProduct(ctx context.Context, p *Product) error {
	p.LastModified = r.clock.Now()
	res := r.db.WithContext(ctx).
		Model(&Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"nome":         p.Name,
			"price":        p.Price,
			"data":         p.LastModified,
			"categoria_id": p.CategoryID,
		})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *ProductsRepository) DeleteProduct(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Product{}, id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// SearchByName matches fragment anywhere in the name, ignoring case.
func (r *ProductsRepository) SearchByName(ctx context.Context, fragment string) ([]Product, error) {
	products := []Product{}
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Where("nome ILIKE ?", containsPattern(fragment)).
		Order("id").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Reprice loads the product under a row lock, replaces its price with
// reprice(current), and stores it in the same transaction. Concurrent
// callers on the same id run one after the other. An error from reprice
// rolls back and is returned unchanged.
func (r *ProductsRepository) Reprice(ctx context.Context, id uint, reprice func(decimal.Decimal) (decimal.Decimal, error)) (*Product, error) {
	var product Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		price, err := reprice(product.Price)
		if err != nil {
			return err
		}
		product.Price = price
		product.LastModified = r.clock.Now()

		if err := tx.Model(&Product{}).
			Where("id = ?", product.ID).
			Updates(map[string]any{"price": product.Price, "data": product.LastModified}).Error; err != nil {
			return translateError(err)
		}
		return tx.First(&product.Category, product.CategoryID).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}
