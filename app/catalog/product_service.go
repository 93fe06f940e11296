package catalog

import (
	"context"
	"errors"

	"github.com/generation/farmacia/models"
	"github.com/shopspring/decimal"
)

// ProductStore is the persistence the product service needs.
type ProductStore interface {
	GetAllProducts(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	SearchByName(ctx context.Context, fragment string) ([]models.Product, error)
	Reprice(ctx context.Context, id uint, reprice func(decimal.Decimal) (decimal.Decimal, error)) (*models.Product, error)
}

// CategoryResolver looks up the category a product refers to.
type CategoryResolver interface {
	GetByID(ctx context.Context, id uint) (*models.Category, error)
}

type ProductService struct {
	repo       ProductStore
	categories CategoryResolver
}

func NewProductService(repo ProductStore, categories CategoryResolver) *ProductService {
	return &ProductService{
		repo:       repo,
		categories: categories,
	}
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAllProducts(ctx)
}

func (s *ProductService) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates the draft, checks that its category exists and stores the product.
func (s *ProductService) Create(ctx context.Context, draft models.ProductDraft) (*models.Product, error) {
	product, err := s.build(ctx, draft)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update replaces every mutable field of an existing product.
func (s *ProductService) Update(ctx context.Context, id uint, draft models.ProductDraft) (*models.Product, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	product, err := s.build(ctx, draft)
	if err != nil {
		return nil, err
	}
	product.ID = id
	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id uint) error {
	return s.repo.DeleteProduct(ctx, id)
}

func (s *ProductService) SearchByName(ctx context.Context, fragment string) ([]models.Product, error) {
	return s.repo.SearchByName(ctx, fragment)
}

// ApplyDiscount lowers the stored price of a product by percentage.
// Each call discounts the current price, so repeated calls compound.
func (s *ProductService) ApplyDiscount(ctx context.Context, id uint, percentage decimal.Decimal) (*models.Product, error) {
	return s.repo.Reprice(ctx, id, func(price decimal.Decimal) (decimal.Decimal, error) {
		return models.ApplyDiscount(price, percentage)
	})
}

// build validates draft and resolves its category into an unsaved product.
// A missing category is reported alongside the field violations.
func (s *ProductService) build(ctx context.Context, draft models.ProductDraft) (*models.Product, error) {
	verr := &models.ValidationError{}
	if err := models.ValidateProduct(draft); err != nil && !errors.As(err, &verr) {
		return nil, err
	}

	var category *models.Category
	if draft.CategoryID != 0 {
		c, err := s.categories.GetByID(ctx, draft.CategoryID)
		switch {
		case errors.Is(err, models.ErrCategoryNotFound):
			verr.Add("categoria", models.ErrCategoryNotFound.Error())
		case err != nil:
			return nil, err
		default:
			category = c
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	return &models.Product{
		Name:       draft.Name,
		Price:      models.RoundMoney(draft.Price),
		CategoryID: category.ID,
		Category:   *category,
	}, nil
}
