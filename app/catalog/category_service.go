package catalog

import (
	"context"

	"github.com/generation/farmacia/models"
)

// CategoryStore is the persistence the category service needs.
type CategoryStore interface {
	GetAllCategories(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	UpdateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id uint) error
	SearchByDescription(ctx context.Context, fragment string) ([]models.Category, error)
}

// CategoryService validates category input before handing it to the store.
type CategoryService struct {
	repo CategoryStore
}

func NewCategoryService(repo CategoryStore) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.repo.GetAllCategories(ctx)
}

func (s *CategoryService) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, draft models.CategoryDraft) (*models.Category, error) {
	if err := models.ValidateCategory(draft); err != nil {
		return nil, err
	}

	category := &models.Category{Description: draft.Description}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update replaces the description of an existing category. A missing id is
// reported before any validation failure.
func (s *CategoryService) Update(ctx context.Context, id uint, draft models.CategoryDraft) (*models.Category, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := models.ValidateCategory(draft); err != nil {
		return nil, err
	}

	category := &models.Category{ID: id, Description: draft.Description}
	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	return s.repo.DeleteCategory(ctx, id)
}

func (s *CategoryService) SearchByDescription(ctx context.Context, fragment string) ([]models.Category, error) {
	return s.repo.SearchByDescription(ctx, fragment)
}
