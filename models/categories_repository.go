package models

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type CategoriesRepository struct {
	db *gorm.DB
}

func NewCategoriesRepository(db *gorm.DB) *CategoriesRepository {
	return &CategoriesRepository{
		db: db,
	}
}

// GetAllCategories returns every category ordered by id.
func (r *CategoriesRepository) GetAllCategories(ctx context.Context) ([]Category, error) {
	categories := []Category{}
	if err := r.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoriesRepository) GetByID(ctx context.Context, id uint) (*Category, error) {
	var category Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// CreateCategory inserts c and fills in its generated ID.
func (r *CategoriesRepository) CreateCategory(ctx context.Context, c *Category) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// UpdateCategory replaces the description of the category identified by c.ID.
func (r *CategoriesRepository) UpdateCategory(ctx context.Context, c *Category) error {
	res := r.db.WithContext(ctx).
		Model(&Category{}).
		Where("id = ?", c.ID).
		Update("descricao", c.Description)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// DeleteCategory removes a category. Postgres refuses while products still
// reference it, which surfaces as ErrReferentialIntegrity.
func (r *CategoriesRepository) DeleteCategory(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Category{}, id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// SearchByDescription matches fragment anywhere in the description, ignoring case.
func (r *CategoriesRepository) SearchByDescription(ctx context.Context, fragment string) ([]Category, error) {
	categories := []Category{}
	if err := r.db.WithContext(ctx).
		Where("descricao ILIKE ?", containsPattern(fragment)).
		Order("id").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching fragment as a literal substring.
func containsPattern(fragment string) string {
	return "%" + likeEscaper.Replace(fragment) + "%"
}

func translateError(err error) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fmt.Errorf("%w: %v", ErrReferentialIntegrity, err)
	}
	return err
}
