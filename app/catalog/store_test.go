package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/generation/farmacia/app/clock"
	"github.com/generation/farmacia/models"
	"github.com/shopspring/decimal"
)

// --- In-memory stores ---

// memDB stands in for Postgres: it assigns ids, enforces the product to
// category foreign key and the price check constraint, and counts writes.
type memDB struct {
	mu           sync.Mutex
	clock        *clock.Fake
	categories   []models.Category
	products     []models.Product
	nextCategory uint
	nextProduct  uint
	writes       int
}

func newMemDB(clk *clock.Fake) *memDB {
	return &memDB{clock: clk}
}

// errPriceCheck mirrors the tb_produtos price >= 0 check constraint.
var errPriceCheck = errors.New("violates check constraint tb_produtos_price_check")

type categoryStore struct{ db *memDB }

type productStore struct{ db *memDB }

func (s categoryStore) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return append([]models.Category{}, s.db.categories...), nil
}

func (s categoryStore) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if i := s.db.categoryIndex(id); i >= 0 {
		c := s.db.categories[i]
		return &c, nil
	}
	return nil, models.ErrCategoryNotFound
}

func (s categoryStore) CreateCategory(ctx context.Context, c *models.Category) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.nextCategory++
	c.ID = s.db.nextCategory
	s.db.categories = append(s.db.categories, *c)
	s.db.writes++
	return nil
}

func (s categoryStore) UpdateCategory(ctx context.Context, c *models.Category) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := s.db.categoryIndex(c.ID)
	if i < 0 {
		return models.ErrCategoryNotFound
	}
	s.db.categories[i] = *c
	s.db.writes++
	return nil
}

func (s categoryStore) DeleteCategory(ctx context.Context, id uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := s.db.categoryIndex(id)
	if i < 0 {
		return models.ErrCategoryNotFound
	}
	for _, p := range s.db.products {
		if p.CategoryID == id {
			return models.ErrReferentialIntegrity
		}
	}
	s.db.categories = append(s.db.categories[:i], s.db.categories[i+1:]...)
	s.db.writes++
	return nil
}

func (s categoryStore) SearchByDescription(ctx context.Context, fragment string) ([]models.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []models.Category{}
	for _, c := range s.db.categories {
		if containsFold(c.Description, fragment) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s productStore) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := make([]models.Product, len(s.db.products))
	for i, p := range s.db.products {
		out[i] = s.db.withCategory(p)
	}
	return out, nil
}

func (s productStore) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := s.db.productIndex(id)
	if i < 0 {
		return nil, models.ErrProductNotFound
	}
	p := s.db.withCategory(s.db.products[i])
	return &p, nil
}

func (s productStore) CreateProduct(ctx context.Context, p *models.Product) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.categoryIndex(p.CategoryID) < 0 {
		return models.ErrReferentialIntegrity
	}
	s.db.nextProduct++
	p.ID = s.db.nextProduct
	p.LastModified = s.db.clock.Now()
	s.db.products = append(s.db.products, *p)
	s.db.writes++
	return nil
}

func (s productStore) UpdateProduct(ctx context.Context, p *models.Product) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := s.db.productIndex(p.ID)
	if i < 0 {
		return models.ErrProductNotFound
	}
	if s.db.categoryIndex(p.CategoryID) < 0 {
		return models.ErrReferentialIntegrity
	}
	p.LastModified = s.db.clock.Now()
	s.db.products[i] = *p
	s.db.writes++
	return nil
}

func (s productStore) DeleteProduct(ctx context.Context, id uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := s.db.productIndex(id)
	if i < 0 {
		return models.ErrProductNotFound
	}
	s.db.products = append(s.db.products[:i], s.db.products[i+1:]...)
	s.db.writes++
	return nil
}

func (s productStore) SearchByName(ctx context.Context, fragment string) ([]models.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []models.Product{}
	for _, p := range s.db.products {
		if containsFold(p.Name, fragment) {
			out = append(out, s.db.withCategory(p))
		}
	}
	return out, nil
}

func (s productStore) Reprice(ctx context.Context, id uint, reprice func(decimal.Decimal) (decimal.Decimal, error)) (*models.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := s.db.productIndex(id)
	if i < 0 {
		return nil, models.ErrProductNotFound
	}
	price, err := reprice(s.db.products[i].Price)
	if err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, errPriceCheck
	}
	s.db.products[i].Price = price
	s.db.products[i].LastModified = s.db.clock.Now()
	s.db.writes++
	p := s.db.withCategory(s.db.products[i])
	return &p, nil
}

func (db *memDB) categoryIndex(id uint) int {
	for i, c := range db.categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (db *memDB) productIndex(id uint) int {
	for i, p := range db.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (db *memDB) withCategory(p models.Product) models.Product {
	if i := db.categoryIndex(p.CategoryID); i >= 0 {
		p.Category = db.categories[i]
	}
	return p
}

func containsFold(s, fragment string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(fragment))
}
