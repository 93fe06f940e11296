package products

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/generation/farmacia/app/respond"
	"github.com/generation/farmacia/models"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID          uint   `json:"id"`
	Description string `json:"descricao"`
}

// Product is the wire form of a product. Price is written with exactly two
// decimals as a JSON number.
type Product struct {
	ID           uint        `json:"id"`
	Name         string      `json:"nome"`
	Price        json.Number `json:"price"`
	LastModified time.Time   `json:"data"`
	Category     Category    `json:"categoria"`
}

type DiscountResponse struct {
	Message string  `json:"message"`
	Product Product `json:"produto"`
}

type productInput struct {
	Name     string          `json:"nome"`
	Price    decimal.Decimal `json:"price"`
	Category struct {
		ID uint `json:"id"`
	} `json:"categoria"`
}

func (in productInput) draft() models.ProductDraft {
	return models.ProductDraft{
		Name:       in.Name,
		Price:      in.Price,
		CategoryID: in.Category.ID,
	}
}

type discountInput struct {
	Percentage decimal.NullDecimal `json:"desconto"`
}

type ProductProvider interface {
	List(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, draft models.ProductDraft) (*models.Product, error)
	Update(ctx context.Context, id uint, draft models.ProductDraft) (*models.Product, error)
	Delete(ctx context.Context, id uint) error
	SearchByName(ctx context.Context, fragment string) ([]models.Product, error)
	ApplyDiscount(ctx context.Context, id uint, percentage decimal.Decimal) (*models.Product, error)
}

type ProductHandler struct {
	svc ProductProvider
	log *slog.Logger
}

func NewProductHandler(svc ProductProvider, log *slog.Logger) *ProductHandler {
	return &ProductHandler{svc: svc, log: log}
}

// Routes mounts the handler under the /produtos prefix.
func (h *ProductHandler) Routes(r chi.Router) {
	r.Get("/", h.HandleGetAll)
	r.Post("/", h.HandleCreate)
	r.Get("/titulo/{titulo}", h.HandleSearch)
	r.Post("/desconto/{id}", h.HandleDiscount)
	r.Get("/{id}", h.HandleGet)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
}

func (h *ProductHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.List(r.Context())
	if err != nil {
		respond.ServiceError(w, err, "Failed to retrieve products", h.log)
		return
	}
	respond.JSON(w, http.StatusOK, toResponses(products), h.log)
}

func (h *ProductHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	product, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		respond.ServiceError(w, err, "Failed to retrieve product", h.log)
		return
	}
	respond.JSON(w, http.StatusOK, toResponse(*product), h.log)
}

func (h *ProductHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid JSON body", h.log)
		return
	}

	product, err := h.svc.Create(r.Context(), input.draft())
	if err != nil {
		respond.ServiceError(w, err, "Failed to create product", h.log)
		return
	}

	h.log.Info("product created", "product_id", product.ID, "category_id", product.CategoryID)
	respond.JSON(w, http.StatusCreated, toResponse(*product), h.log)
}

func (h *ProductHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid JSON body", h.log)
		return
	}

	product, err := h.svc.Update(r.Context(), id, input.draft())
	if err != nil {
		respond.ServiceError(w, err, "Failed to update product", h.log)
		return
	}
	respond.JSON(w, http.StatusOK, toResponse(*product), h.log)
}

func (h *ProductHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.ServiceError(w, err, "Failed to delete product", h.log)
		return
	}

	h.log.Info("product deleted", "product_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// HandleSearch answers 404 when no product name matches.
func (h *ProductHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	fragment, ok := h.pathText(w, r, "titulo")
	if !ok {
		return
	}
	products, err := h.svc.SearchByName(r.Context(), fragment)
	if err != nil {
		respond.ServiceError(w, err, "Failed to search products", h.log)
		return
	}
	if len(products) == 0 {
		respond.Error(w, http.StatusNotFound, "No products found", h.log)
		return
	}
	respond.JSON(w, http.StatusOK, toResponses(products), h.log)
}

// HandleDiscount applies {"desconto": N} to the stored price. A missing
// body or field means a 0% discount.
func (h *ProductHandler) HandleDiscount(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var input discountInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil && !errors.Is(err, io.EOF) {
		respond.Error(w, http.StatusBadRequest, "Invalid JSON body", h.log)
		return
	}
	percentage := decimal.Zero
	if input.Percentage.Valid {
		percentage = input.Percentage.Decimal
	}

	product, err := h.svc.ApplyDiscount(r.Context(), id, percentage)
	if err != nil {
		respond.ServiceError(w, err, "Failed to apply discount", h.log)
		return
	}

	h.log.Info("discount applied",
		"product_id", id,
		"percentage", percentage.String(),
		"price", product.Price.StringFixed(2),
	)
	respond.JSON(w, http.StatusOK, DiscountResponse{
		Message: "Desconto definido: " + percentage.String() + "%",
		Product: toResponse(*product),
	}, h.log)
}

// pathText returns the decoded path parameter key. chi hands back the raw
// escaped segment whenever the request carries a RawPath.
func (h *ProductHandler) pathText(w http.ResponseWriter, r *http.Request, key string) (string, bool) {
	raw := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return raw, true
	}
	text, err := url.PathUnescape(raw)
	if err != nil {
		h.log.Warn("invalid product search term", key, raw, "error", err)
		respond.Error(w, http.StatusBadRequest, "Invalid search term", h.log)
		return "", false
	}
	return text, true
}

func (h *ProductHandler) pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		h.log.Warn("invalid product ID", "id", raw, "error", err)
		respond.Error(w, http.StatusBadRequest, "Invalid ID supplied", h.log)
		return 0, false
	}
	return uint(id), true
}

func toResponse(p models.Product) Product {
	return Product{
		ID:           p.ID,
		Name:         p.Name,
		Price:        json.Number(p.Price.StringFixed(2)),
		LastModified: p.LastModified,
		Category: Category{
			ID:          p.Category.ID,
			Description: p.Category.Description,
		},
	}
}

func toResponses(products []models.Product) []Product {
	response := make([]Product, len(products))
	for i, p := range products {
		response[i] = toResponse(p)
	}
	return response
}
