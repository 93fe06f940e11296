package categories

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/generation/farmacia/app/respond"
	"github.com/generation/farmacia/models"
	"github.com/go-chi/chi/v5"
)

type CategoryResponse struct {
	ID          uint   `json:"id"`
	Description string `json:"descricao"`
}

type categoryInput struct {
	Description string `json:"descricao"`
}

type CategoryProvider interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	Create(ctx context.Context, draft models.CategoryDraft) (*models.Category, error)
	Update(ctx context.Context, id uint, draft models.CategoryDraft) (*models.Category, error)
	Delete(ctx context.Context, id uint) error
	SearchByDescription(ctx context.Context, fragment string) ([]models.Category, error)
}

type CategoryHandler struct {
	svc CategoryProvider
	log *slog.Logger
}

func NewCategoryHandler(svc CategoryProvider, log *slog.Logger) *CategoryHandler {
	return &CategoryHandler{svc: svc, log: log}
}

// Routes mounts the handler under the /categorias prefix.
func (h *CategoryHandler) Routes(r chi.Router) {
	r.Get("/", h.HandleGetAll)
	r.Post("/", h.HandleCreate)
	r.Get("/descricao/{descricao}", h.HandleSearch)
	r.Get("/{id}", h.HandleGet)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
}

func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.List(r.Context())
	if err != nil {
		respond.ServiceError(w, err, "failed to fetch categories", h.log)
		return
	}
	respond.JSON(w, http.StatusOK, toResponses(categories), h.log)
}

func (h *CategoryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	category, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		respond.ServiceError(w, err, "failed to fetch category", h.log)
		return
	}
	respond.JSON(w, http.StatusOK, toResponse(*category), h.log)
}

func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input categoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid JSON body", h.log)
		return
	}

	category, err := h.svc.Create(r.Context(), models.CategoryDraft{Description: input.Description})
	if err != nil {
		respond.ServiceError(w, err, "Failed to create category", h.log)
		return
	}

	h.log.Info("category created", "category_id", category.ID)
	respond.JSON(w, http.StatusCreated, toResponse(*category), h.log)
}

func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var input categoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid JSON body", h.log)
		return
	}

	category, err := h.svc.Update(r.Context(), id, models.CategoryDraft{Description: input.Description})
	if err != nil {
		respond.ServiceError(w, err, "Failed to update category", h.log)
		return
	}
	respond.JSON(w, http.StatusOK, toResponse(*category), h.log)
}

func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.ServiceError(w, err, "Failed to delete category", h.log)
		return
	}

	h.log.Info("category deleted", "category_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// HandleSearch answers 404 when nothing matches.
func (h *CategoryHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	fragment, ok := h.pathText(w, r, "descricao")
	if !ok {
		return
	}
	categories, err := h.svc.SearchByDescription(r.Context(), fragment)
	if err != nil {
		respond.ServiceError(w, err, "failed to search categories", h.log)
		return
	}
	if len(categories) == 0 {
		respond.Error(w, http.StatusNotFound, "No categories found", h.log)
		return
	}
	respond.JSON(w, http.StatusOK, toResponses(categories), h.log)
}

// pathText returns the decoded path parameter key. chi hands back the raw
// escaped segment whenever the request carries a RawPath.
func (h *CategoryHandler) pathText(w http.ResponseWriter, r *http.Request, key string) (string, bool) {
	raw := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return raw, true
	}
	text, err := url.PathUnescape(raw)
	if err != nil {
		h.log.Warn("invalid category search term", key, raw, "error", err)
		respond.Error(w, http.StatusBadRequest, "Invalid search term", h.log)
		return "", false
	}
	return text, true
}

func (h *CategoryHandler) pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		h.log.Warn("invalid category ID", "id", raw, "error", err)
		respond.Error(w, http.StatusBadRequest, "Invalid ID supplied", h.log)
		return 0, false
	}
	return uint(id), true
}

func toResponse(c models.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Description: c.Description}
}

func toResponses(categories []models.Category) []CategoryResponse {
	response := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		response[i] = toResponse(c)
	}
	return response
}
