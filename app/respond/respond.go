package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/generation/farmacia/models"
)

// JSON writes data as a JSON response
func JSON(w http.ResponseWriter, status int, data any, log *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("failed to encode JSON response", "error", err)
	}
}

// Error writes {"error": message}.
func Error(w http.ResponseWriter, status int, message string, log *slog.Logger) {
	JSON(w, status, map[string]string{"error": message}, log)
}

type validationResponse struct {
	Error  string              `json:"error"`
	Fields []models.FieldError `json:"fields"`
}

// ServiceError maps a service failure onto a status code. Anything that is
// not a known domain error is logged and reported as internalMsg with a 500.
func ServiceError(w http.ResponseWriter, err error, internalMsg string, log *slog.Logger) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		JSON(w, http.StatusBadRequest, validationResponse{Error: "validation failed", Fields: verr.Fields}, log)
	case errors.Is(err, models.ErrCategoryNotFound):
		Error(w, http.StatusNotFound, "Category not found", log)
	case errors.Is(err, models.ErrProductNotFound):
		Error(w, http.StatusNotFound, "Product not found", log)
	case errors.Is(err, models.ErrReferentialIntegrity):
		log.Warn("referential integrity violation", "error", err)
		Error(w, http.StatusConflict, "Operation violates referential integrity", log)
	default:
		log.Error(internalMsg, "error", err)
		Error(w, http.StatusInternalServerError, internalMsg, log)
	}
}
