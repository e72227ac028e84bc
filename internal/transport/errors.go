package transport

import (
	"errors"
	"net/http"

	"catalogue/internal/middleware"
	"catalogue/internal/repository"
	"catalogue/internal/storage"
	"catalogue/internal/validation"

	"go.uber.org/zap"
)

// respondWithServiceError maps service errors onto HTTP responses.
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	if violations, ok := validation.AsViolations(err); ok {
		logger.Debug("Validation failed", zap.Error(err))
		middleware.RespondWithValidationErrors(w, violations)
		return
	}

	switch {
	case errors.Is(err, repository.ErrCategorieNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "categorie not found")
	case errors.Is(err, repository.ErrProduitNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "produit not found")
	case errors.Is(err, repository.ErrCategorieInUse):
		middleware.RespondWithError(w, http.StatusConflict, "categorie still referenced by produits")
	case errors.Is(err, storage.ErrStorage):
		logger.Error("Image storage failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to store image")
	default:
		logger.Error("Request failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
