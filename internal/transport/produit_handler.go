package transport

import (
	"net/http"

	"catalogue/internal/domain"
	"catalogue/internal/middleware"
	"catalogue/internal/service"
	"catalogue/internal/view"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProduitHandler serves the read-only produit collection
type ProduitHandler struct {
	produitService service.ProduitService
	logger         *zap.Logger
	perPage        int
}

// NewProduitHandler creates a new ProduitHandler
func NewProduitHandler(produitService service.ProduitService, logger *zap.Logger, perPage int) *ProduitHandler {
	return &ProduitHandler{
		produitService: produitService,
		logger:         logger,
		perPage:        perPage,
	}
}

// RegisterRoutes registers all produit routes
func (h *ProduitHandler) RegisterRoutes(r chi.Router) {
	r.Route("/produits", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
	})
}

// List handles GET /produits, optionally filtered by categorie
func (h *ProduitHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, violations := parseProduitFilter(r.URL.Query(), h.perPage)
	if violations != nil {
		middleware.RespondWithValidationErrors(w, violations)
		return
	}

	produits, err := h.produitService.List(r.Context(), filter)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, view.ProjectAll(produits, domain.GroupProduitRead))
}

// Get handles GET /produits/{id}
func (h *ProduitHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, "produit not found")
		return
	}

	produit, err := h.produitService.Get(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, produit.Project(domain.GroupProduitRead))
}
