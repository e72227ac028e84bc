package transport

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"catalogue/internal/domain"
	"catalogue/internal/middleware"
	"catalogue/internal/service"
	"catalogue/internal/view"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// CategorieHandler handles HTTP requests for categorie operations
type CategorieHandler struct {
	categorieService service.CategorieService
	logger           *zap.Logger
	perPage          int
	maxUploadBytes   int64
}

// NewCategorieHandler creates a new CategorieHandler
func NewCategorieHandler(categorieService service.CategorieService, logger *zap.Logger, perPage int, maxUploadBytes int64) *CategorieHandler {
	return &CategorieHandler{
		categorieService: categorieService,
		logger:           logger,
		perPage:          perPage,
		maxUploadBytes:   maxUploadBytes,
	}
}

// RegisterRoutes registers all categorie routes
func (h *CategorieHandler) RegisterRoutes(r chi.Router) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.With(
			chimiddleware.AllowContentType("multipart/form-data", "application/x-www-form-urlencoded"),
			middleware.BodyLimit(h.maxUploadBytes),
		).Post("/", h.Create)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles GET /categories
func (h *CategorieHandler) List(w http.ResponseWriter, r *http.Request) {
	opts, violations := parseCategorieListQuery(r.URL.Query(), h.perPage)
	if violations != nil {
		middleware.RespondWithValidationErrors(w, violations)
		return
	}

	categories, err := h.categorieService.List(r.Context(), opts)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, view.ProjectAll(categories, domain.GroupCategorieRead))
}

// Get handles GET /categories/{id}
func (h *CategorieHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, "categorie not found")
		return
	}

	categorie, err := h.categorieService.Get(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categorie.Project(domain.GroupCategorieRead))
}

// Create handles POST /categories with a libelle and an optional imageFile
func (h *CategorieHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 && r.ContentLength > h.maxUploadBytes {
		middleware.RespondWithError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.RespondWithError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		h.logger.Debug("Multipart decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	input := service.CreateCategorieInput{Libelle: r.FormValue("libelle")}
	if r.MultipartForm != nil {
		if files := r.MultipartForm.File["imageFile"]; len(files) > 0 {
			input.Image = stageUpload(files[0])
		}
	}

	categorie, err := h.categorieService.Create(r.Context(), input)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Categorie created", zap.Int64("categorie_id", categorie.ID()))
	middleware.RespondWithJSON(w, http.StatusCreated, categorie.Project(domain.GroupCategorieRead))
}

// Delete handles DELETE /categories/{id}
func (h *CategorieHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, "categorie not found")
		return
	}

	if err := h.categorieService.Delete(r.Context(), id); err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Categorie deleted", zap.Int64("categorie_id", id))
	w.WriteHeader(http.StatusNoContent)
}

func stageUpload(fh *multipart.FileHeader) *domain.StagedFile {
	return domain.NewStagedFile(fh.Filename, fh.Size, func() (io.ReadCloser, error) {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		return f, nil
	})
}
