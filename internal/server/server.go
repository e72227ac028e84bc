package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"catalogue/internal/config"
	"catalogue/internal/database"
	"catalogue/internal/domain"
	custommiddleware "catalogue/internal/middleware"
	"catalogue/internal/repository"
	"catalogue/internal/service"
	"catalogue/internal/storage"
	"catalogue/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
}

// NewServer wires the catalogue API. redisClient may be nil when rate
// limiting is disabled.
func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service, images *storage.Uploader, redisClient *redis.Client) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.IsDevelopment()))

	if cfg.RateLimit.Enabled && redisClient != nil {
		router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "catalogue_rate_limit",
		}, logger))
	}

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := db.Health()
		status := http.StatusOK
		if health["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		custommiddleware.RespondWithJSON(w, status, health)
	})

	// Stored images
	for _, mapping := range []string{domain.CategorieImageMapping, domain.ProduitImageMapping} {
		prefix := "/images/" + mapping + "/"
		router.Handle(prefix+"*", http.StripPrefix(prefix, noListing(http.FileServer(images.FileSystem(mapping)))))
	}

	// Initialize repositories
	store := repository.NewStore(db.DB())

	// Initialize services
	categorieService := service.NewCategorieService(store, images, logger)
	produitService := service.NewProduitService(store)

	// Initialize handlers
	categorieHandler := transport.NewCategorieHandler(categorieService, logger, cfg.Pagination.ItemsPerPage, cfg.Storage.MaxUploadBytes())
	produitHandler := transport.NewProduitHandler(produitService, logger, cfg.Pagination.ItemsPerPage)

	// Register routes
	categorieHandler.RegisterRoutes(router)
	produitHandler.RegisterRoutes(router)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

// noListing hides directory indexes of the image folders.
func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
