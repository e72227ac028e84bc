package service

import (
	"context"
	"fmt"

	"catalogue/internal/domain"
	"catalogue/internal/repository"

	"go.uber.org/zap"
)

// CreateCategorieInput is the writable part of a categorie.
type CreateCategorieInput struct {
	Libelle string
	Image   *domain.StagedFile
}

// CategorieService defines the categorie use cases
type CategorieService interface {
	Create(ctx context.Context, input CreateCategorieInput) (*domain.Categorie, error)
	Get(ctx context.Context, id int64) (*domain.Categorie, error)
	List(ctx context.Context, opts repository.CategorieListOptions) ([]*domain.Categorie, error)
	Delete(ctx context.Context, id int64) error
}

type categorieService struct {
	store  repository.Store
	images ImageStore
	logger *zap.Logger
	opts   options
}

// NewCategorieService creates a new instance of CategorieService
func NewCategorieService(store repository.Store, images ImageStore, logger *zap.Logger, opts ...Option) CategorieService {
	return &categorieService{
		store:  store,
		images: images,
		logger: logger,
		opts:   collectOptions(opts),
	}
}

// Create validates the input, commits the staged image and stores the
// categorie. A stored image is removed again if the insert fails.
func (s *categorieService) Create(ctx context.Context, input CreateCategorieInput) (*domain.Categorie, error) {
	categorie := domain.NewCategorie(input.Libelle)
	categorie.SetClock(s.opts.clock)
	categorie.SetImageFile(input.Image)

	if err := categorie.Validate().Err(); err != nil {
		return nil, err
	}

	stored, err := s.images.Commit(ctx, categorie)
	if err != nil {
		return nil, fmt.Errorf("failed to store categorie image: %w", err)
	}

	if err := s.store.Categories().Create(ctx, categorie); err != nil {
		s.images.Rollback(categorie, stored)
		return nil, err
	}

	return categorie, nil
}

func (s *categorieService) Get(ctx context.Context, id int64) (*domain.Categorie, error) {
	return s.store.Categories().FindByID(ctx, id)
}

func (s *categorieService) List(ctx context.Context, opts repository.CategorieListOptions) ([]*domain.Categorie, error) {
	return s.store.Categories().List(ctx, opts)
}

// Delete removes the categorie row, then its image file. Categories that
// still own produits are rejected with repository.ErrCategorieInUse.
func (s *categorieService) Delete(ctx context.Context, id int64) error {
	categorie, err := s.store.Categories().FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Categories().Delete(ctx, id); err != nil {
		return err
	}

	if name := categorie.ImageName(); name != nil {
		if err := s.images.Remove(categorie.ImageMapping(), *name); err != nil {
			s.logger.Warn("Failed to remove categorie image",
				zap.Int64("categorie_id", id),
				zap.String("image_name", *name),
				zap.Error(err),
			)
		}
	}

	return nil
}
