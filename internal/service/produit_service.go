package service

import (
	"context"

	"catalogue/internal/domain"
	"catalogue/internal/repository"
)

// ProduitService defines the read-only produit use cases
type ProduitService interface {
	Get(ctx context.Context, id int64) (*domain.Produit, error)
	List(ctx context.Context, filter repository.ProduitFilter) ([]*domain.Produit, error)
}

type produitService struct {
	store repository.Store
}

// NewProduitService creates a new instance of ProduitService
func NewProduitService(store repository.Store) ProduitService {
	return &produitService{store: store}
}

func (s *produitService) Get(ctx context.Context, id int64) (*domain.Produit, error) {
	return s.store.Produits().FindByID(ctx, id)
}

func (s *produitService) List(ctx context.Context, filter repository.ProduitFilter) ([]*domain.Produit, error) {
	return s.store.Produits().List(ctx, filter)
}
