package service

import (
	"context"
	"errors"
	"sort"

	"catalogue/internal/domain"
	"catalogue/internal/repository"
)

// mockStore keeps rows in memory. RunInTx restores the maps when fn fails.
type mockStore struct {
	categories map[int64]domain.CategorieRow
	produits   map[int64]domain.ProduitRow
	nextID     int64
	failCreate error
}

func newMockStore() *mockStore {
	return &mockStore{
		categories: make(map[int64]domain.CategorieRow),
		produits:   make(map[int64]domain.ProduitRow),
	}
}

func (m *mockStore) Categories() repository.CategorieRepository { return &mockCategorieRepository{m} }

func (m *mockStore) Produits() repository.ProduitRepository { return &mockProduitRepository{m} }

func (m *mockStore) RunInTx(ctx context.Context, fn func(tx repository.Store) error) error {
	categories := make(map[int64]domain.CategorieRow, len(m.categories))
	for k, v := range m.categories {
		categories[k] = v
	}
	produits := make(map[int64]domain.ProduitRow, len(m.produits))
	for k, v := range m.produits {
		produits[k] = v
	}

	if err := fn(m); err != nil {
		m.categories, m.produits = categories, produits
		return err
	}
	return nil
}

type mockCategorieRepository struct{ m *mockStore }

func (r *mockCategorieRepository) Create(ctx context.Context, c *domain.Categorie) error {
	if r.m.failCreate != nil {
		return r.m.failCreate
	}
	r.m.nextID++
	c.AssignID(r.m.nextID)
	r.m.categories[c.ID()] = c.Row()
	return nil
}

func (r *mockCategorieRepository) FindByID(ctx context.Context, id int64) (*domain.Categorie, error) {
	row, ok := r.m.categories[id]
	if !ok {
		return nil, repository.ErrCategorieNotFound
	}
	return domain.LoadCategorie(row), nil
}

func (r *mockCategorieRepository) List(ctx context.Context, opts repository.CategorieListOptions) ([]*domain.Categorie, error) {
	out := []*domain.Categorie{}
	for _, row := range r.m.categories {
		out = append(out, domain.LoadCategorie(row))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Libelle() < out[j].Libelle() })
	return out, nil
}

func (r *mockCategorieRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := r.m.categories[id]; !ok {
		return repository.ErrCategorieNotFound
	}
	for _, p := range r.m.produits {
		if p.CategorieID == id {
			return repository.ErrCategorieInUse
		}
	}
	delete(r.m.categories, id)
	return nil
}

type mockProduitRepository struct{ m *mockStore }

var errProduitRejected = errors.New("produit rejected")

func (r *mockProduitRepository) Create(ctx context.Context, p *domain.Produit) error {
	if p.Libelle() == "Refusé" {
		return errProduitRejected
	}
	row := p.Row()
	if _, ok := r.m.categories[row.CategorieID]; !ok {
		return repository.ErrCategorieNotFound
	}
	r.m.nextID++
	p.AssignID(r.m.nextID)
	r.m.produits[p.ID()] = p.Row()
	return nil
}

func (r *mockProduitRepository) FindByID(ctx context.Context, id int64) (*domain.Produit, error) {
	row, ok := r.m.produits[id]
	if !ok {
		return nil, repository.ErrProduitNotFound
	}
	return r.load(row), nil
}

func (r *mockProduitRepository) List(ctx context.Context, filter repository.ProduitFilter) ([]*domain.Produit, error) {
	out := []*domain.Produit{}
	for _, row := range r.m.produits {
		if len(filter.CategorieIDs) > 0 && !containsID(filter.CategorieIDs, row.CategorieID) {
			continue
		}
		out = append(out, r.load(row))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (r *mockProduitRepository) load(row domain.ProduitRow) *domain.Produit {
	p := domain.LoadProduit(row)
	if c, ok := r.m.categories[row.CategorieID]; ok {
		domain.LoadCategorie(c).AddProduit(p)
	}
	return p
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
