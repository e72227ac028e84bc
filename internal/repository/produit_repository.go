package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalogue/internal/domain"
)

var (
	ErrProduitNotFound = errors.New("produit not found")
)

// ProduitFilter restricts List. An empty CategorieIDs matches every produit.
type ProduitFilter struct {
	CategorieIDs []int64
	Page         Page
}

// ProduitRepository defines the interface for produit data access
type ProduitRepository interface {
	Create(ctx context.Context, produit *domain.Produit) error
	FindByID(ctx context.Context, id int64) (*domain.Produit, error)
	List(ctx context.Context, filter ProduitFilter) ([]*domain.Produit, error)
}

type produitRepository struct {
	db DBTX
}

// NewProduitRepository creates a new instance of ProduitRepository
func NewProduitRepository(db DBTX) ProduitRepository {
	return &produitRepository{db: db}
}

const produitSelect = `
	SELECT p.id, p.libelle, p.prix, p.date_creation, p.description,
	       p.cru, p.cuit, p.bio, p.debut_disponibilite, p.fin_disponibilite,
	       p.image_name, p.image_size, p.updated_at,
	       c.id, c.libelle, c.image_name, c.image_size, c.updated_at
	FROM produits p
	JOIN categories c ON c.id = p.categorie_id
`

// Create inserts a produit owned by an already stored categorie
func (r *produitRepository) Create(ctx context.Context, produit *domain.Produit) error {
	query := `
		INSERT INTO produits (
			categorie_id, libelle, prix, date_creation, description,
			cru, cuit, bio, debut_disponibilite, fin_disponibilite,
			image_name, image_size, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`

	row := produit.Row()
	var id int64
	err := r.db.QueryRowContext(
		ctx,
		query,
		row.CategorieID,
		row.Libelle,
		row.Prix,
		row.DateCreation,
		row.Description,
		row.Cru,
		row.Cuit,
		row.Bio,
		row.DebutDisponibilite,
		row.FinDisponibilite,
		row.ImageName,
		row.ImageSize,
		row.UpdatedAt,
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrCategorieNotFound
		}
		return fmt.Errorf("failed to create produit: %w", err)
	}

	produit.AssignID(id)
	return nil
}

// FindByID retrieves a produit and its categorie
func (r *produitRepository) FindByID(ctx context.Context, id int64) (*domain.Produit, error) {
	query := produitSelect + `WHERE p.id = $1`

	produit, err := scanProduit(r.db.QueryRowContext(ctx, query, id), map[int64]*domain.Categorie{})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProduitNotFound
		}
		return nil, fmt.Errorf("failed to find produit by ID: %w", err)
	}

	return produit, nil
}

// List retrieves one page of produits, optionally restricted to categories
func (r *produitRepository) List(ctx context.Context, filter ProduitFilter) ([]*domain.Produit, error) {
	whereClause := ""
	args := []interface{}{}
	argIndex := 1

	if len(filter.CategorieIDs) > 0 {
		whereClause = fmt.Sprintf("WHERE p.categorie_id IN (%s)", placeholders(argIndex, len(filter.CategorieIDs)))
		for _, id := range filter.CategorieIDs {
			args = append(args, id)
		}
		argIndex += len(filter.CategorieIDs)
	}

	limit, offset := filter.Page.limitOffset()
	query := fmt.Sprintf(`%s %s ORDER BY p.id ASC LIMIT $%d OFFSET $%d`, produitSelect, whereClause, argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list produits: %w", err)
	}
	defer rows.Close()

	// Produits of one categorie share a single *domain.Categorie.
	categories := map[int64]*domain.Categorie{}
	produits := []*domain.Produit{}
	for rows.Next() {
		produit, err := scanProduit(rows, categories)
		if err != nil {
			return nil, fmt.Errorf("failed to scan produit: %w", err)
		}
		produits = append(produits, produit)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating produits: %w", err)
	}

	return produits, nil
}

func scanProduit(s scanner, categories map[int64]*domain.Categorie) (*domain.Produit, error) {
	var (
		row domain.ProduitRow
		cat domain.CategorieRow
	)
	err := s.Scan(
		&row.ID,
		&row.Libelle,
		&row.Prix,
		&row.DateCreation,
		&row.Description,
		&row.Cru,
		&row.Cuit,
		&row.Bio,
		&row.DebutDisponibilite,
		&row.FinDisponibilite,
		&row.ImageName,
		&row.ImageSize,
		&row.UpdatedAt,
		&cat.ID,
		&cat.Libelle,
		&cat.ImageName,
		&cat.ImageSize,
		&cat.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	categorie, ok := categories[cat.ID]
	if !ok {
		categorie = domain.LoadCategorie(cat)
		categories[cat.ID] = categorie
	}

	produit := domain.LoadProduit(row)
	categorie.AddProduit(produit)
	return produit, nil
}
