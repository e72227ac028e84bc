package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalogue/internal/domain"
)

var (
	ErrCategorieNotFound = errors.New("categorie not found")
	ErrCategorieInUse    = errors.New("categorie still referenced by produits")
)

// CategorieListOptions controls List ordering and paging.
type CategorieListOptions struct {
	Order SortOrder
	Page  Page
}

// CategorieRepository defines the interface for categorie data access
type CategorieRepository interface {
	Create(ctx context.Context, categorie *domain.Categorie) error
	FindByID(ctx context.Context, id int64) (*domain.Categorie, error)
	List(ctx context.Context, opts CategorieListOptions) ([]*domain.Categorie, error)
	Delete(ctx context.Context, id int64) error
}

type categorieRepository struct {
	db DBTX
}

// NewCategorieRepository creates a new instance of CategorieRepository
func NewCategorieRepository(db DBTX) CategorieRepository {
	return &categorieRepository{db: db}
}

const categorieColumns = `id, libelle, image_name, image_size, updated_at`

// Create inserts a new categorie and assigns the generated id
func (r *categorieRepository) Create(ctx context.Context, categorie *domain.Categorie) error {
	query := `
		INSERT INTO categories (libelle, image_name, image_size, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	row := categorie.Row()
	var id int64
	err := r.db.QueryRowContext(ctx, query, row.Libelle, row.ImageName, row.ImageSize, row.UpdatedAt).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to create categorie: %w", err)
	}

	categorie.AssignID(id)
	return nil
}

// FindByID retrieves a categorie by ID
func (r *categorieRepository) FindByID(ctx context.Context, id int64) (*domain.Categorie, error) {
	query := `SELECT ` + categorieColumns + ` FROM categories WHERE id = $1`

	categorie, err := scanCategorie(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategorieNotFound
		}
		return nil, fmt.Errorf("failed to find categorie by ID: %w", err)
	}

	return categorie, nil
}

// List retrieves one page of categories ordered by libelle
func (r *categorieRepository) List(ctx context.Context, opts CategorieListOptions) ([]*domain.Categorie, error) {
	order := opts.Order
	if order != SortOrderAsc && order != SortOrderDesc {
		order = SortOrderAsc
	}
	limit, offset := opts.Page.limitOffset()

	query := fmt.Sprintf(`
		SELECT %s
		FROM categories
		ORDER BY libelle %s, id ASC
		LIMIT $1 OFFSET $2
	`, categorieColumns, order)

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Categorie{}
	for rows.Next() {
		categorie, err := scanCategorie(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan categorie: %w", err)
		}
		categories = append(categories, categorie)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// Delete removes a categorie. Categories still owning produits are kept
// and ErrCategorieInUse is returned.
func (r *categorieRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrCategorieInUse
		}
		return fmt.Errorf("failed to delete categorie: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCategorieNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCategorie(s scanner) (*domain.Categorie, error) {
	var row domain.CategorieRow
	if err := s.Scan(&row.ID, &row.Libelle, &row.ImageName, &row.ImageSize, &row.UpdatedAt); err != nil {
		return nil, err
	}
	return domain.LoadCategorie(row), nil
}
